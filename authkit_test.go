package authkit_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit"
	"github.com/authkit/authkit/pkg/credentials"
	"github.com/authkit/authkit/pkg/endpoint"
	"github.com/authkit/authkit/pkg/session"
	"github.com/authkit/authkit/pkg/userstore"
)

func testEngine(t *testing.T, opts ...authkit.Option) *authkit.Engine {
	t.Helper()

	cfg := authkit.DefaultConfig()
	cfg.Session.Secure = false
	cfg.Hash.Iterations = 10
	cfg.Hash.Length = 16

	opts = append([]authkit.Option{
		authkit.WithConfig(cfg),
		authkit.WithStorage(userstore.NewMemoryStorage()),
	}, opts...)

	engine, err := authkit.New(opts...)
	require.NoError(t, err)
	return engine
}

func startEngine(t *testing.T, opts ...authkit.Option) *authkit.Engine {
	t.Helper()

	engine := testEngine(t, opts...)
	engine.Start()
	require.Eventually(t, func() bool {
		return engine.Stage() == authkit.StageOn
	}, time.Second, 5*time.Millisecond)
	return engine
}

func postForm(target string, fields url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(fields.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestLifecycle(t *testing.T) {
	t.Run("starts off and lands on", func(t *testing.T) {
		engine := testEngine(t)
		assert.Equal(t, authkit.StageOff, engine.Stage())

		engine.Start()
		require.Eventually(t, func() bool {
			return engine.Stage() == authkit.StageOn
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("requests before start are rejected", func(t *testing.T) {
		engine := testEngine(t)
		handler := engine.Middleware(http.NotFoundHandler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, postForm("/auth/login", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), credentials.FailNotStarted.String())
	})

	t.Run("requests while starting are rejected", func(t *testing.T) {
		block := make(chan struct{})
		engine := testEngine(t, authkit.WithStorage(&blockingStorage{
			MemoryStorage: userstore.NewMemoryStorage(),
			release:       block,
		}))
		engine.Start()

		handler := engine.Middleware(http.NotFoundHandler())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, postForm("/auth/login", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), credentials.FailStillStarting.String())

		close(block)
		require.Eventually(t, func() bool {
			return engine.Stage() == authkit.StageOn
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("failing migration lands on failed", func(t *testing.T) {
		engine := testEngine(t, authkit.WithStorage(&blockingStorage{
			MemoryStorage: userstore.NewMemoryStorage(),
			fail:          true,
		}))
		engine.Start()

		require.Eventually(t, func() bool {
			return engine.Stage() == authkit.StageFailed
		}, time.Second, 5*time.Millisecond)

		handler := engine.Middleware(http.NotFoundHandler())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, postForm("/auth/login", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("second start is a no-op", func(t *testing.T) {
		engine := startEngine(t)
		engine.Start()
		assert.Equal(t, authkit.StageOn, engine.Stage())
	})

	t.Run("configuration is frozen after start", func(t *testing.T) {
		engine := startEngine(t)
		err := engine.On(endpoint.Login, nil, nil)
		assert.ErrorIs(t, err, authkit.ErrAlreadyStarted)
	})
}

// TestServeFlow drives the middleware the way a browser would: register,
// log in, hit an application route, log out.
func TestServeFlow(t *testing.T) {
	engine := testEngine(t)
	require.NoError(t, engine.On(endpoint.Login, &endpoint.Redirects{
		Success: "/profile",
		Failure: "/login-page",
	}, nil))
	engine.Start()
	require.Eventually(t, func() bool {
		return engine.Stage() == authkit.StageOn
	}, time.Second, 5*time.Millisecond)

	var whoami string
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.IsAuthenticated(r.Context()) {
			whoami = "authenticated"
		} else {
			whoami = "anonymous"
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(engine.Middleware(app))
	defer server.Close()

	jar := newCookieJar(t)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	// First visit issues an anonymous session.
	resp, err := client.Get(server.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "anonymous", whoami)

	// Register.
	resp, err = client.PostForm(server.URL+"/auth/add-user", url.Values{
		"username": {"alice"}, "password": {"pw1"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	// Wrong password bounces to the failure page.
	resp, err = client.PostForm(server.URL+"/auth/login", url.Values{
		"username": {"alice"}, "password": {"wrong"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login-page", resp.Header.Get("Location"))

	// Correct login promotes the session and redirects.
	resp, err = client.PostForm(server.URL+"/auth/login", url.Values{
		"username": {"alice"}, "password": {"pw1"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile", resp.Header.Get("Location"))

	resp, err = client.Get(server.URL + "/profile")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "authenticated", whoami)

	// Logout demotes back to the anonymous session.
	resp, err = client.PostForm(server.URL+"/auth/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(server.URL + "/profile")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "anonymous", whoami)

	total, authenticated, _ := engine.Sessions().Stats()
	assert.Equal(t, 0, authenticated)
	assert.Positive(t, total)
}

func TestSessionMiddleware(t *testing.T) {
	engine := startEngine(t)

	handler := engine.SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := session.FromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStoreAccess(t *testing.T) {
	engine := startEngine(t)

	receipt, err := engine.Store().AddUser(context.Background(), &credentials.Credentials{
		Username: "alice", Password: "pw1",
	})
	require.NoError(t, err)
	assert.True(t, receipt.Success)
}

func newCookieJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}

// blockingStorage delays or fails its migration, for exercising the
// starting and failed stages.
type blockingStorage struct {
	*userstore.MemoryStorage
	release chan struct{}
	fail    bool
}

func (b *blockingStorage) Migrate(ctx context.Context) error {
	if b.fail {
		return context.DeadlineExceeded
	}
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
