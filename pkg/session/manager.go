package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/authkit/authkit/pkg/cookie"
	"github.com/authkit/authkit/pkg/logger"
)

// Manager owns the in-process session registry and the two cookie slots that
// name sessions: a long-lived anonymous cookie issued proactively, and an
// authenticated cookie issued on login. The registry map is guarded so
// concurrent requests cannot corrupt it; concurrent writes to the same token
// remain last-write-wins, since one token is only ever driven by one client
// cookie at a time.
type Manager struct {
	config  Config
	cookies *cookie.Manager
	log     *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieManager sets the cookie manager used for both session cookies.
func WithCookieManager(cookies *cookie.Manager) Option {
	return func(m *Manager) {
		m.cookies = cookies
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// New creates a session manager, failing on invalid configuration.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config:   DefaultConfig(),
		log:      logger.Discard(),
		sessions: make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	if m.cookies == nil {
		m.cookies = cookie.New()
	}

	return m, nil
}

// Run resolves the caller's session and attaches it to the request context.
// An invalid session found along the way is dropped from the registry and
// cleared client-side before resolution continues, so a stale auth cookie
// falls back to the sibling anon cookie, and a stale anon cookie falls back
// to a fresh anonymous session. When anonymous sessions are disabled the
// request is left unattached.
func (m *Manager) Run(w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	if !m.config.Use {
		return r, nil
	}

	for {
		sess, cookieName := m.lookup(r)
		if sess == nil {
			if !m.config.Anon {
				return r, nil
			}

			anon, err := m.create(false)
			if err != nil {
				return r, err
			}
			m.setCookie(w, m.config.AnonCookie, anon)
			m.log.Debug("issued anonymous session", slog.String("token", anon.Token[:8]))
			return r.WithContext(WithSession(r.Context(), anon)), nil
		}

		if status := sess.Ping(); status != PingValid {
			m.Remove(sess.Token)
			m.cookies.Clear(w, cookieName)
			m.log.Debug("dropped session",
				slog.String("status", string(status)),
				slog.Bool("authenticated", sess.Authenticated),
			)
			// Re-resolve: the sibling cookie may still name a live session.
			r = m.forgetCookie(r, cookieName)
			continue
		}

		return r.WithContext(WithSession(r.Context(), sess)), nil
	}
}

// Authenticate promotes the request to an authenticated session. The new
// session adopts the prior anonymous session's data map by reference, so
// values written before login stay visible after it (and vice versa, for as
// long as both sessions live). No-op when sessions or authenticated sessions
// are disabled.
func (m *Manager) Authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	if !m.config.Use || !m.config.Auth {
		return r, nil
	}

	auth, err := m.create(true)
	if err != nil {
		return r, err
	}

	if anon, ok := FromContext(r.Context()); ok && !anon.Authenticated {
		auth.Data = anon.Data
	}

	m.setCookie(w, m.config.AuthCookie, auth)
	m.log.Debug("issued authenticated session", slog.String("token", auth.Token[:8]))
	return r.WithContext(WithSession(r.Context(), auth)), nil
}

// Unauthenticate demotes the request back to anonymous: the authenticated
// session is deleted server-side, its cookie cleared client-side, and
// whatever session the anon cookie still names is re-attached (possibly
// none). No-op without an authenticated session attached.
func (m *Manager) Unauthenticate(w http.ResponseWriter, r *http.Request) *http.Request {
	sess, ok := FromContext(r.Context())
	if !ok || !sess.Authenticated || !m.config.Auth {
		return r
	}

	m.Remove(sess.Token)
	m.cookies.Clear(w, m.config.AuthCookie)
	m.log.Debug("destroyed authenticated session")

	var anon *Session
	if token, err := m.cookies.Get(r, m.config.AnonCookie); err == nil {
		anon, _ = m.Get(token)
	}
	return r.WithContext(WithSession(r.Context(), anon))
}

// Enabled reports whether the session layer is active.
func (m *Manager) Enabled() bool {
	return m.config.Use
}

// Get returns the registered session for a token.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[token]
	return sess, ok
}

// Remove deletes a session from the registry.
func (m *Manager) Remove(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Stats returns registry counters.
func (m *Manager) Stats() (total, authenticated, anonymous int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total = len(m.sessions)
	for _, sess := range m.sessions {
		if sess.Authenticated {
			authenticated++
		} else {
			anonymous++
		}
	}
	return
}

// lookup resolves the request's session, preferring the auth cookie over the
// anon cookie, and reports which cookie named it.
func (m *Manager) lookup(r *http.Request) (*Session, string) {
	for _, name := range []string{m.config.AuthCookie, m.config.AnonCookie} {
		token, err := m.cookies.Get(r, name)
		if err != nil || token == "" {
			continue
		}
		if sess, ok := m.Get(token); ok {
			return sess, name
		}
	}
	return nil, ""
}

// create mints and registers a session of the given kind.
func (m *Manager) create(authenticated bool) (*Session, error) {
	token, err := m.generateToken()
	if err != nil {
		return nil, err
	}

	idle, max := m.config.Timeouts(authenticated)
	sess := newSession(token, idle, max, authenticated)

	m.mu.Lock()
	m.sessions[token] = sess
	m.mu.Unlock()

	return sess, nil
}

// setCookie writes a session cookie. A negative max lifetime produces a
// session cookie with no expiry attributes; otherwise the cookie carries the
// owning session's absolute expiry.
func (m *Manager) setCookie(w http.ResponseWriter, name string, sess *Session) {
	opts := []cookie.Option{cookie.WithSecure(m.config.Secure)}

	if _, max := m.config.Timeouts(sess.Authenticated); max >= 0 {
		opts = append(opts,
			cookie.WithMaxAge(int(max.Seconds())),
			cookie.WithExpires(sess.ExpiresAt),
		)
	}

	m.cookies.Set(w, name, sess.Token, opts...)
}

// forgetCookie strips a cookie from the request copy so the resolution loop
// does not see the just-cleared value again.
func (m *Manager) forgetCookie(r *http.Request, name string) *http.Request {
	remaining := r.Cookies()
	r2 := r.Clone(r.Context())
	r2.Header.Del("Cookie")
	for _, c := range remaining {
		if c.Name != name {
			r2.AddCookie(c)
		}
	}
	return r2
}

// generateToken creates a cryptographically secure session token.
func (m *Manager) generateToken() (string, error) {
	b := make([]byte, m.config.IDLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return hex.EncodeToString(b), nil
}
