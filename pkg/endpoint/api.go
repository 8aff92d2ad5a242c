package endpoint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/authkit/authkit/pkg/credentials"
	"github.com/authkit/authkit/pkg/logger"
	"github.com/authkit/authkit/pkg/session"
	"github.com/authkit/authkit/pkg/userstore"
)

// The fixed endpoint set.
const (
	AddUser            = "add-user"
	RemoveUser         = "remove-user"
	RemoveUserAuth     = "remove-user-auth"
	ChangeUsername     = "change-username"
	ChangeUsernameAuth = "change-username-auth"
	ChangePassword     = "change-password"
	ChangePasswordAuth = "change-password-auth"
	Login              = "login"
	Logout             = "logout"
)

// Config holds API routing configuration.
type Config struct {
	// Use disables dispatching entirely when false; requests pass through.
	Use bool `env:"API_USE" envDefault:"true"`

	// Namespace is the path prefix the endpoints live under.
	Namespace string `env:"API_NAMESPACE" envDefault:"/auth"`
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{Use: true, Namespace: "/auth"}
}

// API maps the fixed endpoint names onto user-store operations and owns the
// per-endpoint pipelines, including the internal session reactions for login
// and logout.
type API struct {
	config    Config
	endpoints map[string]*Endpoint
	sessions  *session.Manager
	log       *slog.Logger
}

// APIOption configures an API.
type APIOption func(*API)

// WithConfig sets custom routing configuration.
func WithConfig(config Config) APIOption {
	return func(a *API) {
		a.config = config
	}
}

// WithLogger sets a custom logger for the API.
func WithLogger(log *slog.Logger) APIOption {
	return func(a *API) {
		a.log = log
	}
}

// New builds the endpoint table over the given store and session manager.
func New(store *userstore.Store, sessions *session.Manager, opts ...APIOption) *API {
	a := &API{
		config:   DefaultConfig(),
		sessions: sessions,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}

	starts := map[string]StartFunc{
		AddUser:            store.AddUser,
		RemoveUser:         store.RemoveUser,
		RemoveUserAuth:     store.RemoveUserAuth,
		ChangeUsername:     store.ChangeUsername,
		ChangeUsernameAuth: store.ChangeUsernameAuth,
		ChangePassword:     store.ChangePassword,
		ChangePasswordAuth: store.ChangePasswordAuth,
		Login:              store.AuthenticateUser,
		Logout: func(_ context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
			// Logout has no store work; its internal reaction decides the outcome.
			return credentials.NewReceipt(c.Username), nil
		},
	}

	a.endpoints = make(map[string]*Endpoint, len(starts))
	for name, start := range starts {
		var internal InternalReactFunc
		switch name {
		case Login:
			internal = a.loginReact
		case Logout:
			internal = a.logoutReact
		}
		a.endpoints[name] = &Endpoint{name: name, start: start, internalReact: internal}
	}

	return a
}

// On configures an endpoint's redirect pair and user reaction. A nil
// redirects clears the pair; a nil react restores the default no-op.
func (a *API) On(name string, redirects *Redirects, react UserReactFunc) error {
	ep, ok := a.endpoints[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
	}
	if err := ep.SetRedirect(redirects); err != nil {
		return err
	}
	ep.SetReact(react)
	return nil
}

// Endpoint returns the pipeline registered under a name.
func (a *API) Endpoint(name string) (*Endpoint, bool) {
	ep, ok := a.endpoints[name]
	return ep, ok
}

// Dispatch routes a request to its endpoint pipeline. Requests outside the
// namespace, with unknown endpoint names, or with the API disabled pass
// through to next untouched. After a dispatched pipeline the continuation
// runs exactly once; fatal pipeline errors go to onError instead.
func (a *API) Dispatch(w http.ResponseWriter, r *http.Request, next http.Handler, onError ErrorHandler) {
	if !a.config.Use {
		next.ServeHTTP(w, r)
		return
	}

	dir, name := path.Split(path.Clean(r.URL.Path))
	if strings.TrimSuffix(dir, "/") != strings.TrimSuffix(a.config.Namespace, "/") {
		next.ServeHTTP(w, r)
		return
	}
	ep, ok := a.endpoints[name]
	if !ok {
		next.ServeHTTP(w, r)
		return
	}

	c, err := parseCredentials(r)
	if err != nil {
		onError(w, r, err)
		return
	}

	a.log.Debug("dispatching endpoint", logger.Endpoint(name), logger.Username(c.Username))

	r, _, err = ep.Run(w, r, c)
	if err != nil {
		a.log.Error("endpoint pipeline failed", logger.Endpoint(name), logger.Error(err))
		onError(w, r, err)
		return
	}

	next.ServeHTTP(w, r)
}

// loginReact promotes the session after a successful authentication.
func (a *API) loginReact(receipt *credentials.Receipt, w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	if !receipt.Success {
		return r, nil
	}

	r2, err := a.sessions.Authenticate(w, r)
	if err != nil {
		return r, credentials.NewError(credentials.FailSessionID, err)
	}
	return r2, nil
}

// logoutReact demotes the session; without an authenticated session attached
// there is nothing to log out of.
func (a *API) logoutReact(receipt *credentials.Receipt, w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.Authenticated || !a.sessions.Enabled() {
		receipt.Fail(credentials.FailNotAuthenticated)
		return r, nil
	}

	receipt.SetSuccess(true)
	return a.sessions.Unauthenticate(w, r), nil
}

// parseCredentials buffers the request body and parses it as URL-encoded
// form fields.
func parseCredentials(r *http.Request) (*credentials.Credentials, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, credentials.NewError(credentials.FailDatabase, fmt.Errorf("endpoint: read body: %w", err))
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		// Malformed pairs are dropped, not fatal; parse what survived.
		values = url.Values{}
	}
	return credentials.FromForm(values), nil
}
