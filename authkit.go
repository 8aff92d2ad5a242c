package authkit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/authkit/authkit/pkg/cookie"
	"github.com/authkit/authkit/pkg/credentials"
	"github.com/authkit/authkit/pkg/endpoint"
	"github.com/authkit/authkit/pkg/hasher"
	"github.com/authkit/authkit/pkg/logger"
	"github.com/authkit/authkit/pkg/session"
	"github.com/authkit/authkit/pkg/userstore"
)

// Stage is the engine lifecycle state.
type Stage string

const (
	StageOff      Stage = "off"
	StageStarting Stage = "starting"
	StageOn       Stage = "on"
	StageFailed   Stage = "failed"
)

// startupTimeout bounds the asynchronous schema migration on Start.
const startupTimeout = 30 * time.Second

var (
	// ErrAlreadyStarted indicates a configuration mutation after Start.
	ErrAlreadyStarted = errors.New("authkit.already_started")
)

// Engine wires the user store, session manager, and endpoint API into one
// HTTP middleware. Configure it fully before Start; once started, the only
// interaction is serving requests.
type Engine struct {
	config       Config
	storage      userstore.Storage
	store        *userstore.Store
	sessions     *session.Manager
	api          *endpoint.API
	log          *slog.Logger
	errorHandler endpoint.ErrorHandler

	mu    sync.RWMutex
	stage Stage
}

// Option configures the Engine.
type Option func(*Engine)

// WithConfig sets custom configuration for every component.
func WithConfig(config Config) Option {
	return func(e *Engine) {
		e.config = config
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithStorage replaces the default SQLite backend, e.g. with
// userstore.NewPostgresStorage or userstore.NewMemoryStorage.
func WithStorage(storage userstore.Storage) Option {
	return func(e *Engine) {
		e.storage = storage
	}
}

// WithErrorHandler replaces the default fatal-error responder.
func WithErrorHandler(h endpoint.ErrorHandler) Option {
	return func(e *Engine) {
		e.errorHandler = h
	}
}

// New assembles an engine in the off stage. It fails on invalid hash or
// session configuration, or when the database file cannot be opened.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		config: DefaultConfig(),
		log:    logger.Discard(),
		stage:  StageOff,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.errorHandler == nil {
		e.errorHandler = e.respondError
	}

	h, err := hasher.New(e.config.Hash)
	if err != nil {
		return nil, err
	}

	if e.storage == nil {
		storage, err := userstore.OpenSQLite(e.config.DB.Path)
		if err != nil {
			return nil, err
		}
		e.storage = storage
	}

	e.sessions, err = session.New(
		session.WithConfig(e.config.Session),
		session.WithCookieManager(cookie.New(cookie.WithSecure(e.config.Session.Secure))),
		session.WithLogger(e.log),
	)
	if err != nil {
		return nil, err
	}

	e.store = userstore.New(e.storage, h, userstore.WithLogger(e.log))
	e.api = endpoint.New(e.store, e.sessions,
		endpoint.WithConfig(e.config.API),
		endpoint.WithLogger(e.log),
	)

	return e, nil
}

// Start transitions off → starting and runs the storage migration in the
// background, landing on on or failed. Calling Start in any other stage is
// a no-op.
func (e *Engine) Start() *Engine {
	e.mu.Lock()
	if e.stage != StageOff {
		e.mu.Unlock()
		return e
	}
	e.stage = StageStarting
	e.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		if migrator, ok := e.storage.(userstore.Migrator); ok {
			if err := migrator.Migrate(ctx); err != nil {
				e.log.Error("storage migration failed", logger.Component("engine"), logger.Error(err))
				e.setStage(StageFailed)
				return
			}
		}

		e.log.Info("engine started", logger.Component("engine"))
		e.setStage(StageOn)
	}()

	return e
}

// Stage returns the current lifecycle stage.
func (e *Engine) Stage() Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stage
}

func (e *Engine) setStage(s Stage) {
	e.mu.Lock()
	e.stage = s
	e.mu.Unlock()
}

// On configures an endpoint's redirect pair and user reaction. Only
// permitted before Start.
func (e *Engine) On(name string, redirects *endpoint.Redirects, react endpoint.UserReactFunc) error {
	if e.Stage() != StageOff {
		return ErrAlreadyStarted
	}
	return e.api.On(name, redirects, react)
}

// Sessions exposes the session manager, e.g. for reading session data in
// application handlers.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Store exposes the user store for programmatic user management.
func (e *Engine) Store() *userstore.Store {
	return e.store
}

// API exposes the endpoint table, e.g. for mounting on a chi router.
func (e *Engine) API() *endpoint.API {
	return e.api
}

// Middleware serves the full pipeline: lifecycle gate, session resolution,
// then endpoint dispatch, passing unmatched requests through to next.
func (e *Engine) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch e.Stage() {
		case StageOn:
		case StageStarting:
			e.errorHandler(w, r, credentials.NewError(credentials.FailStillStarting, nil))
			return
		default:
			e.errorHandler(w, r, credentials.NewError(credentials.FailNotStarted, nil))
			return
		}

		r, err := e.sessions.Run(w, r)
		if err != nil {
			e.errorHandler(w, r, credentials.NewError(credentials.FailSessionID, err))
			return
		}

		e.api.Dispatch(w, r, next, e.errorHandler)
	})
}

// SessionMiddleware resolves sessions without endpoint dispatch, for
// application routes that only need the request's session attached.
func (e *Engine) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, err := e.sessions.Run(w, r)
		if err != nil {
			e.errorHandler(w, r, credentials.NewError(credentials.FailSessionID, err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close releases the storage backend.
func (e *Engine) Close() error {
	if closer, ok := e.storage.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// respondError is the default fatal-error responder: log, then answer with
// the classifying code.
func (e *Engine) respondError(w http.ResponseWriter, r *http.Request, err error) {
	e.log.Error("pipeline aborted", logger.Component("engine"), logger.Error(err))

	code := credentials.FailDatabase
	var ferr *credentials.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}

	status := http.StatusInternalServerError
	if code == credentials.FailNotStarted || code == credentials.FailStillStarting {
		status = http.StatusServiceUnavailable
	}

	http.Error(w, code.String(), status)
}
