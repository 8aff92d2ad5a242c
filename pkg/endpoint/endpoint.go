package endpoint

import (
	"context"
	"net/http"

	"github.com/authkit/authkit/pkg/credentials"
)

// StartFunc is the first pipeline stage: the business-logic operation bound
// to the endpoint. A non-nil error is fatal and aborts the pipeline.
type StartFunc func(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error)

// InternalReactFunc is the fixed post-start hook wired per endpoint kind
// (session promotion on login, demotion on logout). It may swap the request
// when it rebinds the request context, and may adjust the receipt.
type InternalReactFunc func(receipt *credentials.Receipt, w http.ResponseWriter, r *http.Request) (*http.Request, error)

// UserReactFunc is the user-supplied reaction hook, invoked after the
// internal reaction and before the terminal stage.
type UserReactFunc func(receipt *credentials.Receipt, w http.ResponseWriter, r *http.Request)

// ErrorHandler terminates a pipeline that failed fatally. It is the Go
// rendition of continuation-passing next(err).
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Redirects is the terminal-stage redirect pair: where to send the client on
// success and on failure.
type Redirects struct {
	Success string
	Failure string
}

// Endpoint is one named operation's four-stage pipeline:
// start → internal react → user react → terminal (redirect or respond).
// Stages run strictly in order; a fatal start error skips everything after
// it. The caller owns the continuation and must invoke it exactly once after
// Run returns without error.
type Endpoint struct {
	name          string
	start         StartFunc
	internalReact InternalReactFunc
	react         UserReactFunc
	redirects     *Redirects
}

// NewEndpoint creates an endpoint with the given start function and an
// optional fixed internal reaction.
func NewEndpoint(name string, start StartFunc, internalReact InternalReactFunc) (*Endpoint, error) {
	if start == nil {
		return nil, ErrNilStart
	}
	return &Endpoint{
		name:          name,
		start:         start,
		internalReact: internalReact,
	}, nil
}

// Name returns the endpoint's operation name.
func (e *Endpoint) Name() string { return e.name }

// SetStart replaces the start function. Nil is a programmer error.
func (e *Endpoint) SetStart(start StartFunc) error {
	if start == nil {
		return ErrNilStart
	}
	e.start = start
	return nil
}

// SetReact replaces the user reaction hook. Nil restores the default no-op.
func (e *Endpoint) SetReact(react UserReactFunc) {
	e.react = react
}

// SetRedirect configures the terminal redirect pair. Both paths must be
// non-empty; nil clears the pair so the terminal stage leaves the response
// untouched.
func (e *Endpoint) SetRedirect(redirects *Redirects) error {
	if redirects != nil && (redirects.Success == "" || redirects.Failure == "") {
		return ErrIncompleteRedirects
	}
	e.redirects = redirects
	return nil
}

// Run executes the pipeline stages against the given credentials. It returns
// the (possibly context-rebound) request, the receipt the stages settled on,
// and a fatal error, if any. A start failure is wrapped with DATABASE_ERROR
// and skips every later stage, including the terminal one.
func (e *Endpoint) Run(w http.ResponseWriter, r *http.Request, c *credentials.Credentials) (*http.Request, *credentials.Receipt, error) {
	receipt, err := e.start(r.Context(), c)
	if err != nil {
		return r, nil, credentials.NewError(credentials.FailDatabase, err)
	}

	if e.internalReact != nil {
		r, err = e.internalReact(receipt, w, r)
		if err != nil {
			return r, nil, err
		}
	}

	if e.react != nil {
		e.react(receipt, w, r)
	}

	if e.redirects != nil {
		location := e.redirects.Failure
		if receipt.Success {
			location = e.redirects.Success
		}
		w.Header().Set("Location", location)
		w.WriteHeader(http.StatusSeeOther)
	}

	return r, receipt, nil
}
