package session

import "context"

type sessionContextKey struct{}

// WithSession adds a session to the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// FromContext retrieves the session attached to the current request, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok && s != nil
}

// IsAuthenticated reports whether the context carries an authenticated
// session.
func IsAuthenticated(ctx context.Context) bool {
	s, ok := FromContext(ctx)
	return ok && s.Authenticated
}
