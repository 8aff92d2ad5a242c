package session

import (
	"time"

	"github.com/google/uuid"
)

// PingStatus is the result of a lazy liveness check.
type PingStatus string

const (
	// PingValid means the session is live; the ping refreshed its activity.
	PingValid PingStatus = "valid"
	// PingIdle means too much time passed since the last ping.
	PingIdle PingStatus = "idle"
	// PingExpired means the session passed its absolute expiry.
	PingExpired PingStatus = "expired"
)

// Session is one visitor's server-side state, tracked by a cookie-delivered
// token. Anonymous and authenticated sessions share the type; they differ in
// the Authenticated flag and their timeout policy.
type Session struct {
	ID           uuid.UUID
	Token        string
	Data         map[string]any
	CreatedAt    time.Time
	LastPingedAt time.Time

	// ExpiresAt is the absolute expiry; zero means the session never expires.
	ExpiresAt time.Time

	// IdleTimeout is the maximum gap between pings; zero or negative means
	// the session never idles out.
	IdleTimeout time.Duration

	Authenticated bool
}

// newSession creates a session with the given timeout pair. A negative max
// lifetime means no absolute expiry.
func newSession(token string, idle, max time.Duration, authenticated bool) *Session {
	now := time.Now()
	s := &Session{
		ID:            uuid.New(),
		Token:         token,
		Data:          make(map[string]any),
		CreatedAt:     now,
		LastPingedAt:  now,
		IdleTimeout:   idle,
		Authenticated: authenticated,
	}
	if max >= 0 {
		s.ExpiresAt = now.Add(max)
	}
	return s
}

// Ping checks the session against its absolute expiry and idle timeout,
// refreshing LastPingedAt only when the session is still valid.
func (s *Session) Ping() PingStatus {
	now := time.Now()
	if !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) {
		return PingExpired
	}
	if s.IdleTimeout > 0 && now.Sub(s.LastPingedAt) > s.IdleTimeout {
		return PingIdle
	}
	s.LastPingedAt = now
	return PingValid
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// Set stores a value in session data.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}
