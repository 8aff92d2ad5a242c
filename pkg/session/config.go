package session

import (
	"fmt"
	"time"
)

// Config holds session-manager configuration. Timeouts follow one rule
// throughout: a negative max lifetime means the session never expires, and a
// non-positive idle timeout means it never idles out.
type Config struct {
	// Use disables the whole session layer when false.
	Use bool `env:"SESSION_USE" envDefault:"true"`

	// Secure sets the Secure flag on both session cookies.
	Secure bool `env:"SESSION_SECURE" envDefault:"true"`

	// Anon controls whether anonymous sessions are issued proactively.
	Anon bool `env:"SESSION_ANON" envDefault:"true"`

	// Auth controls whether login promotes to an authenticated session.
	Auth bool `env:"SESSION_AUTH" envDefault:"true"`

	// IDLength is the token length in random bytes before hex encoding.
	IDLength int `env:"SESSION_ID_LENGTH" envDefault:"32"`

	// AnonCookie and AuthCookie are the two cookie slots; they must differ.
	AnonCookie string `env:"SESSION_ANON_COOKIE" envDefault:"akid0"`
	AuthCookie string `env:"SESSION_AUTH_COOKIE" envDefault:"akid1"`

	AnonIdleTimeout time.Duration `env:"SESSION_ANON_IDLE_TIMEOUT" envDefault:"0"`
	AnonMaxLifetime time.Duration `env:"SESSION_ANON_MAX_LIFETIME" envDefault:"87600h"`

	AuthIdleTimeout time.Duration `env:"SESSION_AUTH_IDLE_TIMEOUT" envDefault:"1h"`
	AuthMaxLifetime time.Duration `env:"SESSION_AUTH_MAX_LIFETIME" envDefault:"-1s"`
}

// DefaultConfig returns the default session configuration: long-lived
// anonymous sessions that never idle out, and authenticated sessions with a
// one-hour idle timeout and no absolute expiry.
func DefaultConfig() Config {
	return Config{
		Use:             true,
		Secure:          true,
		Anon:            true,
		Auth:            true,
		IDLength:        32,
		AnonCookie:      "akid0",
		AuthCookie:      "akid1",
		AnonIdleTimeout: 0,
		AnonMaxLifetime: 10 * 365 * 24 * time.Hour,
		AuthIdleTimeout: time.Hour,
		AuthMaxLifetime: -1,
	}
}

// Timeouts returns the idle/max pair for the given session kind.
func (c Config) Timeouts(authenticated bool) (idle, max time.Duration) {
	if authenticated {
		return c.AuthIdleTimeout, c.AuthMaxLifetime
	}
	return c.AnonIdleTimeout, c.AnonMaxLifetime
}

// Validate rejects configurations the manager cannot operate with.
func (c Config) Validate() error {
	if c.IDLength < 1 {
		return fmt.Errorf("%w: id length (%d) is not positive", ErrInvalidConfig, c.IDLength)
	}
	if c.AnonCookie == "" || c.AuthCookie == "" {
		return fmt.Errorf("%w: cookie names must be non-empty", ErrInvalidConfig)
	}
	if c.AnonCookie == c.AuthCookie {
		return fmt.Errorf("%w: anon and auth cookie names must differ", ErrInvalidConfig)
	}
	return nil
}
