package hasher

import "fmt"

// Config controls the key-derivation parameters.
type Config struct {
	// Iterations is the PBKDF2 iteration count.
	Iterations int `env:"HASH_ITERATIONS" envDefault:"20000"`

	// Length is the salt and derived-key length in bytes.
	Length int `env:"HASH_LENGTH" envDefault:"64"`
}

// DefaultConfig returns the default hashing parameters.
func DefaultConfig() Config {
	return Config{
		Iterations: 20000,
		Length:     64,
	}
}

// Validate rejects non-positive parameters. Misconfigured hashing is a
// programmer error that must be fixed before the engine starts.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations (%d) is not positive", ErrInvalidConfig, c.Iterations)
	}
	if c.Length < 1 {
		return fmt.Errorf("%w: length (%d) is not positive", ErrInvalidConfig, c.Length)
	}
	return nil
}
