package hasher

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"

	"github.com/authkit/authkit/pkg/credentials"
)

// Hasher derives and verifies password hashes using PBKDF2-SHA256.
type Hasher struct {
	config Config
}

// New creates a hasher with the given config, failing on invalid parameters.
func New(config Config) (*Hasher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Hasher{config: config}, nil
}

// Hash derives the password hash onto the credentials. A missing salt is
// generated first from the secure random source; the derived hash and the
// iteration count used are written back so the credentials become
// database-ready. Failures are fatal, never a Receipt.
func (h *Hasher) Hash(c *credentials.Credentials) error {
	if !c.HasSalt() {
		salt := make([]byte, h.config.Length)
		if _, err := rand.Read(salt); err != nil {
			return errors.Join(ErrSaltGeneration, err)
		}
		c.Salt = hex.EncodeToString(salt)
	}

	key := pbkdf2.Key([]byte(c.Password), []byte(c.Salt), h.config.Iterations, h.config.Length, sha256.New)
	c.Hash = hex.EncodeToString(key)
	c.Iterations = h.config.Iterations
	return nil
}

// Verify re-derives the hash from the supplied password and the stored salt
// and iteration count, then compares it against the stored hash in constant
// time.
func (h *Hasher) Verify(password string, row credentials.Row) bool {
	key := pbkdf2.Key([]byte(password), []byte(row.Salt), row.Iterations, h.config.Length, sha256.New)
	derived := hex.EncodeToString(key)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(row.Hash)) == 1
}
