package userstore

import (
	"context"
	"errors"

	"github.com/authkit/authkit/pkg/credentials"
)

var (
	// ErrUserExists indicates the username is already taken.
	ErrUserExists = errors.New("userstore.user_exists")

	// ErrUserNotFound indicates no record exists for the username.
	ErrUserNotFound = errors.New("userstore.user_not_found")
)

// Storage is the persistence boundary: a row store keyed by username. Any
// error other than the two sentinels above is treated as fatal by the Store.
type Storage interface {
	// Insert creates a new user row. ErrUserExists if the username is taken.
	Insert(ctx context.Context, row credentials.Row) error

	// Get retrieves the row for a username. ErrUserNotFound if absent.
	Get(ctx context.Context, username string) (credentials.Row, error)

	// Delete removes the row. ErrUserNotFound if absent.
	Delete(ctx context.Context, username string) error

	// Rename moves a row to a new username. ErrUserExists if the new name is
	// taken, ErrUserNotFound if the old one is absent.
	Rename(ctx context.Context, username, newUsername string) error

	// UpdatePassword replaces the hash, salt, and iteration columns of the
	// row. ErrUserNotFound if absent.
	UpdatePassword(ctx context.Context, row credentials.Row) error
}

// Migrator is implemented by storages that manage their own schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}
