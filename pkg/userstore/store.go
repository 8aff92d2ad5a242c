package userstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authkit/authkit/pkg/credentials"
	"github.com/authkit/authkit/pkg/hasher"
	"github.com/authkit/authkit/pkg/logger"
)

// Store implements the user-record operations over a Storage backend.
// Expected negatives come back as a Receipt; a non-nil error is fatal and
// the accompanying Receipt is nil. Missing required fields short-circuit
// before the hasher or the storage is touched.
type Store struct {
	storage Storage
	hasher  *hasher.Hasher
	log     *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// New creates a user store over the given storage and hasher.
func New(storage Storage, h *hasher.Hasher, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		hasher:  h,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddUser inserts a new user record, hashing the password first.
func (s *Store) AddUser(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	if !c.HasUsername() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUsernameRequired), nil
	}
	if !c.HasPassword() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailPasswordRequired), nil
	}

	if !c.DatabaseReady() {
		if err := s.hasher.Hash(c); err != nil {
			return nil, fmt.Errorf("userstore: failed to hash password: %w", err)
		}
	}

	switch err := s.storage.Insert(ctx, c.Row()); {
	case err == nil:
		s.log.Info("user added", logger.Username(c.Username))
		return credentials.NewReceipt(c.Username).SetSuccess(true), nil
	case errors.Is(err, ErrUserExists):
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUserExists), nil
	default:
		return nil, fmt.Errorf("userstore: insert failed: %w", err)
	}
}

// AuthenticateUser verifies the supplied password against the stored hash,
// using the stored salt and iteration count.
func (s *Store) AuthenticateUser(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	if !c.HasUsername() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUsernameRequired), nil
	}
	if !c.HasPassword() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailPasswordRequired), nil
	}

	row, err := s.storage.Get(ctx, c.Username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUserDNE), nil
	case err != nil:
		return nil, fmt.Errorf("userstore: lookup failed: %w", err)
	}

	if !s.hasher.Verify(c.Password, row) {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailPasswordInvalid), nil
	}
	return credentials.NewReceipt(c.Username).SetSuccess(true), nil
}

// RemoveUser deletes a user record.
func (s *Store) RemoveUser(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	if !c.HasUsername() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUsernameRequired), nil
	}

	switch err := s.storage.Delete(ctx, c.Username); {
	case err == nil:
		s.log.Info("user removed", logger.Username(c.Username))
		return credentials.NewReceipt(c.Username).SetSuccess(true), nil
	case errors.Is(err, ErrUserNotFound):
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUserDNE), nil
	default:
		return nil, fmt.Errorf("userstore: delete failed: %w", err)
	}
}

// ChangeUsername renames a user record. The success receipt carries the new
// username; failure receipts carry the old one.
func (s *Store) ChangeUsername(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	if !c.HasUsername() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUsernameRequired), nil
	}
	if !c.HasNewUsername() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailNewUsernameRequired), nil
	}

	switch err := s.storage.Rename(ctx, c.Username, c.NewUsername); {
	case err == nil:
		s.log.Info("username changed", logger.Username(c.Username), slog.String("new_username", c.NewUsername))
		return credentials.NewReceipt(c.NewUsername).SetSuccess(true), nil
	case errors.Is(err, ErrUserExists):
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUserExists), nil
	case errors.Is(err, ErrUserNotFound):
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUserDNE), nil
	default:
		return nil, fmt.Errorf("userstore: rename failed: %w", err)
	}
}

// ChangePassword replaces a user's password, hashing the new one with a
// fresh salt first.
func (s *Store) ChangePassword(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	if !c.HasUsername() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUsernameRequired), nil
	}
	if !c.HasNewPassword() {
		return credentials.NewReceipt(c.Username).Fail(credentials.FailNewPasswordRequired), nil
	}

	// The hasher derives from Password; swap the new one in.
	c.Password = c.NewPassword

	if !c.DatabaseReady() {
		if err := s.hasher.Hash(c); err != nil {
			return nil, fmt.Errorf("userstore: failed to hash password: %w", err)
		}
	}

	switch err := s.storage.UpdatePassword(ctx, c.Row()); {
	case err == nil:
		s.log.Info("password changed", logger.Username(c.Username))
		return credentials.NewReceipt(c.Username).SetSuccess(true), nil
	case errors.Is(err, ErrUserNotFound):
		return credentials.NewReceipt(c.Username).Fail(credentials.FailUserDNE), nil
	default:
		return nil, fmt.Errorf("userstore: password update failed: %w", err)
	}
}

// RemoveUserAuth is RemoveUser gated behind re-authentication.
func (s *Store) RemoveUserAuth(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	return s.withAuth(ctx, c, s.RemoveUser)
}

// ChangeUsernameAuth is ChangeUsername gated behind re-authentication.
func (s *Store) ChangeUsernameAuth(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	return s.withAuth(ctx, c, s.ChangeUsername)
}

// ChangePasswordAuth is ChangePassword gated behind re-authentication.
func (s *Store) ChangePasswordAuth(ctx context.Context, c *credentials.Credentials) (*credentials.Receipt, error) {
	return s.withAuth(ctx, c, s.ChangePassword)
}

// withAuth authenticates an isolated copy of the credentials before running
// the base operation on the original, so verification cannot disturb the
// fields the base operation needs. Authentication failures propagate as-is.
func (s *Store) withAuth(
	ctx context.Context,
	c *credentials.Credentials,
	op func(context.Context, *credentials.Credentials) (*credentials.Receipt, error),
) (*credentials.Receipt, error) {
	receipt, err := s.AuthenticateUser(ctx, c.Copy())
	if err != nil {
		return nil, err
	}
	if !receipt.Success {
		return receipt, nil
	}
	return op(ctx, c)
}
