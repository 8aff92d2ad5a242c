package session

import "errors"

var (
	// ErrInvalidConfig indicates the manager configuration cannot be used.
	ErrInvalidConfig = errors.New("session.invalid_config")

	// ErrTokenGeneration indicates the secure random source failed while
	// minting a session token.
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)
