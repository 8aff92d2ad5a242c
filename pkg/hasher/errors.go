package hasher

import "errors"

var (
	// ErrInvalidConfig indicates non-positive iteration or length settings.
	ErrInvalidConfig = errors.New("hasher.invalid_config")

	// ErrSaltGeneration indicates the secure random source failed.
	ErrSaltGeneration = errors.New("hasher.salt_generation_failed")
)
