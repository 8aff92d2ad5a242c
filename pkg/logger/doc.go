// Package logger provides a small slog factory with format/level options and
// the attribute helpers shared across authkit components, so log keys stay
// consistent between packages.
package logger
