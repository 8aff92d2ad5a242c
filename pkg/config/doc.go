// Package config loads component configuration structs from environment
// variables via `env` struct tags, reading a .env file once per process when
// one is present.
package config
