package userstore

// Config holds user-store configuration.
type Config struct {
	// Path is the SQLite database file used by the default backend.
	Path string `env:"DB_PATH" envDefault:"./authkit.db"`
}

// DefaultConfig returns the default user-store configuration.
func DefaultConfig() Config {
	return Config{Path: "./authkit.db"}
}
