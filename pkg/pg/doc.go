// Package pg bootstraps a pgx/v5 connection pool from environment-driven
// configuration, retrying with backoff until the database becomes available.
// It backs the PostgreSQL user-store storage.
package pg
