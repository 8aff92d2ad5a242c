package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authkit/authkit/pkg/credentials"
	"github.com/authkit/authkit/pkg/pg"
)

// pgUniqueViolation is the PostgreSQL unique_violation SQLSTATE.
const pgUniqueViolation = "23505"

// PostgresStorage implements Storage over a pgx connection pool, for
// deployments that already run PostgreSQL instead of a local SQLite file.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage wraps an existing pool. Call Migrate before first use.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

// OpenPostgres connects a fresh pool with pg.Connect and wraps it.
//
// Example:
//
//	storage, err := userstore.OpenPostgres(ctx, pgConfig)
//	engine, err := authkit.New(authkit.WithStorage(storage))
func OpenPostgres(ctx context.Context, cfg pg.Config) (*PostgresStorage, error) {
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgresStorage(pool), nil
}

// Close releases the underlying pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

// Migrate creates the users table if it does not exist.
func (s *PostgresStorage) Migrate(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		iterations INTEGER NOT NULL
	)`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("userstore: create users table: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Insert(ctx context.Context, row credentials.Row) error {
	const query = `INSERT INTO users (username, hash, salt, iterations) VALUES ($1, $2, $3, $4)`
	if _, err := s.pool.Exec(ctx, query, row.Username, row.Hash, row.Salt, row.Iterations); err != nil {
		if isPgUniqueViolation(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (s *PostgresStorage) Get(ctx context.Context, username string) (credentials.Row, error) {
	const query = `SELECT username, hash, salt, iterations FROM users WHERE username = $1`

	var row credentials.Row
	err := s.pool.QueryRow(ctx, query, username).Scan(&row.Username, &row.Hash, &row.Salt, &row.Iterations)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return credentials.Row{}, ErrUserNotFound
		}
		return credentials.Row{}, err
	}
	return row, nil
}

func (s *PostgresStorage) Delete(ctx context.Context, username string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStorage) Rename(ctx context.Context, username, newUsername string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET username = $1 WHERE username = $2`, newUsername, username)
	if err != nil {
		if isPgUniqueViolation(err) {
			return ErrUserExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStorage) UpdatePassword(ctx context.Context, row credentials.Row) error {
	const query = `UPDATE users SET hash = $1, salt = $2, iterations = $3 WHERE username = $4`
	tag, err := s.pool.Exec(ctx, query, row.Hash, row.Salt, row.Iterations, row.Username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
