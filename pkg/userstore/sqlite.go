package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/authkit/authkit/pkg/credentials"
)

// userRow is the bun model for the users table.
type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	Username   string `bun:"username,pk"`
	Hash       string `bun:"hash,notnull"`
	Salt       string `bun:"salt,notnull"`
	Iterations int    `bun:"iterations,notnull"`
}

func toRow(r userRow) credentials.Row {
	return credentials.Row{Username: r.Username, Hash: r.Hash, Salt: r.Salt, Iterations: r.Iterations}
}

func fromRow(r credentials.Row) userRow {
	return userRow{Username: r.Username, Hash: r.Hash, Salt: r.Salt, Iterations: r.Iterations}
}

// SQLiteStorage implements Storage over a file-backed SQLite database.
type SQLiteStorage struct {
	db *bun.DB
}

// OpenSQLite opens (creating if necessary) the SQLite database at path.
// The handle is lazy; call Migrate to touch the file and set up the schema.
func OpenSQLite(path string) (*SQLiteStorage, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("userstore: open sqlite %q: %w", path, err)
	}
	return &SQLiteStorage{db: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

// NewSQLiteStorage wraps an existing bun handle without migrating.
func NewSQLiteStorage(db *bun.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// Migrate creates the users table if it does not exist.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*userRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("userstore: create users table: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Insert(ctx context.Context, row credentials.Row) error {
	model := fromRow(row)
	if _, err := s.db.NewInsert().Model(&model).Exec(ctx); err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (s *SQLiteStorage) Get(ctx context.Context, username string) (credentials.Row, error) {
	var model userRow
	err := s.db.NewSelect().Model(&model).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return credentials.Row{}, ErrUserNotFound
		}
		return credentials.Row{}, err
	}
	return toRow(model), nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, username string) error {
	res, err := s.db.NewDelete().Model((*userRow)(nil)).Where("username = ?", username).Exec(ctx)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLiteStorage) Rename(ctx context.Context, username, newUsername string) error {
	res, err := s.db.NewUpdate().Model((*userRow)(nil)).
		Set("username = ?", newUsername).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrUserExists
		}
		return err
	}
	return checkAffected(res)
}

func (s *SQLiteStorage) UpdatePassword(ctx context.Context, row credentials.Row) error {
	res, err := s.db.NewUpdate().Model((*userRow)(nil)).
		Set("hash = ?", row.Hash).
		Set("salt = ?", row.Salt).
		Set("iterations = ?", row.Iterations).
		Where("username = ?", row.Username).
		Exec(ctx)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// Close closes the underlying database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isSQLiteUniqueViolation matches the constraint message emitted by both the
// cgo and pure-Go drivers behind sqliteshim.
func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
