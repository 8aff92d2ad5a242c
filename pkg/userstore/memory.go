package userstore

import (
	"context"
	"sync"

	"github.com/authkit/authkit/pkg/credentials"
)

// MemoryStorage implements Storage with an in-process map. It backs tests
// and single-process deployments that do not need persistence.
type MemoryStorage struct {
	mu   sync.RWMutex
	rows map[string]credentials.Row
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{rows: make(map[string]credentials.Row)}
}

func (m *MemoryStorage) Insert(ctx context.Context, row credentials.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[row.Username]; exists {
		return ErrUserExists
	}
	m.rows[row.Username] = row
	return nil
}

func (m *MemoryStorage) Get(ctx context.Context, username string) (credentials.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, exists := m.rows[username]
	if !exists {
		return credentials.Row{}, ErrUserNotFound
	}
	return row, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[username]; !exists {
		return ErrUserNotFound
	}
	delete(m.rows, username)
	return nil
}

func (m *MemoryStorage) Rename(ctx context.Context, username, newUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[newUsername]; exists {
		return ErrUserExists
	}
	row, exists := m.rows[username]
	if !exists {
		return ErrUserNotFound
	}

	delete(m.rows, username)
	row.Username = newUsername
	m.rows[newUsername] = row
	return nil
}

func (m *MemoryStorage) UpdatePassword(ctx context.Context, row credentials.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[row.Username]; !exists {
		return ErrUserNotFound
	}
	m.rows[row.Username] = row
	return nil
}
