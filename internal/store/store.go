// Package store persists opaque per-user collections in a key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// GuestUser owns the data when no user is configured.
const GuestUser = "guest"

// Collection names.
const (
	Transactions = "transactions"
	Goals        = "goals"
	Debts        = "debts"
)

// Store is a last-write-wins key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key of a user's collection, e.g.
// "budgetflow_transactions_alice".
func Key(collection, user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		user = GuestUser
	}
	return fmt.Sprintf("budgetflow_%s_%s", collection, user)
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by backend rooted at path. For the file
// backend path is a directory; for sqlite it is the database file.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
