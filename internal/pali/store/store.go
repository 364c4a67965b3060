package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrRollbackFailed means a transaction failed and could not be rolled
	// back, so the stored state is unknown.
	ErrRollbackFailed = errors.New("store: rollback failed")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Sub-repositories are methods so a Tx-scoped store
// can hand out the same repos bound to the transaction.
type Store interface {
	Credentials() Credentials
	Todos() Todos

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. A failed
	// rollback is reported wrapped in ErrRollbackFailed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error

	// LockLifecycle takes the lifecycle lock row for the rest of the
	// transaction. Bootstrap and reinitialize call it first so that they
	// serialize against each other, including across processes.
	LockLifecycle(ctx context.Context) error
}

type Credentials interface {
	// CreateCredential inserts a credential. A duplicate secret hash returns
	// ErrAlreadyExists.
	CreateCredential(ctx context.Context, c domain.Credential) error

	// CreateInitialAdmin inserts c only if no admin credential exists yet,
	// in a single statement. Returns ErrAlreadyExists when nothing was
	// inserted.
	CreateInitialAdmin(ctx context.Context, c domain.Credential) error

	GetCredentialByID(ctx context.Context, id string) (domain.Credential, error)

	// GetActiveCredentialByHash returns ErrNotFound for unknown and revoked
	// hashes alike.
	GetActiveCredentialByHash(ctx context.Context, hash string) (domain.Credential, error)

	// ListCredentials returns every credential, newest first.
	ListCredentials(ctx context.Context) ([]domain.Credential, error)

	// TouchLastUsed stamps last_used_at. ErrNotFound if the row is gone.
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// RevokeCredential clears the active flag. It reports whether a row
	// changed; ErrNotFound if no credential has that id.
	RevokeCredential(ctx context.Context, id string) (bool, error)

	// DeactivateAdmins revokes every active admin credential and returns how
	// many were revoked.
	DeactivateAdmins(ctx context.Context) (int64, error)

	// HasAdmin reports whether any admin credential exists, active or not.
	HasAdmin(ctx context.Context) (bool, error)

	// CountCredentials returns totals used by the audit worker.
	CountCredentials(ctx context.Context) (CredentialCounts, error)

	// DeleteCredential physically removes a credential. ErrNotFound if absent.
	DeleteCredential(ctx context.Context, id string) error
}

type CredentialCounts struct {
	Total        int64
	Active       int64
	Admins       int64
	ActiveAdmins int64
}

type Todos interface {
	CreateTodo(ctx context.Context, t domain.Todo) error
	GetTodo(ctx context.Context, id string) (domain.Todo, error)

	// ListTodos orders by priority then creation time, both descending. A
	// nil completed returns every todo.
	ListTodos(ctx context.Context, completed *bool) ([]domain.Todo, error)

	// SearchTodos matches query as a case-insensitive substring of the title
	// or description.
	SearchTodos(ctx context.Context, query string) ([]domain.Todo, error)

	// UpdateTodo writes every mutable column. ErrNotFound if the row is gone.
	UpdateTodo(ctx context.Context, t domain.Todo) error

	DeleteTodo(ctx context.Context, id string) error

	// FindTodoIDsByPrefix returns at most limit ids starting with prefix.
	FindTodoIDsByPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
}
