package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/jmoiron/sqlx"
)

type txStore struct {
	tx      *sqlx.Tx
	dialect Dialect
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the DB stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested transactions are not supported.
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) LockLifecycle(ctx context.Context) error {
	res, err := t.tx.ExecContext(ctx,
		t.tx.Rebind(`UPDATE lifecycle_lock SET acquired_at = ? WHERE id = 1`),
		encodeTime(time.Now()),
	)
	return exactlyOne(res, err)
}

func (t *txStore) Credentials() store.Credentials {
	return &credentialsRepo{q: t.tx, dialect: t.dialect}
}

func (t *txStore) Todos() store.Todos {
	return &todosRepo{q: t.tx, dialect: t.dialect}
}
