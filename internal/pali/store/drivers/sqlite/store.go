package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/pali/internal/pali/store/drivers/sqldb"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// NewStore opens a SQLite database. Use ":memory:" for an ephemeral store.
func NewStore(dsn string) (*sqldb.Store, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers; a single connection also keeps an in-memory
	// database alive and shared between callers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return sqldb.New(db, Dialect), nil
}

// FileDSN builds a DSN for a database file with the pragmas the service
// expects.
func FileDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

var Dialect = sqldb.Dialect{
	Name:              driverName,
	IsUniqueViolation: isUniqueViolation,
	Migrate:           applyMigrations,
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
