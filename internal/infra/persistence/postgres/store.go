// Package postgres provides the Postgres-backed relational record store. The
// entity-model DDL is applied on startup; the server assigns ids through
// identity columns.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"staffing/internal/entitymodel/sqlbundle"
	"staffing/internal/infra/persistence/relational"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with OpenStores defaults while allowing overrides via env.
	defaultDSN = "postgres://localhost/staffing?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store is a relational.Database over a Postgres connection pool.
type Store struct {
	*relational.Database
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN), verifies connectivity and ensures the entity tables exist.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	database, err := relational.NewDatabase(ctx, db, sqlbundle.DialectPostgres)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Database: database}, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
