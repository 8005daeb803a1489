// Package sqlite provides the single-file relational record store, created on
// first use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"staffing/internal/entitymodel/sqlbundle"
	"staffing/internal/infra/persistence/relational"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	driverName  = "sqlite"
	defaultPath = "staffing.db"
)

// Store is a relational.Database over a SQLite file.
type Store struct {
	*relational.Database
	path string
}

// NewStore opens (creating if needed) the database at path and ensures the
// entity tables exist. An empty path falls back to ./staffing.db.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer connection keeps SQLite from returning SQLITE_BUSY under
	// concurrent requests.
	db.SetMaxOpenConns(1)
	database, err := relational.NewDatabase(ctx, db, sqlbundle.DialectSQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Database: database, path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
