package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"staffing/internal/entitymodel"
	"staffing/internal/entitymodel/sqlbundle"
	"staffing/pkg/domain"
)

// Database owns a connection pool and the three entity tables on it.
type Database struct {
	db      *sql.DB
	dialect sqlbundle.Dialect

	Employers *Table[domain.Employer, *domain.Employer]
	Employees *Table[domain.Employee, *domain.Employee]
	Clients   *Table[domain.Client, *domain.Client]
}

// NewDatabase applies the entity-model DDL for dialect and binds the tables.
func NewDatabase(ctx context.Context, db *sql.DB, dialect sqlbundle.Dialect) (*Database, error) {
	if err := ApplyDDL(ctx, db, dialect); err != nil {
		return nil, err
	}
	return &Database{
		db:        db,
		dialect:   dialect,
		Employers: NewTable[domain.Employer](db, dialect, entitymodel.Employer),
		Employees: NewTable[domain.Employee](db, dialect, entitymodel.Employee),
		Clients:   NewTable[domain.Client](db, dialect, entitymodel.Client),
	}, nil
}

// ApplyDDL creates any missing entity tables.
func ApplyDDL(ctx context.Context, db *sql.DB, dialect sqlbundle.Dialect) error {
	for _, stmt := range sqlbundle.SplitStatements(sqlbundle.Bundle(dialect)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (d *Database) DB() *sql.DB { return d.db }

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() sqlbundle.Dialect { return d.dialect }

// Close closes the connection pool.
func (d *Database) Close() error { return d.db.Close() }
