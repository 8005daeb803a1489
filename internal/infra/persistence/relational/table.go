// Package relational implements the durable record store on top of
// database/sql. One table per entity; the engine assigns the primary key.
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"staffing/internal/entitymodel"
	"staffing/internal/entitymodel/sqlbundle"
	"staffing/pkg/domain"
)

// Table is a domain.Store backed by a single relational table.
type Table[T domain.Record, P domain.RecordPtr[T]] struct {
	db      *sql.DB
	dialect sqlbundle.Dialect
	schema  *entitymodel.Schema

	selectCols string
	insertSQL  string
	updateSQL  string
	getSQL     string
	lockSQL    string
	listSQL    string
}

// NewTable binds schema to an open database using dialect placeholders.
func NewTable[T domain.Record, P domain.RecordPtr[T]](db *sql.DB, dialect sqlbundle.Dialect, schema *entitymodel.Schema) *Table[T, P] {
	t := &Table[T, P]{db: db, dialect: dialect, schema: schema}
	t.prepareSQL()
	return t
}

func (t *Table[T, P]) prepareSQL() {
	table := sqlbundle.Quote(t.schema.Table())
	id := sqlbundle.Quote(t.schema.IDField())

	all := make([]string, 0, len(t.schema.Fields))
	for _, f := range t.schema.Fields {
		all = append(all, sqlbundle.Quote(f.Name))
	}
	t.selectCols = strings.Join(all, ", ")

	mutable := t.schema.Mutable()
	cols := make([]string, len(mutable))
	marks := make([]string, len(mutable))
	sets := make([]string, len(mutable))
	for i, f := range mutable {
		cols[i] = sqlbundle.Quote(f.Name)
		marks[i] = t.placeholder(i + 1)
		sets[i] = cols[i] + " = " + marks[i]
	}

	t.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "), id)
	t.updateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		table, strings.Join(sets, ", "), id, t.placeholder(len(mutable)+1))
	t.getSQL = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", t.selectCols, table, id, t.placeholder(1))
	t.lockSQL = t.getSQL
	if t.dialect == sqlbundle.DialectPostgres {
		t.lockSQL += " FOR UPDATE"
	}
	t.listSQL = fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", t.selectCols, table, id)
}

func (t *Table[T, P]) placeholder(n int) string {
	if t.dialect == sqlbundle.DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Schema returns the bound entity schema.
func (t *Table[T, P]) Schema() *entitymodel.Schema { return t.schema }

type rowScanner interface {
	Scan(dest ...any) error
}

func (t *Table[T, P]) scan(row rowScanner) (T, error) {
	var rec T
	var id int64
	values := make([]string, len(t.schema.Fields)-1)
	dest := make([]any, 0, len(t.schema.Fields))
	dest = append(dest, &id)
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return rec, err
	}
	p := P(&rec)
	p.SetRecordID(id)
	for i, f := range t.schema.Mutable() {
		p.SetField(f.Name, values[i])
	}
	return rec, nil
}

func (t *Table[T, P]) args(rec T) []any {
	mutable := t.schema.Mutable()
	out := make([]any, len(mutable))
	for i, f := range mutable {
		out[i] = rec.Field(f.Name)
	}
	return out
}

// List returns all rows ordered by id, which matches insertion order.
func (t *Table[T, P]) List(ctx context.Context) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.listSQL)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.schema.Table(), err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]T, 0)
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.schema.Table(), err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.schema.Table(), err)
	}
	return out, nil
}

// Create inserts the record in a single-row transaction and returns it with
// the engine-assigned id.
func (t *Table[T, P]) Create(ctx context.Context, record T) (created T, retErr error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return created, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	var id int64
	if err := tx.QueryRowContext(ctx, t.insertSQL, t.args(record)...).Scan(&id); err != nil {
		return created, fmt.Errorf("insert %s: %w", t.schema.Table(), err)
	}
	if err := tx.Commit(); err != nil {
		return created, fmt.Errorf("commit: %w", err)
	}
	P(&record).SetRecordID(id)
	return record, nil
}

// Get is a primary-key lookup.
func (t *Table[T, P]) Get(ctx context.Context, id int64) (T, error) {
	rec, err := t.scan(t.db.QueryRowContext(ctx, t.getSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, domain.ErrNotFound{Entity: t.schema.Entity, ID: id}
	}
	if err != nil {
		return rec, fmt.Errorf("get %s %d: %w", t.schema.Entity, id, err)
	}
	return rec, nil
}

// Update loads the row, applies mutator, writes every mutable column and
// commits, all inside one transaction.
func (t *Table[T, P]) Update(ctx context.Context, id int64, mutator func(*T) error) (updated T, retErr error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return updated, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	current, err := t.scan(tx.QueryRowContext(ctx, t.lockSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return updated, domain.ErrNotFound{Entity: t.schema.Entity, ID: id}
	}
	if err != nil {
		return updated, fmt.Errorf("load %s %d: %w", t.schema.Entity, id, err)
	}
	if mutator != nil {
		if err := mutator(&current); err != nil {
			return updated, err
		}
	}
	P(&current).SetRecordID(id)
	args := append(t.args(current), id)
	if _, err := tx.ExecContext(ctx, t.updateSQL, args...); err != nil {
		return updated, fmt.Errorf("update %s %d: %w", t.schema.Entity, id, err)
	}
	if err := tx.Commit(); err != nil {
		return updated, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return current, nil
}

// Close is a no-op; the owning Database closes the connection pool.
func (t *Table[T, P]) Close() error { return nil }
