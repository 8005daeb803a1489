// Package sqlbundle renders the entity-model DDL for each supported SQL dialect.
package sqlbundle

import (
	"bufio"
	"fmt"
	"strings"

	"staffing/internal/entitymodel"
)

// Dialect identifies a SQL flavour.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Bundle returns the DDL for every entity table in dialect d.
func Bundle(d Dialect) string {
	return Render(d, entitymodel.All()...)
}

// Render builds one CREATE TABLE statement per schema. The id column is the
// primary key and is assigned by the engine without reuse.
func Render(d Dialect, schemas ...*entitymodel.Schema) string {
	var b strings.Builder
	b.WriteString("-- generated from entitymodel schemas\n")
	for _, s := range schemas {
		fmt.Fprintf(&b, "-- %s\n", s.Entity)
		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", Quote(s.Table()))
		for i, f := range s.Fields {
			b.WriteString("    ")
			b.WriteString(Quote(f.Name))
			b.WriteByte(' ')
			b.WriteString(columnType(d, f))
			if i < len(s.Fields)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(");\n")
	}
	return b.String()
}

func columnType(d Dialect, f entitymodel.Field) string {
	if f.Kind == entitymodel.KindID {
		if d == DialectPostgres {
			return "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
		}
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "TEXT NOT NULL DEFAULT ''"
}

// Quote wraps an identifier in double quotes so camel-case names survive
// Postgres case folding.
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// SplitStatements splits a semicolon-terminated DDL script into executable statements.
// It drops blank lines and single-line comments that start with "--".
func SplitStatements(ddl string) []string {
	scanner := bufio.NewScanner(strings.NewReader(ddl))
	var stmts []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		stmts = append(stmts, tail)
	}

	return stmts
}
