// Package entitymodel describes the wire and storage shape of each entity as an
// ordered field list with required flags. Handlers and stores consume the same
// schema so field allowlists, required checks and column layouts never drift.
package entitymodel

import (
	"strings"

	"staffing/pkg/domain"
)

// Kind classifies a schema field.
type Kind int

const (
	// KindID is the store-assigned integer identifier.
	KindID Kind = iota
	// KindString is a free-form required string.
	KindString
	// KindReference holds another entity's id as an opaque string.
	KindReference
)

// Field is one declared entity field.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Schema is the ordered field allowlist for one entity. Fields[0] is always the id.
type Schema struct {
	Entity     domain.EntityType
	Collection string
	Fields     []Field
}

func newSchema(entity domain.EntityType, collection, idField string, fields ...Field) *Schema {
	all := make([]Field, 0, len(fields)+1)
	all = append(all, Field{Name: idField, Kind: KindID})
	for _, f := range fields {
		f.Required = f.Kind == KindString
		all = append(all, f)
	}
	return &Schema{Entity: entity, Collection: collection, Fields: all}
}

func str(name string) Field { return Field{Name: name, Kind: KindString} }

func ref(name string) Field { return Field{Name: name, Kind: KindReference} }

var (
	// Employer describes domain.Employer.
	Employer = newSchema(domain.EntityEmployer, "employers", domain.FieldEmployerID,
		str(domain.FieldCompanyName),
		str(domain.FieldAddress),
		str(domain.FieldCity),
		str(domain.FieldState),
	)
	// Employee describes domain.Employee.
	Employee = newSchema(domain.EntityEmployee, "employees", domain.FieldEmployeeID,
		ref(domain.FieldEmployerID),
		str(domain.FieldFirstName),
		str(domain.FieldLastName),
		str(domain.FieldAddress),
		str(domain.FieldCity),
		str(domain.FieldState),
	)
	// Client describes domain.Client.
	Client = newSchema(domain.EntityClient, "clients", domain.FieldClientID,
		ref(domain.FieldEmployeeID),
		str(domain.FieldClientName),
		str(domain.FieldAddress),
		str(domain.FieldCity),
		str(domain.FieldState),
	)
)

// All returns the entity schemas in dependency order.
func All() []*Schema {
	return []*Schema{Employer, Employee, Client}
}

// Lookup resolves a schema by entity name or collection name, case-insensitively.
func Lookup(name string) (*Schema, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range All() {
		if string(s.Entity) == name || s.Collection == name {
			return s, true
		}
	}
	return nil, false
}

// IDField returns the identifier field name.
func (s *Schema) IDField() string {
	return s.Fields[0].Name
}

// Table returns the relational table name.
func (s *Schema) Table() string {
	return s.Collection
}

// Mutable returns the non-id fields in declaration order.
func (s *Schema) Mutable() []Field {
	return s.Fields[1:]
}

// Names returns every field name in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}
