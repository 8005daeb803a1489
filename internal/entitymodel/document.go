package entitymodel

import (
	"bytes"
	"encoding/json"

	"staffing/pkg/domain"
)

// Document is the serialized form of one record: the schema's fields, in
// declaration order, and nothing else.
type Document struct {
	keys   []string
	values []any
}

// Document serializes a single record.
func (s *Schema) Document(rec domain.Record) Document {
	doc := Document{
		keys:   make([]string, 0, len(s.Fields)),
		values: make([]any, 0, len(s.Fields)),
	}
	for _, f := range s.Fields {
		doc.keys = append(doc.keys, f.Name)
		if f.Kind == KindID {
			doc.values = append(doc.values, rec.RecordID())
			continue
		}
		doc.values = append(doc.values, rec.Field(f.Name))
	}
	return doc
}

// Documents serializes a sequence of records, preserving order. The result is
// never nil so an empty collection encodes as [].
func Documents[T domain.Record](s *Schema, recs []T) []Document {
	out := make([]Document, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.Document(rec))
	}
	return out
}

// Keys returns the field names in order.
func (d Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Get returns the value stored under key.
func (d Document) Get(key string) (any, bool) {
	for i, k := range d.keys {
		if k == key {
			return d.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the document as a flat object in declared field order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(d.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
