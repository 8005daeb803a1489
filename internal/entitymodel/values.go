package entitymodel

import (
	"encoding/json"
	"fmt"
	"strconv"

	"staffing/pkg/domain"
)

// FieldError reports a payload field that failed validation. It wraps
// domain.ErrValidation.
type FieldError struct {
	Entity domain.EntityType
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q %s", e.Entity, e.Field, e.Reason)
}

// Unwrap ties field errors to the validation error kind.
func (e *FieldError) Unwrap() error { return domain.ErrValidation }

// Values holds the recognised, non-id fields extracted from an inbound payload.
type Values map[string]string

// Decode extracts the schema's mutable fields from a decoded JSON object.
// Unknown keys and the id field are dropped. JSON null counts as absent.
// Numbers are coerced to their decimal string form.
func (s *Schema) Decode(payload map[string]any) (Values, error) {
	out := make(Values, len(s.Fields))
	for _, f := range s.Mutable() {
		raw, ok := payload[f.Name]
		if !ok || raw == nil {
			continue
		}
		value, err := coerce(raw)
		if err != nil {
			return nil, &FieldError{Entity: s.Entity, Field: f.Name, Reason: err.Error()}
		}
		out[f.Name] = value
	}
	return out, nil
}

func coerce(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("must be a string, got %T", raw)
	}
}

// Validate returns a FieldError for the first required field, in declaration
// order, that is absent from values.
func (s *Schema) Validate(values Values) error {
	for _, f := range s.Mutable() {
		if !f.Required {
			continue
		}
		if _, ok := values[f.Name]; !ok {
			return &FieldError{Entity: s.Entity, Field: f.Name, Reason: "is required"}
		}
	}
	return nil
}

// Apply writes the present values onto rec, leaving other fields untouched.
func (v Values) Apply(rec interface{ SetField(name, value string) bool }) {
	for name, value := range v {
		rec.SetField(name, value)
	}
}
