package domain

import (
	"errors"
	"fmt"
)

// ErrValidation marks inbound payloads that fail schema validation.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when a record id is absent from its collection.
type ErrNotFound struct {
	Entity EntityType
	ID     int64
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
