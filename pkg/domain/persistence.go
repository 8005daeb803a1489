package domain

import "context"

// Store is the record store contract implemented by every backing strategy.
// Implementations own the canonical collection and hand out copies.
type Store[T Record] interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]T, error)
	// Create assigns the next identifier, stores the record and returns it.
	// Any identifier already present on the input is ignored.
	Create(ctx context.Context, record T) (T, error)
	// Get returns the record with the given identifier or ErrNotFound.
	Get(ctx context.Context, id int64) (T, error)
	// Update loads the record, applies mutator and stores the result. The
	// identifier cannot be changed by the mutator.
	Update(ctx context.Context, id int64, mutator func(*T) error) (T, error)
	// Close releases resources held by the store.
	Close() error
}
