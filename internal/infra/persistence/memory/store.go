// Package memory provides the transient record store: an ordered collection
// held in process memory and reset on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"staffing/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain store interface.
var (
	_ domain.Store[domain.Employer] = (*Store[domain.Employer, *domain.Employer])(nil)
	_ domain.Store[domain.Employee] = (*Store[domain.Employee, *domain.Employee])(nil)
	_ domain.Store[domain.Client]   = (*Store[domain.Client, *domain.Client])(nil)
)

// Store keeps records of one entity type in insertion order.
type Store[T domain.Record, P domain.RecordPtr[T]] struct {
	entity domain.EntityType
	ids    IDGenerator

	mu      sync.RWMutex
	records []T
	index   map[int64]int
}

// Option configures a Store.
type Option func(*options)

type options struct {
	ids IDGenerator
}

// WithIDGenerator injects the identity strategy. Defaults to a fresh Counter.
func WithIDGenerator(ids IDGenerator) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// NewStore constructs an empty store for entity.
func NewStore[T domain.Record, P domain.RecordPtr[T]](entity domain.EntityType, opts ...Option) *Store[T, P] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = NewCounter()
	}
	return &Store[T, P]{
		entity: entity,
		ids:    o.ids,
		index:  make(map[int64]int),
	}
}

// Entity returns the entity type held by the store.
func (s *Store[T, P]) Entity() domain.EntityType { return s.entity }

// List returns a copy of the collection in insertion order.
func (s *Store[T, P]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Create assigns the next id and appends the record.
func (s *Store[T, P]) Create(_ context.Context, record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.ids.Next()
	if _, exists := s.index[id]; exists {
		var zero T
		return zero, fmt.Errorf("%s id %d already assigned", s.entity, id)
	}
	P(&record).SetRecordID(id)
	s.index[id] = len(s.records)
	s.records = append(s.records, record)
	return record, nil
}

// Get returns the record with id or domain.ErrNotFound.
func (s *Store[T, P]) Get(_ context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound{Entity: s.entity, ID: id}
	}
	return s.records[pos], nil
}

// Update applies mutator to a copy of the stored record and commits it when
// the mutator succeeds. The id is restored if the mutator changed it.
func (s *Store[T, P]) Update(_ context.Context, id int64, mutator func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	pos, ok := s.index[id]
	if !ok {
		return zero, domain.ErrNotFound{Entity: s.entity, ID: id}
	}
	current := s.records[pos]
	if mutator != nil {
		if err := mutator(&current); err != nil {
			return zero, err
		}
	}
	P(&current).SetRecordID(id)
	s.records[pos] = current
	return current, nil
}

// Len returns the number of stored records.
func (s *Store[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for the memory store.
func (s *Store[T, P]) Close() error { return nil }
