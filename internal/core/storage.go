package core

import (
	"context"
	"errors"
	"fmt"

	"staffing/internal/infra/persistence/bolt"
	"staffing/internal/infra/persistence/memory"
	"staffing/internal/infra/persistence/postgres"
	"staffing/internal/infra/persistence/sqlite"
	"staffing/pkg/domain"
)

// StorageDriver identifies a concrete record store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBolt     StorageDriver = "bolt"     // embedded bbolt file
)

// StorageOptions selects and configures the record store backend.
type StorageOptions struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
	BoltPath    string
}

// Stores bundles one record store per entity. All three share a backend.
type Stores struct {
	Employers domain.Store[domain.Employer]
	Employees domain.Store[domain.Employee]
	Clients   domain.Store[domain.Client]

	driver StorageDriver
	close  func() error
}

// Driver reports the backend the stores were opened with.
func (s *Stores) Driver() StorageDriver { return s.driver }

// Close releases the backend. It is safe to call on memory stores.
func (s *Stores) Close() error {
	var errs []error
	for _, c := range []interface{ Close() error }{s.Employers, s.Employees, s.Clients} {
		if c != nil {
			errs = append(errs, c.Close())
		}
	}
	if s.close != nil {
		errs = append(errs, s.close())
	}
	return errors.Join(errs...)
}

// NewMemoryStores returns fresh transient collections, each numbering from 1.
func NewMemoryStores() *Stores {
	return &Stores{
		Employers: memory.NewStore[domain.Employer](domain.EntityEmployer),
		Employees: memory.NewStore[domain.Employee](domain.EntityEmployee),
		Clients:   memory.NewStore[domain.Client](domain.EntityClient),
		driver:    StorageMemory,
	}
}

// OpenStores constructs the record stores for the selected backend.
func OpenStores(ctx context.Context, opts StorageOptions) (*Stores, error) {
	switch opts.Driver {
	case StorageMemory:
		return NewMemoryStores(), nil
	case StorageSQLite, "":
		st, err := sqlite.NewStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{Employers: st.Employers, Employees: st.Employees, Clients: st.Clients, driver: StorageSQLite, close: st.Close}, nil
	case StoragePostgres:
		st, err := postgres.NewStore(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &Stores{Employers: st.Employers, Employees: st.Employees, Clients: st.Clients, driver: StoragePostgres, close: st.Close}, nil
	case StorageBolt:
		st, err := bolt.NewStore(opts.BoltPath, bolt.Options{})
		if err != nil {
			return nil, err
		}
		return &Stores{Employers: st.Employers, Employees: st.Employees, Clients: st.Clients, driver: StorageBolt, close: st.Close}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", opts.Driver)
	}
}
