// Package bolt provides an embedded key/value record store on top of bbolt.
// Each entity lives in its own bucket keyed by the big-endian id; values are
// msgpack encoded.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"staffing/pkg/domain"
)

const defaultPath = "staffing.bolt"

var (
	_ domain.Store[domain.Employer] = (*Bucket[domain.Employer, *domain.Employer])(nil)
	_ domain.Store[domain.Employee] = (*Bucket[domain.Employee, *domain.Employee])(nil)
	_ domain.Store[domain.Client]   = (*Bucket[domain.Client, *domain.Client])(nil)
)

// Options tunes the underlying bbolt database.
type Options struct {
	// IsTesting disables fsync for faster throwaway databases.
	IsTesting bool
	Timeout   time.Duration
}

// Store owns a bbolt file and one bucket per entity.
type Store struct {
	bdb  *bbolt.DB
	path string

	Employers *Bucket[domain.Employer, *domain.Employer]
	Employees *Bucket[domain.Employee, *domain.Employee]
	Clients   *Bucket[domain.Client, *domain.Client]
}

// NewStore opens (creating if needed) the bolt file at path and ensures the
// entity buckets exist. An empty path falls back to ./staffing.bolt.
func NewStore(path string, opt Options) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = opt.Timeout
	if bopt.Timeout == 0 {
		bopt.Timeout = 10 * time.Second
	}
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
	}
	bdb, err := bbolt.Open(path, 0o600, bopt)
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	s := &Store{
		bdb:       bdb,
		path:      path,
		Employers: newBucket[domain.Employer](bdb, domain.EntityEmployer, "employers"),
		Employees: newBucket[domain.Employee](bdb, domain.EntityEmployee, "employees"),
		Clients:   newBucket[domain.Client](bdb, domain.EntityClient, "clients"),
	}
	err = bdb.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{s.Employers.name, s.Employees.name, s.Clients.name} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close closes the bolt file.
func (s *Store) Close() error { return s.bdb.Close() }

// Bucket is a domain.Store over one bbolt bucket.
type Bucket[T domain.Record, P domain.RecordPtr[T]] struct {
	bdb    *bbolt.DB
	entity domain.EntityType
	name   string
}

func newBucket[T domain.Record, P domain.RecordPtr[T]](bdb *bbolt.DB, entity domain.EntityType, name string) *Bucket[T, P] {
	return &Bucket[T, P]{bdb: bdb, entity: entity, name: name}
}

func idKey(id int64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(id))
	return k[:]
}

func (b *Bucket[T, P]) bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bk := tx.Bucket([]byte(b.name))
	if bk == nil {
		return nil, fmt.Errorf("bucket %s missing", b.name)
	}
	return bk, nil
}

func (b *Bucket[T, P]) decode(raw []byte) (T, error) {
	var rec T
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", b.entity, err)
	}
	return rec, nil
}

// List walks the bucket in key order, which is ascending id and therefore
// insertion order.
func (b *Bucket[T, P]) List(_ context.Context) ([]T, error) {
	out := make([]T, 0)
	err := b.bdb.View(func(tx *bbolt.Tx) error {
		bk, err := b.bucket(tx)
		if err != nil {
			return err
		}
		return bk.ForEach(func(_, v []byte) error {
			rec, err := b.decode(v)
			if err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create takes the bucket's next sequence as id and stores the record.
func (b *Bucket[T, P]) Create(_ context.Context, record T) (T, error) {
	err := b.bdb.Update(func(tx *bbolt.Tx) error {
		bk, err := b.bucket(tx)
		if err != nil {
			return err
		}
		seq, err := bk.NextSequence()
		if err != nil {
			return fmt.Errorf("next %s id: %w", b.entity, err)
		}
		P(&record).SetRecordID(int64(seq))
		raw, err := msgpack.Marshal(&record)
		if err != nil {
			return fmt.Errorf("encode %s: %w", b.entity, err)
		}
		return bk.Put(idKey(int64(seq)), raw)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

// Get returns the record with id or domain.ErrNotFound.
func (b *Bucket[T, P]) Get(_ context.Context, id int64) (T, error) {
	var rec T
	err := b.bdb.View(func(tx *bbolt.Tx) error {
		bk, err := b.bucket(tx)
		if err != nil {
			return err
		}
		raw := bk.Get(idKey(id))
		if raw == nil {
			return domain.ErrNotFound{Entity: b.entity, ID: id}
		}
		rec, err = b.decode(raw)
		return err
	})
	return rec, err
}

// Update applies mutator inside a single write transaction. A failing mutator
// leaves the stored value untouched.
func (b *Bucket[T, P]) Update(_ context.Context, id int64, mutator func(*T) error) (T, error) {
	var current T
	err := b.bdb.Update(func(tx *bbolt.Tx) error {
		bk, err := b.bucket(tx)
		if err != nil {
			return err
		}
		raw := bk.Get(idKey(id))
		if raw == nil {
			return domain.ErrNotFound{Entity: b.entity, ID: id}
		}
		if current, err = b.decode(raw); err != nil {
			return err
		}
		if mutator != nil {
			if err := mutator(&current); err != nil {
				return err
			}
		}
		P(&current).SetRecordID(id)
		enc, err := msgpack.Marshal(&current)
		if err != nil {
			return fmt.Errorf("encode %s: %w", b.entity, err)
		}
		return bk.Put(idKey(id), enc)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return current, nil
}

// Close is a no-op; the owning Store closes the file.
func (b *Bucket[T, P]) Close() error { return nil }
