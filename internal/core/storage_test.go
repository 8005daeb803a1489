package core

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"staffing/internal/infra/persistence/postgres"
	pgstub "staffing/internal/infra/persistence/postgres/testutil"
	"staffing/pkg/domain"
)

func TestOpenStoresUnknownDriver(t *testing.T) {
	if _, err := OpenStores(context.Background(), StorageOptions{Driver: "etcd"}); err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestOpenStoresSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "staffing.db")
	stores, err := OpenStores(ctx, StorageOptions{Driver: StorageSQLite, SQLitePath: path})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	exerciseStores(t, stores)
	if err := stores.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenStores(ctx, StorageOptions{Driver: StorageSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	list, err := reopened.Employers.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected persisted employer, got %v, %v", list, err)
	}
}

func TestOpenStoresBolt(t *testing.T) {
	stores, err := OpenStores(context.Background(), StorageOptions{Driver: StorageBolt, BoltPath: filepath.Join(t.TempDir(), "staffing.bolt")})
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer func() { _ = stores.Close() }()
	if stores.Driver() != StorageBolt {
		t.Fatalf("unexpected driver %s", stores.Driver())
	}
	exerciseStores(t, stores)
}

func TestOpenStoresPostgresUsesDSN(t *testing.T) {
	db, conn := pgstub.NewStubDB()
	var gotDSN string
	restore := postgres.OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return db, nil
	})
	defer restore()

	stores, err := OpenStores(context.Background(), StorageOptions{Driver: StoragePostgres, PostgresDSN: "postgres://example/staffing"})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer func() { _ = stores.Close() }()
	if gotDSN != "postgres://example/staffing" {
		t.Fatalf("unexpected dsn %q", gotDSN)
	}
	if stores.Driver() != StoragePostgres || len(conn.Execs()) == 0 {
		t.Fatalf("expected postgres stores with applied DDL")
	}
}

func TestServiceOverDurableStores(t *testing.T) {
	stores, err := OpenStores(context.Background(), StorageOptions{Driver: StorageBolt, BoltPath: filepath.Join(t.TempDir(), "svc.bolt")})
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	svc := NewService(stores)
	defer func() { _ = svc.Close() }()
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	client, err := svc.GetClient(context.Background(), 1)
	if err != nil || client.ClientName != "Rob" {
		t.Fatalf("get seeded client = %+v, %v", client, err)
	}
}

func exerciseStores(t *testing.T, stores *Stores) {
	t.Helper()
	ctx := context.Background()
	employer, err := stores.Employers.Create(ctx, SeedEmployer)
	if err != nil || employer.ID != 1 {
		t.Fatalf("create employer = %+v, %v", employer, err)
	}
	employee, err := stores.Employees.Create(ctx, SeedEmployee)
	if err != nil || employee.ID != 1 {
		t.Fatalf("create employee = %+v, %v", employee, err)
	}
	client, err := stores.Clients.Create(ctx, SeedClient)
	if err != nil || client.ID != 1 {
		t.Fatalf("create client = %+v, %v", client, err)
	}
	updated, err := stores.Clients.Update(ctx, client.ID, func(c *domain.Client) error {
		c.State = "CA"
		return nil
	})
	if err != nil || updated.State != "CA" || updated.ClientName != SeedClient.ClientName {
		t.Fatalf("update client = %+v, %v", updated, err)
	}
	if _, err := stores.Employees.Get(ctx, 42); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
