package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"staffing/pkg/domain"
)

const employersTable = "employers"

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreCreatesTablesOnFirstRun(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "nested", "state.db"))
	var tableName string
	if err := store.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name= ?", employersTable).Scan(&tableName); err != nil {
		t.Fatalf("lookup employers table: %v", err)
	}
	if tableName != employersTable {
		t.Fatalf("expected employers table, got %s", tableName)
	}
	if store.Path() == "" {
		t.Fatalf("expected path")
	}
}

func TestSQLiteStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()
	store, err := NewStore(ctx, path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	for _, name := range []string{"Acme", "Globex"} {
		if _, err := store.Employers.Create(ctx, domain.Employer{CompanyName: name, Location: domain.Location{Address: "1 Rd", City: "X", State: "Y"}}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded := openStore(t, path)
	list, err := reloaded.Employers.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].CompanyName != "Acme" || list[1].ID != 2 {
		t.Fatalf("unexpected reloaded list %+v", list)
	}
	next, err := reloaded.Employers.Create(ctx, domain.Employer{CompanyName: "Initech"})
	if err != nil {
		t.Fatalf("create after reload: %v", err)
	}
	if next.ID != 3 {
		t.Fatalf("expected numbering to continue at 3, got %d", next.ID)
	}
}

func TestSQLiteStoreSequentialIDsAndGet(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "ids.db"))
	ctx := context.Background()
	in := domain.Employee{EmployerID: "1", FirstName: "Rob", LastName: "Escalon", Location: domain.Location{Address: "ESA", City: "SS", State: "ESA"}}
	for i := 1; i <= 3; i++ {
		created, err := store.Employees.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID != int64(i) {
			t.Fatalf("expected id %d, got %d", i, created.ID)
		}
	}
	got, err := store.Employees.Get(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	in.ID = 2
	if got != in {
		t.Fatalf("got %+v, want %+v", got, in)
	}
	_, err = store.Employees.Get(ctx, 404)
	var nf domain.ErrNotFound
	if !errors.As(err, &nf) || nf.Entity != domain.EntityEmployee {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSQLiteStoreUpdateClient(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "update.db"))
	ctx := context.Background()
	created, err := store.Clients.Create(ctx, domain.Client{EmployeeID: "1", ClientName: "Rob", Location: domain.Location{Address: "ESA", City: "SS", State: "ESA"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := store.Clients.Update(ctx, created.ID, func(c *domain.Client) error {
		c.ClientName = "Robert"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ClientName != "Robert" || updated.EmployeeID != "1" || updated.City != "SS" {
		t.Fatalf("unexpected update %+v", updated)
	}
	got, err := store.Clients.Get(ctx, created.ID)
	if err != nil || got != updated {
		t.Fatalf("get after update = %+v, %v", got, err)
	}

	if _, err := store.Clients.Update(ctx, 999, func(*domain.Client) error { return nil }); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	boom := errors.New("boom")
	if _, err := store.Clients.Update(ctx, created.ID, func(c *domain.Client) error {
		c.ClientName = "rolled back"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected mutator error, got %v", err)
	}
	got, _ = store.Clients.Get(ctx, created.ID)
	if got.ClientName != "Robert" {
		t.Fatalf("failed mutator must roll back, got %+v", got)
	}
}

func TestSQLiteStoreListEmpty(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "empty.db"))
	list, err := store.Clients.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}
