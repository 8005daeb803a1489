package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"staffing/internal/blob/core"
)

func TestStorePutGetHead(t *testing.T) {
	s := New()
	ctx := context.Background()
	meta := map[string]string{"entity": "client"}
	info, err := s.Put(ctx, "exports/clients/a.json", strings.NewReader(`[]`), core.PutOptions{ContentType: "application/json", Metadata: meta})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["entity"] = "mutated"
	if info.Size != 2 || info.ETag == "" || info.Metadata["entity"] != "client" {
		t.Fatalf("unexpected info %+v", info)
	}

	got, rc, err := s.Get(ctx, info.Key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, _ := io.ReadAll(rc)
	if string(body) != "[]" || got.ContentType != "application/json" {
		t.Fatalf("unexpected get %+v %q", got, body)
	}
	got.Metadata["entity"] = "changed"
	head, err := s.Head(ctx, info.Key)
	if err != nil || head.Metadata["entity"] != "client" {
		t.Fatalf("head must return a metadata copy, got %+v %v", head, err)
	}
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver")
	}
}

func TestStoreErrors(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Put(ctx, "k", bytes.NewReader(nil), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(ctx, "k", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, _, err := s.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	if _, err := s.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
}

func TestStoreListPrefixOrdered(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, k := range []string{"exports/b", "exports/a", "other/c"} {
		if _, err := s.Put(ctx, k, strings.NewReader(k), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	list, err := s.List(ctx, "exports/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "exports/a" || list[1].Key != "exports/b" {
		t.Fatalf("unexpected list %+v", list)
	}
	all, _ := s.List(ctx, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 blobs, got %d", len(all))
	}
}
