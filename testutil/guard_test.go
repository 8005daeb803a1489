package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInternalImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"staffing/internal/core", true},
		{"example.com/mod/internal", true},
		{"staffing/pkg/domain", false},
	}
	for _, c := range cases {
		if got := InternalImportForbidden(c.in); got != c.want {
			t.Fatalf("InternalImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestThirdPartyImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"github.com/google/uuid", true},
		{"go.etcd.io/bbolt", true},
		{"encoding/json", false},
		{"staffing/pkg/domain", false},
	}
	for _, c := range cases {
		if got := ThirdPartyImportForbidden(c.in); got != c.want {
			t.Fatalf("ThirdPartyImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestAnyOf(t *testing.T) {
	pred := AnyOf(InternalImportForbidden, ThirdPartyImportForbidden)
	if !pred("github.com/x/y") || !pred("staffing/internal/x") || pred("fmt") {
		t.Fatal("AnyOf did not combine predicates")
	}
}

func writeGo(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestAssertNoDirectImports(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "x.go", "package tmp\nimport \"fmt\"\nfunc X(){fmt.Println(1)}")
	writeGo(t, dir, "x_test.go", "package tmp\nimport _ \"github.com/stretchr/testify/assert\"\n")
	AssertNoDirectImports(t, dir, ThirdPartyImportForbidden, "none")
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestDirectImportViolationsReported(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "b.go", "package tmp\nimport (\n\t\"staffing/internal/core\"\n\t\"fmt\"\n)\n")
	writeGo(t, dir, "a.go", "package tmp\nimport \"github.com/google/uuid\"\n")
	viols, err := directImportViolations(dir, AnyOf(InternalImportForbidden, ThirdPartyImportForbidden))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 2 || !strings.HasPrefix(viols[0], "github.com/google/uuid") {
		t.Fatalf("unexpected violations %v", viols)
	}
	rec := &recordingFatal{}
	failIfDirectViolations(rec, "layering", viols)
	if !strings.Contains(rec.msg, "layering") || !strings.Contains(rec.msg, "staffing/internal/core (in b.go)") {
		t.Fatalf("unexpected failure message %q", rec.msg)
	}
}

func TestDirectImportViolationsBadDir(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "missing"), InternalImportForbidden); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
