package blob

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestInfraImportBoundaries ensures backend packages are only wired from their
// owning facade: blob infra from internal/blob, persistence infra from
// internal/core. Everything else depends on the interfaces.
func TestInfraImportBoundaries(t *testing.T) {
	rules := []struct {
		infraPrefix string
		allowed     []string
	}{
		{
			infraPrefix: "staffing/internal/infra/blob",
			allowed:     []string{"staffing/internal/blob"},
		},
		{
			infraPrefix: "staffing/internal/infra/persistence",
			allowed:     []string{"staffing/internal/core"},
		},
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "staffing/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, rule := range rules {
		for _, pkg := range pkgs {
			if hasPrefix(pkg.PkgPath, rule.infraPrefix) || allowed(pkg.PkgPath, rule.allowed) {
				continue
			}
			for importPath := range pkg.Imports {
				if hasPrefix(importPath, rule.infraPrefix) {
					pos := filepath.Join(pkg.PkgPath, "...")
					seen[pos+": "+importPath] = struct{}{}
				}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of infra package: %s", v)
		}
		t.Fatalf("found %d forbidden infra imports", len(violations))
	}
}

func allowed(pkgPath string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPrefix(pkgPath, p) {
			return true
		}
	}
	return false
}

func hasPrefix(importPath, prefix string) bool {
	// Test variants are reported as "pkg [pkg.test]".
	importPath = strings.SplitN(importPath, " ", 2)[0]
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
