package domain

import (
	"testing"

	"staffing/testutil"
)

// TestDomainImportsStandardLibraryOnly keeps the record types free of
// storage, transport and third-party dependencies.
func TestDomainImportsStandardLibraryOnly(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(testutil.InternalImportForbidden, testutil.ThirdPartyImportForbidden),
		"pkg/domain must depend on the standard library only")
}
