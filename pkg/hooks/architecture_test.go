package hooks

import (
	"testing"

	"fedstream/testutil"
)

// TestHooksDoNotImportInternal keeps the hook registry a standalone public
// package with no dependency on implementation layers.
func TestHooksDoNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"hooks package must stay free of internal dependencies")
}
