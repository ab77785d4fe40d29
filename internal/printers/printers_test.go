package printers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogHasFourPrinters(t *testing.T) {
	assert.Len(t, Catalog, 4)
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Catalog {
		assert.Falsef(t, seen[p.ID], "duplicate printer id %q", p.ID)
		seen[p.ID] = true
	}
}
