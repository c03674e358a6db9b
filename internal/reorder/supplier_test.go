package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSupplierVariants(t *testing.T) {
	registry := NewSupplierRegistry(500)

	tests := []struct {
		brand    string
		supplier string
	}{
		{"Räder", "Räder"},
		{"raeder design", "Räder"},
		{"Paper Products Design GmbH", "PPD"},
		{"PPD", "PPD"},
		{"My Flame Lifestyle", "My Flame"},
		{"relaxound", "Relaxound"},
		{"Ideas4Seasons", "Ideas4Seasons"},
		{"GEFU", "GEFU"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.supplier, registry.ResolveSupplier(tt.brand), "brand %q", tt.brand)
	}
}

func TestResolveSupplierFallbacks(t *testing.T) {
	registry := NewSupplierRegistry(500)

	// Unmapped brands resolve to themselves, empty to Unknown. Resolution
	// never fails: every analysis lands in some bucket.
	assert.Equal(t, "Some New Brand", registry.ResolveSupplier("Some New Brand"))
	assert.Equal(t, "Unknown", registry.ResolveSupplier(""))
}

func TestMinimumForExactAndPartial(t *testing.T) {
	registry := NewSupplierRegistry(500)

	assert.Equal(t, float64(5000), registry.MinimumFor("Räder"))
	assert.Equal(t, float64(2500), registry.MinimumFor("Ideas4Seasons"))
	// Partial, case-insensitive match.
	assert.Equal(t, float64(5000), registry.MinimumFor("RELAXOUND GmbH"))
}

func TestMinimumForDefault(t *testing.T) {
	registry := NewSupplierRegistry(750)

	assert.Equal(t, float64(750), registry.MinimumFor("Totally Unmapped"))
}
