package reorder

import "strings"

// SupplierRegistry resolves brand-name spelling variants to a canonical
// supplier and knows each supplier's minimum order value.
//
// In most cases brand == supplier; the mapping table absorbs the variants
// that show up in catalog exports (umlauts dropped, long-form names).
type SupplierRegistry struct {
	brandMappings    map[string]string
	supplierMinimums map[string]float64
	defaultMinimum   float64
}

// NewSupplierRegistry builds the registry for the current supplier base.
// defaultMinimum applies to any supplier not in the table.
func NewSupplierRegistry(defaultMinimum float64) *SupplierRegistry {
	return &SupplierRegistry{
		brandMappings: map[string]string{
			"räder":                 "Räder",
			"raeder":                "Räder",
			"rader":                 "Räder",
			"ppd":                   "PPD",
			"paper products design": "PPD",
			"my flame":              "My Flame",
			"my flame lifestyle":    "My Flame",
			"ideas4seasons":         "Ideas4Seasons",
			"relaxound":             "Relaxound",
			"elvang":                "Elvang",
			"gefu":                  "GEFU",
			"remember":              "Remember",
		},
		supplierMinimums: map[string]float64{
			"Räder":                 5000,
			"Raeder":                5000,
			"räder":                 5000,
			"Relaxound":             5000,
			"Ideas4Seasons":         2500,
			"My Flame":              2500,
			"My Flame Lifestyle":    2500,
			"PPD":                   500,
			"Paper Products Design": 500,
			"Elvang":                500,
		},
		defaultMinimum: defaultMinimum,
	}
}

// ResolveSupplier maps a brand name to its supplier. Unmapped brands fall
// back to the raw brand string, or "Unknown" when the brand is empty, so
// every analysis always lands in some supplier bucket.
func (r *SupplierRegistry) ResolveSupplier(brand string) string {
	brandLower := strings.ToLower(brand)

	for key, supplier := range r.brandMappings {
		if strings.Contains(brandLower, key) {
			return supplier
		}
	}

	if brand == "" {
		return "Unknown"
	}
	return brand
}

// MinimumFor returns the minimum order value for a supplier: exact match
// first, then case-insensitive partial match, then the default.
func (r *SupplierRegistry) MinimumFor(supplierName string) float64 {
	if minimum, ok := r.supplierMinimums[supplierName]; ok {
		return minimum
	}

	supplierLower := strings.ToLower(supplierName)
	for key, minimum := range r.supplierMinimums {
		keyLower := strings.ToLower(key)
		if strings.Contains(supplierLower, keyLower) || strings.Contains(keyLower, supplierLower) {
			return minimum
		}
	}

	return r.defaultMinimum
}
