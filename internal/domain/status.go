package domain

import "strings"

// SKUStatus classifies the trust level of a SKU's velocity estimate.
type SKUStatus string

const (
	// StatusNormal: 12+ months of history, no anomalies.
	StatusNormal SKUStatus = "normal"
	// StatusNewProduct: less than 12 months of sales history.
	StatusNewProduct SKUStatus = "new"
	// StatusAnomaly: a historical week exceeded the anomaly threshold;
	// velocity is suppressed pending manual review.
	StatusAnomaly SKUStatus = "anomaly"
	// StatusNoSales: no signal in either window.
	StatusNoSales SKUStatus = "no_sales"
)

var skuStatuses = map[string]SKUStatus{
	"normal":   StatusNormal,
	"new":      StatusNewProduct,
	"anomaly":  StatusAnomaly,
	"no_sales": StatusNoSales,
}

// ParseSKUStatus returns the status for a given label (case-insensitive).
func ParseSKUStatus(label string) (SKUStatus, bool) {
	status, ok := skuStatuses[strings.ToLower(label)]

	return status, ok
}

// Valid reports whether the status is one of the known values.
func (s SKUStatus) Valid() bool {
	_, ok := skuStatuses[string(s)]
	return ok
}
