package reorder

import (
	"fmt"
	"testing"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReportSummary(t *testing.T) {
	orders := map[string]domain.SupplierOrder{
		"Räder": {
			SupplierName:    "Räder",
			MinimumOrderEUR: 5000,
			ReorderItems: []domain.SKUAnalysis{
				reorderAnalysis("R-1", "Räder", 2.0, 2000),
				reorderAnalysis("R-2", "Räder", 3.5, 1500),
			},
			ReorderTotalEUR: 3500,
			GapToMinimum:    1500,
			MeetsMinimum:    false,
		},
		"Elvang": {
			SupplierName:    "Elvang",
			MinimumOrderEUR: 500,
			ReorderItems: []domain.SKUAnalysis{
				reorderAnalysis("E-1", "Elvang", 1.0, 600),
			},
			ReorderTotalEUR: 600,
			MeetsMinimum:    true,
		},
	}

	report := FormatReport(orders, fixedClock())

	assert.Equal(t, "2025-11-15T10:30:00Z", report.GeneratedAt)
	assert.Equal(t, 4100.0, report.Summary.TotalReorderValueEUR)
	assert.Equal(t, 3, report.Summary.TotalReorderSKUs)
	assert.Equal(t, 2, report.Summary.SupplierCount)
	assert.Equal(t, 1, report.Summary.SuppliersBelowMinimum)

	// Suppliers are sorted by name for stable output.
	require.Len(t, report.Suppliers, 2)
	assert.Equal(t, "Elvang", report.Suppliers[0].Supplier)
	assert.Equal(t, "Räder", report.Suppliers[1].Supplier)
}

func TestFormatReportDropsEmptySuppliers(t *testing.T) {
	orders := map[string]domain.SupplierOrder{
		"Empty": {SupplierName: "Empty", MinimumOrderEUR: 500},
	}

	report := FormatReport(orders, fixedClock())

	assert.Empty(t, report.Suppliers)
	assert.Equal(t, 0, report.Summary.SupplierCount)
}

func TestFormatReportCapsTopups(t *testing.T) {
	var topups []domain.SKUAnalysis
	for i := 0; i < 30; i++ {
		topups = append(topups, domain.SKUAnalysis{
			SKU:          fmt.Sprintf("T-%02d", i),
			Supplier:     "PPD",
			Status:       domain.StatusNormal,
			WeeksOfCover: 6,
		})
	}

	orders := map[string]domain.SupplierOrder{
		"PPD": {
			SupplierName:    "PPD",
			MinimumOrderEUR: 500,
			TopupCandidates: topups,
		},
	}

	report := FormatReport(orders, fixedClock())

	require.Len(t, report.Suppliers, 1)
	assert.Len(t, report.Suppliers[0].TopupCandidates, 20)
	// The summary still counts all candidates.
	assert.Equal(t, 30, report.Suppliers[0].Summary.TopupCount)
}

func TestFormatReportStatusCounts(t *testing.T) {
	anomaly := reorderAnalysis("A-1", "PPD", 1.0, 100)
	anomaly.Status = domain.StatusAnomaly
	newProduct := reorderAnalysis("N-1", "PPD", 2.0, 100)
	newProduct.Status = domain.StatusNewProduct

	orders := map[string]domain.SupplierOrder{
		"PPD": {
			SupplierName:    "PPD",
			MinimumOrderEUR: 500,
			ReorderItems: []domain.SKUAnalysis{
				anomaly, newProduct, reorderAnalysis("P-1", "PPD", 3.0, 100),
			},
			ReorderTotalEUR: 300,
		},
	}

	report := FormatReport(orders, fixedClock())

	require.Len(t, report.Suppliers, 1)
	summary := report.Suppliers[0].Summary
	assert.Equal(t, 3, summary.ReorderCount)
	assert.Equal(t, 1, summary.AnomalyCount)
	assert.Equal(t, 1, summary.NewProductCount)
}
