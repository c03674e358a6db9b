package reorder

import (
	"sort"
	"time"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
)

// maxTopupsShown caps the top-up list per supplier in the formatted report.
const maxTopupsShown = 20

// FormatReport projects the supplier grouping into the consumer-facing
// document. Purely a projection; all decisions were made upstream.
func FormatReport(supplierOrders map[string]domain.SupplierOrder, generatedAt time.Time) domain.Report {
	names := make([]string, 0, len(supplierOrders))
	for name := range supplierOrders {
		names = append(names, name)
	}
	sort.Strings(names)

	suppliers := make([]domain.SupplierReport, 0, len(names))
	for _, name := range names {
		order := supplierOrders[name]
		if len(order.ReorderItems) == 0 && len(order.TopupCandidates) == 0 {
			continue
		}

		reorderItems := make([]domain.ReportReorderItem, 0, len(order.ReorderItems))
		anomalyCount, newProductCount := 0, 0
		for _, item := range order.ReorderItems {
			switch item.Status {
			case domain.StatusAnomaly:
				anomalyCount++
			case domain.StatusNewProduct:
				newProductCount++
			}
			reorderItems = append(reorderItems, domain.ReportReorderItem{
				SKU:            item.SKU,
				ItemID:         item.ItemID,
				Name:           item.Name,
				CurrentStock:   item.CurrentStock,
				CommittedStock: item.CommittedStock,
				AvailableStock: item.AvailableStock,
				OpenPOQty:      item.OpenPOQty,
				EffectiveStock: item.EffectiveStock,
				WeeklyVelocity: item.WeeklyVelocity,
				WeeksOfCover:   item.WeeksOfCover,
				Status:         item.Status,
				CostPrice:      item.CostPrice,
				SuggestedQty:   item.SuggestedQty,
				OrderValue:     item.OrderValue,
			})
		}

		topups := order.TopupCandidates
		if len(topups) > maxTopupsShown {
			topups = topups[:maxTopupsShown]
		}
		topupItems := make([]domain.ReportTopupItem, 0, len(topups))
		for _, item := range topups {
			topupItems = append(topupItems, domain.ReportTopupItem{
				SKU:          item.SKU,
				ItemID:       item.ItemID,
				Name:         item.Name,
				WeeksOfCover: item.WeeksOfCover,
				CostPrice:    item.CostPrice,
				SuggestedQty: item.SuggestedQty,
				OrderValue:   item.OrderValue,
			})
		}

		suppliers = append(suppliers, domain.SupplierReport{
			Supplier:        name,
			MinimumEUR:      order.MinimumOrderEUR,
			ReorderTotalEUR: round2(order.ReorderTotalEUR),
			GapToMinimum:    round2(order.GapToMinimum),
			MeetsMinimum:    order.MeetsMinimum,
			ReorderItems:    reorderItems,
			TopupCandidates: topupItems,
			Summary: domain.SupplierReportSummary{
				ReorderCount:    len(order.ReorderItems),
				TopupCount:      len(order.TopupCandidates),
				AnomalyCount:    anomalyCount,
				NewProductCount: newProductCount,
			},
		})
	}

	totalReorderValue := 0.0
	totalReorderSKUs := 0
	suppliersBelowMinimum := 0
	for _, s := range suppliers {
		totalReorderValue += s.ReorderTotalEUR
		totalReorderSKUs += s.Summary.ReorderCount
		if !s.MeetsMinimum && s.Summary.ReorderCount > 0 {
			suppliersBelowMinimum++
		}
	}

	return domain.Report{
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Summary: domain.ReportSummary{
			TotalReorderValueEUR:  round2(totalReorderValue),
			TotalReorderSKUs:      totalReorderSKUs,
			SupplierCount:         len(suppliers),
			SuppliersBelowMinimum: suppliersBelowMinimum,
		},
		Suppliers: suppliers,
	}
}
