package reorder

import (
	"sort"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
)

// GroupBySupplier buckets analyses by resolved supplier and computes each
// supplier's totals against its order minimum.
//
// Reorder items are the mandated buys. Everything else with cover under
// TopupMaxWeeks (normal status only) becomes a top-up candidate with its
// suggested quantity recomputed to the top-up target, so buyers can pad an
// order toward the minimum. Suppliers that end up with no candidates of
// either kind are dropped.
func (a *Analyzer) GroupBySupplier(analyses []domain.SKUAnalysis) map[string]domain.SupplierOrder {
	groups := make(map[string]*domain.SupplierOrder)

	for _, analysis := range analyses {
		group, ok := groups[analysis.Supplier]
		if !ok {
			group = &domain.SupplierOrder{
				SupplierName:    analysis.Supplier,
				MinimumOrderEUR: a.registry.MinimumFor(analysis.Supplier),
				ReorderItems:    []domain.SKUAnalysis{},
				TopupCandidates: []domain.SKUAnalysis{},
			}
			groups[analysis.Supplier] = group
		}

		switch {
		case analysis.NeedsReorder:
			group.ReorderItems = append(group.ReorderItems, analysis)
			group.ReorderTotalEUR += analysis.OrderValue
		case analysis.WeeksOfCover < a.cfg.TopupMaxWeeks && analysis.Status == domain.StatusNormal:
			if analysis.WeeklyVelocity > 0 {
				analysis.SuggestedQty = SuggestedQty(analysis.WeeklyVelocity, analysis.EffectiveStock, a.cfg.TargetCoverWeeks)
				analysis.OrderValue = round2(float64(analysis.SuggestedQty) * analysis.CostPrice)
			}
			group.TopupCandidates = append(group.TopupCandidates, analysis)
		}
	}

	result := make(map[string]domain.SupplierOrder, len(groups))
	for supplier, group := range groups {
		if len(group.ReorderItems) == 0 && len(group.TopupCandidates) == 0 {
			continue
		}

		// Most urgent first; SKU breaks ties so repeated runs stay stable.
		sortByCover(group.ReorderItems)
		sortByCover(group.TopupCandidates)

		group.GapToMinimum = group.MinimumOrderEUR - group.ReorderTotalEUR
		if group.GapToMinimum < 0 {
			group.GapToMinimum = 0
		}
		group.MeetsMinimum = group.ReorderTotalEUR >= group.MinimumOrderEUR

		result[supplier] = *group
	}

	return result
}

func sortByCover(items []domain.SKUAnalysis) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].WeeksOfCover != items[j].WeeksOfCover {
			return items[i].WeeksOfCover < items[j].WeeksOfCover
		}
		return items[i].SKU < items[j].SKU
	})
}
