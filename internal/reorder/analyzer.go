package reorder

import (
	"math"
	"time"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
)

// coverSentinel stands in for "cover cannot be assessed" when velocity is
// zero. Treated as effectively infinite: such SKUs are never auto-reordered.
const coverSentinel = 999

// seasonalWindowWeeks is the width of the seasonal window; aggregate totals
// over that window divide by it to get a weekly rate.
const seasonalWindowWeeks = 6

// recencyWindowWeeks approximates 90 days.
const recencyWindowWeeks = 13

// Config holds the engine tunables. Values are calibrated for the current
// supplier base; see config.ReorderConfig for the deployment knobs.
type Config struct {
	// MinCoverWeeks is the reorder threshold: 3 weeks supplier lead time
	// plus a 2 week safety buffer.
	MinCoverWeeks float64
	// TopupMaxWeeks bounds the optional top-up candidates.
	TopupMaxWeeks float64
	// TargetCoverWeeks is what a suggested order refills to.
	TargetCoverWeeks float64
	// AnomalyMultiplier scales the non-zero-week mean into the spike
	// threshold.
	AnomalyMultiplier float64

	// Quick-mode constants.
	QuickStockThreshold int
	QuickVelocity       float64
	QuickRefillTarget   int
}

// DefaultConfig returns the production tunables.
func DefaultConfig() Config {
	return Config{
		MinCoverWeeks:       5,
		TopupMaxWeeks:       12,
		TargetCoverWeeks:    12,
		AnomalyMultiplier:   3,
		QuickStockThreshold: 20,
		QuickVelocity:       4,
		QuickRefillTarget:   50,
	}
}

// Analyzer produces the per-SKU reorder decision. It is a pure classification
// over the current snapshot; no state survives between calls.
type Analyzer struct {
	cfg      Config
	registry *SupplierRegistry
	now      func() time.Time
}

func NewAnalyzer(cfg Config, registry *SupplierRegistry, clock func() time.Time) *Analyzer {
	if clock == nil {
		clock = time.Now
	}
	return &Analyzer{cfg: cfg, registry: registry, now: clock}
}

// AnalyzeSKU runs the full-mode analysis for one item. Returns nil when the
// item should be skipped (missing SKU, inactive).
func (a *Analyzer) AnalyzeSKU(
	item domain.Item,
	poQuantities map[string]int,
	lastYear map[string]domain.WeeklySales,
	ninetyDay map[string]domain.WeeklySales,
) *domain.SKUAnalysis {
	if item.SKU == "" || item.Status == "inactive" {
		return nil
	}

	stockOnHand := item.StockOnHand
	committed := item.Committed()
	availableStock := stockOnHand - committed
	openPO := poQuantities[item.SKU]
	effectiveStock := availableStock + openPO

	brand := item.BrandName()
	supplier := a.registry.ResolveSupplier(brand)
	costPrice := item.CostPrice()

	isNewProduct := a.isNewProduct(item.FirstSaleDate)

	velocitySource := "last_year"
	weeklyVelocity := 0.0
	status := domain.StatusNormal
	var anomalyWeeks []string

	if sales, ok := lastYear[item.SKU]; ok {
		switch sales.Kind {
		case domain.SalesWeekly:
			hasAnomaly, weeks := DetectAnomalies(sales.Weeks, a.cfg.AnomalyMultiplier)
			if hasAnomaly {
				// Don't auto-calculate velocity for anomalies; the
				// estimate itself is untrustworthy.
				status = domain.StatusAnomaly
				anomalyWeeks = weeks
			} else {
				numWeeks := len(sales.Weeks)
				if numWeeks < 1 {
					numWeeks = 1
				}
				weeklyVelocity = float64(sales.TotalQty()) / float64(numWeeks)
			}
		case domain.SalesAggregate:
			weeklyVelocity = float64(sales.Total) / seasonalWindowWeeks
		}
	}

	// Fallback for new products or missing prior-year data. A new-product
	// fallback deliberately does not override an anomaly classification.
	if isNewProduct || (weeklyVelocity == 0 && status != domain.StatusAnomaly) {
		if sales, ok := ninetyDay[item.SKU]; ok {
			status = domain.StatusNewProduct
			velocitySource = "90_day_average"
			weeklyVelocity = float64(sales.TotalQty()) / recencyWindowWeeks
		} else if weeklyVelocity == 0 && status == domain.StatusNormal {
			status = domain.StatusNoSales
		}
	}

	weeksOfCover := float64(coverSentinel)
	if weeklyVelocity > 0 {
		weeksOfCover = float64(effectiveStock) / weeklyVelocity
	}

	needsReorder := weeksOfCover < a.cfg.MinCoverWeeks && status == domain.StatusNormal

	suggestedQty := 0
	if needsReorder {
		suggestedQty = SuggestedQty(weeklyVelocity, effectiveStock, a.cfg.TargetCoverWeeks)
	}

	return &domain.SKUAnalysis{
		SKU:            item.SKU,
		ItemID:         item.ItemID,
		Name:           item.Name,
		Brand:          brand,
		Supplier:       supplier,
		CurrentStock:   stockOnHand,
		CommittedStock: committed,
		AvailableStock: availableStock,
		OpenPOQty:      openPO,
		EffectiveStock: effectiveStock,
		WeeklyVelocity: round2(weeklyVelocity),
		VelocitySource: velocitySource,
		WeeksOfCover:   round1(weeksOfCover),
		NeedsReorder:   needsReorder,
		Status:         status,
		AnomalyWeeks:   anomalyWeeks,
		CostPrice:      costPrice,
		SuggestedQty:   suggestedQty,
		OrderValue:     round2(float64(suggestedQty) * costPrice),
		FirstSaleDate:  item.FirstSaleDate,
	}
}

// AnalyzeQuick is the degraded mode: no velocity data, just a stock
// threshold with an assumed velocity. Items without a resolved brand are
// skipped because the supplier bucket would be meaningless.
func (a *Analyzer) AnalyzeQuick(item domain.Item, poQuantities map[string]int) *domain.SKUAnalysis {
	if item.SKU == "" || item.Status == "inactive" {
		return nil
	}

	stockOnHand := item.StockOnHand
	committed := item.Committed()
	availableStock := stockOnHand - committed
	openPO := poQuantities[item.SKU]
	effectiveStock := availableStock + openPO

	brand := item.BrandName()
	supplier := a.registry.ResolveSupplier(brand)
	if brand == "" || supplier == "Unknown" {
		return nil
	}
	costPrice := item.CostPrice()

	weeksOfCover := float64(coverSentinel)
	if a.cfg.QuickVelocity > 0 {
		weeksOfCover = float64(effectiveStock) / a.cfg.QuickVelocity
	}
	needsReorder := effectiveStock < a.cfg.QuickStockThreshold && effectiveStock >= 0

	suggestedQty := 0
	if needsReorder {
		suggestedQty = a.cfg.QuickRefillTarget - effectiveStock
		if suggestedQty < 0 {
			suggestedQty = 0
		}
	}

	return &domain.SKUAnalysis{
		SKU:            item.SKU,
		ItemID:         item.ItemID,
		Name:           item.Name,
		Brand:          brand,
		Supplier:       supplier,
		CurrentStock:   stockOnHand,
		CommittedStock: committed,
		AvailableStock: availableStock,
		OpenPOQty:      openPO,
		EffectiveStock: effectiveStock,
		WeeklyVelocity: a.cfg.QuickVelocity,
		VelocitySource: "estimated",
		WeeksOfCover:   round1(weeksOfCover),
		NeedsReorder:   needsReorder,
		Status:         domain.StatusNormal,
		CostPrice:      costPrice,
		SuggestedQty:   suggestedQty,
		OrderValue:     round2(float64(suggestedQty) * costPrice),
	}
}

// SuggestedQty brings effective stock up to targetWeeks of cover, rounded up
// to whole units and floored at zero.
func SuggestedQty(weeklyVelocity float64, effectiveStock int, targetWeeks float64) int {
	if weeklyVelocity <= 0 {
		return 0
	}

	suggested := math.Ceil(weeklyVelocity*targetWeeks - float64(effectiveStock))
	if suggested < 0 {
		return 0
	}
	return int(suggested)
}

func (a *Analyzer) isNewProduct(firstSale string) bool {
	if firstSale == "" {
		return false
	}
	firstSaleDate, err := time.Parse(dateLayout, firstSale)
	if err != nil {
		return false
	}

	monthsSinceFirstSale := a.now().Sub(firstSaleDate).Hours() / 24 / 30
	return monthsSinceFirstSale < 12
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
