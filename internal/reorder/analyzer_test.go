package reorder

import (
	"testing"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultConfig(), NewSupplierRegistry(500), fixedClock)
}

func testItem(sku string) domain.Item {
	return domain.Item{
		SKU:          sku,
		ItemID:       "id-" + sku,
		Name:         "Item " + sku,
		Brand:        "Räder",
		Status:       "active",
		StockOnHand:  100,
		PurchaseRate: 4.5,
	}
}

func TestAnalyzeSKUSkipsInactiveAndMissingSKU(t *testing.T) {
	a := newTestAnalyzer()

	inactive := testItem("A-1")
	inactive.Status = "inactive"
	assert.Nil(t, a.AnalyzeSKU(inactive, nil, nil, nil))

	noSKU := testItem("")
	assert.Nil(t, a.AnalyzeSKU(noSKU, nil, nil, nil))
}

func TestAnalyzeSKUStockFacet(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.StockOnHand = 50
	item.CommittedStock = 30

	analysis := a.AnalyzeSKU(item, map[string]int{"A-1": 15}, nil, nil)
	require.NotNil(t, analysis)

	assert.Equal(t, 50, analysis.CurrentStock)
	assert.Equal(t, 30, analysis.CommittedStock)
	assert.Equal(t, 20, analysis.AvailableStock)
	assert.Equal(t, 15, analysis.OpenPOQty)
	assert.Equal(t, 35, analysis.EffectiveStock)
	assert.Equal(t, analysis.CurrentStock, analysis.AvailableStock+analysis.CommittedStock)
	assert.Equal(t, analysis.EffectiveStock, analysis.AvailableStock+analysis.OpenPOQty)
}

func TestAnalyzeSKUOversoldStockStaysNegative(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.StockOnHand = 5
	item.CommittedStock = 40

	analysis := a.AnalyzeSKU(item, map[string]int{"A-1": 10}, nil, nil)
	require.NotNil(t, analysis)

	// Oversold inventory is a valid signal, never clamped.
	assert.Equal(t, -25, analysis.EffectiveStock)
}

func TestAnalyzeSKULegacyCommittedField(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.CommittedStock = 0
	item.StockCommitted = 12

	analysis := a.AnalyzeSKU(item, nil, nil, nil)
	require.NotNil(t, analysis)
	assert.Equal(t, 12, analysis.CommittedStock)
}

func TestAnalyzeSKUReorderThresholdIsStrict(t *testing.T) {
	a := newTestAnalyzer()

	// Aggregate 120 over the 6-week window = 20/week; 100 effective stock
	// is exactly 5.0 weeks of cover, which does not trigger.
	item := testItem("A-1")
	sales := map[string]domain.WeeklySales{"A-1": domain.AggregateSales(120)}

	analysis := a.AnalyzeSKU(item, nil, sales, nil)
	require.NotNil(t, analysis)
	assert.Equal(t, domain.StatusNormal, analysis.Status)
	assert.Equal(t, 20.0, analysis.WeeklyVelocity)
	assert.Equal(t, 5.0, analysis.WeeksOfCover)
	assert.False(t, analysis.NeedsReorder)

	// 126/6 = 21/week → 4.76 weeks of cover → reorder.
	sales = map[string]domain.WeeklySales{"A-1": domain.AggregateSales(126)}
	analysis = a.AnalyzeSKU(item, nil, sales, nil)
	require.NotNil(t, analysis)
	assert.Equal(t, 4.8, analysis.WeeksOfCover)
	assert.True(t, analysis.NeedsReorder)
}

func TestAnalyzeSKUSuggestedQty(t *testing.T) {
	a := newTestAnalyzer()

	// 10/week, 30 effective → target 12 weeks = 120 → suggest 90.
	item := testItem("A-1")
	item.StockOnHand = 30
	item.PurchaseRate = 2.0
	sales := map[string]domain.WeeklySales{"A-1": domain.AggregateSales(60)}

	analysis := a.AnalyzeSKU(item, nil, sales, nil)
	require.NotNil(t, analysis)
	assert.True(t, analysis.NeedsReorder)
	assert.Equal(t, 90, analysis.SuggestedQty)
	assert.Equal(t, 180.0, analysis.OrderValue)
}

func TestAnalyzeSKUAnomalySuppressesReorder(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.StockOnHand = 0 // would be urgent if the velocity were trusted
	sales := map[string]domain.WeeklySales{
		"A-1": domain.WeeklySeries(map[string]int{
			"2024-W43": 10, "2024-W44": 12, "2024-W45": 9,
			"2024-W46": 100, "2024-W47": 11, "2024-W48": 8,
		}),
	}

	analysis := a.AnalyzeSKU(item, nil, sales, nil)
	require.NotNil(t, analysis)
	assert.Equal(t, domain.StatusAnomaly, analysis.Status)
	assert.Equal(t, []string{"2024-W46"}, analysis.AnomalyWeeks)
	assert.Equal(t, 0.0, analysis.WeeklyVelocity)
	assert.Equal(t, float64(coverSentinel), analysis.WeeksOfCover)
	assert.False(t, analysis.NeedsReorder)
	assert.Equal(t, 0, analysis.SuggestedQty)
}

func TestAnalyzeSKUWeeklySeriesVelocity(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	sales := map[string]domain.WeeklySales{
		"A-1": domain.WeeklySeries(map[string]int{
			"2024-W45": 12, "2024-W46": 8, "2024-W47": 0, "2024-W48": 4,
		}),
	}

	analysis := a.AnalyzeSKU(item, nil, sales, nil)
	require.NotNil(t, analysis)
	// 24 units over 4 observed weeks, zero weeks included in the divisor.
	assert.Equal(t, 6.0, analysis.WeeklyVelocity)
	assert.Equal(t, "last_year", analysis.VelocitySource)
	assert.Equal(t, domain.StatusNormal, analysis.Status)
}

func TestAnalyzeSKUNewProductFallsBackToRecencyWindow(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.FirstSaleDate = "2025-06-01" // ~5 months before the fixed clock
	ninetyDay := map[string]domain.WeeklySales{"A-1": domain.AggregateSales(26)}

	analysis := a.AnalyzeSKU(item, nil, nil, ninetyDay)
	require.NotNil(t, analysis)
	assert.Equal(t, domain.StatusNewProduct, analysis.Status)
	assert.Equal(t, "90_day_average", analysis.VelocitySource)
	assert.Equal(t, 2.0, analysis.WeeklyVelocity)
	assert.False(t, analysis.NeedsReorder, "new products are never auto-flagged")
}

func TestAnalyzeSKUMissingLastYearFallsBack(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	ninetyDay := map[string]domain.WeeklySales{"A-1": domain.AggregateSales(130)}

	analysis := a.AnalyzeSKU(item, nil, nil, ninetyDay)
	require.NotNil(t, analysis)
	assert.Equal(t, domain.StatusNewProduct, analysis.Status)
	assert.Equal(t, 10.0, analysis.WeeklyVelocity)
}

func TestAnalyzeSKUNoSales(t *testing.T) {
	a := newTestAnalyzer()

	analysis := a.AnalyzeSKU(testItem("A-1"), nil, nil, nil)
	require.NotNil(t, analysis)
	assert.Equal(t, domain.StatusNoSales, analysis.Status)
	assert.Equal(t, 0.0, analysis.WeeklyVelocity)
	assert.Equal(t, float64(coverSentinel), analysis.WeeksOfCover)
	assert.False(t, analysis.NeedsReorder)
}

func TestAnalyzeSKUAnomalyNotDowngradedToNoSales(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	sales := map[string]domain.WeeklySales{
		"A-1": domain.WeeklySeries(map[string]int{
			"w1": 1, "w2": 1, "w3": 1, "w4": 1, "w5": 1, "w6": 50,
		}),
	}

	analysis := a.AnalyzeSKU(item, nil, sales, nil)
	require.NotNil(t, analysis)
	assert.Equal(t, domain.StatusAnomaly, analysis.Status)
}

func TestAnalyzeQuick(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.StockOnHand = 12

	analysis := a.AnalyzeQuick(item, nil)
	require.NotNil(t, analysis)
	assert.Equal(t, "estimated", analysis.VelocitySource)
	assert.Equal(t, 4.0, analysis.WeeklyVelocity)
	assert.Equal(t, 3.0, analysis.WeeksOfCover)
	assert.True(t, analysis.NeedsReorder)
	assert.Equal(t, 38, analysis.SuggestedQty) // refill to 50 units
	assert.Equal(t, domain.StatusNormal, analysis.Status)
}

func TestAnalyzeQuickAboveThreshold(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.StockOnHand = 40

	analysis := a.AnalyzeQuick(item, nil)
	require.NotNil(t, analysis)
	assert.False(t, analysis.NeedsReorder)
	assert.Equal(t, 0, analysis.SuggestedQty)
}

func TestAnalyzeQuickOversoldNotFlagged(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.StockOnHand = 0
	item.CommittedStock = 10

	analysis := a.AnalyzeQuick(item, nil)
	require.NotNil(t, analysis)
	// Negative effective stock means oversold, which quick mode leaves to
	// a human rather than auto-flagging.
	assert.False(t, analysis.NeedsReorder)
}

func TestAnalyzeQuickSkipsUnknownBrand(t *testing.T) {
	a := newTestAnalyzer()

	item := testItem("A-1")
	item.Brand = ""
	item.Manufacturer = ""

	assert.Nil(t, a.AnalyzeQuick(item, nil))
}

func TestSuggestedQtyFloorsAtZero(t *testing.T) {
	assert.Equal(t, 0, SuggestedQty(10, 500, 12))
	assert.Equal(t, 0, SuggestedQty(0, 10, 12))
	assert.Equal(t, 90, SuggestedQty(10, 30, 12))
	// Fractional targets round up to whole units.
	assert.Equal(t, 3, SuggestedQty(0.5, 4, 13))
}
