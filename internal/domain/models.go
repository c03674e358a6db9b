// backend-go/internal/domain/models.go
package domain

// Item is a catalog row as owned by the inventory collaborator. The engine
// never mutates it.
type Item struct {
	SKU         string  `json:"sku"`
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Status      string  `json:"status"`

	StockOnHand    int `json:"stock_on_hand"`
	CommittedStock int `json:"committed_stock"`
	// StockCommitted is the legacy name some catalog exports still use.
	// Committed() resolves the two.
	StockCommitted int `json:"stock_committed,omitempty"`

	PurchaseRate float64 `json:"purchase_rate"`
	// PurchasePrice is the legacy cost field; CostPrice() resolves the two.
	PurchasePrice float64 `json:"purchase_price,omitempty"`

	// FirstSaleDate is YYYY-MM-DD when known, empty otherwise. Used for
	// new-product detection.
	FirstSaleDate string `json:"first_sale_date,omitempty"`
}

// BrandName returns the brand, falling back to the manufacturer field.
func (i Item) BrandName() string {
	if i.Brand != "" {
		return i.Brand
	}
	return i.Manufacturer
}

// Committed resolves the committed-stock quantity across both field names.
func (i Item) Committed() int {
	if i.CommittedStock != 0 {
		return i.CommittedStock
	}
	return i.StockCommitted
}

// CostPrice resolves the unit cost across both field names.
func (i Item) CostPrice() float64 {
	if i.PurchaseRate != 0 {
		return i.PurchaseRate
	}
	return i.PurchasePrice
}

// SalesKind discriminates the two shapes sales history arrives in.
type SalesKind int

const (
	// SalesAggregate carries only a total quantity over the window.
	SalesAggregate SalesKind = iota
	// SalesWeekly carries a per-week series keyed by week label.
	SalesWeekly
)

// WeeklySales is the sales signal for one SKU over a window. Consumers must
// branch on Kind; only the weekly form supports anomaly detection.
type WeeklySales struct {
	Kind  SalesKind
	Total int
	Weeks map[string]int
}

// AggregateSales builds the aggregate form.
func AggregateSales(total int) WeeklySales {
	return WeeklySales{Kind: SalesAggregate, Total: total}
}

// WeeklySeries builds the fine-grained form.
func WeeklySeries(weeks map[string]int) WeeklySales {
	return WeeklySales{Kind: SalesWeekly, Weeks: weeks}
}

// TotalQty returns the window total regardless of form.
func (s WeeklySales) TotalQty() int {
	if s.Kind == SalesAggregate {
		return s.Total
	}
	total := 0
	for _, qty := range s.Weeks {
		total += qty
	}
	return total
}

// SKUAnalysis is the per-SKU reorder decision, produced exactly once per run.
type SKUAnalysis struct {
	SKU      string `json:"sku"`
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Supplier string `json:"supplier"`

	// Stock facet. EffectiveStock may go negative when committed stock
	// exceeds on-hand plus pipeline; that is a valid oversold signal and is
	// never clamped.
	CurrentStock   int `json:"current_stock"`
	CommittedStock int `json:"committed_stock"`
	AvailableStock int `json:"available_stock"`
	OpenPOQty      int `json:"open_po_qty"`
	EffectiveStock int `json:"effective_stock"`

	WeeklyVelocity float64 `json:"weekly_velocity"`
	VelocitySource string  `json:"velocity_source"`

	WeeksOfCover float64 `json:"weeks_of_cover"`
	NeedsReorder bool    `json:"needs_reorder"`

	Status       SKUStatus `json:"status"`
	AnomalyWeeks []string  `json:"anomaly_weeks,omitempty"`

	CostPrice    float64 `json:"cost_price"`
	SuggestedQty int     `json:"suggested_qty"`
	OrderValue   float64 `json:"order_value"`

	FirstSaleDate string `json:"first_sale_date,omitempty"`
}

// SupplierOrder groups reorder candidates for one supplier against that
// supplier's order minimum.
type SupplierOrder struct {
	SupplierName    string  `json:"supplier_name"`
	MinimumOrderEUR float64 `json:"minimum_order_eur"`

	ReorderItems    []SKUAnalysis `json:"reorder_items"`
	ReorderTotalEUR float64       `json:"reorder_total_eur"`

	TopupCandidates []SKUAnalysis `json:"topup_candidates"`

	GapToMinimum float64 `json:"gap_to_minimum"`
	MeetsMinimum bool    `json:"meets_minimum"`
}
