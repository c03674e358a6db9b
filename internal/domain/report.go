package domain

// Report is the consumer-facing projection of a reorder run. Pure shape, no
// business logic.
type Report struct {
	GeneratedAt string           `json:"generated_at"`
	Summary     ReportSummary    `json:"summary"`
	Suppliers   []SupplierReport `json:"suppliers"`
}

type ReportSummary struct {
	TotalReorderValueEUR  float64 `json:"total_reorder_value_eur"`
	TotalReorderSKUs      int     `json:"total_reorder_skus"`
	SupplierCount         int     `json:"supplier_count"`
	SuppliersBelowMinimum int     `json:"suppliers_below_minimum"`
}

type SupplierReport struct {
	Supplier        string                `json:"supplier"`
	MinimumEUR      float64               `json:"minimum_eur"`
	ReorderTotalEUR float64               `json:"reorder_total_eur"`
	GapToMinimum    float64               `json:"gap_to_minimum"`
	MeetsMinimum    bool                  `json:"meets_minimum"`
	ReorderItems    []ReportReorderItem   `json:"reorder_items"`
	TopupCandidates []ReportTopupItem     `json:"topup_candidates"`
	Summary         SupplierReportSummary `json:"summary"`
}

type ReportReorderItem struct {
	SKU            string    `json:"sku"`
	ItemID         string    `json:"item_id"`
	Name           string    `json:"name"`
	CurrentStock   int       `json:"current_stock"`
	CommittedStock int       `json:"committed_stock"`
	AvailableStock int       `json:"available_stock"`
	OpenPOQty      int       `json:"open_po_qty"`
	EffectiveStock int       `json:"effective_stock"`
	WeeklyVelocity float64   `json:"weekly_velocity"`
	WeeksOfCover   float64   `json:"weeks_of_cover"`
	Status         SKUStatus `json:"status"`
	CostPrice      float64   `json:"cost_price"`
	SuggestedQty   int       `json:"suggested_qty"`
	OrderValue     float64   `json:"order_value"`
}

type ReportTopupItem struct {
	SKU          string  `json:"sku"`
	ItemID       string  `json:"item_id"`
	Name         string  `json:"name"`
	WeeksOfCover float64 `json:"weeks_of_cover"`
	CostPrice    float64 `json:"cost_price"`
	SuggestedQty int     `json:"suggested_qty"`
	OrderValue   float64 `json:"order_value"`
}

type SupplierReportSummary struct {
	ReorderCount    int `json:"reorder_count"`
	TopupCount      int `json:"topup_count"`
	AnomalyCount    int `json:"anomaly_count"`
	NewProductCount int `json:"new_product_count"`
}
