package reorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// CatalogSource provides the full current item catalog, inactive items
// included; the engine filters them.
type CatalogSource interface {
	Items(ctx context.Context) ([]domain.Item, error)
}

// OpenPOSource provides pending quantity (ordered minus received) per SKU
// across open purchase orders. SKUs with zero pending are absent.
type OpenPOSource interface {
	OpenPOQuantities(ctx context.Context) (map[string]int, error)
}

// VelocitySource provides aggregated or weekly-bucketed sales quantity per
// SKU within an inclusive YYYY-MM-DD range.
type VelocitySource interface {
	SalesVelocity(ctx context.Context, startDate, endDate string) (map[string]domain.WeeklySales, error)
}

// Options controls a single engine run.
type Options struct {
	// Brands limits the analysis to items whose brand or manufacturer
	// contains one of these (case-insensitive). Empty means all brands.
	Brands []string
	// Quick skips velocity history and uses the stock threshold instead.
	Quick bool
}

// Engine wires the analyzer to its data sources. Every run is a stateless
// recomputation from current inputs; nothing is persisted here.
type Engine struct {
	analyzer *Analyzer
	catalog  CatalogSource
	openPOs  OpenPOSource
	velocity VelocitySource
	now      func() time.Time
}

// NewEngine builds an engine. clock may be nil (wall clock); inject a fixed
// clock in tests.
func NewEngine(cfg Config, registry *SupplierRegistry, catalog CatalogSource, openPOs OpenPOSource, velocity VelocitySource, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		analyzer: NewAnalyzer(cfg, registry, clock),
		catalog:  catalog,
		openPOs:  openPOs,
		velocity: velocity,
		now:      clock,
	}
}

// Run executes the full pipeline: catalog → brand filter → open POs →
// velocity windows → per-SKU analysis → supplier grouping.
//
// A catalog failure aborts the run. A sales-history failure for a window
// degrades every affected SKU to new/no-sales status instead of failing,
// because a partial recommendation beats none. A single SKU's analysis
// failing is skipped and never aborts the batch.
func (e *Engine) Run(ctx context.Context, opts Options) (map[string]domain.SupplierOrder, error) {
	log.Info().Bool("quick", opts.Quick).Strs("brands", opts.Brands).Msg("reorder: starting analysis")

	items, err := e.catalog.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load item catalog: %w", err)
	}
	log.Info().Int("items", len(items)).Msg("reorder: loaded catalog")

	if len(opts.Brands) > 0 {
		items = filterByBrands(items, opts.Brands)
		log.Info().Int("items", len(items)).Msg("reorder: filtered by brand")
	}

	poQuantities, err := e.openPOs.OpenPOQuantities(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("reorder: open PO fetch failed, assuming no pipeline stock")
		poQuantities = map[string]int{}
	}

	var analyses []domain.SKUAnalysis
	if opts.Quick {
		for _, item := range items {
			if analysis := e.safeAnalyzeQuick(item, poQuantities); analysis != nil {
				analyses = append(analyses, *analysis)
			}
		}
	} else {
		lastYearStart, lastYearEnd := SeasonalWindow(e.now(), 0)
		lastYear := e.fetchVelocity(ctx, lastYearStart, lastYearEnd)

		recencyStart, recencyEnd := RecencyWindow(e.now())
		ninetyDay := e.fetchVelocity(ctx, recencyStart, recencyEnd)

		for _, item := range items {
			if analysis := e.safeAnalyze(item, poQuantities, lastYear, ninetyDay); analysis != nil {
				analyses = append(analyses, *analysis)
			}
		}
	}
	log.Info().Int("analyzed", len(analyses)).Msg("reorder: analyzed SKUs")

	supplierOrders := e.analyzer.GroupBySupplier(analyses)

	totalReorder := 0.0
	reorderSKUs := 0
	for _, group := range supplierOrders {
		totalReorder += group.ReorderTotalEUR
		reorderSKUs += len(group.ReorderItems)
	}
	log.Info().
		Int("reorder_skus", reorderSKUs).
		Float64("total_eur", round2(totalReorder)).
		Int("suppliers", len(supplierOrders)).
		Msg("reorder: analysis complete")

	return supplierOrders, nil
}

// Report runs the analysis and renders the formatted document.
func (e *Engine) Report(ctx context.Context, opts Options) (domain.Report, error) {
	supplierOrders, err := e.Run(ctx, opts)
	if err != nil {
		return domain.Report{}, err
	}
	return FormatReport(supplierOrders, e.now()), nil
}

// fetchVelocity degrades a window-wide collaborator failure to "no data for
// any SKU in that window".
func (e *Engine) fetchVelocity(ctx context.Context, startDate, endDate string) map[string]domain.WeeklySales {
	data, err := e.velocity.SalesVelocity(ctx, startDate, endDate)
	if err != nil {
		log.Warn().Err(err).Str("start", startDate).Str("end", endDate).
			Msg("reorder: sales history fetch failed, treating window as empty")
		return map[string]domain.WeeklySales{}
	}
	log.Info().Int("skus", len(data)).Str("start", startDate).Str("end", endDate).
		Msg("reorder: loaded sales velocity window")
	return data
}

func (e *Engine) safeAnalyze(item domain.Item, poQuantities map[string]int, lastYear, ninetyDay map[string]domain.WeeklySales) (analysis *domain.SKUAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("sku", item.SKU).Msg("reorder: SKU analysis failed, skipping")
			analysis = nil
		}
	}()
	return e.analyzer.AnalyzeSKU(item, poQuantities, lastYear, ninetyDay)
}

func (e *Engine) safeAnalyzeQuick(item domain.Item, poQuantities map[string]int) (analysis *domain.SKUAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("sku", item.SKU).Msg("reorder: SKU analysis failed, skipping")
			analysis = nil
		}
	}()
	return e.analyzer.AnalyzeQuick(item, poQuantities)
}

func filterByBrands(items []domain.Item, brands []string) []domain.Item {
	lowered := make([]string, 0, len(brands))
	for _, b := range brands {
		b = strings.ToLower(strings.TrimSpace(b))
		if b != "" {
			lowered = append(lowered, b)
		}
	}
	if len(lowered) == 0 {
		return items
	}

	filtered := make([]domain.Item, 0, len(items))
	for _, item := range items {
		brand := strings.ToLower(item.Brand)
		manufacturer := strings.ToLower(item.Manufacturer)
		for _, b := range lowered {
			if strings.Contains(brand, b) || strings.Contains(manufacturer, b) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}
