package service

import (
	"context"
	"time"

	"github.com/dmbrands/reorder/backend-go/internal/cache"
	"github.com/dmbrands/reorder/backend-go/internal/config"
	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/dmbrands/reorder/backend-go/internal/reorder"
	"github.com/rs/zerolog/log"
)

// FirstSaleSource supplies the earliest invoice date per SKU. Optional: a
// deployment without the invoice mirror runs fine, it just cannot tell new
// products from stale ones by launch date.
type FirstSaleSource interface {
	FirstSaleDates(ctx context.Context) (map[string]string, error)
}

// ReorderService owns the engine plus the caching and degradation policy
// around it. Handlers and the CLI both go through here.
type ReorderService struct {
	engine    *reorder.Engine
	snapshots cache.SnapshotCache
	budget    time.Duration
	now       func() time.Time
}

func NewReorderService(
	cfg *config.Config,
	catalog reorder.CatalogSource,
	openPOs reorder.OpenPOSource,
	velocity reorder.VelocitySource,
	firstSales FirstSaleSource,
	snapshots cache.SnapshotCache,
	clock func() time.Time,
) *ReorderService {
	if snapshots == nil {
		snapshots = cache.NewNoopSnapshotCache()
	}
	if clock == nil {
		clock = time.Now
	}

	engineCfg := reorder.Config{
		MinCoverWeeks:       cfg.Reorder.MinCoverWeeks,
		TopupMaxWeeks:       cfg.Reorder.TopupMaxWeeks,
		TargetCoverWeeks:    cfg.Reorder.TargetCoverWeeks,
		AnomalyMultiplier:   cfg.Reorder.AnomalyMultiplier,
		QuickStockThreshold: cfg.Reorder.QuickStockThreshold,
		QuickVelocity:       cfg.Reorder.QuickVelocity,
		QuickRefillTarget:   cfg.Reorder.QuickRefillTarget,
	}
	registry := reorder.NewSupplierRegistry(cfg.Reorder.DefaultMinimumEUR)

	engine := reorder.NewEngine(
		engineCfg,
		registry,
		&cachedCatalog{upstream: catalog, snapshots: snapshots, firstSales: firstSales},
		&cachedOpenPOs{upstream: openPOs, snapshots: snapshots},
		velocity,
		clock,
	)

	return &ReorderService{
		engine:    engine,
		snapshots: snapshots,
		budget:    time.Duration(cfg.Reorder.FullModeBudgetSeconds) * time.Second,
		now:       clock,
	}
}

// Analyze runs the engine. Full mode gets a wall-clock budget; when the
// budget expires before the caller's own deadline, the run degrades to quick
// mode rather than returning nothing.
func (s *ReorderService) Analyze(ctx context.Context, opts reorder.Options) (map[string]domain.SupplierOrder, error) {
	if opts.Quick || s.budget <= 0 {
		return s.engine.Run(ctx, opts)
	}

	budgetCtx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	orders, err := s.engine.Run(budgetCtx, opts)
	if err != nil && budgetCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		log.Warn().Dur("budget", s.budget).Msg("full analysis exceeded budget, degrading to quick mode")
		opts.Quick = true
		return s.engine.Run(ctx, opts)
	}
	return orders, err
}

// Report runs Analyze and renders the supplier-grouped document.
func (s *ReorderService) Report(ctx context.Context, opts reorder.Options) (domain.Report, error) {
	orders, err := s.Analyze(ctx, opts)
	if err != nil {
		return domain.Report{}, err
	}
	return reorder.FormatReport(orders, s.now()), nil
}

// InvalidateCache drops the cached catalog and open PO snapshots so the next
// run sees fresh upstream data.
func (s *ReorderService) InvalidateCache(ctx context.Context) error {
	return s.snapshots.InvalidateAll(ctx)
}

// cachedCatalog is a cache-aside wrapper around the upstream catalog. It also
// stamps first-sale dates from the invoice mirror onto each item, which is
// what lets the analyzer apply the new-product fallback.
type cachedCatalog struct {
	upstream   reorder.CatalogSource
	snapshots  cache.SnapshotCache
	firstSales FirstSaleSource
}

func (c *cachedCatalog) Items(ctx context.Context) ([]domain.Item, error) {
	items, ok, err := c.snapshots.GetCatalog(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache read failed")
	}
	if !ok {
		items, err = c.upstream.Items(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.snapshots.SetCatalog(ctx, items); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}

	return c.enrichFirstSales(ctx, items), nil
}

func (c *cachedCatalog) enrichFirstSales(ctx context.Context, items []domain.Item) []domain.Item {
	if c.firstSales == nil {
		return items
	}

	dates, err := c.firstSales.FirstSaleDates(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("first sale lookup failed, skipping new-product detection")
		return items
	}

	for i := range items {
		if date, ok := dates[items[i].SKU]; ok {
			items[i].FirstSaleDate = date
		}
	}
	return items
}

type cachedOpenPOs struct {
	upstream  reorder.OpenPOSource
	snapshots cache.SnapshotCache
}

func (c *cachedOpenPOs) OpenPOQuantities(ctx context.Context) (map[string]int, error) {
	quantities, ok, err := c.snapshots.GetOpenPOs(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("open po cache read failed")
	}
	if ok {
		return quantities, nil
	}

	quantities, err = c.upstream.OpenPOQuantities(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.snapshots.SetOpenPOs(ctx, quantities); err != nil {
		log.Warn().Err(err).Msg("open po cache write failed")
	}
	return quantities, nil
}
