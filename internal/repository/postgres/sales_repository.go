package postgres

import (
	"context"
	"fmt"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// SalesRepository reads the invoice line mirror kept in sync by the backfill
// CLI. Serving velocity from the mirror avoids hammering the upstream API
// with one detail request per invoice on every analysis.
type SalesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *SalesRepository {
	return &SalesRepository{db: db}
}

type weeklySalesRow struct {
	SKU      string `db:"sku"`
	Week     string `db:"week"`
	Quantity int    `db:"qty"`
}

type firstSaleRow struct {
	SKU       string `db:"sku"`
	FirstSale string `db:"first_sale"`
}

// SalesVelocity returns per-SKU weekly sales series for the inclusive date
// range, bucketed by ISO week. Weekly buckets let the anomaly detector see
// spikes that an aggregate total would flatten.
func (r *SalesRepository) SalesVelocity(ctx context.Context, startDate, endDate string) (map[string]domain.WeeklySales, error) {
	query := `
        SELECT sku,
               to_char(invoice_date, 'IYYY-"W"IW') AS week,
               SUM(quantity) AS qty
        FROM invoice_lines
        WHERE invoice_date BETWEEN $1 AND $2
          AND sku <> ''
          AND quantity > 0
        GROUP BY sku, week`

	var rows []weeklySalesRow
	if err := r.db.SelectContext(ctx, &rows, query, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to query sales velocity: %w", err)
	}

	series := make(map[string]map[string]int)
	for _, row := range rows {
		if series[row.SKU] == nil {
			series[row.SKU] = make(map[string]int)
		}
		series[row.SKU][row.Week] += row.Quantity
	}

	velocity := make(map[string]domain.WeeklySales, len(series))
	for sku, weeks := range series {
		velocity[sku] = domain.WeeklySeries(weeks)
	}

	log.Debug().Int("skus", len(velocity)).Str("start", startDate).Str("end", endDate).
		Msg("loaded sales velocity from mirror")
	return velocity, nil
}

// FirstSaleDates returns the earliest invoice date per SKU, used to tell
// genuinely new products from established ones that simply stopped selling.
func (r *SalesRepository) FirstSaleDates(ctx context.Context) (map[string]string, error) {
	query := `
        SELECT sku,
               to_char(MIN(invoice_date), 'YYYY-MM-DD') AS first_sale
        FROM invoice_lines
        WHERE sku <> ''
        GROUP BY sku`

	var rows []firstSaleRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query first sale dates: %w", err)
	}

	dates := make(map[string]string, len(rows))
	for _, row := range rows {
		dates[row.SKU] = row.FirstSale
	}
	return dates, nil
}
