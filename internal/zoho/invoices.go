package zoho

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type invoiceSummary struct {
	InvoiceID string `json:"invoice_id"`
	Date      string `json:"date"`
}

type invoiceLineItem struct {
	SKU      string  `json:"sku"`
	Quantity float64 `json:"quantity"`
}

type invoiceDetail struct {
	Invoice struct {
		LineItems []invoiceLineItem `json:"line_items"`
	} `json:"invoice"`
}

// InvoiceLine is one line of a posted invoice, flattened for aggregation and
// for mirroring into the database.
type InvoiceLine struct {
	InvoiceID string
	Date      string
	SKU       string
	Quantity  int
}

// InvoiceLines returns all invoice lines in the inclusive date range. The
// invoice list endpoint has no line items, so details are fetched
// concurrently in bounded batches; the per-invoice round trip dominates
// wall-clock time and the caller aggregates by summation, so fetch order is
// irrelevant.
//
// A single invoice failing to fetch is logged and skipped: one lost invoice
// barely moves a 6-week average, while failing the window would zero it.
func (c *Client) InvoiceLines(ctx context.Context, startDate, endDate string) ([]InvoiceLine, error) {
	invoices, err := c.listInvoices(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices %s..%s: %w", startDate, endDate, err)
	}
	log.Info().Int("invoices", len(invoices)).Str("start", startDate).Str("end", endDate).
		Msg("zoho: fetching invoice line items")

	var (
		mu    sync.Mutex
		lines []InvoiceLine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fetchBatch)
	for _, invoice := range invoices {
		invoice := invoice
		g.Go(func() error {
			var detail invoiceDetail
			if err := c.get(gctx, "invoices/"+invoice.InvoiceID, nil, &detail); err != nil {
				log.Warn().Err(err).Str("invoice_id", invoice.InvoiceID).Msg("zoho: skipping invoice")
				return nil
			}

			mu.Lock()
			for _, line := range detail.Invoice.LineItems {
				qty := int(line.Quantity)
				if line.SKU != "" && qty > 0 {
					lines = append(lines, InvoiceLine{
						InvoiceID: invoice.InvoiceID,
						Date:      invoice.Date,
						SKU:       line.SKU,
						Quantity:  qty,
					})
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lines, nil
}

// SalesVelocity aggregates invoiced quantity per SKU over an inclusive date
// range, serving velocity straight from the API when no invoice mirror is
// available.
func (c *Client) SalesVelocity(ctx context.Context, startDate, endDate string) (map[string]domain.WeeklySales, error) {
	lines, err := c.InvoiceLines(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, line := range lines {
		totals[line.SKU] += line.Quantity
	}

	velocity := make(map[string]domain.WeeklySales, len(totals))
	for sku, total := range totals {
		velocity[sku] = domain.AggregateSales(total)
	}

	log.Info().Int("skus", len(velocity)).Msg("zoho: aggregated sales velocity")
	return velocity, nil
}

func (c *Client) listInvoices(ctx context.Context, startDate, endDate string) ([]invoiceSummary, error) {
	var invoices []invoiceSummary

	for page := 1; page <= maxPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", "200")
		params.Set("date_start", startDate)
		params.Set("date_end", endDate)

		var resp struct {
			Invoices    []invoiceSummary `json:"invoices"`
			PageContext pageContext      `json:"page_context"`
		}
		if err := c.get(ctx, "invoices", params, &resp); err != nil {
			return nil, err
		}

		invoices = append(invoices, resp.Invoices...)

		if !resp.PageContext.HasMorePage {
			break
		}
	}

	return invoices, nil
}
