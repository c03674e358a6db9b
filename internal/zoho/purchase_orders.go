package zoho

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type poLineItem struct {
	SKU              string  `json:"sku"`
	Quantity         float64 `json:"quantity"`
	QuantityReceived float64 `json:"quantity_received"`
}

type purchaseOrderSummary struct {
	PurchaseOrderID string `json:"purchaseorder_id"`
}

type purchaseOrderDetail struct {
	PurchaseOrder struct {
		LineItems []poLineItem `json:"line_items"`
	} `json:"purchaseorder"`
}

// OpenPOQuantities sums pending quantity (ordered minus received) per SKU
// across all open and draft purchase orders. The list endpoint omits line
// items, so each PO is fetched individually with bounded concurrency.
func (c *Client) OpenPOQuantities(ctx context.Context) (map[string]int, error) {
	var poIDs []string
	for _, status := range []string{"open", "draft"} {
		ids, err := c.listPurchaseOrderIDs(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s purchase orders: %w", status, err)
		}
		poIDs = append(poIDs, ids...)
	}

	var (
		mu         sync.Mutex
		quantities = make(map[string]int)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fetchBatch)
	for _, poID := range poIDs {
		poID := poID
		g.Go(func() error {
			var detail purchaseOrderDetail
			if err := c.get(gctx, "purchaseorders/"+poID, nil, &detail); err != nil {
				return fmt.Errorf("failed to fetch purchase order %s: %w", poID, err)
			}

			mu.Lock()
			for _, line := range detail.PurchaseOrder.LineItems {
				pending := int(line.Quantity - line.QuantityReceived)
				if line.SKU != "" && pending > 0 {
					quantities[line.SKU] += pending
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("skus", len(quantities)).Int("pos", len(poIDs)).
		Msg("zoho: aggregated open PO quantities")
	return quantities, nil
}

func (c *Client) listPurchaseOrderIDs(ctx context.Context, status string) ([]string, error) {
	var ids []string

	for page := 1; page <= maxPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", "200")
		params.Set("status", status)

		var resp struct {
			PurchaseOrders []purchaseOrderSummary `json:"purchaseorders"`
			PageContext    pageContext            `json:"page_context"`
		}
		if err := c.get(ctx, "purchaseorders", params, &resp); err != nil {
			return nil, err
		}

		for _, po := range resp.PurchaseOrders {
			ids = append(ids, po.PurchaseOrderID)
		}

		if !resp.PageContext.HasMorePage {
			break
		}
	}

	return ids, nil
}
