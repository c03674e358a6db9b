// backend-go/internal/zoho/client.go
package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmbrands/reorder/backend-go/internal/config"
	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// maxPages bounds catalog pagination (200 items/page, so 20k items).
const maxPages = 100

const defaultFetchBatch = 20

// Client talks to the Zoho Inventory REST API. Tokens are minted from the
// long-lived refresh token and reused until expiry.
type Client struct {
	cfg        config.ZohoConfig
	httpClient *http.Client
	tokens     oauth2.TokenSource
	fetchBatch int
}

func NewClient(cfg config.ZohoConfig) *Client {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.AccountsURL + "/oauth/v2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	batch := cfg.FetchBatch
	if batch < 1 {
		batch = defaultFetchBatch
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens: oauth2.ReuseTokenSource(nil, oauthCfg.TokenSource(
			context.Background(),
			&oauth2.Token{RefreshToken: cfg.RefreshToken},
		)),
		fetchBatch: batch,
	}
}

type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("zoho api error: %d - %s", e.StatusCode, e.Message)
}

// get performs an authenticated GET and decodes the JSON envelope into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("organization_id", c.cfg.OrgID)

	reqURL := fmt.Sprintf("%s/%s?%s", c.cfg.APIBaseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	// Zoho uses its own auth scheme instead of Bearer.
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zoho request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read zoho response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := string(body)
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
			message = envelope.Message
		}
		return &apiError{StatusCode: resp.StatusCode, Message: message}
	}

	return json.Unmarshal(body, out)
}

type pageContext struct {
	HasMorePage bool `json:"has_more_page"`
}

type zohoItem struct {
	SKU            string  `json:"sku"`
	ItemID         string  `json:"item_id"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	Manufacturer   string  `json:"manufacturer"`
	Status         string  `json:"status"`
	StockOnHand    float64 `json:"stock_on_hand"`
	CommittedStock float64 `json:"committed_stock"`
	StockCommitted float64 `json:"stock_committed"`
	PurchaseRate   float64 `json:"purchase_rate"`
	PurchasePrice  float64 `json:"purchase_price"`
}

// Items pages through the full item catalog, inactive items included.
func (c *Client) Items(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item

	for page := 1; page <= maxPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", "200")

		var resp struct {
			Items       []zohoItem  `json:"items"`
			PageContext pageContext `json:"page_context"`
		}
		if err := c.get(ctx, "items", params, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch items page %d: %w", page, err)
		}

		for _, it := range resp.Items {
			items = append(items, domain.Item{
				SKU:            it.SKU,
				ItemID:         it.ItemID,
				Name:           it.Name,
				Brand:          it.Brand,
				Manufacturer:   it.Manufacturer,
				Status:         it.Status,
				StockOnHand:    int(it.StockOnHand),
				CommittedStock: int(it.CommittedStock),
				StockCommitted: int(it.StockCommitted),
				PurchaseRate:   it.PurchaseRate,
				PurchasePrice:  it.PurchasePrice,
			})
		}

		if !resp.PageContext.HasMorePage {
			break
		}
	}

	log.Info().Int("items", len(items)).Msg("zoho: fetched item catalog")
	return items, nil
}
