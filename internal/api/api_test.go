package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmbrands/reorder/backend-go/internal/cache"
	"github.com/dmbrands/reorder/backend-go/internal/config"
	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/dmbrands/reorder/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct{ items []domain.Item }

func (f *fakeCatalog) Items(ctx context.Context) ([]domain.Item, error) {
	return f.items, nil
}

type fakeOpenPOs struct{}

func (f *fakeOpenPOs) OpenPOQuantities(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

type fakeVelocity struct{ data map[string]domain.WeeklySales }

func (f *fakeVelocity) SalesVelocity(ctx context.Context, startDate, endDate string) (map[string]domain.WeeklySales, error) {
	return f.data, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Reorder: config.ReorderConfig{
			MinCoverWeeks:       5,
			TopupMaxWeeks:       12,
			TargetCoverWeeks:    12,
			AnomalyMultiplier:   3,
			DefaultMinimumEUR:   500,
			QuickStockThreshold: 20,
			QuickVelocity:       4,
			QuickRefillTarget:   50,
		},
	}

	catalog := &fakeCatalog{items: []domain.Item{
		{SKU: "R-1", Brand: "Räder", Status: "active", StockOnHand: 10, PurchaseRate: 5},
		{SKU: "E-1", Brand: "Elvang", Status: "active", StockOnHand: 5, PurchaseRate: 20},
	}}
	velocity := &fakeVelocity{data: map[string]domain.WeeklySales{
		"R-1": domain.AggregateSales(60),
		"E-1": domain.AggregateSales(30),
	}}

	clock := func() time.Time { return time.Date(2025, 11, 15, 10, 30, 0, 0, time.UTC) }
	svc := service.NewReorderService(cfg, catalog, &fakeOpenPOs{}, velocity, nil, cache.NewNoopSnapshotCache(), clock)

	return NewRouter(&Services{ReorderService: svc}, nil)
}

func doRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetAnalysis(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/reorder/analysis")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Suppliers map[string]domain.SupplierOrder `json:"suppliers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Contains(t, body.Suppliers, "Räder")
	require.Contains(t, body.Suppliers, "Elvang")
	require.NotEmpty(t, body.Suppliers["Räder"].ReorderItems)
	assert.Equal(t, "last_year", body.Suppliers["Räder"].ReorderItems[0].VelocitySource)
}

func TestGetAnalysisBrandFilter(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/reorder/analysis?brands=elvang")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Suppliers map[string]domain.SupplierOrder `json:"suppliers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Contains(t, body.Suppliers, "Elvang")
	assert.NotContains(t, body.Suppliers, "Räder")
}

func TestGetAnalysisQuickMode(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/reorder/analysis?quick=true")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Suppliers map[string]domain.SupplierOrder `json:"suppliers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// Stock 5 is under the threshold of 20 for both items.
	require.Contains(t, body.Suppliers, "Elvang")
	assert.Equal(t, "estimated", body.Suppliers["Elvang"].ReorderItems[0].VelocitySource)
}

func TestGetReport(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/reorder/report")
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	assert.Equal(t, "2025-11-15T10:30:00Z", report.GeneratedAt)
	assert.NotZero(t, report.Summary.SupplierCount)
}

func TestInvalidateCache(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/reorder/cache/invalidate")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
