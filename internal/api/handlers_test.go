package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailmetrics/superstore-analytics/internal/config"
	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// fakeSource serves a fixed order set, recording the last filter.
type fakeSource struct {
	orders     []domain.Order
	err        error
	lastFilter domain.OrderFilter
}

func (s *fakeSource) Load(_ context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	s.lastFilter = f
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.From != nil && o.OrderDate.Before(*f.From) {
			continue
		}
		if f.To != nil && o.OrderDate.After(*f.To) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeSource) Count(context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.orders), nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Analytics.DefaultElasticity = 0.5
	cfg.Analytics.SegmentScheme = "basic"
	cfg.Analytics.ClusterCount = 4
	cfg.Analytics.ForecastMonths = 6
	return cfg
}

func fixtureOrders() []domain.Order {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var orders []domain.Order
	for i := 0; i < 12; i++ {
		orders = append(orders, domain.Order{
			OrderID:    "ORD-" + string(rune('A'+i)),
			OrderDate:  base.AddDate(0, i%6, i),
			CustomerID: "C" + string(rune('1'+i%4)),
			Region:     "West",
			Category:   "Furniture",
			Sales:      1000 + float64(i)*100,
			Profit:     200 - float64(i)*40,
			Discount:   float64(i%5) * 0.1,
		})
	}
	return orders
}

func newTestServer(src *fakeSource) *httptest.Server {
	h := NewHandlers(src, testConfig())
	return httptest.NewServer(SetupRoutes(h))
}

func getJSON(t *testing.T, url string, dest interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	var body map[string]interface{}
	resp := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(12), body["orders"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	srv := newTestServer(&fakeSource{err: errors.New("db down")})
	defer srv.Close()

	var body map[string]interface{}
	getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, "degraded", body["status"])
}

func TestGetRFM(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	var body struct {
		RunID   string `json:"run_id"`
		Records []struct {
			CustomerID string `json:"customer_id"`
			R          int    `json:"r"`
			F          int    `json:"f"`
			Segment    string `json:"segment"`
		} `json:"records"`
		Customers int `json:"customers"`
	}
	resp := getJSON(t, srv.URL+"/api/analytics/rfm", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, 4, body.Customers)
	require.Len(t, body.Records, 4)
	for _, rec := range body.Records {
		assert.NotEmpty(t, rec.Segment)
	}
}

func TestGetRFM_BadScheme(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/rfm?scheme=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetRFM_BadSnapshot(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/rfm?snapshot=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetRFMSegments(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	var body struct {
		Segments []struct {
			Segment   string  `json:"segment"`
			Customers int     `json:"customers"`
			Monetary  float64 `json:"monetary"`
		} `json:"segments"`
	}
	resp := getJSON(t, srv.URL+"/api/analytics/rfm/segments", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body.Segments)

	total := 0
	for _, s := range body.Segments {
		total += s.Customers
	}
	assert.Equal(t, 4, total)
}

func TestSimulateROI(t *testing.T) {
	orders := []domain.Order{
		{OrderID: "1", OrderDate: time.Now().UTC(), CustomerID: "C1", Sales: 1000, Profit: 200, Discount: 0.3},
		{OrderID: "2", OrderDate: time.Now().UTC(), CustomerID: "C2", Sales: 2000, Profit: 400, Discount: 0.4},
	}
	srv := newTestServer(&fakeSource{orders: orders})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analytics/roi", "application/json",
		strings.NewReader(`{"discount_cap":0.2}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Elasticity float64 `json:"elasticity"`
		Impact     struct {
			OriginalProfit float64 `json:"original_profit"`
			NewProfit      float64 `json:"new_profit"`
			ProfitGain     float64 `json:"profit_gain"`
			RevenueRisk    float64 `json:"revenue_risk"`
		} `json:"impact"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0.5, body.Elasticity)
	assert.InDelta(t, 600, body.Impact.OriginalProfit, 1e-9)
	assert.InDelta(t, 350, body.Impact.NewProfit, 1e-9)
	assert.InDelta(t, -250, body.Impact.ProfitGain, 1e-9)
	assert.InDelta(t, 250, body.Impact.RevenueRisk, 1e-9)
}

func TestSimulateROI_BadCap(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analytics/roi", "application/json",
		strings.NewReader(`{"discount_cap":1.5}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimulateROI_BadBody(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analytics/roi", "application/json",
		strings.NewReader(`{not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProfitability(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	var body map[string]interface{}
	resp := getJSON(t, srv.URL+"/api/analytics/profitability", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "losses")
	assert.Contains(t, body, "discount_bands")
	assert.Contains(t, body, "sub_categories")
}

func TestGetMoneyPits_InvalidLimit(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/money-pits?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTrends_FilterPassthrough(t *testing.T) {
	src := &fakeSource{orders: fixtureOrders()}
	srv := newTestServer(src)
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/trends?from=2023-02-01&region=West,East", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, src.lastFilter.From)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), *src.lastFilter.From)
	assert.Equal(t, []string{"West", "East"}, src.lastFilter.Regions)
}

func TestGetForecast_InsufficientHistory(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()[:1]})
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/forecast", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetRFM_ScoreMonetary(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	var body struct {
		Records []struct {
			M int `json:"m"`
		} `json:"records"`
	}
	getJSON(t, srv.URL+"/api/analytics/rfm?score_monetary=true", &body)
	require.NotEmpty(t, body.Records)
	for _, rec := range body.Records {
		assert.NotZero(t, rec.M)
	}
}

func TestGetClusters_KTooSmall(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/clusters?k=1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetClusters_BadK(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/clusters?k=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateData(t *testing.T) {
	orders := fixtureOrders()
	orders[0].Sales = -5
	srv := newTestServer(&fakeSource{orders: orders})
	defer srv.Close()

	var body struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	resp := getJSON(t, srv.URL+"/api/analytics/validate", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, body.Valid)
	require.NotEmpty(t, body.Errors)
	assert.Contains(t, body.Errors[0], "Warning:")
}

func TestExportRFM(t *testing.T) {
	srv := newTestServer(&fakeSource{orders: fixtureOrders()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/export/rfm.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "rfm.csv")
}

func TestSourceError_Returns500(t *testing.T) {
	srv := newTestServer(&fakeSource{err: errors.New("db down")})
	defer srv.Close()

	resp := getJSON(t, srv.URL+"/api/analytics/rfm", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
