package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
	"github.com/retailmetrics/superstore-analytics/internal/cache"
	"github.com/retailmetrics/superstore-analytics/internal/config"
	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// OrderSource provides order rows for analytics requests.
type OrderSource interface {
	Load(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	Count(ctx context.Context) (int, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	orders OrderSource
	cache  *cache.Cache
	config *config.Config
}

// NewHandlers creates a new Handlers instance
func NewHandlers(orders OrderSource, cfg *config.Config) *Handlers {
	return &Handlers{orders: orders, config: cfg}
}

// SetCache sets the optional result cache
func (h *Handlers) SetCache(c *cache.Cache) {
	h.cache = c
}

// HealthCheck reports service liveness and row count
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if n, err := h.orders.Count(r.Context()); err == nil {
		status["orders"] = n
	} else {
		status["status"] = "degraded"
		status["error"] = err.Error()
	}
	respondJSON(w, http.StatusOK, status)
}

// ========== Request Helpers ==========

// parseFilter reads from/to/region/category query params into a filter.
// Dates are YYYY-MM-DD; region and category are comma-separated.
func parseFilter(r *http.Request) (domain.OrderFilter, error) {
	var f domain.OrderFilter
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, err
		}
		f.To = &t
	}
	if v := q.Get("region"); v != "" {
		f.Regions = splitCSV(v)
	}
	if v := q.Get("category"); v != "" {
		f.Categories = splitCSV(v)
	}
	return f, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cacheKey builds a stable cache key from the endpoint and filter.
func cacheKey(endpoint string, f domain.OrderFilter) string {
	if f.IsZero() {
		return "analytics:" + endpoint + ":all"
	}
	var sb strings.Builder
	sb.WriteString("analytics:")
	sb.WriteString(endpoint)
	if f.From != nil {
		sb.WriteString(":from=" + f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		sb.WriteString(":to=" + f.To.Format("2006-01-02"))
	}
	if len(f.Regions) > 0 {
		sb.WriteString(":r=" + strings.Join(f.Regions, ","))
	}
	if len(f.Categories) > 0 {
		sb.WriteString(":c=" + strings.Join(f.Categories, ","))
	}
	return sb.String()
}

// segmentRules resolves the configured scheme, optionally overridden
// per request via the scheme query param.
func (h *Handlers) segmentRules(r *http.Request) ([]analytics.SegmentRule, error) {
	scheme := h.config.Analytics.SegmentScheme
	if v := r.URL.Query().Get("scheme"); v != "" {
		scheme = v
	}
	return analytics.RulesForScheme(scheme)
}

// newRunID tags each computed (non-cached) response.
func newRunID() string {
	return uuid.NewString()
}

// ========== Response Helpers ==========

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
