package api

import (
	"net/http"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

// GetDashboardSummary returns the headline KPIs, segment rollup and
// monthly sales series in one call.
func (h *Handlers) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	rules, err := h.segmentRules(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey("dashboard", f) + ":scheme=" + r.URL.Query().Get("scheme")
	var resp map[string]interface{}
	if h.cache.Get(r.Context(), key, &resp) {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	orders, err := h.orders.Load(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := analytics.CalculateRFM(orders, analytics.RFMOptions{Rules: rules})
	resp = map[string]interface{}{
		"run_id":     newRunID(),
		"summary":    analytics.Summarize(orders),
		"segments":   analytics.RollupSegments(records),
		"monthly":    analytics.MonthlySalesSeries(orders),
		"validation": analytics.ValidateOrders(orders),
	}
	h.cache.Set(r.Context(), key, resp)
	respondJSON(w, http.StatusOK, resp)
}
