package api

import (
	"net/http"
	"strconv"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

// GetTrends returns the monthly sales series with growth metrics.
func (h *Handlers) GetTrends(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey("trends", f)
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

	resp = map[string]interface{}{
		"run_id": newRunID(),
		"trends": analytics.AnalyzeTrends(orders),
	}
	h.cache.Set(r.Context(), key, resp)
	respondJSON(w, http.StatusOK, resp)
}

// GetForecast projects monthly sales forward. Optional param: months
// (default from config).
func (h *Handlers) GetForecast(w http.ResponseWriter, r *http.Request) {
	months := h.config.Analytics.ForecastMonths
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "months must be an integer >= 1")
			return
		}
		months = n
	}

	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	orders, err := h.orders.Load(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := analytics.ForecastSales(orders, months)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   newRunID(),
		"forecast": report,
	})
}
