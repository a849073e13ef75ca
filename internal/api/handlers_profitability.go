package api

import (
	"net/http"
	"strconv"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

// GetProfitability returns the loss breakdown, discount bands and
// per-sub-category profit for the filtered order set.
func (h *Handlers) GetProfitability(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey("profitability", f)
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
		"run_id":         newRunID(),
		"summary":        analytics.Summarize(orders),
		"losses":         analytics.AnalyzeLosses(orders),
		"discount_bands": analytics.DiscountBands(orders),
		"sub_categories": analytics.ProfitBySubCategory(orders),
	}
	h.cache.Set(r.Context(), key, resp)
	respondJSON(w, http.StatusOK, resp)
}

// GetMoneyPits returns the worst-losing category/sub-category/region
// groups. Optional param: limit (default 10).
func (h *Handlers) GetMoneyPits(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
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

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     newRunID(),
		"money_pits": analytics.FindMoneyPits(orders, limit),
	})
}
