package api

import (
	"net/http"
	"strconv"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

// GetClusters groups customers by spending behavior. Optional param: k
// (default from config).
func (h *Handlers) GetClusters(w http.ResponseWriter, r *http.Request) {
	k := h.config.Analytics.ClusterCount
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 {
			respondError(w, http.StatusBadRequest, "k must be an integer >= 2")
			return
		}
		k = n
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

	report, err := analytics.ClusterCustomers(orders, k)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   newRunID(),
		"clusters": report,
	})
}
