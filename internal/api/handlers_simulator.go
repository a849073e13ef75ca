package api

import (
	"encoding/json"
	"net/http"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

type simulateRequest struct {
	DiscountCap float64  `json:"discount_cap"`
	Elasticity  *float64 `json:"elasticity,omitempty"`
}

// SimulateROI runs the discount-cap what-if over the filtered order set.
// The request body carries the cap and an optional elasticity override.
func (h *Handlers) SimulateROI(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	elasticity := h.config.Analytics.DefaultElasticity
	if req.Elasticity != nil {
		elasticity = *req.Elasticity
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

	impact, err := analytics.SimulateDiscountCap(orders, req.DiscountCap, elasticity)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":       newRunID(),
		"discount_cap": req.DiscountCap,
		"elasticity":   elasticity,
		"impact":       impact,
	})
}

// ValidateData runs input quality checks over the filtered order set.
func (h *Handlers) ValidateData(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, analytics.ValidateOrders(orders))
}
