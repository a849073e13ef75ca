package api

import (
	"net/http"
	"time"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

type rfmResponse struct {
	RunID     string                `json:"run_id"`
	Snapshot  string                `json:"snapshot,omitempty"`
	Customers int                   `json:"customers"`
	Records   []analytics.RFMRecord `json:"records"`
}

// GetRFM returns the full RFM table for the filtered order set.
// Optional params: snapshot=YYYY-MM-DD, scheme=basic|extended.
func (h *Handlers) GetRFM(w http.ResponseWriter, r *http.Request) {
	rules, err := h.segmentRules(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := analytics.RFMOptions{
		Rules:         rules,
		ScoreMonetary: r.URL.Query().Get("score_monetary") == "true",
	}
	if v := r.URL.Query().Get("snapshot"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid snapshot date, want YYYY-MM-DD")
			return
		}
		opts.SnapshotDate = &t
	}

	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey("rfm", f) + ":scheme=" + r.URL.Query().Get("scheme") +
		":snap=" + r.URL.Query().Get("snapshot") + ":m=" + r.URL.Query().Get("score_monetary")
	var resp rfmResponse
	if h.cache.Get(r.Context(), key, &resp) {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	orders, err := h.orders.Load(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := analytics.CalculateRFM(orders, opts)
	resp = rfmResponse{
		RunID:     newRunID(),
		Customers: len(records),
		Records:   records,
	}
	if opts.SnapshotDate != nil {
		resp.Snapshot = opts.SnapshotDate.Format("2006-01-02")
	}
	h.cache.Set(r.Context(), key, resp)
	respondJSON(w, http.StatusOK, resp)
}

// GetRFMSegments returns per-segment customer counts and monetary totals.
func (h *Handlers) GetRFMSegments(w http.ResponseWriter, r *http.Request) {
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
	orders, err := h.orders.Load(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := analytics.CalculateRFM(orders, analytics.RFMOptions{Rules: rules})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   newRunID(),
		"segments": analytics.RollupSegments(records),
	})
}
