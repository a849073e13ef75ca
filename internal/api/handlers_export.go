package api

import (
	"net/http"
	"strconv"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
	"github.com/retailmetrics/superstore-analytics/internal/export"
	"github.com/retailmetrics/superstore-analytics/internal/pkg/logger"
)

// ExportRFM streams the RFM table as a CSV download.
func (h *Handlers) ExportRFM(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rfm.csv"`)
	if err := export.WriteRFM(w, records); err != nil {
		logger.Error("rfm export failed", "error", err)
	}
}

// ExportMoneyPits streams the worst-losing groups as a CSV download.
func (h *Handlers) ExportMoneyPits(w http.ResponseWriter, r *http.Request) {
	limit := 0 // all groups by default for exports
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

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="money_pits.csv"`)
	if err := export.WriteMoneyPits(w, analytics.FindMoneyPits(orders, limit)); err != nil {
		logger.Error("money pits export failed", "error", err)
	}
}
