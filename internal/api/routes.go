package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard/summary", h.GetDashboardSummary)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/rfm", h.GetRFM)
			r.Get("/rfm/segments", h.GetRFMSegments)
			r.Post("/roi", h.SimulateROI)
			r.Get("/profitability", h.GetProfitability)
			r.Get("/money-pits", h.GetMoneyPits)
			r.Get("/trends", h.GetTrends)
			r.Get("/forecast", h.GetForecast)
			r.Get("/clusters", h.GetClusters)
			r.Get("/validate", h.ValidateData)
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/rfm.csv", h.ExportRFM)
			r.Get("/money-pits.csv", h.ExportMoneyPits)
		})
	})

	return r
}
