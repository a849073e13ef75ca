package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// Smoothing constants for the exponential-smoothing forecaster. Fixed
// rather than optimized: the original model family fits on monthly
// retail data where these are reasonable mid-range choices.
const (
	smoothLevel    = 0.35
	smoothTrend    = 0.10
	smoothSeasonal = 0.15
	seasonLength   = 12
)

// ForecastPoint is one projected month of sales.
type ForecastPoint struct {
	Month     string  `json:"month"`
	MonthName string  `json:"month_name"`
	Sales     float64 `json:"sales"`
}

// ForecastReport holds the fitted history and the forward projection.
type ForecastReport struct {
	History  []MonthlySales  `json:"history"`
	Fitted   []float64       `json:"fitted"` // one-step-ahead in-sample fit, aligned with History
	Forecast []ForecastPoint `json:"forecast"`
	MAE      float64         `json:"mae"`
	RMSE     float64         `json:"rmse"`
	Seasonal bool            `json:"seasonal"` // true when enough history for a 12-month seasonal component
}

// ForecastSales fits an additive exponential-smoothing model (Holt, or
// Holt-Winters with a 12-month seasonal component when at least two
// full seasons of history exist) on the monthly sales series and
// projects it months ahead. Requires at least three months of history.
func ForecastSales(orders []domain.Order, months int) (ForecastReport, error) {
	if months < 1 {
		return ForecastReport{}, fmt.Errorf("forecast horizon must be >= 1 month, got %d", months)
	}

	history := MonthlySalesSeries(orders)
	if len(history) < 3 {
		return ForecastReport{}, fmt.Errorf("need at least 3 months of history, have %d", len(history))
	}

	series := make([]float64, len(history))
	for i, m := range history {
		series[i] = m.Sales
	}

	seasonal := len(series) >= 2*seasonLength
	var fitted, projected []float64
	if seasonal {
		fitted, projected = holtWinters(series, months)
	} else {
		fitted, projected = holt(series, months)
	}

	report := ForecastReport{History: history, Fitted: fitted, Seasonal: seasonal}

	absErr := make([]float64, len(series))
	sqErr := make([]float64, len(series))
	for i := range series {
		diff := series[i] - fitted[i]
		absErr[i] = math.Abs(diff)
		sqErr[i] = diff * diff
	}
	report.MAE, _ = stats.Mean(absErr)
	if meanSq, err := stats.Mean(sqErr); err == nil {
		report.RMSE = math.Sqrt(meanSq)
	}

	lastMonth, err := time.Parse("2006-01", history[len(history)-1].Month)
	if err != nil {
		return ForecastReport{}, fmt.Errorf("parse last history month: %w", err)
	}
	for i, v := range projected {
		m := lastMonth.AddDate(0, i+1, 0)
		report.Forecast = append(report.Forecast, ForecastPoint{
			Month:     m.Format("2006-01"),
			MonthName: m.Format("January 2006"),
			Sales:     v,
		})
	}
	return report, nil
}

// holt runs double exponential smoothing (level + trend) and returns
// the one-step-ahead fitted values plus an n-step projection.
func holt(series []float64, n int) (fitted, projected []float64) {
	level := series[0]
	trend := series[1] - series[0]

	fitted = make([]float64, len(series))
	fitted[0] = series[0]
	for t := 1; t < len(series); t++ {
		fitted[t] = level + trend
		prevLevel := level
		level = smoothLevel*series[t] + (1-smoothLevel)*(level+trend)
		trend = smoothTrend*(level-prevLevel) + (1-smoothTrend)*trend
	}

	projected = make([]float64, n)
	for i := 0; i < n; i++ {
		projected[i] = level + float64(i+1)*trend
	}
	return fitted, projected
}

// holtWinters runs additive triple exponential smoothing with a fixed
// 12-month season.
func holtWinters(series []float64, n int) (fitted, projected []float64) {
	m := seasonLength

	// Initial level/trend from the first two seasons.
	var first, second float64
	for i := 0; i < m; i++ {
		first += series[i] / float64(m)
		second += series[m+i] / float64(m)
	}
	level := first
	trend := (second - first) / float64(m)

	// Initial seasonal components: deviation from the first-season mean.
	season := make([]float64, m)
	for i := 0; i < m; i++ {
		season[i] = series[i] - first
	}

	fitted = make([]float64, len(series))
	for t := 0; t < len(series); t++ {
		s := season[t%m]
		fitted[t] = level + trend + s
		prevLevel := level
		level = smoothLevel*(series[t]-s) + (1-smoothLevel)*(level+trend)
		trend = smoothTrend*(level-prevLevel) + (1-smoothTrend)*trend
		season[t%m] = smoothSeasonal*(series[t]-level) + (1-smoothSeasonal)*s
	}

	projected = make([]float64, n)
	for i := 0; i < n; i++ {
		projected[i] = level + float64(i+1)*trend + season[(len(series)+i)%m]
	}
	return fitted, projected
}
