package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

func linearOrders(months int, start, step float64) []domain.Order {
	var orders []domain.Order
	for i := 0; i < months; i++ {
		orders = append(orders, domain.Order{
			OrderID:    "O",
			OrderDate:  time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0),
			CustomerID: "C",
			Sales:      start + float64(i)*step,
		})
	}
	return orders
}

func TestForecastSales_Linear(t *testing.T) {
	// 12 months growing linearly: the Holt forecast should keep growing.
	report, err := ForecastSales(linearOrders(12, 1000, 100), 6)
	require.NoError(t, err)

	assert.False(t, report.Seasonal)
	require.Len(t, report.Forecast, 6)
	require.Len(t, report.Fitted, 12)
	assert.Equal(t, "2023-01", report.Forecast[0].Month)
	assert.Equal(t, "2023-06", report.Forecast[5].Month)

	last := report.History[len(report.History)-1].Sales
	for i, p := range report.Forecast {
		assert.Greater(t, p.Sales, last, "forecast month %d should continue the upward trend", i)
	}
	assert.GreaterOrEqual(t, report.MAE, 0.0)
	assert.GreaterOrEqual(t, report.RMSE, report.MAE) // RMSE >= MAE always
}

func TestForecastSales_SeasonalModel(t *testing.T) {
	// Two full years of history switches on the seasonal component.
	report, err := ForecastSales(linearOrders(24, 1000, 50), 3)
	require.NoError(t, err)
	assert.True(t, report.Seasonal)
	require.Len(t, report.Forecast, 3)
}

func TestForecastSales_InsufficientHistory(t *testing.T) {
	_, err := ForecastSales(linearOrders(2, 1000, 100), 6)
	assert.Error(t, err)
}

func TestForecastSales_BadHorizon(t *testing.T) {
	_, err := ForecastSales(linearOrders(12, 1000, 100), 0)
	assert.Error(t, err)
}
