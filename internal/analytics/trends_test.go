package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

func monthOrder(year int, month time.Month, sales float64) domain.Order {
	return domain.Order{
		OrderID:    "O",
		OrderDate:  time.Date(year, month, 15, 0, 0, 0, 0, time.UTC),
		CustomerID: "C",
		Sales:      sales,
	}
}

func TestMonthlySalesSeries_ZeroFillsGaps(t *testing.T) {
	orders := []domain.Order{
		monthOrder(2023, time.January, 100),
		monthOrder(2023, time.January, 50),
		monthOrder(2023, time.April, 200),
	}

	series := MonthlySalesSeries(orders)
	require.Len(t, series, 4)

	assert.Equal(t, "2023-01", series[0].Month)
	assert.InDelta(t, 150, series[0].Sales, 1e-9)
	assert.Equal(t, 2, series[0].Orders)

	// February and March have no orders but still appear.
	assert.InDelta(t, 0, series[1].Sales, 1e-9)
	assert.InDelta(t, 0, series[2].Sales, 1e-9)

	assert.Equal(t, "2023-04", series[3].Month)
	assert.InDelta(t, 200, series[3].Sales, 1e-9)
}

func TestMonthlySalesSeries_Empty(t *testing.T) {
	series := MonthlySalesSeries(nil)
	require.NotNil(t, series)
	assert.Empty(t, series)
}

func TestAnalyzeTrends(t *testing.T) {
	orders := []domain.Order{
		monthOrder(2023, time.January, 100),
		monthOrder(2023, time.February, 300),
		monthOrder(2023, time.March, 200),
	}

	report := AnalyzeTrends(orders)
	require.Len(t, report.Monthly, 3)

	assert.InDelta(t, 200, report.AvgMonthlySales, 1e-9)
	assert.Equal(t, "February 2023", report.PeakMonth)
	assert.InDelta(t, 300, report.PeakSales, 1e-9)
	assert.InDelta(t, 100, report.GrowthPct, 1e-9) // 100 -> 200
}

func TestAnalyzeTrends_SingleMonth(t *testing.T) {
	report := AnalyzeTrends([]domain.Order{monthOrder(2023, time.June, 500)})
	require.Len(t, report.Monthly, 1)
	assert.InDelta(t, 0, report.GrowthPct, 1e-9)
	assert.Equal(t, "June 2023", report.PeakMonth)
}
