package analytics

import (
	"time"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// MonthlySales is one calendar month of aggregated sales.
type MonthlySales struct {
	Month     string  `json:"month"`      // "2006-01"
	MonthName string  `json:"month_name"` // "January 2006"
	Sales     float64 `json:"sales"`
	Orders    int     `json:"orders"`
}

// TrendReport summarizes the monthly sales trajectory.
type TrendReport struct {
	Monthly         []MonthlySales `json:"monthly"`
	AvgMonthlySales float64        `json:"avg_monthly_sales"`
	PeakMonth       string         `json:"peak_month"` // "January 2006"
	PeakSales       float64        `json:"peak_sales"`
	GrowthPct       float64        `json:"growth_pct"` // first month vs last month
}

// MonthlySalesSeries resamples orders into a contiguous calendar-month
// series from the earliest to the latest order month. Months without
// orders appear with zero sales so the series has no gaps.
func MonthlySalesSeries(orders []domain.Order) []MonthlySales {
	if len(orders) == 0 {
		return []MonthlySales{}
	}

	min, max := orders[0].OrderDate, orders[0].OrderDate
	for _, o := range orders[1:] {
		if o.OrderDate.Before(min) {
			min = o.OrderDate
		}
		if o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}

	first := monthStart(min)
	last := monthStart(max)
	index := make(map[string]int)
	var series []MonthlySales
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		index[cur.Format("2006-01")] = len(series)
		series = append(series, MonthlySales{
			Month:     cur.Format("2006-01"),
			MonthName: cur.Format("January 2006"),
		})
	}

	for _, o := range orders {
		i := index[monthStart(o.OrderDate).Format("2006-01")]
		series[i].Sales += o.Sales
		series[i].Orders++
	}
	return series
}

// AnalyzeTrends builds the monthly series plus headline trend metrics.
func AnalyzeTrends(orders []domain.Order) TrendReport {
	series := MonthlySalesSeries(orders)
	report := TrendReport{Monthly: series}
	if len(series) == 0 {
		return report
	}

	var total float64
	peak := 0
	for i, m := range series {
		total += m.Sales
		if m.Sales > series[peak].Sales {
			peak = i
		}
	}
	report.AvgMonthlySales = total / float64(len(series))
	report.PeakMonth = series[peak].MonthName
	report.PeakSales = series[peak].Sales
	if len(series) > 1 && series[0].Sales > 0 {
		report.GrowthPct = (series[len(series)-1].Sales/series[0].Sales - 1) * 100
	}
	return report
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
