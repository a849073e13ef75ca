package analytics

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// HighDiscountThreshold marks orders whose discount is considered
// aggressive for KPI reporting.
const HighDiscountThreshold = 0.2

// ProfitSummary holds the headline profitability KPIs for an order set.
type ProfitSummary struct {
	TotalSales         float64 `json:"total_sales"`
	TotalProfit        float64 `json:"total_profit"`
	MarginPct          float64 `json:"margin_pct"` // profit as % of sales
	OrderCount         int     `json:"order_count"`
	CustomerCount      int     `json:"customer_count"`
	AvgDiscountPct     float64 `json:"avg_discount_pct"`
	HighDiscountOrders int     `json:"high_discount_orders"` // discount > 0.2
}

// Summarize computes the headline KPIs. An empty input yields a zero
// summary.
func Summarize(orders []domain.Order) ProfitSummary {
	var s ProfitSummary
	if len(orders) == 0 {
		return s
	}

	customers := make(map[string]struct{})
	discounts := make([]float64, 0, len(orders))
	for _, o := range orders {
		s.TotalSales += o.Sales
		s.TotalProfit += o.Profit
		customers[o.CustomerID] = struct{}{}
		discounts = append(discounts, o.Discount)
		if o.Discount > HighDiscountThreshold {
			s.HighDiscountOrders++
		}
	}
	s.OrderCount = len(orders)
	s.CustomerCount = len(customers)
	if s.TotalSales > 0 {
		s.MarginPct = s.TotalProfit / s.TotalSales * 100
	}
	if mean, err := stats.Mean(discounts); err == nil {
		s.AvgDiscountPct = mean * 100
	}
	return s
}

// LossAnalysis isolates loss-making orders and contrasts their discount
// behaviour with profitable ones.
type LossAnalysis struct {
	LossOrders            int     `json:"loss_orders"`
	LossSharePct          float64 `json:"loss_share_pct"` // % of all orders
	TotalLoss             float64 `json:"total_loss"`     // sum of negative profits (negative)
	AvgDiscountLoss       float64 `json:"avg_discount_loss"`
	AvgDiscountProfitable float64 `json:"avg_discount_profitable"`
}

// AnalyzeLosses computes the loss diagnostics. Orders with zero profit
// count as profitable.
func AnalyzeLosses(orders []domain.Order) LossAnalysis {
	var a LossAnalysis
	if len(orders) == 0 {
		return a
	}

	var lossDisc, profDisc []float64
	for _, o := range orders {
		if o.Profit < 0 {
			a.LossOrders++
			a.TotalLoss += o.Profit
			lossDisc = append(lossDisc, o.Discount)
		} else {
			profDisc = append(profDisc, o.Discount)
		}
	}
	a.LossSharePct = float64(a.LossOrders) / float64(len(orders)) * 100
	if mean, err := stats.Mean(lossDisc); err == nil {
		a.AvgDiscountLoss = mean
	}
	if mean, err := stats.Mean(profDisc); err == nil {
		a.AvgDiscountProfitable = mean
	}
	return a
}

// MoneyPit is a Category/Sub-Category/Region combination that
// consistently loses money.
type MoneyPit struct {
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	Region      string  `json:"region"`
	TotalLoss   float64 `json:"total_loss"` // negative
	LossCount   int     `json:"loss_count"`
	AvgDiscount float64 `json:"avg_discount"`
}

// FindMoneyPits groups loss-making orders by Category, Sub-Category and
// Region and returns up to limit groups, biggest total loss first.
// limit <= 0 means all groups.
func FindMoneyPits(orders []domain.Order, limit int) []MoneyPit {
	type acc struct {
		pit       MoneyPit
		discounts []float64
	}
	groups := make(map[string]*acc)
	keys := make([]string, 0)
	for _, o := range orders {
		if o.Profit >= 0 {
			continue
		}
		key := fmt.Sprintf("%s\x00%s\x00%s", o.Category, o.SubCategory, o.Region)
		g, ok := groups[key]
		if !ok {
			g = &acc{pit: MoneyPit{Category: o.Category, SubCategory: o.SubCategory, Region: o.Region}}
			groups[key] = g
			keys = append(keys, key)
		}
		g.pit.TotalLoss += o.Profit
		g.pit.LossCount++
		g.discounts = append(g.discounts, o.Discount)
	}

	pits := make([]MoneyPit, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		if mean, err := stats.Mean(g.discounts); err == nil {
			g.pit.AvgDiscount = mean
		}
		pits = append(pits, g.pit)
	}
	sort.SliceStable(pits, func(i, j int) bool { return pits[i].TotalLoss < pits[j].TotalLoss })
	if limit > 0 && len(pits) > limit {
		pits = pits[:limit]
	}
	return pits
}

// DiscountBand reports average profit within a discount interval.
// The first band includes its lower edge; later bands are (low, high].
type DiscountBand struct {
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	AvgProfit float64 `json:"avg_profit"`
	Orders    int     `json:"orders"`
}

var discountBandEdges = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 1.0}

// DiscountBands buckets orders by discount level and averages profit
// per bucket, exposing the threshold past which discounting turns
// unprofitable.
func DiscountBands(orders []domain.Order) []DiscountBand {
	bands := make([]DiscountBand, len(discountBandEdges)-1)
	profits := make([][]float64, len(bands))
	for i := range bands {
		bands[i].Low = discountBandEdges[i]
		bands[i].High = discountBandEdges[i+1]
	}

	for _, o := range orders {
		for i := range bands {
			inBand := o.Discount > bands[i].Low && o.Discount <= bands[i].High
			if i == 0 && o.Discount == 0 {
				inBand = true
			}
			if inBand {
				bands[i].Orders++
				profits[i] = append(profits[i], o.Profit)
				break
			}
		}
	}

	for i := range bands {
		if mean, err := stats.Mean(profits[i]); err == nil {
			bands[i].AvgProfit = mean
		}
	}
	return bands
}

// SubCategoryProfit is total profit for one sub-category.
type SubCategoryProfit struct {
	SubCategory string  `json:"sub_category"`
	Profit      float64 `json:"profit"`
}

// ProfitBySubCategory sums profit per sub-category, worst performers
// first.
func ProfitBySubCategory(orders []domain.Order) []SubCategoryProfit {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, o := range orders {
		if _, ok := totals[o.SubCategory]; !ok {
			order = append(order, o.SubCategory)
		}
		totals[o.SubCategory] += o.Profit
	}

	out := make([]SubCategoryProfit, 0, len(order))
	for _, sc := range order {
		out = append(out, SubCategoryProfit{SubCategory: sc, Profit: totals[sc]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Profit < out[j].Profit })
	return out
}
