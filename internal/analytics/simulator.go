package analytics

import (
	"fmt"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// DefaultElasticity is the assumed fractional sales-volume loss per
// unit of forced discount reduction when the caller does not supply one.
const DefaultElasticity = 0.5

// ROIImpact is the projected aggregate outcome of enforcing a discount
// cap across the order set.
type ROIImpact struct {
	OriginalProfit float64 `json:"original_profit"`
	NewProfit      float64 `json:"new_profit"`
	ProfitGain     float64 `json:"profit_gain"`   // may be negative
	RevenueRisk    float64 `json:"revenue_risk"`  // always >= 0
	AffectedOrders int     `json:"affected_orders"` // rows above the cap
}

// SimulateDiscountCap projects the profit and revenue impact of capping
// per-order discounts at cap, assuming customers respond to the implied
// price increase with the given elasticity. Both parameters must lie in
// [0,1]. This is a closed-form single pass: for each row above the cap,
// sales volume shrinks by (discount-cap)*elasticity while the implied
// unit cost (sales-profit) stays fixed.
func SimulateDiscountCap(orders []domain.Order, cap, elasticity float64) (ROIImpact, error) {
	if cap < 0 || cap > 1 {
		return ROIImpact{}, fmt.Errorf("discount cap %.3f out of range [0,1]", cap)
	}
	if elasticity < 0 || elasticity > 1 {
		return ROIImpact{}, fmt.Errorf("elasticity %.3f out of range [0,1]", elasticity)
	}

	var impact ROIImpact
	var totalSales, totalNewSales float64
	for _, o := range orders {
		volLoss := 0.0
		if o.Discount > cap {
			volLoss = (o.Discount - cap) * elasticity
			impact.AffectedOrders++
		}
		newSales := o.Sales * (1 - volLoss)
		newProfit := newSales - o.Cost()

		impact.OriginalProfit += o.Profit
		impact.NewProfit += newProfit
		totalSales += o.Sales
		totalNewSales += newSales
	}
	impact.ProfitGain = impact.NewProfit - impact.OriginalProfit
	impact.RevenueRisk = totalSales - totalNewSales
	return impact, nil
}
