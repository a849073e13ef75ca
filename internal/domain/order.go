package domain

import (
	"time"
)

// Order represents a single line-item transaction from the Superstore
// orders dataset. The field set is fixed: every loader (CSV or SQL) maps
// its source columns onto these fields once, so analytics code never
// does name-based column lookups.
type Order struct {
	OrderID      string    `json:"order_id" db:"order_id"`
	OrderDate    time.Time `json:"order_date" db:"order_date"`
	CustomerID   string    `json:"customer_id" db:"customer_id"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	Segment      string    `json:"segment" db:"segment"` // market segment from the dataset (Consumer, Corporate, ...)
	Region       string    `json:"region" db:"region"`
	Category     string    `json:"category" db:"category"`
	SubCategory  string    `json:"sub_category" db:"sub_category"`
	Sales        float64   `json:"sales" db:"sales"`
	Profit       float64   `json:"profit" db:"profit"`
	Discount     float64   `json:"discount" db:"discount"` // fraction in [0,1]
}

// Cost returns the implied unit cost of the line item. Sales minus
// Profit; negative profit means cost exceeds the sale price.
func (o Order) Cost() float64 {
	return o.Sales - o.Profit
}

// OrderFilter narrows the order set before analytics run. Zero values
// mean "no restriction" for each dimension.
type OrderFilter struct {
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"` // inclusive
	Regions    []string   `json:"regions,omitempty"`
	Categories []string   `json:"categories,omitempty"`
}

// IsZero reports whether the filter restricts nothing.
func (f OrderFilter) IsZero() bool {
	return f.From == nil && f.To == nil && len(f.Regions) == 0 && len(f.Categories) == 0
}
