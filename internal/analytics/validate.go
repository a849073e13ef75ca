package analytics

import (
	"fmt"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// ValidationResult reports data-quality problems in an order set.
// Errors are collected, never short-circuited, so a single pass
// surfaces every problem at once.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateOrders checks an order set against the invariants the
// analytics functions assume. It is a pure predicate: the input is
// never mutated or filtered. Negative sales are reported with a
// "Warning:" prefix; they don't break any computation but usually
// indicate returns mixed into the order feed.
func ValidateOrders(orders []domain.Order) ValidationResult {
	var errs []string

	if len(orders) == 0 {
		return ValidationResult{Valid: false, Errors: []string{"order set is empty"}}
	}

	var zeroDates, emptyCustomers, emptyOrders, badDiscounts, negativeSales int
	for _, o := range orders {
		if o.OrderDate.IsZero() {
			zeroDates++
		}
		if o.CustomerID == "" {
			emptyCustomers++
		}
		if o.OrderID == "" {
			emptyOrders++
		}
		if o.Discount < 0 || o.Discount > 1 {
			badDiscounts++
		}
		if o.Sales < 0 {
			negativeSales++
		}
	}

	if zeroDates > 0 {
		errs = append(errs, fmt.Sprintf("missing order date on %d rows", zeroDates))
	}
	if emptyCustomers > 0 {
		errs = append(errs, fmt.Sprintf("missing customer ID on %d rows", emptyCustomers))
	}
	if emptyOrders > 0 {
		errs = append(errs, fmt.Sprintf("missing order ID on %d rows", emptyOrders))
	}
	if badDiscounts > 0 {
		errs = append(errs, fmt.Sprintf("discount outside [0,1] on %d rows", badDiscounts))
	}
	if negativeSales > 0 {
		errs = append(errs, fmt.Sprintf("Warning: negative sales values on %d rows", negativeSales))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
