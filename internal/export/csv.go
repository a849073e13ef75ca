// Package export renders analytics results as downloadable CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

// WriteRFM writes the full RFM table, one row per customer.
func WriteRFM(w io.Writer, records []analytics.RFMRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"customer_id", "recency_days", "frequency", "monetary", "r_score", "f_score", "segment"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write rfm header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.CustomerID,
			strconv.Itoa(rec.Recency),
			strconv.Itoa(rec.Frequency),
			formatMoney(rec.Monetary),
			strconv.Itoa(rec.R),
			strconv.Itoa(rec.F),
			rec.Segment,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write rfm row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush rfm csv: %w", err)
	}
	return nil
}

// WriteMoneyPits writes losing product/region combinations, worst first.
func WriteMoneyPits(w io.Writer, pits []analytics.MoneyPit) error {
	cw := csv.NewWriter(w)
	header := []string{"category", "sub_category", "region", "total_loss", "loss_count", "avg_discount"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write money pits header: %w", err)
	}
	for _, p := range pits {
		row := []string{
			p.Category,
			p.SubCategory,
			p.Region,
			formatMoney(p.TotalLoss),
			strconv.Itoa(p.LossCount),
			strconv.FormatFloat(p.AvgDiscount, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write money pits row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush money pits csv: %w", err)
	}
	return nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
