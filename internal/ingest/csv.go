// Package ingest reads Superstore order exports into domain orders.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// RowWarning records a non-fatal problem with one data row. The row is
// skipped, the rest of the file still loads.
type RowWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds parsed orders alongside per-row warnings.
type Result struct {
	Orders   []domain.Order `json:"orders"`
	Warnings []RowWarning   `json:"warnings"`
}

// Column headers expected in the export. "Sub-Category" tolerates the
// space variant some exports use.
var requiredColumns = []string{
	"Order ID", "Order Date", "Customer ID", "Sales", "Profit", "Discount",
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ReadFile loads a Superstore CSV from disk. Legacy exports are
// windows-1252 encoded, so non-UTF-8 input is decoded before parsing.
func ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(data)
}

// Parse reads Superstore CSV bytes into orders.
func Parse(data []byte) (*Result, error) {
	data = decodeToUTF8(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[normalizeHeader(h)] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := col[normalizeHeader(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	field := func(row []string, name string) string {
		i, ok := col[normalizeHeader(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := &Result{}
	rowNum := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			res.Warnings = append(res.Warnings, RowWarning{Row: rowNum, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}

		orderDate, err := parseDate(field(row, "Order Date"))
		if err != nil {
			res.Warnings = append(res.Warnings, RowWarning{Row: rowNum, Message: fmt.Sprintf("bad order date: %v", err)})
			continue
		}
		sales, err := parseFloat(field(row, "Sales"))
		if err != nil {
			res.Warnings = append(res.Warnings, RowWarning{Row: rowNum, Message: fmt.Sprintf("bad sales value: %v", err)})
			continue
		}
		profit, err := parseFloat(field(row, "Profit"))
		if err != nil {
			res.Warnings = append(res.Warnings, RowWarning{Row: rowNum, Message: fmt.Sprintf("bad profit value: %v", err)})
			continue
		}
		discount, err := parseFloat(field(row, "Discount"))
		if err != nil {
			res.Warnings = append(res.Warnings, RowWarning{Row: rowNum, Message: fmt.Sprintf("bad discount value: %v", err)})
			continue
		}

		res.Orders = append(res.Orders, domain.Order{
			OrderID:      field(row, "Order ID"),
			OrderDate:    orderDate,
			CustomerID:   field(row, "Customer ID"),
			CustomerName: field(row, "Customer Name"),
			Segment:      field(row, "Segment"),
			Region:       field(row, "Region"),
			Category:     field(row, "Category"),
			SubCategory:  firstNonEmpty(field(row, "Sub-Category"), field(row, "Sub Category")),
			Sales:        sales,
			Profit:       profit,
			Discount:     discount,
		})
	}

	if len(res.Orders) == 0 && len(res.Warnings) == 0 {
		return nil, fmt.Errorf("file contains no data rows")
	}
	return res, nil
}

// decodeToUTF8 passes valid UTF-8 through (stripping a BOM if present)
// and decodes everything else as windows-1252.
func decodeToUTF8(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	// Tolerate currency formatting like "1,234.56" or "$12.00".
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
