package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
)

func TestWriteRFM(t *testing.T) {
	records := []analytics.RFMRecord{
		{CustomerID: "C1", Recency: 23, Frequency: 2, Monetary: 300, R: 3, F: 4, Segment: "Regular"},
		{CustomerID: "C2", Recency: 1, Frequency: 1, Monetary: 512.5, R: 5, F: 1, Segment: "Regular"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRFM(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"customer_id", "recency_days", "frequency", "monetary", "r_score", "f_score", "segment"}, rows[0])
	assert.Equal(t, []string{"C1", "23", "2", "300.00", "3", "4", "Regular"}, rows[1])
	assert.Equal(t, []string{"C2", "1", "1", "512.50", "5", "1", "Regular"}, rows[2])
}

func TestWriteRFM_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRFM(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}

func TestWriteMoneyPits(t *testing.T) {
	pits := []analytics.MoneyPit{
		{Category: "Furniture", SubCategory: "Tables", Region: "Central",
			TotalLoss: -1250.75, LossCount: 14, AvgDiscount: 0.35},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMoneyPits(&buf, pits))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Furniture", "Tables", "Central", "-1250.75", "14", "0.3500"}, rows[1])
}
