package analytics

import (
	"sort"
	"time"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// NeutralScore is assigned to a metric when the customer set is too
// small to form five non-empty quintile buckets.
const NeutralScore = 3

// RFMOptions controls an RFM calculation run.
type RFMOptions struct {
	// SnapshotDate is the reference date for recency. When nil, it is
	// derived as max(OrderDate) + 1 day so the calculation never
	// depends on the wall clock.
	SnapshotDate *time.Time

	// ScoreMonetary additionally assigns a 1-5 quintile score to the
	// Monetary metric. Segmentation only needs R and F, so this is off
	// by default.
	ScoreMonetary bool

	// Rules is the segment labeling table. Nil means BasicSegmentRules.
	Rules []SegmentRule
}

// RFMRecord holds the per-customer output of an RFM run.
type RFMRecord struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`   // days since last order at snapshot
	Frequency  int     `json:"frequency"` // order row count
	Monetary   float64 `json:"monetary"`  // sum of sales
	R          int     `json:"r"`
	F          int     `json:"f"`
	M          int     `json:"m,omitempty"` // only set when ScoreMonetary
	Segment    string  `json:"segment"`
}

// CalculateRFM computes one RFMRecord per distinct customer in the
// input. The input slice is read-only; output order follows each
// customer's first appearance. An empty input yields an empty non-nil
// slice.
func CalculateRFM(orders []domain.Order, opts RFMOptions) []RFMRecord {
	if len(orders) == 0 {
		return []RFMRecord{}
	}

	snapshot := snapshotDate(orders, opts.SnapshotDate)

	// Group by customer, preserving first-seen order.
	index := make(map[string]int, len(orders))
	records := make([]RFMRecord, 0, len(orders))
	lastOrder := make([]time.Time, 0, len(orders))
	for _, o := range orders {
		i, seen := index[o.CustomerID]
		if !seen {
			i = len(records)
			index[o.CustomerID] = i
			records = append(records, RFMRecord{CustomerID: o.CustomerID})
			lastOrder = append(lastOrder, o.OrderDate)
		}
		records[i].Frequency++
		records[i].Monetary += o.Sales
		if o.OrderDate.After(lastOrder[i]) {
			lastOrder[i] = o.OrderDate
		}
	}

	recency := make([]float64, len(records))
	frequency := make([]float64, len(records))
	monetary := make([]float64, len(records))
	for i := range records {
		records[i].Recency = daysBetween(lastOrder[i], snapshot)
		recency[i] = float64(records[i].Recency)
		frequency[i] = float64(records[i].Frequency)
		monetary[i] = records[i].Monetary
	}

	rScores := quintileScores(recency, true)
	fScores := quintileScores(frequency, false)
	var mScores []int
	if opts.ScoreMonetary {
		mScores = quintileScores(monetary, false)
	}

	rules := opts.Rules
	if rules == nil {
		rules = BasicSegmentRules
	}

	for i := range records {
		records[i].R = scoreAt(rScores, i)
		records[i].F = scoreAt(fScores, i)
		if opts.ScoreMonetary {
			records[i].M = scoreAt(mScores, i)
		}
		records[i].Segment = segmentFor(rules, records[i].R, records[i].F)
	}

	return records
}

// snapshotDate returns the explicit override or max(OrderDate) + 1 day.
func snapshotDate(orders []domain.Order, override *time.Time) time.Time {
	if override != nil {
		return *override
	}
	max := orders[0].OrderDate
	for _, o := range orders[1:] {
		if o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}
	return max.AddDate(0, 0, 1)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// quintileScores assigns a 1-5 score to every value using rank-based
// quintile binning: values are ranked ascending with ties broken by
// input position, then the ranked sequence is split into five
// equal-size buckets. With inverted=true the lowest-ranked values score
// 5 (used for recency, where smaller is better). Fewer than five values
// cannot form five non-empty buckets, so every value gets NeutralScore.
func quintileScores(values []float64, inverted bool) []int {
	n := len(values)
	scores := make([]int, n)
	if n < 5 {
		for i := range scores {
			scores[i] = NeutralScore
		}
		return scores
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	for rank, i := range idx {
		bucket := rank * 5 / n // 0..4, balanced sizes
		if inverted {
			scores[i] = 5 - bucket
		} else {
			scores[i] = bucket + 1
		}
	}
	return scores
}

func scoreAt(scores []int, i int) int {
	if scores == nil {
		return 0
	}
	return scores[i]
}

// SegmentRollup aggregates an RFM table by segment label.
type SegmentRollup struct {
	Segment   string  `json:"segment"`
	Customers int     `json:"customers"`
	Monetary  float64 `json:"monetary"`
}

// RollupSegments groups RFM records by segment, ordered by descending
// total monetary value.
func RollupSegments(records []RFMRecord) []SegmentRollup {
	byLabel := make(map[string]*SegmentRollup)
	order := make([]string, 0)
	for _, rec := range records {
		r, ok := byLabel[rec.Segment]
		if !ok {
			r = &SegmentRollup{Segment: rec.Segment}
			byLabel[rec.Segment] = r
			order = append(order, rec.Segment)
		}
		r.Customers++
		r.Monetary += rec.Monetary
	}

	out := make([]SegmentRollup, 0, len(order))
	for _, label := range order {
		out = append(out, *byLabel[label])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Monetary > out[j].Monetary })
	return out
}
