package analytics

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// DefaultClusterCount matches the four business segments the clustering
// model was designed around.
const DefaultClusterCount = 4

// CustomerCluster is one customer's feature vector and its assigned
// cluster.
type CustomerCluster struct {
	CustomerID  string  `json:"customer_id"`
	Sales       float64 `json:"sales"`        // total sales
	Profit      float64 `json:"profit"`       // total profit
	AvgDiscount float64 `json:"avg_discount"` // mean discount across orders
	Cluster     int     `json:"cluster"`
}

// ClusterCentroid describes one cluster in original (unstandardized)
// units.
type ClusterCentroid struct {
	Cluster     int     `json:"cluster"`
	Size        int     `json:"size"`
	AvgSales    float64 `json:"avg_sales"`
	AvgProfit   float64 `json:"avg_profit"`
	AvgDiscount float64 `json:"avg_discount"`
}

// ClusterReport is the full k-means segmentation output.
type ClusterReport struct {
	K         int               `json:"k"`
	Customers []CustomerCluster `json:"customers"`
	Centroids []ClusterCentroid `json:"centroids"`
}

// customerPoint carries the customer identity through the clustering
// library, which only sees coordinates.
type customerPoint struct {
	id     string
	coords clusters.Coordinates
}

func (p customerPoint) Coordinates() clusters.Coordinates { return p.coords }
func (p customerPoint) Distance(point clusters.Coordinates) float64 {
	return p.coords.Distance(point)
}

// ClusterCustomers aggregates orders to customer-level features (total
// sales, total profit, mean discount), standardizes them, and
// partitions customers into k clusters with k-means. Requires at least
// k customers. Cluster numbering is arbitrary between runs; callers
// should key on centroid characteristics, not indices.
func ClusterCustomers(orders []domain.Order, k int) (ClusterReport, error) {
	if k < 2 {
		return ClusterReport{}, fmt.Errorf("cluster count must be >= 2, got %d", k)
	}

	// Aggregate to customer level, first-seen order preserved.
	index := make(map[string]int)
	features := make([]CustomerCluster, 0)
	counts := make([]int, 0)
	for _, o := range orders {
		i, ok := index[o.CustomerID]
		if !ok {
			i = len(features)
			index[o.CustomerID] = i
			features = append(features, CustomerCluster{CustomerID: o.CustomerID})
			counts = append(counts, 0)
		}
		features[i].Sales += o.Sales
		features[i].Profit += o.Profit
		features[i].AvgDiscount += o.Discount
		counts[i]++
	}
	for i := range features {
		features[i].AvgDiscount /= float64(counts[i])
	}

	if len(features) < k {
		return ClusterReport{}, fmt.Errorf("need at least %d customers to form %d clusters, have %d", k, k, len(features))
	}

	// Standardize each feature so sales don't dominate the distance.
	sales := make([]float64, len(features))
	profit := make([]float64, len(features))
	discount := make([]float64, len(features))
	for i, f := range features {
		sales[i] = f.Sales
		profit[i] = f.Profit
		discount[i] = f.AvgDiscount
	}
	zSales := standardize(sales)
	zProfit := standardize(profit)
	zDiscount := standardize(discount)

	obs := make(clusters.Observations, len(features))
	for i, f := range features {
		obs[i] = customerPoint{
			id:     f.CustomerID,
			coords: clusters.Coordinates{zSales[i], zProfit[i], zDiscount[i]},
		}
	}

	km := kmeans.New()
	partition, err := km.Partition(obs, k)
	if err != nil {
		return ClusterReport{}, fmt.Errorf("kmeans partition: %w", err)
	}

	assignment := make(map[string]int, len(features))
	for ci, cluster := range partition {
		for _, o := range cluster.Observations {
			assignment[o.(customerPoint).id] = ci
		}
	}

	report := ClusterReport{K: k, Customers: features}
	centroids := make([]ClusterCentroid, k)
	for i := range report.Customers {
		ci := assignment[report.Customers[i].CustomerID]
		report.Customers[i].Cluster = ci
		c := &centroids[ci]
		c.Cluster = ci
		c.Size++
		c.AvgSales += report.Customers[i].Sales
		c.AvgProfit += report.Customers[i].Profit
		c.AvgDiscount += report.Customers[i].AvgDiscount
	}
	for i := range centroids {
		if centroids[i].Size > 0 {
			n := float64(centroids[i].Size)
			centroids[i].AvgSales /= n
			centroids[i].AvgProfit /= n
			centroids[i].AvgDiscount /= n
		}
	}
	sort.SliceStable(centroids, func(i, j int) bool { return centroids[i].AvgSales > centroids[j].AvgSales })
	report.Centroids = centroids
	return report, nil
}

// standardize z-scores a feature column. A zero-variance column maps
// to all zeros.
func standardize(values []float64) []float64 {
	mean, err := stats.Mean(values)
	if err != nil {
		return make([]float64, len(values))
	}
	sd, err := stats.StandardDeviation(values)
	if err != nil || sd == 0 {
		return make([]float64, len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / sd
	}
	return out
}
