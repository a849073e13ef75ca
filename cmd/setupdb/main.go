// Command setupdb loads a Superstore CSV export into Postgres so the
// analytics server has data to serve.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/retailmetrics/superstore-analytics/internal/analytics"
	"github.com/retailmetrics/superstore-analytics/internal/config"
	"github.com/retailmetrics/superstore-analytics/internal/ingest"
	"github.com/retailmetrics/superstore-analytics/internal/repository/postgres"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "path to config file")
		csvPath    = flag.String("csv", "", "path to Superstore CSV (overrides config)")
		truncate   = flag.Bool("truncate", false, "clear the orders table before loading")
	)
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	path := cfg.Ingest.CSVPath
	if *csvPath != "" {
		path = *csvPath
	}

	log.Printf("Reading %s", path)
	result, err := ingest.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	for _, w := range result.Warnings {
		log.Printf("Row %d skipped: %s", w.Row, w.Message)
	}
	log.Printf("Parsed %d orders (%d rows skipped)", len(result.Orders), len(result.Warnings))

	validation := analytics.ValidateOrders(result.Orders)
	for _, msg := range validation.Errors {
		log.Printf("Data check: %s", msg)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := postgres.NewOrderRepo(db)
	if err := repo.CreateSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	if *truncate {
		if err := repo.Truncate(ctx); err != nil {
			log.Fatalf("Failed to truncate: %v", err)
		}
	}

	bar := progressbar.NewOptions(len(result.Orders),
		progressbar.OptionSetDescription("loading orders"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	batch := cfg.Ingest.BatchSize
	total := 0
	for start := 0; start < len(result.Orders); start += batch {
		end := start + batch
		if end > len(result.Orders) {
			end = len(result.Orders)
		}
		n, err := repo.BulkInsert(ctx, result.Orders[start:end])
		if err != nil {
			log.Fatalf("Bulk insert failed at row %d: %v", start, err)
		}
		total += n
		_ = bar.Add(n)
	}
	_ = bar.Finish()

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count rows: %v", err)
	}
	log.Printf("Loaded %d orders, table now has %d rows", total, count)
}
