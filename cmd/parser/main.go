package main

import (
	"context"
	"flag"
	"log"

	"github.com/teenxsky/wb-analytics/internal/config"
	"github.com/teenxsky/wb-analytics/internal/db"
	"github.com/teenxsky/wb-analytics/internal/ingest"
	"github.com/teenxsky/wb-analytics/internal/repository"
	"github.com/teenxsky/wb-analytics/internal/wildberries"
)

// go run cmd/parser/main.go -query="куртка мужская" -pages=3
func main() {
	query := flag.String("query", "", "search query or category for Wildberries (required)")
	pages := flag.Int("pages", 1, "number of pages to parse")
	limit := flag.Int("limit", 100, "products per page")
	maxSaved := flag.Int("max-saved", 0, "stop after saving this many new products (0 = unlimited)")
	flag.Parse()

	if *query == "" {
		flag.Usage()
		log.Fatal("-query is required")
	}

	cfg := config.Load()

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.EnsureSchema(sqlDB); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	sqlDB.Close()

	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	runner := &ingest.Runner{
		Source: wildberries.NewClient(),
		Store:  &repository.ProductRepository{DB: pool},
	}

	log.Printf("parsing Wildberries for query %q (%d page(s), %d products per page)", *query, *pages, *limit)

	report := runner.Run(context.Background(), ingest.Params{
		Query:    *query,
		Pages:    *pages,
		Limit:    *limit,
		MaxSaved: *maxSaved,
	})

	if report.ParseFailures > 0 || report.SaveFailures > 0 {
		log.Printf("skipped %d unparseable item(s), %d failed save(s)", report.ParseFailures, report.SaveFailures)
	}
	log.Printf("total new products saved: %d", report.TotalSaved)
}
