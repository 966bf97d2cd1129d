// Package ingest drives the fetch -> normalize -> upsert pipeline. The run
// is sequential by page and by item; partial success is the expected outcome,
// so every failure is contained to the page or item where it happened.
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/teenxsky/wb-analytics/internal/model"
	"github.com/teenxsky/wb-analytics/internal/observability"
	"github.com/teenxsky/wb-analytics/internal/wildberries"
)

type Searcher interface {
	Search(ctx context.Context, query string, page, limit int) ([]wildberries.RawItem, error)
}

type Saver interface {
	Upsert(ctx context.Context, p model.Product) (created bool, err error)
}

type Params struct {
	Query string
	Pages int
	Limit int
	// MaxSaved caps the number of newly created rows across the whole run;
	// 0 means unlimited. Reaching it stops the run mid-page.
	MaxSaved int
}

type PageResult struct {
	Page    int
	Fetched int
	Saved   int
	Err     string
}

type Report struct {
	RunID         uuid.UUID
	Query         string
	TotalSaved    int
	ParseFailures int
	SaveFailures  int
	Pages         []PageResult
}

// Summary is the human-readable line shown by the ingestion trigger surfaces.
func (r Report) Summary() string {
	return fmt.Sprintf("Parsed and saved %d new products.", r.TotalSaved)
}

type Runner struct {
	Source Searcher
	Store  Saver
}

// Run walks pages 1..Pages in order. A failed fetch skips that page only; an
// empty page means "no more results" and ends the run. Unparseable items and
// failed saves are counted, never fatal. Counters live on the report, each
// run owns its own.
func (r *Runner) Run(ctx context.Context, params Params) Report {
	report := Report{RunID: uuid.New(), Query: params.Query}

	for page := 1; page <= params.Pages; page++ {
		items, err := r.Source.Search(ctx, params.Query, page, params.Limit)
		if err != nil {
			log.Printf("run %s: page %d fetch failed: %v", report.RunID, page, err)
			observability.FetchFailures.Inc()
			report.Pages = append(report.Pages, PageResult{Page: page, Err: err.Error()})
			continue
		}
		observability.PagesFetched.Inc()

		if len(items) == 0 {
			log.Printf("run %s: no products on page %d, stopping", report.RunID, page)
			break
		}

		result := PageResult{Page: page, Fetched: len(items)}
		capped := false
		for _, item := range items {
			product, err := wildberries.Normalize(item)
			if err != nil {
				report.ParseFailures++
				observability.ParseFailures.Inc()
				continue
			}

			created, err := r.Store.Upsert(ctx, product)
			if err != nil {
				log.Printf("run %s: save %q failed: %v", report.RunID, product.Name, err)
				report.SaveFailures++
				observability.SaveFailures.Inc()
				continue
			}
			if created {
				report.TotalSaved++
				result.Saved++
				observability.ProductsCreated.Inc()
			}

			if params.MaxSaved > 0 && report.TotalSaved >= params.MaxSaved {
				capped = true
				break
			}
		}

		report.Pages = append(report.Pages, result)
		log.Printf("run %s: page %d: fetched %d, created %d", report.RunID, page, result.Fetched, result.Saved)

		if capped {
			log.Printf("run %s: save limit %d reached, stopping", report.RunID, params.MaxSaved)
			break
		}
	}

	return report
}
