package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_pages_fetched_total",
			Help: "Search pages fetched from Wildberries",
		},
	)
	FetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_fetch_failures_total",
			Help: "Search page fetches that failed",
		},
	)
	ParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_parse_failures_total",
			Help: "Items skipped as unparseable",
		},
	)
	SaveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_save_failures_total",
			Help: "Items that failed to persist",
		},
	)
	ProductsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_products_created_total",
			Help: "New product rows created",
		},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "API requests by status code",
		},
		[]string{"status"},
	)
)

// Handler registers the collectors and returns the exposition handler.
// Call it once per process.
func Handler() http.Handler {
	prometheus.MustRegister(
		PagesFetched,
		FetchFailures,
		ParseFailures,
		SaveFailures,
		ProductsCreated,
		HTTPRequests,
	)
	return promhttp.Handler()
}
