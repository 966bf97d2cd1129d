package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/teenxsky/wb-analytics/internal/cache"
	"github.com/teenxsky/wb-analytics/internal/ingest"
	"github.com/teenxsky/wb-analytics/internal/model"
	"github.com/teenxsky/wb-analytics/internal/query"
	"github.com/teenxsky/wb-analytics/internal/repository"
)

const defaultFetchLimit = 100

type ProductStore interface {
	List(ctx context.Context, plan query.Plan, limit, offset int) ([]model.Product, error)
	Count(ctx context.Context, plan query.Plan) (int, error)
	GetByID(ctx context.Context, id int64) (model.Product, error)
}

type Ingestor interface {
	Run(ctx context.Context, params ingest.Params) ingest.Report
}

type Server struct {
	Store    ProductStore
	Runner   Ingestor
	Cache    *cache.ProductCache
	PageSize int
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/products/{$}", s.handleList)
	mux.HandleFunc("GET /v1/products/{id}/{$}", s.handleDetail)
	mux.HandleFunc("POST /v1/admin/parse/{$}", s.handleParse)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
	return logging(mux)
}

// listResponse is the paginated envelope of the list endpoint.
type listResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []model.Product `json:"results"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if body, ok := s.Cache.Get(ctx, r.URL.RawQuery); ok {
		writeJSONBytes(w, http.StatusOK, body)
		return
	}

	values := r.URL.Query()
	plan := query.Build(values)

	pageSize := s.PageSize
	if v, err := strconv.Atoi(values.Get("page_size")); err == nil && v > 0 {
		pageSize = v
	}
	page := 1
	if raw := values.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeDetail(w, http.StatusNotFound, "Invalid page.")
			return
		}
		page = v
	}

	count, err := s.Store.Count(ctx, plan)
	if err != nil {
		log.Printf("count products: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	lastPage := (count + pageSize - 1) / pageSize
	if lastPage == 0 {
		lastPage = 1
	}
	if page > lastPage {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}

	products, err := s.Store.List(ctx, plan, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("list products: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	resp := listResponse{Count: count, Results: products}
	if page < lastPage {
		resp.Next = pageURL(r, page+1)
	}
	if page > 1 {
		resp.Previous = pageURL(r, page-1)
	}

	body, err := marshal(resp)
	if err != nil {
		log.Printf("encode products: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	s.Cache.Set(ctx, r.URL.RawQuery, body)
	writeJSONBytes(w, http.StatusOK, body)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	product, err := s.Store.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		log.Printf("get product %d: %v", id, err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// handleParse is the administrative trigger: form fields query (required),
// pages (default 1) and limit (optional cap on newly saved products). The
// run reports aggregate success even when individual pages failed.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	q := strings.TrimSpace(r.PostFormValue("query"))
	if q == "" {
		writeDetail(w, http.StatusBadRequest, "query is required.")
		return
	}
	pages, err := formInt(r, "pages", 1)
	if err != nil || pages < 1 {
		writeDetail(w, http.StatusBadRequest, "pages must be a positive integer.")
		return
	}
	maxSaved, err := formInt(r, "limit", 0)
	if err != nil || maxSaved < 0 {
		writeDetail(w, http.StatusBadRequest, "limit must be a positive integer.")
		return
	}

	report := s.Runner.Run(r.Context(), ingest.Params{
		Query:    q,
		Pages:    pages,
		Limit:    defaultFetchLimit,
		MaxSaved: maxSaved,
	})
	s.Cache.Flush(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":         report.Summary(),
		"total_saved":    report.TotalSaved,
		"parse_failures": report.ParseFailures,
		"save_failures":  report.SaveFailures,
	})
}

func formInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// pageURL rebuilds the request URL with another page number, for the
// next/previous links of the pagination envelope.
func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	values := u.Query()
	values.Set("page", strconv.Itoa(page))
	u.RawQuery = values.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	abs := (&url.URL{Scheme: scheme, Host: r.Host, Path: u.Path, RawQuery: u.RawQuery}).String()
	return &abs
}
