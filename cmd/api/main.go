package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teenxsky/wb-analytics/internal/cache"
	"github.com/teenxsky/wb-analytics/internal/config"
	"github.com/teenxsky/wb-analytics/internal/db"
	"github.com/teenxsky/wb-analytics/internal/httpapi"
	"github.com/teenxsky/wb-analytics/internal/ingest"
	"github.com/teenxsky/wb-analytics/internal/observability"
	"github.com/teenxsky/wb-analytics/internal/repository"
	"github.com/teenxsky/wb-analytics/internal/wildberries"
)

func main() {
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

	repo := &repository.ProductRepository{DB: pool}
	runner := &ingest.Runner{Source: wildberries.NewClient(), Store: repo}

	server := &httpapi.Server{
		Store:    repo,
		Runner:   runner,
		Cache:    cache.New(cfg.RedisURL, cfg.CacheTTL),
		PageSize: cfg.PageSize,
		Metrics:  observability.Handler(),
	}

	srv := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("graceful shutdown: %v", err)
		}
	}()

	log.Printf("api listening on %s", cfg.BindAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
