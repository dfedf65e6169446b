package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config()
	cfg.logger.Debug("configuration loaded")

	ctx := context.Background()

	// Probe the asset catalog in the background; the resolver falls back to
	// static images for anything not yet resolved.
	cfg.prober.Run(ctx)

	// Seed the dashboard so there is data on first paint.
	go func() {
		if err := cfg.store.Search(ctx, cfg.defaultLocation); err != nil {
			cfg.logger.Warn("initial search failed", "location", cfg.defaultLocation, "error", err)
		}
	}()

	refresher := NewRefresher(cfg.store, cfg.refreshInterval, cfg.logger)
	cfg.logger.Info("starting refresher", "interval", cfg.refreshInterval.String())
	refresher.Start()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/search", cfg.handlerSearch)
	mux.HandleFunc("/api/state", cfg.handlerState)
	mux.HandleFunc("/api/background", cfg.handlerBackground)
	mux.HandleFunc("/api/forecast/day", cfg.handlerForecastDay)
	mux.HandleFunc("/api/config", cfg.handlerConfig)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/images/", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.assetDir))))

	server := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: corsMiddleware(metricsMiddleware(mux)),
	}

	cfg.logger.Info("starting server", "port", cfg.port)
	err := server.ListenAndServe()
	if err != nil {
		cfg.logger.Error("server startup failed", "error", err)
		os.Exit(1)
	}
}
