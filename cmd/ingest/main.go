package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/clients"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/db"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/ingest"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/logging"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/metrics"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/stream"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.GetIngestConfig()

	var store *db.PostStore
	for {
		var err error
		store, err = db.NewPostStore(ctx)
		if err == nil {
			break
		}
		slog.Warn("DB init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer store.Close()

	var dedupe ingest.Deduper
	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		clients.InitValkey()
		defer clients.CloseValkey()
		dedupe = clients.GetValkeyClient()
	} else {
		slog.Warn("VALKEY_INIT_ADDRESS not set, running without redelivery dedupe")
	}

	source, err := stream.NewSource(cfg)
	if err != nil {
		slog.Error("Failed to build stream source", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer source.Close()

	m := metrics.NewMetrics()

	if addr := os.Getenv("INGEST_METRICS_ADDR"); addr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, nil); err != nil {
				slog.Warn("Metrics server stopped", slog.String("error", err.Error()))
			}
		}()
	}

	slog.Info("Starting ingestion loop",
		slog.String("source", cfg.StreamSource),
		slog.Any("track", cfg.TrackWords))

	loop := ingest.NewLoop(source, store, dedupe, cfg, m)
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Ingestion loop stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Shutting down ingestion gracefully...")
}
