package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/aggregate"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/dashboard"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/db"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/geo"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/logging"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/metrics"
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

	cfg := config.GetDashboardConfig()

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

	var matcher *geo.Matcher
	lookup, err := geo.Load(cfg.LookupPath)
	if err != nil {
		slog.Warn("Location lookup unavailable, geographic chart disabled",
			slog.String("path", cfg.LookupPath),
			slog.String("error", err.Error()))
	} else {
		matcher = geo.NewMatcher(lookup)
		slog.Info("Location lookup loaded",
			slog.Int("places", len(lookup.Places)))
	}

	m := metrics.NewMetrics()
	aggregator := aggregate.NewAggregator(store, matcher, cfg)
	scheduler := dashboard.NewScheduler(aggregator, cfg.RefreshInterval, m)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: dashboard.NewRouter(scheduler),
	}

	go func() {
		slog.Info("Dashboard API listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Dashboard API failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down dashboard gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Dashboard shutdown incomplete", slog.String("error", err.Error()))
	}
}
