package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/artisan-market/internal/catalog"
	"github.com/ariefcatur/artisan-market/internal/config"
	kafkax "github.com/ariefcatur/artisan-market/internal/kafka"
	"github.com/ariefcatur/artisan-market/internal/orders"
	"github.com/ariefcatur/artisan-market/internal/postgres"
	"github.com/ariefcatur/artisan-market/internal/redisx"
	"github.com/ariefcatur/artisan-market/internal/stockalert"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stockalert.Service{
		Catalog:   &catalog.Repo{DB: db},
		Redis:     rdb,
		Threshold: cfg.LowStockThreshold,
	}

	group := getenv("STOCKALERT_GROUP", "stockalert-svc")
	workers := mustAtoi(os.Getenv("STOCKALERT_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCreated, workers)

	go func() {
		slog.Info("stockalert consumer started", "group", group, "topic", orders.TopicOrderCreated, "workers", workers)
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			slog.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
