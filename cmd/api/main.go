package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/artisan-market/internal/auth"
	"github.com/ariefcatur/artisan-market/internal/catalog"
	"github.com/ariefcatur/artisan-market/internal/config"
	"github.com/ariefcatur/artisan-market/internal/httpx"
	"github.com/ariefcatur/artisan-market/internal/identity"
	kafkax "github.com/ariefcatur/artisan-market/internal/kafka"
	"github.com/ariefcatur/artisan-market/internal/orders"
	"github.com/ariefcatur/artisan-market/internal/postgres"
	"github.com/ariefcatur/artisan-market/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Repos & handlers
	users := &identity.Repo{DB: db}
	cat := &catalog.Repo{DB: db}
	engine := &orders.Engine{Store: &orders.PgStore{DB: db}}
	tokens := &auth.Store{Redis: rdb}

	authH := &httpx.AuthHandler{Users: users, Tokens: tokens}
	artisansH := &httpx.ArtisansHandler{Catalog: cat}
	productsH := &httpx.ProductsHandler{Catalog: cat, Users: users}
	ordersH := &httpx.OrdersHandler{Engine: engine, Users: users, Producer: prod, Service: cfg.ServiceName}

	router := httpx.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		authH.Register(r)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))
			artisansH.Register(r)
			productsH.Register(r)
			ordersH.Register(r)
		})
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	cancel()
	prod.WaitClosed()
}
