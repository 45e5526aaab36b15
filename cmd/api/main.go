package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/cart"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/checkout"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/config"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/events"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-bookshop-checkout.git/internal/kafka"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/orders"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/postgres"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/redisx"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/users"
	"github.com/joho/godotenv"
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

	// Kafka producers: one per outcome topic
	pConfirmed := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderConfirmed, 1024)
	pConfirmed.Start(ctx)
	pFailed := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicPaymentFailed, 1024)
	pFailed.Start(ctx)

	// Repos & services
	bookRepo := &books.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	userRepo := &users.Repo{DB: db}
	cartStore := &cart.Store{DB: db, Redis: rdb, Books: bookRepo}
	svc := &checkout.Service{
		Ledger:       bookRepo,
		Orders:       orderRepo,
		Carts:        cartStore,
		ConfirmedPub: pConfirmed,
		FailedPub:    pFailed,
		ServiceName:  cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.CartHandler{Carts: cartStore, Books: bookRepo}).Register(router)
	(&httpx.CheckoutHandler{Carts: cartStore, Service: svc, Orders: orderRepo, Redis: rdb}).Register(router)
	(&httpx.CatalogHandler{Books: bookRepo, Users: userRepo}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

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
	pConfirmed.Close()
	pFailed.Close()
	cancel()
	pConfirmed.WaitClosed()
	pFailed.WaitClosed()
}
