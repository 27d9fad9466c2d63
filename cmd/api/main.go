package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hassan3208/Rangista-Backend/internal/cart"
	"github.com/hassan3208/Rangista-Backend/internal/catalog"
	"github.com/hassan3208/Rangista-Backend/internal/config"
	"github.com/hassan3208/Rangista-Backend/internal/httpx"
	kafkax "github.com/hassan3208/Rangista-Backend/internal/kafka"
	"github.com/hassan3208/Rangista-Backend/internal/orders"
	"github.com/hassan3208/Rangista-Backend/internal/postgres"
	"github.com/hassan3208/Rangista-Backend/internal/redisx"
	"github.com/hassan3208/Rangista-Backend/internal/stock"
	"github.com/hassan3208/Rangista-Backend/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Logger = log.With().Str("service", cfg.ServiceName).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	ledger := &stock.Ledger{DB: db}
	carts := &cart.Store{DB: db, Ledger: ledger}
	committer := &orders.Committer{DB: db, Users: &users.Repo{DB: db}}
	products := &catalog.Repo{DB: db}

	router := httpx.NewRouter()
	ch := &httpx.CartHandler{Carts: carts, Redis: rdb}
	ch.Register(router)
	oh := &httpx.OrdersHandler{
		Orders:   committer,
		Catalog:  products,
		Redis:    rdb,
		Producer: prod,
		Service:  cfg.ServiceName,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(shutdownCtx)
	prod.Close()
	prod.WaitClosed()
}
