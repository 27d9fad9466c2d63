// The notifier tails order.placed and logs each confirmation. Actual customer
// messaging (email, push) hangs off this consumer and lives outside this
// repository.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/hassan3208/Rangista-Backend/internal/config"
	kafkax "github.com/hassan3208/Rangista-Backend/internal/kafka"
	"github.com/hassan3208/Rangista-Backend/internal/orders"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Str("service", cfg.ServiceName+"-notifier").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group := getenv("NOTIFIER_GROUP", "order-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPlaced, workers)

	go func() {
		log.Info().Str("group", group).Str("topic", orders.TopicOrderPlaced).Msg("notifier consumer started")
		if err := cons.Start(ctx, handleOrderPlaced); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down notifier")
	cancel()
}

func handleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}
	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}
	log.Info().
		Str("order_id", p.OrderID).
		Int64("user_id", p.UserID).
		Int("total_products", p.TotalProducts).
		Int("total_price", p.TotalPrice).
		Msg("order placed")
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
