package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/infra"
)

// Tails the wallet transaction stream published by the API's outbox relay.
// Acts as the downstream audit log consumer; extend dispatch() to feed
// analytics or notification sinks.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	groupID := "matka-wallet-audit"
	if s := os.Getenv("CONSUMER_GROUP_ID"); s != "" {
		groupID = s
	}

	consumer := infra.NewKafkaConsumer(
		cfg.KafkaBrokers,
		string(domain.EventTransactionPosted),
		groupID,
		cfg.KafkaEnabled,
		logger,
	)
	if !consumer.Enabled() {
		return fmt.Errorf("kafka is disabled; set KAFKA_ENABLED=true and KAFKA_BROKERS")
	}
	defer consumer.Close()

	logger.Info("outbox-consumer starting",
		"topic", string(domain.EventTransactionPosted), "group_id", groupID)

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("outbox-consumer shutting down")
				return nil
			}
			logger.Error("read message", "error", err)
			continue
		}
		dispatch(logger, msg.Key, msg.Value)
	}
}

// envelope mirrors the JSON the outbox relay publishes.
type envelope struct {
	EventID       string          `json:"event_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func dispatch(logger *slog.Logger, key, value []byte) {
	var evt envelope
	if err := json.Unmarshal(value, &evt); err != nil {
		logger.Error("malformed event payload", "key", string(key), "error", err)
		return
	}

	logger.Info("wallet event",
		"event_id", evt.EventID,
		"event_type", evt.EventType,
		"aggregate_type", evt.AggregateType,
		"aggregate_id", evt.AggregateID,
		"partition_key", string(key),
		"occurred_at", evt.OccurredAt,
	)
}
