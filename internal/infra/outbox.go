package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxPoller drains the event_outbox table into Kafka. Event types double
// as topic names (matka.wallet.transaction.posted etc.), so routing needs no
// extra mapping table.
type OutboxPoller struct {
	pool      *pgxpool.Pool
	producer  *KafkaProducer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates an outbox poller with default cadence.
func NewOutboxPoller(pool *pgxpool.Pool, producer *KafkaProducer, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		producer:  producer,
		logger:    logger,
		interval:  500 * time.Millisecond,
		batchSize: 100,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("outbox poller stopped")
				return
			case <-ticker.C:
				if err := p.poll(ctx); err != nil {
					p.logger.Error("outbox poll error", "error", err)
				}
			}
		}
	}()
}

type pendingEvent struct {
	EventID       uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	PartitionKey  string
	Payload       json.RawMessage
	OccurredAt    time.Time
}

func (p *OutboxPoller) poll(ctx context.Context) error {
	rows, err := p.pool.Query(ctx, `
		SELECT "eventId", "aggregateType", "aggregateId", "eventType", "partitionKey", "payload", "occurredAt"
		FROM event_outbox
		WHERE "publishedAt" IS NULL
		ORDER BY "occurredAt" ASC
		LIMIT $1`, p.batchSize)
	if err != nil {
		return err
	}
	defer rows.Close()

	var events []pendingEvent
	for rows.Next() {
		var e pendingEvent
		if err := rows.Scan(&e.EventID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.PartitionKey, &e.Payload, &e.OccurredAt); err != nil {
			return err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	published := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		envelope, _ := json.Marshal(map[string]interface{}{
			"event_id":       e.EventID,
			"aggregate_type": e.AggregateType,
			"aggregate_id":   e.AggregateID,
			"event_type":     e.EventType,
			"payload":        e.Payload,
			"occurred_at":    e.OccurredAt,
		})

		// Partition by partitionKey (usually the profile ID) so a wallet's
		// entries stay ordered within a partition.
		if err := p.producer.Publish(ctx, e.EventType, []byte(e.PartitionKey), envelope); err != nil {
			p.logger.Error("kafka publish failed", "event_id", e.EventID, "topic", e.EventType, "error", err)
			// Stop the batch here: publishing out of order past a failed
			// event would reorder the stream for that partition key.
			break
		}
		published = append(published, e.EventID)
	}

	if len(published) > 0 {
		if _, err := p.pool.Exec(ctx,
			`UPDATE event_outbox SET "publishedAt" = now() WHERE "eventId" = ANY($1)`, published); err != nil {
			return err
		}
	}

	p.logger.Debug("outbox poll complete", "fetched", len(events), "published", len(published))
	return nil
}
