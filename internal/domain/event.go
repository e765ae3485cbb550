package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventProfileCreated    EventType = "matka.profile.created"
	EventTransactionPosted EventType = "matka.wallet.transaction.posted"
	EventResultDeclared    EventType = "matka.result.declared"
	EventBetSettled        EventType = "matka.bet.settled"
	EventUTRApproved       EventType = "matka.utr.approved"
	EventUTRRejected       EventType = "matka.utr.rejected"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateProfile AggregateType = "profile"
	AggregateWallet  AggregateType = "wallet"
	AggregateBook    AggregateType = "book"
	AggregateBet     AggregateType = "bet"
	AggregateUTR     AggregateType = "utr"
)

// OutboxDraft is the payload written to the event_outbox table within the
// same transaction as the write it describes.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// GuardResult is the outcome of an admission guard check.
type GuardResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Guard   string `json:"guard,omitempty"`
}
