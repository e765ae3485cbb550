package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewTransactionPostedEvent creates the standard wallet event for a ledger entry.
func NewTransactionPostedEvent(tx *Transaction) OutboxDraft {
	payload, _ := json.Marshal(tx)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateWallet,
		AggregateID:   tx.UserID.String(),
		EventType:     EventTransactionPosted,
		PartitionKey:  tx.UserID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewProfileCreatedEvent creates a profile lifecycle event.
func NewProfileCreatedEvent(profileID uuid.UUID, userCode, name string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"profile_id": profileID.String(),
		"user_code":  userCode,
		"name":       name,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateProfile,
		AggregateID:   profileID.String(),
		EventType:     EventProfileCreated,
		PartitionKey:  profileID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewResultDeclaredEvent creates a draw declaration event.
func NewResultDeclaredEvent(result *Result, bookSlug string) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"result_id": result.ID.String(),
		"book_id":   result.BookID.String(),
		"book_slug": bookSlug,
		"date":      result.Date,
		"time":      result.Time,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateBook,
		AggregateID:   result.BookID.String(),
		EventType:     EventResultDeclared,
		PartitionKey:  result.BookID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewBetSettledEvent creates a per-bet settlement event.
func NewBetSettledEvent(betID, userID uuid.UUID, status BetStatus, payout int64) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"bet_id":  betID.String(),
		"user_id": userID.String(),
		"status":  status,
		"payout":  payout,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateBet,
		AggregateID:   betID.String(),
		EventType:     EventBetSettled,
		PartitionKey:  userID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewUTRProcessedEvent creates an approval/rejection event for a UTR submission.
func NewUTRProcessedEvent(utr *UTRSubmission, approved bool) OutboxDraft {
	evtType := EventUTRApproved
	if !approved {
		evtType = EventUTRRejected
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"utr_id":  utr.ID.String(),
		"user_id": utr.UserID.String(),
		"utr_no":  utr.UTRNo,
		"amount":  utr.Amount,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUTR,
		AggregateID:   utr.ID.String(),
		EventType:     evtType,
		PartitionKey:  utr.UserID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
