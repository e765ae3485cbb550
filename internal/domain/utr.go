package domain

import (
	"time"

	"github.com/google/uuid"
)

// UTR submission statuses. A submission is processed at most once; approval
// flips pending -> approved with a conditional update so a duplicate approval
// can never double-credit.
const (
	UTRPending  = "pending"
	UTRApproved = "approved"
	UTRRejected = "rejected"
)

// UTRSubmission represents a utr row: an externally-made bank transfer
// reported by its reference number, awaiting operator reconciliation.
type UTRSubmission struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Amount     int64      `json:"amount"`
	UTRNo      string     `json:"utr_no"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}
