package domain

import (
	"time"

	"github.com/google/uuid"
)

// BetStatus tracks the lifecycle of a bet. Transitions are pending -> win or
// pending -> lose, enforced by conditional updates; a settled bet is immutable.
type BetStatus string

const (
	BetPending BetStatus = "pending"
	BetWin     BetStatus = "win"
	BetLose    BetStatus = "lose"
)

// Bet represents a bets row. Details holds the chosen value within the game
// type's value-space.
type Bet struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	BookID        uuid.UUID  `json:"book_id"`
	GameTypeID    uuid.UUID  `json:"game_type_id"`
	Amount        int64      `json:"amount"`
	Details       string     `json:"details"`
	Status        BetStatus  `json:"status"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// BetFilter narrows admin bet listings and settlement scope.
type BetFilter struct {
	BookID     *uuid.UUID
	GameTypeID *uuid.UUID
	Status     *BetStatus
	Before     *time.Time
	Limit      int
}
