package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// DepositParams holds the input for ExecuteDeposit.
type DepositParams struct {
	UserID   uuid.UUID
	Amount   int64
	Ref      string // idempotency ref, e.g. "utr-<id>"
	Details  string
	Metadata json.RawMessage
}

// PlaceBetParams holds the input for ExecutePlaceBet.
type PlaceBetParams struct {
	UserID   uuid.UUID
	Amount   int64
	Game     string // game type slug
	Details  string // chosen value
	Ref      string
	Metadata json.RawMessage
}

// CreditWinParams holds the input for ExecuteCreditWin.
type CreditWinParams struct {
	UserID   uuid.UUID
	Amount   int64
	Game     string
	Details  string
	Ref      string // e.g. "settle-win-<betID>", makes settlement replays no-ops
	Metadata json.RawMessage
}

// WithdrawParams holds the input for ExecuteWithdraw.
type WithdrawParams struct {
	UserID   uuid.UUID
	Amount   int64
	Ref      string
	Details  string
	Metadata json.RawMessage
}

// WalletOverview is the player-facing wallet snapshot: profile total, the
// deposited/winnings split and recent ledger entries.
type WalletOverview struct {
	Balance      int64         `json:"balance"`
	Deposited    int64         `json:"deposited"`
	Winnings     int64         `json:"winnings"`
	Transactions []Transaction `json:"transactions"`
}
