package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionType enumerates all wallet transaction types.
type TransactionType string

const (
	TxBet        TransactionType = "bet"
	TxWin        TransactionType = "win"
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus is the settlement state of a transaction row. Only the
// status may change after insert (pending -> completed/failed).
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction represents a transactions row (append-only ledger entry).
// The *After columns snapshot the wallet immediately after the entry posted,
// so the full history reconstructs every balance.
type Transaction struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	Type           TransactionType   `json:"type"`
	Amount         int64             `json:"amount"`
	Status         TransactionStatus `json:"status"`
	Game           *string           `json:"game,omitempty"`
	Details        *string           `json:"details,omitempty"`
	Ref            *string           `json:"ref,omitempty"`
	BalanceAfter   int64             `json:"balance_after"`
	DepositedAfter int64             `json:"deposited_after"`
	WinningsAfter  int64             `json:"winnings_after"`
	Metadata       json.RawMessage   `json:"metadata"`
	CreatedAt      time.Time         `json:"created_at"`
}

// WalletUpdate describes the deposited/winnings deltas of a ledger entry.
type WalletUpdate struct {
	Deposited int64 // delta for deposited_amount
	Winnings  int64 // delta for winnings_amount
}

// HasDepositedDelta reports whether the deposited sub-balance changes.
func (u WalletUpdate) HasDepositedDelta() bool { return u.Deposited != 0 }

// HasWinningsDelta reports whether the winnings sub-balance changes.
func (u WalletUpdate) HasWinningsDelta() bool { return u.Winnings != 0 }

// Total is the net wallet balance delta.
func (u WalletUpdate) Total() int64 { return u.Deposited + u.Winnings }

// PostLedgerEntryParams is the input to the atomic PostLedgerEntry operation.
type PostLedgerEntryParams struct {
	UserID       uuid.UUID
	Type         TransactionType
	Amount       int64
	Status       TransactionStatus
	WalletUpdate WalletUpdate
	Ref          *string
	Game         *string
	Details      *string
	Metadata     json.RawMessage
}

// CommandResult is the return value of all wallet commands.
type CommandResult struct {
	Transaction *Transaction
	Wallet      *Wallet
	Profile     *Profile
	Idempotent  bool // true if this was a duplicate that returned the existing tx
}
