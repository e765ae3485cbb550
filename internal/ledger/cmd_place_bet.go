package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
)

// ExecutePlaceBet debits the stake, deposited sub-balance first and winnings
// for the remainder. The split is recorded in metadata so the history shows
// what each stake consumed.
func (e *Engine) ExecutePlaceBet(ctx context.Context, tx pgx.Tx, params domain.PlaceBetParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	profile, wallet, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("place bet: %w", err)
	}

	if params.Ref != "" {
		existing, err := e.FindExistingTransaction(ctx, tx, params.UserID, params.Ref)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &domain.CommandResult{Transaction: existing, Wallet: wallet, Profile: profile, Idempotent: true}, nil
		}
	}

	if wallet.Total() < params.Amount {
		return nil, domain.ErrInsufficientFunds()
	}
	fromDeposited, fromWinnings := debitSplit(params.Amount, wallet.DepositedAmount)

	meta := mergeMeta(params.Metadata, map[string]interface{}{
		"fromDeposited": fromDeposited,
		"fromWinnings":  fromWinnings,
	})

	entry, updatedWallet, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:       params.UserID,
		Type:         domain.TxBet,
		Amount:       params.Amount,
		Status:       domain.TxCompleted,
		WalletUpdate: domain.WalletUpdate{Deposited: -fromDeposited, Winnings: -fromWinnings},
		Ref:          strPtr(params.Ref),
		Game:         strPtr(params.Game),
		Details:      strPtr(params.Details),
		Metadata:     meta,
	})
	if err != nil {
		return nil, fmt.Errorf("place bet post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updatedWallet, Profile: updatedProfile}, nil
}
