package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
)

// ExecuteWithdraw debits a payout request, winnings first and deposited funds
// for the remainder. The entry posts in pending status; an operator flips it
// to completed/failed once the transfer is made.
func (e *Engine) ExecuteWithdraw(ctx context.Context, tx pgx.Tx, params domain.WithdrawParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	profile, wallet, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
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
	fromWinnings, fromDeposited := debitSplit(params.Amount, wallet.WinningsAmount)

	meta := mergeMeta(params.Metadata, map[string]interface{}{
		"fromWinnings":  fromWinnings,
		"fromDeposited": fromDeposited,
	})

	entry, updatedWallet, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:       params.UserID,
		Type:         domain.TxWithdrawal,
		Amount:       params.Amount,
		Status:       domain.TxPending,
		WalletUpdate: domain.WalletUpdate{Winnings: -fromWinnings, Deposited: -fromDeposited},
		Ref:          strPtr(params.Ref),
		Details:      strPtr(params.Details),
		Metadata:     meta,
	})
	if err != nil {
		return nil, fmt.Errorf("withdraw post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updatedWallet, Profile: updatedProfile}, nil
}
