package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
)

// ExecuteCreditWin credits a settlement payout to the winnings sub-balance.
// Ref is "settle-win-<betID>", so replaying a settlement for an already
// credited bet returns the existing entry instead of paying twice.
func (e *Engine) ExecuteCreditWin(ctx context.Context, tx pgx.Tx, params domain.CreditWinParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	profile, wallet, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("credit win: %w", err)
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

	entry, updatedWallet, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:       params.UserID,
		Type:         domain.TxWin,
		Amount:       params.Amount,
		Status:       domain.TxCompleted,
		WalletUpdate: domain.WalletUpdate{Winnings: params.Amount},
		Ref:          strPtr(params.Ref),
		Game:         strPtr(params.Game),
		Details:      strPtr(params.Details),
		Metadata:     ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("credit win post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updatedWallet, Profile: updatedProfile}, nil
}
