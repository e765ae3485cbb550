package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
)

// ExecuteDeposit credits the deposited sub-balance. Deposits enter the system
// through approved UTR submissions, so Ref carries "utr-<id>" and a replayed
// approval returns the existing entry.
func (e *Engine) ExecuteDeposit(ctx context.Context, tx pgx.Tx, params domain.DepositParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	profile, wallet, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
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
		Type:         domain.TxDeposit,
		Amount:       params.Amount,
		Status:       domain.TxCompleted,
		WalletUpdate: domain.WalletUpdate{Deposited: params.Amount},
		Ref:          strPtr(params.Ref),
		Details:      strPtr(params.Details),
		Metadata:     ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("deposit post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updatedWallet, Profile: updatedProfile}, nil
}
