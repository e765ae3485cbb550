package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/repository"
)

// Engine provides the 3 foundational ledger operations:
//  1. LockProfileForUpdate — row-level pessimistic lock
//  2. FindExistingTransaction — idempotency check by (user, ref)
//  3. PostLedgerEntry — atomic wallet update + append-only insert + outbox event
type Engine struct {
	profiles     repository.ProfileRepository
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	outbox       repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	profiles repository.ProfileRepository,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		profiles:     profiles,
		wallets:      wallets,
		transactions: transactions,
		outbox:       outbox,
	}
}

// LockProfileForUpdate acquires a row-level lock and returns the profile
// together with its wallet split. Must be called within a transaction; the
// profiles row is the lock anchor for all wallet writes.
func (e *Engine) LockProfileForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Profile, *domain.Wallet, error) {
	profile, err := e.profiles.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock profile: %w", err)
	}
	if profile == nil {
		return nil, nil, domain.ErrNotFound("profile", userID.String())
	}

	wallet, err := e.wallets.FindByProfileID(ctx, tx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load wallet: %w", err)
	}
	if wallet == nil {
		return nil, nil, domain.ErrNotFound("wallet", userID.String())
	}
	return profile, wallet, nil
}

// FindExistingTransaction checks if an entry with the same ref already posted
// for this user. Returns nil if no duplicate found.
func (e *Engine) FindExistingTransaction(ctx context.Context, tx pgx.Tx, userID uuid.UUID, ref string) (*domain.Transaction, error) {
	existing, err := e.transactions.FindExisting(ctx, tx, userID, ref)
	if err != nil {
		return nil, fmt.Errorf("find existing transaction: %w", err)
	}
	return existing, nil
}

// PostLedgerEntry atomically updates the wallet split, the profile total and
// inserts a ledger entry. All wallet commands delegate to this.
//
// Steps:
//  1. Apply the deposited/winnings deltas with server-side arithmetic
//  2. Add the net delta to profiles.wallet_balance (keeps total == split sum)
//  3. Insert transaction with the post-update wallet snapshot
//  4. Insert outbox event
//
// All 4 steps run within the caller's transaction.
func (e *Engine) PostLedgerEntry(ctx context.Context, tx pgx.Tx, params domain.PostLedgerEntryParams) (*domain.Transaction, *domain.Wallet, *domain.Profile, error) {
	wallet, err := e.wallets.ApplyDelta(ctx, tx, params.UserID, params.WalletUpdate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("apply wallet delta: %w", err)
	}

	profile, err := e.profiles.AddToBalance(ctx, tx, params.UserID, params.WalletUpdate.Total())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("update profile balance: %w", err)
	}

	entry, err := e.transactions.Insert(ctx, tx, params, wallet)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("insert transaction: %w", err)
	}

	event := domain.NewTransactionPostedEvent(entry)
	if err := e.outbox.Insert(ctx, tx, event); err != nil {
		return nil, nil, nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return entry, wallet, profile, nil
}
