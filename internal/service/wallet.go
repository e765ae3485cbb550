package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/ledger"
	"github.com/matka/platform/internal/projection"
	"github.com/matka/platform/internal/repository"
)

// WalletService exposes the player wallet surface and the admin ledger report.
type WalletService struct {
	pool         repository.DB
	engine       *ledger.Engine
	wallets      repository.WalletRepository
	profiles     repository.ProfileRepository
	transactions repository.TransactionRepository
	store        projection.Store
	logger       *slog.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(
	pool repository.DB,
	engine *ledger.Engine,
	wallets repository.WalletRepository,
	profiles repository.ProfileRepository,
	transactions repository.TransactionRepository,
	store projection.Store,
	logger *slog.Logger,
) *WalletService {
	return &WalletService{
		pool:         pool,
		engine:       engine,
		wallets:      wallets,
		profiles:     profiles,
		transactions: transactions,
		store:        store,
		logger:       logger,
	}
}

// Overview returns the committed wallet state: total, split and recent
// entries. In-flight transactions are invisible until their commit.
func (s *WalletService) Overview(ctx context.Context, userID uuid.UUID, limit int) (*domain.WalletOverview, error) {
	wallet, err := s.wallets.FindByProfileID(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("find wallet", err)
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet", userID.String())
	}

	txs, err := s.transactions.ListByUser(ctx, s.pool, userID, nil, limit)
	if err != nil {
		return nil, domain.ErrInternal("list transactions", err)
	}

	overview := &domain.WalletOverview{
		Balance:      wallet.Total(),
		Deposited:    wallet.DepositedAmount,
		Winnings:     wallet.WinningsAmount,
		Transactions: txs,
	}

	_ = projection.UpdateWallet(ctx, s.store, projection.WalletProjection{
		UserID:    userID.String(),
		Balance:   overview.Balance,
		Deposited: overview.Deposited,
		Winnings:  overview.Winnings,
	})

	return overview, nil
}

// Withdraw debits a payout request through the ledger engine. The resulting
// transaction stays pending until an operator completes the transfer.
func (s *WalletService) Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*domain.CommandResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteWithdraw(ctx, tx, domain.WithdrawParams{
		UserID:  userID,
		Amount:  amount,
		Ref:     fmt.Sprintf("withdraw-%s", uuid.New()),
		Details: "player withdrawal request",
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	_ = projection.InvalidateWallet(ctx, s.store, userID.String())
	s.logger.Info("withdrawal requested",
		"user_id", userID, "amount", amount, "transaction_id", result.Transaction.ID)

	return result, nil
}

// CompleteWithdrawal flips a pending withdrawal to completed or failed. A
// failed withdrawal refunds through a deposit-typed correction entry. The
// conditional status flip runs inside the transaction, so two operators
// completing the same withdrawal cannot both win and the refund posts at
// most once.
func (s *WalletService) CompleteWithdrawal(ctx context.Context, txID uuid.UUID, success bool) error {
	entry, err := s.transactions.FindByID(ctx, s.pool, txID)
	if err != nil {
		return domain.ErrInternal("find transaction", err)
	}
	if entry == nil {
		return domain.ErrNotFound("transaction", txID.String())
	}
	if entry.Type != domain.TxWithdrawal {
		return domain.ErrValidation(fmt.Sprintf("transaction %s is not a withdrawal", txID))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	status := domain.TxCompleted
	if !success {
		status = domain.TxFailed
	}
	flipped, err := s.transactions.MarkStatus(ctx, tx, txID, domain.TxPending, status)
	if err != nil {
		return domain.ErrInternal("mark transaction status", err)
	}
	if !flipped {
		return domain.ErrAlreadyProcessed("withdrawal", txID.String())
	}
	if !success {
		_, err := s.engine.ExecuteDeposit(ctx, tx, domain.DepositParams{
			UserID:  entry.UserID,
			Amount:  entry.Amount,
			Ref:     fmt.Sprintf("withdraw-refund-%s", txID),
			Details: "withdrawal failed, funds returned",
		})
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	_ = projection.InvalidateWallet(ctx, s.store, entry.UserID.String())
	return nil
}

// Report returns recent ledger entries across all users for the admin panel.
func (s *WalletService) Report(ctx context.Context, txType *domain.TransactionType, limit int) ([]domain.Transaction, error) {
	txs, err := s.transactions.ListRecent(ctx, s.pool, txType, limit)
	if err != nil {
		return nil, domain.ErrInternal("list transactions", err)
	}
	return txs, nil
}
