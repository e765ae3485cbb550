package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/ledger"
	"github.com/matka/platform/internal/projection"
	"github.com/matka/platform/internal/repository"
)

// UTRService handles deposit reconciliation: players report bank transfers by
// UTR number, operators approve or reject them.
type UTRService struct {
	pool   repository.DB
	engine *ledger.Engine
	utrs   repository.UTRRepository
	outbox repository.OutboxRepository
	store  projection.Store
	logger *slog.Logger
}

// NewUTRService creates a new UTRService.
func NewUTRService(
	pool repository.DB,
	engine *ledger.Engine,
	utrs repository.UTRRepository,
	outbox repository.OutboxRepository,
	store projection.Store,
	logger *slog.Logger,
) *UTRService {
	return &UTRService{
		pool:   pool,
		engine: engine,
		utrs:   utrs,
		outbox: outbox,
		store:  store,
		logger: logger,
	}
}

// Submit records a pending UTR submission.
func (s *UTRService) Submit(ctx context.Context, userID uuid.UUID, amount int64, utrNo string) (*domain.UTRSubmission, error) {
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateUTRNo(utrNo); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	sub := &domain.UTRSubmission{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		UTRNo:     utrNo,
		Status:    domain.UTRPending,
		CreatedAt: time.Now(),
	}
	if err := s.utrs.Insert(ctx, s.pool, sub); err != nil {
		return nil, domain.ErrInternal("insert utr submission", err)
	}

	s.logger.Info("utr submitted", "utr_id", sub.ID, "user_id", userID, "amount", amount)
	return sub, nil
}

// ListOwn returns a player's submissions newest first.
func (s *UTRService) ListOwn(ctx context.Context, userID uuid.UUID, limit int) ([]domain.UTRSubmission, error) {
	subs, err := s.utrs.ListByUser(ctx, s.pool, userID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list utr submissions", err)
	}
	return subs, nil
}

// ListPending returns pending submissions oldest first for operator review.
func (s *UTRService) ListPending(ctx context.Context, limit int) ([]domain.UTRSubmission, error) {
	subs, err := s.utrs.ListPending(ctx, s.pool, limit)
	if err != nil {
		return nil, domain.ErrInternal("list pending utr submissions", err)
	}
	return subs, nil
}

// Approve flips a pending submission to approved and credits the deposit in
// one transaction. The conditional status update plus the "utr-<id>" ledger
// ref guarantee the amount credits at most once, whatever is retried.
func (s *UTRService) Approve(ctx context.Context, utrID uuid.UUID) (*domain.CommandResult, error) {
	sub, err := s.utrs.FindByID(ctx, s.pool, utrID)
	if err != nil {
		return nil, domain.ErrInternal("find utr submission", err)
	}
	if sub == nil {
		return nil, domain.ErrNotFound("utr submission", utrID.String())
	}
	if sub.Status != domain.UTRPending {
		return nil, domain.ErrAlreadyProcessed("utr submission", utrID.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	flipped, err := s.utrs.MarkStatus(ctx, tx, utrID, domain.UTRApproved)
	if err != nil {
		return nil, domain.ErrInternal("mark utr status", err)
	}
	if !flipped {
		return nil, domain.ErrAlreadyProcessed("utr submission", utrID.String())
	}

	result, err := s.engine.ExecuteDeposit(ctx, tx, domain.DepositParams{
		UserID:  sub.UserID,
		Amount:  sub.Amount,
		Ref:     fmt.Sprintf("utr-%s", utrID),
		Details: fmt.Sprintf("UTR %s approved", sub.UTRNo),
	})
	if err != nil {
		return nil, err
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewUTRProcessedEvent(sub, true)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	_ = projection.InvalidateWallet(ctx, s.store, sub.UserID.String())
	s.logger.Info("utr approved", "utr_id", utrID, "user_id", sub.UserID, "amount", sub.Amount)

	return result, nil
}

// Reject flips a pending submission to rejected. No wallet movement.
func (s *UTRService) Reject(ctx context.Context, utrID uuid.UUID) error {
	sub, err := s.utrs.FindByID(ctx, s.pool, utrID)
	if err != nil {
		return domain.ErrInternal("find utr submission", err)
	}
	if sub == nil {
		return domain.ErrNotFound("utr submission", utrID.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	flipped, err := s.utrs.MarkStatus(ctx, tx, utrID, domain.UTRRejected)
	if err != nil {
		return domain.ErrInternal("mark utr status", err)
	}
	if !flipped {
		return domain.ErrAlreadyProcessed("utr submission", utrID.String())
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewUTRProcessedEvent(sub, false)); err != nil {
		return domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("utr rejected", "utr_id", utrID, "user_id", sub.UserID)
	return nil
}
