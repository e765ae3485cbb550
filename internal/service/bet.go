package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/guard"
	"github.com/matka/platform/internal/ledger"
	"github.com/matka/platform/internal/policy"
	"github.com/matka/platform/internal/repository"
)

// BetService handles bet placement and listing.
type BetService struct {
	pool      repository.DB
	engine    *ledger.Engine
	bets      repository.BetRepository
	books     repository.BookRepository
	gameTypes repository.GameTypeRepository
	limiter   *guard.RateLimiter
	stakes    policy.StakePolicy
	logger    *slog.Logger
}

// NewBetService creates a new BetService.
func NewBetService(
	pool repository.DB,
	engine *ledger.Engine,
	bets repository.BetRepository,
	books repository.BookRepository,
	gameTypes repository.GameTypeRepository,
	limiter *guard.RateLimiter,
	stakes policy.StakePolicy,
	logger *slog.Logger,
) *BetService {
	return &BetService{
		pool:      pool,
		engine:    engine,
		bets:      bets,
		books:     books,
		gameTypes: gameTypes,
		limiter:   limiter,
		stakes:    stakes,
		logger:    logger,
	}
}

// PlaceBetInput holds a bet placement request.
type PlaceBetInput struct {
	BookSlug     string `json:"book_slug"`
	GameTypeSlug string `json:"game_type_slug"`
	Value        string `json:"value"`
	Amount       int64  `json:"amount"`
}

// PlaceBet validates the book window, value-space and stake policy, then
// debits the stake and records the bet in one transaction. The bet row links
// to its debit entry so settlement can trace the money.
func (s *BetService) PlaceBet(ctx context.Context, userID uuid.UUID, input PlaceBetInput) (*domain.Bet, error) {
	if check := s.limiter.Check(ctx, userID.String()); !check.Allowed {
		return nil, domain.ErrValidation(check.Reason)
	}

	book, err := s.books.FindBySlug(ctx, s.pool, input.BookSlug)
	if err != nil {
		return nil, domain.ErrInternal("find book", err)
	}
	if book == nil {
		return nil, domain.ErrNotFound("book", input.BookSlug)
	}
	if !book.AcceptsBets(time.Now()) {
		return nil, domain.ErrBookClosed(book.Slug)
	}

	gt, err := s.gameTypes.FindBySlug(ctx, s.pool, input.GameTypeSlug)
	if err != nil {
		return nil, domain.ErrInternal("find game type", err)
	}
	if gt == nil {
		return nil, domain.ErrNotFound("game type", input.GameTypeSlug)
	}
	if err := gt.ValidateValue(input.Value); err != nil {
		return nil, domain.ErrInvalidValue(err.Error())
	}

	if eval := policy.EvaluateStake(s.stakes, gt, input.Amount); !eval.Allowed {
		return nil, domain.ErrValidation(fmt.Sprintf(
			"stake %d breaches %s limit %d", eval.RequestedAmt, eval.BreachedLimit, eval.LimitValue))
	}

	betID := uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecutePlaceBet(ctx, tx, domain.PlaceBetParams{
		UserID:  userID,
		Amount:  input.Amount,
		Game:    gt.Slug,
		Details: input.Value,
		Ref:     fmt.Sprintf("bet-%s", betID),
	})
	if err != nil {
		return nil, err
	}

	bet := &domain.Bet{
		ID:            betID,
		UserID:        userID,
		BookID:        book.ID,
		GameTypeID:    gt.ID,
		Amount:        input.Amount,
		Details:       input.Value,
		Status:        domain.BetPending,
		TransactionID: &result.Transaction.ID,
		CreatedAt:     time.Now(),
	}
	if err := s.bets.Insert(ctx, tx, bet); err != nil {
		return nil, domain.ErrInternal("insert bet", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("bet placed",
		"bet_id", bet.ID, "user_id", userID, "book", book.Slug,
		"game_type", gt.Slug, "value", input.Value, "amount", input.Amount)

	return bet, nil
}

// ListOwn returns a player's bets newest first.
func (s *BetService) ListOwn(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Bet, error) {
	bets, err := s.bets.ListByUser(ctx, s.pool, userID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list bets", err)
	}
	return bets, nil
}

// AdminList returns bets matching the filter for the admin panel.
func (s *BetService) AdminList(ctx context.Context, filter domain.BetFilter) ([]domain.Bet, error) {
	bets, err := s.bets.List(ctx, s.pool, filter)
	if err != nil {
		return nil, domain.ErrInternal("list bets", err)
	}
	return bets, nil
}
