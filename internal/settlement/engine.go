package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/ledger"
	"github.com/matka/platform/internal/repository"
)

// Engine declares results and settles bets. Result insertion runs in its own
// transaction; each bet then settles in its own short transaction so one bad
// bet cannot poison the batch and every credit+status flip stays atomic.
type Engine struct {
	pool      repository.DB
	ledger    *ledger.Engine
	bets      repository.BetRepository
	books     repository.BookRepository
	gameTypes repository.GameTypeRepository
	results   repository.ResultRepository
	outbox    repository.OutboxRepository
	logger    *slog.Logger
}

// NewEngine creates a settlement engine.
func NewEngine(
	pool repository.DB,
	ledgerEngine *ledger.Engine,
	bets repository.BetRepository,
	books repository.BookRepository,
	gameTypes repository.GameTypeRepository,
	results repository.ResultRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		pool:      pool,
		ledger:    ledgerEngine,
		bets:      bets,
		books:     books,
		gameTypes: gameTypes,
		results:   results,
		outbox:    outbox,
		logger:    logger,
	}
}

// DeclareResultInput is the operator input for a result declaration.
type DeclareResultInput struct {
	BookSlug string
	Date     string // YYYY-MM-DD
	Time     string // slot label
	Digits   domain.ResultDigits
}

// SettleInput narrows settlement to one book + game type + winning value.
type SettleInput struct {
	BookSlug       string
	GameTypeSlug   string
	WinningValue   string
	MultiplierX100 *int64 // per-invocation override, nil = game type default
	MarkLose       bool
}

// Report summarizes a declaration or settlement run.
type Report struct {
	ResultID    *uuid.UUID `json:"result_id,omitempty"`
	Winners     int        `json:"winners"`
	Losers      int        `json:"losers"`
	Skipped     int        `json:"skipped"`
	TotalPayout int64      `json:"total_payout"`
}

// DeclareResult inserts the result row, then settles every game type the
// supplied digits resolve, marking non-matching pending bets as lost. Only
// bets placed before the declaration are in scope.
func (e *Engine) DeclareResult(ctx context.Context, input DeclareResultInput) (*Report, error) {
	if input.Digits.Empty() {
		return nil, domain.ErrValidation("at least one result digit is required")
	}
	if err := input.Digits.Validate(); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, domain.ErrValidation(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", input.Date))
	}

	book, err := e.books.FindBySlug(ctx, e.pool, input.BookSlug)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrNotFound("book", input.BookSlug)
	}

	result := &domain.Result{
		ID:         uuid.New(),
		BookID:     book.ID,
		Date:       input.Date,
		Time:       input.Time,
		OpenDigit:  input.Digits.OpenDigit,
		CloseDigit: input.Digits.CloseDigit,
		Jodi:       input.Digits.Jodi,
		OpenPanna:  input.Digits.OpenPanna,
		ClosePanna: input.Digits.ClosePanna,
		CreatedAt:  time.Now(),
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin declare tx", err)
	}
	defer tx.Rollback(ctx)

	if err := e.results.Insert(ctx, tx, result); err != nil {
		return nil, err
	}
	if err := e.outbox.Insert(ctx, tx, domain.NewResultDeclaredEvent(result, book.Slug)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit declare tx", err)
	}

	e.logger.Info("result declared",
		"book", book.Slug, "date", result.Date, "slot", result.Time, "result_id", result.ID)

	gameTypes, err := e.gameTypes.List(ctx, e.pool)
	if err != nil {
		return nil, err
	}

	report := &Report{ResultID: &result.ID}
	for i := range gameTypes {
		gt := &gameTypes[i]
		// Skip only game types whose kind was not declared at all. A declared
		// kind with no winning value for this game type (a single panna while
		// this is double-panna) still marks its pending bets as lost.
		winning := WinningValues(gt, input.Digits)
		if !KindDeclared(gt.Kind, input.Digits) {
			continue
		}
		if err := e.settleGameType(ctx, book, gt, winning, gt.MultiplierX100, true, result.CreatedAt, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// SettleBets is the narrow settlement path: one book, one game type, one
// winning value, optional multiplier override. The cutoff is the invocation
// instant, so bets placed mid-run are untouched.
func (e *Engine) SettleBets(ctx context.Context, input SettleInput) (*Report, error) {
	book, err := e.books.FindBySlug(ctx, e.pool, input.BookSlug)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrNotFound("book", input.BookSlug)
	}

	gt, err := e.gameTypes.FindBySlug(ctx, e.pool, input.GameTypeSlug)
	if err != nil {
		return nil, err
	}
	if gt == nil {
		return nil, domain.ErrNotFound("game type", input.GameTypeSlug)
	}

	if err := gt.ValidateValue(input.WinningValue); err != nil {
		return nil, domain.ErrInvalidValue(err.Error())
	}

	mult := gt.MultiplierX100
	if input.MultiplierX100 != nil {
		if err := domain.ValidateMultiplier(*input.MultiplierX100); err != nil {
			return nil, domain.ErrValidation(err.Error())
		}
		mult = *input.MultiplierX100
	}

	report := &Report{}
	err = e.settleGameType(ctx, book, gt, []string{input.WinningValue}, mult, input.MarkLose, time.Now(), report)
	return report, err
}

// MarkLosePending marks the selected pending bets as lost without any wallet
// movement. Used by the operator for manual cleanup.
func (e *Engine) MarkLosePending(ctx context.Context, betIDs []uuid.UUID) (*Report, error) {
	report := &Report{}
	for _, id := range betIDs {
		bet, err := e.bets.FindByID(ctx, e.pool, id)
		if err != nil {
			return report, err
		}
		if bet == nil {
			return report, domain.ErrNotFound("bet", id.String())
		}
		flipped, err := e.bets.MarkStatus(ctx, e.pool, id, domain.BetPending, domain.BetLose)
		if err != nil {
			return report, err
		}
		if !flipped {
			report.Skipped++
			continue
		}
		report.Losers++
	}
	return report, nil
}

// settleGameType settles all pending bets of one (book, game type) pair
// against the winning values. Zero pending bets is a successful no-op.
func (e *Engine) settleGameType(
	ctx context.Context,
	book *domain.Book,
	gt *domain.GameType,
	winning []string,
	multiplierX100 int64,
	markLose bool,
	before time.Time,
	report *Report,
) error {
	pending, err := e.bets.ListPendingForSettlement(ctx, e.pool, book.ID, gt.ID, before)
	if err != nil {
		return err
	}

	outcomes := PlanOutcomes(pending, winning, multiplierX100, markLose)
	for _, o := range outcomes {
		if o.Won {
			if err := e.settleWin(ctx, book, gt, o, report); err != nil {
				return fmt.Errorf("settle win bet %s: %w", o.Bet.ID, err)
			}
		} else {
			if err := e.settleLose(ctx, o.Bet, report); err != nil {
				return fmt.Errorf("settle lose bet %s: %w", o.Bet.ID, err)
			}
		}
	}

	if len(outcomes) > 0 {
		e.logger.Info("game type settled",
			"book", book.Slug, "game_type", gt.Slug,
			"winners", report.Winners, "losers", report.Losers,
			"skipped", report.Skipped, "total_payout", report.TotalPayout)
	}
	return nil
}

// settleWin flips the bet and credits the payout in one short transaction.
// A concurrent run loses the conditional update race, sees zero rows and
// skips, so the payout credits exactly once.
func (e *Engine) settleWin(ctx context.Context, book *domain.Book, gt *domain.GameType, o Outcome, report *Report) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin settle tx", err)
	}
	defer tx.Rollback(ctx)

	flipped, err := e.bets.MarkStatus(ctx, tx, o.Bet.ID, domain.BetPending, domain.BetWin)
	if err != nil {
		return err
	}
	if !flipped {
		report.Skipped++
		return nil
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"betId":    o.Bet.ID.String(),
		"bookSlug": book.Slug,
		"value":    o.Bet.Details,
	})
	_, cmdErr := e.ledger.ExecuteCreditWin(ctx, tx, domain.CreditWinParams{
		UserID:   o.Bet.UserID,
		Amount:   o.Payout,
		Game:     gt.Slug,
		Details:  o.Bet.Details,
		Ref:      fmt.Sprintf("settle-win-%s", o.Bet.ID),
		Metadata: meta,
	})
	if cmdErr != nil {
		return cmdErr
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewBetSettledEvent(o.Bet.ID, o.Bet.UserID, domain.BetWin, o.Payout)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit settle tx", err)
	}

	report.Winners++
	report.TotalPayout += o.Payout
	return nil
}

func (e *Engine) settleLose(ctx context.Context, bet domain.Bet, report *Report) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin settle tx", err)
	}
	defer tx.Rollback(ctx)

	flipped, err := e.bets.MarkStatus(ctx, tx, bet.ID, domain.BetPending, domain.BetLose)
	if err != nil {
		return err
	}
	if !flipped {
		report.Skipped++
		return nil
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewBetSettledEvent(bet.ID, bet.UserID, domain.BetLose, 0)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit settle tx", err)
	}

	report.Losers++
	return nil
}
