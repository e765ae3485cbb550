package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/infra"
)

type betRepo struct{}

// NewBetRepository returns a pgx-backed BetRepository.
func NewBetRepository() BetRepository {
	return &betRepo{}
}

const betColumns = `id, user_id, book_id, game_type_id, amount, details, status, transaction_id, created_at`

func (r *betRepo) Insert(ctx context.Context, db DBTX, bet *domain.Bet) error {
	_, err := db.Exec(ctx, `
		INSERT INTO bets (id, user_id, book_id, game_type_id, amount, details, status, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		bet.ID,
		bet.UserID,
		bet.BookID,
		bet.GameTypeID,
		infra.Int64ToNumeric(bet.Amount),
		bet.Details,
		string(bet.Status),
		bet.TransactionID,
		bet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

func (r *betRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Bet, error) {
	row := db.QueryRow(ctx, `
		SELECT `+betColumns+`
		FROM bets WHERE id = $1`, id)
	return scanBet(row)
}

func (r *betRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Bet, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+betColumns+`
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

func (r *betRepo) List(ctx context.Context, db DBTX, filter domain.BetFilter) ([]domain.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.BookID != nil {
		query += fmt.Sprintf(" AND book_id = $%d", argIdx)
		args = append(args, *filter.BookID)
		argIdx++
	}
	if filter.GameTypeID != nil {
		query += fmt.Sprintf(" AND game_type_id = $%d", argIdx)
		args = append(args, *filter.GameTypeID)
		argIdx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.Before != nil {
		query += fmt.Sprintf(" AND created_at < $%d", argIdx)
		args = append(args, *filter.Before)
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

func (r *betRepo) ListPendingForSettlement(ctx context.Context, db DBTX, bookID, gameTypeID uuid.UUID, before time.Time) ([]domain.Bet, error) {
	rows, err := db.Query(ctx, `
		SELECT `+betColumns+`
		FROM bets
		WHERE book_id = $1 AND game_type_id = $2 AND status = 'pending'
		  AND created_at < $3
		ORDER BY created_at ASC, id ASC`, bookID, gameTypeID, before)
	if err != nil {
		return nil, fmt.Errorf("query pending bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

// MarkStatus is the settlement write barrier: the WHERE clause on the old
// status makes a concurrent or repeated settlement see zero rows and skip.
func (r *betRepo) MarkStatus(ctx context.Context, db DBTX, id uuid.UUID, from, to domain.BetStatus) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE bets SET status = $3
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("mark bet status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanBet(row pgx.Row) (*domain.Bet, error) {
	var b domain.Bet
	var amountNum pgtype.Numeric
	err := row.Scan(&b.ID, &b.UserID, &b.BookID, &b.GameTypeID,
		&amountNum, &b.Details, &b.Status, &b.TransactionID, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan bet: %w", err)
	}

	b.Amount, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return &b, nil
}

func collectBets(rows pgx.Rows) ([]domain.Bet, error) {
	var bets []domain.Bet
	for rows.Next() {
		var b domain.Bet
		var amountNum pgtype.Numeric
		err := rows.Scan(&b.ID, &b.UserID, &b.BookID, &b.GameTypeID,
			&amountNum, &b.Details, &b.Status, &b.TransactionID, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan bet row: %w", err)
		}
		b.Amount, err = infra.NumericToInt64(amountNum)
		if err != nil {
			return nil, fmt.Errorf("convert amount: %w", err)
		}
		bets = append(bets, b)
	}
	return bets, rows.Err()
}
