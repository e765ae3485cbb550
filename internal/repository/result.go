package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
)

type resultRepo struct{}

// NewResultRepository returns a pgx-backed ResultRepository.
func NewResultRepository() ResultRepository {
	return &resultRepo{}
}

// result_date is a DATE column; selects render it back to YYYY-MM-DD.
const resultColumns = `id, book_id, to_char(result_date, 'YYYY-MM-DD'), time_slot,
	       open_digit, close_digit, jodi, open_panna, close_panna, created_at`

func (r *resultRepo) Insert(ctx context.Context, db DBTX, result *domain.Result) error {
	_, err := db.Exec(ctx, `
		INSERT INTO results (id, book_id, result_date, time_slot,
		   open_digit, close_digit, jodi, open_panna, close_panna, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10)`,
		result.ID,
		result.BookID,
		result.Date,
		result.Time,
		result.OpenDigit,
		result.CloseDigit,
		result.Jodi,
		result.OpenPanna,
		result.ClosePanna,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *resultRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Result, error) {
	row := db.QueryRow(ctx, `
		SELECT `+resultColumns+`
		FROM results WHERE id = $1`, id)
	return scanResult(row)
}

// LatestPerBook keeps only the newest declaration per (book, slot) for the
// date, so corrected results shadow the rows they replace.
func (r *resultRepo) LatestPerBook(ctx context.Context, db DBTX, date string) ([]domain.Result, error) {
	rows, err := db.Query(ctx, `
		SELECT DISTINCT ON (book_id, time_slot) `+resultColumns+`
		FROM results
		WHERE result_date = $1::date
		ORDER BY book_id, time_slot, created_at DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("query latest results: %w", err)
	}
	defer rows.Close()

	return collectResults(rows)
}

func (r *resultRepo) ListByBook(ctx context.Context, db DBTX, bookID uuid.UUID, limit int) ([]domain.Result, error) {
	if limit <= 0 || limit > 200 {
		limit = 30
	}
	rows, err := db.Query(ctx, `
		SELECT `+resultColumns+`
		FROM results
		WHERE book_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, bookID, limit)
	if err != nil {
		return nil, fmt.Errorf("query book results: %w", err)
	}
	defer rows.Close()

	return collectResults(rows)
}

func scanResult(row pgx.Row) (*domain.Result, error) {
	var res domain.Result
	err := row.Scan(&res.ID, &res.BookID, &res.Date, &res.Time,
		&res.OpenDigit, &res.CloseDigit, &res.Jodi, &res.OpenPanna, &res.ClosePanna, &res.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}
	return &res, nil
}

func collectResults(rows pgx.Rows) ([]domain.Result, error) {
	var results []domain.Result
	for rows.Next() {
		var res domain.Result
		err := rows.Scan(&res.ID, &res.BookID, &res.Date, &res.Time,
			&res.OpenDigit, &res.CloseDigit, &res.Jodi, &res.OpenPanna, &res.ClosePanna, &res.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
