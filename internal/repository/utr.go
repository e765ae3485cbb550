package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/infra"
)

type utrRepo struct{}

// NewUTRRepository returns a pgx-backed UTRRepository.
func NewUTRRepository() UTRRepository {
	return &utrRepo{}
}

const utrColumns = `id, user_id, amount, utr_no, status, created_at, approved_at`

func (r *utrRepo) Insert(ctx context.Context, db DBTX, sub *domain.UTRSubmission) error {
	_, err := db.Exec(ctx, `
		INSERT INTO utr (id, user_id, amount, utr_no, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sub.ID, sub.UserID, infra.Int64ToNumeric(sub.Amount), sub.UTRNo, sub.Status, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert utr submission: %w", err)
	}
	return nil
}

func (r *utrRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.UTRSubmission, error) {
	row := db.QueryRow(ctx, `
		SELECT `+utrColumns+`
		FROM utr WHERE id = $1`, id)
	return scanUTR(row)
}

func (r *utrRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.UTRSubmission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+utrColumns+`
		FROM utr
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query utr submissions: %w", err)
	}
	defer rows.Close()

	return collectUTRs(rows)
}

func (r *utrRepo) ListPending(ctx context.Context, db DBTX, limit int) ([]domain.UTRSubmission, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
		SELECT `+utrColumns+`
		FROM utr
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending utr submissions: %w", err)
	}
	defer rows.Close()

	return collectUTRs(rows)
}

// MarkStatus transitions pending -> approved/rejected. The conditional WHERE
// makes a repeated approval see zero rows, so a submission credits at most
// once. approved_at is stamped on approval only; a rejection leaves it NULL.
func (r *utrRepo) MarkStatus(ctx context.Context, db DBTX, id uuid.UUID, to string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE utr SET status = $2,
		       approved_at = CASE WHEN $2 = 'approved' THEN now() ELSE approved_at END
		WHERE id = $1 AND status = 'pending'`,
		id, to)
	if err != nil {
		return false, fmt.Errorf("mark utr status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanUTR(row pgx.Row) (*domain.UTRSubmission, error) {
	var s domain.UTRSubmission
	var amountNum pgtype.Numeric
	err := row.Scan(&s.ID, &s.UserID, &amountNum, &s.UTRNo, &s.Status, &s.CreatedAt, &s.ApprovedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan utr submission: %w", err)
	}

	s.Amount, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return &s, nil
}

func collectUTRs(rows pgx.Rows) ([]domain.UTRSubmission, error) {
	var subs []domain.UTRSubmission
	for rows.Next() {
		var s domain.UTRSubmission
		var amountNum pgtype.Numeric
		err := rows.Scan(&s.ID, &s.UserID, &amountNum, &s.UTRNo, &s.Status, &s.CreatedAt, &s.ApprovedAt)
		if err != nil {
			return nil, fmt.Errorf("scan utr row: %w", err)
		}
		s.Amount, err = infra.NumericToInt64(amountNum)
		if err != nil {
			return nil, fmt.Errorf("convert amount: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
