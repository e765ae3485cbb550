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

type profileRepo struct{}

// NewProfileRepository returns a pgx-backed ProfileRepository.
func NewProfileRepository() ProfileRepository {
	return &profileRepo{}
}

const profileColumns = `id, auth_user_id, user_code, name, phone, role, status, wallet_balance, last_active, created_at`

func (r *profileRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Profile, error) {
	row := db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *profileRepo) FindByAuthUserID(ctx context.Context, db DBTX, authUserID uuid.UUID) (*domain.Profile, error) {
	row := db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE auth_user_id = $1`, authUserID)
	return scanProfile(row)
}

func (r *profileRepo) FindByUserCode(ctx context.Context, db DBTX, userCode string) (*domain.Profile, error) {
	row := db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE user_code = $1`, userCode)
	return scanProfile(row)
}

func (r *profileRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Profile, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE id = $1 FOR UPDATE`, id)
	return scanProfile(row)
}

func (r *profileRepo) Create(ctx context.Context, db DBTX, profile *domain.Profile) error {
	_, err := db.Exec(ctx, `
		INSERT INTO profiles (id, auth_user_id, user_code, name, phone, role, status, wallet_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		profile.ID,
		profile.AuthUserID,
		profile.UserCode,
		profile.Name,
		profile.Phone,
		profile.Role,
		profile.Status,
		infra.Int64ToNumeric(profile.WalletBalance),
		profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// AddToBalance uses server-side arithmetic so concurrent writers never clobber
// each other's totals.
func (r *profileRepo) AddToBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) (*domain.Profile, error) {
	row := tx.QueryRow(ctx, `
		UPDATE profiles SET wallet_balance = wallet_balance + $2
		WHERE id = $1
		RETURNING `+profileColumns,
		id, infra.Int64ToNumeric(delta))
	return scanProfile(row)
}

func (r *profileRepo) TouchLastActive(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, `UPDATE profiles SET last_active = now() WHERE id = $1`, id)
	return err
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var balNum pgtype.Numeric
	err := row.Scan(&p.ID, &p.AuthUserID, &p.UserCode, &p.Name, &p.Phone,
		&p.Role, &p.Status, &balNum, &p.LastActive, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	p.WalletBalance, err = infra.NumericToInt64(balNum)
	if err != nil {
		return nil, fmt.Errorf("convert wallet_balance: %w", err)
	}
	return &p, nil
}
