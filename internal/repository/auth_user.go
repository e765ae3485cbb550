package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
)

type authUserRepo struct{}

// NewAuthUserRepository returns a pgx-backed AuthUserRepository.
func NewAuthUserRepository() AuthUserRepository {
	return &authUserRepo{}
}

func (r *authUserRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AuthUser, error) {
	row := db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM auth_users WHERE lower(email) = lower($1)`, email)

	var u domain.AuthUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan auth user: %w", err)
	}
	return &u, nil
}

func (r *authUserRepo) Create(ctx context.Context, db DBTX, user *domain.AuthUser) error {
	_, err := db.Exec(ctx, `
		INSERT INTO auth_users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert auth user: %w", err)
	}
	return nil
}
