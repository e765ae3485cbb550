package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/infra"
)

type walletRepo struct{}

// NewWalletRepository returns a pgx-backed WalletRepository.
func NewWalletRepository() WalletRepository {
	return &walletRepo{}
}

func (r *walletRepo) FindByProfileID(ctx context.Context, db DBTX, profileID uuid.UUID) (*domain.Wallet, error) {
	row := db.QueryRow(ctx, `
		SELECT profile_id, deposited_amount, winnings_amount, updated_at
		FROM wallets WHERE profile_id = $1`, profileID)
	return scanWallet(row)
}

func (r *walletRepo) Create(ctx context.Context, db DBTX, profileID uuid.UUID) error {
	_, err := db.Exec(ctx, `
		INSERT INTO wallets (profile_id, deposited_amount, winnings_amount)
		VALUES ($1, 0, 0)`, profileID)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// ApplyDelta updates the sub-balances with server-side arithmetic and dynamic
// SET clauses, touching only the columns that change.
func (r *walletRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, profileID uuid.UUID, delta domain.WalletUpdate) (*domain.Wallet, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if delta.HasDepositedDelta() {
		setClauses = append(setClauses, fmt.Sprintf("deposited_amount = deposited_amount + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.Deposited))
		argIdx++
	}
	if delta.HasWinningsDelta() {
		setClauses = append(setClauses, fmt.Sprintf("winnings_amount = winnings_amount + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.Winnings))
		argIdx++
	}

	args = append(args, profileID)
	query := fmt.Sprintf(`
		UPDATE wallets SET %s
		WHERE profile_id = $%d
		RETURNING profile_id, deposited_amount, winnings_amount, updated_at`,
		strings.Join(setClauses, ", "), argIdx)

	row := tx.QueryRow(ctx, query, args...)
	return scanWallet(row)
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	var depNum, winNum pgtype.Numeric
	err := row.Scan(&w.ProfileID, &depNum, &winNum, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}

	var convErr error
	w.DepositedAmount, convErr = infra.NumericToInt64(depNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert deposited_amount: %w", convErr)
	}
	w.WinningsAmount, convErr = infra.NumericToInt64(winNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert winnings_amount: %w", convErr)
	}
	return &w, nil
}
