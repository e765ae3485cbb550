package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/infra"
)

type transactionRepo struct{}

// NewTransactionRepository returns a pgx-backed TransactionRepository.
func NewTransactionRepository() TransactionRepository {
	return &transactionRepo{}
}

const txColumns = `id, user_id, type, amount, status, game, details, ref,
	       balance_after, deposited_after, winnings_after, metadata, created_at`

func (r *transactionRepo) FindExisting(ctx context.Context, db DBTX, userID uuid.UUID, ref string) (*domain.Transaction, error) {
	row := db.QueryRow(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE user_id = $1 AND ref = $2`, userID, ref)
	return scanTransaction(row)
}

func (r *transactionRepo) Insert(ctx context.Context, db DBTX, params domain.PostLedgerEntryParams, wallet *domain.Wallet) (*domain.Transaction, error) {
	meta := params.Metadata
	if meta == nil {
		meta = json.RawMessage(`{}`)
	}

	row := db.QueryRow(ctx, `
		INSERT INTO transactions
		  (user_id, type, amount, status, game, details, ref,
		   balance_after, deposited_after, winnings_after, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+txColumns,
		params.UserID,
		string(params.Type),
		infra.Int64ToNumeric(params.Amount),
		string(params.Status),
		params.Game,
		params.Details,
		params.Ref,
		infra.Int64ToNumeric(wallet.Total()),
		infra.Int64ToNumeric(wallet.DepositedAmount),
		infra.Int64ToNumeric(wallet.WinningsAmount),
		meta,
	)
	return scanTransaction(row)
}

func (r *transactionRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transaction, error) {
	row := db.QueryRow(ctx, `
		SELECT `+txColumns+`
		FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// MarkStatus flips a transaction's status only when it still holds the
// expected one, so two operators completing the same withdrawal cannot both
// win the update.
func (r *transactionRepo) MarkStatus(ctx context.Context, db DBTX, id uuid.UUID, from, to domain.TransactionStatus) (bool, error) {
	tag, err := db.Exec(ctx,
		`UPDATE transactions SET status = $3 WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("mark transaction status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = db.Query(ctx, `
			SELECT `+txColumns+`
			FROM transactions
			WHERE user_id = $1
			  AND (created_at, id) <= ((SELECT created_at, id FROM transactions WHERE id = $2))
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, userID, *cursor, limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+txColumns+`
			FROM transactions
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, userID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *transactionRepo) ListRecent(ctx context.Context, db DBTX, txType *domain.TransactionType, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows pgx.Rows
	var err error
	if txType != nil {
		rows, err = db.Query(ctx, `
			SELECT `+txColumns+`
			FROM transactions
			WHERE type = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, string(*txType), limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+txColumns+`
			FROM transactions
			ORDER BY created_at DESC, id DESC
			LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query recent transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amountNum, balNum, depNum, winNum pgtype.Numeric
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Type,
		&amountNum, &tx.Status, &tx.Game, &tx.Details, &tx.Ref,
		&balNum, &depNum, &winNum, &tx.Metadata, &tx.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if err := convertTransactionAmounts(&tx, amountNum, balNum, depNum, winNum); err != nil {
		return nil, err
	}
	return &tx, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var amountNum, balNum, depNum, winNum pgtype.Numeric
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type,
			&amountNum, &tx.Status, &tx.Game, &tx.Details, &tx.Ref,
			&balNum, &depNum, &winNum, &tx.Metadata, &tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if err := convertTransactionAmounts(&tx, amountNum, balNum, depNum, winNum); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func convertTransactionAmounts(tx *domain.Transaction, amount, bal, dep, win pgtype.Numeric) error {
	var err error
	tx.Amount, err = infra.NumericToInt64(amount)
	if err != nil {
		return fmt.Errorf("convert amount: %w", err)
	}
	tx.BalanceAfter, err = infra.NumericToInt64(bal)
	if err != nil {
		return fmt.Errorf("convert balance_after: %w", err)
	}
	tx.DepositedAfter, err = infra.NumericToInt64(dep)
	if err != nil {
		return fmt.Errorf("convert deposited_after: %w", err)
	}
	tx.WinningsAfter, err = infra.NumericToInt64(win)
	if err != nil {
		return fmt.Errorf("convert winnings_after: %w", err)
	}
	return nil
}
