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

type gameTypeRepo struct{}

// NewGameTypeRepository returns a pgx-backed GameTypeRepository.
func NewGameTypeRepository() GameTypeRepository {
	return &gameTypeRepo{}
}

const gameTypeColumns = `id, slug, name, kind, multiplier_x100, min_stake, max_stake`

func (r *gameTypeRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.GameType, error) {
	row := db.QueryRow(ctx, `
		SELECT `+gameTypeColumns+`
		FROM game_types WHERE id = $1`, id)
	return scanGameType(row)
}

func (r *gameTypeRepo) FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.GameType, error) {
	row := db.QueryRow(ctx, `
		SELECT `+gameTypeColumns+`
		FROM game_types WHERE slug = $1`, slug)
	return scanGameType(row)
}

func (r *gameTypeRepo) List(ctx context.Context, db DBTX) ([]domain.GameType, error) {
	rows, err := db.Query(ctx, `
		SELECT `+gameTypeColumns+`
		FROM game_types
		ORDER BY multiplier_x100 ASC, slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("query game types: %w", err)
	}
	defer rows.Close()

	var types []domain.GameType
	for rows.Next() {
		var g domain.GameType
		var minNum, maxNum pgtype.Numeric
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.Kind, &g.MultiplierX100, &minNum, &maxNum); err != nil {
			return nil, fmt.Errorf("scan game type row: %w", err)
		}
		if g.MinStake, err = infra.NumericToInt64(minNum); err != nil {
			return nil, fmt.Errorf("convert min_stake: %w", err)
		}
		if g.MaxStake, err = infra.NumericToInt64(maxNum); err != nil {
			return nil, fmt.Errorf("convert max_stake: %w", err)
		}
		types = append(types, g)
	}
	return types, rows.Err()
}

func scanGameType(row pgx.Row) (*domain.GameType, error) {
	var g domain.GameType
	var minNum, maxNum pgtype.Numeric
	err := row.Scan(&g.ID, &g.Slug, &g.Name, &g.Kind, &g.MultiplierX100, &minNum, &maxNum)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan game type: %w", err)
	}

	if g.MinStake, err = infra.NumericToInt64(minNum); err != nil {
		return nil, fmt.Errorf("convert min_stake: %w", err)
	}
	if g.MaxStake, err = infra.NumericToInt64(maxNum); err != nil {
		return nil, fmt.Errorf("convert max_stake: %w", err)
	}
	return &g, nil
}
