package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/matka/platform/internal/domain"
)

// ResultBoard is the cached public result board for one date: the latest
// declared outcome per book and slot.
type ResultBoard struct {
	Date      string          `json:"date"`
	Results   []domain.Result `json:"results"`
	UpdatedAt string          `json:"updated_at"`
}

const resultBoardTTL = 30 * time.Second

// UpdateResultBoard caches the board for a date. Declarations invalidate it,
// so the short TTL only bounds staleness across instances.
func UpdateResultBoard(ctx context.Context, store Store, board ResultBoard) error {
	board.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return SetJSON(ctx, store, resultBoardKey(board.Date), board, resultBoardTTL)
}

// GetResultBoard retrieves the cached board for a date.
func GetResultBoard(ctx context.Context, store Store, date string) (*ResultBoard, error) {
	var board ResultBoard
	if err := GetJSON(ctx, store, resultBoardKey(date), &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// InvalidateResultBoard removes a date's cached board.
func InvalidateResultBoard(ctx context.Context, store Store, date string) error {
	return store.Delete(ctx, resultBoardKey(date))
}

func resultBoardKey(date string) string {
	return fmt.Sprintf("projection:results:%s", date)
}

// WalletProjection is a cached wallet snapshot for one profile.
type WalletProjection struct {
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	Deposited int64  `json:"deposited"`
	Winnings  int64  `json:"winnings"`
	UpdatedAt string `json:"updated_at"`
}

const walletTTL = 5 * time.Minute

// UpdateWallet caches a profile's wallet projection.
func UpdateWallet(ctx context.Context, store Store, p WalletProjection) error {
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return SetJSON(ctx, store, walletKey(p.UserID), p, walletTTL)
}

// GetWallet retrieves a cached wallet projection.
func GetWallet(ctx context.Context, store Store, userID string) (*WalletProjection, error) {
	var p WalletProjection
	if err := GetJSON(ctx, store, walletKey(userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// InvalidateWallet removes a profile's cached wallet.
func InvalidateWallet(ctx context.Context, store Store, userID string) error {
	return store.Delete(ctx, walletKey(userID))
}

func walletKey(userID string) string {
	return fmt.Sprintf("projection:wallet:%s", userID)
}
