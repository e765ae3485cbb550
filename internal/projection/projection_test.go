package projection

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SetAndGet(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	err := store.Set(ctx, "k1", []byte("hello"), 0)
	require.NoError(t, err)

	val, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), val)
}

func TestInMemoryStore_KeyNotFound(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("data"), 0)
	_ = store.Delete(ctx, "k1")

	_, err := store.Get(ctx, "k1")
	assert.Error(t, err)
}

func TestInMemoryStore_TTLExpiry(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("data"), 1*time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "k1")
	assert.Error(t, err)
}

func TestResultBoard_RoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	jodi := "57"

	board := ResultBoard{
		Date: "2025-03-14",
		Results: []domain.Result{{
			ID:     uuid.New(),
			BookID: uuid.New(),
			Date:   "2025-03-14",
			Time:   "close",
			Jodi:   &jodi,
		}},
	}

	require.NoError(t, UpdateResultBoard(ctx, store, board))

	got, err := GetResultBoard(ctx, store, "2025-03-14")
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "57", *got.Results[0].Jodi)
	assert.NotEmpty(t, got.UpdatedAt)
}

func TestResultBoard_Invalidate(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = UpdateResultBoard(ctx, store, ResultBoard{Date: "2025-03-14"})
	_ = InvalidateResultBoard(ctx, store, "2025-03-14")

	_, err := GetResultBoard(ctx, store, "2025-03-14")
	assert.Error(t, err)
}

func TestWalletProjection_RoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	p := WalletProjection{
		UserID:    "abc-123",
		Balance:   150000,
		Deposited: 100000,
		Winnings:  50000,
	}

	require.NoError(t, UpdateWallet(ctx, store, p))

	got, err := GetWallet(ctx, store, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), got.Balance)
	assert.Equal(t, int64(50000), got.Winnings)
	assert.NotEmpty(t, got.UpdatedAt)
}

func TestWalletProjection_Invalidate(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = UpdateWallet(ctx, store, WalletProjection{UserID: "abc-123", Balance: 100})
	_ = InvalidateWallet(ctx, store, "abc-123")

	_, err := GetWallet(ctx, store, "abc-123")
	assert.Error(t, err)
}
