package infra

import (
	"math"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundtrip(t *testing.T) {
	// Paise amounts as they occur in practice: stakes, payouts, refunds.
	values := []int64{
		0,
		1000,            // minimum stake
		950_000,         // 10000 paise at 9.5x
		-475_000,        // reversal of a 5000-paise win at 9.5x
		10_000_000,      // default max stake
		999_999_999_999_999, // numeric(15,0) ceiling
		math.MaxInt64,
		math.MinInt64,
	}
	for _, v := range values {
		n := Int64ToNumeric(v)
		got, err := NumericToInt64(n)
		require.NoError(t, err, "value: %d", v)
		assert.Equal(t, v, got, "value: %d", v)
	}
}

func TestNumericToInt64_NullReturnsError(t *testing.T) {
	_, err := NumericToInt64(pgtype.Numeric{Valid: false})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "NULL")
}

func TestNumericToInt64_Exponents(t *testing.T) {
	t.Run("positive exponent scales up", func(t *testing.T) {
		// 95 * 10^3 = a 950x multiplier payout base
		n := pgtype.Numeric{Int: big.NewInt(95), Exp: 3, Valid: true}
		v, err := NumericToInt64(n)
		require.NoError(t, err)
		assert.Equal(t, int64(95000), v)
	})

	t.Run("negative exponent truncates", func(t *testing.T) {
		n := pgtype.Numeric{Int: big.NewInt(95099), Exp: -2, Valid: true}
		v, err := NumericToInt64(n)
		require.NoError(t, err)
		assert.Equal(t, int64(950), v)
	})
}

func TestNumericToInt64_Overflow(t *testing.T) {
	over := new(big.Int).SetInt64(math.MaxInt64)
	over.Add(over, big.NewInt(1))
	_, err := NumericToInt64(pgtype.Numeric{Int: over, Exp: 0, Valid: true})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "overflows")
}

func TestNumericToInt64_ExponentOverflow(t *testing.T) {
	// A plausible magnitude with an exponent pushing it past int64.
	n := pgtype.Numeric{Int: big.NewInt(1), Exp: 19, Valid: true}
	_, err := NumericToInt64(n)
	assert.Error(t, err)
}
