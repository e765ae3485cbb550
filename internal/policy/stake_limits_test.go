package policy

import (
	"testing"

	"github.com/matka/platform/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateStake(t *testing.T) {
	policy := DefaultStakePolicy()
	gt := &domain.GameType{Slug: domain.GameJodiDigit, Kind: domain.KindJodi, MultiplierX100: 9500}

	t.Run("amount in window allowed", func(t *testing.T) {
		eval := EvaluateStake(policy, gt, 10_000)
		assert.True(t, eval.Allowed)
	})

	t.Run("below min rejected", func(t *testing.T) {
		eval := EvaluateStake(policy, gt, 500)
		assert.False(t, eval.Allowed)
		assert.Equal(t, "min_stake", eval.BreachedLimit)
		assert.Equal(t, int64(1_000), eval.LimitValue)
	})

	t.Run("above max rejected", func(t *testing.T) {
		eval := EvaluateStake(policy, gt, 20_000_000)
		assert.False(t, eval.Allowed)
		assert.Equal(t, "max_stake", eval.BreachedLimit)
	})

	t.Run("boundaries inclusive", func(t *testing.T) {
		assert.True(t, EvaluateStake(policy, gt, policy.MinStake).Allowed)
		assert.True(t, EvaluateStake(policy, gt, policy.MaxStake).Allowed)
	})

	t.Run("game type bound tighter than policy", func(t *testing.T) {
		capped := &domain.GameType{Slug: domain.GameTriplePanna, Kind: domain.KindPanna,
			MinStake: 2_000, MaxStake: 100_000}

		eval := EvaluateStake(policy, capped, 1_500)
		assert.False(t, eval.Allowed)
		assert.Equal(t, "min_stake", eval.BreachedLimit)
		assert.Equal(t, int64(2_000), eval.LimitValue)

		eval = EvaluateStake(policy, capped, 200_000)
		assert.False(t, eval.Allowed)
		assert.Equal(t, "max_stake", eval.BreachedLimit)
		assert.Equal(t, int64(100_000), eval.LimitValue)
	})
}
