package policy

import "github.com/matka/platform/internal/domain"

// StakePolicy defines the stake window for bet placement. Global floor and
// ceiling come from config; a game type may carry tighter bounds of its own.
type StakePolicy struct {
	MinStake int64 `json:"min_stake"` // paise
	MaxStake int64 `json:"max_stake"` // paise
}

// DefaultStakePolicy returns the default stake window (₹10 min, ₹100k max).
func DefaultStakePolicy() StakePolicy {
	return StakePolicy{
		MinStake: 1_000,      // ₹10
		MaxStake: 10_000_000, // ₹100,000
	}
}

// StakeEvaluation holds the result of a stake check.
type StakeEvaluation struct {
	Allowed       bool   `json:"allowed"`
	BreachedLimit string `json:"breached_limit,omitempty"`
	LimitValue    int64  `json:"limit_value,omitempty"`
	RequestedAmt  int64  `json:"requested_amount,omitempty"`
}

// EvaluateStake checks a bet amount against the policy window and the game
// type's own bounds. The tighter bound wins.
func EvaluateStake(policy StakePolicy, gt *domain.GameType, amount int64) StakeEvaluation {
	minStake := policy.MinStake
	if gt.MinStake > minStake {
		minStake = gt.MinStake
	}
	maxStake := policy.MaxStake
	if gt.MaxStake > 0 && gt.MaxStake < maxStake {
		maxStake = gt.MaxStake
	}

	if minStake > 0 && amount < minStake {
		return StakeEvaluation{
			Allowed:       false,
			BreachedLimit: "min_stake",
			LimitValue:    minStake,
			RequestedAmt:  amount,
		}
	}
	if maxStake > 0 && amount > maxStake {
		return StakeEvaluation{
			Allowed:       false,
			BreachedLimit: "max_stake",
			LimitValue:    maxStake,
			RequestedAmt:  amount,
		}
	}
	return StakeEvaluation{Allowed: true}
}
