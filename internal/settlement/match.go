package settlement

import (
	"github.com/matka/platform/internal/domain"
)

// WinningValues derives the set of winning values a declared result implies
// for one game type. A digit game type wins on either the open or the close
// digit; jodi wins on the jodi pair; a panna game type wins on whichever
// declared panna falls in its class (a declared 112 settles double-panna, not
// single-panna).
func WinningValues(gt *domain.GameType, d domain.ResultDigits) []string {
	var values []string
	add := func(v *string) {
		if v == nil {
			return
		}
		if gt.ValidateValue(*v) == nil {
			values = append(values, *v)
		}
	}

	switch gt.Kind {
	case domain.KindDigit:
		add(d.OpenDigit)
		add(d.CloseDigit)
	case domain.KindJodi:
		add(d.Jodi)
	case domain.KindPanna:
		add(d.OpenPanna)
		add(d.ClosePanna)
	}
	return values
}

// KindDeclared reports whether the result carries any digit for a value kind.
// A declared panna resolves every panna class: the classes it does not match
// have no winner, so their pending bets still settle as losses.
func KindDeclared(kind domain.ValueKind, d domain.ResultDigits) bool {
	switch kind {
	case domain.KindDigit:
		return d.OpenDigit != nil || d.CloseDigit != nil
	case domain.KindJodi:
		return d.Jodi != nil
	case domain.KindPanna:
		return d.OpenPanna != nil || d.ClosePanna != nil
	}
	return false
}

// Matches reports whether a bet's chosen value is among the winning values.
func Matches(details string, winning []string) bool {
	for _, v := range winning {
		if details == v {
			return true
		}
	}
	return false
}

// Outcome is the planned settlement of one bet.
type Outcome struct {
	Bet    domain.Bet
	Won    bool
	Payout int64
}

// PlanOutcomes computes the settlement plan for a batch of pending bets
// against the winning values. Non-matching bets appear as losses only when
// markLose is set; otherwise they are left out (stay pending).
func PlanOutcomes(bets []domain.Bet, winning []string, multiplierX100 int64, markLose bool) []Outcome {
	var outcomes []Outcome
	for _, bet := range bets {
		if Matches(bet.Details, winning) {
			outcomes = append(outcomes, Outcome{
				Bet:    bet,
				Won:    true,
				Payout: domain.Payout(bet.Amount, multiplierX100),
			})
		} else if markLose {
			outcomes = append(outcomes, Outcome{Bet: bet})
		}
	}
	return outcomes
}
