package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValueKind is the shape of a game type's value-space.
type ValueKind string

const (
	KindDigit ValueKind = "digit" // single digit 0-9
	KindJodi  ValueKind = "jodi"  // two digits 00-99
	KindPanna ValueKind = "panna" // three digits 000-999
)

// Well-known game type slugs.
const (
	GameSingleDigit = "single-digit"
	GameJodiDigit   = "jodi-digit"
	GameSinglePanna = "single-panna"
	GameDoublePanna = "double-panna"
	GameTriplePanna = "triple-panna"
)

// GameType represents a game_types row. MultiplierX100 is the payout
// multiplier in hundredths (9.5x -> 950) so stake x multiplier stays integral.
type GameType struct {
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Kind           ValueKind `json:"kind"`
	MultiplierX100 int64     `json:"multiplier_x100"`
	MinStake       int64     `json:"min_stake"`
	MaxStake       int64     `json:"max_stake"`
}

// ValidateValue checks that a chosen value lies in the game type's
// value-space. Panna game types additionally require the panna class to
// match (single/double/triple).
func (g *GameType) ValidateValue(value string) error {
	if err := ValidateKindValue(g.Kind, value); err != nil {
		return err
	}
	if g.Kind == KindPanna {
		want := pannaSlugClass(g.Slug)
		if want != "" && PannaClass(value) != want {
			return fmt.Errorf("%s is not a %s value", value, g.Slug)
		}
	}
	return nil
}

// Payout computes the win credit for a stake at the given multiplier.
func Payout(stake, multiplierX100 int64) int64 {
	return stake * multiplierX100 / 100
}

// ValidateKindValue checks a raw value against a value kind.
func ValidateKindValue(kind ValueKind, value string) error {
	var width int
	switch kind {
	case KindDigit:
		width = 1
	case KindJodi:
		width = 2
	case KindPanna:
		width = 3
	default:
		return fmt.Errorf("unknown value kind %q", kind)
	}

	if len(value) != width || !isDigits(value) {
		return fmt.Errorf("value %q is not a valid %s (%d digits required)", value, kind, width)
	}
	return nil
}

// PannaClass classifies a three-digit panna: all digits distinct is single,
// exactly two equal is double, all three equal is triple.
func PannaClass(panna string) string {
	if len(panna) != 3 || !isDigits(panna) {
		return ""
	}
	switch {
	case panna[0] == panna[1] && panna[1] == panna[2]:
		return "triple"
	case panna[0] == panna[1] || panna[1] == panna[2] || panna[0] == panna[2]:
		return "double"
	default:
		return "single"
	}
}

func pannaSlugClass(slug string) string {
	switch {
	case strings.HasPrefix(slug, "single-"):
		return "single"
	case strings.HasPrefix(slug, "double-"):
		return "double"
	case strings.HasPrefix(slug, "triple-"):
		return "triple"
	}
	return ""
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
