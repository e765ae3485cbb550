package domain

import (
	"time"

	"github.com/google/uuid"
)

// Result represents a results row: one declared draw outcome for a book,
// date and time slot. Rows are append-only; the newest row per
// (book, date, time) is authoritative and history is preserved.
type Result struct {
	ID         uuid.UUID `json:"id"`
	BookID     uuid.UUID `json:"book_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Time       string    `json:"time"` // slot label, e.g. "open", "close", "14:00"
	OpenDigit  *string   `json:"open_digit,omitempty"`
	CloseDigit *string   `json:"close_digit,omitempty"`
	Jodi       *string   `json:"jodi,omitempty"`
	OpenPanna  *string   `json:"open_panna,omitempty"`
	ClosePanna *string   `json:"close_panna,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ResultDigits is the operator input for a result declaration. Any field may
// be omitted; only supplied digits settle their game types.
type ResultDigits struct {
	OpenDigit  *string `json:"open_digit,omitempty"`
	CloseDigit *string `json:"close_digit,omitempty"`
	Jodi       *string `json:"jodi,omitempty"`
	OpenPanna  *string `json:"open_panna,omitempty"`
	ClosePanna *string `json:"close_panna,omitempty"`
}

// Validate checks every supplied digit against its value-space.
func (d ResultDigits) Validate() error {
	checks := []struct {
		kind  ValueKind
		value *string
		field string
	}{
		{KindDigit, d.OpenDigit, "open_digit"},
		{KindDigit, d.CloseDigit, "close_digit"},
		{KindJodi, d.Jodi, "jodi"},
		{KindPanna, d.OpenPanna, "open_panna"},
		{KindPanna, d.ClosePanna, "close_panna"},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if err := ValidateKindValue(c.kind, *c.value); err != nil {
			return ErrInvalidValue(c.field + ": " + err.Error())
		}
	}
	return nil
}

// Empty reports whether no digit was supplied at all.
func (d ResultDigits) Empty() bool {
	return d.OpenDigit == nil && d.CloseDigit == nil && d.Jodi == nil &&
		d.OpenPanna == nil && d.ClosePanna == nil
}
