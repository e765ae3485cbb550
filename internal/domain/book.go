package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookStatus is the derived open/closed/upcoming state of a book.
type BookStatus string

const (
	BookOpen     BookStatus = "open"
	BookClosed   BookStatus = "closed"
	BookUpcoming BookStatus = "upcoming"
)

// MarketTimezone is the fixed timezone all book open/close times are local to.
const MarketTimezone = "Asia/Kolkata"

// Book represents a books row: a named betting market with its own
// open/close window per day.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Label     string    `json:"label"`
	IsActive  bool      `json:"is_active"`
	OpenTime  string    `json:"open_time"`  // HH:MM, market-local
	CloseTime string    `json:"close_time"` // HH:MM, market-local
	CreatedAt time.Time `json:"created_at"`
}

// Status derives the book state from the given instant. An inactive book is
// always closed; otherwise the book is upcoming before OpenTime, open inside
// the [OpenTime, CloseTime] window and closed after it.
func (b *Book) Status(now time.Time) BookStatus {
	if !b.IsActive {
		return BookClosed
	}

	loc, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		return BookClosed
	}
	local := now.In(loc)

	open, err := atTimeOfDay(local, b.OpenTime)
	if err != nil {
		return BookClosed
	}
	close, err := atTimeOfDay(local, b.CloseTime)
	if err != nil {
		return BookClosed
	}

	switch {
	case local.Before(open):
		return BookUpcoming
	case !local.After(close):
		return BookOpen
	default:
		return BookClosed
	}
}

// AcceptsBets reports whether a bet may be placed on the book right now.
func (b *Book) AcceptsBets(now time.Time) bool {
	return b.Status(now) == BookOpen
}

// atTimeOfDay anchors an HH:MM (or HH:MM:SS) string onto ref's calendar day.
func atTimeOfDay(ref time.Time, hhmm string) (time.Time, error) {
	layout := "15:04"
	if len(hhmm) == 8 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), t.Second(), 0, ref.Location()), nil
}
