package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istTime(t *testing.T, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(MarketTimezone)
	require.NoError(t, err)
	return time.Date(2026, 3, 14, hour, min, 0, 0, loc)
}

// --- Book status derivation ---

func TestBookStatus(t *testing.T) {
	book := &Book{Slug: "kalyan", IsActive: true, OpenTime: "10:00", CloseTime: "20:00"}

	t.Run("upcoming before open", func(t *testing.T) {
		assert.Equal(t, BookUpcoming, book.Status(istTime(t, 9, 59)))
	})

	t.Run("open at open time", func(t *testing.T) {
		assert.Equal(t, BookOpen, book.Status(istTime(t, 10, 0)))
	})

	t.Run("open mid window", func(t *testing.T) {
		assert.Equal(t, BookOpen, book.Status(istTime(t, 15, 30)))
		assert.True(t, book.AcceptsBets(istTime(t, 15, 30)))
	})

	t.Run("open at close time", func(t *testing.T) {
		assert.Equal(t, BookOpen, book.Status(istTime(t, 20, 0)))
	})

	t.Run("closed after close", func(t *testing.T) {
		assert.Equal(t, BookClosed, book.Status(istTime(t, 20, 1)))
		assert.False(t, book.AcceptsBets(istTime(t, 20, 1)))
	})

	t.Run("inactive book always closed", func(t *testing.T) {
		inactive := &Book{Slug: "milan", IsActive: false, OpenTime: "10:00", CloseTime: "20:00"}
		assert.Equal(t, BookClosed, inactive.Status(istTime(t, 12, 0)))
	})

	t.Run("seconds-precision time columns", func(t *testing.T) {
		b := &Book{Slug: "sridevi", IsActive: true, OpenTime: "10:00:00", CloseTime: "20:00:00"}
		assert.Equal(t, BookOpen, b.Status(istTime(t, 12, 0)))
	})

	t.Run("status uses market timezone regardless of input zone", func(t *testing.T) {
		// 06:30 UTC == 12:00 IST
		utc := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
		assert.Equal(t, BookOpen, book.Status(utc))
	})
}

// --- Value-space validation ---

func TestValidateKindValue(t *testing.T) {
	cases := []struct {
		name  string
		kind  ValueKind
		value string
		ok    bool
	}{
		{"digit ok", KindDigit, "7", true},
		{"digit zero", KindDigit, "0", true},
		{"digit too wide", KindDigit, "10", false},
		{"digit non-numeric", KindDigit, "x", false},
		{"digit empty", KindDigit, "", false},
		{"jodi ok", KindJodi, "57", true},
		{"jodi leading zero", KindJodi, "07", true},
		{"jodi one digit", KindJodi, "5", false},
		{"jodi three digits", KindJodi, "123", false},
		{"jodi alpha", KindJodi, "5a", false},
		{"panna ok", KindPanna, "123", true},
		{"panna leading zeros", KindPanna, "007", true},
		{"panna too short", KindPanna, "12", false},
		{"panna too long", KindPanna, "1234", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateKindValue(tc.kind, tc.value)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGameTypeValidateValue(t *testing.T) {
	t.Run("jodi accepts two digits", func(t *testing.T) {
		gt := &GameType{Slug: GameJodiDigit, Kind: KindJodi}
		assert.NoError(t, gt.ValidateValue("57"))
		assert.Error(t, gt.ValidateValue("157"))
	})

	t.Run("single panna rejects double panna value", func(t *testing.T) {
		gt := &GameType{Slug: GameSinglePanna, Kind: KindPanna}
		assert.NoError(t, gt.ValidateValue("123"))
		assert.Error(t, gt.ValidateValue("112"))
	})

	t.Run("double panna accepts exactly-two-equal digits", func(t *testing.T) {
		gt := &GameType{Slug: GameDoublePanna, Kind: KindPanna}
		assert.NoError(t, gt.ValidateValue("112"))
		assert.Error(t, gt.ValidateValue("123"))
		assert.Error(t, gt.ValidateValue("111"))
	})

	t.Run("triple panna accepts all-equal digits", func(t *testing.T) {
		gt := &GameType{Slug: GameTriplePanna, Kind: KindPanna}
		assert.NoError(t, gt.ValidateValue("777"))
		assert.Error(t, gt.ValidateValue("778"))
	})
}

func TestPannaClass(t *testing.T) {
	assert.Equal(t, "single", PannaClass("123"))
	assert.Equal(t, "double", PannaClass("112"))
	assert.Equal(t, "double", PannaClass("121"))
	assert.Equal(t, "double", PannaClass("211"))
	assert.Equal(t, "triple", PannaClass("777"))
	assert.Equal(t, "", PannaClass("12"))
	assert.Equal(t, "", PannaClass("12a"))
}

// --- Payout ---

func TestPayout(t *testing.T) {
	t.Run("jodi 95x", func(t *testing.T) {
		assert.Equal(t, int64(950_000), Payout(10_000, 9_500)) // 100 rupees at 95x
	})

	t.Run("single digit 9.5x keeps fraction exact", func(t *testing.T) {
		assert.Equal(t, int64(95_000), Payout(10_000, 950))
	})

	t.Run("zero stake", func(t *testing.T) {
		assert.Equal(t, int64(0), Payout(0, 9_500))
	})
}

// --- Result digits ---

func TestResultDigitsValidate(t *testing.T) {
	s := func(v string) *string { return &v }

	t.Run("full result", func(t *testing.T) {
		d := ResultDigits{
			OpenDigit:  s("5"),
			CloseDigit: s("7"),
			Jodi:       s("57"),
			OpenPanna:  s("140"),
			ClosePanna: s("278"),
		}
		assert.NoError(t, d.Validate())
		assert.False(t, d.Empty())
	})

	t.Run("partial result", func(t *testing.T) {
		d := ResultDigits{OpenDigit: s("5"), OpenPanna: s("140")}
		assert.NoError(t, d.Validate())
	})

	t.Run("jodi out of value-space", func(t *testing.T) {
		d := ResultDigits{Jodi: s("157")}
		err := d.Validate()
		require.Error(t, err)
		appErr, ok := err.(*AppError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_VALUE", appErr.Code)
	})

	t.Run("single digit out of value-space", func(t *testing.T) {
		d := ResultDigits{OpenDigit: s("12")}
		assert.Error(t, d.Validate())
	})

	t.Run("empty declaration", func(t *testing.T) {
		d := ResultDigits{}
		assert.NoError(t, d.Validate())
		assert.True(t, d.Empty())
	})
}

// --- Wallet update ---

func TestWalletUpdate(t *testing.T) {
	u := WalletUpdate{Deposited: -300, Winnings: -200}
	assert.True(t, u.HasDepositedDelta())
	assert.True(t, u.HasWinningsDelta())
	assert.Equal(t, int64(-500), u.Total())

	zero := WalletUpdate{}
	assert.False(t, zero.HasDepositedDelta())
	assert.False(t, zero.HasWinningsDelta())
}

// --- Wallet invariant helper ---

func TestWalletTotal(t *testing.T) {
	w := &Wallet{DepositedAmount: 50_000, WinningsAmount: 9_500}
	assert.Equal(t, int64(59_500), w.Total())
}

// --- AppError ---

func TestAppError(t *testing.T) {
	t.Run("not found carries 404", func(t *testing.T) {
		err := ErrNotFound("book", "kalyan")
		assert.Equal(t, 404, err.Status)
		assert.Contains(t, err.Error(), "kalyan")
	})

	t.Run("already processed carries 409", func(t *testing.T) {
		err := ErrAlreadyProcessed("utr", "abc")
		assert.Equal(t, "ALREADY_PROCESSED", err.Code)
		assert.Equal(t, 409, err.Status)
	})

	t.Run("unwrap exposes cause", func(t *testing.T) {
		cause := assert.AnError
		err := ErrInternal("boom", cause)
		assert.ErrorIs(t, err, cause)
	})
}

// --- Profile roles ---

func TestProfileIsAdmin(t *testing.T) {
	for _, role := range []string{RoleViewer, RoleAdmin, RoleSuperAdmin} {
		assert.True(t, (&Profile{Role: role}).IsAdmin(), role)
	}
	assert.False(t, (&Profile{Role: RolePlayer}).IsAdmin())
	assert.False(t, (&Profile{Role: "moderator"}).IsAdmin())
}
