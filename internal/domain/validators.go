package domain

import (
	"fmt"
	"regexp"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	userCodeRegex = regexp.MustCompile(`^[A-Z0-9]{4,12}$`)
	utrNoRegex    = regexp.MustCompile(`^[A-Za-z0-9]{6,32}$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUserCode checks the short public player code.
func ValidateUserCode(code string) error {
	if !userCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid user code: %s", code)
	}
	return nil
}

// ValidateUTRNo checks a bank transaction reference number.
func ValidateUTRNo(utrNo string) error {
	if !utrNoRegex.MatchString(utrNo) {
		return fmt.Errorf("invalid UTR number")
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (in paise).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidateMultiplier checks an x100 fixed-point payout multiplier.
func ValidateMultiplier(multiplierX100 int64) error {
	if multiplierX100 <= 0 {
		return fmt.Errorf("multiplier must be positive, got %d", multiplierX100)
	}
	return nil
}
