package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile roles. The admin tiers (viewer, admin, superadmin) are stored on
// the profile and carried into admin-realm tokens, where route guards decide
// which tiers may write.
const (
	RolePlayer     = "player"
	RoleViewer     = "viewer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Profile statuses.
const (
	ProfileActive   = "active"
	ProfileInactive = "inactive"
)

// Profile represents a profiles row. WalletBalance is the authoritative
// materialized total; the wallets row carries the deposited/winnings split
// and the engine keeps WalletBalance == Deposited + Winnings on every write.
type Profile struct {
	ID            uuid.UUID  `json:"id"`
	AuthUserID    *uuid.UUID `json:"auth_user_id,omitempty"`
	UserCode      string     `json:"user_code"`
	Name          string     `json:"name"`
	Phone         *string    `json:"phone,omitempty"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	WalletBalance int64      `json:"wallet_balance"`
	LastActive    *time.Time `json:"last_active,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsAdmin reports whether the profile holds any admin-panel tier.
func (p *Profile) IsAdmin() bool {
	switch p.Role {
	case RoleViewer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Wallet represents a wallets row: the deposited/winnings sub-balance split.
// Withdrawal rules treat winnings differently from principal, so the split is
// tracked separately from the profile total.
type Wallet struct {
	ProfileID       uuid.UUID `json:"profile_id"`
	DepositedAmount int64     `json:"deposited_amount"`
	WinningsAmount  int64     `json:"winnings_amount"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Total returns deposited + winnings.
func (w *Wallet) Total() int64 { return w.DepositedAmount + w.WinningsAmount }

// AuthUser holds credentials from auth_users.
type AuthUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
