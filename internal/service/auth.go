package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/auth"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/guard"
	"github.com/matka/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login for both realms.
type AuthService struct {
	pool     repository.DB
	users    repository.AuthUserRepository
	profiles repository.ProfileRepository
	wallets  repository.WalletRepository
	outbox   repository.OutboxRepository
	jwtMgr   *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	pool repository.DB,
	users repository.AuthUserRepository,
	profiles repository.ProfileRepository,
	wallets repository.WalletRepository,
	outbox repository.OutboxRepository,
	jwtMgr *auth.JWTManager,
) *AuthService {
	return &AuthService{
		pool:     pool,
		users:    users,
		profiles: profiles,
		wallets:  wallets,
		outbox:   outbox,
		jwtMgr:   jwtMgr,
	}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"user_id"`
	UserCode string    `json:"user_code"`
	Email    string    `json:"email"`
	Balance  int64     `json:"balance"`
}

// Register creates a player account: auth user, profile, zeroed wallet and
// profile-created event, all in one transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}
	if input.Name == "" {
		return nil, domain.ErrValidation("name is required")
	}

	existing, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	userID := uuid.New()
	now := time.Now()

	authUser := &domain.AuthUser{
		ID:           userID,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, tx, authUser); err != nil {
		return nil, domain.ErrInternal("create auth user", err)
	}

	userCode, err := generateUserCode()
	if err != nil {
		return nil, domain.ErrInternal("generate user code", err)
	}

	var phone *string
	if input.Phone != "" {
		phone = &input.Phone
	}
	profile := &domain.Profile{
		ID:         userID,
		AuthUserID: &userID,
		UserCode:   userCode,
		Name:       input.Name,
		Phone:      phone,
		Role:       domain.RolePlayer,
		Status:     domain.ProfileActive,
		CreatedAt:  now,
	}
	if err := s.profiles.Create(ctx, tx, profile); err != nil {
		return nil, domain.ErrInternal("create profile", err)
	}

	if err := s.wallets.Create(ctx, tx, userID); err != nil {
		return nil, domain.ErrInternal("create wallet", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewProfileCreatedEvent(userID, userCode, input.Name)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmPlayer, userID, input.Email, "")
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{
		Token:    token,
		UserID:   userID,
		UserCode: userCode,
		Email:    input.Email,
	}, nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IP       string `json:"-"`
}

// Login authenticates a player and returns a JWT.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	return s.login(ctx, input, auth.RealmPlayer)
}

// LoginAdmin authenticates an admin profile and returns an admin-realm JWT.
func (s *AuthService) LoginAdmin(ctx context.Context, input LoginInput) (*AuthResult, error) {
	return s.login(ctx, input, auth.RealmAdmin)
}

func (s *AuthService) login(ctx context.Context, input LoginInput, realm auth.Realm) (*AuthResult, error) {
	if err := guard.CheckLocked(ctx, s.pool, input.Email, string(realm)); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		guard.RecordAttempt(ctx, s.pool, input.Email, string(realm), input.IP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		guard.RecordAttempt(ctx, s.pool, input.Email, string(realm), input.IP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	profile, err := s.profiles.FindByAuthUserID(ctx, s.pool, user.ID)
	if err != nil {
		return nil, domain.ErrInternal("find profile", err)
	}
	if profile == nil {
		return nil, domain.ErrInternal("profile record missing", fmt.Errorf("no profiles row for %s", user.ID))
	}
	if profile.Status != domain.ProfileActive {
		return nil, domain.ErrForbidden("account is inactive")
	}

	var role string
	if realm == auth.RealmAdmin {
		if !profile.IsAdmin() {
			guard.RecordAttempt(ctx, s.pool, input.Email, string(realm), input.IP, false)
			return nil, domain.ErrForbidden("admin access required")
		}
		// The token carries the stored tier, so a viewer stays read-only and
		// a superadmin keeps its extra routes.
		role = profile.Role
	}

	guard.RecordAttempt(ctx, s.pool, input.Email, string(realm), input.IP, true)
	_ = s.profiles.TouchLastActive(ctx, s.pool, profile.ID)

	token, err := s.jwtMgr.GenerateToken(realm, profile.ID, user.Email, role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{
		Token:    token,
		UserID:   profile.ID,
		UserCode: profile.UserCode,
		Email:    user.Email,
		Balance:  profile.WalletBalance,
	}, nil
}

// generateUserCode produces a short public player code (6 chars, A-Z0-9).
func generateUserCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf), nil
}
