package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/auth"
	"github.com/matka/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

func newAuthFixture(t *testing.T, email, role string) (*AuthService, *auth.JWTManager) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	userID := uuid.New()
	users := newFakeAuthUsers(&domain.AuthUser{
		ID: userID, Email: email, PasswordHash: string(hash),
	})
	profiles := newFakeProfiles(&domain.Profile{
		ID: userID, AuthUserID: &userID, UserCode: "OPER01",
		Name: "Operator", Role: role, Status: domain.ProfileActive,
	})
	wallets := newFakeWallets(&domain.Wallet{ProfileID: userID})

	jwtMgr := auth.NewJWTManager("test-secret", time.Hour, time.Hour)
	svc := NewAuthService(memDB{}, users, profiles, wallets, &fakeOutbox{}, jwtMgr)
	return svc, jwtMgr
}

func TestLoginAdminCarriesStoredTier(t *testing.T) {
	tiers := []string{domain.RoleViewer, domain.RoleAdmin, domain.RoleSuperAdmin}
	for _, tier := range tiers {
		t.Run(tier, func(t *testing.T) {
			svc, jwtMgr := newAuthFixture(t, "ops@example.com", tier)

			result, err := svc.LoginAdmin(context.Background(), LoginInput{
				Email: "ops@example.com", Password: testPassword,
			})
			require.NoError(t, err)

			claims, err := jwtMgr.ValidateTokenForRealm(result.Token, auth.RealmAdmin)
			require.NoError(t, err)
			assert.Equal(t, tier, claims.Role)
		})
	}
}

func TestLoginAdminRejectsPlayerProfile(t *testing.T) {
	svc, _ := newAuthFixture(t, "player@example.com", domain.RolePlayer)

	_, err := svc.LoginAdmin(context.Background(), LoginInput{
		Email: "player@example.com", Password: testPassword,
	})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestLoginPlayerTokenHasNoRole(t *testing.T) {
	svc, jwtMgr := newAuthFixture(t, "player@example.com", domain.RolePlayer)

	result, err := svc.Login(context.Background(), LoginInput{
		Email: "player@example.com", Password: testPassword,
	})
	require.NoError(t, err)

	claims, err := jwtMgr.ValidateTokenForRealm(result.Token, auth.RealmPlayer)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, "player@example.com", domain.RolePlayer)

	_, err := svc.Login(context.Background(), LoginInput{
		Email: "player@example.com", Password: "wrong-password-1",
	})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}
