package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) (*authService, repository.UserRepository, *fakeGateway) {
	testDB := setupServiceDB(t)
	userRepo := repository.NewUserRepository(testDB)
	gateway := &fakeGateway{}

	svc := NewAuthService(userRepo, gateway, AuthConfig{
		JWTSecret:       testJWTSecret,
		SessionTTL:      time.Hour,
		VerificationTTL: 24 * time.Hour,
		ClientURL:       "http://localhost:3000",
	}, &fakeRevoker{})

	return svc.(*authService), userRepo, gateway
}

// registerVerified registers a user and follows the emailed verification token.
func registerVerified(t *testing.T, svc *authService, userRepo repository.UserRepository, name, email, password string) *model.User {
	t.Helper()
	_, err := svc.Register(name, email, password)
	require.NoError(t, err)

	pending, err := userRepo.FindByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, pending.VerificationToken)

	user, err := svc.VerifyAccount(*pending.VerificationToken)
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	svc, userRepo, gateway := setupAuthServiceTest(t)

	result, err := svc.Register("Test User", " Test@Example.com ", "password123")
	require.NoError(t, err)
	assert.False(t, result.Resent)
	assert.Equal(t, "test@example.com", result.User.Email)
	assert.False(t, result.User.IsVerified)

	stored, err := userRepo.FindByEmail("test@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)
	require.NotNil(t, stored.VerificationExpires)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *stored.VerificationExpires, time.Minute)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	require.Equal(t, 1, gateway.count())
	mail := gateway.last()
	assert.Equal(t, "test@example.com", mail.to)
	assert.Contains(t, mail.body, "http://localhost:3000/verify-account/"+*stored.VerificationToken)
}

func TestAuthService_RegisterUnverifiedResends(t *testing.T) {
	svc, userRepo, gateway := setupAuthServiceTest(t)

	_, err := svc.Register("First Name", "again@example.com", "password123")
	require.NoError(t, err)
	first, err := userRepo.FindByEmail("again@example.com")
	require.NoError(t, err)
	firstToken := *first.VerificationToken

	result, err := svc.Register("Second Name", "again@example.com", "newpassword")
	require.NoError(t, err)
	assert.True(t, result.Resent)
	assert.Equal(t, first.ID, result.User.ID)
	assert.Equal(t, 2, gateway.count())

	second, err := userRepo.FindByEmail("again@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Second Name", second.Name)
	assert.NotEqual(t, firstToken, *second.VerificationToken)

	// The earlier link no longer works
	_, err = svc.VerifyAccount(firstToken)
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestAuthService_RegisterVerifiedConflicts(t *testing.T) {
	svc, userRepo, gateway := setupAuthServiceTest(t)
	registerVerified(t, svc, userRepo, "Taken", "taken@example.com", "password123")
	sent := gateway.count()

	result, err := svc.Register("Someone Else", "taken@example.com", "password456")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Nil(t, result)
	assert.Equal(t, sent, gateway.count())
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, gateway := setupAuthServiceTest(t)

	_, err := svc.Register("Al", "not-an-email", "123")
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, gateway.count())
}

func TestAuthService_RegisterNotificationFailure(t *testing.T) {
	svc, userRepo, gateway := setupAuthServiceTest(t)
	gateway.err = errors.New("smtp down")

	_, err := svc.Register("Mail Less", "mailless@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotificationFailed)

	// The account exists, so a retry resends
	_, err = userRepo.FindByEmail("mailless@example.com")
	require.NoError(t, err)

	gateway.err = nil
	result, err := svc.Register("Mail Less", "mailless@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, result.Resent)
}

func TestAuthService_VerifyAccountSingleUse(t *testing.T) {
	svc, userRepo, _ := setupAuthServiceTest(t)

	_, err := svc.Register("Verify Me", "verify@example.com", "password123")
	require.NoError(t, err)
	pending, err := userRepo.FindByEmail("verify@example.com")
	require.NoError(t, err)
	token := *pending.VerificationToken

	user, err := svc.VerifyAccount(token)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.VerificationToken)
	assert.Nil(t, user.VerificationExpires)

	_, err = svc.VerifyAccount(token)
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)

	_, err = svc.VerifyAccount("")
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestAuthService_VerifyAccountExpired(t *testing.T) {
	svc, userRepo, _ := setupAuthServiceTest(t)

	_, err := svc.Register("Late User", "late@example.com", "password123")
	require.NoError(t, err)
	pending, err := userRepo.FindByEmail("late@example.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(25 * time.Hour) }

	_, err = svc.VerifyAccount(*pending.VerificationToken)
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestAuthService_Login(t *testing.T) {
	svc, userRepo, _ := setupAuthServiceTest(t)
	verified := registerVerified(t, svc, userRepo, "Login User", "login@example.com", "password123")

	_, err := svc.Register("Pending User", "pending@example.com", "password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "login@example.com", password: "password123"},
		{name: "email is case-insensitive", email: "LOGIN@example.com", password: "password123"},
		{name: "unknown email", email: "ghost@example.com", password: "password123", wantErr: ErrEmailNotRegistered},
		{name: "wrong password", email: "login@example.com", password: "wrongpass", wantErr: ErrIncorrectPassword},
		{name: "unverified with right password", email: "pending@example.com", password: "password123", wantErr: ErrAccountNotVerified},
		{name: "unverified with wrong password", email: "pending@example.com", password: "wrongpass", wantErr: ErrAccountNotVerified},
		{name: "invalid input", email: "bad", password: "1", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := svc.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, verified.ID, user.ID)

			claims, err := util.ValidateToken(token, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, verified.ID, claims.UserID)
			assert.Equal(t, "login@example.com", claims.Email)
		})
	}
}

func TestAuthService_LoginLongPassword(t *testing.T) {
	svc, userRepo, _ := setupAuthServiceTest(t)
	password := strings.Repeat("a", 100)
	registerVerified(t, svc, userRepo, "Long Pass", "long@example.com", password)

	_, _, err := svc.Login("long@example.com", password)
	assert.NoError(t, err)

	_, _, err = svc.Login("long@example.com", strings.Repeat("a", 99)+"b")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	revoker := svc.revoker.(*fakeRevoker)

	err := svc.Logout(context.Background(), "session-token", time.Now().Add(30*time.Minute))
	require.NoError(t, err)
	require.Contains(t, revoker.revoked, "session-token")
	assert.InDelta(t, (30 * time.Minute).Seconds(), revoker.revoked["session-token"].Seconds(), 5)

	// Already expired tokens need no entry
	err = svc.Logout(context.Background(), "old-token", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.NotContains(t, revoker.revoked, "old-token")
}

func TestAuthService_LogoutWithoutRevoker(t *testing.T) {
	testDB := setupServiceDB(t)
	svc := NewAuthService(repository.NewUserRepository(testDB), &fakeGateway{}, AuthConfig{JWTSecret: testJWTSecret}, nil)

	err := svc.Logout(context.Background(), "token", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrLogoutUnavailable)
}

func TestAuthService_GetUserByID(t *testing.T) {
	svc, userRepo, _ := setupAuthServiceTest(t)
	user := registerVerified(t, svc, userRepo, "Lookup", "lookup@example.com", "password123")

	found, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "lookup@example.com", found.Email)

	_, err = svc.GetUserByID(user.ID + 100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
