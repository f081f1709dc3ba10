package service

import (
	"context"
	"testing"

	"cleancart/internal/config"
	"cleancart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTConfig = config.JWTConfig{
	UserSecret:  "user-secret",
	AdminSecret: "admin-secret",
	ExpiryHours: 12,
}

var testAdminConfig = config.AdminConfig{
	Email:    "admin@example.com",
	Password: "admin-password",
}

func newUserTestService(users *mockUserRepository) UserService {
	return NewUserService(users, testJWTConfig, testAdminConfig)
}

func parseServiceToken(t *testing.T, tokenString, secret string) *Claims {
	t.Helper()

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

func TestSignupHashesPassword(t *testing.T) {
	users := newMockUserRepository()
	service := newUserTestService(users)

	user, err := service.Signup(context.Background(), "Jamie Doe", "jamie", "jamie@example.com", "s3cret-password")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-password", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-password")))

	stored, err := users.FindByEmail(context.Background(), "jamie@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	users := newMockUserRepository()
	service := newUserTestService(users)

	_, err := service.Signup(context.Background(), "Jamie Doe", "jamie", "jamie@example.com", "s3cret-password")
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), "Other", "other", "jamie@example.com", "another-password")
	assert.Equal(t, repository.ErrUserAlreadyExists, err)
	assert.Len(t, users.users, 1)
}

func TestProperty_SignupThenLoginRoundTrips(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("an account can log in with the password it signed up with", prop.ForAll(
		func(password string) bool {
			users := newMockUserRepository()
			service := newUserTestService(users)
			ctx := context.Background()

			if _, err := service.Signup(ctx, "Jamie Doe", "jamie", "jamie@example.com", password); err != nil {
				return false
			}

			result, err := service.Login(ctx, "jamie@example.com", password)
			if err != nil {
				return false
			}

			// A wrong password must not work for the same account.
			_, err = service.Login(ctx, "jamie@example.com", password+"x")
			return result.Token != "" && !result.IsAdmin && err == ErrInvalidCredentials
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) >= 1 && len(s) <= 64 }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLoginUnknownEmail(t *testing.T) {
	service := newUserTestService(newMockUserRepository())

	_, err := service.Login(context.Background(), "nobody@example.com", "whatever")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLoginIssuesUserTokenSignedWithUserSecret(t *testing.T) {
	users := newMockUserRepository()
	service := newUserTestService(users)
	ctx := context.Background()

	user, err := service.Signup(ctx, "Jamie Doe", "jamie", "jamie@example.com", "s3cret-password")
	require.NoError(t, err)

	result, err := service.Login(ctx, "jamie@example.com", "s3cret-password")
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.False(t, result.IsAdmin)

	claims := parseServiceToken(t, result.Token, testJWTConfig.UserSecret)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)

	// The user token must not verify against the admin secret.
	_, err = jwt.ParseWithClaims(result.Token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTConfig.AdminSecret), nil
	})
	assert.Error(t, err)
}

func TestAdminLoginUsesAdminSecret(t *testing.T) {
	service := newUserTestService(newMockUserRepository())

	result, err := service.Login(context.Background(), testAdminConfig.Email, testAdminConfig.Password)
	require.NoError(t, err)

	assert.True(t, result.IsAdmin)
	// The admin credential pair has no backing account.
	assert.Nil(t, result.User)

	claims := parseServiceToken(t, result.Token, testJWTConfig.AdminSecret)
	assert.True(t, claims.IsAdmin)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	users := newMockUserRepository()
	service := newUserTestService(users)

	// The admin email never falls through to account lookup.
	_, err := service.Login(context.Background(), testAdminConfig.Email, "wrong")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestDeleteAccountMissingUser(t *testing.T) {
	service := newUserTestService(newMockUserRepository())

	err := service.DeleteAccount(context.Background(), uuid.New())
	assert.Equal(t, repository.ErrUserNotFound, err)
}
