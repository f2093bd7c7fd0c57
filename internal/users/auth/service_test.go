// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/internal/platform/sec"
	"github.com/cartly/cartly/internal/users/auth"
)

// # In-Memory Fakes

type memoryUserRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repository.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (repository *memoryUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User not found with this username")
}

func (repository *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	repository.users[user.ID] = user
	return nil
}

type memoryRefreshTokenRepository struct {
	tokens map[string]string // keyed by userID
}

func newMemoryRefreshTokenRepository() *memoryRefreshTokenRepository {
	return &memoryRefreshTokenRepository{tokens: make(map[string]string)}
}

func (repository *memoryRefreshTokenRepository) Set(_ context.Context, userID, token string, _ time.Duration) error {
	repository.tokens[userID] = token
	return nil
}

func (repository *memoryRefreshTokenRepository) Get(_ context.Context, userID string) (string, error) {
	if token, ok := repository.tokens[userID]; ok {
		return token, nil
	}
	return "", apperr.NotFound("No live session for this user")
}

func (repository *memoryRefreshTokenRepository) Delete(_ context.Context, userID string) error {
	delete(repository.tokens, userID)
	return nil
}

// # Test Harness

func newTestService(t *testing.T) (*auth.Service, *memoryUserRepository, *memoryRefreshTokenRepository) {
	t.Helper()

	tokenService, err := sec.NewTokenService(
		"test-access-secret-0123456789",
		"test-refresh-secret-9876543210",
		"cartly.sh",
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	userRepo := newMemoryUserRepository()
	refreshRepo := newMemoryRefreshTokenRepository()
	return auth.NewService(userRepo, refreshRepo, tokenService), userRepo, refreshRepo
}

func signup(t *testing.T, service *auth.Service, email string) *auth.AuthSession {
	t.Helper()

	session, err := service.Signup(context.Background(), auth.SignupInput{
		Username: "shopper-" + email,
		Email:    email,
		Password: "Str0ngPass!word?",
	})
	require.NoError(t, err)
	return session
}

// # Registration

func TestService_Signup(t *testing.T) {
	service, userRepo, refreshRepo := newTestService(t)

	session := signup(t, service, "alice@example.com")

	require.NotNil(t, session.User)
	assert.Equal(t, sec.RoleUser, session.User.Role)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	// Hash must never equal the plain-text password
	stored := userRepo.users[session.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Str0ngPass!word?", stored.PasswordHash)

	// Signup establishes the live session immediately
	assert.Equal(t, session.RefreshToken, refreshRepo.tokens[session.User.ID])
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	service, _, _ := newTestService(t)
	signup(t, service, "alice@example.com")

	_, err := service.Signup(context.Background(), auth.SignupInput{
		Username: "someone-else",
		Email:    "alice@example.com",
		Password: "Str0ngPass!word?",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

// # Login

func TestService_Login(t *testing.T) {
	service, _, refreshRepo := newTestService(t)
	created := signup(t, service, "alice@example.com")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Str0ngPass!word?",
	})

	require.NoError(t, err)
	assert.Equal(t, created.User.ID, session.User.ID)
	assert.Equal(t, session.RefreshToken, refreshRepo.tokens[session.User.ID])
}

func TestService_Login_EmailCaseInsensitive(t *testing.T) {
	service, userRepo, _ := newTestService(t)
	created := signup(t, service, "Alice@Example.COM")

	// The account is stored under the lowercase form
	assert.Equal(t, "alice@example.com", userRepo.users[created.User.ID].Email)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "ALICE@example.com",
		Password: "Str0ngPass!word?",
	})

	require.NoError(t, err)
	assert.Equal(t, created.User.ID, session.User.ID)

	// A differently-cased signup for the same address is a duplicate
	_, err = service.Signup(context.Background(), auth.SignupInput{
		Username: "someone-else",
		Email:    "aLiCe@eXaMpLe.com",
		Password: "Str0ngPass!word?",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestService_Login_WrongPassword(t *testing.T) {
	service, _, _ := newTestService(t)
	signup(t, service, "alice@example.com")

	_, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Wr0ngPass!word?",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "ghost@example.com",
		Password: "Str0ngPass!word?",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

// # Session Refresh

func TestService_RefreshAccess(t *testing.T) {
	service, _, _ := newTestService(t)
	session := signup(t, service, "alice@example.com")

	grant, err := service.RefreshAccess(context.Background(), session.RefreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, grant.AccessToken)
	assert.True(t, grant.AccessTokenExpiresAt.After(time.Now()))
}

func TestService_RefreshAccess_SupersededSession(t *testing.T) {
	service, _, _ := newTestService(t)
	first := signup(t, service, "alice@example.com")

	// A second login replaces the cached refresh token.
	_, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Str0ngPass!word?",
	})
	require.NoError(t, err)

	_, err = service.RefreshAccess(context.Background(), first.RefreshToken)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

func TestService_RefreshAccess_AfterLogout(t *testing.T) {
	service, _, _ := newTestService(t)
	session := signup(t, service, "alice@example.com")

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))

	_, err := service.RefreshAccess(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestService_RefreshAccess_GarbageToken(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.RefreshAccess(context.Background(), "not-a-jwt")

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

// # Logout

func TestService_Logout_Idempotent(t *testing.T) {
	service, _, _ := newTestService(t)
	session := signup(t, service, "alice@example.com")

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), "garbage"))
}

// # Identity Resolution

func TestService_ResolveIdentity(t *testing.T) {
	service, userRepo, _ := newTestService(t)
	session := signup(t, service, "alice@example.com")

	identity, err := service.ResolveIdentity(context.Background(), session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, identity.UserID)
	assert.Equal(t, sec.RoleUser, identity.Role)

	// A deleted account must fail resolution even with a valid token.
	delete(userRepo.users, session.User.ID)
	_, err = service.ResolveIdentity(context.Background(), session.User.ID)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}
