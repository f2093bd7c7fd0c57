// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/internal/platform/sec"
	"github.com/cartly/cartly/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and minting security tokens.
type TokenProvider interface {

	// IssueTokenPair creates a matched access/refresh token pair for the user.
	IssueTokenPair(userID, role string) (*sec.TokenPair, error)

	// MintAccessToken creates a fresh access token without touching the refresh token.
	MintAccessToken(userID, role string) (string, time.Time, error)

	// VerifyRefreshToken validates a refresh token signature and returns its claims.
	VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error)

	// RefreshTTL reports the configured refresh token lifetime.
	RefreshTTL() time.Duration
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or session logic must be reviewed by the security team.
type Service struct {
	userRepository         UserRepository
	refreshTokenRepository RefreshTokenRepository
	tokenProvider          TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	refreshRepo RefreshTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:         userRepo,
		refreshTokenRepository: refreshRepo,
		tokenProvider:          tokenProv,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new customer.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthSession represents a successfully established user session.
type AuthSession struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Signup validates, hashes, and persists a brand new user account.

Description: Enrolls a new customer and immediately establishes a live session,
so a fresh signup does not require a follow-up login request.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *AuthSession: Created entity plus transport-ready session tokens
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*AuthSession, error) {

	// Emails are stored and compared lowercase, so A@x.com and a@x.com are
	// the same account.
	email := strings.ToLower(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	return service.establishSession(context, user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and establishes a new session that supersedes any previous one.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthSession, error) {
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(input.Email))

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.establishSession(context, user)
}

// establishSession issues a token pair and caches the refresh token, making it
// the single live session for the user. Any previous session is superseded.
func (service *Service) establishSession(context context.Context, user *User) (*AuthSession, error) {
	pair, err := service.tokenProvider.IssueTokenPair(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// The cache value is what /refresh compares against: overwriting it here
	// is what revokes the previous session.
	if err := service.refreshTokenRepository.Set(context, user.ID, pair.RefreshToken, service.tokenProvider.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("auth_service_session_cache_failed: %w", err)
	}

	return &AuthSession{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshExpiresAt,
		User:                  user,
	}, nil
}

/*
Logout terminates the user's live session.

Description: Verifies the presented refresh token and removes the cached
session. A missing or already-terminated session is treated as success
(idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// An unverifiable token carries no session to terminate.
	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	if err := service.refreshTokenRepository.Delete(context, claims.UserID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

// AccessGrant is the result of a successful refresh rotation.
type AccessGrant struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

/*
RefreshAccess mints a new access token from a live refresh token.

Description: Verifies the refresh token signature, then compares it against the
cached session value. A signature-valid token that does not match the cache
belongs to a superseded or logged-out session and is rejected. The refresh
token itself is NOT rotated; only the access token is re-minted.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *AccessGrant: Fresh access token credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshAccess(context context.Context, refreshToken string) (*AccessGrant, error) {
	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	cachedToken, err := service.refreshTokenRepository.Get(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Session has been terminated")
	}

	// A mismatch means a newer login replaced this session.
	if cachedToken != refreshToken {
		return nil, apperr.Unauthorized("Session has been superseded")
	}

	// Re-load the account so a revoked role change takes effect immediately.
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	accessToken, expiresAt, err := service.tokenProvider.MintAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &AccessGrant{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

// # Identity Resolution

/*
Profile returns the account of the authenticated user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated account entity
  - err: NotFound or storage failures
*/
func (service *Service) Profile(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
ResolveIdentity re-loads the account behind a verified access token.

Description: Used by the access-control middleware to confirm the user still
exists before any protected handler runs. A deleted account with a still-valid
token resolves to Unauthorized.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - sec.Identity: Resolved caller identity
  - err: Unauthorized when the account no longer exists
*/
func (service *Service) ResolveIdentity(context context.Context, userID string) (sec.Identity, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return sec.Identity{}, apperr.Unauthorized("Account no longer exists")
	}
	return sec.Identity{UserID: user.ID, Role: user.Role}, nil
}
