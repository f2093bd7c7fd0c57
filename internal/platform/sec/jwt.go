// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cartly/cartly/pkg/uuid"
)

// AuthClaims represents the payload embedded inside both token kinds.
//
// # Why custom claims?
//
// By embedding the UserID and Role directly inside the JWT, the auth
// middleware can pre-screen a request WITHOUT querying the database. The
// authoritative role is still re-read from the credential store before any
// role-gated operation, so a stale claim never grants stale privileges.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Role   string `json:"rol"`
}

// TokenPair bundles a freshly issued access/refresh token set.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService signs and verifies HS256 JWTs.
//
// Access and refresh tokens are signed with SEPARATE secrets: a token of one
// kind can never be presented as the other, and rotating one secret does not
// invalidate the other population.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a new TokenService with the given signing secrets
// and token lifetimes.
func NewTokenService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("sec: token signing secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("sec: access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// IssueTokenPair mints a signed access + refresh token set for a user.
func (service *TokenService) IssueTokenPair(userID, role string) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(service.accessTTL)
	refreshExpiry := now.Add(service.refreshTTL)

	accessToken, err := service.sign(userID, role, service.accessSecret, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	refreshToken, err := service.sign(userID, role, service.refreshSecret, now, refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// MintAccessToken issues a new access token only. Used by the rotation flow,
// which deliberately leaves the refresh token untouched.
func (service *TokenService) MintAccessToken(userID, role string) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(service.accessTTL)

	token, err := service.sign(userID, role, service.accessSecret, now, expiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return token, expiry, nil
}

// VerifyAccessToken checks the signature and validity of an access token.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.accessSecret)
}

// VerifyRefreshToken checks the signature and validity of a refresh token.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.refreshSecret)
}

// sign builds and signs a single HS256 token.
func (service *TokenService) sign(userID, role string, secret []byte, issuedAt, expiresAt time.Time) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps two tokens minted for the same user within the
			// same second distinct, so a re-login always supersedes.
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// verify parses a token against the given secret and validates its claims.
func (service *TokenService) verify(tokenString string, secret []byte) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("sec: token is missing identity claims")
	}

	return claims, nil
}
