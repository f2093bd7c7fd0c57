// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	service, err := NewTokenService("access-secret", "refresh-secret", "cartly", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	return service
}

func TestNewTokenService_RejectsWeakConfig(t *testing.T) {
	_, err := NewTokenService("", "refresh-secret", "cartly", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService("same", "same", "cartly", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	service := newTestTokenService(t)
	before := time.Now()

	pair, err := service.IssueTokenPair("user-42", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := service.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "cartly", claims.Issuer)

	// Expiry lands one access TTL out from issuance
	expiry := claims.ExpiresAt.Time
	assert.WithinDuration(t, before.Add(15*time.Minute), expiry, 5*time.Second)
}

func TestTokenService_ConsecutiveTokensAreDistinct(t *testing.T) {
	service := newTestTokenService(t)

	first, err := service.IssueTokenPair("user-42", "customer")
	require.NoError(t, err)
	second, err := service.IssueTokenPair("user-42", "customer")
	require.NoError(t, err)

	// Back-to-back issuance for the same user lands in the same second, so
	// uniqueness must come from the jti claim rather than the timestamps.
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	claims, err := service.VerifyAccessToken(second.AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_TokenKindsAreNotInterchangeable(t *testing.T) {
	service := newTestTokenService(t)

	pair, err := service.IssueTokenPair("user-42", "customer")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = service.VerifyRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	service := newTestTokenService(t)

	other, err := NewTokenService("other-access", "other-refresh", "cartly", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	pair, err := other.IssueTokenPair("user-42", "customer")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	service := newTestTokenService(t)

	_, err := service.VerifyAccessToken("not.a.token")
	assert.Error(t, err)
}
