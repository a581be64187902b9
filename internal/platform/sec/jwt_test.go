// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeply/keeply/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		15*time.Minute,
		30*24*time.Hour,
		"keeply.app",
	)
	require.NoError(t, err)

	return service
}

/*
TestNewTokenService_Validation verifies construction guards.
*/
func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name          string
		accessSecret  string
		refreshSecret string
		wantErr       bool
	}{
		{"distinct_secrets", "a-secret", "r-secret", false},
		{"empty_access", "", "r-secret", true},
		{"empty_refresh", "a-secret", "", true},
		{"equal_secrets", "same", "same", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.accessSecret, tt.refreshSecret, time.Minute, time.Hour, "keeply.app")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestTokenService_RoundTrip verifies issue-then-verify for both token kinds.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	access, err := service.IssueAccess("user-123", "dev@keeply.app")
	require.NoError(t, err)
	require.NotEmpty(t, access)

	refresh, err := service.IssueRefresh("user-123", "dev@keeply.app")
	require.NoError(t, err)
	require.NotEmpty(t, refresh)

	accessClaims, err := service.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "user-123", accessClaims.UserID)
	assert.Equal(t, "dev@keeply.app", accessClaims.Email)

	refreshClaims, err := service.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refreshClaims.UserID)
}

/*
TestTokenService_KindSeparation verifies that a token of one kind never
verifies as the other kind.
*/
func TestTokenService_KindSeparation(t *testing.T) {
	service := newTokenService(t)

	access, err := service.IssueAccess("user-123", "dev@keeply.app")
	require.NoError(t, err)

	refresh, err := service.IssueRefresh("user-123", "dev@keeply.app")
	require.NoError(t, err)

	_, err = service.VerifyRefresh(access)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.VerifyAccess(refresh)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Expiry verifies that an expired token is rejected.
*/
func TestTokenService_Expiry(t *testing.T) {
	service, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		-1*time.Minute, // already expired at issue time
		30*24*time.Hour,
		"keeply.app",
	)
	require.NoError(t, err)

	access, err := service.IssueAccess("user-123", "dev@keeply.app")
	require.NoError(t, err)

	_, err = service.VerifyAccess(access)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Garbage verifies that malformed and tampered inputs all
collapse into ErrInvalidToken.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newTokenService(t)

	access, err := service.IssueAccess("user-123", "dev@keeply.app")
	require.NoError(t, err)

	inputs := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not_a_jwt", "hello world"},
		{"tampered", access + "x"},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyAccess(tt.token)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
		})
	}
}
