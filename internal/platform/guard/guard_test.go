// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeply/keeply/internal/platform/ctxutil"
	"github.com/keeply/keeply/internal/platform/guard"
	"github.com/keeply/keeply/internal/platform/sec"
)

type testHarness struct {
	tokens *sec.TokenService
	router *chi.Mux

	// invocation counters per route, to prove rejected requests never
	// reach their handlers
	publicHits  int
	gatedHits   int
	refreshHits int

	// identity observed by the gated handler
	seenIdentity *sec.Identity
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	tokens, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		15*time.Minute,
		30*24*time.Hour,
		"keeply.app",
	)
	require.NoError(t, err)

	h := &testHarness{tokens: tokens, router: chi.NewRouter()}

	gate := guard.NewGate(tokens)
	gate.Mount(h.router, []guard.Operation{
		{Method: http.MethodGet, Pattern: "/public", Policy: guard.PolicyPublic, Handler: func(w http.ResponseWriter, r *http.Request) {
			h.publicHits++
			w.WriteHeader(http.StatusOK)
		}},
		{Method: http.MethodGet, Pattern: "/gated", Handler: func(w http.ResponseWriter, r *http.Request) {
			h.gatedHits++
			h.seenIdentity = ctxutil.GetIdentity(r.Context())
			w.WriteHeader(http.StatusOK)
		}},
		{Method: http.MethodPost, Pattern: "/refresh", Policy: guard.PolicyRefresh, Handler: func(w http.ResponseWriter, r *http.Request) {
			h.refreshHits++
			h.seenIdentity = ctxutil.GetIdentity(r.Context())
			w.WriteHeader(http.StatusOK)
		}},
	})

	return h
}

func (h *testHarness) do(method, path, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestGate_PublicBypass verifies that public operations skip authentication.
*/
func TestGate_PublicBypass(t *testing.T) {
	h := newHarness(t)

	response := h.do(http.MethodGet, "/public", "")

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, 1, h.publicHits)
}

/*
TestGate_RejectsBadCredentials verifies that every malformed or invalid
credential shape yields 401 without invoking the handler.
*/
func TestGate_RejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
	}{
		{"missing_header", ""},
		{"wrong_scheme", "Token abc"},
		{"no_token", "Bearer "},
		{"garbage_token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			response := h.do(http.MethodGet, "/gated", tt.authorization)

			assert.Equal(t, http.StatusUnauthorized, response.Code)
			assert.Equal(t, 0, h.gatedHits)
		})
	}
}

/*
TestGate_AccessToken verifies the happy path and that the identity derived
from the token is placed in the request context.
*/
func TestGate_AccessToken(t *testing.T) {
	h := newHarness(t)

	access, err := h.tokens.IssueAccess("user-123", "dev@keeply.app")
	require.NoError(t, err)

	response := h.do(http.MethodGet, "/gated", "Bearer "+access)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, 1, h.gatedHits)

	require.NotNil(t, h.seenIdentity)
	assert.Equal(t, "user-123", h.seenIdentity.UserID)
	assert.Equal(t, "dev@keeply.app", h.seenIdentity.Email)
	assert.Equal(t, access, h.seenIdentity.Token)
}

/*
TestGate_KindMismatch verifies that a refresh token is useless on ordinary
routes and an access token is useless on the refresh route.
*/
func TestGate_KindMismatch(t *testing.T) {
	h := newHarness(t)

	access, err := h.tokens.IssueAccess("user-123", "dev@keeply.app")
	require.NoError(t, err)

	refresh, err := h.tokens.IssueRefresh("user-123", "dev@keeply.app")
	require.NoError(t, err)

	response := h.do(http.MethodGet, "/gated", "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, response.Code)
	assert.Equal(t, 0, h.gatedHits)

	response = h.do(http.MethodPost, "/refresh", "Bearer "+access)
	assert.Equal(t, http.StatusUnauthorized, response.Code)
	assert.Equal(t, 0, h.refreshHits)
}

/*
TestGate_RefreshToken verifies the refresh route accepts a refresh token and
exposes the raw presented token through the identity.
*/
func TestGate_RefreshToken(t *testing.T) {
	h := newHarness(t)

	refresh, err := h.tokens.IssueRefresh("user-123", "dev@keeply.app")
	require.NoError(t, err)

	response := h.do(http.MethodPost, "/refresh", "Bearer "+refresh)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, 1, h.refreshHits)

	require.NotNil(t, h.seenIdentity)
	assert.Equal(t, refresh, h.seenIdentity.Token)
}
