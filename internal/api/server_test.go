// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeply/keeply/internal/api"
	"github.com/keeply/keeply/internal/platform/apperr"
	"github.com/keeply/keeply/internal/platform/config"
	"github.com/keeply/keeply/internal/platform/guard"
	"github.com/keeply/keeply/internal/platform/sec"
	"github.com/keeply/keeply/internal/resources"
	"github.com/keeply/keeply/internal/users/account"
	"github.com/keeply/keeply/internal/users/auth"
	"github.com/keeply/keeply/pkg/pagination"
)

// # In-memory fakes

type fakeUserRepository struct {
	byID map[string]*auth.User
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	clone := *user
	repo.byID[user.ID] = &clone
	return nil
}

func (repo *fakeUserRepository) UpdateProfile(_ context.Context, id, name string) (*auth.User, error) {
	user, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.Name = name
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepository) UpdateRefreshTokenHash(_ context.Context, id string, hash *string) error {
	if user, ok := repo.byID[id]; ok {
		user.RefreshTokenHash = hash
	}
	return nil
}

func (repo *fakeUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.byID[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.byID, id)
	return nil
}

type fakeResourceRepository struct {
	byID map[string]*resources.Resource
}

func (repo *fakeResourceRepository) FindByOwnerAndID(_ context.Context, ownerID, id string) (*resources.Resource, error) {
	if resource, ok := repo.byID[id]; ok && resource.OwnerID == ownerID {
		clone := *resource
		return &clone, nil
	}
	return nil, apperr.NotFound("Resource")
}

func (repo *fakeResourceRepository) ListByOwner(_ context.Context, ownerID string, params pagination.Params) ([]resources.Resource, int, error) {
	owned := make([]resources.Resource, 0)
	for _, resource := range repo.byID {
		if resource.OwnerID == ownerID {
			owned = append(owned, *resource)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })

	total := len(owned)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	return owned[start:end], total, nil
}

func (repo *fakeResourceRepository) Create(_ context.Context, resource *resources.Resource) (*resources.Resource, error) {
	now := time.Now()
	resource.CreatedAt = now
	resource.UpdatedAt = now
	clone := *resource
	repo.byID[resource.ID] = &clone
	return resource, nil
}

func (repo *fakeResourceRepository) Update(_ context.Context, ownerID, id, title, content string) (*resources.Resource, error) {
	resource, ok := repo.byID[id]
	if !ok || resource.OwnerID != ownerID {
		return nil, apperr.NotFound("Resource")
	}
	resource.Title = title
	resource.Content = content
	resource.UpdatedAt = time.Now()
	clone := *resource
	return &clone, nil
}

func (repo *fakeResourceRepository) Delete(_ context.Context, ownerID, id string) error {
	resource, ok := repo.byID[id]
	if !ok || resource.OwnerID != ownerID {
		return apperr.NotFound("Resource")
	}
	delete(repo.byID, id)
	return nil
}

// # Test server assembly

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	tokens, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		15*time.Minute,
		30*24*time.Hour,
		"keeply.app",
	)
	require.NoError(t, err)

	hasher := sec.NewHasher(4)

	userRepo := &fakeUserRepository{byID: make(map[string]*auth.User)}
	authService := auth.NewService(userRepo, hasher, tokens)
	accountService := account.NewService(userRepo)

	resourceRepo := &fakeResourceRepository{byID: make(map[string]*resources.Resource)}
	resourceService := resources.NewService(resourceRepo)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return nil },
		CheckCache:    func() error { return nil },
	}, testLogger())

	server := api.NewServer(
		&config.Config{ServerPort: "0", Environment: "test"},
		testLogger(),
		guard.NewGate(tokens),
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      auth.NewHandler(authService),
			Account:   account.NewHandler(accountService),
			Resource:  resources.NewHandler(resourceService),
		},
	)

	return server.Router()
}

func doJSON(t *testing.T, handler http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodePair(t *testing.T, recorder *httptest.ResponseRecorder) auth.TokenPair {
	t.Helper()

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

// # Scenarios

/*
TestServer_SessionLifecycle walks the full credential lifecycle end to end:
register, use, refresh, replay the consumed token, logout, refresh again.
*/
func TestServer_SessionLifecycle(t *testing.T) {
	server := newTestServer(t)

	// Register yields 201 with a credential pair.
	response := doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "dev@keeply.app",
		"password": "hunter2hunter2",
		"name":     "Dev",
	})
	require.Equal(t, http.StatusCreated, response.Code)
	pair := decodePair(t, response)

	// The access token opens protected routes.
	response = doJSON(t, server, http.MethodGet, "/users/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, response.Code)

	var profile account.Profile
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &profile))
	assert.Equal(t, "dev@keeply.app", profile.Email)
	assert.Equal(t, "Dev", profile.Name)

	// Refresh rotates the pair.
	response = doJSON(t, server, http.MethodPost, "/auth/refresh", pair.RefreshToken, nil)
	require.Equal(t, http.StatusOK, response.Code)
	rotated := decodePair(t, response)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The consumed refresh token is dead.
	response = doJSON(t, server, http.MethodPost, "/auth/refresh", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, response.Code)

	// Logout with the new access token.
	response = doJSON(t, server, http.MethodPost, "/auth/logout", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, response.Code)

	// The rotated refresh token died with the session.
	response = doJSON(t, server, http.MethodPost, "/auth/refresh", rotated.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, response.Code)

	// Access tokens are not revoked by logout; they simply age out.
	response = doJSON(t, server, http.MethodGet, "/users/me", rotated.AccessToken, nil)
	assert.Equal(t, http.StatusOK, response.Code)
}

/*
TestServer_LoginFailures verifies the credential-failure statuses on the
wire: 403 for bad credentials, 401 for gate rejections.
*/
func TestServer_LoginFailures(t *testing.T) {
	server := newTestServer(t)

	response := doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "dev@keeply.app",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, response.Code)

	t.Run("wrong_password_is_403", func(t *testing.T) {
		response := doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "dev@keeply.app",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusForbidden, response.Code)
	})

	t.Run("unknown_email_is_identical_403", func(t *testing.T) {
		response := doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "nobody@keeply.app",
			"password": "hunter2hunter2",
		})
		assert.Equal(t, http.StatusForbidden, response.Code)
	})

	t.Run("missing_token_is_401", func(t *testing.T) {
		response := doJSON(t, server, http.MethodGet, "/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, response.Code)
	})

	t.Run("refresh_token_rejected_on_access_route", func(t *testing.T) {
		login := doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "dev@keeply.app",
			"password": "hunter2hunter2",
		})
		require.Equal(t, http.StatusOK, login.Code)
		pair := decodePair(t, login)

		response := doJSON(t, server, http.MethodGet, "/users/me", pair.RefreshToken, nil)
		assert.Equal(t, http.StatusUnauthorized, response.Code)
	})

	t.Run("duplicate_register_is_409", func(t *testing.T) {
		response := doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
			"email":    "dev@keeply.app",
			"password": "another",
		})
		assert.Equal(t, http.StatusConflict, response.Code)
	})

	t.Run("invalid_email_is_400", func(t *testing.T) {
		response := doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
			"email":    "not-an-email",
			"password": "hunter2hunter2",
		})
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})
}

/*
TestServer_ResourceOwnership verifies the owner-scoped CRUD surface and that
resources never leak across accounts.
*/
func TestServer_ResourceOwnership(t *testing.T) {
	server := newTestServer(t)

	alice := decodePair(t, doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "alice@keeply.app",
		"password": "hunter2hunter2",
	}))
	bob := decodePair(t, doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "bob@keeply.app",
		"password": "hunter2hunter2",
	}))

	// Alice creates a resource.
	response := doJSON(t, server, http.MethodPost, "/resources", alice.AccessToken, map[string]string{
		"title":   "Launch checklist",
		"content": "dry run on staging first",
	})
	require.Equal(t, http.StatusCreated, response.Code)

	var created resources.Resource
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Alice can read it back.
	response = doJSON(t, server, http.MethodGet, "/resources/"+created.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusOK, response.Code)

	// Bob gets 404, not 403: foreign resources are invisible.
	response = doJSON(t, server, http.MethodGet, "/resources/"+created.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, response.Code)

	// Partial update keeps the untouched field.
	response = doJSON(t, server, http.MethodPatch, "/resources/"+created.ID, alice.AccessToken, map[string]string{
		"title": "Launch checklist v2",
	})
	require.Equal(t, http.StatusOK, response.Code)

	var updated resources.Resource
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &updated))
	assert.Equal(t, "Launch checklist v2", updated.Title)
	assert.Equal(t, "dry run on staging first", updated.Content)

	// Bob's listing is empty; Alice's has one entry.
	response = doJSON(t, server, http.MethodGet, "/resources", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, response.Code)

	var listing struct {
		Data []resources.Resource `json:"data"`
		Meta pagination.Meta      `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &listing))
	assert.Empty(t, listing.Data)

	response = doJSON(t, server, http.MethodGet, "/resources", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, response.Code)
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &listing))
	assert.Len(t, listing.Data, 1)
	assert.Equal(t, 1, listing.Meta.Total)

	// Deletion is owner-scoped too.
	response = doJSON(t, server, http.MethodDelete, "/resources/"+created.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, response.Code)

	response = doJSON(t, server, http.MethodDelete, "/resources/"+created.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, response.Code)
}

/*
TestServer_AccountLifecycle verifies profile update and account deletion.
*/
func TestServer_AccountLifecycle(t *testing.T) {
	server := newTestServer(t)

	pair := decodePair(t, doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "dev@keeply.app",
		"password": "hunter2hunter2",
		"name":     "Dev",
	}))

	response := doJSON(t, server, http.MethodPatch, "/users/me", pair.AccessToken, map[string]string{
		"name": "Dev Renamed",
	})
	require.Equal(t, http.StatusOK, response.Code)

	var profile account.Profile
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &profile))
	assert.Equal(t, "Dev Renamed", profile.Name)

	response = doJSON(t, server, http.MethodDelete, "/users/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, response.Code)

	// The deleted account cannot refresh.
	response = doJSON(t, server, http.MethodPost, "/auth/refresh", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, response.Code)
}

/*
TestServer_Health verifies the orchestration probes.
*/
func TestServer_Health(t *testing.T) {
	server := newTestServer(t)

	response := doJSON(t, server, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, response.Code)

	response = doJSON(t, server, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, response.Code)
}
