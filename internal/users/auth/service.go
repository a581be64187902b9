// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package auth

import (
	"context"
	"fmt"

	"github.com/keeply/keeply/internal/platform/apperr"
	"github.com/keeply/keeply/internal/platform/sec"
	"github.com/keeply/keeply/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for generating the credential pair.
//
// Verification is deliberately absent: the request gate verifies tokens
// before this service runs, so the service only ever issues.
type TokenIssuer interface {
	// IssueAccess creates a signed short-lived access token.
	IssueAccess(userID, email string) (string, error)

	// IssueRefresh creates a signed long-lived refresh token.
	IssueRefresh(userID, email string) (string, error)
}

// Service implements the authentication use cases and owns the per-user
// session state machine:
//
//	NoSession (RefreshTokenHash nil) <-> ActiveSession (RefreshTokenHash set)
//
// Register, Login, and Refresh move a user into ActiveSession by overwriting
// the stored hash; Logout clears it. No operation retries internally — every
// failure is either a client error surfaced immediately or a storage failure
// propagated unchanged.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, rotation,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	hasher         *sec.Hasher
	tokenIssuer    TokenIssuer
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, hasher *sec.Hasher, issuer TokenIssuer) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		tokenIssuer:    issuer,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email    string
	Password string
	Name     string // optional
}

/*
Register validates, hashes, and persists a brand new user account, then
establishes a session exactly as Login does.

Description: Fails with Conflict if the email is already registered; the
failing attempt mutates nothing and issues no tokens.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *TokenPair: Fresh credential pair for the new account
  - err: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*TokenPair, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	// The unique constraint in storage backstops the race between the check
	// and the insert.
	if _, err := service.userRepository.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords.
	passwordHash, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity in the NoSession state.
	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	// Token issuance behaves exactly like Login: the new account ends up in
	// ActiveSession with a stored refresh-token hash.
	return service.establishSession(ctx, user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues a fresh credential pair.

Description: Verifies identity via constant-time password comparison and
overwrites any prior session — logging in again silently invalidates the
previous refresh token.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *TokenPair: New session credentials
  - err: Forbidden (unknown email or wrong password, indistinguishable) or
    internal failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := service.userRepository.FindByEmail(ctx, input.Email)

	// Unknown email and wrong password produce the same response to prevent
	// user enumeration.
	if err != nil {
		return nil, apperr.Forbidden("Access denied")
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Forbidden("Access denied")
	}

	return service.establishSession(ctx, user)
}

// # Session Management

/*
Refresh implements refresh-token rotation.

Description: The gate has already verified the presented token's signature
against the refresh secret; this method re-loads the user and enforces the
stored-hash invariant, then rotates — the old refresh token becomes
permanently unusable even though it has not expired.

Parameters:
  - ctx: context.Context
  - userID: subject extracted by the refresh gate
  - presentedToken: the raw refresh token from the Authorization header

Returns:
  - *TokenPair: Rotated credentials
  - err: Unauthorized (user gone, already logged out, or stale/forged token)
    or storage failures
*/
func (service *Service) Refresh(ctx context.Context, userID, presentedToken string) (*TokenPair, error) {

	// A user deleted mid-refresh is an invalid session, not a crash.
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Access denied")
		}
		return nil, err
	}

	// NoSession: already logged out.
	if user.RefreshTokenHash == nil {
		return nil, apperr.Unauthorized("Access denied")
	}

	// Stale, rotated, or forged token: the signature was fine but the hash
	// does not match the last issued refresh token.
	if !service.hasher.Verify(presentedToken, *user.RefreshTokenHash) {
		return nil, apperr.Unauthorized("Access denied")
	}

	// Rotation: issuing the new pair overwrites the stored hash, so the
	// presented token can never be replayed. Concurrent refreshes resolve
	// last-writer-wins; the loser's pair fails its next hash check.
	return service.establishSession(ctx, user)
}

/*
Logout clears the user's active session.

Description: Unconditionally sets the stored refresh-token hash to null, so
the operation is idempotent — logging out twice is not an error. Previously
issued access tokens remain cryptographically valid until their short expiry;
revocation works purely through the hash check on refresh.

Parameters:
  - ctx: context.Context
  - userID: subject extracted by the access gate

Returns:
  - err: Storage failures only
*/
func (service *Service) Logout(ctx context.Context, userID string) error {
	if err := service.userRepository.UpdateRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// establishSession issues a new access+refresh pair and records the hash of
// the refresh token as the user's single active session.
func (service *Service) establishSession(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := service.tokenIssuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenIssuer.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	refreshHash, err := service.hasher.Hash(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdateRefreshTokenHash(ctx, user.ID, &refreshHash); err != nil {
		return nil, fmt.Errorf("auth_service_session_write_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
