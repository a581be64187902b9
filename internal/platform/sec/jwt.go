// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. It acts as an infrastructure service injected into the
// application layer via narrow interfaces.
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keeply/keeply/pkg/uuid"
)

// ErrInvalidToken is the single verification failure surfaced to callers.
//
// Bad signature, expiry, malformed payload, and wrong signing algorithm all
// collapse into this one error so that callers cannot tell (and therefore
// cannot leak) which check failed.
var ErrInvalidToken = errors.New("sec: invalid token")

// Claims represents the payload embedded inside a Keeply JWT.
//
// # Why custom claims?
//
// By embedding the user ID and email directly inside the JWT, the request
// gate can reconstruct the authenticated identity WITHOUT querying the
// database on every API request.
type Claims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Email  string `json:"eml"`
}

// TokenService issues and verifies the two session credentials:
//
//   - access tokens: short-lived, presented on every ordinary API call;
//   - refresh tokens: long-lived, presented only to the refresh endpoint.
//
// The two kinds are signed with independent HS256 secrets and independent
// expiries. This separation is a core security property: compromising the
// access-token secret must not allow forging refresh tokens, and vice versa.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenService creates a [TokenService] from explicit configuration.
//
// Secrets are passed in at construction, never read from ambient state.
// Construction fails if either secret is empty or the two are equal.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: both token secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// IssueAccess creates a signed short-lived access token for the given subject.
func (service *TokenService) IssueAccess(userID, email string) (string, error) {
	return service.issue(userID, email, service.accessSecret, service.accessTTL)
}

// IssueRefresh creates a signed long-lived refresh token for the given subject.
func (service *TokenService) IssueRefresh(userID, email string) (string, error) {
	return service.issue(userID, email, service.refreshSecret, service.refreshTTL)
}

// VerifyAccess checks the signature and validity of an access token.
//
// Any failure is reported as [ErrInvalidToken].
func (service *TokenService) VerifyAccess(token string) (*Claims, error) {
	return service.verify(token, service.accessSecret)
}

// VerifyRefresh checks the signature and validity of a refresh token.
//
// Any failure is reported as [ErrInvalidToken]. Note that a refresh token
// that verifies here may still be rejected by the auth service if it no
// longer matches the stored hash (rotation and logout are enforced there).
func (service *TokenService) VerifyRefresh(token string) (*Claims, error) {
	return service.verify(token, service.refreshSecret)
}

// AccessTTL reports the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

func (service *TokenService) issue(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// Timestamps have second resolution, so without a unique ID two
			// tokens issued back to back would be byte-identical and defeat
			// rotation.
			ID: uuid.New(),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Join(errors.New("sec: failed to sign token"), err)
	}

	return signed, nil
}

func (service *TokenService) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
