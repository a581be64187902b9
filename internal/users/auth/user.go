// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

/*
Package auth implements the user identity and session-token subsystem.

It owns credential issuance at registration and login, per-request credential
material (via the platform token service), refresh-token rotation, and logout
revocation.

# Architecture

This layer is the "Truth" of the system. The [User] entity and the session
state machine defined here encapsulate all business rules related to identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Keeply platform.
//
// # Session model
//
// RefreshTokenHash is the single mutable session field: it holds the bcrypt
// hash of the most recently issued refresh token, or nil when no session is
// active. At most one refresh token is valid per user at any time.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"-"` // Explicitly omitted from JSON for security.
	// RefreshTokenHash is nil in the NoSession state. A presented refresh
	// token that does not verify against this hash is invalid even when its
	// signature and expiry are fine — this is what makes logout and rotation
	// effective before token expiry.
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TokenPair is the credential pair returned by register, login, and refresh.
//
// Both tokens are opaque signed strings to the caller. The pair is never
// persisted; it can only be reconstructed by issuing a new one. The JSON keys
// are part of the external API contract.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// # Field Identifiers

// Global field names for validation in the authentication domain.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)
