// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package auth

import "context"

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation for Keeply is PostgreSQL (store_postgres.go).
// Tests use in-memory fakes.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email (exact match).
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account.
	//
	// Returns [apperr.Conflict] if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// UpdateProfile persists changes to mutable profile fields and returns
	// the updated record. Passwords and session state have dedicated methods
	// to prevent accidental overwrites.
	UpdateProfile(ctx context.Context, id string, name string) (*User, error)

	// UpdateRefreshTokenHash overwrites the stored session hash.
	//
	// This is the session store adapter: a non-nil hash moves the user to
	// the ActiveSession state, nil clears the session (logout). Concurrent
	// writers race with last-writer-wins semantics — no version check is
	// performed, matching the single-active-session model.
	UpdateRefreshTokenHash(ctx context.Context, id string, hash *string) error

	// Delete permanently removes the account.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	Delete(ctx context.Context, id string) error
}
