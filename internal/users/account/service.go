// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

// Package account implements the authenticated user's own profile
// operations. It shares the user repository with the auth package but
// exposes a redacted view: credential material never leaves the service.
package account

import (
	"context"
	"time"

	"github.com/keeply/keeply/internal/users/auth"
)

// Profile is the outward-facing view of a user account. It is an explicit
// allow-list; new persistence columns stay private until added here.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service implements profile reads and writes for the current user.
type Service struct {
	userRepository auth.UserRepository
}

// NewService constructs a new [Service].
func NewService(userRepo auth.UserRepository) *Service {
	return &Service{userRepository: userRepo}
}

// Get returns the profile of the given user.
func (service *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	Name string
}

// Update changes the user's profile and returns the updated view.
func (service *Service) Update(ctx context.Context, userID string, input UpdateInput) (*Profile, error) {
	user, err := service.userRepository.UpdateProfile(ctx, userID, input.Name)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// Delete removes the user account. Deleting the row implicitly ends the
// session: the refresh hash disappears with it, and subsequent refresh
// attempts fail identity resolution.
func (service *Service) Delete(ctx context.Context, userID string) error {
	return service.userRepository.Delete(ctx, userID)
}

func toProfile(user *auth.User) *Profile {
	return &Profile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
