// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

// Package resources implements owner-scoped resource storage. Every
// operation is keyed by the authenticated user's identity; a resource is
// never visible outside its owner's scope.
package resources

import "time"

// Resource is a user-owned stored item.
type Resource struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
