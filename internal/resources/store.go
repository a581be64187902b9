// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package resources

import (
	"context"

	"github.com/keeply/keeply/pkg/pagination"
)

// Repository is the persistence port for resources. Reads and writes are
// always scoped by owner; there is no cross-owner lookup.
type Repository interface {
	// FindByOwnerAndID returns a single resource, or a NotFound error when
	// the resource does not exist or belongs to a different owner.
	FindByOwnerAndID(ctx context.Context, ownerID, id string) (*Resource, error)

	// ListByOwner returns a page of the owner's resources, newest first,
	// together with the owner's total count.
	ListByOwner(ctx context.Context, ownerID string, params pagination.Params) ([]Resource, int, error)

	// Create persists a new resource.
	Create(ctx context.Context, resource *Resource) (*Resource, error)

	// Update applies the given title and content. NotFound when the target
	// is missing or not owned by ownerID.
	Update(ctx context.Context, ownerID, id, title, content string) (*Resource, error)

	// Delete removes the resource. NotFound when nothing was removed.
	Delete(ctx context.Context, ownerID, id string) error
}
