// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package resources

import (
	"context"

	"github.com/keeply/keeply/pkg/pagination"
	"github.com/keeply/keeply/pkg/uuid"
)

// Service implements owner-scoped resource use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// CreateInput carries the fields for a new resource.
type CreateInput struct {
	Title   string
	Content string
}

// Create stores a new resource under the given owner.
func (service *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Resource, error) {
	resource := &Resource{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   input.Title,
		Content: input.Content,
	}

	return service.repository.Create(ctx, resource)
}

// Get returns one of the owner's resources.
func (service *Service) Get(ctx context.Context, ownerID, id string) (*Resource, error) {
	return service.repository.FindByOwnerAndID(ctx, ownerID, id)
}

// List returns a page of the owner's resources with pagination metadata.
func (service *Service) List(ctx context.Context, ownerID string, params pagination.Params) ([]Resource, pagination.Meta, error) {
	items, total, err := service.repository.ListByOwner(ctx, ownerID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return items, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateInput carries the mutable resource fields.
type UpdateInput struct {
	Title   string
	Content string
}

// Update changes one of the owner's resources.
func (service *Service) Update(ctx context.Context, ownerID, id string, input UpdateInput) (*Resource, error) {
	return service.repository.Update(ctx, ownerID, id, input.Title, input.Content)
}

// Delete removes one of the owner's resources.
func (service *Service) Delete(ctx context.Context, ownerID, id string) error {
	return service.repository.Delete(ctx, ownerID, id)
}
