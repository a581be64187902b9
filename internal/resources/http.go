// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package resources

import (
	"net/http"

	"github.com/keeply/keeply/internal/platform/guard"
	requestutil "github.com/keeply/keeply/internal/platform/request"
	"github.com/keeply/keeply/internal/platform/respond"
	"github.com/keeply/keeply/internal/platform/validate"
	"github.com/keeply/keeply/pkg/pagination"
	"github.com/keeply/keeply/pkg/pointer"
)

const maxTitleLength = 200

// Handler implements the resource HTTP endpoints.
type Handler struct {
	resourceService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{resourceService: service}
}

// Operations declares the resource routes. All of them ride the default
// access gate.
func (handler *Handler) Operations() []guard.Operation {
	return []guard.Operation{
		{Method: http.MethodPost, Pattern: "/", Handler: handler.create},
		{Method: http.MethodGet, Pattern: "/", Handler: handler.list},
		{Method: http.MethodGet, Pattern: "/{id}", Handler: handler.get},
		{Method: http.MethodPatch, Pattern: "/{id}", Handler: handler.update},
		{Method: http.MethodDelete, Pattern: "/{id}", Handler: handler.delete},
	}
}

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

/*
create stores a new resource owned by the current user.

POST /resources

Response:
  - 201: Resource
  - 400: Bad input or validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, maxTitleLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	resource, err := handler.resourceService.Create(request.Context(), ownerID, CreateInput{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, resource)
}

/*
list returns a page of the current user's resources.

GET /resources?page=&limit=

Response:
  - 200: ListEnvelope of Resource with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	items, meta, err := handler.resourceService.List(request.Context(), ownerID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, meta)
}

/*
get returns a single resource owned by the current user.

GET /resources/{id}

Response:
  - 200: Resource
  - 404: Unknown id, or owned by someone else
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	resource, err := handler.resourceService.Get(request.Context(), ownerID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, resource)
}

type updateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

/*
update applies a partial change to one of the current user's resources.
Absent fields keep their stored values.

PATCH /resources/{id}

Response:
  - 200: Updated Resource
  - 400: Bad input or validation failure
  - 404: Unknown id, or owned by someone else
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)
	if input.Title != nil {
		validator.Required("title", *input.Title).
			MaxLen("title", *input.Title, maxTitleLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	current, err := handler.resourceService.Get(request.Context(), ownerID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	resource, err := handler.resourceService.Update(request.Context(), ownerID, id, UpdateInput{
		Title:   pointer.Fallback(input.Title, current.Title),
		Content: pointer.Fallback(input.Content, current.Content),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, resource)
}

/*
delete removes one of the current user's resources.

DELETE /resources/{id}

Response:
  - 204: Resource removed
  - 404: Unknown id, or owned by someone else
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.resourceService.Delete(request.Context(), ownerID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
