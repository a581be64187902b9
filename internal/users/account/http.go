// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package account

import (
	"net/http"

	"github.com/keeply/keeply/internal/platform/guard"
	requestutil "github.com/keeply/keeply/internal/platform/request"
	"github.com/keeply/keeply/internal/platform/respond"
	"github.com/keeply/keeply/internal/platform/validate"
)

const maxNameLength = 120

// Handler implements the profile HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Operations declares the profile routes. All of them ride the default
// access gate; none are public.
func (handler *Handler) Operations() []guard.Operation {
	return []guard.Operation{
		{Method: http.MethodGet, Pattern: "/me", Handler: handler.get},
		{Method: http.MethodPatch, Pattern: "/me", Handler: handler.update},
		{Method: http.MethodDelete, Pattern: "/me", Handler: handler.delete},
	}
}

/*
get returns the current user's profile.

GET /users/me

Response:
  - 200: Profile
  - 404: Account no longer exists
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

type updateRequest struct {
	Name string `json:"name"`
}

/*
update changes the current user's profile.

PATCH /users/me

Response:
  - 200: Updated Profile
  - 400: Bad input or validation failure
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, maxNameLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Update(request.Context(), userID, UpdateInput{Name: input.Name})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
delete removes the current user's account.

DELETE /users/me

Response:
  - 204: Account removed
  - 404: Already removed
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
