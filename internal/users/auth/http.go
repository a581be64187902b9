// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package auth

import (
	"net/http"

	"github.com/keeply/keeply/internal/platform/guard"
	requestutil "github.com/keeply/keeply/internal/platform/request"
	"github.com/keeply/keeply/internal/platform/respond"
	"github.com/keeply/keeply/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// The handler is a thin mediation layer between the web and the [Service]:
// it owns transport concerns (status codes, JSON shapes, validation) and
// nothing else.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Operations declares the auth routes together with their gate policies.
//
// # Endpoints
//   - POST /register : public — creates an account and a session.
//   - POST /login    : public — authenticates and establishes a session.
//   - POST /logout   : access gate — clears the session.
//   - POST /refresh  : refresh gate — rotates the credential pair. This is
//     the single operation authenticated by a refresh token: exempt from the
//     default access gate, guarded by the refresh gate instead.
func (handler *Handler) Operations() []guard.Operation {
	return []guard.Operation{
		{Method: http.MethodPost, Pattern: "/register", Policy: guard.PolicyPublic, Handler: handler.register},
		{Method: http.MethodPost, Pattern: "/login", Policy: guard.PolicyPublic, Handler: handler.login},
		{Method: http.MethodPost, Pattern: "/logout", Handler: handler.logout},
		{Method: http.MethodPost, Pattern: "/refresh", Policy: guard.PolicyRefresh, Handler: handler.refresh},
	}
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
register handles the creation of a new user account.

POST /auth/register

Response:
  - 201: TokenPair for the new account
  - 400: Bad input or validation failure
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, pair)
}

/*
login authenticates a user and establishes a session.

POST /auth/login

Response:
  - 200: TokenPair
  - 400: Bad input or validation failure
  - 403: Invalid credentials (unknown email and wrong password are identical)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
logout terminates the authenticated user's session.

POST /auth/logout

Response:
  - 200: Empty object; idempotent — logging out twice is still 200
  - 401: Missing or invalid access token (rejected by the gate)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, struct{}{})
}

/*
refresh rotates the session using a valid refresh token.

POST /auth/refresh

The refresh gate has verified the bearer token against the refresh secret and
attached the identity (including the raw presented token) to the context; the
service enforces the stored-hash invariant on top.

Response:
  - 200: New TokenPair; the presented refresh token is now unusable
  - 401: Missing/invalid/stale refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), identity.UserID, identity.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}
