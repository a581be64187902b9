// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, common body
decoding, and identity lookups, ensuring consistent error handling.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keeply/keeply/internal/platform/apperr"
	"github.com/keeply/keeply/internal/platform/ctxutil"
	"github.com/keeply/keeply/internal/platform/sec"
	"github.com/keeply/keeply/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
//
// Returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Identity extracts the authenticated identity from the request context.
//
// Returns nil if the request is not authenticated (exempt operation).
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

// RequiredIdentity returns the authenticated identity of the request.
//
// The gate runs before every non-exempt handler, so a missing identity here
// is a wiring defect, not a runtime condition: it surfaces as an internal
// error (500), never as an authentication failure the client could act on.
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Internal(errors.New("request: identity missing from context (handler mounted without gate)"))
	}
	return identity, nil
}

// RequiredUserID returns the subject ID of the currently authenticated user.
func RequiredUserID(request *http.Request) (string, error) {
	identity, err := RequiredIdentity(request)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}
