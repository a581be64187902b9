// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

/*
Package guard enforces bearer-token authentication on every API operation.

Every operation is gated by default. Exemptions are declarative: each route is
registered together with an explicit [Policy], and the zero value of Policy is
"require an access token" — an operation only escapes the gate when its
registration says so. There is no annotation scanning or reflection; the
policy table IS the route table.

# Two-tier exemption

The refresh endpoint is the single operation that authenticates with a refresh
token: it is exempt from the default access-token gate AND additionally
guarded by the refresh-token gate. Login and register are the only operations
with no gate at all.

# Ordering guarantee

A handler behind the gate never observes a partially authenticated request:
the gate either attaches a complete [sec.Identity] to the context or rejects
with 401 before the handler executes.
*/
package guard

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/keeply/keeply/internal/platform/apperr"
	"github.com/keeply/keeply/internal/platform/constants"
	"github.com/keeply/keeply/internal/platform/ctxutil"
	"github.com/keeply/keeply/internal/platform/respond"
	"github.com/keeply/keeply/internal/platform/sec"
)

// # Policies

// Policy selects which credential an operation must present.
type Policy int

const (
	// PolicyAccess is the default: the operation requires a bearer access
	// token. Being the zero value, any operation registered without an
	// explicit policy is gated.
	PolicyAccess Policy = iota

	// PolicyPublic exempts the operation from authentication entirely.
	// The handler runs with no identity attached.
	PolicyPublic

	// PolicyRefresh exempts the operation from the access-token gate but
	// guards it with the refresh-token gate instead.
	PolicyRefresh
)

// Operation is the explicit per-operation configuration record consulted by
// the gate. Handlers declare their operations; the server mounts them.
type Operation struct {
	Method  string
	Pattern string
	Policy  Policy
	Handler http.HandlerFunc
}

// # Gate

// TokenVerifier is the narrow verification surface the gate depends on.
//
// Defining it here decouples the gate from the token service implementation,
// allowing mocks to be injected during unit testing.
type TokenVerifier interface {
	VerifyAccess(token string) (*sec.Claims, error)
	VerifyRefresh(token string) (*sec.Claims, error)
}

// Gate verifies bearer credentials per the registered policy and attaches
// the authenticated identity to the request context.
type Gate struct {
	verifier TokenVerifier
}

// NewGate constructs a [Gate] around a token verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Mount registers each operation on the router with its policy enforced.
func (gate *Gate) Mount(router chi.Router, operations []Operation) {
	for _, operation := range operations {
		router.Method(operation.Method, operation.Pattern, gate.Wrap(operation))
	}
}

// Wrap returns the operation's handler behind the gate its policy demands.
func (gate *Gate) Wrap(operation Operation) http.HandlerFunc {
	switch operation.Policy {
	case PolicyPublic:
		return operation.Handler
	case PolicyRefresh:
		return gate.authenticate(operation.Handler, gate.verifier.VerifyRefresh)
	default:
		return gate.authenticate(operation.Handler, gate.verifier.VerifyAccess)
	}
}

// authenticate enforces bearer verification before the handler runs.
//
// # Flow
//  1. Extract the token from 'Authorization: Bearer <token>'; absent or
//     malformed headers fail with 401.
//  2. Verify with the secret the policy selects; any failure is 401. The
//     response does not reveal whether the signature, expiry, or shape failed.
//  3. Attach [sec.Identity] to the context and run the handler.
func (gate *Gate) authenticate(next http.HandlerFunc, verify func(string) (*sec.Claims, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		token, err := bearerToken(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		claims, err := verify(token)
		if err != nil {
			respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Token:  token,
		})

		next.ServeHTTP(writer, request.WithContext(ctx))
	}
}

// bearerToken extracts the credential from the Authorization header.
//
// Only the exact 'Bearer <token>' shape is accepted.
func bearerToken(request *http.Request) (string, error) {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return "", apperr.Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) || parts[1] == "" {
		return "", apperr.Unauthorized("Invalid authorization format")
	}

	return parts[1], nil
}
