// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package sec

// Identity is the request-scoped authenticated subject.
//
// It is attached to the request context by the gate after a bearer token
// verifies, read by downstream handlers through the context accessors, and
// discarded at the end of the request. It is never persisted.
type Identity struct {
	// UserID is the stable subject identifier carried in the token.
	UserID string

	// Email is the subject's email as claimed at token issuance. It is used
	// for lookup convenience only, never as the security principal.
	Email string

	// Token is the raw presented credential. The refresh flow needs it to
	// compare against the stored hash.
	Token string
}
