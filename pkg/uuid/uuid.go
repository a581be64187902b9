// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to specifically generate Version 7 values,
which are naturally ordered by creation time and therefore B-tree friendly as
PostgreSQL primary keys.

This is the mandatory ID type for all primary keys in Keeply.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}
