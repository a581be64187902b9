// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way hashing of plaintext secrets (passwords and refresh
// tokens) using bcrypt.
//
// # Properties
//
// bcrypt salts every digest, so hashing the same input twice yields different
// digests. The work factor is configurable per environment: high enough to
// resist brute force, bounded so login and refresh stay interactively fast.
type Hasher struct {
	cost int
}

// NewHasher creates a bcrypt-based [Hasher].
//
// A cost outside bcrypt's valid range falls back to [bcrypt.DefaultCost].
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash produces a salted digest of the given plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(normalize(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash secret: %w", err)
	}
	return string(digest), nil
}

// Verify compares a plaintext secret with a stored digest.
//
// The comparison is constant-time inside bcrypt. A mismatch is not an error
// condition — it returns false.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), normalize(plaintext)) == nil
}

// normalize works around bcrypt's 72-byte input limit.
//
// Signed refresh tokens exceed the limit, so long inputs are pre-digested
// with SHA-256 (64 hex bytes) before bcrypt. Short inputs (passwords) pass
// through untouched for compatibility with existing digests.
func normalize(plaintext string) []byte {
	if len(plaintext) <= 72 {
		return []byte(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(hex.EncodeToString(sum[:]))
}
