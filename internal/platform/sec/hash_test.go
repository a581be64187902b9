// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeply/keeply/internal/platform/sec"
)

/*
TestHasher_RoundTrip verifies that a digest verifies against its own
plaintext and nothing else.
*/
func TestHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewHasher(4) // MinCost keeps the test fast

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, hasher.Verify("correct horse battery staple", digest))
	assert.False(t, hasher.Verify("correct horse battery stapl", digest))
	assert.False(t, hasher.Verify("", digest))
}

/*
TestHasher_NonDeterministic verifies that hashing the same input twice
produces different digests (per-digest salt).
*/
func TestHasher_NonDeterministic(t *testing.T) {
	hasher := sec.NewHasher(4)

	first, err := hasher.Hash("same input")
	require.NoError(t, err)

	second, err := hasher.Hash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same input", first))
	assert.True(t, hasher.Verify("same input", second))
}

/*
TestHasher_LongInput verifies that inputs past bcrypt's 72-byte limit (such
as signed refresh tokens) still hash and verify correctly.
*/
func TestHasher_LongInput(t *testing.T) {
	hasher := sec.NewHasher(4)

	long := strings.Repeat("a", 300)
	digest, err := hasher.Hash(long)
	require.NoError(t, err)

	assert.True(t, hasher.Verify(long, digest))
	// A divergence past byte 72 must still be detected.
	assert.False(t, hasher.Verify(long[:299]+"b", digest))
}

/*
TestNewHasher_CostClamp verifies that out-of-range costs fall back to the
bcrypt default rather than failing at hash time.
*/
func TestNewHasher_CostClamp(t *testing.T) {
	for _, cost := range []int{-1, 0, 3, 32, 100} {
		hasher := sec.NewHasher(cost)

		digest, err := hasher.Hash("password")
		require.NoError(t, err, "cost %d", cost)
		assert.True(t, hasher.Verify("password", digest))
	}
}
