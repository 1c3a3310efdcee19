// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestGenerateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateAccessCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 150, "codes should rarely repeat")
}

func TestCodeHasher(t *testing.T) {
	h := NewCodeHasher([]byte("0123456789abcdef0123456789abcdef"))

	hash := h.Hash("Buyer@Example.com ", "123456")
	assert.True(t, h.Verify("buyer@example.com", "123456", hash), "email should be normalized")
	assert.False(t, h.Verify("buyer@example.com", "123457", hash))
	assert.False(t, h.Verify("other@example.com", "123456", hash))

	other := NewCodeHasher([]byte("another secret of sufficient len"))
	assert.False(t, other.Verify("buyer@example.com", "123456", hash), "hash must depend on the secret")
}

func TestAccessToken(t *testing.T) {
	a, err := GenerateAccessToken()
	require.NoError(t, err)
	b, err := GenerateAccessToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43) // 32 bytes, unpadded base64url
	assert.Len(t, HashAccessToken(a), 64)
	assert.Equal(t, HashAccessToken(a), HashAccessToken(a))
	assert.NotEqual(t, HashAccessToken(a), HashAccessToken(b))
}
