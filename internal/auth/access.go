// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// AccessCodeDigits is the length of the numeric verification code.
const AccessCodeDigits = 6

// AccessTokenBytes is the entropy of an access session token.
const AccessTokenBytes = 32

// GenerateAccessCode returns a uniformly random six digit code, zero padded.
func GenerateAccessCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generating access code: %w", err)
	}
	return fmt.Sprintf("%0*d", AccessCodeDigits, n.Int64()), nil
}

// CodeHasher keys verification code hashes with a server secret, so a
// leaked table cannot be reversed by enumerating the million codes.
type CodeHasher struct {
	secret []byte
}

// NewCodeHasher returns a hasher keyed with secret.
func NewCodeHasher(secret []byte) *CodeHasher {
	return &CodeHasher{secret: secret}
}

// Hash binds code to the requesting email address.
func (h *CodeHasher) Hash(email, code string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	mac.Write([]byte{0})
	mac.Write([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether code hashes to expected for email.
func (h *CodeHasher) Verify(email, code, expected string) bool {
	return hmac.Equal([]byte(h.Hash(email, code)), []byte(expected))
}

// GenerateAccessToken returns an opaque URL-safe token.
func GenerateAccessToken() (string, error) {
	b := make([]byte, AccessTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashAccessToken returns the hex SHA-256 of token, the form stored in the database.
func HashAccessToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
