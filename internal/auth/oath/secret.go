// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

package oath

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

// DefaultSecretSize is the secret length in bytes recommended by RFC 4226
const DefaultSecretSize = 20

// ErrDecode is returned when a secret is not valid Base32 text
var ErrDecode = errors.New("oath: invalid base32 secret")

// DecodeSecret converts displayable Base32 text into raw key bytes.
// Missing pad characters are restored before decoding.
func DecodeSecret(text string) ([]byte, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if n := len(s) % 8; n != 0 {
		s += strings.Repeat("=", 8-n)
	}

	key, err := base32.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty secret", ErrDecode)
	}

	return key, nil
}

// EncodeSecret returns the canonical unpadded Base32 form of key
func EncodeSecret(key []byte) string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(key), "=")
}

// GenerateSecret returns a random secret of size bytes in canonical Base32 form
func GenerateSecret(size int) (string, error) {
	if size <= 0 {
		size = DefaultSecretSize
	}

	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}

	return EncodeSecret(key), nil
}
