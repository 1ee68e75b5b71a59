// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package oath implements the HMAC-based one-time password core shared by
// the hotp and totp packages.
package oath

import (
	"crypto/hmac"

	// SHA1 is required by RFC 4226 (HOTP) and RFC 6238 (TOTP)
	// nolint:gosec // SHA1 is used as part of HMAC-SHA1 which is still secure for this use case
	"crypto/sha1"
	"encoding/binary"
	"fmt"
)

const (
	// Digits is the passcode length
	Digits = 6
	// modulus is 10^Digits
	modulus = 1_000_000
)

type OTP struct {
	key []byte
}

// New creates an OTP from a Base32 seed. An empty seed generates a new
// random secret.
func New(seed string) (OTP, error) {
	if seed == "" {
		var err error
		seed, err = GenerateSecret(DefaultSecretSize)
		if err != nil {
			return OTP{}, err
		}
	}

	key, err := DecodeSecret(seed)
	if err != nil {
		return OTP{}, err
	}
	return OTP{key: key}, nil
}

// NewFromKey creates an OTP from raw key bytes
func NewFromKey(key []byte) OTP {
	k := make([]byte, len(key))
	copy(k, key)
	return OTP{key: k}
}

// GenerateOTP returns the HOTP value for input as a zero-padded decimal string
func (otp *OTP) GenerateOTP(input uint64) string {
	h := hmac.New(sha1.New, otp.key)
	h.Write(itob(input))
	s := h.Sum(nil)

	// dynamic truncation, RFC 4226 section 5.3
	o := s[len(s)-1] & 0xf
	v := binary.BigEndian.Uint32(s[o:o+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", Digits, v%modulus)
}

// ValidCode reports whether code looks like a passcode a user could have
// typed: one to Digits ASCII digits.
func ValidCode(code string) bool {
	if code == "" || len(code) > Digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func itob(input uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, input)
	return buf
}
