// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package totp provides a time-based one-time password (TOTP) implementation.
package totp

import (
	"time"

	"github.com/undernetirc/keyvault/internal/auth/oath"
)

// DefaultPeriod is the RFC 6238 recommended time step in seconds
const DefaultPeriod = 30

// now is replaced in tests
var now = time.Now

// TOTP represents a Time-based One-Time Password
type TOTP struct {
	oath.OTP
	period uint64
}

// New creates a new TOTP instance. A zero period falls back to DefaultPeriod.
func New(seed string, period uint64) (*TOTP, error) {
	otp, err := oath.New(seed)
	if err != nil {
		return nil, err
	}
	return &TOTP{OTP: otp, period: normalizePeriod(period)}, nil
}

// NewFromKey creates a TOTP instance from raw key bytes
func NewFromKey(key []byte, period uint64) *TOTP {
	return &TOTP{OTP: oath.NewFromKey(key), period: normalizePeriod(period)}
}

// Period returns the time step in seconds
func (totp *TOTP) Period() uint64 {
	return totp.period
}

// Generate returns the passcode for the current time and the seconds left
// in the current time step.
func (totp *TOTP) Generate() (string, uint64) {
	return totp.GenerateCustom(now())
}

// GenerateCustom generates a passcode for t
func (totp *TOTP) GenerateCustom(t time.Time) (string, uint64) {
	return totp.GenerateAt(unixSeconds(t))
}

// GenerateAt generates a passcode for a Unix timestamp. The remaining
// seconds equal the full period on a step boundary.
func (totp *TOTP) GenerateAt(timestamp uint64) (string, uint64) {
	counter := timestamp / totp.period
	remaining := totp.period - timestamp%totp.period
	return totp.GenerateOTP(counter), remaining
}

func (totp *TOTP) Validate(otp string) bool {
	return totp.ValidateCustom(otp, now())
}

// ValidateCustom checks if the provided OTP is valid at t
func (totp *TOTP) ValidateCustom(otp string, t time.Time) bool {
	return totp.ValidateAt(otp, unixSeconds(t))
}

// ValidateAt checks otp against the single time step containing timestamp
func (totp *TOTP) ValidateAt(otp string, timestamp uint64) bool {
	if !oath.ValidCode(otp) {
		return false
	}
	expected, _ := totp.GenerateAt(timestamp)
	return oath.Equal(expected, otp)
}

func normalizePeriod(period uint64) uint64 {
	if period == 0 {
		return DefaultPeriod
	}
	return period
}

func unixSeconds(t time.Time) uint64 {
	if t.Unix() < 0 {
		return 0
	}
	return uint64(t.Unix()) // nolint:gosec // negative values handled above
}
