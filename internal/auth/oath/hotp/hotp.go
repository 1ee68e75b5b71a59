// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package hotp provides a counter-based one-time password (HOTP) implementation.
package hotp

import (
	"math"

	"github.com/undernetirc/keyvault/internal/auth/oath"
)

// DefaultTrials is the validation window size used when none is configured
const DefaultTrials = 100

type HOTP struct {
	oath.OTP
}

func New(seed string) (*HOTP, error) {
	otp, err := oath.New(seed)
	if err != nil {
		return nil, err
	}
	return &HOTP{OTP: otp}, nil
}

func NewFromKey(key []byte) *HOTP {
	return &HOTP{OTP: oath.NewFromKey(key)}
}

func (h *HOTP) Generate(counter uint64) string {
	return h.GenerateOTP(counter)
}

// Validate searches counters last+1 through last+trials in ascending order
// and returns the first one whose passcode matches otp.
func (h *HOTP) Validate(otp string, last, trials uint64) (uint64, bool) {
	if !oath.ValidCode(otp) {
		return 0, false
	}

	for i := uint64(1); i <= trials; i++ {
		if last > math.MaxUint64-i {
			break
		}
		counter := last + i
		if oath.Equal(h.Generate(counter), otp) {
			return counter, true
		}
	}
	return 0, false
}
