// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

package hotp

import (
	"encoding/base32"
	"math"
	"testing"

	"github.com/pquerna/otp"
	pqhotp "github.com/pquerna/otp/hotp"
	"github.com/stretchr/testify/require"
	"gopkg.in/go-playground/assert.v1"
)

// Interop tests taken from http://tools.ietf.org/html/rfc4226#appendix-D

var rfcSeed = base32.StdEncoding.EncodeToString([]byte("12345678901234567890"))

func newRFC(t *testing.T) *HOTP {
	h, err := New(rfcSeed)
	require.NoError(t, err)
	return h
}

func TestGenerateHotp(t *testing.T) {
	hotp := newRFC(t)
	assert.Equal(t, "755224", hotp.Generate(0))
	assert.Equal(t, "287082", hotp.Generate(1))
	assert.Equal(t, "359152", hotp.Generate(2))
	assert.Equal(t, "969429", hotp.Generate(3))
	assert.Equal(t, "338314", hotp.Generate(4))
	assert.Equal(t, "254676", hotp.Generate(5))
	assert.Equal(t, "287922", hotp.Generate(6))
	assert.Equal(t, "162583", hotp.Generate(7))
	assert.Equal(t, "399871", hotp.Generate(8))
	assert.Equal(t, "520489", hotp.Generate(9))
}

func TestNewFromKey(t *testing.T) {
	hotp := NewFromKey([]byte("12345678901234567890"))
	assert.Equal(t, "755224", hotp.Generate(0))
}

func TestValidateWithinWindow(t *testing.T) {
	hotp := newRFC(t)
	const last, trials = uint64(10), uint64(20)

	for k := uint64(1); k <= trials; k++ {
		counter, ok := hotp.Validate(hotp.Generate(last+k), last, trials)
		assert.Equal(t, true, ok)
		assert.Equal(t, last+k, counter)
	}
}

func TestValidateOutsideWindow(t *testing.T) {
	hotp := newRFC(t)

	// counter 3 is at or before last
	_, ok := hotp.Validate("969429", 3, 10)
	assert.Equal(t, false, ok)

	// counter 9 lies beyond last+trials
	_, ok = hotp.Validate("520489", 0, 8)
	assert.Equal(t, false, ok)

	counter, ok := hotp.Validate("520489", 0, 9)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(9), counter)
}

func TestValidateFirstMatchWins(t *testing.T) {
	hotp := newRFC(t)

	// counters 336 and 2205 share a passcode under the RFC 4226 seed
	require.Equal(t, "143951", hotp.Generate(336))
	require.Equal(t, "143951", hotp.Generate(2205))

	counter, ok := hotp.Validate("143951", 0, 2205)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(336), counter)

	// once 336 is consumed the later counter is the only match
	counter, ok = hotp.Validate("143951", 336, 2000)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(2205), counter)
}

func TestValidateRejectsMalformedCodes(t *testing.T) {
	hotp := newRFC(t)
	for _, code := range []string{"", "28708a", "2870822", "+87082", "28708 "} {
		_, ok := hotp.Validate(code, 0, 100)
		assert.Equal(t, false, ok)
	}

	// well-formed but short codes never match a six digit passcode
	_, ok := hotp.Validate("87082", 0, 100)
	assert.Equal(t, false, ok)
}

func TestValidateZeroTrials(t *testing.T) {
	hotp := newRFC(t)
	_, ok := hotp.Validate("287082", 0, 0)
	assert.Equal(t, false, ok)
}

func TestValidateStopsAtCounterLimit(t *testing.T) {
	hotp := newRFC(t)
	code := hotp.Generate(math.MaxUint64)

	counter, ok := hotp.Validate(code, math.MaxUint64-1, 100)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(math.MaxUint64), counter)

	_, ok = hotp.Validate(hotp.Generate(0), math.MaxUint64, 100)
	assert.Equal(t, false, ok)
}

func TestGenerateMatchesReferenceImplementation(t *testing.T) {
	hotp, err := New("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	for counter := uint64(0); counter < 200; counter++ {
		want, err := pqhotp.GenerateCodeCustom("JBSWY3DPEHPK3PXP", counter, pqhotp.ValidateOpts{
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)
		assert.Equal(t, want, hotp.Generate(counter))
	}
}
