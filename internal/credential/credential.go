// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package credential parses and evaluates the OTP credential stored in a
// keychain record's extension field.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/undernetirc/keyvault/internal/auth/oath"
	"github.com/undernetirc/keyvault/internal/auth/oath/hotp"
	"github.com/undernetirc/keyvault/internal/auth/oath/totp"
	"github.com/undernetirc/keyvault/internal/helper"
)

// ErrInvalidCredential is returned when an extension field does not hold a
// complete OTP credential
var ErrInvalidCredential = errors.New("credential: invalid OTP credential")

// Credential is an OTP credential. For HOTP, Counter is the moving factor
// of the next code to be issued and is always at least 1.
type Credential struct {
	Type    string `json:"type" validate:"required,otptype"`
	Name    string `json:"name" validate:"required,notrimmed,nocontrolchars,max=255"`
	Secret  string `json:"secret" validate:"required,otpsecret"`
	Issuer  string `json:"issuer" validate:"required,notrimmed,nocontrolchars,max=255"`
	Counter uint64 `json:"counter,omitempty" validate:"required_if=Type hotp"`
	Period  uint64 `json:"period,omitempty" validate:"omitempty,min=1,max=86400"`
}

var (
	validatorOnce sync.Once
	validate      *helper.Validator
)

func getValidator() *helper.Validator {
	validatorOnce.Do(func() {
		validate = helper.NewValidator()
	})
	return validate
}

// Parse reads a credential from an extension field. It returns either a
// fully populated credential or an error wrapping ErrInvalidCredential.
func Parse(ext string) (Credential, error) {
	if strings.TrimSpace(ext) == "" {
		return Credential{}, fmt.Errorf("%w: empty extension field", ErrInvalidCredential)
	}

	var c Credential
	if err := json.Unmarshal([]byte(ext), &c); err != nil {
		return Credential{}, fmt.Errorf("%w: %s", ErrInvalidCredential, err)
	}
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))

	if err := c.Validate(); err != nil {
		return Credential{}, err
	}
	return c, nil
}

// Validate checks that every required field is present and well formed
func (c Credential) Validate() error {
	c.Type = strings.ToLower(c.Type)
	if err := getValidator().Validate(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCredential, err)
	}
	return nil
}

// Marshal returns the extension field form of the credential
func (c Credential) Marshal() (string, error) {
	c.Type = strings.ToLower(c.Type)
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.Type == string(oath.TypeTOTP) {
		c.Counter = 0
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// OTPType returns the parsed OTP type
func (c Credential) OTPType() (oath.Type, error) {
	return oath.ParseType(c.Type)
}

// IsHOTP reports whether the credential is counter based
func (c Credential) IsHOTP() bool {
	t, err := c.OTPType()
	return err == nil && t == oath.TypeHOTP
}

// EffectivePeriod returns the TOTP step, falling back to the default
func (c Credential) EffectivePeriod() uint64 {
	if c.Period == 0 {
		return totp.DefaultPeriod
	}
	return c.Period
}

func (c Credential) key() ([]byte, error) {
	key, err := oath.DecodeSecret(c.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredential, err)
	}
	return key, nil
}

// Passcode returns the current code. For TOTP it is the code of the time
// step containing at, together with the seconds left in that step. For HOTP
// it is the code at Counter and remaining is 0.
func (c Credential) Passcode(at time.Time) (code string, remaining uint64, err error) {
	key, err := c.key()
	if err != nil {
		return "", 0, err
	}
	if c.IsHOTP() {
		return hotp.NewFromKey(key).Generate(c.Counter), 0, nil
	}
	code, remaining = totp.NewFromKey(key, c.EffectivePeriod()).GenerateCustom(at)
	return code, remaining, nil
}

// Next issues the HOTP code at Counter and returns the credential with the
// counter advanced past it
func (c Credential) Next() (string, Credential, error) {
	if !c.IsHOTP() {
		return "", c, fmt.Errorf("%w: next code requires a hotp credential", oath.ErrInvalidArgument)
	}
	key, err := c.key()
	if err != nil {
		return "", c, err
	}
	if c.Counter == math.MaxUint64 {
		return "", c, fmt.Errorf("%w: hotp counter exhausted", oath.ErrInvalidArgument)
	}
	code := hotp.NewFromKey(key).Generate(c.Counter)
	c.Counter++
	return code, c, nil
}

// Verify checks a user supplied code. HOTP codes are searched in the window
// [Counter, Counter+trials-1]; on a match the returned credential has its
// counter moved past the matched value. A match on the last representable
// counter cannot be consumed and is reported as an error. TOTP codes are
// checked against the time step containing at.
func (c Credential) Verify(code string, at time.Time, trials uint64) (updated Credential, ok bool, err error) {
	key, err := c.key()
	if err != nil {
		return c, false, err
	}
	if !c.IsHOTP() {
		return c, totp.NewFromKey(key, c.EffectivePeriod()).ValidateCustom(code, at), nil
	}

	if trials == 0 {
		trials = hotp.DefaultTrials
	}
	var last uint64
	if c.Counter > 0 {
		last = c.Counter - 1
	}
	matched, ok := hotp.NewFromKey(key).Validate(code, last, trials)
	if !ok {
		return c, false, nil
	}
	if matched == math.MaxUint64 {
		return c, false, fmt.Errorf("%w: hotp counter exhausted", oath.ErrInvalidArgument)
	}
	c.Counter = matched + 1
	return c, true, nil
}

// URI returns the otpauth provisioning URI of the credential
func (c Credential) URI() (string, error) {
	key, err := c.key()
	if err != nil {
		return "", err
	}
	counter := c.Counter
	if !c.IsHOTP() {
		counter = 0
	}
	return oath.ToURI(c.Type, c.Name, c.Issuer, oath.EncodeSecret(key), counter)
}
