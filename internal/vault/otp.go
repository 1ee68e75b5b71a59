// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/undernetirc/keyvault/internal/auth/oath"
	"github.com/undernetirc/keyvault/internal/credential"
)

// Passcode is the current code of a record's credential
type Passcode struct {
	ID        int32
	Type      oath.Type
	Code      string
	Remaining uint64
	Period    uint64
	Counter   uint64
}

// AttachOTP stores an OTP credential on a record. A missing secret is
// generated, a missing issuer defaults to the configured one and a HOTP
// credential without a counter starts at 1.
func (v *Vault) AttachOTP(ctx context.Context, id int32, c credential.Credential) (*Record, error) {
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.Secret == "" {
		var err error
		if c.Secret, err = oath.GenerateSecret(v.secretBytes); err != nil {
			return nil, fmt.Errorf("failed to generate secret: %w", err)
		}
	}
	if c.Issuer == "" {
		c.Issuer = v.issuer
	}
	if c.IsHOTP() && c.Counter == 0 {
		c.Counter = 1
	}

	r, err := v.update(ctx, id, func(r *Record) error {
		if c.Name == "" {
			c.Name = r.Username()
		}
		return r.SetOTP(c)
	})
	if err != nil {
		return nil, err
	}
	v.logger.Info("OTP credential attached", "id", id, "type", c.Type)
	return r, nil
}

// DetachOTP removes the OTP credential from a record
func (v *Vault) DetachOTP(ctx context.Context, id int32) error {
	_, err := v.update(ctx, id, func(r *Record) error {
		if !r.HasOTP() {
			return ErrNoOTP
		}
		r.ClearOTP()
		return nil
	})
	if err != nil {
		return err
	}
	v.logger.Info("OTP credential detached", "id", id)
	return nil
}

func (v *Vault) credential(id int32) (credential.Credential, error) {
	r, err := v.Get(id)
	if err != nil {
		return credential.Credential{}, err
	}
	return r.OTP()
}

// Passcode returns the current code of a record. It does not touch the
// store, so the refresh scheduler may call it every second.
func (v *Vault) Passcode(id int32) (Passcode, error) {
	c, err := v.credential(id)
	if err != nil {
		return Passcode{}, err
	}
	code, remaining, err := c.Passcode(v.now())
	if err != nil {
		return Passcode{}, err
	}
	t, _ := c.OTPType()
	p := Passcode{ID: id, Type: t, Code: code, Remaining: remaining}
	if c.IsHOTP() {
		p.Counter = c.Counter
	} else {
		p.Period = c.EffectivePeriod()
	}
	return p, nil
}

// staleRetries bounds how often a counter update is retried after another
// process moved the same counter
const staleRetries = 3

// retryStale runs fn again while it fails with ErrStaleRecord. The failed
// write has already reloaded the record, so each attempt sees the latest
// counter.
func retryStale(fn func() error) error {
	var err error
	for range staleRetries {
		if err = fn(); !errors.Is(err, ErrStaleRecord) {
			return err
		}
	}
	return err
}

// NextHOTP issues the next HOTP code of a record and persists the advanced
// counter. The counter is read and written under the vault lock, so no two
// callers receive the same code.
func (v *Vault) NextHOTP(ctx context.Context, id int32) (string, error) {
	var code string
	err := retryStale(func() error {
		_, err := v.update(ctx, id, func(r *Record) error {
			c, err := r.OTP()
			if err != nil {
				return err
			}
			var next credential.Credential
			if code, next, err = c.Next(); err != nil {
				return err
			}
			return r.SetOTP(next)
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP checks a user supplied code against a record's credential. A
// matching HOTP code moves the persisted counter past the matched value so
// the code cannot be used again. The check and the counter update happen
// under the vault lock, so of two callers presenting the same HOTP code only
// the first is accepted.
func (v *Vault) VerifyOTP(ctx context.Context, id int32, code string) (bool, error) {
	at := v.now()

	var ok bool
	err := retryStale(func() error {
		ok = false
		_, err := v.update(ctx, id, func(r *Record) error {
			c, err := r.OTP()
			if err != nil {
				return err
			}
			var updated credential.Credential
			if updated, ok, err = c.Verify(code, at, v.hotpTrials); err != nil || !ok {
				return err
			}
			if updated.Counter == c.Counter {
				return nil
			}
			return r.SetOTP(updated)
		})
		return err
	})
	if err != nil {
		if ok {
			return false, fmt.Errorf("failed to persist hotp counter: %w", err)
		}
		return false, err
	}
	if !ok {
		v.logger.Warn("OTP verification failed", "id", id)
	}
	return ok, nil
}

// ProvisioningURI returns the otpauth URI of a record's credential
func (v *Vault) ProvisioningURI(id int32) (string, error) {
	c, err := v.credential(id)
	if err != nil {
		return "", err
	}
	return c.URI()
}
