// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package oath

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Type is the OTP algorithm family
type Type string

const (
	TypeHOTP Type = "hotp"
	TypeTOTP Type = "totp"
)

// ErrInvalidArgument is returned for an unknown OTP type or a missing HOTP counter
var ErrInvalidArgument = errors.New("oath: invalid argument")

// ParseType normalizes s to a known OTP type
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeHOTP, TypeTOTP:
		return t, nil
	default:
		return "", fmt.Errorf("%w: type must be hotp or totp, got %q", ErrInvalidArgument, s)
	}
}

// ToURI formats an otpauth:// provisioning URI. HOTP requires a non-zero counter.
func ToURI(otpType, label, issuer, secret string, counter uint64) (string, error) {
	t, err := ParseType(otpType)
	if err != nil {
		return "", err
	}
	if t == TypeHOTP && counter == 0 {
		return "", fmt.Errorf("%w: hotp provisioning needs a counter", ErrInvalidArgument)
	}

	uri := fmt.Sprintf("otpauth://%s/%s?secret=%s&issuer=%s",
		t, url.PathEscape(label), url.QueryEscape(secret), url.QueryEscape(issuer))
	if t == TypeHOTP {
		uri += "&counter=" + strconv.FormatUint(counter, 10)
	}
	return uri, nil
}
