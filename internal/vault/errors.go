// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package vault

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrRecordNotFound is returned when no record has the requested ID
	ErrRecordNotFound = errors.New("vault: record not found")
	// ErrDuplicateRecord is returned when a location and username pair already exists
	ErrDuplicateRecord = errors.New("vault: record with this location and username already exists")
	// ErrEmptyField is returned when a required record field is empty
	ErrEmptyField = errors.New("vault: location, username and password must not be empty")
	// ErrInvalidField is returned when a record field fails validation
	ErrInvalidField = errors.New("vault: invalid field")
	// ErrNoOTP is returned for OTP operations on a record without a credential
	ErrNoOTP = errors.New("vault: record has no OTP credential")
	// ErrStaleRecord is returned when the store copy of a record changed since it was loaded
	ErrStaleRecord = errors.New("vault: record was changed by another writer")
	// ErrSchemaMismatch is returned when the keychain table does not have the expected columns
	ErrSchemaMismatch = errors.New("vault: keychain schema mismatch")
)

const uniqueViolation = "23505"

// storeError maps database errors onto the vault sentinel errors
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateRecord
	}
	return err
}
