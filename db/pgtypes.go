// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package db defines the database types and functions.
package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// NewString returns a new pgtype.Text
func NewString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

// NewTimestamp returns a new pgtype.Timestamp
func NewTimestamp(t time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{Time: t, Valid: true}
}

// TextToString returns the string value, or an empty string for NULL
func TextToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// TimestampToTime returns the time value, or the zero time for NULL
func TimestampToTime(t pgtype.Timestamp) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
