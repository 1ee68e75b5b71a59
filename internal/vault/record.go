// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package vault

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/undernetirc/keyvault/db"
	"github.com/undernetirc/keyvault/internal/credential"
	"github.com/undernetirc/keyvault/models"
)

// Column identifies a persisted record field
type Column int

const (
	ColumnLocation Column = iota
	ColumnUsername
	ColumnPassword
	ColumnExtension
)

// String returns the database column name
func (c Column) String() string {
	switch c {
	case ColumnLocation:
		return "loc"
	case ColumnUsername:
		return "usr"
	case ColumnPassword:
		return "pwd"
	case ColumnExtension:
		return "ext"
	default:
		return fmt.Sprintf("Column(%d)", int(c))
	}
}

// Record is a keychain entry with per-field change tracking. A Record
// returned by the vault is a copy; changes reach the store through Vault.Save.
type Record struct {
	id          int32
	location    string
	username    string
	password    string
	extension   string
	lastUpdated time.Time
	unsaved     map[Column]struct{}
}

// NewRecord creates an unsaved record. Every field is marked unsaved.
func NewRecord(location, username, password string) *Record {
	r := &Record{
		location: location,
		username: username,
		password: password,
		unsaved:  make(map[Column]struct{}),
	}
	r.markUnsaved(ColumnLocation)
	r.markUnsaved(ColumnUsername)
	r.markUnsaved(ColumnPassword)
	return r
}

func recordFromRow(row models.Keychain) *Record {
	return &Record{
		id:          row.ID,
		location:    row.Loc,
		username:    row.Usr,
		password:    row.Pwd,
		extension:   row.Ext,
		lastUpdated: db.TimestampToTime(row.LastUpdated),
		unsaved:     make(map[Column]struct{}),
	}
}

// ID returns the record identifier, 0 for a record never saved
func (r *Record) ID() int32 { return r.id }

// Location returns the location the credential belongs to
func (r *Record) Location() string { return r.location }

// Username returns the username
func (r *Record) Username() string { return r.username }

// Password returns the plain password
func (r *Record) Password() string { return r.password }

// Extension returns the raw extension field
func (r *Record) Extension() string { return r.extension }

// LastUpdated returns the time of the last write to the store
func (r *Record) LastUpdated() time.Time { return r.lastUpdated }

// SetLocation changes the location. Setting an equal value is a no-op.
func (r *Record) SetLocation(v string) { r.set(&r.location, v, ColumnLocation) }

// SetUsername changes the username. Setting an equal value is a no-op.
func (r *Record) SetUsername(v string) { r.set(&r.username, v, ColumnUsername) }

// SetPassword changes the password. Setting an equal value is a no-op.
func (r *Record) SetPassword(v string) { r.set(&r.password, v, ColumnPassword) }

// SetExtension changes the extension field. Setting an equal value is a no-op.
func (r *Record) SetExtension(v string) { r.set(&r.extension, v, ColumnExtension) }

func (r *Record) set(field *string, v string, col Column) {
	if *field == v {
		return
	}
	*field = v
	r.markUnsaved(col)
}

func (r *Record) markUnsaved(col Column) {
	if r.unsaved == nil {
		r.unsaved = make(map[Column]struct{})
	}
	r.unsaved[col] = struct{}{}
}

// UnsavedFields returns the columns changed since the last save, in column order
func (r *Record) UnsavedFields() []Column {
	cols := make([]Column, 0, len(r.unsaved))
	for col := range r.unsaved {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })
	return cols
}

// IsUnsaved reports whether col changed since the last save
func (r *Record) IsUnsaved(col Column) bool {
	_, ok := r.unsaved[col]
	return ok
}

// AfterSaving clears the change set
func (r *Record) AfterSaving() {
	r.unsaved = make(map[Column]struct{})
}

// HasOTP reports whether the extension field holds a credential
func (r *Record) HasOTP() bool {
	return strings.TrimSpace(r.extension) != ""
}

// OTP parses the credential out of the extension field
func (r *Record) OTP() (credential.Credential, error) {
	if !r.HasOTP() {
		return credential.Credential{}, ErrNoOTP
	}
	return credential.Parse(r.extension)
}

// SetOTP stores c in the extension field
func (r *Record) SetOTP(c credential.Credential) error {
	ext, err := c.Marshal()
	if err != nil {
		return err
	}
	r.SetExtension(ext)
	return nil
}

// ClearOTP removes the credential from the extension field
func (r *Record) ClearOTP() {
	r.SetExtension("")
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	c := *r
	c.unsaved = make(map[Column]struct{}, len(r.unsaved))
	for col := range r.unsaved {
		c.unsaved[col] = struct{}{}
	}
	return &c
}
