// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package vault keeps the keychain records in memory and writes changes
// through to the store.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/undernetirc/keyvault/db"
	"github.com/undernetirc/keyvault/internal/auth/oath/hotp"
	"github.com/undernetirc/keyvault/internal/helper"
	"github.com/undernetirc/keyvault/models"
)

// TableName is the table holding the keychain records
const TableName = "keychain"

// ExpectedColumns lists the keychain columns in ordinal order
var ExpectedColumns = []string{"id", "loc", "usr", "pwd", "ext", "last_updated"}

// Vault is the record service. It is safe for concurrent use.
type Vault struct {
	mu      sync.RWMutex
	service models.ServiceInterface
	records []*Record

	logger      *slog.Logger
	validate    *helper.Validator
	hotpTrials  uint64
	secretBytes int
	issuer      string
	now         func() time.Time
}

// Option configures a Vault
type Option func(*Vault)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vault) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithHOTPTrials sets the size of the HOTP validation window
func WithHOTPTrials(trials uint64) Option {
	return func(v *Vault) {
		if trials > 0 {
			v.hotpTrials = trials
		}
	}
}

// WithSecretBytes sets the size of generated OTP secrets
func WithSecretBytes(n int) Option {
	return func(v *Vault) {
		if n > 0 {
			v.secretBytes = n
		}
	}
}

// WithIssuer sets the issuer used when a credential is attached without one
func WithIssuer(issuer string) Option {
	return func(v *Vault) {
		v.issuer = issuer
	}
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(v *Vault) {
		if now != nil {
			v.now = now
		}
	}
}

// New creates a vault backed by service. Call Load before use.
func New(service models.ServiceInterface, opts ...Option) *Vault {
	v := &Vault{
		service:    service,
		logger:     slog.Default(),
		validate:   helper.NewValidator(),
		hotpTrials: hotp.DefaultTrials,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load replaces the in-memory records with the content of the store
func (v *Vault) Load(ctx context.Context) error {
	rows, err := v.service.ListKeychains(ctx)
	if err != nil {
		return fmt.Errorf("failed to load keychain: %w", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}

	v.mu.Lock()
	v.records = records
	v.mu.Unlock()

	v.logger.Debug("Loaded keychain", "records", len(records))
	return nil
}

// Records returns copies of all records ordered by ID
func (v *Vault) Records() []*Record {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]*Record, 0, len(v.records))
	for _, r := range v.records {
		out = append(out, r.Clone())
	}
	return out
}

// Get returns a copy of the record with the given ID
func (v *Vault) Get(id int32) (*Record, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	idx := v.indexOf(id)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	return v.records[idx].Clone(), nil
}

// indexOf must be called with the lock held
func (v *Vault) indexOf(id int32) int {
	return slices.IndexFunc(v.records, func(r *Record) bool { return r.id == id })
}

// exists must be called with the lock held
func (v *Vault) exists(location, username string, except int32) bool {
	return slices.ContainsFunc(v.records, func(r *Record) bool {
		return r.id != except && r.location == location && r.username == username
	})
}

type recordInput struct {
	Location string `json:"location" validate:"required,nocontrolchars,max=2048"`
	Username string `json:"username" validate:"required,nocontrolchars,max=255"`
	Password string `json:"password" validate:"required,nocontrolchars,max=1024"`
}

func (v *Vault) checkFields(location, username, password string) error {
	if strings.TrimSpace(location) == "" || strings.TrimSpace(username) == "" || password == "" {
		return ErrEmptyField
	}
	if err := v.validate.Validate(recordInput{Location: location, Username: username, Password: password}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidField, err)
	}
	return nil
}

// Insert stores a new record. Empty fields and an existing location and
// username pair are rejected.
func (v *Vault) Insert(ctx context.Context, location, username, password string) (*Record, error) {
	r := NewRecord(location, username, password)
	if err := v.checkFields(r.location, r.username, r.password); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.exists(r.location, r.username, 0) {
		return nil, ErrDuplicateRecord
	}

	row, err := v.service.CreateKeychain(ctx, models.CreateKeychainParams{
		Loc: r.location,
		Usr: r.username,
		Pwd: r.password,
		Ext: r.extension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", storeError(err))
	}

	r = recordFromRow(row)
	v.records = append(v.records, r)
	v.logger.Info("Record added", "id", r.id, "location", r.location, "username", r.username)
	return r.Clone(), nil
}

// Save writes the unsaved fields of r to the store. Only changed columns are
// sent; a record without changes is not written.
func (v *Vault) Save(ctx context.Context, r *Record) error {
	if len(r.UnsavedFields()) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.indexOf(r.id)
	if idx < 0 {
		return ErrRecordNotFound
	}
	saved, err := v.save(ctx, idx, r)
	if err != nil {
		return err
	}
	*r = *saved.Clone()
	return nil
}

// update applies fn to a copy of record id and saves the result. The write
// lock is held from the read through the save, so concurrent updates of the
// same record are applied one after the other.
func (v *Vault) update(ctx context.Context, id int32, fn func(r *Record) error) (*Record, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.indexOf(id)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	r := v.records[idx].Clone()
	if err := fn(r); err != nil {
		return nil, err
	}
	if len(r.UnsavedFields()) == 0 {
		return r, nil
	}
	saved, err := v.save(ctx, idx, r)
	if err != nil {
		return nil, err
	}
	return saved.Clone(), nil
}

// save must be called with the lock held. A change limited to the extension
// field only succeeds while the store still holds the extension this vault
// loaded, which keeps HOTP counters from going backwards when several
// processes share the keychain.
func (v *Vault) save(ctx context.Context, idx int, r *Record) (*Record, error) {
	cols := r.UnsavedFields()
	if err := v.checkFields(r.location, r.username, r.password); err != nil {
		return nil, err
	}
	if (r.IsUnsaved(ColumnLocation) || r.IsUnsaved(ColumnUsername)) && v.exists(r.location, r.username, r.id) {
		return nil, ErrDuplicateRecord
	}

	var (
		row models.Keychain
		err error
	)
	if len(cols) == 1 && cols[0] == ColumnExtension {
		row, err = v.service.SwapKeychainExt(ctx, models.SwapKeychainExtParams{
			ID:     r.id,
			Ext:    r.extension,
			OldExt: v.records[idx].extension,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, v.reload(ctx, idx)
		}
	} else {
		params := models.UpdateKeychainParams{ID: r.id}
		for _, col := range cols {
			switch col {
			case ColumnLocation:
				params.Loc = db.NewString(r.location)
			case ColumnUsername:
				params.Usr = db.NewString(r.username)
			case ColumnPassword:
				params.Pwd = db.NewString(r.password)
			case ColumnExtension:
				params.Ext = db.NewString(r.extension)
			}
		}
		row, err = v.service.UpdateKeychain(ctx, params)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update record %d: %w", r.id, storeError(err))
	}

	saved := recordFromRow(row)
	v.records[idx] = saved
	v.logger.Info("Record updated", "id", r.id, "columns", cols)
	return saved, nil
}

// reload refreshes the in-memory copy at idx after a lost conditional write
// and returns the error describing why the write was refused. It must be
// called with the lock held.
func (v *Vault) reload(ctx context.Context, idx int) error {
	id := v.records[idx].id
	row, err := v.service.GetKeychainByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			v.records = slices.Delete(v.records, idx, idx+1)
			v.logger.Warn("Record removed by another writer", "id", id)
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to reload record %d: %w", id, err)
	}
	v.records[idx] = recordFromRow(row)
	v.logger.Warn("Record changed by another writer", "id", id)
	return ErrStaleRecord
}

// Delete removes a record from the store
func (v *Vault) Delete(ctx context.Context, id int32) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.indexOf(id)
	if idx < 0 {
		return ErrRecordNotFound
	}

	n, err := v.service.DeleteKeychain(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, storeError(err))
	}
	if n == 0 {
		v.logger.Warn("Record already removed from store", "id", id)
	}

	v.records = slices.Delete(v.records, idx, idx+1)
	v.logger.Info("Record deleted", "id", id)
	return nil
}

// CheckSchema verifies that the keychain table has the expected columns
func (v *Vault) CheckSchema(ctx context.Context) error {
	cols, err := v.service.ListTableColumns(ctx, TableName)
	if err != nil {
		return fmt.Errorf("failed to read %s columns: %w", TableName, err)
	}
	if !slices.Equal(cols, ExpectedColumns) {
		return fmt.Errorf("%w: want %v, got %v", ErrSchemaMismatch, ExpectedColumns, cols)
	}
	return nil
}
