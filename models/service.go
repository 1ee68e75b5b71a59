// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// This file needs to be manually updated with the new models based on the file querier.go

// Package models contains the database models
package models

import (
	"context"
)

// ServiceInterface is the storage contract consumed by the vault
type ServiceInterface interface {
	Querier
}

// Service is a wrapper around the database queries
type Service struct {
	db *Queries
}

// NewService creates a new Service
func NewService(db *Queries) *Service {
	return &Service{db: db}
}

// CreateKeychain inserts a new keychain record
func (s *Service) CreateKeychain(ctx context.Context, arg CreateKeychainParams) (Keychain, error) {
	return s.db.CreateKeychain(ctx, arg)
}

// DeleteKeychain deletes a keychain record and returns the number of rows removed
func (s *Service) DeleteKeychain(ctx context.Context, id int32) (int64, error) {
	return s.db.DeleteKeychain(ctx, id)
}

// GetKeychainByID gets a keychain record by ID
func (s *Service) GetKeychainByID(ctx context.Context, id int32) (Keychain, error) {
	return s.db.GetKeychainByID(ctx, id)
}

// ListKeychains lists all keychain records ordered by ID
func (s *Service) ListKeychains(ctx context.Context) ([]Keychain, error) {
	return s.db.ListKeychains(ctx)
}

// ListTableColumns lists the column names of a table in ordinal order
func (s *Service) ListTableColumns(ctx context.Context, tableName string) ([]string, error) {
	return s.db.ListTableColumns(ctx, tableName)
}

// SwapKeychainExt replaces the extension field of a keychain record only if
// it still holds arg.OldExt. pgx.ErrNoRows means the record changed or is gone.
func (s *Service) SwapKeychainExt(ctx context.Context, arg SwapKeychainExtParams) (Keychain, error) {
	return s.db.SwapKeychainExt(ctx, arg)
}

// UpdateKeychain updates the non-null fields of a keychain record
func (s *Service) UpdateKeychain(ctx context.Context, arg UpdateKeychainParams) (Keychain, error) {
	return s.db.UpdateKeychain(ctx, arg)
}

var _ ServiceInterface = (*Service)(nil)
