// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package db defines the database types and functions.
package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	// postgres driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/labstack/gommon/log"
	"github.com/undernetirc/keyvault/internal/config"
	"github.com/undernetirc/keyvault/internal/globals"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationHandler applies the embedded keychain schema migrations
type MigrationHandler struct {
	*migrate.Migrate
}

// NewMigrationHandler creates a migration handler against the configured database
func NewMigrationHandler() (*MigrationHandler, error) {
	return NewMigrationHandlerWithURI(config.GetDbURI())
}

// NewMigrationHandlerWithURI creates a migration handler against the given database URI
func NewMigrationHandlerWithURI(uri string) (*MigrationHandler, error) {
	d, err := iofs.New(&migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, uri)
	if err != nil {
		return nil, err
	}

	return &MigrationHandler{m}, nil
}

// MigrationStep moves the schema one step up or down and exits the process
func (m *MigrationHandler) MigrationStep(step int) {
	var msg string
	if step > 0 {
		msg = "up"
	} else {
		msg = "down"
	}

	if err := m.Steps(step); err != nil {
		globals.LogAndExit(fmt.Sprintf("failed to run migration %s: %s", msg, err), 1)
	}
	ver, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		globals.LogAndExit(err.Error(), 1)
	}
	globals.LogAndExit(fmt.Sprintf("successfully ran migration %s to version %d", msg, ver), 0)
}

// RunMigrations applies every pending migration
func (m *MigrationHandler) RunMigrations() error {
	log.Info("Running database migrations")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database migration: NO CHANGE")
		} else {
			return err
		}
	} else {
		log.Info("Database migration: SUCCESS")
	}
	return nil
}

// ListMigrations returns the embedded migration file paths
func ListMigrations() ([]string, error) {
	var files []string
	err := fs.WalkDir(&migrationFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ViewMigration returns the content of an embedded migration file, or nil if it does not exist
func ViewMigration(file string) []byte {
	f, _ := migrationFS.ReadFile(file)
	return f
}
