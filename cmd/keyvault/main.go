// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// keyvault is a command line credential vault with HOTP and TOTP support
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	dbm "github.com/undernetirc/keyvault/db"
	"github.com/undernetirc/keyvault/internal/config"
	"github.com/undernetirc/keyvault/internal/globals"
	"github.com/undernetirc/keyvault/internal/helper"
	"github.com/undernetirc/keyvault/internal/vault"
	"github.com/undernetirc/keyvault/models"
)

var (
	Version     = "0.0.1-dev"
	BuildDate   string
	BuildCommit string
)

const usage = `Usage: keyvault [global flags] <command> [flags]

Commands:
  list                  list all records
  search                search records by location, username or password
  add                   add a record
  update                change fields of a record
  delete                delete a record
  check-schema          verify the keychain table layout
  otp attach            attach an OTP credential to a record
  otp detach            remove the OTP credential of a record
  otp code              print the current code
  otp watch             print the code every tick until interrupted
  otp next              issue the next HOTP code and advance the counter
  otp verify            check a code, advancing the HOTP counter on success
  otp uri               print the otpauth provisioning URI
  otp qr                render the provisioning URI as a QR code
  otp secret            generate a random Base32 secret

Global flags:
`

// errUsage is returned when the command line cannot be understood
var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		globals.LogAndExit(err.Error(), 1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("keyvault", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to the configuration file or its directory")
	migrateUpOne := fs.Bool("migrate-up1", false, "run database migrations up by one and then exit")
	migrateDownOne := fs.Bool("migrate-down1", false, "run database migrations down by one and then exit")
	listMigrationFlag := fs.Bool("list-migrations", false, "list all SQL migrations and then exit")
	viewMigrationFlag := fs.String("view-migration", "", "view a specific SQL migration and then exit")
	versionFlag := fs.Bool("version", false, "print version and exit")
	fs.String("log-level", "", "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *versionFlag {
		if BuildCommit == "" {
			BuildCommit = "unknown"
		}
		fmt.Fprintf(stdout, "Version %s %s %s\n", Version, BuildCommit, BuildDate)
		return nil
	}

	// Initialize configuration
	config.InitConfig(*configPath)
	if err := config.LogLevel.BindFlag(fs.Lookup("log-level")); err != nil {
		return err
	}
	logger := helper.NewLogger(stderr, config.LogLevel.GetString(), config.LogFormat.GetString())
	slog.SetDefault(logger)

	if *listMigrationFlag {
		files, err := dbm.ListMigrations()
		if err != nil {
			return err
		}
		for _, file := range files {
			fmt.Fprintln(stdout, file)
		}
		return nil
	}

	if *viewMigrationFlag != "" {
		sqlFile := dbm.ViewMigration(*viewMigrationFlag)
		if sqlFile == nil {
			return fmt.Errorf("migration %q not found", *viewMigrationFlag)
		}
		_, err := stdout.Write(sqlFile)
		return err
	}

	if *migrateUpOne && *migrateDownOne {
		return errors.New("cannot run migrations for both up and down at the same time")
	}

	if fs.NArg() == 0 && !*migrateUpOne && !*migrateDownOne {
		fs.Usage()
		return errUsage
	}

	// Commands that do not need the database
	if a := newApp(nil, stdout, stderr); a.offline(fs.Args()) {
		return a.dispatch(ctx, fs.Args())
	}

	mgrHandler, err := dbm.NewMigrationHandler()
	if err != nil {
		return err
	}

	if *migrateUpOne {
		mgrHandler.MigrationStep(1)
	}

	if *migrateDownOne {
		mgrHandler.MigrationStep(-1)
	}

	// Run db migrations
	if config.DatabaseAutoMigration.GetBool() {
		if err := mgrHandler.RunMigrations(); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
	}

	// Connect to database
	pool, err := pgxpool.New(ctx, config.GetDbURI())
	if err != nil {
		return fmt.Errorf("failed to connect to the postgres database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to the postgres database: %w", err)
	}
	logger.Debug("Successfully connected to the postgres database")

	service := models.NewService(models.New(pool))
	v := vault.New(service,
		vault.WithLogger(logger),
		vault.WithHOTPTrials(config.OTPHotpTrials.GetUint64()),
		vault.WithSecretBytes(config.OTPSecretBytes.GetInt()),
		vault.WithIssuer(config.OTPIssuer.GetString()),
	)
	if err := v.Load(ctx); err != nil {
		return err
	}

	return newApp(v, stdout, stderr).dispatch(ctx, fs.Args())
}
