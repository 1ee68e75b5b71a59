// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package config provides typed access to the viper configuration
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// K is a configuration key
type K string

const (
	DatabaseHost          K = "database.host"
	DatabasePort          K = "database.port"
	DatabaseUsername      K = "database.username"
	DatabasePassword      K = "database.password"
	DatabaseName          K = "database.name"
	DatabaseAutoMigration K = "database.auto_migration"

	OTPPeriod      K = "otp.period"
	OTPHotpTrials  K = "otp.hotp_trials"
	OTPSecretBytes K = "otp.secret_bytes"
	OTPIssuer      K = "otp.issuer"

	VaultDisplayLimit K = "vault.display_limit"

	LogLevel  K = "log.level"
	LogFormat K = "log.format"

	WatchCron     K = "watch.cron"
	WatchTimeZone K = "watch.timezone"
)

const envPrefix = "KEYVAULT"

// GetString returns the value of the key as a string
func (k K) GetString() string {
	return viper.GetString(string(k))
}

// GetStringSlice returns the value of the key as a slice of strings
func (k K) GetStringSlice() []string {
	return viper.GetStringSlice(string(k))
}

// GetBool returns the value of the key as a bool
func (k K) GetBool() bool {
	return viper.GetBool(string(k))
}

// GetInt returns the value of the key as an int
func (k K) GetInt() int {
	return viper.GetInt(string(k))
}

// GetUint returns the value of the key as an uint
func (k K) GetUint() uint {
	return viper.GetUint(string(k))
}

// GetUint64 returns the value of the key as an uint64
func (k K) GetUint64() uint64 {
	return viper.GetUint64(string(k))
}

// GetDuration returns the value of the key as a time.Duration
func (k K) GetDuration() time.Duration {
	return viper.GetDuration(string(k))
}

// Set sets the value of the key
func (k K) Set(value interface{}) {
	viper.Set(string(k), value)
}

// DefaultConfig sets the default configuration values
func DefaultConfig() {
	viper.SetDefault(string(DatabaseHost), "localhost")
	viper.SetDefault(string(DatabasePort), 5432)
	viper.SetDefault(string(DatabaseUsername), "keyvault")
	viper.SetDefault(string(DatabasePassword), "keyvault")
	viper.SetDefault(string(DatabaseName), "keyvault")
	viper.SetDefault(string(DatabaseAutoMigration), true)

	viper.SetDefault(string(OTPPeriod), 30)
	viper.SetDefault(string(OTPHotpTrials), 100)
	viper.SetDefault(string(OTPSecretBytes), 20)
	viper.SetDefault(string(OTPIssuer), "KeyVault")

	viper.SetDefault(string(VaultDisplayLimit), 5)

	viper.SetDefault(string(LogLevel), "info")
	viper.SetDefault(string(LogFormat), "text")

	viper.SetDefault(string(WatchCron), "@every 1s")
	viper.SetDefault(string(WatchTimeZone), "UTC")
}

// InitConfig loads defaults, the configuration file and the environment.
// configPath may be a file or a directory containing config.yml; an empty
// path searches the working directory and /etc/keyvault.
func InitConfig(configPath string) {
	DefaultConfig()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		if configPath != "" {
			viper.AddConfigPath(configPath)
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/keyvault")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("No configuration file found, using defaults and environment")
		} else {
			slog.Error("Failed to read configuration file", "error", err)
		}
	}
}

// BindFlag lets a command line flag override the value of the key
func (k K) BindFlag(flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("config: no flag to bind to %s", k)
	}
	return viper.BindPFlag(string(k), flag)
}

// GetDbURI returns the postgres connection URI
func GetDbURI() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		DatabaseUsername.GetString(),
		DatabasePassword.GetString(),
		DatabaseHost.GetString(),
		DatabasePort.GetString(),
		DatabaseName.GetString(),
	)
}
