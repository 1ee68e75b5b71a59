// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package cron provides cron job scheduling using the robfig/cron library
package cron

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/undernetirc/keyvault/internal/vault"
)

// PasscodeSource yields the current code of a record
type PasscodeSource interface {
	Passcode(id int32) (vault.Passcode, error)
}

// RefreshFunc receives the result of every passcode refresh
type RefreshFunc func(p vault.Passcode, err error)

// Scheduler manages cron jobs using the robfig/cron library
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// Config holds configuration for the cron scheduler
type Config struct {
	// RefreshCron is the schedule of the passcode refresh job.
	// Default: "@every 1s"
	RefreshCron string
	// TimeZone for cron jobs (default: UTC)
	TimeZone string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		RefreshCron: "@every 1s",
		TimeZone:    "UTC",
	}
}

// NewScheduler creates a new cron scheduler. Schedules take an optional
// leading seconds field.
func NewScheduler(config Config, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	location, err := time.LoadLocation(config.TimeZone)
	if err != nil {
		return nil, err
	}

	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	c := cron.New(
		cron.WithLocation(location),
		cron.WithParser(parser),
		cron.WithLogger(&cronLogger{logger}),
		cron.WithChain(
			cron.Recover(&cronLogger{logger}),             // Recover from panics
			cron.SkipIfStillRunning(&cronLogger{logger}), // Drop ticks while the previous run is busy
		),
	)

	return &Scheduler{
		cron:   c,
		logger: logger,
	}, nil
}

// AddPasscodeRefreshJob refreshes the passcode of record id on every tick
// and hands the result to fn
func (s *Scheduler) AddPasscodeRefreshJob(cronExpr string, id int32, source PasscodeSource, fn RefreshFunc) error {
	return s.AddJob(cronExpr, fmt.Sprintf("passcode-refresh-%d", id), func() {
		p, err := source.Passcode(id)
		if err != nil {
			s.logger.Error("Passcode refresh failed", "id", id, "error", err)
		} else {
			s.logger.Debug("Passcode refreshed", "id", id, "remaining", p.Remaining)
		}
		fn(p, err)
	})
}

// AddJob adds a generic cron job
func (s *Scheduler) AddJob(cronExpr string, jobName string, job func()) error {
	_, err := s.cron.AddFunc(cronExpr, func() {
		s.logger.Debug("Starting cron job", "job", jobName)
		start := time.Now()

		job()

		duration := time.Since(start)
		s.logger.Debug("Cron job completed", "job", jobName, "duration", duration)
	})

	if err != nil {
		return err
	}

	s.logger.Debug("Added cron job", "job", jobName, "cron", cronExpr)
	return nil
}

// Start starts the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Debug("Cron scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Debug("Cron scheduler stopped")
}

// GetEntries returns information about scheduled jobs
func (s *Scheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

// NextRun returns the earliest upcoming run of any job, zero when nothing
// is scheduled or the scheduler has not been started
func (s *Scheduler) NextRun() time.Time {
	var next time.Time
	for _, e := range s.GetEntries() {
		if !e.Next.IsZero() && (next.IsZero() || e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}

// cronLogger adapts slog.Logger to work with robfig/cron
type cronLogger struct {
	logger *slog.Logger
}

// Info logs at debug level, cron reports every wake up through it
func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

// Error logs an error message
func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	attrs := []interface{}{"error", err}
	attrs = append(attrs, keysAndValues...)
	l.logger.Error(msg, attrs...)
}
