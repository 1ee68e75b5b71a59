// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

package helper

import (
	"io"
	"log/slog"
	"strings"

	slogformatter "github.com/samber/slog-formatter"
)

// redactedKeys are attribute keys whose values never reach the log output
var redactedKeys = []string{"password", "secret", "code"}

const redacted = "********"

// NewLogger returns a slog.Logger writing to w. format is "text" or "json";
// level is any level name understood by slog ("debug", "info", ...).
// Attributes named password, secret or code are redacted.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	formatters := []slogformatter.Formatter{
		slogformatter.ErrorFormatter("error"),
	}
	for _, key := range redactedKeys {
		formatters = append(formatters, slogformatter.FormatByKey(key, func(_ slog.Value) slog.Value {
			return slog.StringValue(redacted)
		}))
	}

	return slog.New(slogformatter.NewFormatterHandler(formatters...)(handler))
}
