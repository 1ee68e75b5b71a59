// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package globals contains global variables and functions
package globals

import (
	"fmt"
	"io"
	"os"
)

// exit is replaced in tests
var exit = os.Exit

// LogAndExit prints a message and exits with a given code. Messages for a
// non-zero code go to stderr.
func LogAndExit(message string, code int) {
	var w io.Writer = os.Stdout
	if code != 0 {
		w = os.Stderr
	}
	fmt.Fprintln(w, message)
	exit(code)
}
