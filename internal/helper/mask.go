// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package helper

import "strings"

// MaskPassword hides a password for display. Passwords shorter than six
// characters are fully masked, longer ones keep their first and last character.
func MaskPassword(pwd string) string {
	runes := []rune(pwd)
	n := len(runes)
	if n < 6 {
		return strings.Repeat("*", n)
	}
	return string(runes[0]) + strings.Repeat("*", n-2) + string(runes[n-1])
}
