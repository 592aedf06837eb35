// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for values that
// end up on a command line or in a device shell.
//
// The decrypt command is interpolated into `adb shell`, which hands it to
// the device's /bin/sh, so anything that reaches it must be free of shell
// metacharacters.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// serialPattern matches adb device serials.
// Allows: letters, digits, dots and colons (192.168.1.20:5555), hyphens
// and underscores (emulator-5554). Max length: 64 characters.
var serialPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:\-]{0,63}$`)

// shellWordPattern matches one shell word that needs no quoting.
var shellWordPattern = regexp.MustCompile(`^[A-Za-z0-9_./\-=]+$`)

// ValidateSerial validates an adb device serial.
//
// Valid serials:
//   - 1-64 characters
//   - Letters and digits
//   - Dots and colons for network devices like 192.168.1.20:5555
//   - Hyphens and underscores like emulator-5554
//
// Returns an error if the serial is invalid.
//
// Example:
//
//	if err := validation.ValidateSerial(serial); err != nil {
//	    return fmt.Errorf("invalid serial: %w", err)
//	}
//	// Safe to pass to adb -s
func ValidateSerial(serial string) error {
	if serial == "" {
		return fmt.Errorf("serial cannot be empty")
	}
	if !serialPattern.MatchString(serial) {
		return fmt.Errorf("invalid serial format: %q (letters, digits, '.', ':', '-' or '_')", serial)
	}
	return nil
}

// ValidateShellCommand validates a command line that is run by a shell
// without quoting, such as "twrp decrypt".
//
// Each whitespace-separated word must consist of letters, digits and
// _ . / - = only. Returns an error naming the first offending word.
func ValidateShellCommand(command string) error {
	words := strings.Fields(command)
	if len(words) == 0 {
		return fmt.Errorf("command cannot be empty")
	}
	for _, w := range words {
		if !shellWordPattern.MatchString(w) {
			return fmt.Errorf("unsafe shell word %q in command %q", w, command)
		}
	}
	return nil
}
