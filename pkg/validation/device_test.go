// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"strings"
	"testing"
)

func TestValidateSerial(t *testing.T) {
	tests := []struct {
		name    string
		serial  string
		wantErr bool
	}{
		// Valid serials
		{"usb", "R58M12ABCDE", false},
		{"emulator", "emulator-5554", false},
		{"network", "192.168.1.20:5555", false},
		{"underscore", "device_01", false},
		{"max length", strings.Repeat("a", 64), false},

		// Invalid serials - injection attempts
		{"empty", "", true},
		{"semicolon", "abc;reboot", true},
		{"subshell", "$(reboot)", true},
		{"space", "abc def", true},
		{"newline", "abc\nreboot", true},
		{"starts with hyphen", "-s", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSerial(tt.serial)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSerial(%q) error = %v, wantErr %v", tt.serial, err, tt.wantErr)
			}
		})
	}
}

func TestValidateShellCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		wantErr bool
	}{
		{"twrp", "twrp decrypt", false},
		{"absolute path", "/sbin/twrp decrypt", false},
		{"extra spaces", "  twrp   decrypt ", false},
		{"flag", "twrp --verbose decrypt", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"chained", "twrp decrypt; reboot", true},
		{"pipe", "twrp decrypt | tee", true},
		{"backtick", "twrp `id`", true},
		{"quote", "twrp 'decrypt'", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShellCommand(tt.command)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShellCommand(%q) error = %v, wantErr %v", tt.command, err, tt.wantErr)
			}
		})
	}
}
