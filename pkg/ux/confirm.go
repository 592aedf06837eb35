// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// confirmPrompt is replaced in tests.
var confirmPrompt = func(title, description string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Start").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

// Confirm asks a yes/no question. Non-interactive sessions answer yes
// without prompting; Ctrl+C answers no.
func Confirm(title, description string) (bool, error) {
	if !IsInteractive() {
		return true, nil
	}
	ok, err := confirmPrompt(title, description)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
