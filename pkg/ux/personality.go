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
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// PersonalityEnv selects the output level when --personality is not given.
const PersonalityEnv = "CODESWEEP_PERSONALITY"

// PersonalityLevel selects how a run is drawn on the terminal.
type PersonalityLevel string

const (
	PersonalityFull     PersonalityLevel = "full"     // styled, progress bar on every attempt line
	PersonalityStandard PersonalityLevel = "standard" // styled, one plain line per attempt
	PersonalityMinimal  PersonalityLevel = "minimal"  // icons only, grid drawn without colour
	PersonalityMachine  PersonalityLevel = "machine"  // tab separated records, no prompts
)

// Levels is every accepted level, richest first.
var Levels = []PersonalityLevel{PersonalityFull, PersonalityStandard, PersonalityMinimal, PersonalityMachine}

// Styled reports whether lipgloss styles are applied at this level.
func (l PersonalityLevel) Styled() bool {
	return l == PersonalityFull || l == PersonalityStandard
}

// ParsePersonalityLevel accepts the names in Levels, case-insensitively.
func ParsePersonalityLevel(s string) (PersonalityLevel, error) {
	l := PersonalityLevel(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Levels, l) {
		return "", fmt.Errorf("unknown personality %q, want one of %v", s, Levels)
	}
	return l, nil
}

// Personality is the process-wide output setting.
type Personality struct {
	Level PersonalityLevel

	// ShowTips prints hints such as the --start-at index after an abort.
	ShowTips bool
}

var (
	personalityMu sync.RWMutex
	personality   = Personality{Level: PersonalityFull, ShowTips: true}
)

func GetPersonality() Personality {
	personalityMu.RLock()
	defer personalityMu.RUnlock()
	return personality
}

func SetPersonality(p Personality) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	personality = p
}

func SetPersonalityLevel(level PersonalityLevel) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	personality.Level = level
}

// InitPersonality picks the level from the flag value, then PersonalityEnv,
// then falls back to full on a terminal and machine otherwise. An unknown
// name from either source is an error.
func InitPersonality(flagValue string) error {
	name := flagValue
	if name == "" {
		name = os.Getenv(PersonalityEnv)
	}
	if name == "" {
		if stdoutIsTerminal() {
			SetPersonalityLevel(PersonalityFull)
		} else {
			SetPersonalityLevel(PersonalityMachine)
		}
		return nil
	}

	level, err := ParsePersonalityLevel(name)
	if err != nil {
		return err
	}
	SetPersonalityLevel(level)
	return nil
}

func stdoutIsTerminal() bool { return isTTY(os.Stdout) }

func isTTY(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsInteractive reports whether an operator can answer a prompt: both ends
// are terminals and the level is not machine.
func IsInteractive() bool {
	return GetPersonality().Level != PersonalityMachine && isTTY(os.Stdout) && isTTY(os.Stdin)
}
