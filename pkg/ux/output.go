// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides rich terminal output styling for the codesweep CLI.
package ux

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette: teals for progress, amber for pauses, red for faults.
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E") // borders
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#2C4A54")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	// Text styles
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Box styles
	Box        lipgloss.Style
	SuccessBox lipgloss.Style
	WarningBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSuccess).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconClock   Icon = "◷"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning, IconClock:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// -----------------------------------------------------------------------------
// Output destinations
// -----------------------------------------------------------------------------

const boxWidth = 60

var (
	outMu sync.RWMutex
	outW  io.Writer
	errW  io.Writer
)

// SetOutput redirects the print helpers. Nil restores os.Stdout/os.Stderr.
func SetOutput(out, errOut io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	outW, errW = out, errOut
}

// Stdout returns the current standard destination.
func Stdout() io.Writer {
	outMu.RLock()
	defer outMu.RUnlock()
	if outW == nil {
		return os.Stdout
	}
	return outW
}

// Stderr returns the current diagnostic destination.
func Stderr() io.Writer {
	outMu.RLock()
	defer outMu.RUnlock()
	if errW == nil {
		return os.Stderr
	}
	return errW
}

// -----------------------------------------------------------------------------
// Print helpers that respect personality level
// -----------------------------------------------------------------------------

// Title prints a styled title
func Title(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(Stdout(), Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(Stdout(), "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(Stdout(), "%s %s\n", IconSuccess.Render(), text)
	default:
		fmt.Fprintf(Stdout(), "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message
func Warning(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(Stderr(), "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(Stdout(), "%s %s\n", IconWarning.Render(), text)
	default:
		fmt.Fprintf(Stdout(), "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message
func Error(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(Stderr(), "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(Stderr(), "%s %s\n", IconError.Render(), text)
	default:
		fmt.Fprintf(Stderr(), "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message
func Info(text string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintln(Stdout(), text)
		return
	}
	fmt.Fprintf(Stdout(), "%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints muted/secondary text
func Muted(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(Stdout(), Styles.Muted.Render(text))
}

// KeyValue prints one aligned "label: value" line. Machine mode prints
// key=value.
func KeyValue(key, value string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(Stdout(), "%s=%s\n", key, value)
		return
	}
	fmt.Fprintf(Stdout(), "  %s %s\n", Styles.Muted.Render(fmt.Sprintf("%-14s", key+":")), value)
}

// Box prints text in a rounded box
func Box(title, content string) {
	printBox(Styles.Box, Styles.Title, Stdout(), "", title, content)
}

// SuccessBox prints text in a success-styled box
func SuccessBox(title, content string) {
	printBox(Styles.SuccessBox, Styles.Success.Bold(true), Stdout(), "OK", title, content)
}

// WarningBox prints text in a warning-styled box
func WarningBox(title, content string) {
	printBox(Styles.WarningBox, Styles.Warning.Bold(true), Stderr(), "WARN", title, content)
}

// ErrorBox prints text in an error-styled box
func ErrorBox(title, content string) {
	printBox(Styles.ErrorBox, Styles.Error.Bold(true), Stderr(), "ERROR", title, content)
}

func printBox(box, heading lipgloss.Style, w io.Writer, prefix, title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		if prefix != "" {
			prefix += " "
		}
		fmt.Fprintf(w, "%s%s: %s\n", prefix, title, content)
		return
	}
	fmt.Fprintln(w, box.Width(boxWidth).Render(heading.Render(title)+"\n"+content))
}
