// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Output literals of `twrp decrypt`. They must match byte for byte.
const (
	// StdoutNormal is printed for every attempt that did not unlock the
	// data partition.
	StdoutNormal = "Attempting to decrypt data partition via command line.\n"

	// StdoutSuccess appears somewhere in stdout when decryption worked.
	StdoutSuccess = "Data successfully decrypted"
)

// Oracle attempts one passphrase against the device.
//
// The returned error means the attempt could not be made at all. Any
// response the device did produce, however odd, comes back as a Result.
type Oracle interface {
	Attempt(ctx context.Context, phrase string) (Result, error)
}

// Transport selects how the decrypt command reaches the device.
type Transport string

const (
	// TransportADB runs the decrypt command through `adb shell`.
	TransportADB Transport = "adb"

	// TransportLocal runs the decrypt command directly, for use from a
	// shell inside the recovery image.
	TransportLocal Transport = "local"
)

// ErrUnknownTransport is returned for transports other than adb and local.
var ErrUnknownTransport = errors.New("oracle: unknown transport")

// TWRPConfig configures a TWRPOracle.
type TWRPConfig struct {
	// Transport is adb (default) or local.
	Transport Transport

	// Binary is the adb executable. Ignored for the local transport.
	// Default: "adb"
	Binary string

	// Serial targets one device when several are attached (adb -s).
	Serial string

	// DecryptCommand is the on-device command that takes the phrase.
	// Default: "twrp decrypt"
	DecryptCommand string
}

// TWRPOracle drives the TWRP recovery `decrypt` command.
type TWRPOracle struct {
	runner Runner
	cfg    TWRPConfig
}

// NewTWRPOracle creates an oracle over runner, filling config defaults.
func NewTWRPOracle(runner Runner, cfg TWRPConfig) (*TWRPOracle, error) {
	if cfg.Transport == "" {
		cfg.Transport = TransportADB
	}
	if cfg.Transport != TransportADB && cfg.Transport != TransportLocal {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
	if cfg.Binary == "" {
		cfg.Binary = "adb"
	}
	if strings.TrimSpace(cfg.DecryptCommand) == "" {
		cfg.DecryptCommand = "twrp decrypt"
	}
	return &TWRPOracle{runner: runner, cfg: cfg}, nil
}

// Command returns the program and arguments used to try phrase.
func (o *TWRPOracle) Command(phrase string) (string, []string) {
	if o.cfg.Transport == TransportLocal {
		fields := strings.Fields(o.cfg.DecryptCommand)
		return fields[0], append(fields[1:], phrase)
	}
	var args []string
	if o.cfg.Serial != "" {
		args = append(args, "-s", o.cfg.Serial)
	}
	args = append(args, "shell", fmt.Sprintf("%s %s", o.cfg.DecryptCommand, shellQuote(phrase)))
	return o.cfg.Binary, args
}

// Attempt runs the decrypt command once for phrase.
func (o *TWRPOracle) Attempt(ctx context.Context, phrase string) (Result, error) {
	name, args := o.Command(phrase)
	res, err := o.runner.Run(ctx, name, args...)
	if err != nil {
		return res, fmt.Errorf("invoke %s: %w", name, err)
	}
	return res, nil
}

// Preflight verifies the transport is usable before any attempt is made.
//
// For adb it resolves the binary and asks the device for its state; for
// the local transport it resolves the decrypt program.
func (o *TWRPOracle) Preflight(ctx context.Context) (string, error) {
	if o.cfg.Transport == TransportLocal {
		name := strings.Fields(o.cfg.DecryptCommand)[0]
		if _, err := o.runner.LookPath(name); err != nil {
			return "", fmt.Errorf("decrypt command not found: %w", err)
		}
		return "local", nil
	}

	if _, err := o.runner.LookPath(o.cfg.Binary); err != nil {
		return "", fmt.Errorf("adb not found: %w", err)
	}
	var args []string
	if o.cfg.Serial != "" {
		args = append(args, "-s", o.cfg.Serial)
	}
	args = append(args, "get-state")
	res, err := o.runner.Run(ctx, o.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("adb get-state: %w", err)
	}
	if !res.Succeeded() {
		return "", fmt.Errorf("adb get-state (exit %d): %s", res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// shellQuote wraps s in single quotes for the device shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// -----------------------------------------------------------------------------
// Mock Implementation for Testing
// -----------------------------------------------------------------------------

// MockOracle is a test double for Oracle.
//
// AttemptFunc receives the 1-based invocation number along with the
// phrase, which keeps scripted responses short.
type MockOracle struct {
	AttemptFunc func(call int, phrase string) (Result, error)

	mu      sync.Mutex
	phrases []string
}

// Attempt records the phrase and delegates to AttemptFunc.
func (m *MockOracle) Attempt(ctx context.Context, phrase string) (Result, error) {
	m.mu.Lock()
	m.phrases = append(m.phrases, phrase)
	call := len(m.phrases)
	m.mu.Unlock()
	if m.AttemptFunc == nil {
		panic("MockOracle.AttemptFunc not set")
	}
	return m.AttemptFunc(call, phrase)
}

// Phrases returns every phrase attempted so far, in order.
func (m *MockOracle) Phrases() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.phrases...)
}

// Calls returns the number of attempts made.
func (m *MockOracle) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.phrases)
}

// NormalResult is the response of an attempt that did not match.
func NormalResult() Result {
	return Result{Stdout: []byte(StdoutNormal)}
}

// SuccessResult is the response of an attempt that unlocked the device.
func SuccessResult() Result {
	return Result{Stdout: []byte(StdoutNormal + StdoutSuccess + "\n")}
}

var (
	_ Oracle = (*TWRPOracle)(nil)
	_ Oracle = (*MockOracle)(nil)
)
