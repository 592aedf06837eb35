// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/geometry"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/oracle"
	"github.com/AleutianAI/codesweep/pkg/logging"
)

// ErrExists is returned by WriteDefault when the file is already there.
var ErrExists = errors.New("config file already exists")

const defaultHeader = `# codesweep configuration.
# pause must be at least lockout_window: attempts inside the lockout
# window are rejected by the device and look like wrong guesses.
`

// Load reads path on top of DefaultConfig. Keys missing from the file keep
// their defaults; unknown keys are an error. The result is not validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes DefaultConfig to path, creating parent directories.
// An existing file is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create the config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(defaultHeader), data...), 0644)
}

// Source builds the candidate source the configuration describes.
func (c *Config) Source() (candidate.Source, error) {
	kind, err := candidate.ParseKind(c.Code.Kind)
	if err != nil {
		return nil, err
	}
	if kind == candidate.KindPIN {
		src, err := candidate.NewPINSource(c.Code.PinDigits)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	grid, err := geometry.NewGrid(c.Pattern.GridSize)
	if err != nil {
		return nil, err
	}
	src, err := candidate.NewPatternSource(candidate.PatternOptions{
		Grid:        grid,
		Dots:        c.Pattern.Dots,
		LenMin:      c.Pattern.LengthMin,
		LenMax:      c.Pattern.LengthMax,
		MaxDistance: c.Pattern.MaxDistance,
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

// TWRP returns the oracle settings.
func (c *Config) TWRP() oracle.TWRPConfig {
	return oracle.TWRPConfig{
		Transport:      oracle.Transport(c.Oracle.Transport),
		Binary:         c.Oracle.Binary,
		Serial:         c.Oracle.Serial,
		DecryptCommand: c.Oracle.DecryptCommand,
	}
}

// Logger returns the logging settings. An unparsable level falls back to
// info; Validate has already rejected it.
func (c *Config) Logger() logging.Config {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return logging.Config{
		Level:   level,
		LogDir:  c.Logging.Dir,
		Service: "codesweep",
		JSON:    c.Logging.JSON,
	}
}
