// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the codesweep YAML configuration.
package config

import (
	"time"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/oracle"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "codesweep.yaml"

// Config is the full run configuration. It is immutable once validated.
type Config struct {
	// Code selects what kind of secret is searched.
	Code CodeConfig `yaml:"code"`

	// Pattern bounds the pattern search. Only validated for kind pattern.
	Pattern PatternConfig `yaml:"pattern" validate:"-"`

	// Attempt controls pacing and resumption.
	Attempt AttemptConfig `yaml:"attempt"`

	// Oracle describes how the decrypt command is reached.
	Oracle OracleConfig `yaml:"oracle"`

	// Logging configures pkg/logging.
	Logging LoggingConfig `yaml:"logging"`

	// Status enables the HTTP status endpoint.
	Status StatusConfig `yaml:"status"`
}

type CodeConfig struct {
	Kind      string `yaml:"kind" validate:"oneof=pattern pin"` // pattern | pin
	PinDigits int    `yaml:"pin_digits" validate:"gte=1,lte=8"`
}

type PatternConfig struct {
	GridSize    int   `yaml:"grid_size" validate:"gte=2"` // e.g. 3
	Dots        []int `yaml:"dots" validate:"required,min=1,unique,dive,gte=0"`
	LengthMin   int   `yaml:"length_min" validate:"gte=1"`
	LengthMax   int   `yaml:"length_max" validate:"gtefield=LengthMin"`
	MaxDistance int   `yaml:"max_distance" validate:"gte=1"`
}

type AttemptConfig struct {
	// Pause is the wait between attempts; it must cover LockoutWindow.
	Pause         time.Duration `yaml:"pause" validate:"gtefield=LockoutWindow"`
	LockoutWindow time.Duration `yaml:"lockout_window" validate:"gt=0"`
	StartAt       int           `yaml:"start_at" validate:"gte=0"`
}

type OracleConfig struct {
	Transport      string `yaml:"transport" validate:"oneof=adb local"`
	Binary         string `yaml:"binary" validate:"required"`
	Serial         string `yaml:"serial" validate:"omitempty,adbserial"`
	DecryptCommand string `yaml:"decrypt_command" validate:"shellsafe"` // run unquoted by the device shell
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

type StatusConfig struct {
	// Listen is a host:port; empty disables the server.
	Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
}

// DefaultConfig returns the configuration of the stock Android 3x3 search:
// patterns of four or five dots over the whole grid, adjacent moves only,
// paced just past TWRP's ten second lockout.
func DefaultConfig() Config {
	return Config{
		Code: CodeConfig{
			Kind:      string(candidate.KindPattern),
			PinDigits: candidate.DefaultPINDigits,
		},
		Pattern: PatternConfig{
			GridSize:    3,
			Dots:        []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
			LengthMin:   4,
			LengthMax:   5,
			MaxDistance: 1,
		},
		Attempt: AttemptConfig{
			Pause:         10500 * time.Millisecond,
			LockoutWindow: 10 * time.Second,
		},
		Oracle: OracleConfig{
			Transport:      string(oracle.TransportADB),
			Binary:         "adb",
			DecryptCommand: "twrp decrypt",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
