// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/config"
	"github.com/AleutianAI/codesweep/pkg/ux"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath  string
	personality string // UX personality level (full/standard/minimal/machine)
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "codesweep",
		Short: "Recover an Android lock pattern or PIN through TWRP",
		Long: `codesweep enumerates lock patterns or PINs in a fixed order and tries
each one with TWRP's "decrypt" command, waiting out the recovery's lockout
window between attempts. It stops at the first code that decrypts the data
partition, at the first response it does not recognise, or when the
candidates run out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := ux.InitPersonality(opts.personality); err != nil {
				return usageError(err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath,
		"Path to the YAML configuration file")
	root.PersistentFlags().StringVar(&opts.personality, "personality", "",
		"Output style: full, standard, minimal or machine (env CODESWEEP_PERSONALITY)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn or error (overrides logging.level)")

	root.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newCountCmd(opts),
		newRenderCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// searchFlags override the configuration file for one invocation. Only
// flags given on the command line are applied.
type searchFlags struct {
	kind        string
	pinDigits   int
	gridSize    int
	dots        []int
	lengthMin   int
	lengthMax   int
	maxDistance int
	pause       time.Duration
	lockout     time.Duration
	startAt     int
	transport   string
	binary      string
	serial      string
	listen      string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.kind, "kind", "", "Code kind: pattern or pin")
	fs.IntVar(&f.pinDigits, "pin-digits", 0, "PIN length (1-8)")
	fs.IntVar(&f.gridSize, "grid", 0, "Pattern grid side length")
	fs.IntSliceVar(&f.dots, "dots", nil, "Dots the pattern may use, 0-based row-major (e.g. 0,1,3,4)")
	fs.IntVar(&f.lengthMin, "min", 0, "Shortest pattern length")
	fs.IntVar(&f.lengthMax, "max", 0, "Longest pattern length")
	fs.IntVar(&f.maxDistance, "max-distance", 0, "Largest grid step between consecutive dots")
	fs.DurationVar(&f.pause, "pause", 0, "Wait between attempts (must cover the lockout window)")
	fs.DurationVar(&f.lockout, "lockout-window", 0, "Recovery lockout window")
	fs.IntVar(&f.startAt, "start-at", 0, "Skip candidates before this index (resume)")
	fs.StringVar(&f.transport, "transport", "", "Oracle transport: adb or local")
	fs.StringVar(&f.binary, "adb", "", "Path to the adb binary")
	fs.StringVarP(&f.serial, "serial", "s", "", "adb device serial")
	fs.StringVar(&f.listen, "listen", "", "Serve /status and /metrics on host:port")
}

func (f *searchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			apply()
		}
	}
	set("kind", func() { cfg.Code.Kind = f.kind })
	set("pin-digits", func() { cfg.Code.PinDigits = f.pinDigits })
	set("grid", func() { cfg.Pattern.GridSize = f.gridSize })
	set("dots", func() { cfg.Pattern.Dots = f.dots })
	set("min", func() { cfg.Pattern.LengthMin = f.lengthMin })
	set("max", func() { cfg.Pattern.LengthMax = f.lengthMax })
	set("max-distance", func() { cfg.Pattern.MaxDistance = f.maxDistance })
	set("pause", func() { cfg.Attempt.Pause = f.pause })
	set("lockout-window", func() { cfg.Attempt.LockoutWindow = f.lockout })
	set("start-at", func() { cfg.Attempt.StartAt = f.startAt })
	set("transport", func() { cfg.Oracle.Transport = f.transport })
	set("adb", func() { cfg.Oracle.Binary = f.binary })
	set("serial", func() { cfg.Oracle.Serial = f.serial })
	set("listen", func() { cfg.Status.Listen = f.listen })
}

// loadConfig reads the configuration file, applies flag overrides and
// validates the result. A missing default file means built-in defaults;
// a missing file named with --config is an error.
func loadConfig(cmd *cobra.Command, opts *globalOptions, flags *searchFlags) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || cmd.Flags().Changed("config") {
			return cfg, usageError(err)
		}
		cfg = config.DefaultConfig()
	}

	if flags != nil {
		flags.apply(cmd, &cfg)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		for _, p := range config.Problems(err) {
			ux.Error(p)
		}
		return cfg, &ExitError{Code: exitUsage}
	}
	return cfg, nil
}
