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
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/config"
	"github.com/AleutianAI/codesweep/pkg/ux"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(opts), newConfigCheckCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(opts.configPath, force); err != nil {
				if errors.Is(err, config.ErrExists) {
					return usageError(fmt.Errorf("%w (use --force to overwrite)", err))
				}
				return &ExitError{Code: 1, Err: err}
			}
			ux.Success("wrote " + opts.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and summarise the search it describes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			src, err := cfg.Source()
			if err != nil {
				return usageError(err)
			}

			ux.Success("configuration is valid")
			ux.KeyValue("kind", string(src.Kind()))
			if src.Kind() == candidate.KindPattern {
				ux.KeyValue("grid", fmt.Sprintf("%dx%d", cfg.Pattern.GridSize, cfg.Pattern.GridSize))
			}
			ux.KeyValue("candidates", strconv.Itoa(candidate.Count(src)))
			ux.KeyValue("pause", cfg.Attempt.Pause.String())
			ux.KeyValue("lockout", cfg.Attempt.LockoutWindow.String())
			return nil
		},
	}
}
