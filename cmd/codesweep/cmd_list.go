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
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/geometry"
	"github.com/AleutianAI/codesweep/pkg/ux"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		search searchFlags
		limit  int
		grids  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print candidates in the order run would try them",
		Long: `List prints one candidate per line: its index, the phrase passed to the
decrypt command, and for patterns the dot path. Nothing is sent to the device.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, &search)
			if err != nil {
				return err
			}
			src, err := cfg.Source()
			if err != nil {
				return usageError(err)
			}

			out := ux.Stdout()
			n := 0
			for c := range candidate.From(src, cfg.Attempt.StartAt) {
				if limit > 0 && n >= limit {
					break
				}
				n++
				if !c.IsPattern() {
					fmt.Fprintf(out, "%d\t%s\n", c.Index, c.Phrase)
					continue
				}
				fmt.Fprintf(out, "%d\t%s\t%s\n", c.Index, c.Phrase, c)
				if grids && ux.GetPersonality().Level != ux.PersonalityMachine {
					fmt.Fprintln(out, ux.RenderGrid(cfg.Pattern.GridSize, c.Dots))
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
	search.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many candidates (0 = all)")
	cmd.Flags().BoolVar(&grids, "grid-view", false, "Draw each pattern on the grid")
	return cmd
}

func newCountCmd(opts *globalOptions) *cobra.Command {
	var search searchFlags
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print how many candidates the configuration yields and how long a run takes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, &search)
			if err != nil {
				return err
			}
			src, err := cfg.Source()
			if err != nil {
				return usageError(err)
			}

			total := candidate.Count(src)
			remaining := max(total-cfg.Attempt.StartAt, 0)
			worst := ux.EstimateRemaining(remaining, cfg.Attempt.Pause, 0)

			if ux.GetPersonality().Level == ux.PersonalityMachine {
				fmt.Fprintf(ux.Stdout(), "%d\n", total)
				return nil
			}
			ux.KeyValue("candidates", strconv.Itoa(total))
			if cfg.Attempt.StartAt > 0 {
				ux.KeyValue("remaining", strconv.Itoa(remaining))
			}
			ux.KeyValue("worst case", ux.FormatDuration(worst))
			return nil
		},
	}
	search.register(cmd)
	return cmd
}

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		gridSize int
		phrase   string
	)
	cmd := &cobra.Command{
		Use:   "render [dot...]",
		Short: "Draw a pattern on the grid",
		Long: `Render draws a pattern given either as 0-based dots or as a decrypt
phrase (--phrase 1235), numbering the dots in swipe order.`,
		Example: `  codesweep render 0 4 8
  codesweep render --phrase 1236 --grid 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			size := cfg.Pattern.GridSize
			if cmd.Flags().Changed("grid") {
				size = gridSize
			}
			grid, err := geometry.NewGrid(size)
			if err != nil {
				return usageError(err)
			}

			var dots []int
			switch {
			case phrase != "" && len(args) > 0:
				return usageError(fmt.Errorf("give dots or --phrase, not both"))
			case phrase != "":
				dots, err = candidate.DecodePhrase(phrase)
				if err != nil {
					return usageError(err)
				}
			case len(args) > 0:
				for _, a := range args {
					d, err := strconv.Atoi(a)
					if err != nil {
						return usageError(fmt.Errorf("dot %q is not a number", a))
					}
					dots = append(dots, d)
				}
			default:
				return usageError(fmt.Errorf("no pattern given"))
			}

			for _, d := range dots {
				if !grid.Contains(d) {
					return usageError(fmt.Errorf("dot %d is outside the %dx%d grid", d, size, size))
				}
			}

			out := ux.Stdout()
			fmt.Fprintln(out, ux.RenderGrid(size, dots))
			if ux.GetPersonality().Level != ux.PersonalityMachine {
				ux.Muted(ux.RenderPath(dots) + "  phrase " + candidate.EncodePhrase(dots))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&gridSize, "grid", 0, "Grid side length (default from config)")
	cmd.Flags().StringVar(&phrase, "phrase", "", "Pattern as a decrypt phrase")
	return cmd
}
