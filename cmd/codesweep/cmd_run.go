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
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/config"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/driver"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/metrics"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/oracle"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/status"
	"github.com/AleutianAI/codesweep/pkg/logging"
	"github.com/AleutianAI/codesweep/pkg/ux"
)

// newRunner builds the process runner; tests replace it.
var newRunner = func() oracle.Runner { return oracle.NewExecRunner() }

type runOptions struct {
	search        searchFlags
	yes           bool
	skipPreflight bool
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Try candidates against the device until one decrypts it",
		Long: `Run tries every candidate in order, pausing between attempts for the
recovery's lockout window. Ctrl+C stops after the attempt in flight and
prints the index to pass to --start-at to resume.

Exit status: 0 when a code is found or every candidate was tried, 1 when
the device answered in a way codesweep does not recognise, 2 for
configuration errors, 130 when interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, ro)
		},
	}
	ro.search.register(cmd)
	cmd.Flags().BoolVarP(&ro.yes, "yes", "y", false, "Start without asking for confirmation")
	cmd.Flags().BoolVar(&ro.skipPreflight, "skip-preflight", false, "Do not check the device before starting")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *globalOptions, ro *runOptions) error {
	cfg, err := loadConfig(cmd, opts, &ro.search)
	if err != nil {
		return err
	}

	logCfg := cfg.Logger()
	logCfg.Writer = ux.Stderr()
	if logCfg.LogDir != "" && ux.GetPersonality().Level != ux.PersonalityMachine {
		logCfg.Quiet = true
	}
	logger := logging.New(logCfg)
	defer logger.Close()

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	src, err := cfg.Source()
	if err != nil {
		return usageError(err)
	}
	total := candidate.Count(src)

	orc, err := oracle.NewTWRPOracle(newRunner(), cfg.TWRP())
	if err != nil {
		return usageError(err)
	}

	printPlan(cfg, src, total)

	var statusLn net.Listener
	if cfg.Status.Listen != "" {
		statusLn, err = status.Listen(cfg.Status.Listen)
		if err != nil {
			return usageError(err)
		}
		defer statusLn.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !ro.skipPreflight {
		err := ux.WithSpinner("checking the device", func() error {
			state, err := orc.Preflight(ctx)
			if err == nil {
				logger.Info("preflight passed", "state", state)
			}
			return err
		})
		if err != nil {
			logger.Error("preflight failed", "error", err.Error())
			return &ExitError{Code: driver.ExitFault}
		}
	}

	if !ro.yes {
		ok, err := ux.Confirm(
			fmt.Sprintf("Try %d candidates?", total-min(cfg.Attempt.StartAt, total)),
			fmt.Sprintf("One attempt every %s. Interrupt with Ctrl+C at any time.", cfg.Attempt.Pause),
		)
		if err != nil {
			return &ExitError{Code: driver.ExitFault, Err: err}
		}
		if !ok {
			ux.Warning("cancelled")
			return &ExitError{Code: driver.ExitAborted}
		}
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder()
	if err := recorder.Register(registry); err != nil {
		return &ExitError{Code: driver.ExitFault, Err: err}
	}

	pres := newPresenter(total, cfg.Attempt.Pause)
	observers := driver.Observers{pres}
	var tracker *status.Tracker
	if cfg.Status.Listen != "" {
		tracker = status.NewTracker(runID, src.Kind())
		observers = append(observers, tracker)
	}

	dcfg := driver.Config{
		Pause:   cfg.Attempt.Pause,
		StartAt: cfg.Attempt.StartAt,
		Total:   total,
	}
	d, err := driver.New(src, orc, dcfg,
		driver.WithObserver(observers),
		driver.WithMetrics(recorder),
		driver.WithLogger(logger),
	)
	if err != nil {
		return usageError(err)
	}

	report, err := runWithStatus(ctx, d, tracker, registry, statusLn, logger)
	if err != nil {
		ux.Error(fmt.Sprintf("status server: %v", err))
		if report.State == driver.StateAborted && ctx.Err() == nil {
			report.State = driver.StateFault
			report.Err = err
		}
	}
	code := presentReport(report, cfg, pres)
	if code == driver.ExitOK && err != nil {
		code = driver.ExitFault
	}
	if code != driver.ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// runWithStatus runs the driver and, when ln is set, the status server
// under one errgroup. The server stops when the driver halts.
func runWithStatus(ctx context.Context, d *driver.Driver, tracker *status.Tracker, registry *prometheus.Registry, ln net.Listener, logger *logging.Logger) (driver.Report, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	var report driver.Report
	g.Go(func() error {
		defer cancel()
		report = d.Run(gctx)
		return nil
	})
	if ln != nil {
		srv := status.NewServer(tracker, registry, logger)
		g.Go(func() error {
			return srv.Serve(gctx, ln)
		})
	}

	err := g.Wait()
	return report, err
}

func printPlan(cfg config.Config, src candidate.Source, total int) {
	ux.Title("codesweep")
	ux.KeyValue("kind", string(src.Kind()))
	if src.Kind() == candidate.KindPattern {
		p := cfg.Pattern
		ux.KeyValue("grid", fmt.Sprintf("%dx%d", p.GridSize, p.GridSize))
		ux.KeyValue("dots", fmt.Sprint(p.Dots))
		ux.KeyValue("length", fmt.Sprintf("%d-%d", p.LengthMin, p.LengthMax))
		ux.KeyValue("max distance", fmt.Sprint(p.MaxDistance))
	} else {
		ux.KeyValue("digits", fmt.Sprint(cfg.Code.PinDigits))
	}
	ux.KeyValue("candidates", fmt.Sprint(total))
	ux.KeyValue("start at", fmt.Sprint(cfg.Attempt.StartAt))
	ux.KeyValue("pause", cfg.Attempt.Pause.String())
	ux.KeyValue("transport", cfg.Oracle.Transport)
	if cfg.Status.Listen != "" {
		ux.KeyValue("status", "http://"+cfg.Status.Listen+"/status")
	}
}

// presentReport prints the outcome and returns the exit status.
func presentReport(r driver.Report, cfg config.Config, pres *presenter) int {
	summary := fmt.Sprintf("%d attempts, %d pauses, %s", r.Attempts, r.Pauses, ux.FormatDuration(r.Elapsed))

	switch r.State {
	case driver.StateSuccess:
		presentMatch(r.Candidate, cfg, summary)

	case driver.StateExhausted:
		ux.WarningBox("No match", "Every candidate was tried without success.\n"+summary)

	case driver.StateAborted:
		resume := pres.resumeAt(cfg.Attempt.StartAt)
		ux.Warning(fmt.Sprintf("interrupted after %s", summary))
		if ux.GetPersonality().ShowTips {
			ux.Info(fmt.Sprintf("resume with --start-at %d", resume))
		}

	case driver.StateFault:
		ux.ErrorBox("Unexpected response", describeFault(r))
		if ux.GetPersonality().ShowTips {
			ux.Info(fmt.Sprintf("resume with --start-at %d once the device is reachable", pres.resumeAt(cfg.Attempt.StartAt)))
		}
	}
	return r.ExitCode()
}

// presentMatch prints the recovered code, and for patterns the swipe path.
func presentMatch(c *candidate.Candidate, cfg config.Config, summary string) {
	body := fmt.Sprintf("code: %s\nindex: %d\n%s", c.Phrase, c.Index, summary)
	if c.IsPattern() {
		body = fmt.Sprintf("%s\n\n%s\n\n%s", ux.RenderPath(c.Dots), ux.RenderGrid(cfg.Pattern.GridSize, c.Dots), body)
	}
	ux.SuccessBox("Code found", body)
}

// describeFault renders the diagnostic triple of a fault.
func describeFault(r driver.Report) string {
	var b strings.Builder
	if r.Candidate != nil {
		fmt.Fprintf(&b, "candidate: %d (%s)\n", r.Candidate.Index, r.Candidate.Phrase)
	}

	var pv *driver.ProtocolViolation
	var df *driver.DecodeFault
	var inv *driver.InvocationFault
	switch {
	case errors.As(r.Err, &pv):
		fmt.Fprintf(&b, "exit code: %d\nstdout: %q\nstderr: %q", pv.ExitCode, pv.Stdout, pv.Stderr)
	case errors.As(r.Err, &df):
		fmt.Fprintf(&b, "exit code: %d\nstdout: %q\nstderr: %q\n%s is not UTF-8", df.ExitCode, df.Stdout, df.Stderr, df.Stream)
	case errors.As(r.Err, &inv):
		fmt.Fprintf(&b, "could not run the oracle: %v", inv.Err)
	case r.Err != nil:
		b.WriteString(r.Err.Error())
	}
	return b.String()
}
