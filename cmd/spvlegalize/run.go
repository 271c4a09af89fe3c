// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/spvlegalize"
	"github.com/gogpu/spvlegalize/internal/config"
	"github.com/gogpu/spvlegalize/internal/logger"
	"github.com/gogpu/spvlegalize/legalize"
)

// job is one input with the settings resolved for it.
type job struct {
	input    string
	output   string
	settings config.Settings
}

func runLegalize(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	colorMode, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := setupColor(colorMode, os.Stderr); err != nil {
		return err
	}

	output, err := flags.GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output != "" && len(args) > 1 {
		return errors.New("-o can only be used with a single input file")
	}

	overrides, err := readOverrides(cmd)
	if err != nil {
		return err
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	jobs, err := planJobs(args, output, configPath, overrides)
	if err != nil {
		return err
	}

	handler := logger.NewTraceHandler(cmd.ErrOrStderr(), slog.LevelDebug)
	return legalizeFiles(cmd.Context(), jobs, handler)
}

// readOverrides collects the flags the user actually set.
func readOverrides(cmd *cobra.Command) (config.Overrides, error) {
	flags := cmd.Flags()
	var o config.Overrides

	boolFlags := []struct {
		name string
		dst  **bool
	}{
		{"verbose", &o.Verbose},
		{"strict-reorder", &o.StrictReorder},
		{"allow-unknown", &o.AllowUnknownOpcodes},
	}
	for _, f := range boolFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetBool(f.name)
		if err != nil {
			return o, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		*f.dst = &v
	}

	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return o, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if jobs < 1 {
			return o, fmt.Errorf("--jobs must be at least 1, got %d", jobs)
		}
		o.Jobs = &jobs
	}
	return o, nil
}

// planJobs resolves settings for every input. An explicit config file applies
// to all inputs; otherwise each input uses the config found by searching up
// from its own directory.
func planJobs(files []string, output, configPath string, overrides config.Overrides) ([]job, error) {
	var explicit *config.Config
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		explicit = cfg
	}

	byDir := make(map[string]*config.Config)
	jobs := make([]job, len(files))
	for i, path := range files {
		cfg := explicit
		if configPath == "" {
			dir := filepath.Dir(path)
			found, ok := byDir[dir]
			if !ok {
				var err error
				if found, _, err = config.Load(dir); err != nil {
					return nil, err
				}
				byDir[dir] = found
			}
			cfg = found
		}

		settings := cfg.Resolve(overrides)
		out := output
		if out == "" {
			out = settings.OutputPath(path)
		}
		jobs[i] = job{input: path, output: out, settings: settings}
	}
	return jobs, nil
}

// batchLimit is the smallest jobs setting among the inputs.
func batchLimit(jobs []job) int {
	limit := len(jobs)
	for _, j := range jobs {
		limit = min(limit, j.settings.Jobs)
	}
	return max(1, limit)
}

// legalizeFiles processes every job concurrently. The first failure cancels
// jobs not yet started.
func legalizeFiles(ctx context.Context, jobs []job, handler *logger.TraceHandler) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit(jobs))

	for _, j := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			log := slog.New(handler.WithLevel(logger.Level(j.settings.Verbose)))
			opts := j.settings.Options()
			opts.Legalize.Logger = log.With("file", j.input)
			stats, err := legalizeFile(j.input, j.output, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", j.input, err)
			}
			log.Debug("legalized",
				"file", j.input,
				"output", j.output,
				"moved", stats.Moved,
				"promoted", stats.Promoted,
				"collapsed", stats.Collapsed,
				"nullified", stats.Nullified,
			)
			return nil
		})
	}
	return g.Wait()
}

// legalizeFile reads, legalizes and writes one module. Nothing is written
// when any step fails.
func legalizeFile(path, out string, opts spvlegalize.Options) (legalize.Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return legalize.Stats{}, err
	}

	result, stats, err := spvlegalize.LegalizeWithOptions(data, opts)
	if err != nil {
		return stats, err
	}

	if err := os.WriteFile(out, result, 0o644); err != nil {
		return stats, err
	}
	return stats, nil
}
