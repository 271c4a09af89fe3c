// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command spvlegalize rewrites SPIR-V modules to use combined image-sampler
// types in place of OpSampledImage at each use site.
//
// Usage:
//
//	spvlegalize [flags] file.spv...
//
// Each input is written next to itself with its extension replaced by
// .modified.spv, unless -o names the output of a single input.
package main

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newRootCmd builds the command with its flags registered.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spvlegalize [flags] file.spv...",
		Short: "Fold separate images and samplers into combined image-sampler types",
		Long: `spvlegalize rewrites SPIR-V modules that pair an image with a sampler at each
use site through OpSampledImage. Uses of the image type are promoted to the
sampled image type, the OpSampledImage results are replaced by their image
operands, and instructions left without users become OpNop.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runLegalize,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "output file (single input only)")
	flags.BoolP("verbose", "v", false, "trace every change made to the module")
	flags.Bool("strict-reorder", false, "fail when a sampled image type precedes its image type")
	flags.Bool("allow-unknown", false, "pass unknown opcodes through as literal operands")
	flags.String("config", "", "config file for every input (default: search upward from each input's directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.IntP("jobs", "j", 0, "number of files processed in parallel (default: CPU count)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
}

// setupColor applies the --color mode to the global color state.
func setupColor(mode string, f *os.File) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(f)
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
	}
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	fd, err := safecast.Conv[int](f.Fd())
	if err != nil {
		return false
	}
	return term.IsTerminal(fd)
}
