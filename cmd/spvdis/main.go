// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command spvdis prints a textual listing of a SPIR-V binary.
//
// Usage:
//
//	spvdis [flags] file.spv
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/spvlegalize/spirv"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spvdis [flags] file.spv",
		Short:         "Disassemble a SPIR-V binary",
		Args:          cobra.ExactArgs(1),
		RunE:          runDisassemble,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringP("output", "o", "", "write the listing to a file instead of stdout")
	cmd.Flags().Bool("allow-unknown", false, "list unknown opcodes with literal operands")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
}

func runDisassemble(cmd *cobra.Command, args []string) error {
	allowUnknown, err := cmd.Flags().GetBool("allow-unknown")
	if err != nil {
		return fmt.Errorf("failed to get allow-unknown flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	opts := spirv.DefaultParseOptions()
	opts.AllowUnknownOpcodes = allowUnknown
	m, err := spirv.Parse(data, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if output == "" {
		return spirv.Disassemble(cmd.OutOrStdout(), m)
	}

	// Render fully before creating the file so a failure leaves no partial listing.
	var listing bytes.Buffer
	if err := spirv.Disassemble(&listing, m); err != nil {
		return err
	}
	return os.WriteFile(output, listing.Bytes(), 0o644)
}
