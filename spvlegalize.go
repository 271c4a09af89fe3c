// Package spvlegalize rewrites SPIR-V modules that combine separate images and
// samplers at each use site into modules declaring combined image-sampler
// types up front.
//
// Example usage:
//
//	data, err := os.ReadFile("shader.spv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := spvlegalize.Legalize(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The work is split across two packages that can also be used directly:
// spirv decodes and encodes modules, and legalize transforms them.
package spvlegalize

import (
	"fmt"

	"github.com/gogpu/spvlegalize/legalize"
	"github.com/gogpu/spvlegalize/spirv"
)

// Options configures legalization of a binary module.
type Options struct {
	// Parse configures decoding of the input.
	Parse spirv.ParseOptions

	// Legalize configures the transformation passes.
	Legalize legalize.Options
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Parse:    spirv.DefaultParseOptions(),
		Legalize: legalize.DefaultOptions(),
	}
}

// Legalize legalizes a SPIR-V binary using default options.
func Legalize(data []byte) ([]byte, error) {
	out, _, err := LegalizeWithOptions(data, DefaultOptions())
	return out, err
}

// LegalizeWithOptions legalizes a SPIR-V binary with custom options.
//
// The pipeline is:
//  1. Decode the binary
//  2. Run the legalization passes
//  3. Encode the module, OpNop placeholders included
//
// Any failure aborts the whole pipeline and no bytes are returned.
func LegalizeWithOptions(data []byte, opts Options) ([]byte, legalize.Stats, error) {
	module, err := Decode(data, opts.Parse)
	if err != nil {
		return nil, legalize.Stats{}, err
	}

	stats, err := legalize.Run(module, opts.Legalize)
	if err != nil {
		return nil, stats, fmt.Errorf("legalize error: %w", err)
	}

	out, err := Encode(module)
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

// Decode decodes a SPIR-V binary to a module.
func Decode(data []byte, opts spirv.ParseOptions) (*spirv.Module, error) {
	module, err := spirv.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return module, nil
}

// Encode encodes a module to a SPIR-V binary.
func Encode(module *spirv.Module) ([]byte, error) {
	out, err := spirv.Assemble(module)
	if err != nil {
		return nil, fmt.Errorf("encode error: %w", err)
	}
	return out, nil
}
