// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/spvlegalize/spirv"
)

// Options configures legalization.
type Options struct {
	// StrictReorder fails with a *ReorderError when an OpTypeSampledImage has
	// no OpTypeImage before it. By default it is left at the start of the
	// types region.
	StrictReorder bool

	// Logger receives one Debug record per change. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the default legalization options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Stats counts the changes made by Run.
type Stats struct {
	Moved     int // OpTypeSampledImage declarations relocated
	Promoted  int // image types promoted to sampled image types
	Collapsed int // OpSampledImage results replaced by their image
	Rewritten int // result type and operand references changed
	Nullified int // instructions replaced with OpNop
}

// pipeline carries one module through the passes.
type pipeline struct {
	module *spirv.Module
	opts   Options
	maps   *Maps
	stats  Stats
}

type passDescriptor struct {
	name string
	run  func(*pipeline) error
}

var passes = [...]passDescriptor{
	{name: "reorder", run: (*pipeline).reorder},
	{name: "build-maps", run: (*pipeline).buildMaps},
	{name: "rewrite", run: (*pipeline).rewrite},
	{name: "eliminate-dead", run: (*pipeline).eliminateDead},
}

// Run legalizes m in place. Each pass completes over the whole module before
// the next starts. On error the module may be partially transformed and
// must not be encoded.
func Run(m *spirv.Module, opts Options) (Stats, error) {
	p := &pipeline{module: m, opts: opts}
	log := opts.logger()
	for _, pass := range passes {
		if err := pass.run(p); err != nil {
			return p.stats, fmt.Errorf("%s: %w", pass.name, err)
		}
		log.Debug("pass finished", "pass", pass.name)
	}
	return p.stats, nil
}

func (p *pipeline) reorder() error {
	moved, err := Reorder(p.module, p.opts)
	p.stats.Moved = moved
	return err
}

func (p *pipeline) buildMaps() error {
	p.maps = BuildMaps(p.module, p.opts)
	p.stats.Promoted = len(p.maps.TypePromote)
	p.stats.Collapsed = len(p.maps.OpCollapse)
	return nil
}

func (p *pipeline) rewrite() error {
	p.stats.Rewritten = Rewrite(p.module, p.maps)
	return nil
}

func (p *pipeline) eliminateDead() error {
	nullified, err := EliminateDead(p.module, p.maps.Seeds, p.opts)
	p.stats.Nullified = nullified
	return err
}
