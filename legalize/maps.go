// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import (
	"strconv"

	"github.com/gogpu/spvlegalize/spirv"
)

// Maps holds the substitutions collected by BuildMaps.
type Maps struct {
	// OpCollapse maps each OpSampledImage result to its image operand.
	OpCollapse map[uint32]uint32

	// TypePromote maps each image type referenced by an OpTypeSampledImage
	// to that OpTypeSampledImage.
	TypePromote map[uint32]uint32

	// Seeds lists the OpSampledImage results in module order. They are the
	// initial candidates for dead-instruction elimination.
	Seeds []uint32
}

// BuildMaps scans m once and collects the substitutions. It does not modify
// the module.
func BuildMaps(m *spirv.Module, opts Options) *Maps {
	log := opts.logger()
	maps := &Maps{
		OpCollapse:  make(map[uint32]uint32),
		TypePromote: make(map[uint32]uint32),
	}

	for i := range m.Instructions {
		inst := &m.Instructions[i]
		switch inst.Opcode {
		case spirv.OpTypeSampledImage:
			image, ok := inst.FirstID()
			if !ok {
				continue
			}
			maps.TypePromote[image] = inst.ResultID
			log.Debug("promoting all uses of image type to sampled image type",
				"image", idName(image), "sampled", idName(inst.ResultID), "via", *inst)

		case spirv.OpSampledImage:
			image, ok := inst.FirstID()
			if !ok {
				continue
			}
			maps.OpCollapse[inst.ResultID] = image
			maps.Seeds = append(maps.Seeds, inst.ResultID)
			log.Debug("replacing uses of sampled image with its image operand",
				"from", idName(inst.ResultID), "to", idName(image), "via", *inst)
		}
	}
	return maps
}

// idName formats an id the way the disassembler prints it.
func idName(id uint32) string {
	return "%" + strconv.FormatUint(uint64(id), 10)
}
