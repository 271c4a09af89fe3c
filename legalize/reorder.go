// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import "github.com/gogpu/spvlegalize/spirv"

// Reorder moves every OpTypeSampledImage in the types region so it directly
// follows the OpTypeImage it references. Only adjacent swaps are used, so the
// relative order of all other instructions is kept. It returns the number of
// declarations that moved.
//
// If the image type is not found before the declaration, the declaration ends
// up at the start of the types region. When opts.StrictReorder is set a
// *ReorderError is returned instead and the module is left untouched.
func Reorder(m *spirv.Module, opts Options) (int, error) {
	log := opts.logger()
	start, end := m.TypesRegion()
	insts := m.Instructions

	if opts.StrictReorder {
		if err := checkImagesDeclared(insts[start:end]); err != nil {
			return 0, err
		}
	}

	moved := 0
	for i := start; i < end; i++ {
		if insts[i].Opcode != spirv.OpTypeSampledImage {
			continue
		}
		image, _ := insts[i].FirstID()

		// Index the declaration should settle at.
		target, found := start, false
		for j := i; j > start; j-- {
			if isImage(&insts[j-1], image) {
				target, found = j, true
				break
			}
		}
		if !found {
			log.Debug("no image type before sampled image type, moving to region start",
				"inst", insts[i], "image", idName(image))
		}
		if target == i {
			continue
		}

		for j := i; j > target; j-- {
			insts[j-1], insts[j] = insts[j], insts[j-1]
		}
		moved++
		if found {
			log.Debug("moving sampled image type just after related image type",
				"inst", insts[target], "image", insts[target-1])
		}
	}
	return moved, nil
}

// checkImagesDeclared reports the first OpTypeSampledImage whose image type
// is not declared earlier in region. Swaps only move sampled image types, so
// an image type that precedes one keeps preceding it.
func checkImagesDeclared(region []spirv.Instruction) error {
	images := make(map[uint32]bool)
	for i := range region {
		inst := &region[i]
		switch inst.Opcode {
		case spirv.OpTypeImage:
			images[inst.ResultID] = true
		case spirv.OpTypeSampledImage:
			if image, _ := inst.FirstID(); !images[image] {
				return &ReorderError{Combined: inst.ResultID, Base: image}
			}
		}
	}
	return nil
}

func isImage(inst *spirv.Instruction, id uint32) bool {
	return inst.Opcode == spirv.OpTypeImage && inst.ResultID == id
}
