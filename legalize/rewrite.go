// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import "github.com/gogpu/spvlegalize/spirv"

// Rewrite applies maps to every instruction and returns the number of
// references changed.
//
// Id operands are first redirected through OpCollapse. Then the result type
// and id operands of every instruction except OpTypeSampledImage are
// redirected through TypePromote; the sampled image type declarations keep
// pointing at their image type.
func Rewrite(m *spirv.Module, maps *Maps) int {
	changed := 0
	for i := range m.Instructions {
		changed += m.Instructions[i].RemapIDs(maps.OpCollapse)
	}

	for i := range m.Instructions {
		inst := &m.Instructions[i]
		if inst.Opcode == spirv.OpTypeSampledImage {
			continue
		}
		if inst.RemapResultType(maps.TypePromote) {
			changed++
		}
		changed += inst.RemapIDs(maps.TypePromote)
	}
	return changed
}
