// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvlegalize/spirv"
)

func TestBuildMaps(t *testing.T) {
	f := buildFragment(t)
	before := f.module.Clone()

	maps := BuildMaps(f.module, DefaultOptions())

	assert.Equal(t, map[uint32]uint32{f.combined: f.img}, maps.OpCollapse)
	assert.Equal(t, map[uint32]uint32{f.imageType: f.sampledType}, maps.TypePromote)
	assert.Equal(t, []uint32{f.combined}, maps.Seeds)
	assert.Equal(t, before, f.module, "BuildMaps must not modify the module")
}

func TestBuildMaps_SeedsInModuleOrder(t *testing.T) {
	m := newModule(
		inst(spirv.OpSampledImage, 1, 30, id(10), id(11)),
		inst(spirv.OpSampledImage, 1, 20, id(12), id(11)),
		inst(spirv.OpSampledImage, 1, 25, id(10), id(13)),
	)
	maps := BuildMaps(m, DefaultOptions())

	assert.Equal(t, []uint32{30, 20, 25}, maps.Seeds)
	assert.Equal(t, map[uint32]uint32{30: 10, 20: 12, 25: 10}, maps.OpCollapse)
	assert.Empty(t, maps.TypePromote)
}

func TestRewrite(t *testing.T) {
	f := buildFragment(t)
	maps := BuildMaps(f.module, DefaultOptions())

	changed := Rewrite(f.module, maps)
	assert.Equal(t, 3, changed)

	sample := definer(t, f.module, f.color)
	first, _ := sample.FirstID()
	assert.Equal(t, f.img, first, "sample should read the image directly")

	load := definer(t, f.module, f.img)
	assert.Equal(t, f.sampledType, load.ResultType, "image load should produce the sampled image type")

	ptr := definer(t, f.module, f.imagePtr)
	pointee, _ := ptr.FirstID()
	assert.Equal(t, f.sampledType, pointee)

	sampled := definer(t, f.module, f.sampledType)
	base, _ := sampled.FirstID()
	assert.Equal(t, f.imageType, base, "OpTypeSampledImage keeps its image type")
}

func TestRewrite_SkipsLiterals(t *testing.T) {
	m := newModule(
		inst(spirv.OpDecorate, 0, 0, id(5), lit(uint32(spirv.DecorationBinding)), lit(5)),
		inst(spirv.OpConstant, 1, 6, lit(5)),
	)
	changed := Rewrite(m, &Maps{OpCollapse: map[uint32]uint32{}, TypePromote: map[uint32]uint32{5: 9}})

	assert.Equal(t, 1, changed)
	assert.Equal(t, uint32(9), m.Instructions[0].Operands[0].Value)
	assert.Equal(t, uint32(5), m.Instructions[0].Operands[2].Value)
	assert.Equal(t, uint32(5), m.Instructions[1].Operands[0].Value)
}

func TestRewrite_CollapseBeforePromote(t *testing.T) {
	// Collapse runs first, so a collapsed use is promoted as well.
	m := newModule(
		inst(spirv.OpCopyObject, 1, 8, id(7)),
	)
	changed := Rewrite(m, &Maps{
		OpCollapse:  map[uint32]uint32{7: 3},
		TypePromote: map[uint32]uint32{3: 4},
	})

	require.Equal(t, 2, changed)
	assert.Equal(t, uint32(4), m.Instructions[0].Operands[0].Value)
}
