// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvlegalize/internal/logger"
	"github.com/gogpu/spvlegalize/spirv"
)

// sharedTypes declares an image type %1, its sampled image type %2, a sampler
// type %8 and undefined image/sampler values %4 and %5 to combine.
func sharedTypes() []spirv.Instruction {
	return []spirv.Instruction{
		inst(spirv.OpTypeFloat, 0, 7, lit(32)),
		image2D(1, 7),
		inst(spirv.OpTypeSampledImage, 0, 2, id(1)),
		inst(spirv.OpTypeSampler, 0, 8),
		inst(spirv.OpUndef, 1, 4),
		inst(spirv.OpUndef, 8, 5),
		inst(spirv.OpTypeVector, 0, 9, id(7), lit(4)),
		inst(spirv.OpTypeVector, 0, 10, id(7), lit(2)),
		inst(spirv.OpUndef, 10, 11),
		inst(spirv.OpTypeVoid, 0, 12),
		inst(spirv.OpTypeFunction, 0, 13, id(12)),
	}
}

// sampleFunction defines a function combining %4 and %5 into combined and
// sampling it into use.
func sampleFunction(fn, label, combined, use uint32) []spirv.Instruction {
	return []spirv.Instruction{
		inst(spirv.OpFunction, 12, fn, lit(uint32(spirv.FunctionControlNone)), id(13)),
		inst(spirv.OpLabel, 0, label),
		inst(spirv.OpSampledImage, 2, combined, id(4), id(5)),
		inst(spirv.OpImageSampleImplicitLod, 9, use, id(combined), id(11)),
		inst(spirv.OpReturn, 0, 0),
		inst(spirv.OpFunctionEnd, 0, 0),
	}
}

func TestRun_Fragment(t *testing.T) {
	f := buildFragment(t)

	stats, err := Run(f.module, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Stats{Moved: 1, Promoted: 1, Collapsed: 1, Rewritten: 3, Nullified: 2}, stats)

	assert.False(t, isDefined(f.module, f.combined), "OpSampledImage should be nullified")
	assert.False(t, isDefined(f.module, f.smp), "sampler load has no users left")
	assert.True(t, isDefined(f.module, f.sampler), "sampler variable is still decorated")
	assert.True(t, isDefined(f.module, f.imageType), "image type is still referenced by OpTypeSampledImage")

	assertReferenceIntegrity(t, f.module)
	assertSampledImageOrder(t, f.module)
}

func TestRun_KeepsPositions(t *testing.T) {
	f := buildFragment(t)
	before := len(f.module.Instructions)

	_, err := Run(f.module, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, f.module.Instructions, before)

	nops := 0
	for _, in := range f.module.Instructions {
		if in.IsNop() {
			nops++
			assert.Empty(t, in.Operands)
			assert.Zero(t, in.ResultID)
			assert.Zero(t, in.ResultType)
		}
	}
	assert.Equal(t, 2, nops)
}

func TestRun_NoDanglingPromotion(t *testing.T) {
	f := buildFragment(t)
	combined := make(map[uint32]bool)
	for _, in := range f.module.Instructions {
		if in.Opcode == spirv.OpSampledImage {
			combined[in.ResultID] = true
		}
	}

	_, err := Run(f.module, DefaultOptions())
	require.NoError(t, err)

	for _, in := range f.module.Instructions {
		refs := in.IDs()
		if in.ResultType != 0 {
			refs = append(refs, in.ResultType)
		}
		for _, ref := range refs {
			assert.False(t, combined[ref], "%s still uses OpSampledImage result %%%d", in, ref)
			if ref == f.imageType {
				assert.Equal(t, spirv.OpTypeSampledImage, in.Opcode, "%s uses the unpromoted image type", in)
			}
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	data, err := spirv.Assemble(buildFragment(t).module)
	require.NoError(t, err)

	once := legalizeBytes(t, data)
	twice := legalizeBytes(t, once)
	assert.True(t, bytes.Equal(once, twice), "second run changed the module")
	assert.False(t, bytes.Equal(data, once), "first run should change the module")
}

func legalizeBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	m, err := spirv.Parse(data, spirv.DefaultParseOptions())
	require.NoError(t, err)
	_, err = Run(m, DefaultOptions())
	require.NoError(t, err)
	out, err := spirv.Assemble(m)
	require.NoError(t, err)
	return out
}

func TestRun_SingleCombine(t *testing.T) {
	m := newModule(append(sharedTypes(), sampleFunction(14, 15, 3, 6)...)...)

	stats, err := Run(m, DefaultOptions())
	require.NoError(t, err)

	// %3 goes, then the sampler value %5 and the sampler type %8 it alone used.
	assert.Equal(t, 3, stats.Nullified)
	for _, gone := range []uint32{3, 5, 8} {
		assert.False(t, isDefined(m, gone), "%%%d should be nullified", gone)
	}

	// The sampled image type keeps its image type alive.
	assert.True(t, isDefined(m, 1))
	assert.True(t, m.IsReferenced(1))

	use := definer(t, m, 6)
	first, _ := use.FirstID()
	assert.Equal(t, uint32(4), first)
	assert.Equal(t, uint32(2), definer(t, m, 4).ResultType)

	assertReferenceIntegrity(t, m)
}

func TestRun_CombinesInSeveralFunctions(t *testing.T) {
	insts := sharedTypes()
	insts = append(insts, sampleFunction(14, 15, 20, 21)...)
	insts = append(insts, sampleFunction(16, 17, 22, 23)...)
	m := newModule(insts...)

	stats, err := Run(m, DefaultOptions())
	require.NoError(t, err)

	// The shared sampler value and type are nullified once each.
	assert.Equal(t, 4, stats.Nullified)
	nops := 0
	for _, in := range m.Instructions {
		if in.IsNop() {
			nops++
		}
	}
	assert.Equal(t, 4, nops)

	for _, use := range []uint32{21, 23} {
		first, _ := definer(t, m, use).FirstID()
		assert.Equal(t, uint32(4), first, "%%%d should sample the image value directly", use)
	}
	assertReferenceIntegrity(t, m)
}

func TestRun_WrapsPassErrors(t *testing.T) {
	t.Run("reorder", func(t *testing.T) {
		m := newModule(
			inst(spirv.OpTypeFloat, 0, 1, lit(32)),
			inst(spirv.OpTypeSampledImage, 0, 2, id(3)),
			image2D(3, 1),
		)
		_, err := Run(m, Options{StrictReorder: true})

		var reorderErr *ReorderError
		require.True(t, errors.As(err, &reorderErr))
		assert.True(t, strings.HasPrefix(err.Error(), "reorder: "), err.Error())
	})

	t.Run("eliminate-dead", func(t *testing.T) {
		m := newModule(
			inst(spirv.OpTypeSampler, 0, 8),
			inst(spirv.OpSampledImage, 2, 3, id(4), id(5)),
		)
		_, err := Run(m, DefaultOptions())

		var corruption *CorruptionError
		require.True(t, errors.As(err, &corruption))
		assert.Equal(t, uint32(4), corruption.ID)
		assert.True(t, strings.HasPrefix(err.Error(), "eliminate-dead: "), err.Error())
	})
}

func TestRun_Trace(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	var buf bytes.Buffer
	f := buildFragment(t)
	_, err := Run(f.module, Options{Logger: logger.New(&buf, true)})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "moving sampled image type just after related image type inst=%9 = OpTypeSampledImage %5")
	assert.Contains(t, out, "promoting all uses of image type to sampled image type image=%5 sampled=%9")
	assert.Contains(t, out, "replacing uses of sampled image with its image operand from=%21 to=%19")
	assert.Contains(t, out, "replacing unused instruction with OpNop inst=%21 = OpSampledImage %9 %19 %20")
	assert.Contains(t, out, "pass finished pass=eliminate-dead")
}

func TestRun_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	f := buildFragment(t)
	_, err := Run(f.module, Options{Logger: logger.New(&buf, false)})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
