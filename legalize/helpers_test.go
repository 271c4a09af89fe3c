// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvlegalize/spirv"
)

func id(v uint32) spirv.Operand  { return spirv.IDOperand(v) }
func lit(v uint32) spirv.Operand { return spirv.LiteralOperand(v) }

func inst(code spirv.OpCode, resultType, result uint32, operands ...spirv.Operand) spirv.Instruction {
	return spirv.Instruction{Opcode: code, ResultType: resultType, ResultID: result, Operands: operands}
}

// image2D declares a sampled 2D image type over sampledType.
func image2D(result, sampledType uint32) spirv.Instruction {
	return inst(spirv.OpTypeImage, 0, result,
		id(sampledType), lit(uint32(spirv.Dim2D)), lit(0), lit(0), lit(0), lit(1), lit(uint32(spirv.ImageFormatUnknown)))
}

func newModule(insts ...spirv.Instruction) *spirv.Module {
	m := &spirv.Module{Header: spirv.Header{Version: spirv.Version1_3}, Instructions: insts}
	m.Header.Bound = m.MaxID() + 1
	return m
}

// fragment is a fragment shader sampling texture through a separately bound
// sampler, as emitted by front ends that keep the two apart.
type fragment struct {
	module *spirv.Module

	imageType, samplerType, sampledType uint32
	imagePtr, samplerPtr                uint32
	texture, sampler                    uint32
	img, smp, combined, color           uint32
}

func buildFragment(t *testing.T) fragment {
	t.Helper()
	var f fragment
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	voidType := b.AddTypeVoid()
	floatType := b.AddTypeFloat(32)
	vec2Type := b.AddTypeVector(floatType, 2)
	vec4Type := b.AddTypeVector(floatType, 4)
	f.imageType = b.AddTypeImage(spirv.ImageType{SampledType: floatType, Dim: spirv.Dim2D, Sampled: 1})
	f.samplerType = b.AddTypeSampler()
	f.imagePtr = b.AddTypePointer(spirv.StorageClassUniformConstant, f.imageType)
	f.samplerPtr = b.AddTypePointer(spirv.StorageClassUniformConstant, f.samplerType)
	// Declared late on purpose so Reorder has to move it.
	f.sampledType = b.AddTypeSampledImage(f.imageType)
	outPtr := b.AddTypePointer(spirv.StorageClassOutput, vec4Type)
	funcType := b.AddTypeFunction(voidType)
	half := b.AddConstantFloat32(floatType, 0.5)
	coord := b.AddConstantComposite(vec2Type, half, half)

	f.texture = b.AddVariable(f.imagePtr, spirv.StorageClassUniformConstant)
	f.sampler = b.AddVariable(f.samplerPtr, spirv.StorageClassUniformConstant)
	output := b.AddVariable(outPtr, spirv.StorageClassOutput)
	b.AddDecorate(f.texture, spirv.DecorationDescriptorSet, 0)
	b.AddDecorate(f.texture, spirv.DecorationBinding, 0)
	b.AddDecorate(f.sampler, spirv.DecorationDescriptorSet, 0)
	b.AddDecorate(f.sampler, spirv.DecorationBinding, 1)
	b.AddDecorate(output, spirv.DecorationLocation, 0)

	mainID := b.AddFunction(funcType, voidType, spirv.FunctionControlNone)
	b.AddLabel()
	f.img = b.AddLoad(f.imageType, f.texture)
	f.smp = b.AddLoad(f.samplerType, f.sampler)
	f.combined = b.AddSampledImage(f.sampledType, f.img, f.smp)
	f.color = b.AddImageSample(spirv.OpImageSampleImplicitLod, vec4Type, f.combined, coord, spirv.ImageOperandsNone)
	b.AddStore(output, f.color)
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, mainID, "main", []uint32{output})
	b.AddExecutionMode(mainID, spirv.ExecutionModeOriginUpperLeft)
	b.AddName(mainID, "main")

	f.module = b.Module()
	return f
}

// definer returns the live instruction defining id.
func definer(t *testing.T, m *spirv.Module, result uint32) *spirv.Instruction {
	t.Helper()
	for i := range m.Instructions {
		if m.Instructions[i].ResultID == result {
			return &m.Instructions[i]
		}
	}
	require.Failf(t, "missing definition", "%%%d is not defined", result)
	return nil
}

func isDefined(m *spirv.Module, result uint32) bool {
	_, ok := m.Definitions()[result]
	return ok
}

func indexOf(m *spirv.Module, result uint32) int {
	for i := range m.Instructions {
		if m.Instructions[i].ResultID == result {
			return i
		}
	}
	return -1
}

// assertReferenceIntegrity checks that every reference held by a surviving
// instruction resolves to exactly one surviving definition.
func assertReferenceIntegrity(t *testing.T, m *spirv.Module) {
	t.Helper()
	defined := make(map[uint32]int)
	for _, in := range m.Instructions {
		if in.ResultID != 0 {
			defined[in.ResultID]++
		}
	}
	for _, in := range m.Instructions {
		if in.IsNop() {
			continue
		}
		refs := in.IDs()
		if in.ResultType != 0 {
			refs = append(refs, in.ResultType)
		}
		for _, ref := range refs {
			assert.Equal(t, 1, defined[ref], "%s references %%%d", in, ref)
		}
	}
}

// assertSampledImageOrder checks every OpTypeSampledImage directly follows
// its image type.
func assertSampledImageOrder(t *testing.T, m *spirv.Module) {
	t.Helper()
	for i, in := range m.Instructions {
		if in.Opcode != spirv.OpTypeSampledImage {
			continue
		}
		image, _ := in.FirstID()
		base := indexOf(m, image)
		require.GreaterOrEqual(t, base, 0, "image type %%%d missing", image)
		assert.Equal(t, i-1, base, "%s should directly follow its image type", in)
	}
}
