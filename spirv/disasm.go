package spirv

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel", 9: "Float16",
	10: "Float64", 11: "Int64", 13: "ImageBasic", 14: "ImageReadWrite",
	15: "ImageMipmap", 20: "LiteralSampler", 22: "Int16",
	25: "ImageGatherExtended", 28: "SampledImageArrayDynamicIndexing",
	32: "CullDistance", 33: "ImageCubeArray", 34: "SampleRateShading",
	35: "ImageRect", 36: "SampledRect", 38: "Int8", 39: "InputAttachment",
	40: "SparseResidency", 41: "MinLod", 42: "Sampled1D", 43: "Image1D",
	44: "SampledCubeArray", 45: "SampledBuffer", 46: "ImageBuffer",
	49: "ImageQuery", 50: "DerivativeControl", 61: "GroupNonUniform",
	5015: "RuntimeDescriptorArray",
}

var storageClassNames = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var decorationNames = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	11: "BuiltIn", 13: "NoPerspective", 14: "Flat", 18: "Invariant",
	19: "Restrict", 20: "Aliased", 23: "Coherent", 24: "NonWritable",
	25: "NonReadable", 30: "Location", 31: "Component", 33: "Binding",
	34: "DescriptorSet", 35: "Offset", 43: "InputAttachmentIndex",
	5300: "NonUniform",
}

var executionModelNames = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

var dimNames = map[uint32]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
}

// enumOperands names the literal operands that are worth printing by name,
// keyed by opcode and operand index.
var enumOperands = map[OpCode]map[int]map[uint32]string{
	OpCapability:     {0: capabilityNames},
	OpEntryPoint:     {0: executionModelNames},
	OpTypePointer:    {0: storageClassNames},
	OpVariable:       {0: storageClassNames},
	OpTypeImage:      {1: dimNames},
	OpDecorate:       {1: decorationNames},
	OpMemberDecorate: {2: decorationNames},
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return strconv.FormatUint(uint64(v), 10)
}

// String formats the instruction as a single line of SPIR-V assembly,
// for example "%5 = OpTypeSampledImage %4".
func (i Instruction) String() string {
	var sb strings.Builder
	if i.ResultID != 0 {
		fmt.Fprintf(&sb, "%%%d = ", i.ResultID)
	}
	sb.WriteString(i.Opcode.String())
	if i.ResultType != 0 {
		fmt.Fprintf(&sb, " %%%d", i.ResultType)
	}
	enums := enumOperands[i.Opcode]
	for k, op := range i.Operands {
		switch op.Kind {
		case OperandID:
			fmt.Fprintf(&sb, " %%%d", op.Value)
		case OperandString:
			fmt.Fprintf(&sb, " %q", op.Str)
		default:
			if names, ok := enums[k]; ok {
				sb.WriteString(" " + lookup(names, op.Value))
			} else {
				fmt.Fprintf(&sb, " %d", op.Value)
			}
		}
	}
	return sb.String()
}

// Disassemble writes a textual listing of the module, one instruction per
// line, with result ids right-aligned in a fixed column.
func Disassemble(w io.Writer, m *Module) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; SPIR-V\n")
	fmt.Fprintf(&sb, "; Version: %s\n", m.Header.Version)
	fmt.Fprintf(&sb, "; Generator: 0x%08X\n", m.Header.Generator)
	fmt.Fprintf(&sb, "; Bound: %d\n", m.Header.Bound)
	fmt.Fprintf(&sb, "; Schema: %d\n", m.Header.Schema)

	column := len(strconv.FormatUint(uint64(m.Header.Bound), 10)) + 4 // "%" + id + " = "
	for _, inst := range m.Instructions {
		line := inst.String()
		if inst.ResultID != 0 {
			prefix := fmt.Sprintf("%%%d = ", inst.ResultID)
			line = strings.Repeat(" ", max(column-len(prefix), 0)) + line
		} else {
			line = strings.Repeat(" ", column) + line
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
