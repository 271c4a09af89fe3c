package spirv

import "fmt"

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// MaxVersion is the newest SPIR-V version the decoder accepts.
var MaxVersion = Version1_6

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// word converts Version to SPIR-V word format.
func (v Version) word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// versionFromWord is the inverse of Version.word.
func versionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

// supported reports whether the decoder understands modules of this version.
func (v Version) supported() bool {
	return v.Major == MaxVersion.Major && v.Minor <= MaxVersion.Minor
}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator

	// headerWords is the number of words preceding the first instruction.
	headerWords = 5
)

// Header is the five-word SPIR-V module header minus the magic number.
type Header struct {
	Version   Version
	Generator uint32
	Bound     uint32 // max ID + 1
	Schema    uint32
}

// Capability represents a SPIR-V capability.
type Capability uint32

// Common capabilities
const (
	CapabilityMatrix  Capability = 0 // Implied by Shader
	CapabilityShader  Capability = 1
	CapabilityInt64   Capability = 11
	CapabilityFloat64 Capability = 10
)

// AddressingModel is the operand of OpMemoryModel.
type AddressingModel uint32

const (
	AddressingModelLogical    AddressingModel = 0
	AddressingModelPhysical32 AddressingModel = 1
	AddressingModelPhysical64 AddressingModel = 2
)

// MemoryModel is the operand of OpMemoryModel.
type MemoryModel uint32

const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// ExecutionModel identifies a shader stage in OpEntryPoint.
type ExecutionModel uint32

const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// ExecutionMode is the mode operand of OpExecutionMode.
type ExecutionMode uint32

const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeLocalSize       ExecutionMode = 17
)

// StorageClass is the storage class of pointers and variables.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12
)

// FunctionControl is the control mask of OpFunction.
type FunctionControl uint32

const (
	FunctionControlNone   FunctionControl = 0
	FunctionControlInline FunctionControl = 1
)

// SelectionControl is the control mask of OpSelectionMerge.
type SelectionControl uint32

const SelectionControlNone SelectionControl = 0

// LoopControl is the control mask of OpLoopMerge.
type LoopControl uint32

const LoopControlNone LoopControl = 0

// Dim is the dimensionality operand of OpTypeImage.
type Dim uint32

const (
	Dim1D   Dim = 0
	Dim2D   Dim = 1
	Dim3D   Dim = 2
	DimCube Dim = 3
)

// ImageFormat is the format operand of OpTypeImage.
type ImageFormat uint32

const ImageFormatUnknown ImageFormat = 0

// Image operand mask bits. Every parameter they introduce is an id.
const (
	ImageOperandsNone         uint32 = 0x00
	ImageOperandsBias         uint32 = 0x01
	ImageOperandsLod          uint32 = 0x02
	ImageOperandsGrad         uint32 = 0x04
	ImageOperandsConstOffset  uint32 = 0x08
	ImageOperandsOffset       uint32 = 0x10
	ImageOperandsConstOffsets uint32 = 0x20
	ImageOperandsSample       uint32 = 0x40
	ImageOperandsMinLod       uint32 = 0x80
)

// Memory access mask bits that carry parameters.
const (
	MemoryAccessVolatile             uint32 = 0x01
	MemoryAccessAligned              uint32 = 0x02 // literal alignment
	MemoryAccessNontemporal          uint32 = 0x04
	MemoryAccessMakePointerAvailable uint32 = 0x08 // id scope
	MemoryAccessMakePointerVisible   uint32 = 0x10 // id scope
	MemoryAccessAliasScopeINTEL      uint32 = 0x10000
	MemoryAccessNoAliasINTEL         uint32 = 0x20000
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Common decorations
const (
	DecorationBlock         Decoration = 2
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBuiltIn       Decoration = 11
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)
