package spirv

// Module is a decoded SPIR-V module: a header followed by the flat
// instruction stream in logical layout order.
type Module struct {
	Header       Header
	Instructions []Instruction
}

// Section is a region of the logical module layout.
type Section uint8

const (
	SectionCapability Section = iota
	SectionExtension
	SectionExtInstImport
	SectionMemoryModel
	SectionEntryPoint
	SectionExecutionMode
	SectionDebug
	SectionAnnotation
	SectionTypesGlobals
	SectionFunctions
)

// preambleSection returns the layout section of instructions that may only
// appear before the types/constants/globals region.
func preambleSection(code OpCode) (Section, bool) {
	switch code {
	case OpCapability:
		return SectionCapability, true
	case OpExtension:
		return SectionExtension, true
	case OpExtInstImport:
		return SectionExtInstImport, true
	case OpMemoryModel:
		return SectionMemoryModel, true
	case OpEntryPoint:
		return SectionEntryPoint, true
	case OpExecutionMode, OpExecutionModeId:
		return SectionExecutionMode, true
	case OpString, OpSource, OpSourceContinued, OpSourceExtension,
		OpName, OpMemberName, OpModuleProcessed:
		return SectionDebug, true
	case OpDecorate, OpDecorateId, OpDecorateString, OpMemberDecorate,
		OpMemberDecorateString, OpDecorationGroup, OpGroupDecorate, OpGroupMemberDecorate:
		return SectionAnnotation, true
	}
	return SectionTypesGlobals, false
}

// FunctionsStart returns the index of the first OpFunction, or the number of
// instructions if the module has no functions.
func (m *Module) FunctionsStart() int {
	for i := range m.Instructions {
		if m.Instructions[i].Opcode == OpFunction {
			return i
		}
	}
	return len(m.Instructions)
}

// TypesRegion returns the [start, end) bounds of the types, constants and
// global variables region.
func (m *Module) TypesRegion() (start, end int) {
	end = m.FunctionsStart()
	for i := 0; i < end; i++ {
		if _, ok := preambleSection(m.Instructions[i].Opcode); ok {
			start = i + 1
		}
	}
	return start, end
}

// SectionOf returns the layout section of the instruction at index.
func (m *Module) SectionOf(index int) Section {
	if index >= m.FunctionsStart() {
		return SectionFunctions
	}
	section, _ := preambleSection(m.Instructions[index].Opcode)
	return section
}

// Definitions maps every result id to the index of the instruction that
// defines it.
func (m *Module) Definitions() map[uint32]int {
	defs := make(map[uint32]int, len(m.Instructions))
	for i := range m.Instructions {
		if rid := m.Instructions[i].ResultID; rid != 0 {
			defs[rid] = i
		}
	}
	return defs
}

// IsReferenced reports whether any instruction uses id as a result type or
// id operand.
func (m *Module) IsReferenced(id uint32) bool {
	for i := range m.Instructions {
		if m.Instructions[i].References(id) {
			return true
		}
	}
	return false
}

// MaxID returns the largest id defined or referenced in the module.
func (m *Module) MaxID() uint32 {
	var highest uint32
	bump := func(v uint32) {
		if v > highest {
			highest = v
		}
	}
	for i := range m.Instructions {
		inst := &m.Instructions[i]
		bump(inst.ResultType)
		bump(inst.ResultID)
		for _, op := range inst.Operands {
			if op.IsID() {
				bump(op.Value)
			}
		}
	}
	return highest
}

// Clone returns a deep copy of the module.
func (m *Module) Clone() *Module {
	out := &Module{
		Header:       m.Header,
		Instructions: make([]Instruction, len(m.Instructions)),
	}
	for i, inst := range m.Instructions {
		out.Instructions[i] = inst.Clone()
	}
	return out
}
