package spirv

// OperandKind tells how an operand word is interpreted.
type OperandKind uint8

const (
	// OperandLiteral is a single literal word (numbers, enums, masks).
	OperandLiteral OperandKind = iota

	// OperandID is a reference to another instruction's result id.
	OperandID

	// OperandString is a nul-terminated UTF-8 literal string.
	OperandString
)

// Operand is one operand of an instruction.
type Operand struct {
	Kind  OperandKind
	Value uint32 // id or literal word; unused for strings
	Str   string // OperandString only
}

// IDOperand returns an id reference operand.
func IDOperand(id uint32) Operand {
	return Operand{Kind: OperandID, Value: id}
}

// LiteralOperand returns a single-word literal operand.
func LiteralOperand(word uint32) Operand {
	return Operand{Kind: OperandLiteral, Value: word}
}

// StringOperand returns a literal string operand.
func StringOperand(s string) Operand {
	return Operand{Kind: OperandString, Str: s}
}

// IsID reports whether the operand references an id.
func (o Operand) IsID() bool {
	return o.Kind == OperandID
}

// Instruction represents a decoded SPIR-V instruction.
//
// ResultType and ResultID are zero when the instruction has none; SPIR-V never
// issues id 0.
type Instruction struct {
	Opcode     OpCode
	ResultType uint32
	ResultID   uint32
	Operands   []Operand
}

// Nop returns the placeholder used for removed instructions.
func Nop() Instruction {
	return Instruction{Opcode: OpNop}
}

// IsNop reports whether the instruction is an OpNop placeholder.
func (i *Instruction) IsNop() bool {
	return i.Opcode == OpNop
}

// FirstID returns the first id operand, if any.
func (i *Instruction) FirstID() (uint32, bool) {
	for _, op := range i.Operands {
		if op.IsID() {
			return op.Value, true
		}
	}
	return 0, false
}

// IDs returns every id operand in order. The result type is not included.
func (i *Instruction) IDs() []uint32 {
	var out []uint32
	for _, op := range i.Operands {
		if op.IsID() {
			out = append(out, op.Value)
		}
	}
	return out
}

// References reports whether the instruction uses id as its result type or as
// an id operand.
func (i *Instruction) References(id uint32) bool {
	if i.ResultType != 0 && i.ResultType == id {
		return true
	}
	for _, op := range i.Operands {
		if op.IsID() && op.Value == id {
			return true
		}
	}
	return false
}

// RemapIDs replaces every id operand found in mapping. It reports how many
// operands changed.
func (i *Instruction) RemapIDs(mapping map[uint32]uint32) int {
	changed := 0
	for k := range i.Operands {
		op := &i.Operands[k]
		if !op.IsID() {
			continue
		}
		if to, ok := mapping[op.Value]; ok && to != op.Value {
			op.Value = to
			changed++
		}
	}
	return changed
}

// RemapResultType replaces the result type if it is found in mapping.
func (i *Instruction) RemapResultType(mapping map[uint32]uint32) bool {
	if i.ResultType == 0 {
		return false
	}
	if to, ok := mapping[i.ResultType]; ok && to != i.ResultType {
		i.ResultType = to
		return true
	}
	return false
}

// Clone returns a deep copy of the instruction.
func (i Instruction) Clone() Instruction {
	i.Operands = append([]Operand(nil), i.Operands...)
	return i
}
