package spirv

import (
	"encoding/binary"
	"math/bits"
	"strings"
)

// ParseOptions configures decoding.
type ParseOptions struct {
	// AllowUnknownOpcodes keeps instructions missing from the grammar table,
	// with every operand as an opaque literal, instead of failing. Ids inside
	// such instructions are invisible to later passes.
	AllowUnknownOpcodes bool
}

// DefaultParseOptions returns strict decoding options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{}
}

// Parse decodes a SPIR-V binary module. Both word orders are accepted; the
// order is detected from the magic number. On failure it returns a
// *DecodeError and no module.
func Parse(data []byte, opts ParseOptions) (*Module, error) {
	if len(data) < headerWords*4 {
		return nil, decodeErrorf(ErrTruncated, 0, "module is %d bytes, header alone needs %d", len(data), headerWords*4)
	}
	if len(data)%4 != 0 {
		return nil, decodeErrorf(ErrTruncated, len(data)-len(data)%4, "length %d is not a multiple of the word size", len(data))
	}

	var order binary.ByteOrder
	switch binary.LittleEndian.Uint32(data) {
	case MagicNumber:
		order = binary.LittleEndian
	case bits.ReverseBytes32(MagicNumber):
		order = binary.BigEndian
	default:
		return nil, decodeErrorf(ErrInvalidHeader, 0, "invalid magic 0x%08X", binary.LittleEndian.Uint32(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4:])
	}

	version := versionFromWord(words[1])
	if words[1]&0xFF0000FF != 0 || !version.supported() {
		return nil, decodeErrorf(ErrUnsupportedVersion, 4, "version word 0x%08X (max supported %s)", words[1], MaxVersion)
	}

	p := &parser{
		opts:       opts,
		intWidths:  make(map[uint32]uint32),
		valueTypes: make(map[uint32]uint32),
	}
	module := &Module{
		Header: Header{
			Version:   version,
			Generator: words[2],
			Bound:     words[3],
			Schema:    words[4],
		},
	}

	for pos := headerWords; pos < len(words); {
		first := words[pos]
		count := int(first >> 16)
		code := OpCode(first & 0xFFFF)
		if count == 0 {
			return nil, decodeErrorf(ErrMalformedInstruction, pos*4, "%s has word count 0", code)
		}
		if pos+count > len(words) {
			return nil, decodeErrorf(ErrTruncated, pos*4, "%s needs %d words, %d left", code, count, len(words)-pos)
		}

		inst, err := p.instruction(code, words[pos+1:pos+count], (pos+1)*4)
		if err != nil {
			return nil, err
		}
		module.Instructions = append(module.Instructions, inst)
		pos += count
	}

	return module, nil
}

// parser carries the type facts needed by context-sensitive operands.
type parser struct {
	opts ParseOptions

	// OpTypeInt result id -> bit width
	intWidths map[uint32]uint32

	// result id -> result type id
	valueTypes map[uint32]uint32
}

func (p *parser) instruction(code OpCode, operands []uint32, offset int) (Instruction, error) {
	inst := Instruction{Opcode: code}

	l, ok := lookupLayout(code)
	if !ok {
		if !p.opts.AllowUnknownOpcodes {
			return inst, decodeErrorf(ErrUnknownOpcode, offset-4, "opcode %d is not in the grammar table", uint16(code))
		}
		for _, w := range operands {
			inst.Operands = append(inst.Operands, LiteralOperand(w))
		}
		return inst, nil
	}

	r := &operandReader{code: code, words: operands, base: offset}
	var err error
	if l.resultType {
		if inst.ResultType, err = r.id(); err != nil {
			return inst, err
		}
	}
	if l.result {
		if inst.ResultID, err = r.id(); err != nil {
			return inst, err
		}
	}
	if err := p.readOperands(r, &inst, l.operands); err != nil {
		return inst, err
	}
	if r.remaining() > 0 {
		return inst, r.errorf("%d unexpected trailing words", r.remaining())
	}

	p.track(&inst)
	return inst, nil
}

func (p *parser) readOperands(r *operandReader, inst *Instruction, classes []operandClass) error {
	for _, class := range classes {
		switch class {
		case classID:
			if err := r.appendID(inst); err != nil {
				return err
			}

		case classLiteral:
			if err := r.appendLiteral(inst); err != nil {
				return err
			}

		case classString:
			if err := r.appendString(inst); err != nil {
				return err
			}

		case classOptID:
			if r.remaining() > 0 {
				if err := r.appendID(inst); err != nil {
					return err
				}
			}

		case classOptString:
			if r.remaining() > 0 {
				if err := r.appendString(inst); err != nil {
					return err
				}
			}

		case classIDs:
			for r.remaining() > 0 {
				if err := r.appendID(inst); err != nil {
					return err
				}
			}

		case classLiterals:
			for r.remaining() > 0 {
				if err := r.appendLiteral(inst); err != nil {
					return err
				}
			}

		case classImageOps:
			// Every ImageOperands parameter is an id.
			if r.remaining() == 0 {
				continue
			}
			if err := r.appendLiteral(inst); err != nil {
				return err
			}
			for r.remaining() > 0 {
				if err := r.appendID(inst); err != nil {
					return err
				}
			}

		case classMemoryAccess:
			if err := r.appendMemoryAccess(inst); err != nil {
				return err
			}

		case classSwitchTargets:
			width := p.literalWords(inst)
			for r.remaining() > 0 {
				for k := 0; k < width; k++ {
					if err := r.appendLiteral(inst); err != nil {
						return err
					}
				}
				if err := r.appendID(inst); err != nil {
					return err
				}
			}

		case classIDLiteralPairs:
			for r.remaining() > 0 {
				if err := r.appendID(inst); err != nil {
					return err
				}
				if err := r.appendLiteral(inst); err != nil {
					return err
				}
			}

		case classSpecOp:
			if err := p.readSpecConstantOp(r, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

// readSpecConstantOp decodes the wrapped opcode's operands with that opcode's
// own grammar.
func (p *parser) readSpecConstantOp(r *operandReader, inst *Instruction) error {
	wrapped, err := r.next()
	if err != nil {
		return err
	}
	inst.Operands = append(inst.Operands, LiteralOperand(wrapped))

	l, ok := lookupLayout(OpCode(wrapped))
	if !ok {
		if !p.opts.AllowUnknownOpcodes {
			return r.errorf("wrapped opcode %d is not in the grammar table", wrapped)
		}
		for r.remaining() > 0 {
			if err := r.appendLiteral(inst); err != nil {
				return err
			}
		}
		return nil
	}
	return p.readOperands(r, inst, l.operands)
}

// literalWords returns how many words each OpSwitch case literal occupies,
// taken from the selector's integer type.
func (p *parser) literalWords(inst *Instruction) int {
	if len(inst.Operands) == 0 {
		return 1
	}
	selectorType := p.valueTypes[inst.Operands[0].Value]
	if p.intWidths[selectorType] > 32 {
		return 2
	}
	return 1
}

func (p *parser) track(inst *Instruction) {
	if inst.Opcode == OpTypeInt && len(inst.Operands) > 0 {
		p.intWidths[inst.ResultID] = inst.Operands[0].Value
	}
	if inst.ResultType != 0 && inst.ResultID != 0 {
		p.valueTypes[inst.ResultID] = inst.ResultType
	}
}

// operandReader walks the operand words of one instruction.
type operandReader struct {
	code  OpCode
	words []uint32
	pos   int
	base  int // byte offset of words[0]
}

func (r *operandReader) remaining() int {
	return len(r.words) - r.pos
}

func (r *operandReader) errorf(format string, args ...any) *DecodeError {
	err := decodeErrorf(ErrMalformedInstruction, r.base+r.pos*4, format, args...)
	err.Message = r.code.String() + ": " + err.Message
	return err
}

func (r *operandReader) next() (uint32, error) {
	if r.pos >= len(r.words) {
		return 0, r.errorf("missing operand")
	}
	w := r.words[r.pos]
	r.pos++
	return w, nil
}

func (r *operandReader) id() (uint32, error) {
	v, err := r.next()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		r.pos--
		return 0, r.errorf("id 0 is reserved")
	}
	return v, nil
}

func (r *operandReader) appendID(inst *Instruction) error {
	v, err := r.id()
	if err != nil {
		return err
	}
	inst.Operands = append(inst.Operands, IDOperand(v))
	return nil
}

func (r *operandReader) appendLiteral(inst *Instruction) error {
	v, err := r.next()
	if err != nil {
		return err
	}
	inst.Operands = append(inst.Operands, LiteralOperand(v))
	return nil
}

func (r *operandReader) appendString(inst *Instruction) error {
	start := r.pos
	var sb strings.Builder
	for r.pos < len(r.words) {
		w := r.words[r.pos]
		r.pos++
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				inst.Operands = append(inst.Operands, StringOperand(sb.String()))
				return nil
			}
			sb.WriteByte(b)
		}
	}
	r.pos = start
	return r.errorf("unterminated literal string")
}

// appendMemoryAccess decodes an optional MemoryAccess mask and the parameters
// its bits introduce, in bit order.
func (r *operandReader) appendMemoryAccess(inst *Instruction) error {
	if r.remaining() == 0 {
		return nil
	}
	mask, err := r.next()
	if err != nil {
		return err
	}
	inst.Operands = append(inst.Operands, LiteralOperand(mask))

	if mask&MemoryAccessAligned != 0 {
		if err := r.appendLiteral(inst); err != nil {
			return err
		}
	}
	for _, bit := range []uint32{
		MemoryAccessMakePointerAvailable,
		MemoryAccessMakePointerVisible,
		MemoryAccessAliasScopeINTEL,
		MemoryAccessNoAliasINTEL,
	} {
		if mask&bit != 0 {
			if err := r.appendID(inst); err != nil {
				return err
			}
		}
	}
	return nil
}
