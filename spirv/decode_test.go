package spirv

import (
	"encoding/binary"
	"errors"
	"testing"
)

// encodeWords serializes words in the given byte order.
func encodeWords(order binary.ByteOrder, words ...uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		order.PutUint32(data[i*4:], w)
	}
	return data
}

// moduleWords prefixes a SPIR-V 1.3 header with the given bound.
func moduleWords(bound uint32, body ...uint32) []uint32 {
	return append([]uint32{MagicNumber, Version1_3.word(), GeneratorID, bound, 0}, body...)
}

func opWord(code OpCode, count int) uint32 {
	return uint32(count)<<16 | uint32(code)
}

func mustParse(t *testing.T, data []byte, opts ParseOptions) *Module {
	t.Helper()
	m, err := Parse(data, opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

func assertOperands(t *testing.T, inst Instruction, want ...Operand) {
	t.Helper()
	if len(inst.Operands) != len(want) {
		t.Fatalf("%s: got %d operands %v, want %d %v", inst.Opcode, len(inst.Operands), inst.Operands, len(want), want)
	}
	for i := range want {
		if inst.Operands[i] != want[i] {
			t.Errorf("%s operand %d: got %+v, want %+v", inst.Opcode, i, inst.Operands[i], want[i])
		}
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	data := encodeWords(binary.LittleEndian, moduleWords(7)...)
	m := mustParse(t, data, DefaultParseOptions())

	if m.Header.Version != Version1_3 {
		t.Errorf("Version: got %s, want %s", m.Header.Version, Version1_3)
	}
	if m.Header.Bound != 7 {
		t.Errorf("Bound: got %d, want 7", m.Header.Bound)
	}
	if len(m.Instructions) != 0 {
		t.Errorf("Instructions: got %d, want 0", len(m.Instructions))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind DecodeErrorKind
	}{
		{
			name: "shorter than header",
			data: encodeWords(binary.LittleEndian, MagicNumber, Version1_3.word()),
			kind: ErrTruncated,
		},
		{
			name: "length not word aligned",
			data: append(encodeWords(binary.LittleEndian, moduleWords(1)...), 0x01, 0x02),
			kind: ErrTruncated,
		},
		{
			name: "bad magic",
			data: encodeWords(binary.LittleEndian, 0xDEADBEEF, Version1_3.word(), 0, 1, 0),
			kind: ErrInvalidHeader,
		},
		{
			name: "major version 2",
			data: encodeWords(binary.LittleEndian, MagicNumber, 0x00020000, 0, 1, 0),
			kind: ErrUnsupportedVersion,
		},
		{
			name: "minor version beyond max",
			data: encodeWords(binary.LittleEndian, MagicNumber, 0x00010700, 0, 1, 0),
			kind: ErrUnsupportedVersion,
		},
		{
			name: "reserved version bytes set",
			data: encodeWords(binary.LittleEndian, MagicNumber, 0x00010301, 0, 1, 0),
			kind: ErrUnsupportedVersion,
		},
		{
			name: "zero word count",
			data: encodeWords(binary.LittleEndian, moduleWords(2, opWord(OpTypeVoid, 0))...),
			kind: ErrMalformedInstruction,
		},
		{
			name: "instruction overruns stream",
			data: encodeWords(binary.LittleEndian, moduleWords(3, opWord(OpTypeInt, 4), 1, 32)...),
			kind: ErrTruncated,
		},
		{
			name: "unknown opcode",
			data: encodeWords(binary.LittleEndian, moduleWords(2, opWord(OpCode(9999), 2), 1)...),
			kind: ErrUnknownOpcode,
		},
		{
			name: "trailing operand words",
			data: encodeWords(binary.LittleEndian, moduleWords(2, opWord(OpTypeVoid, 3), 1, 5)...),
			kind: ErrMalformedInstruction,
		},
		{
			name: "reserved id zero",
			data: encodeWords(binary.LittleEndian, moduleWords(2, opWord(OpTypeVoid, 2), 0)...),
			kind: ErrMalformedInstruction,
		},
		{
			name: "unterminated string",
			data: encodeWords(binary.LittleEndian, moduleWords(2, opWord(OpName, 3), 1, 0x6e69616d)...),
			kind: ErrMalformedInstruction,
		},
		{
			name: "missing required operand",
			data: encodeWords(binary.LittleEndian, moduleWords(3, opWord(OpTypeSampledImage, 2), 2)...),
			kind: ErrMalformedInstruction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.data, DefaultParseOptions())
			if err == nil {
				t.Fatalf("expected error, got module with %d instructions", len(m.Instructions))
			}
			if m != nil {
				t.Error("module should be nil on error")
			}
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected *DecodeError, got %T: %v", err, err)
			}
			if decErr.Kind != tt.kind {
				t.Errorf("Kind: got %s, want %s (%v)", decErr.Kind, tt.kind, err)
			}
		})
	}
}

func TestParse_UnsupportedVersionOffset(t *testing.T) {
	_, err := Parse(encodeWords(binary.LittleEndian, MagicNumber, 0x00020000, 0, 1, 0), DefaultParseOptions())
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if decErr.Offset != 4 {
		t.Errorf("Offset: got %d, want 4", decErr.Offset)
	}
}

func TestParse_AllowUnknownOpcodes(t *testing.T) {
	data := encodeWords(binary.LittleEndian, moduleWords(2, opWord(OpCode(9999), 3), 1, 42)...)
	m := mustParse(t, data, ParseOptions{AllowUnknownOpcodes: true})

	if len(m.Instructions) != 1 {
		t.Fatalf("Instructions: got %d, want 1", len(m.Instructions))
	}
	inst := m.Instructions[0]
	if inst.ResultID != 0 || inst.ResultType != 0 {
		t.Errorf("unknown opcode should have no result, got type=%d id=%d", inst.ResultType, inst.ResultID)
	}
	assertOperands(t, inst, LiteralOperand(1), LiteralOperand(42))
	if got := inst.Opcode.String(); got != "Op9999" {
		t.Errorf("Opcode name: got %q, want %q", got, "Op9999")
	}
}

func TestParse_BigEndian(t *testing.T) {
	words := moduleWords(3,
		opWord(OpTypeFloat, 3), 1, 32,
		opWord(OpTypeVector, 4), 2, 1, 4,
	)
	little := mustParse(t, encodeWords(binary.LittleEndian, words...), DefaultParseOptions())
	big := mustParse(t, encodeWords(binary.BigEndian, words...), DefaultParseOptions())

	if big.Header != little.Header {
		t.Errorf("Header: got %+v, want %+v", big.Header, little.Header)
	}
	if len(big.Instructions) != len(little.Instructions) {
		t.Fatalf("Instructions: got %d, want %d", len(big.Instructions), len(little.Instructions))
	}
	for i := range little.Instructions {
		if big.Instructions[i].String() != little.Instructions[i].String() {
			t.Errorf("instruction %d: got %q, want %q", i, big.Instructions[i], little.Instructions[i])
		}
	}
}

func TestParse_String(t *testing.T) {
	// "main" fills one word exactly, so the terminator takes a second word.
	data := encodeWords(binary.LittleEndian, moduleWords(2, opWord(OpName, 4), 1, 0x6e69616d, 0)...)
	m := mustParse(t, data, DefaultParseOptions())
	assertOperands(t, m.Instructions[0], IDOperand(1), StringOperand("main"))
}

func TestParse_SwitchLiteralWidth(t *testing.T) {
	tests := []struct {
		name  string
		width uint32
		body  []uint32
		want  []Operand
	}{
		{
			name:  "32-bit selector",
			width: 32,
			body:  []uint32{opWord(OpSwitch, 7), 3, 10, 1, 11, 2, 12},
			want: []Operand{
				IDOperand(3), IDOperand(10),
				LiteralOperand(1), IDOperand(11),
				LiteralOperand(2), IDOperand(12),
			},
		},
		{
			name:  "64-bit selector",
			width: 64,
			body:  []uint32{opWord(OpSwitch, 6), 3, 10, 5, 0, 11},
			want: []Operand{
				IDOperand(3), IDOperand(10),
				LiteralOperand(5), LiteralOperand(0), IDOperand(11),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constant := []uint32{opWord(OpConstant, 4), 1, 3, 7}
			if tt.width == 64 {
				constant = []uint32{opWord(OpConstant, 5), 1, 3, 7, 0}
			}
			body := []uint32{opWord(OpTypeInt, 4), 1, tt.width, 0}
			body = append(body, constant...)
			body = append(body, tt.body...)

			m := mustParse(t, encodeWords(binary.LittleEndian, moduleWords(13, body...)...), DefaultParseOptions())
			if len(m.Instructions) != 3 {
				t.Fatalf("Instructions: got %d, want 3", len(m.Instructions))
			}
			assertOperands(t, m.Instructions[2], tt.want...)
		})
	}
}

func TestParse_SpecConstantOp(t *testing.T) {
	data := encodeWords(binary.LittleEndian, moduleWords(4,
		opWord(OpTypeInt, 4), 1, 32, 0,
		opWord(OpSpecConstant, 4), 1, 2, 9,
		opWord(OpSpecConstantOp, 6), 1, 3, uint32(OpIAdd), 2, 2,
	)...)
	m := mustParse(t, data, DefaultParseOptions())

	inst := m.Instructions[2]
	if inst.ResultType != 1 || inst.ResultID != 3 {
		t.Errorf("result: got type=%d id=%d, want type=1 id=3", inst.ResultType, inst.ResultID)
	}
	assertOperands(t, inst, LiteralOperand(uint32(OpIAdd)), IDOperand(2), IDOperand(2))
}

func TestParse_MemoryAccess(t *testing.T) {
	mask := MemoryAccessAligned | MemoryAccessMakePointerVisible
	data := encodeWords(binary.LittleEndian, moduleWords(7,
		opWord(OpLoad, 7), 1, 5, 4, mask, 16, 6,
		opWord(OpLoad, 4), 1, 8, 4,
	)...)
	m := mustParse(t, data, DefaultParseOptions())

	assertOperands(t, m.Instructions[0], IDOperand(4), LiteralOperand(mask), LiteralOperand(16), IDOperand(6))
	assertOperands(t, m.Instructions[1], IDOperand(4))
}

func TestParse_CopyMemoryTwoMasks(t *testing.T) {
	data := encodeWords(binary.LittleEndian, moduleWords(5,
		opWord(OpCopyMemory, 6), 1, 2, MemoryAccessAligned, 4, MemoryAccessVolatile,
	)...)
	m := mustParse(t, data, DefaultParseOptions())
	assertOperands(t, m.Instructions[0],
		IDOperand(1), IDOperand(2),
		LiteralOperand(MemoryAccessAligned), LiteralOperand(4),
		LiteralOperand(MemoryAccessVolatile))
}

func TestParse_ImageOperands(t *testing.T) {
	mask := ImageOperandsBias | ImageOperandsConstOffset
	data := encodeWords(binary.LittleEndian, moduleWords(9,
		opWord(OpImageSampleImplicitLod, 8), 1, 2, 3, 4, mask, 5, 6,
	)...)
	m := mustParse(t, data, DefaultParseOptions())

	inst := m.Instructions[0]
	assertOperands(t, inst, IDOperand(3), IDOperand(4), LiteralOperand(mask), IDOperand(5), IDOperand(6))
	if got := inst.IDs(); len(got) != 4 {
		t.Errorf("IDs: got %v, want 4 ids", got)
	}
}
