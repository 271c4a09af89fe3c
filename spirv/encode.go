package spirv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Assemble encodes the module to little-endian SPIR-V words. Every
// instruction is written, OpNop placeholders included. The header bound is
// raised when an id at or above it is in use.
func Assemble(m *Module) ([]byte, error) {
	bound := m.Header.Bound
	if maxID := m.MaxID(); maxID >= bound {
		next, err := safecast.Conv[uint32](uint64(maxID) + 1)
		if err != nil {
			return nil, &EncodeError{Kind: ErrIDOverflow, Index: -1, Message: fmt.Sprintf("id %d leaves no room for a bound", maxID)}
		}
		bound = next
	}

	words := make([]uint32, 0, headerWords+4*len(m.Instructions))
	words = append(words, MagicNumber, m.Header.Version.word(), m.Header.Generator, bound, m.Header.Schema)

	for i := range m.Instructions {
		encoded, err := m.Instructions[i].Encode()
		if err != nil {
			var encErr *EncodeError
			if errors.As(err, &encErr) {
				encErr.Index = i
			}
			return nil, err
		}
		words = append(words, encoded...)
	}

	buffer := make([]byte, len(words)*4)
	for i, word := range words {
		binary.LittleEndian.PutUint32(buffer[i*4:], word)
	}
	return buffer, nil
}

// Encode encodes the instruction to words, opcode word first.
func (i *Instruction) Encode() ([]uint32, error) {
	body := make([]uint32, 0, len(i.Operands)+2)
	if i.ResultType != 0 {
		body = append(body, i.ResultType)
	}
	if i.ResultID != 0 {
		body = append(body, i.ResultID)
	}
	for _, op := range i.Operands {
		if op.Kind != OperandString {
			body = append(body, op.Value)
			continue
		}
		if strings.IndexByte(op.Str, 0) >= 0 {
			return nil, &EncodeError{Kind: ErrInvalidOperand, Message: fmt.Sprintf("%s: literal string contains a nul byte", i.Opcode)}
		}
		body = appendString(body, op.Str)
	}

	wordCount, err := safecast.Conv[uint16](len(body) + 1) // +1 for opcode word
	if err != nil {
		return nil, &EncodeError{Kind: ErrWordCountOverflow, Message: fmt.Sprintf("%s needs %d words", i.Opcode, len(body)+1)}
	}

	result := make([]uint32, 0, len(body)+1)
	result = append(result, uint32(wordCount)<<16|uint32(i.Opcode))
	return append(result, body...), nil
}

// appendString appends a nul-terminated UTF-8 string padded to a word boundary.
func appendString(words []uint32, s string) []uint32 {
	bytes := make([]byte, len(s)+1, len(s)+4)
	copy(bytes, s)

	// Pad to word boundary
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}

	// Convert to words
	for i := 0; i < len(bytes); i += 4 {
		word := uint32(bytes[i]) |
			uint32(bytes[i+1])<<8 |
			uint32(bytes[i+2])<<16 |
			uint32(bytes[i+3])<<24
		words = append(words, word)
	}
	return words
}
