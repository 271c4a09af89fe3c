package spirv

import "fmt"

// DecodeErrorKind categorizes decoding failures.
type DecodeErrorKind uint8

const (
	// ErrInvalidHeader indicates a missing or malformed module header.
	ErrInvalidHeader DecodeErrorKind = iota

	// ErrUnsupportedVersion indicates a SPIR-V version the decoder does not know.
	ErrUnsupportedVersion

	// ErrTruncated indicates the stream ends in the middle of an instruction.
	ErrTruncated

	// ErrUnknownOpcode indicates an opcode missing from the grammar table.
	ErrUnknownOpcode

	// ErrMalformedInstruction indicates operands that do not match the grammar.
	ErrMalformedInstruction
)

// String returns a human-readable error kind name.
func (k DecodeErrorKind) String() string {
	switch k {
	case ErrInvalidHeader:
		return "InvalidHeader"
	case ErrUnsupportedVersion:
		return "UnsupportedVersion"
	case ErrTruncated:
		return "Truncated"
	case ErrUnknownOpcode:
		return "UnknownOpcode"
	case ErrMalformedInstruction:
		return "MalformedInstruction"
	default:
		return "Unknown"
	}
}

// DecodeError reports why a byte stream could not be decoded.
type DecodeError struct {
	// Kind categorizes the error.
	Kind DecodeErrorKind

	// Offset is the byte offset of the offending word.
	Offset int

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("spirv decode %s at byte %d: %s", e.Kind, e.Offset, e.Message)
}

func decodeErrorf(kind DecodeErrorKind, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// EncodeErrorKind categorizes encoding failures.
type EncodeErrorKind uint8

const (
	// ErrWordCountOverflow indicates an instruction longer than 65535 words.
	ErrWordCountOverflow EncodeErrorKind = iota

	// ErrInvalidOperand indicates an operand that cannot be serialized.
	ErrInvalidOperand

	// ErrIDOverflow indicates an id too large to compute a header bound for.
	ErrIDOverflow
)

// String returns a human-readable error kind name.
func (k EncodeErrorKind) String() string {
	switch k {
	case ErrWordCountOverflow:
		return "WordCountOverflow"
	case ErrInvalidOperand:
		return "InvalidOperand"
	case ErrIDOverflow:
		return "IDOverflow"
	default:
		return "Unknown"
	}
}

// EncodeError reports why a module could not be serialized.
type EncodeError struct {
	// Kind categorizes the error.
	Kind EncodeErrorKind

	// Index is the position of the offending instruction, or -1 for the header.
	Index int

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("spirv encode %s at instruction %d: %s", e.Kind, e.Index, e.Message)
}
