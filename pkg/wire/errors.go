// Package wire implements the fixed-width, big-endian, bitmask-framed
// binary codec described in spec.md §4.3: a 9-byte frame header
// followed by a fixed-layout payload.
package wire

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions a generated codec can encounter at
// runtime. These are the "generated decoder" errors from spec.md §7:
// they are never panics, and a Reader always returns one of them
// rather than silently producing zeroed or partial data.
var (
	// ErrBufferTooShort means fewer bytes were available than a field,
	// the bitmask, or the header required.
	ErrBufferTooShort = errors.New("wire: buffer too short")

	// ErrUnknownMessageType means the header's message type tag did not
	// match any message format the dispatcher knows about.
	ErrUnknownMessageType = errors.New("wire: unknown message type")

	// ErrInvalidEnumValue means a decoded enum byte did not match any
	// declared variant value.
	ErrInvalidEnumValue = errors.New("wire: invalid enum value")

	// ErrStringTooLong means a host constructor was given a string
	// longer than its field's declared fixed length.
	ErrStringTooLong = errors.New("wire: string too long for fixed field")
)

// DecodeError adds field-level context to a decoding failure.
type DecodeError struct {
	Message string // which message format was being decoded
	Field   string // which field, if applicable
	Offset  int    // byte offset into the payload
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("wire: decode %s.%s at offset %d: %v", e.Message, e.Field, e.Offset, e.Cause)
	}
	return fmt.Sprintf("wire: decode %s at offset %d: %v", e.Message, e.Offset, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func NewDecodeError(message, field string, offset int, cause error) *DecodeError {
	return &DecodeError{Message: message, Field: field, Offset: offset, Cause: cause}
}

// EncodeError adds field-level context to an encoding failure.
type EncodeError struct {
	Message string
	Field   string
	Cause   error
}

func (e *EncodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("wire: encode %s.%s: %v", e.Message, e.Field, e.Cause)
	}
	return fmt.Sprintf("wire: encode %s: %v", e.Message, e.Cause)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

func NewEncodeError(message, field string, cause error) *EncodeError {
	return &EncodeError{Message: message, Field: field, Cause: cause}
}
