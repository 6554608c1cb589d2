package wire

import "math"

// Reader decodes a single frame's payload bytes. Every Read method
// bounds-checks before advancing, per spec.md §9's first open
// question: truncation is detected at the field that actually runs out
// of bytes, not only at the 9-byte header. Once a read fails, the
// sticky error is returned by every subsequent call and Deserialize
// methods must check Err after decoding all fields, never partial
// state (spec.md §9's third open question).
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader creates a Reader over data, starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered while reading, if any.
func (r *Reader) Err() error {
	return r.err
}

// Pos returns the current read offset, the explicit cursor spec.md
// §9's second open question asks for: every Read method advances it
// by exactly the number of bytes it consumed, never implicitly.
func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) setError(err error) {
	if r.err == nil {
		r.err = err
	}
}

// ensure reports whether n more bytes are available, recording
// ErrBufferTooShort and returning false otherwise.
func (r *Reader) ensure(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) {
		r.setError(ErrBufferTooShort)
		return false
	}
	return true
}

// ReadBool reads a single-byte boolean.
func (r *Reader) ReadBool() bool {
	if !r.ensure(1) {
		return false
	}
	v := r.data[r.pos] != 0
	r.pos++
	return v
}

// ReadUint8 reads a single unsigned byte.
func (r *Reader) ReadUint8() uint8 {
	if !r.ensure(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() uint16 {
	if !r.ensure(2) {
		return 0
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() uint32 {
	if !r.ensure(4) {
		return 0
	}
	b := r.data[r.pos : r.pos+4]
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	r.pos += 4
	return v
}

// ReadUint64 reads a big-endian uint64.
func (r *Reader) ReadUint64() uint64 {
	if !r.ensure(8) {
		return 0
	}
	b := r.data[r.pos : r.pos+8]
	v := uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
	r.pos += 8
	return v
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() int8 { return int8(r.ReadUint8()) }

// ReadInt16 reads a big-endian int16.
func (r *Reader) ReadInt16() int16 { return int16(r.ReadUint16()) }

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() int32 { return int32(r.ReadUint32()) }

// ReadInt64 reads a big-endian int64.
func (r *Reader) ReadInt64() int64 { return int64(r.ReadUint64()) }

// ReadFloat32 reads a big-endian IEEE 754 float32.
func (r *Reader) ReadFloat32() float32 {
	return math.Float32frombits(r.ReadUint32())
}

// ReadFloat64 reads a big-endian IEEE 754 float64.
func (r *Reader) ReadFloat64() float64 {
	return math.Float64frombits(r.ReadUint64())
}

// ReadFixedString reads a fixed-length, single-byte-character array
// and trims trailing space padding.
func (r *Reader) ReadFixedString(length int) string {
	if !r.ensure(length) {
		return ""
	}
	raw := r.data[r.pos : r.pos+length]
	r.pos += length

	end := len(raw)
	for end > 0 && raw[end-1] == ' ' {
		end--
	}
	return string(raw[:end])
}
