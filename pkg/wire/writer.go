package wire

import (
	"math"
	"sync"
)

// Writer accumulates a single frame's payload bytes. It uses the same
// sticky-error pattern as a stream writer: once a write fails, every
// subsequent write is a no-op and Err returns the first failure.
// Generated SerializePayload methods rely on this to avoid checking an
// error after every single field write.
type Writer struct {
	buf []byte
	err error
}

var writerPool = sync.Pool{
	New: func() any {
		return &Writer{buf: make([]byte, 0, 256)}
	},
}

// GetWriter returns a Writer from the pool, ready to use. Callers must
// return it with PutWriter when done.
func GetWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// PutWriter returns w to the pool. w must not be used afterward.
func PutWriter(w *Writer) {
	if w == nil {
		return
	}
	if cap(w.buf) > 64*1024 {
		return
	}
	writerPool.Put(w)
}

// NewWriter creates a standalone Writer, bypassing the pool.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

// Reset clears the writer so it can encode a new payload.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
}

// Err returns the first error recorded during writing, if any.
func (w *Writer) Err() error {
	return w.err
}

// Bytes returns the accumulated payload. The slice is only valid until
// the next Reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) setError(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) grow(n int) {
	if len(w.buf)+n <= cap(w.buf) {
		return
	}
	newCap := cap(w.buf) * 2
	if newCap < len(w.buf)+n {
		newCap = len(w.buf) + n
	}
	newBuf := make([]byte, len(w.buf), newCap)
	copy(newBuf, w.buf)
	w.buf = newBuf
}

// WriteBool writes a single-byte boolean: 1 for true, 0 for false.
func (w *Writer) WriteBool(v bool) {
	if w.err != nil {
		return
	}
	w.grow(1)
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteUint8 writes a single unsigned byte.
func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	w.grow(1)
	w.buf = append(w.buf, v)
}

// WriteUint16 writes a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	w.grow(2)
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

// WriteUint32 writes a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	w.grow(4)
	w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteUint64 writes a big-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	w.grow(8)
	w.buf = append(w.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(v int8) { w.WriteUint8(uint8(v)) }

// WriteInt16 writes a big-endian int16.
func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

// WriteInt32 writes a big-endian int32.
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

// WriteInt64 writes a big-endian int64.
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

// WriteFloat32 writes a big-endian IEEE 754 float32.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes a big-endian IEEE 754 float64.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteFixedString writes s as a fixed-length, space-padded,
// single-byte-character array of the given length. It fails with
// ErrStringTooLong if s has more characters than length.
func (w *Writer) WriteFixedString(s string, length int) {
	if w.err != nil {
		return
	}
	if len(s) > length {
		w.setError(ErrStringTooLong)
		return
	}
	w.grow(length)
	start := len(w.buf)
	w.buf = append(w.buf, make([]byte, length)...)
	copy(w.buf[start:], s)
	for i := start + len(s); i < start+length; i++ {
		w.buf[i] = ' '
	}
}
