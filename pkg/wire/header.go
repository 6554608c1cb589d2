package wire

import "encoding/binary"

// HeaderSize is the fixed size, in bytes, of a frame header.
const HeaderSize = 9

// Header is the 9-byte prefix of every frame: the total message size
// (header + payload), the message's wire type tag, and the presence
// bitmask for its optional fields.
type Header struct {
	MessageSize uint32 // total frame size, including the header itself
	MessageType uint8  // 1-based wire type tag, per schema.Schema.WireType
	Bitmask     Bitmask
}

// EncodeHeader writes h to the first HeaderSize bytes of buf, which
// must have length >= HeaderSize.
func EncodeHeader(buf []byte, h Header) {
	binary.BigEndian.PutUint32(buf[0:4], h.MessageSize)
	buf[4] = h.MessageType
	binary.BigEndian.PutUint32(buf[5:9], uint32(h.Bitmask))
}

// DecodeHeader reads a Header from the first HeaderSize bytes of buf.
// It returns ErrBufferTooShort if buf is shorter than HeaderSize.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrBufferTooShort
	}
	return Header{
		MessageSize: binary.BigEndian.Uint32(buf[0:4]),
		MessageType: buf[4],
		Bitmask:     Bitmask(binary.BigEndian.Uint32(buf[5:9])),
	}, nil
}
