// Package testdata is a hand-written stand-in for the output of
// GoGenerator.GenerateCodec, built directly against pkg/wire. There is
// no compiled generated package to import without running xbc first,
// so pkg/wire's dispatcher-level tests (UnknownMessageType,
// InvalidEnumValue) exercise this fixture instead of a real codec.
// It mirrors the schema from spec.md §8 Schema C: an enum Color with
// variants Red=1, Green=2, Blue=3, and a single message Paint with one
// required Color field c.
package testdata

import (
	"fmt"

	"github.com/laundrevity/xbcodec/pkg/wire"
)

type Color uint8

const (
	ColorRed   Color = 1
	ColorGreen Color = 2
	ColorBlue  Color = 3
)

func (v Color) ToUint8() uint8 { return uint8(v) }

func ColorFromUint8(raw uint8) (Color, error) {
	switch raw {
	case 1:
		return ColorRed, nil
	case 2:
		return ColorGreen, nil
	case 3:
		return ColorBlue, nil
	default:
		return 0, fmt.Errorf("%w: Color(%d)", wire.ErrInvalidEnumValue, raw)
	}
}

type Paint struct {
	C Color
}

const PaintMaxPayloadSize = 1

func (m *Paint) WireType() uint8 { return 1 }

func (m *Paint) Bitmask() wire.Bitmask { return 0 }

func (m *Paint) SerializePayload(w *wire.Writer) {
	w.WriteUint8(m.C.ToUint8())
}

func DeserializePaint(r *wire.Reader, bm wire.Bitmask) (*Paint, error) {
	m := &Paint{}
	raw := r.ReadUint8()
	if r.Err() != nil {
		return nil, wire.NewDecodeError("Paint", "c", r.Pos(), r.Err())
	}
	v, err := ColorFromUint8(raw)
	if err != nil {
		return nil, wire.NewDecodeError("Paint", "c", r.Pos(), err)
	}
	m.C = v
	if r.Err() != nil {
		return nil, wire.NewDecodeError("Paint", "", r.Pos(), r.Err())
	}
	return m, nil
}

func NewPaint(c uint8) (*Paint, error) {
	v, err := ColorFromUint8(c)
	if err != nil {
		return nil, wire.NewEncodeError("Paint", "c", err)
	}
	return &Paint{C: v}, nil
}

type Message interface {
	WireType() uint8
	Bitmask() wire.Bitmask
	SerializePayload(w *wire.Writer)
}

func Serialize(m Message) []byte {
	pw := wire.GetWriter()
	defer wire.PutWriter(pw)
	m.SerializePayload(pw)
	payload := pw.Bytes()

	frame := make([]byte, wire.HeaderSize+len(payload))
	wire.EncodeHeader(frame, wire.Header{
		MessageSize: uint32(wire.HeaderSize + len(payload)),
		MessageType: m.WireType(),
		Bitmask:     m.Bitmask(),
	})
	copy(frame[wire.HeaderSize:], payload)
	return frame
}

func DeserializeMessage(buf []byte) (Message, error) {
	h, err := wire.DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if uint32(len(buf)) < h.MessageSize {
		return nil, wire.ErrBufferTooShort
	}
	payload := buf[wire.HeaderSize:h.MessageSize]
	r := wire.NewReader(payload)

	switch h.MessageType {
	case 1:
		msg, err := DeserializePaint(r, h.Bitmask)
		if err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, wire.ErrUnknownMessageType
	}
}
