// Package wiretype computes on-wire sizes for schema field kinds and
// message payloads. It is intentionally a thin, pure package: nothing
// here touches I/O, only schema.FieldKind arithmetic.
package wiretype

import "github.com/laundrevity/xbcodec/pkg/schema"

// HeaderSize is the fixed size, in bytes, of the frame header described
// in spec.md §4.3: a big-endian uint32 message size, a uint8 message
// type tag, and a big-endian uint32 presence bitmask.
const HeaderSize = 4 + 1 + 4

// WireWidth returns the fixed number of bytes a field occupies in the
// payload, independent of whether it is present. Optional fields still
// reserve their width in MaxPayloadWidth even though omitted fields
// contribute no bytes when actually absent from the wire (spec.md §4.3:
// the header's bitmask, not the payload layout, signals absence).
func WireWidth(f *schema.Field) int {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		return k.WidthBytes
	case schema.UIntKind:
		return k.WidthBytes
	case schema.FloatKind:
		return k.WidthBytes
	case schema.BoolKind:
		return 1
	case schema.StrKind:
		return k.LengthChars
	case schema.EnumKind:
		return 1
	default:
		// Unreachable for a Schema returned by schema.Load, which never
		// produces an unresolved FieldKind.
		return 0
	}
}

// MaxPayloadWidth returns the maximum possible payload size for a
// message: the sum of every field's WireWidth, as if every optional
// field were present. Per spec.md §4.3 this bounds the buffer a Writer
// must reserve before it knows which optional fields will actually be
// written.
func MaxPayloadWidth(m *schema.MessageFormat) int {
	total := 0
	for _, f := range m.Fields {
		total += WireWidth(&f)
	}
	return total
}

// MaxFrameSize returns the maximum possible total frame size (header +
// payload) for a message.
func MaxFrameSize(m *schema.MessageFormat) int {
	return HeaderSize + MaxPayloadWidth(m)
}
