// Package schema provides the in-memory model of an XB schema: enum
// types, message formats, and their typed fields.
//
// Values in this package are immutable once returned from Load: the
// loader resolves every cross-reference (field types, enum names) and
// enforces the invariants in spec.md §3 before handing back a Schema.
package schema

import "fmt"

// Position identifies a location in a schema source file, used for
// diagnostics.
type Position struct {
	Filename string
	Path     string // XPath-ish element path, e.g. "messageFormats/messageFormat[2]/attribute[1]"
}

func (p Position) String() string {
	if p.Filename == "" {
		return p.Path
	}
	if p.Path == "" {
		return p.Filename
	}
	return fmt.Sprintf("%s: %s", p.Filename, p.Path)
}

// EnumType is a named, ordered set of integer-valued variants.
type EnumType struct {
	Name     string
	Variants []EnumVariant // declaration order
	Position Position
}

// EnumVariant is a single name/value pair within an EnumType.
type EnumVariant struct {
	Name     string
	Value    uint8
	Position Position
}

// VariantByValue returns the variant with the given value, if declared.
func (e *EnumType) VariantByValue(v uint8) (EnumVariant, bool) {
	for _, variant := range e.Variants {
		if variant.Value == v {
			return variant, true
		}
	}
	return EnumVariant{}, false
}

// FieldKind is the tagged union of wire-level field kinds described in
// spec.md §3. It is implemented by IntKind, UIntKind, FloatKind,
// BoolKind, StrKind, and EnumKind.
type FieldKind interface {
	fieldKind()
	// String returns a human-readable description, used in diagnostics.
	String() string
}

// IntKind is a fixed-width signed integer field.
type IntKind struct {
	WidthBytes int // one of 1, 2, 4, 8
}

func (IntKind) fieldKind() {}
func (k IntKind) String() string {
	return fmt.Sprintf("int(%d)", k.WidthBytes)
}

// UIntKind is a fixed-width unsigned integer field.
type UIntKind struct {
	WidthBytes int // one of 1, 2, 4, 8
}

func (UIntKind) fieldKind() {}
func (k UIntKind) String() string {
	return fmt.Sprintf("uint(%d)", k.WidthBytes)
}

// FloatKind is a fixed-width IEEE 754 floating point field.
type FloatKind struct {
	WidthBytes int // 4 or 8
}

func (FloatKind) fieldKind() {}
func (k FloatKind) String() string {
	return fmt.Sprintf("float(%d)", k.WidthBytes)
}

// BoolKind is a single-byte boolean field.
type BoolKind struct{}

func (BoolKind) fieldKind() {}
func (BoolKind) String() string { return "bool" }

// StrKind is a fixed-length, space-padded, single-byte-character array.
type StrKind struct {
	LengthChars int // >= 1
}

func (StrKind) fieldKind() {}
func (k StrKind) String() string {
	return fmt.Sprintf("str(%d)", k.LengthChars)
}

// EnumKind is a single byte whose value is one of the named enum's
// declared variant values.
type EnumKind struct {
	EnumName string
	Enum     *EnumType // resolved during load
}

func (EnumKind) fieldKind() {}
func (k EnumKind) String() string {
	return fmt.Sprintf("enum(%s)", k.EnumName)
}

// Field is a single named, typed member of a MessageFormat.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	Position Position
}

// MessageFormat is a named, ordered tuple of typed fields.
//
// WireType, the 1-based declared index used as the on-wire message tag,
// is deliberately not a field here: spec.md §3 defines it as derived at
// emit time from the schema's declaration order, not stored on the
// model. Schema.WireType(name) computes it.
type MessageFormat struct {
	ID       string // optional external identifier, informational only
	Name     string
	Fields   []Field // declaration order; defines wire order and bitmask bit assignment
	Position Position
}

// OptionalFields returns the message's optional fields in declared
// order, which is also bitmask-bit order (spec.md §4.3).
func (m *MessageFormat) OptionalFields() []Field {
	var out []Field
	for _, f := range m.Fields {
		if !f.Required {
			out = append(out, f)
		}
	}
	return out
}

// FieldByName returns the named field, if present.
func (m *MessageFormat) FieldByName(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Schema is the complete, validated, immutable model of one schema
// source: its enums and message formats, in declaration order.
type Schema struct {
	Name           string // derived from the source file's base name
	Enums          []*EnumType
	MessageFormats []*MessageFormat
}

// EnumByName returns the named enum, if declared.
func (s *Schema) EnumByName(name string) (*EnumType, bool) {
	for _, e := range s.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// MessageByName returns the named message format, if declared.
func (s *Schema) MessageByName(name string) (*MessageFormat, bool) {
	for _, m := range s.MessageFormats {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// WireType returns the 1-based on-wire message type tag for the named
// message format: its position in the schema's declared order. Index 0
// is reserved and never returned by this function.
func (s *Schema) WireType(name string) (int, bool) {
	for i, m := range s.MessageFormats {
		if m.Name == name {
			return i + 1, true
		}
	}
	return 0, false
}
