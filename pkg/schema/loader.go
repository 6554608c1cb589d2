package schema

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// xmlSchema mirrors the <root> shape from spec.md §6, decoded with
// encoding/xml before being resolved into the Schema model. Field order
// here is the declaration order encoding/xml already preserves.
type xmlSchema struct {
	XMLName        xml.Name         `xml:"root"`
	EnumTypes      []xmlEnumType    `xml:"enumTypes>enumType"`
	MessageFormats []xmlMsgFormat   `xml:"messageFormats>messageFormat"`
}

type xmlEnumType struct {
	Name   string         `xml:"name,attr"`
	Values []xmlEnumValue `xml:"enumValue"`
}

type xmlEnumValue struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlMsgFormat struct {
	ID         string         `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Attributes []xmlAttribute `xml:"attribute"`
}

type xmlAttribute struct {
	Name     string `xml:"name,attr"`
	Type     string `xml:"type,attr"`
	Length   string `xml:"length,attr"`
	Required string `xml:"required,attr"`
}

// Load reads and parses the schema XML file at path into a Schema.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xbcodec: open schema: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadXML(f, name, path)
}

// LoadXML parses schema XML read from r. name is the schema's logical
// name (used for the generated package/module name); filename is used
// only in diagnostics.
func LoadXML(r io.Reader, name, filename string) (*Schema, error) {
	var doc xmlSchema
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &SchemaError{
			Kind:     ErrKindInvalid,
			Message:  fmt.Sprintf("malformed XML: %v", err),
			Position: Position{Filename: filename},
		}
	}

	b := &builder{filename: filename}
	s := b.build(&doc, name)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	if errs := Validate(s); len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

type builder struct {
	filename string
	errs     ErrorList
}

func (b *builder) pos(path string) Position {
	return Position{Filename: b.filename, Path: path}
}

func (b *builder) fail(pos Position, format string, args ...any) {
	b.errs = append(b.errs, newInvalid(pos, format, args...))
}

func (b *builder) build(doc *xmlSchema, name string) *Schema {
	s := &Schema{Name: name}

	for i, xe := range doc.EnumTypes {
		s.Enums = append(s.Enums, b.buildEnum(xe, i))
	}

	// Resolve enum field kinds against a fully-built enum set, so that
	// forward references (a message declared before the enum it uses)
	// resolve the same as backward ones.
	for i, xm := range doc.MessageFormats {
		s.MessageFormats = append(s.MessageFormats, b.buildMessage(xm, i, s))
	}

	return s
}

func (b *builder) buildEnum(xe xmlEnumType, idx int) *EnumType {
	pos := b.pos(fmt.Sprintf("enumTypes/enumType[%d]", idx+1))
	e := &EnumType{Name: xe.Name, Position: pos}

	if xe.Name == "" {
		b.fail(pos, "enum is missing a name attribute")
	}
	if len(xe.Values) == 0 {
		b.fail(pos, "enum %q declares no variants", xe.Name)
	}

	for j, xv := range xe.Values {
		vpos := b.pos(fmt.Sprintf("enumTypes/enumType[%d]/enumValue[%d]", idx+1, j+1))
		n, err := strconv.ParseInt(xv.Value, 10, 64)
		if err != nil || n < 0 || n > 255 {
			b.fail(vpos, "enum %q variant %q has an invalid value %q (must be 0-255)", xe.Name, xv.Name, xv.Value)
			continue
		}
		e.Variants = append(e.Variants, EnumVariant{
			Name:     xv.Name,
			Value:    uint8(n),
			Position: vpos,
		})
	}

	return e
}

func (b *builder) buildMessage(xm xmlMsgFormat, idx int, s *Schema) *MessageFormat {
	pos := b.pos(fmt.Sprintf("messageFormats/messageFormat[%d]", idx+1))
	m := &MessageFormat{ID: xm.ID, Name: xm.Name, Position: pos}

	if xm.Name == "" {
		b.fail(pos, "message format is missing a name attribute")
	}

	for j, xa := range xm.Attributes {
		apos := b.pos(fmt.Sprintf("messageFormats/messageFormat[%d]/attribute[%d]", idx+1, j+1))
		m.Fields = append(m.Fields, b.buildField(xa, apos, s))
	}

	return m
}

func (b *builder) buildField(xa xmlAttribute, pos Position, s *Schema) Field {
	f := Field{
		Name:     xa.Name,
		Required: xa.Required == "true",
		Position: pos,
	}

	if xa.Name == "" {
		b.fail(pos, "attribute is missing a name attribute")
	}

	length := 1
	if xa.Length != "" {
		n, err := strconv.Atoi(xa.Length)
		if err != nil || n < 1 {
			b.fail(pos, "attribute %q has an invalid length %q", xa.Name, xa.Length)
			n = 1
		}
		length = n
	}

	f.Kind = b.resolveKind(xa.Type, length, pos, s)
	return f
}

// resolveKind implements the base-token table from spec.md §4.1,
// case-insensitive on the base token.
func (b *builder) resolveKind(typeToken string, length int, pos Position, s *Schema) FieldKind {
	switch strings.ToLower(typeToken) {
	case "int":
		if !validWidth(length) {
			b.fail(pos, "int field has unsupported width %d (must be 1, 2, 4, or 8)", length)
			return IntKind{WidthBytes: 1}
		}
		return IntKind{WidthBytes: length}
	case "uint":
		if !validWidth(length) {
			b.fail(pos, "uint field has unsupported width %d (must be 1, 2, 4, or 8)", length)
			return UIntKind{WidthBytes: 1}
		}
		return UIntKind{WidthBytes: length}
	case "float":
		if length != 4 && length != 8 {
			b.fail(pos, "float field has unsupported width %d (must be 4 or 8)", length)
			return FloatKind{WidthBytes: 4}
		}
		return FloatKind{WidthBytes: length}
	case "bool":
		return BoolKind{}
	case "str":
		if length < 1 {
			b.fail(pos, "str field must have length >= 1")
			length = 1
		}
		return StrKind{LengthChars: length}
	case "":
		b.fail(pos, "attribute is missing a type attribute")
		return UIntKind{WidthBytes: 1}
	default:
		enum, ok := s.EnumByName(typeToken)
		if !ok {
			b.errs = append(b.errs, newUnsupported(pos, "unknown type %q: not a scalar kind and no enum with that name is declared", typeToken))
			return UIntKind{WidthBytes: 1}
		}
		return EnumKind{EnumName: typeToken, Enum: enum}
	}
}

func validWidth(n int) bool {
	switch n {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}
