package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/laundrevity/xbcodec/pkg/schema"
	"github.com/laundrevity/xbcodec/pkg/wiretype"
)

// GoGenerator emits a self-contained Go package implementing §4.3-§4.6
// of the wire codec specification: enum types, per-message structs and
// codecs, and the Message dispatcher.
type GoGenerator struct{}

func NewGoGenerator() *GoGenerator { return &GoGenerator{} }

func (g *GoGenerator) Language() Language   { return LanguageGo }
func (g *GoGenerator) FileExtension() string { return ".go" }

func init() {
	Register(NewGoGenerator())
}

const goCodecTemplate = `// Code generated by xbc. DO NOT EDIT.
package {{.Package}}

import (
	"fmt"

	"github.com/laundrevity/xbcodec/pkg/wire"
)
{{range .EnumBlocks}}
{{.}}
{{end}}
{{range .MessageBlocks}}
{{.}}
{{end}}
{{.DispatcherBlock}}
`

type goContext struct {
	Schema  *schema.Schema
	Options Options
}

func (c *goContext) enumName(e *schema.EnumType) string { return ToPascalCase(e.Name) }
func (c *goContext) variantName(e *schema.EnumType, v schema.EnumVariant) string {
	return c.enumName(e) + ToPascalCase(v.Name)
}
func (c *goContext) messageName(m *schema.MessageFormat) string { return ToPascalCase(m.Name) }
func (c *goContext) fieldName(f schema.Field) string            { return ToPascalCase(f.Name) }

// goScalarType returns the Go type for a field's kind, ignoring optionality.
func (c *goContext) goScalarType(f schema.Field) string {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		return fmt.Sprintf("int%d", k.WidthBytes*8)
	case schema.UIntKind:
		return fmt.Sprintf("uint%d", k.WidthBytes*8)
	case schema.FloatKind:
		return fmt.Sprintf("float%d", k.WidthBytes*8)
	case schema.BoolKind:
		return "bool"
	case schema.StrKind:
		return "string"
	case schema.EnumKind:
		return c.enumName(k.Enum)
	default:
		return "any"
	}
}

// goFieldType returns the struct field type: a pointer to the scalar
// type when the field is optional, so presence is nil.
func (c *goContext) goFieldType(f schema.Field) string {
	t := c.goScalarType(f)
	if !f.Required {
		return "*" + t
	}
	return t
}

func (c *goContext) writeCall(f schema.Field, expr string) string {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		return fmt.Sprintf("w.WriteInt%d(%s)", k.WidthBytes*8, expr)
	case schema.UIntKind:
		return fmt.Sprintf("w.WriteUint%d(%s)", k.WidthBytes*8, expr)
	case schema.FloatKind:
		return fmt.Sprintf("w.WriteFloat%d(%s)", k.WidthBytes*8, expr)
	case schema.BoolKind:
		return fmt.Sprintf("w.WriteBool(%s)", expr)
	case schema.StrKind:
		return fmt.Sprintf("w.WriteFixedString(%s, %d)", expr, k.LengthChars)
	case schema.EnumKind:
		return fmt.Sprintf("w.WriteUint8(%s.ToUint8())", expr)
	default:
		return "/* unsupported field kind */"
	}
}

func (c *goContext) readExpr(f schema.Field) string {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		return fmt.Sprintf("r.ReadInt%d()", k.WidthBytes*8)
	case schema.UIntKind:
		return fmt.Sprintf("r.ReadUint%d()", k.WidthBytes*8)
	case schema.FloatKind:
		return fmt.Sprintf("r.ReadFloat%d()", k.WidthBytes*8)
	case schema.BoolKind:
		return "r.ReadBool()"
	case schema.StrKind:
		return fmt.Sprintf("r.ReadFixedString(%d)", k.LengthChars)
	default:
		return "/* unsupported field kind */"
	}
}

func (c *goContext) enumBlock(e *schema.EnumType) string {
	name := c.enumName(e)
	var b strings.Builder

	fmt.Fprintf(&b, "// %s is declared in the schema with %d variants.\n", name, len(e.Variants))
	fmt.Fprintf(&b, "type %s uint8\n\nconst (\n", name)
	for _, v := range e.Variants {
		fmt.Fprintf(&b, "\t%s %s = %d\n", c.variantName(e, v), name, v.Value)
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "// ToUint8 returns the wire-encoded value of the variant.\n")
	fmt.Fprintf(&b, "func (v %s) ToUint8() uint8 { return uint8(v) }\n\n", name)

	fmt.Fprintf(&b, "// %sFromUint8 decodes a %s from its wire byte value.\n", name, name)
	fmt.Fprintf(&b, "func %sFromUint8(raw uint8) (%s, error) {\n\tswitch raw {\n", name, name)
	for _, v := range e.Variants {
		fmt.Fprintf(&b, "\tcase %d:\n\t\treturn %s, nil\n", v.Value, c.variantName(e, v))
	}
	fmt.Fprintf(&b, "\tdefault:\n\t\treturn 0, fmt.Errorf(\"%%w: %s(%%d)\", wire.ErrInvalidEnumValue, raw)\n\t}\n}\n\n", name)

	fmt.Fprintf(&b, "// String returns the declared variant name.\n")
	fmt.Fprintf(&b, "func (v %s) String() string {\n\tswitch v {\n", name)
	for _, v := range e.Variants {
		fmt.Fprintf(&b, "\tcase %s:\n\t\treturn %q\n", c.variantName(e, v), v.Name)
	}
	fmt.Fprintf(&b, "\tdefault:\n\t\treturn \"%s(unknown)\"\n\t}\n}", name)

	return b.String()
}

func (c *goContext) messageBlock(m *schema.MessageFormat, wireType int) string {
	name := c.messageName(m)
	var b strings.Builder

	// Struct definition.
	fmt.Fprintf(&b, "// %s is message format %q (wire type %d).\n", name, m.Name, wireType)
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range m.Fields {
		fmt.Fprintf(&b, "\t%s %s\n", c.fieldName(f), c.goFieldType(f))
	}
	b.WriteString("}\n\n")

	// MaxPayloadSize.
	fmt.Fprintf(&b, "// %sMaxPayloadSize is the payload size if every optional field is present.\n", name)
	fmt.Fprintf(&b, "const %sMaxPayloadSize = %d\n\n", name, wiretype.MaxPayloadWidth(m))

	// WireType.
	fmt.Fprintf(&b, "func (m *%s) WireType() uint8 { return %d }\n\n", name, wireType)

	// Bitmask.
	fmt.Fprintf(&b, "// Bitmask reports which optional fields of m are present.\n")
	fmt.Fprintf(&b, "func (m *%s) Bitmask() wire.Bitmask {\n\tvar bm wire.Bitmask\n", name)
	bit := 0
	for _, f := range m.Fields {
		if f.Required {
			continue
		}
		fmt.Fprintf(&b, "\tif m.%s != nil {\n\t\tbm.Set(%d)\n\t}\n", c.fieldName(f), bit)
		bit++
	}
	b.WriteString("\treturn bm\n}\n\n")

	// SerializePayload.
	fmt.Fprintf(&b, "// SerializePayload appends m's payload bytes to w, in declared field order.\n")
	fmt.Fprintf(&b, "func (m *%s) SerializePayload(w *wire.Writer) {\n", name)
	for _, f := range m.Fields {
		fname := c.fieldName(f)
		if f.Required {
			fmt.Fprintf(&b, "\t%s\n", c.writeCall(f, "m."+fname))
		} else {
			fmt.Fprintf(&b, "\tif m.%s != nil {\n\t\t%s\n\t}\n", fname, c.writeCall(f, "(*m."+fname+")"))
		}
	}
	b.WriteString("}\n\n")

	// Deserialize<Name>.
	fmt.Fprintf(&b, "// Deserialize%s reads %s's payload from r, given the header's presence bitmask.\n", name, name)
	fmt.Fprintf(&b, "func Deserialize%s(r *wire.Reader, bm wire.Bitmask) (*%s, error) {\n", name, name)
	fmt.Fprintf(&b, "\tm := &%s{}\n", name)
	bit = 0
	for _, f := range m.Fields {
		fname := c.fieldName(f)
		if ek, ok := f.Kind.(schema.EnumKind); ok {
			enumName := c.enumName(ek.Enum)
			if f.Required {
				fmt.Fprintf(&b, "\t{\n\t\traw := r.ReadUint8()\n\t\tif r.Err() != nil {\n\t\t\treturn nil, wire.NewDecodeError(%q, %q, r.Pos(), r.Err())\n\t\t}\n\t\tv, err := %sFromUint8(raw)\n\t\tif err != nil {\n\t\t\treturn nil, wire.NewDecodeError(%q, %q, r.Pos(), err)\n\t\t}\n\t\tm.%s = v\n\t}\n", name, f.Name, enumName, name, f.Name, fname)
			} else {
				fmt.Fprintf(&b, "\tif bm.IsSet(%d) {\n\t\traw := r.ReadUint8()\n\t\tif r.Err() != nil {\n\t\t\treturn nil, wire.NewDecodeError(%q, %q, r.Pos(), r.Err())\n\t\t}\n\t\tv, err := %sFromUint8(raw)\n\t\tif err != nil {\n\t\t\treturn nil, wire.NewDecodeError(%q, %q, r.Pos(), err)\n\t\t}\n\t\tm.%s = &v\n\t}\n", bit, name, f.Name, enumName, name, f.Name, fname)
				bit++
			}
			continue
		}
		if f.Required {
			fmt.Fprintf(&b, "\tm.%s = %s\n", fname, c.readExpr(f))
		} else {
			fmt.Fprintf(&b, "\tif bm.IsSet(%d) {\n\t\tv := %s\n\t\tm.%s = &v\n\t}\n", bit, c.readExpr(f), fname)
			bit++
		}
	}
	fmt.Fprintf(&b, "\tif r.Err() != nil {\n\t\treturn nil, wire.NewDecodeError(%q, \"\", r.Pos(), r.Err())\n\t}\n\treturn m, nil\n}\n\n", name)

	// New<Name> constructor (foreign-host binding): required args first,
	// then optional (nullable) args, enum variants as raw wire bytes,
	// strings as plain Go strings validated against their fixed length.
	b.WriteString(c.constructorBlock(m, name))

	return strings.TrimRight(b.String(), "\n")
}

func (c *goContext) constructorBlock(m *schema.MessageFormat, name string) string {
	var params []string
	var required, optional []schema.Field
	for _, f := range m.Fields {
		if f.Required {
			required = append(required, f)
		} else {
			optional = append(optional, f)
		}
	}
	for _, f := range required {
		params = append(params, fmt.Sprintf("%s %s", ToCamelCase(f.Name), c.constructorParamType(f)))
	}
	for _, f := range optional {
		params = append(params, fmt.Sprintf("%s *%s", ToCamelCase(f.Name), c.constructorParamType(f)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// New%s constructs a %s from host-friendly argument types:\n", name, name)
	b.WriteString("// required fields first, then optional (nullable) fields.\n")
	fmt.Fprintf(&b, "func New%s(%s) (*%s, error) {\n", name, strings.Join(params, ", "), name)
	fmt.Fprintf(&b, "\tm := &%s{}\n", name)

	for _, f := range m.Fields {
		fname := c.fieldName(f)
		arg := ToCamelCase(f.Name)
		switch k := f.Kind.(type) {
		case schema.StrKind:
			if f.Required {
				fmt.Fprintf(&b, "\tif len(%s) > %d {\n\t\treturn nil, wire.NewEncodeError(%q, %q, wire.ErrStringTooLong)\n\t}\n\tm.%s = %s\n", arg, k.LengthChars, name, f.Name, fname, arg)
			} else {
				fmt.Fprintf(&b, "\tif %s != nil {\n\t\tif len(*%s) > %d {\n\t\t\treturn nil, wire.NewEncodeError(%q, %q, wire.ErrStringTooLong)\n\t\t}\n\t\tm.%s = %s\n\t}\n", arg, arg, k.LengthChars, name, f.Name, fname, arg)
			}
		case schema.EnumKind:
			enumName := c.enumName(k.Enum)
			if f.Required {
				fmt.Fprintf(&b, "\t{\n\t\tv, err := %sFromUint8(%s)\n\t\tif err != nil {\n\t\t\treturn nil, wire.NewEncodeError(%q, %q, err)\n\t\t}\n\t\tm.%s = v\n\t}\n", enumName, arg, name, f.Name, fname)
			} else {
				fmt.Fprintf(&b, "\tif %s != nil {\n\t\tv, err := %sFromUint8(*%s)\n\t\tif err != nil {\n\t\t\treturn nil, wire.NewEncodeError(%q, %q, err)\n\t\t}\n\t\tm.%s = &v\n\t}\n", arg, enumName, arg, name, f.Name, fname)
			}
		default:
			fmt.Fprintf(&b, "\tm.%s = %s\n", fname, arg)
		}
	}
	fmt.Fprintf(&b, "\treturn m, nil\n}")
	return b.String()
}

// constructorParamType returns the host-friendly parameter type: like
// goScalarType, except enum fields take the wire byte (uint8) rather
// than the generated enum type, per spec.md §4.6.
func (c *goContext) constructorParamType(f schema.Field) string {
	if _, ok := f.Kind.(schema.EnumKind); ok {
		return "uint8"
	}
	return c.goScalarType(f)
}

func (c *goContext) dispatcherBlock() string {
	var b strings.Builder
	b.WriteString("// Message is the closed tagged union of every message format this\n")
	b.WriteString("// package declares.\n")
	b.WriteString("type Message interface {\n\tWireType() uint8\n\tBitmask() wire.Bitmask\n\tSerializePayload(w *wire.Writer)\n}\n\n")

	b.WriteString("// Serialize frames m: a 9-byte header followed by its payload.\n")
	b.WriteString("func Serialize(m Message) []byte {\n")
	b.WriteString("\tpw := wire.GetWriter()\n\tdefer wire.PutWriter(pw)\n\tm.SerializePayload(pw)\n\tpayload := pw.Bytes()\n\n")
	b.WriteString("\tframe := make([]byte, wire.HeaderSize+len(payload))\n")
	b.WriteString("\twire.EncodeHeader(frame, wire.Header{\n")
	b.WriteString("\t\tMessageSize: uint32(wire.HeaderSize + len(payload)),\n")
	b.WriteString("\t\tMessageType: m.WireType(),\n")
	b.WriteString("\t\tBitmask:     m.Bitmask(),\n\t})\n")
	b.WriteString("\tcopy(frame[wire.HeaderSize:], payload)\n\treturn frame\n}\n\n")

	b.WriteString("// DeserializeMessage reads a single framed message from buf.\n")
	b.WriteString("func DeserializeMessage(buf []byte) (Message, error) {\n")
	b.WriteString("\th, err := wire.DecodeHeader(buf)\n\tif err != nil {\n\t\treturn nil, err\n\t}\n")
	b.WriteString("\tif uint32(len(buf)) < h.MessageSize {\n\t\treturn nil, wire.ErrBufferTooShort\n\t}\n")
	b.WriteString("\tpayload := buf[wire.HeaderSize:h.MessageSize]\n\tr := wire.NewReader(payload)\n\n")
	b.WriteString("\tswitch h.MessageType {\n")
	for i, m := range c.Schema.MessageFormats {
		name := c.messageName(m)
		fmt.Fprintf(&b, "\tcase %d:\n\t\tmsg, err := Deserialize%s(r, h.Bitmask)\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t\treturn msg, nil\n", i+1, name)
	}
	b.WriteString("\tdefault:\n\t\treturn nil, wire.ErrUnknownMessageType\n\t}\n}")

	return b.String()
}

func (g *GoGenerator) GenerateCodec(w io.Writer, s *schema.Schema, opts Options) error {
	ctx := &goContext{Schema: s, Options: opts}

	var enumBlocks []string
	for _, e := range s.Enums {
		enumBlocks = append(enumBlocks, ctx.enumBlock(e))
	}
	var msgBlocks []string
	for i, m := range s.MessageFormats {
		msgBlocks = append(msgBlocks, ctx.messageBlock(m, i+1))
	}

	tmpl, err := template.New("go_codec").Parse(goCodecTemplate)
	if err != nil {
		return &EmitError{Message: err.Error()}
	}
	data := struct {
		Package         string
		EnumBlocks      []string
		MessageBlocks   []string
		DispatcherBlock string
	}{
		Package:         packageName(s, opts),
		EnumBlocks:      enumBlocks,
		MessageBlocks:   msgBlocks,
		DispatcherBlock: ctx.dispatcherBlock(),
	}
	if err := tmpl.Execute(w, data); err != nil {
		return &EmitError{Message: err.Error()}
	}
	return nil
}
