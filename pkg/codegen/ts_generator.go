package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/laundrevity/xbcodec/pkg/schema"
	"github.com/laundrevity/xbcodec/pkg/wiretype"
)

// TypeScriptGenerator emits a TypeScript module implementing the same
// wire codec contract as GoGenerator, for use from the "foreign
// scripting host" spec.md §4.6 describes: fixed-width fields are
// read/written through DataView, TypeScript's only big-endian-capable
// binary view.
type TypeScriptGenerator struct{}

func NewTypeScriptGenerator() *TypeScriptGenerator { return &TypeScriptGenerator{} }

func (g *TypeScriptGenerator) Language() Language    { return LanguageTypeScript }
func (g *TypeScriptGenerator) FileExtension() string { return ".ts" }

func init() {
	Register(NewTypeScriptGenerator())
}

type tsContext struct {
	Schema  *schema.Schema
	Options Options
}

func (c *tsContext) enumName(e *schema.EnumType) string { return ToPascalCase(e.Name) }
func (c *tsContext) variantName(v schema.EnumVariant) string {
	return ToUpperSnakeCase(v.Name)
}
func (c *tsContext) messageName(m *schema.MessageFormat) string { return ToPascalCase(m.Name) }
func (c *tsContext) fieldName(f schema.Field) string            { return ToCamelCase(f.Name) }

// tsScalarType returns the TypeScript type for a field's kind.
// 64-bit integers become bigint since a DataView getBigUint64 call
// already returns one; everything else fits in number.
func (c *tsContext) tsScalarType(f schema.Field) string {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		if k.WidthBytes == 8 {
			return "bigint"
		}
		return "number"
	case schema.UIntKind:
		if k.WidthBytes == 8 {
			return "bigint"
		}
		return "number"
	case schema.FloatKind:
		return "number"
	case schema.BoolKind:
		return "boolean"
	case schema.StrKind:
		return "string"
	case schema.EnumKind:
		return c.enumName(k.Enum)
	default:
		return "unknown"
	}
}

func (c *tsContext) tsFieldType(f schema.Field) string {
	t := c.tsScalarType(f)
	if !f.Required {
		return t + " | null"
	}
	return t
}

// dataViewWrite returns a statement writing expr at the given
// big-endian offset expression into a DataView named "view".
func (c *tsContext) dataViewWrite(f schema.Field, offsetExpr, expr string) string {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		method := map[int]string{1: "setInt8", 2: "setInt16", 4: "setInt32", 8: "setBigInt64"}[k.WidthBytes]
		if k.WidthBytes == 1 {
			return fmt.Sprintf("view.%s(%s, %s);", method, offsetExpr, expr)
		}
		return fmt.Sprintf("view.%s(%s, %s, false);", method, offsetExpr, expr)
	case schema.UIntKind:
		method := map[int]string{1: "setUint8", 2: "setUint16", 4: "setUint32", 8: "setBigUint64"}[k.WidthBytes]
		if k.WidthBytes == 1 {
			return fmt.Sprintf("view.%s(%s, %s);", method, offsetExpr, expr)
		}
		return fmt.Sprintf("view.%s(%s, %s, false);", method, offsetExpr, expr)
	case schema.FloatKind:
		method := "setFloat32"
		if k.WidthBytes == 8 {
			method = "setFloat64"
		}
		return fmt.Sprintf("view.%s(%s, %s, false);", method, offsetExpr, expr)
	case schema.BoolKind:
		return fmt.Sprintf("view.setUint8(%s, %s ? 1 : 0);", offsetExpr, expr)
	case schema.EnumKind:
		return fmt.Sprintf("view.setUint8(%s, %s);", offsetExpr, expr)
	case schema.StrKind:
		return fmt.Sprintf("writeFixedString(view, %s, %s, %d);", offsetExpr, expr, k.LengthChars)
	default:
		return "/* unsupported field kind */"
	}
}

func (c *tsContext) dataViewRead(f schema.Field, offsetExpr string) string {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		method := map[int]string{1: "getInt8", 2: "getInt16", 4: "getInt32", 8: "getBigInt64"}[k.WidthBytes]
		if k.WidthBytes == 1 {
			return fmt.Sprintf("view.%s(%s)", method, offsetExpr)
		}
		return fmt.Sprintf("view.%s(%s, false)", method, offsetExpr)
	case schema.UIntKind:
		method := map[int]string{1: "getUint8", 2: "getUint16", 4: "getUint32", 8: "getBigUint64"}[k.WidthBytes]
		if k.WidthBytes == 1 {
			return fmt.Sprintf("view.%s(%s)", method, offsetExpr)
		}
		return fmt.Sprintf("view.%s(%s, false)", method, offsetExpr)
	case schema.FloatKind:
		method := "getFloat32"
		if k.WidthBytes == 8 {
			method = "getFloat64"
		}
		return fmt.Sprintf("view.%s(%s, false)", method, offsetExpr)
	case schema.BoolKind:
		return fmt.Sprintf("view.getUint8(%s) !== 0", offsetExpr)
	case schema.StrKind:
		return fmt.Sprintf("readFixedString(view, %s, %d)", offsetExpr, k.LengthChars)
	default:
		return "undefined"
	}
}

const tsRuntimePrelude = `export const HEADER_SIZE = 9;

export class InvalidEnumValueError extends Error {}
export class BufferTooShortError extends Error {}
export class UnknownMessageTypeError extends Error {}
export class StringTooLongError extends Error {}

function writeFixedString(view: DataView, offset: number, s: string, length: number): void {
	if (s.length > length) {
		throw new StringTooLongError(` + "`string %{s} exceeds fixed length ${length}`" + `);
	}
	for (let i = 0; i < length; i++) {
		view.setUint8(offset + i, i < s.length ? s.charCodeAt(i) & 0xff : 0x20);
	}
}

function readFixedString(view: DataView, offset: number, length: number): string {
	let end = length;
	while (end > 0 && view.getUint8(offset + end - 1) === 0x20) {
		end--;
	}
	let out = "";
	for (let i = 0; i < end; i++) {
		out += String.fromCharCode(view.getUint8(offset + i));
	}
	return out;
}
`

func (c *tsContext) enumBlock(e *schema.EnumType) string {
	name := c.enumName(e)
	var b strings.Builder

	fmt.Fprintf(&b, "export enum %s {\n", name)
	for _, v := range e.Variants {
		fmt.Fprintf(&b, "\t%s = %d,\n", c.variantName(v), v.Value)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "export function %sFromByte(raw: number): %s {\n\tswitch (raw) {\n", name, name)
	for _, v := range e.Variants {
		fmt.Fprintf(&b, "\t\tcase %d:\n\t\t\treturn %s.%s;\n", v.Value, name, c.variantName(v))
	}
	fmt.Fprintf(&b, "\t\tdefault:\n\t\t\tthrow new InvalidEnumValueError(`%s: invalid value ${raw}`);\n\t}\n}", name)

	return b.String()
}

func (c *tsContext) messageBlock(m *schema.MessageFormat, wireType int) string {
	name := c.messageName(m)
	var b strings.Builder

	fmt.Fprintf(&b, "export interface %s {\n", name)
	for _, f := range m.Fields {
		fmt.Fprintf(&b, "\t%s: %s;\n", c.fieldName(f), c.tsFieldType(f))
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "export const %sWireType = %d;\n", name, wireType)
	fmt.Fprintf(&b, "export const %sMaxPayloadSize = %d;\n\n", name, wiretype.MaxPayloadWidth(m))

	fmt.Fprintf(&b, "export function %sBitmask(m: %s): number {\n\tlet bm = 0;\n", name, name)
	bit := 0
	for _, f := range m.Fields {
		if f.Required {
			continue
		}
		fmt.Fprintf(&b, "\tif (m.%s !== null) bm |= 1 << %d;\n", c.fieldName(f), bit)
		bit++
	}
	b.WriteString("\treturn bm;\n}\n\n")

	fmt.Fprintf(&b, "export function serialize%sPayload(m: %s, view: DataView, offset: number): number {\n", name, name)
	b.WriteString("\tlet pos = offset;\n")
	for _, f := range m.Fields {
		fname := c.fieldName(f)
		width := wiretype.WireWidth(&f)
		if f.Required {
			fmt.Fprintf(&b, "\t%s\n\tpos += %d;\n", c.dataViewWrite(f, "pos", "m."+fname), width)
		} else {
			fmt.Fprintf(&b, "\tif (m.%s !== null) {\n\t\t%s\n\t\tpos += %d;\n\t}\n", fname, c.dataViewWrite(f, "pos", "m."+fname), width)
		}
	}
	b.WriteString("\treturn pos - offset;\n}\n\n")

	fmt.Fprintf(&b, "export function deserialize%s(view: DataView, offset: number, bitmask: number): %s {\n", name, name)
	b.WriteString("\tlet pos = offset;\n")
	fmt.Fprintf(&b, "\tconst m = {} as %s;\n", name)
	bit = 0
	for _, f := range m.Fields {
		fname := c.fieldName(f)
		width := wiretype.WireWidth(&f)
		if ek, ok := f.Kind.(schema.EnumKind); ok {
			enumName := c.enumName(ek.Enum)
			readExpr := fmt.Sprintf("%sFromByte(view.getUint8(pos))", enumName)
			if f.Required {
				fmt.Fprintf(&b, "\tm.%s = %s;\n\tpos += 1;\n", fname, readExpr)
			} else {
				fmt.Fprintf(&b, "\tif ((bitmask & (1 << %d)) !== 0) {\n\t\tm.%s = %s;\n\t\tpos += 1;\n\t} else {\n\t\tm.%s = null;\n\t}\n", bit, fname, readExpr, fname)
				bit++
			}
			continue
		}
		readExpr := c.dataViewRead(f, "pos")
		if f.Required {
			fmt.Fprintf(&b, "\tm.%s = %s;\n\tpos += %d;\n", fname, readExpr, width)
		} else {
			fmt.Fprintf(&b, "\tif ((bitmask & (1 << %d)) !== 0) {\n\t\tm.%s = %s;\n\t\tpos += %d;\n\t} else {\n\t\tm.%s = null;\n\t}\n", bit, fname, readExpr, width, fname)
			bit++
		}
	}
	b.WriteString("\treturn m;\n}")

	return b.String()
}

func (c *tsContext) dispatcherBlock() string {
	var b strings.Builder
	b.WriteString("export function serialize(m: Message): Uint8Array {\n")
	b.WriteString("\tconst maxPayload = Math.max(")
	var maxes []string
	for _, m := range c.Schema.MessageFormats {
		maxes = append(maxes, fmt.Sprintf("%sMaxPayloadSize", c.messageName(m)))
	}
	if len(maxes) == 0 {
		maxes = []string{"0"}
	}
	b.WriteString(strings.Join(maxes, ", "))
	b.WriteString(");\n")
	b.WriteString("\tconst buf = new ArrayBuffer(HEADER_SIZE + maxPayload);\n\tconst view = new DataView(buf);\n\n")
	b.WriteString("\tlet payloadLen: number;\n\tlet wireType: number;\n\tlet bitmask: number;\n")
	for i, m := range c.Schema.MessageFormats {
		name := c.messageName(m)
		cond := "if"
		if i > 0 {
			cond = "else if"
		}
		fmt.Fprintf(&b, "\t%s (isMessage%s(m)) {\n", cond, name)
		fmt.Fprintf(&b, "\t\tpayloadLen = serialize%sPayload(m, view, HEADER_SIZE);\n", name)
		fmt.Fprintf(&b, "\t\twireType = %sWireType;\n\t\tbitmask = %sBitmask(m);\n\t}\n", name, name)
	}
	b.WriteString("\telse {\n\t\tthrow new Error(\"unreachable message variant\");\n\t}\n\n")
	b.WriteString("\tview.setUint32(0, HEADER_SIZE + payloadLen, false);\n")
	b.WriteString("\tview.setUint8(4, wireType);\n")
	b.WriteString("\tview.setUint32(5, bitmask, false);\n")
	b.WriteString("\treturn new Uint8Array(buf, 0, HEADER_SIZE + payloadLen);\n}\n\n")

	b.WriteString("export function deserializeMessage(bytes: Uint8Array): Message {\n")
	b.WriteString("\tif (bytes.length < HEADER_SIZE) {\n\t\tthrow new BufferTooShortError(\"buffer shorter than header\");\n\t}\n")
	b.WriteString("\tconst view = new DataView(bytes.buffer, bytes.byteOffset, bytes.byteLength);\n")
	b.WriteString("\tconst messageSize = view.getUint32(0, false);\n")
	b.WriteString("\tconst messageType = view.getUint8(4);\n")
	b.WriteString("\tconst bitmask = view.getUint32(5, false);\n")
	b.WriteString("\tif (bytes.length < messageSize) {\n\t\tthrow new BufferTooShortError(\"buffer shorter than declared message size\");\n\t}\n\n")
	b.WriteString("\tswitch (messageType) {\n")
	for i, m := range c.Schema.MessageFormats {
		name := c.messageName(m)
		fmt.Fprintf(&b, "\t\tcase %d:\n\t\t\treturn deserialize%s(view, HEADER_SIZE, bitmask);\n", i+1, name)
	}
	b.WriteString("\t\tdefault:\n\t\t\tthrow new UnknownMessageTypeError(`unknown message type ${messageType}`);\n\t}\n}\n\n")

	b.WriteString("export type Message =")
	var names []string
	for _, m := range c.Schema.MessageFormats {
		names = append(names, c.messageName(m))
	}
	if len(names) == 0 {
		names = []string{"never"}
	}
	b.WriteString(" " + strings.Join(names, " | ") + ";\n\n")

	for _, m := range c.Schema.MessageFormats {
		name := c.messageName(m)
		fmt.Fprintf(&b, "function isMessage%s(m: Message): m is %s {\n", name, name)
		if len(c.Schema.MessageFormats) == 1 {
			b.WriteString("\treturn true;\n}\n\n")
			continue
		}
		fmt.Fprintf(&b, "\treturn (m as %s).%s !== undefined;\n}\n\n", name, c.fieldName(firstField(m)))
	}

	return strings.TrimRight(b.String(), "\n")
}

func firstField(m *schema.MessageFormat) schema.Field {
	if len(m.Fields) == 0 {
		return schema.Field{}
	}
	return m.Fields[0]
}

const tsCodecTemplate = `// Code generated by xbc. DO NOT EDIT.
{{.Prelude}}
{{range .EnumBlocks}}
{{.}}
{{end}}
{{range .MessageBlocks}}
{{.}}
{{end}}
{{.DispatcherBlock}}
`

func (g *TypeScriptGenerator) GenerateCodec(w io.Writer, s *schema.Schema, opts Options) error {
	ctx := &tsContext{Schema: s, Options: opts}

	var enumBlocks []string
	for _, e := range s.Enums {
		enumBlocks = append(enumBlocks, ctx.enumBlock(e))
	}
	var msgBlocks []string
	for i, m := range s.MessageFormats {
		msgBlocks = append(msgBlocks, ctx.messageBlock(m, i+1))
	}

	tmpl, err := template.New("ts_codec").Parse(tsCodecTemplate)
	if err != nil {
		return &EmitError{Message: err.Error()}
	}
	data := struct {
		Prelude         string
		EnumBlocks      []string
		MessageBlocks   []string
		DispatcherBlock string
	}{
		Prelude:         tsRuntimePrelude,
		EnumBlocks:      enumBlocks,
		MessageBlocks:   msgBlocks,
		DispatcherBlock: ctx.dispatcherBlock(),
	}
	if err := tmpl.Execute(w, data); err != nil {
		return &EmitError{Message: err.Error()}
	}
	return nil
}
