package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/laundrevity/xbcodec/pkg/schema"
)

// exampleLiteral returns a Go literal expression for a deterministic,
// well-formed example value of f's kind, per spec.md §4.6: a small
// negative integer for signed ints, small positive for unsigned, 3.14
// for floats, a fixed short string for strings, the first declared
// variant (as its wire byte, for constructor purposes) for enums.
func (c *goContext) exampleLiteral(f schema.Field) string {
	switch k := f.Kind.(type) {
	case schema.IntKind:
		return "-5"
	case schema.UIntKind:
		return "5"
	case schema.FloatKind:
		if k.WidthBytes == 4 {
			return "float32(3.14)"
		}
		return "3.14"
	case schema.BoolKind:
		return "true"
	case schema.StrKind:
		return fmt.Sprintf("%q", exampleString(k.LengthChars))
	case schema.EnumKind:
		if len(k.Enum.Variants) == 0 {
			return "0"
		}
		return fmt.Sprintf("uint8(%d)", k.Enum.Variants[0].Value)
	default:
		return "nil"
	}
}

func exampleString(length int) string {
	const alphabet = "example"
	if length <= 0 {
		return ""
	}
	if length >= len(alphabet) {
		return alphabet
	}
	return alphabet[:length]
}

// constructorArgs builds the argument list for New<Name>(...), in the
// same required-then-optional order the constructor itself declares,
// emitting address-of-local-var expressions for optional parameters
// since Go cannot take the address of a literal directly.
func (c *goContext) constructorArgs(m *schema.MessageFormat, varPrefix string) (preamble []string, args []string) {
	var required, optional []schema.Field
	for _, f := range m.Fields {
		if f.Required {
			required = append(required, f)
		} else {
			optional = append(optional, f)
		}
	}
	for _, f := range required {
		args = append(args, c.exampleLiteral(f))
	}
	for i, f := range optional {
		varName := fmt.Sprintf("%s%s%d", varPrefix, ToCamelCase(f.Name), i)
		preamble = append(preamble, fmt.Sprintf("%s := %s", varName, c.exampleLiteral(f)))
		args = append(args, "&"+varName)
	}
	return preamble, args
}

const goExampleMainTemplate = `// Code generated by xbc. DO NOT EDIT.
package main

import (
	"fmt"
	"log"
	"os"

	codec "{{.CodecImport}}"
)

func main() {
	type example struct {
		name string
		msg  codec.Message
	}
	var examples []example
{{range .Constructions}}
{{.}}
{{end}}
	for _, ex := range examples {
		data := codec.Serialize(ex.msg)
		filename := fmt.Sprintf("{{.SchemaName}}_%s.xb", ex.name)
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			log.Fatalf("write %s: %v", filename, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", filename, len(data))
	}
}
`

func (c *goContext) constructionBlock(m *schema.MessageFormat, idx int) string {
	name := c.messageName(m)
	preamble, args := c.constructorArgs(m, fmt.Sprintf("v%d", idx))

	var b strings.Builder
	b.WriteString("\t{\n")
	for _, line := range preamble {
		fmt.Fprintf(&b, "\t\t%s\n", line)
	}
	fmt.Fprintf(&b, "\t\tmsg, err := codec.New%s(%s)\n", name, strings.Join(args, ", "))
	fmt.Fprintf(&b, "\t\tif err != nil {\n\t\t\tlog.Fatalf(\"New%s: %%v\", err)\n\t\t}\n", name)
	fmt.Fprintf(&b, "\t\texamples = append(examples, example{name: %q, msg: msg})\n", m.Name)
	b.WriteString("\t}")
	return b.String()
}

func (g *GoGenerator) GenerateExampleMain(w io.Writer, s *schema.Schema, opts Options) error {
	ctx := &goContext{Schema: s, Options: opts}

	var constructions []string
	for i, m := range s.MessageFormats {
		constructions = append(constructions, ctx.constructionBlock(m, i))
	}

	tmpl, err := template.New("go_example_main").Parse(goExampleMainTemplate)
	if err != nil {
		return &EmitError{Message: err.Error()}
	}
	data := struct {
		CodecImport   string
		SchemaName    string
		Constructions []string
	}{
		CodecImport:   codecImportPath(s, opts),
		SchemaName:    ToSnakeCase(s.Name),
		Constructions: constructions,
	}
	if err := tmpl.Execute(w, data); err != nil {
		return &EmitError{Message: err.Error()}
	}
	return nil
}

// codecImportPath is a placeholder import path for the codec package
// this example-main is generated alongside (xbc writes it one
// directory up, in <out>/<schema>_example/main.go next to
// <out>/<schema>.go). It names the relative layout xbc produces;
// callers vendoring the output into an existing module adjust it to
// their real import path.
func codecImportPath(s *schema.Schema, opts Options) string {
	return "../" + packageName(s, opts)
}
