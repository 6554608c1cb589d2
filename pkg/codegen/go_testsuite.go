package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/laundrevity/xbcodec/pkg/schema"
)

const goTestSuiteTemplate = `// Code generated by xbc. DO NOT EDIT.
package {{.Package}}

import (
	"bytes"
	"os"
	"reflect"
	"testing"

	"github.com/laundrevity/xbcodec/pkg/wire"
)
{{range .Tests}}
{{.}}
{{end}}`

func (c *goContext) roundTripTest(m *schema.MessageFormat) string {
	name := c.messageName(m)
	preamble, args := c.constructorArgs(m, "ex")

	var b strings.Builder
	fmt.Fprintf(&b, "func Test%sRoundTrip(t *testing.T) {\n", name)
	for _, line := range preamble {
		fmt.Fprintf(&b, "\t%s\n", line)
	}
	fmt.Fprintf(&b, "\twant, err := New%s(%s)\n", name, strings.Join(args, ", "))
	fmt.Fprintf(&b, "\tif err != nil {\n\t\tt.Fatalf(\"New%s: %%v\", err)\n\t}\n\n", name)

	b.WriteString("\tdata := Serialize(want)\n")
	b.WriteString("\thdr, err := wire.DecodeHeader(data)\n\tif err != nil {\n\t\tt.Fatalf(\"DecodeHeader: %v\", err)\n\t}\n")
	b.WriteString("\tif int(hdr.MessageSize) != len(data) {\n\t\tt.Errorf(\"header MessageSize = %d, want %d\", hdr.MessageSize, len(data))\n\t}\n")
	fmt.Fprintf(&b, "\tif hdr.MessageType != want.WireType() {\n\t\tt.Errorf(\"header MessageType = %%d, want %%d\", hdr.MessageType, want.WireType())\n\t}\n\n")

	b.WriteString("\tdecoded, err := DeserializeMessage(data)\n")
	b.WriteString("\tif err != nil {\n\t\tt.Fatalf(\"DeserializeMessage: %v\", err)\n\t}\n\n")
	fmt.Fprintf(&b, "\tgot, ok := decoded.(*%s)\n\tif !ok {\n\t\tt.Fatalf(\"decoded type = %%T, want *%s\", decoded)\n\t}\n", name, name)
	b.WriteString("\tif !reflect.DeepEqual(got, want) {\n\t\tt.Errorf(\"round trip mismatch:\\n got  %+v\\n want %+v\", got, want)\n\t}\n")
	b.WriteString("}")

	return b.String()
}

// exampleFileRoundTripTest reads back the fixture the example-main
// entry point writes for m (<schema>_<message>.xb) and checks that
// decoding then re-serializing it reproduces the same bytes. Mirrors
// the original generator's deserialize/serialize file test, which
// zip-compares the file's bytes against the re-serialized ones.
func (c *goContext) exampleFileRoundTripTest(m *schema.MessageFormat) string {
	name := c.messageName(m)
	filename := fmt.Sprintf("%s_%s.xb", ToSnakeCase(c.Schema.Name), m.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "func Test%sExampleFileRoundTrip(t *testing.T) {\n", name)
	fmt.Fprintf(&b, "\tdata, err := os.ReadFile(%q)\n", filename)
	b.WriteString("\tif err != nil {\n\t\tt.Skipf(\"run the example entry point first to produce this fixture: %v\", err)\n\t}\n\n")
	b.WriteString("\tdecoded, err := DeserializeMessage(data)\n")
	b.WriteString("\tif err != nil {\n\t\tt.Fatalf(\"DeserializeMessage: %v\", err)\n\t}\n\n")
	fmt.Fprintf(&b, "\tif _, ok := decoded.(*%s); !ok {\n\t\tt.Fatalf(\"decoded type = %%T, want *%s\", decoded)\n\t}\n\n", name, name)
	b.WriteString("\tgot := Serialize(decoded)\n")
	fmt.Fprintf(&b, "\tif !bytes.Equal(got, data) {\n\t\tt.Errorf(\"re-serializing %%s produced different bytes\\n got  %%v\\n want %%v\", %q, got, data)\n\t}\n", filename)
	b.WriteString("}")
	return b.String()
}

func (c *goContext) bufferTooShortTest() string {
	var b strings.Builder
	b.WriteString("func TestDeserializeMessageShortBuffer(t *testing.T) {\n")
	b.WriteString("\t_, err := DeserializeMessage([]byte{0, 0, 0})\n")
	b.WriteString("\tif err == nil {\n\t\tt.Fatal(\"expected an error for a buffer shorter than the header\")\n\t}\n}")
	return b.String()
}

func (c *goContext) unknownTagTest() string {
	var b strings.Builder
	b.WriteString("func TestDeserializeMessageUnknownTag(t *testing.T) {\n")
	b.WriteString("\tbuf := []byte{0, 0, 0, 9, 0xFF, 0, 0, 0, 0}\n")
	b.WriteString("\t_, err := DeserializeMessage(buf)\n")
	b.WriteString("\tif err == nil {\n\t\tt.Fatal(\"expected an error for an unknown message type tag\")\n\t}\n}")
	return b.String()
}

func (g *GoGenerator) GenerateTestSuite(w io.Writer, s *schema.Schema, opts Options) error {
	ctx := &goContext{Schema: s, Options: opts}

	var tests []string
	for _, m := range s.MessageFormats {
		tests = append(tests, ctx.roundTripTest(m), ctx.exampleFileRoundTripTest(m))
	}
	tests = append(tests, ctx.bufferTooShortTest(), ctx.unknownTagTest())

	tmpl, err := template.New("go_test_suite").Parse(goTestSuiteTemplate)
	if err != nil {
		return &EmitError{Message: err.Error()}
	}
	data := struct {
		Package string
		Tests   []string
	}{
		Package: packageName(s, opts),
		Tests:   tests,
	}
	if err := tmpl.Execute(w, data); err != nil {
		return &EmitError{Message: err.Error()}
	}
	return nil
}
