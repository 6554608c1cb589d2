package schema

import (
	"strings"
	"testing"
)

func mustLoad(t *testing.T, src string) *Schema {
	t.Helper()
	s, err := LoadXML(strings.NewReader(src), "test", "test.xml")
	if err != nil {
		t.Fatalf("LoadXML: %v", err)
	}
	return s
}

func TestLoadPingSchema(t *testing.T) {
	const src = `<root>
  <enumTypes/>
  <messageFormats>
    <messageFormat id="1" name="Ping">
      <attribute name="seq" type="uint" length="4" required="true"/>
    </messageFormat>
  </messageFormats>
</root>`

	s := mustLoad(t, src)

	if len(s.MessageFormats) != 1 {
		t.Fatalf("expected 1 message format, got %d", len(s.MessageFormats))
	}
	m := s.MessageFormats[0]
	if m.Name != "Ping" {
		t.Errorf("expected name Ping, got %q", m.Name)
	}
	if len(m.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(m.Fields))
	}
	f := m.Fields[0]
	if f.Name != "seq" || !f.Required {
		t.Errorf("expected required field seq, got %+v", f)
	}
	kind, ok := f.Kind.(UIntKind)
	if !ok || kind.WidthBytes != 4 {
		t.Errorf("expected uint(4), got %v", f.Kind)
	}

	wt, ok := s.WireType("Ping")
	if !ok || wt != 1 {
		t.Errorf("expected wire type 1, got %d (ok=%v)", wt, ok)
	}
}

func TestLoadDefaultLengthIsOne(t *testing.T) {
	const src = `<root>
  <enumTypes/>
  <messageFormats>
    <messageFormat name="Flag">
      <attribute name="set" type="bool" required="true"/>
      <attribute name="level" type="uint" required="true"/>
    </messageFormat>
  </messageFormats>
</root>`

	s := mustLoad(t, src)
	m := s.MessageFormats[0]

	if _, ok := m.Fields[0].Kind.(BoolKind); !ok {
		t.Errorf("expected BoolKind, got %v", m.Fields[0].Kind)
	}
	uk, ok := m.Fields[1].Kind.(UIntKind)
	if !ok || uk.WidthBytes != 1 {
		t.Errorf("expected uint(1) default width, got %v", m.Fields[1].Kind)
	}
}

func TestLoadEnumField(t *testing.T) {
	const src = `<root>
  <enumTypes>
    <enumType name="Color">
      <enumValue name="Red" value="1"/>
      <enumValue name="Green" value="2"/>
      <enumValue name="Blue" value="3"/>
    </enumType>
  </enumTypes>
  <messageFormats>
    <messageFormat name="Paint">
      <attribute name="c" type="Color" required="true"/>
    </messageFormat>
  </messageFormats>
</root>`

	s := mustLoad(t, src)
	enum, ok := s.EnumByName("Color")
	if !ok || len(enum.Variants) != 3 {
		t.Fatalf("expected enum Color with 3 variants, got %+v", enum)
	}

	f := s.MessageFormats[0].Fields[0]
	ek, ok := f.Kind.(EnumKind)
	if !ok || ek.EnumName != "Color" || ek.Enum != enum {
		t.Errorf("expected resolved EnumKind(Color), got %v", f.Kind)
	}
}

func TestLoadUnknownTypeRejected(t *testing.T) {
	const src = `<root>
  <enumTypes/>
  <messageFormats>
    <messageFormat name="Bad">
      <attribute name="x" type="notarealtype" required="true"/>
    </messageFormat>
  </messageFormats>
</root>`

	_, err := LoadXML(strings.NewReader(src), "test", "test.xml")
	if err == nil {
		t.Fatal("expected error for unknown type token")
	}
	list, ok := err.(ErrorList)
	if !ok || list[0].Kind != ErrKindUnsupported {
		t.Errorf("expected ErrKindUnsupported, got %v", err)
	}
}

func TestLoadOptionalFieldCapEnforced(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<root><enumTypes/><messageFormats><messageFormat name="TooMany">`)
	for i := 0; i < 33; i++ {
		b.WriteString(`<attribute name="f` + itoa(i) + `" type="uint" length="1" required="false"/>`)
	}
	b.WriteString(`</messageFormat></messageFormats></root>`)

	_, err := LoadXML(strings.NewReader(b.String()), "test", "test.xml")
	if err == nil {
		t.Fatal("expected error for >32 optional fields")
	}
}

func TestLoadCaseCollisionRejected(t *testing.T) {
	const src = `<root>
  <enumTypes/>
  <messageFormats>
    <messageFormat name="Order"><attribute name="a" type="uint" required="true"/></messageFormat>
    <messageFormat name="order"><attribute name="b" type="uint" required="true"/></messageFormat>
  </messageFormats>
</root>`

	_, err := LoadXML(strings.NewReader(src), "test", "test.xml")
	if err == nil {
		t.Fatal("expected case-collision error")
	}
}

func TestLoadInvalidFieldIdentifierRejected(t *testing.T) {
	const src = `<root>
  <enumTypes/>
  <messageFormats>
    <messageFormat name="Order">
      <attribute name="order id" type="uint" required="true"/>
    </messageFormat>
  </messageFormats>
</root>`

	_, err := LoadXML(strings.NewReader(src), "test", "test.xml")
	if err == nil {
		t.Fatal("expected error for a field name containing a space")
	}
	list, ok := err.(ErrorList)
	if !ok || list[0].Kind != ErrKindInvalid {
		t.Errorf("expected ErrKindInvalid, got %v", err)
	}
}

func TestLoadInvalidEnumVariantIdentifierRejected(t *testing.T) {
	const src = `<root>
  <enumTypes>
    <enumType name="Side">
      <enumValue name="1Buy" value="0"/>
    </enumType>
  </enumTypes>
  <messageFormats>
    <messageFormat name="Order">
      <attribute name="side" type="Side" required="true"/>
    </messageFormat>
  </messageFormats>
</root>`

	_, err := LoadXML(strings.NewReader(src), "test", "test.xml")
	if err == nil {
		t.Fatal("expected error for a variant name starting with a digit")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
