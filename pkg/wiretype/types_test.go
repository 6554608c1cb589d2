package wiretype

import (
	"strings"
	"testing"

	"github.com/laundrevity/xbcodec/pkg/schema"
)

func loadTestSchema(t *testing.T, src string) *schema.Schema {
	t.Helper()
	s, err := schema.LoadXML(strings.NewReader(src), "test", "test.xml")
	if err != nil {
		t.Fatalf("LoadXML: %v", err)
	}
	return s
}

func TestWireWidthScalars(t *testing.T) {
	const src = `<root>
  <enumTypes>
    <enumType name="Side">
      <enumValue name="Buy" value="0"/>
      <enumValue name="Sell" value="1"/>
    </enumType>
  </enumTypes>
  <messageFormats>
    <messageFormat name="Order">
      <attribute name="price" type="float" length="8" required="true"/>
      <attribute name="qty" type="int" length="4" required="true"/>
      <attribute name="side" type="Side" required="true"/>
      <attribute name="filled" type="bool" required="true"/>
      <attribute name="symbol" type="str" length="6" required="true"/>
      <attribute name="note" type="str" length="10" required="false"/>
    </messageFormat>
  </messageFormats>
</root>`

	s := loadTestSchema(t, src)
	m, ok := s.MessageByName("Order")
	if !ok {
		t.Fatal("Order not found")
	}

	want := map[string]int{
		"price":  8,
		"qty":    4,
		"side":   1,
		"filled": 1,
		"symbol": 6,
		"note":   10,
	}
	for _, f := range m.Fields {
		f := f
		if got := WireWidth(&f); got != want[f.Name] {
			t.Errorf("WireWidth(%s) = %d, want %d", f.Name, got, want[f.Name])
		}
	}

	if got, wantTotal := MaxPayloadWidth(m), 8+4+1+1+6+10; got != wantTotal {
		t.Errorf("MaxPayloadWidth = %d, want %d", got, wantTotal)
	}
	if got, wantTotal := MaxFrameSize(m), HeaderSize+8+4+1+1+6+10; got != wantTotal {
		t.Errorf("MaxFrameSize = %d, want %d", got, wantTotal)
	}
}

func TestHeaderSizeIsNineBytes(t *testing.T) {
	if HeaderSize != 9 {
		t.Errorf("HeaderSize = %d, want 9", HeaderSize)
	}
}
