package codegen

import (
	"bytes"
	"strings"
	"testing"
)

func TestTypeScriptGeneratorCodecContainsExpectedShape(t *testing.T) {
	s := loadOrderSchema(t)
	gen := NewTypeScriptGenerator()

	var buf bytes.Buffer
	if err := gen.GenerateCodec(&buf, s, Options{Package: "trading"}); err != nil {
		t.Fatalf("GenerateCodec: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"export enum Side",
		"BUY = 0",
		"SELL = 1",
		"export function SideFromByte(raw: number): Side",
		"export interface Order",
		"tag: string | null",
		"export function serializeOrderPayload(m: Order, view: DataView, offset: number): number",
		"export function deserializeOrder(view: DataView, offset: number, bitmask: number): Order",
		"export function serialize(m: Message): Uint8Array",
		"export function deserializeMessage(bytes: Uint8Array): Message",
		"view.setUint32(0, HEADER_SIZE + payloadLen, false);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated TS codec missing %q", want)
		}
	}
}

func TestTypeScriptGeneratorDeterministic(t *testing.T) {
	s := loadOrderSchema(t)
	gen := NewTypeScriptGenerator()

	var a, b bytes.Buffer
	if err := gen.GenerateCodec(&a, s, Options{Package: "trading"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := gen.GenerateCodec(&b, s, Options{Package: "trading"}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a.String() != b.String() {
		t.Error("two TypeScript generator runs on the same schema produced different output")
	}
}

func TestTypeScriptGeneratorTestSuiteCoversEveryMessage(t *testing.T) {
	s := loadOrderSchema(t)
	gen := NewTypeScriptGenerator()

	var buf bytes.Buffer
	if err := gen.GenerateTestSuite(&buf, s, Options{Package: "trading"}); err != nil {
		t.Fatalf("GenerateTestSuite: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `test("Order round trip"`) {
		t.Error("expected a round-trip test for Order")
	}
	if !strings.Contains(out, `test("Order example file round trip"`) {
		t.Error("expected a file-round-trip test for Order")
	}
	if !strings.Contains(out, `fs.readFileSync("trading_Order.xb")`) {
		t.Error("expected the file-round-trip test to read the example-main fixture by name")
	}
}

func TestCodegenRegistryHasBothLanguages(t *testing.T) {
	if _, ok := Get(LanguageGo); !ok {
		t.Error("expected Go generator to be registered")
	}
	if _, ok := Get(LanguageTypeScript); !ok {
		t.Error("expected TypeScript generator to be registered")
	}
}
