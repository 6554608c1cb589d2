package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/laundrevity/xbcodec/pkg/codegen/testdata"
)

// These mirror the literal byte sequences from spec.md §8's concrete
// scenarios, exercised directly against Writer/Reader/Header rather
// than through generated code, to pin down the primitives the emitted
// codecs are built from.

func TestScenarioPing(t *testing.T) {
	pw := NewWriter()
	pw.WriteUint32(0x0A0B0C0D)
	payload := pw.Bytes()

	h := Header{MessageSize: uint32(HeaderSize + len(payload)), MessageType: 1, Bitmask: 0}
	frame := make([]byte, HeaderSize, HeaderSize+len(payload))
	EncodeHeader(frame, h)
	frame = append(frame, payload...)

	want := []byte{0x00, 0x00, 0x00, 0x0D, 0x01, 0x00, 0x00, 0x00, 0x00, 0x0A, 0x0B, 0x0C, 0x0D}
	if !bytes.Equal(frame, want) {
		t.Fatalf("Ping frame = % X, want % X", frame, want)
	}
}

func TestScenarioOrderTagPresent(t *testing.T) {
	pw := NewWriter()
	pw.WriteInt8(-1)
	pw.WriteUint32(100)
	pw.WriteFixedString("ABC", 8)
	payload := pw.Bytes()

	var bm Bitmask
	bm.Set(0) // tag is the 0th (and only) optional field

	h := Header{MessageSize: uint32(HeaderSize + len(payload)), MessageType: 1, Bitmask: bm}
	frame := make([]byte, HeaderSize, HeaderSize+len(payload))
	EncodeHeader(frame, h)
	frame = append(frame, payload...)

	wantHeader := []byte{0x00, 0x00, 0x00, 0x16, 0x01, 0x00, 0x00, 0x00, 0x01}
	wantPayload := []byte{0xFF, 0x00, 0x00, 0x00, 0x64, 'A', 'B', 'C', ' ', ' ', ' ', ' ', ' '}
	if !bytes.Equal(frame[:HeaderSize], wantHeader) {
		t.Errorf("header = % X, want % X", frame[:HeaderSize], wantHeader)
	}
	if !bytes.Equal(frame[HeaderSize:], wantPayload) {
		t.Errorf("payload = % X, want % X", frame[HeaderSize:], wantPayload)
	}
	if len(frame) != 22 {
		t.Errorf("frame length = %d, want 22", len(frame))
	}
}

func TestScenarioOrderTagAbsent(t *testing.T) {
	pw := NewWriter()
	pw.WriteInt8(1)
	pw.WriteUint32(1)
	payload := pw.Bytes() // tag omitted entirely: absence elides bytes

	h := Header{MessageSize: uint32(HeaderSize + len(payload)), MessageType: 1, Bitmask: 0}
	frame := make([]byte, HeaderSize, HeaderSize+len(payload))
	EncodeHeader(frame, h)
	frame = append(frame, payload...)

	wantHeader := []byte{0x00, 0x00, 0x00, 0x0E, 0x01, 0x00, 0x00, 0x00, 0x00}
	wantPayload := []byte{0x01, 0x00, 0x00, 0x00, 0x01}
	if !bytes.Equal(frame[:HeaderSize], wantHeader) {
		t.Errorf("header = % X, want % X", frame[:HeaderSize], wantHeader)
	}
	if !bytes.Equal(frame[HeaderSize:], wantPayload) {
		t.Errorf("payload = % X, want % X", frame[HeaderSize:], wantPayload)
	}
	if len(frame) != 14 {
		t.Errorf("frame length = %d, want 14", len(frame))
	}
}

func TestScenarioPaintEnumEncode(t *testing.T) {
	pw := NewWriter()
	pw.WriteUint8(3) // Blue
	payload := pw.Bytes()

	h := Header{MessageSize: uint32(HeaderSize + len(payload)), MessageType: 1, Bitmask: 0}
	frame := make([]byte, HeaderSize, HeaderSize+len(payload))
	EncodeHeader(frame, h)
	frame = append(frame, payload...)

	want := []byte{0x00, 0x00, 0x00, 0x0A, 0x01, 0x00, 0x00, 0x00, 0x00, 0x03}
	if !bytes.Equal(frame, want) {
		t.Fatalf("Paint frame = % X, want % X", frame, want)
	}
}

func TestScenarioPaintInvalidEnumValue(t *testing.T) {
	// Byte 9 (first payload byte) = 7, not a declared Color variant.
	// Decoded through testdata's representative generated-style Paint
	// dispatcher, not a hand-rolled membership check, so this actually
	// exercises ColorFromUint8 and the Deserialize error path.
	frame := []byte{0x00, 0x00, 0x00, 0x0A, 0x01, 0x00, 0x00, 0x00, 0x00, 0x07}
	_, err := testdata.DeserializeMessage(frame)
	if !errors.Is(err, ErrInvalidEnumValue) {
		t.Fatalf("DeserializeMessage error = %v, want wrapping ErrInvalidEnumValue", err)
	}
}

func TestScenarioUnknownMessageType(t *testing.T) {
	frame := []byte{0x00, 0x00, 0x00, 0x09, 0xFF, 0x00, 0x00, 0x00, 0x00}
	_, err := testdata.DeserializeMessage(frame)
	if !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("DeserializeMessage error = %v, want ErrUnknownMessageType", err)
	}
}

func TestScenarioShortBufferRejected(t *testing.T) {
	_, err := DecodeHeader([]byte{0x00, 0x00, 0x00, 0x09, 0x01, 0x00, 0x00, 0x00})
	if err != ErrBufferTooShort {
		t.Errorf("expected ErrBufferTooShort for a 8-byte buffer, got %v", err)
	}
}
