package palette

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"
)

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func TestSteps(t *testing.T) {
	got := Steps(3)
	want := color.Palette{rgb(0, 3, 255), rgb(1, 3, 254), rgb(2, 2, 253), rgb(3, 1, 252)}
	if len(got) != len(want) {
		t.Fatalf("Steps(3) has %d colors, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("color %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBullseye(t *testing.T) {
	pals := Bullseye(5)
	if len(pals) != 5 {
		t.Fatalf("expected 5 rings, got %d", len(pals))
	}
	// Every ring starts at x=0, y=radius.
	for i, pal := range pals {
		r := uint8(5 - i)
		if pal[0] != rgb(0, r, 255) {
			t.Errorf("ring %d starts with %v", r, pal[0])
		}
	}
	if Bullseye(0) != nil {
		t.Error("expected no rings for start 0")
	}
}

func TestWriteToLayout(t *testing.T) {
	pal := color.Palette{rgb(1, 2, 3), rgb(4, 5, 6)}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, []color.Palette{pal})
	if err != nil {
		t.Fatal(err)
	}
	// RIFF header + data chunk header + version/count + 2 colors
	if n != 12+8+4+8 || int(n) != buf.Len() {
		t.Fatalf("wrote %d bytes (reported %d), want 32", buf.Len(), n)
	}

	b := buf.Bytes()
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "PAL " || string(b[12:16]) != "data" {
		t.Fatalf("unexpected chunk tags: % x", b[:16])
	}
	if size := binary.LittleEndian.Uint32(b[4:8]); int(size) != buf.Len()-8 {
		t.Errorf("RIFF size %d, want %d", size, buf.Len()-8)
	}
	if size := binary.LittleEndian.Uint32(b[16:20]); size != 12 {
		t.Errorf("data chunk size %d, want 12", size)
	}
	if !bytes.Equal(b[20:24], []byte{0x00, 0x03, 0x02, 0x00}) {
		t.Errorf("version/count = % x, want 00 03 02 00", b[20:24])
	}
	if !bytes.Equal(b[24:], []byte{1, 2, 3, 0, 4, 5, 6, 0}) {
		t.Errorf("entries = % x", b[24:])
	}
}

func TestRoundTrip(t *testing.T) {
	pals := Bullseye(40)

	var buf bytes.Buffer
	if _, err := WriteTo(&buf, pals); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if len(got) != len(pals) {
		t.Fatalf("read %d palettes, want %d", len(got), len(pals))
	}
	for i := range pals {
		if len(got[i]) != len(pals[i]) {
			t.Fatalf("palette %d: %d colors, want %d", i, len(got[i]), len(pals[i]))
		}
		for j := range pals[i] {
			if got[i][j] != pals[i][j] {
				t.Errorf("palette %d color %d = %v, want %v", i, j, got[i][j], pals[i][j])
			}
		}
	}
}

func TestReadFromRejects(t *testing.T) {
	var wave bytes.Buffer
	wave.WriteString("RIFF")
	wave.Write(binary.LittleEndian.AppendUint32(nil, 4))
	wave.WriteString("WAVE")
	if _, err := ReadFrom(&wave); err == nil {
		t.Error("expected error for non-PAL RIFF form")
	}

	var buf bytes.Buffer
	if _, err := WriteTo(&buf, []color.Palette{{rgb(1, 1, 1)}}); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	b[21] = 0x04 // version 0x0400
	if _, err := ReadFrom(bytes.NewReader(b)); err == nil {
		t.Error("expected error for unknown palette version")
	}

	if _, err := ReadFrom(bytes.NewReader([]byte("nope"))); err == nil {
		t.Error("expected error for truncated stream")
	}
}
