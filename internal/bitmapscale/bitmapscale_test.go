package bitmapscale

import (
	"encoding/binary"
	"math"
	"testing"
)

// buildPNG assembles a minimal PNG byte stream: the 8-byte signature
// followed by an optional pHYs chunk (ppm, 0 to omit) and a trailing
// IEND marker, enough for pixelsPerMeter to walk without needing a
// real image payload.
func buildPNG(ppm uint32) []byte {
	var buf []byte
	buf = append(buf, pngSignature...)
	if ppm != 0 {
		data := make([]byte, 9)
		binary.BigEndian.PutUint32(data[0:4], ppm)
		binary.BigEndian.PutUint32(data[4:8], ppm)
		data[8] = 1 // unit: meters
		buf = appendChunk(buf, "pHYs", data)
	}
	buf = appendChunk(buf, "IEND", nil)
	return buf
}

func appendChunk(buf []byte, typ string, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, []byte(typ)...)
	buf = append(buf, data...)
	buf = append(buf, 0, 0, 0, 0) // CRC, unchecked by pixelsPerMeter
	return buf
}

func TestPPIReadsPHYsChunkAt300(t *testing.T) {
	// 300 PPI == 11811 pixels per meter (300 / 0.0254, rounded).
	png := buildPNG(11811)
	ppi, ok := PPI(png)
	if !ok {
		t.Fatal("expected PPI to be found")
	}
	if math.Abs(ppi-300) > 1 {
		t.Fatalf("got %.2f PPI, want ~300", ppi)
	}
}

func TestPPIMissingChunkReturnsFalse(t *testing.T) {
	png := buildPNG(0)
	if _, ok := PPI(png); ok {
		t.Fatal("expected ok=false with no pHYs chunk")
	}
}

func TestPPINotAPNGReturnsFalse(t *testing.T) {
	if _, ok := PPI([]byte("not a png")); ok {
		t.Fatal("expected ok=false for non-PNG input")
	}
}

func TestCompensateScaleRescalesByPPI(t *testing.T) {
	// 600 PPI source: a file authored assuming 300 PPI recorded a scale
	// of 1.0, so the true factor should come out doubled.
	png := buildPNG(23622) // ~600 PPI
	got := CompensateScale(1.0, png)
	if math.Abs(got-2.0) > 0.05 {
		t.Fatalf("got scale %.3f, want ~2.0", got)
	}
}

func TestCompensateScaleUnchangedWhenPPIUnknown(t *testing.T) {
	got := CompensateScale(1.5, []byte("garbage"))
	if got != 1.5 {
		t.Fatalf("got %.3f, want unchanged 1.5", got)
	}
}
