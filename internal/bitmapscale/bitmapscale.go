// Package bitmapscale implements the pre-20230121 bitmap PPI-scale
// fixup (spec.md §4.1): files from that era assumed an embedded
// raster was always 300 PPI, so a scale factor recorded against a
// higher- or lower-resolution source must be rescaled by the image's
// own pixels-per-inch, read from its PNG pHYs chunk, once that
// resolution is known.
package bitmapscale

import (
	"bytes"
	"encoding/binary"
	"image"

	"github.com/disintegration/imaging"
)

// baselinePPI is the fixed resolution pre-20230121 files assumed.
const baselinePPI = 300.0

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// PPI reads a PNG payload's pHYs chunk and reports its horizontal
// resolution in pixels per inch. ok is false when the payload isn't a
// PNG, has no pHYs chunk, or the chunk's unit isn't meters (CADSTAR
// and KiCad both always emit meters, but a handcrafted file might
// not).
func PPI(data []byte) (ppi float64, ok bool) {
	ppm, ok := pixelsPerMeter(data)
	if !ok {
		return 0, false
	}
	return ppm * 0.0254, true
}

// pixelsPerMeter walks the PNG chunk stream looking for pHYs, per the
// PNG spec's fixed 8-byte signature + (length, type, data, crc) chunk
// layout.
func pixelsPerMeter(data []byte) (x float64, ok bool) {
	if len(data) < len(pngSignature) || !bytes.Equal(data[:len(pngSignature)], pngSignature) {
		return 0, false
	}
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		start := pos + 8
		if start+length > len(data) {
			return 0, false
		}
		if typ == "pHYs" {
			if length < 9 {
				return 0, false
			}
			unit := data[start+8]
			if unit != 1 { // not meters
				return 0, false
			}
			return float64(binary.BigEndian.Uint32(data[start : start+4])), true
		}
		if typ == "IEND" {
			return 0, false
		}
		pos = start + length + 4 // skip the trailing CRC
	}
	return 0, false
}

// CompensateScale rescales a pre-20230121 file's stored scale factor
// by (image PPI / 300); if the payload's PPI can't be determined the
// scale factor is returned unchanged rather than guessed at.
func CompensateScale(scale float64, data []byte) float64 {
	ppi, ok := PPI(data)
	if !ok {
		return scale
	}
	return scale * ppi / baselinePPI
}

// Decode validates that data is a well-formed raster KiCad can
// render, returning its decoded pixel dimensions. It is not on the
// parse hot path: callers use it to surface a corrupt embedded image
// as a diagnostic rather than silently carrying opaque bytes forward.
func Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data))
}
