// Package pkm decodes PKM containers holding a single ETC1, ETC2 or EAC
// image.
package pkm

import (
	"encoding/binary"

	"github.com/jpfielding/dtex.go/pkg/dtex"
)

// Magic is the byte string prefix of every PKM image file.
const Magic = "PKM "

// HeaderSize is the fixed size of the big-endian PKM header.
const HeaderSize = 16

func init() {
	dtex.RegisterDecoder(Decoder{})
}

type mapped struct {
	format dtex.PixelFormat
	space  dtex.ColorSpace
}

// pkmFormats is indexed by the header's data type field. Index 2 (ETC2 RGB
// without alpha for old tools) is unused.
var pkmFormats = [12]mapped{
	0x00: {dtex.FormatETC1RGB, dtex.ColorSpaceLinear},
	0x01: {dtex.FormatETC2RGB, dtex.ColorSpaceLinear},
	0x03: {dtex.FormatETC2RGBA, dtex.ColorSpaceLinear},
	0x04: {dtex.FormatETC2RGBA1, dtex.ColorSpaceLinear},
	0x05: {dtex.FormatEACR11Unorm, dtex.ColorSpaceLinear},
	0x06: {dtex.FormatEACRG11Unorm, dtex.ColorSpaceLinear},
	0x07: {dtex.FormatEACR11Snorm, dtex.ColorSpaceLinear},
	0x08: {dtex.FormatEACRG11Snorm, dtex.ColorSpaceLinear},
	0x09: {dtex.FormatETC2RGB, dtex.ColorSpaceSRGB},
	0x0A: {dtex.FormatETC2RGBA, dtex.ColorSpaceSRGB},
	0x0B: {dtex.FormatETC2RGBA1, dtex.ColorSpaceSRGB},
}

// Decoder implements dtex.Decoder for PKM.
type Decoder struct{}

func (Decoder) FileFormat() dtex.FileFormat { return dtex.FileFormatPKM }

func (Decoder) Match(src []byte) bool {
	return len(src) >= 4 && string(src[:4]) == Magic
}

func (Decoder) ParseHeader(src []byte) (dtex.Header, error) {
	if len(src) < HeaderSize {
		return dtex.Header{}, dtex.Corrupt("header needs %d bytes, have %d", HeaderSize, len(src))
	}
	// version "10" is ETC1 only, "20" adds the ETC2/EAC types
	version := src[4]
	if (version != '1' && version != '2') || src[5] != '0' {
		return dtex.Header{}, dtex.Unsupported("version %q", src[4:6])
	}
	typ := binary.BigEndian.Uint16(src[6:])
	if typ >= uint16(len(pkmFormats)) || !pkmFormats[typ].format.Valid() {
		return dtex.Header{}, dtex.Unsupported("data type %d", typ)
	}
	if version == '1' && typ != 0 {
		return dtex.Header{}, dtex.Corrupt("PKM 1.0 with data type %d", typ)
	}
	paddedW := uint32(binary.BigEndian.Uint16(src[8:]))
	paddedH := uint32(binary.BigEndian.Uint16(src[10:]))
	w := uint32(binary.BigEndian.Uint16(src[12:]))
	h := uint32(binary.BigEndian.Uint16(src[14:]))
	if (w+3)&^3 != paddedW || (h+3)&^3 != paddedH {
		return dtex.Header{}, dtex.Corrupt("padded size %dx%d does not match %dx%d", paddedW, paddedH, w, h)
	}
	md := dtex.MetaData{
		BaseDimensions:  dtex.Dimensions{Width: w, Height: h, Depth: 1},
		PixelFormat:     pkmFormats[typ].format,
		ColorSpace:      pkmFormats[typ].space,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	}
	if err := md.Validate(); err != nil {
		return dtex.Header{}, err
	}
	return dtex.Header{MetaData: md, MemoryRequired: dtex.TotalSize(md)}, nil
}

func (Decoder) Decode(_ any, src, dst, _ []byte) error {
	if end := HeaderSize + len(dst); end > len(src) {
		return dtex.Truncated("pkm image data", len(dst), len(src)-HeaderSize)
	}
	copy(dst, src[HeaderSize:])
	return nil
}
