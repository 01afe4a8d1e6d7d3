// Package astc decodes .astc files: a 16-byte header followed by one image of
// ASTC blocks.
package astc

import (
	"github.com/jpfielding/dtex.go/pkg/dtex"
)

var magic = [4]byte{0x13, 0xAB, 0xA1, 0x5C}

// HeaderSize is the size in bytes of an ASTC file header.
const HeaderSize = 16

func init() {
	dtex.RegisterDecoder(Decoder{})
}

type footprint struct{ x, y uint8 }

var footprints = map[footprint]dtex.PixelFormat{
	{4, 4}:   dtex.FormatASTC4x4,
	{5, 4}:   dtex.FormatASTC5x4,
	{5, 5}:   dtex.FormatASTC5x5,
	{6, 5}:   dtex.FormatASTC6x5,
	{6, 6}:   dtex.FormatASTC6x6,
	{8, 5}:   dtex.FormatASTC8x5,
	{8, 6}:   dtex.FormatASTC8x6,
	{8, 8}:   dtex.FormatASTC8x8,
	{10, 5}:  dtex.FormatASTC10x5,
	{10, 6}:  dtex.FormatASTC10x6,
	{10, 8}:  dtex.FormatASTC10x8,
	{10, 10}: dtex.FormatASTC10x10,
	{12, 10}: dtex.FormatASTC12x10,
	{12, 12}: dtex.FormatASTC12x12,
}

// Decoder implements dtex.Decoder for .astc files. The container carries no
// color space, so textures are reported as linear.
type Decoder struct{}

func (Decoder) FileFormat() dtex.FileFormat { return dtex.FileFormatASTC }

func (Decoder) Match(src []byte) bool {
	return len(src) >= 4 && [4]byte(src[:4]) == magic
}

func (Decoder) ParseHeader(src []byte) (dtex.Header, error) {
	if len(src) < HeaderSize {
		return dtex.Header{}, dtex.Corrupt("header needs %d bytes, have %d", HeaderSize, len(src))
	}
	bx, by, bz := src[4], src[5], src[6]
	if bx == 0 || by == 0 || bz == 0 {
		return dtex.Header{}, dtex.Corrupt("zero block dimension %dx%dx%d", bx, by, bz)
	}
	if bz != 1 {
		return dtex.Header{}, dtex.Unsupported("3D block footprint %dx%dx%d", bx, by, bz)
	}
	f, ok := footprints[footprint{bx, by}]
	if !ok {
		return dtex.Header{}, dtex.Unsupported("block footprint %dx%d", bx, by)
	}
	md := dtex.MetaData{
		BaseDimensions: dtex.Dimensions{
			Width:  u24(src[7:10]),
			Height: u24(src[10:13]),
			Depth:  u24(src[13:16]),
		},
		PixelFormat:     f,
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
		return dtex.Truncated("astc blocks", len(dst), len(src)-HeaderSize)
	}
	copy(dst, src[HeaderSize:])
	return nil
}

func u24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
