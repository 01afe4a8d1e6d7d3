package dtex

import "fmt"

// PixelFormat is the memory layout of a texel or compression block.
// Color space is carried separately in MetaData.
type PixelFormat uint8

const (
	FormatInvalid PixelFormat = iota

	// Uncompressed
	FormatR8
	FormatRG8
	FormatRGB8
	FormatBGR8
	FormatRGBA8
	FormatBGRA8
	FormatR16
	FormatRG16
	FormatRGBA16
	FormatRGBA16F
	FormatR32F
	FormatRG32F
	FormatRGBA32F

	// BCn (S3TC, RGTC, BPTC)
	FormatBC1RGB
	FormatBC1RGBA
	FormatBC2
	FormatBC3
	FormatBC4Unorm
	FormatBC4Snorm
	FormatBC5Unorm
	FormatBC5Snorm
	FormatBC6HUfloat
	FormatBC6HSfloat
	FormatBC7

	// ETC / EAC
	FormatETC1RGB
	FormatETC2RGB
	FormatETC2RGBA1
	FormatETC2RGBA
	FormatEACR11Unorm
	FormatEACR11Snorm
	FormatEACRG11Unorm
	FormatEACRG11Snorm

	// ASTC 2D footprints
	FormatASTC4x4
	FormatASTC5x4
	FormatASTC5x5
	FormatASTC6x5
	FormatASTC6x6
	FormatASTC8x5
	FormatASTC8x6
	FormatASTC8x8
	FormatASTC10x5
	FormatASTC10x6
	FormatASTC10x8
	FormatASTC10x10
	FormatASTC12x10
	FormatASTC12x12

	formatCount
)

// BlockInfo describes one addressable unit of a pixel format: the pixel extent
// of a compression block and its size in bytes. Uncompressed formats use a
// 1x1x1 block whose size is the bytes per pixel.
type BlockInfo struct {
	Width  uint8
	Height uint8
	Depth  uint8
	Size   uint8
}

// Pixels returns the number of pixels covered by one block.
func (b BlockInfo) Pixels() int {
	return int(b.Width) * int(b.Height) * int(b.Depth)
}

type formatEntry struct {
	name  string
	block BlockInfo
}

func texel(name string, size uint8) formatEntry {
	return formatEntry{name: name, block: BlockInfo{1, 1, 1, size}}
}

func block(name string, w, h, size uint8) formatEntry {
	return formatEntry{name: name, block: BlockInfo{w, h, 1, size}}
}

// formats is indexed by PixelFormat and never mutated.
var formats = [formatCount]formatEntry{
	FormatInvalid: {name: "Invalid"},

	FormatR8:      texel("R8", 1),
	FormatRG8:     texel("RG8", 2),
	FormatRGB8:    texel("RGB8", 3),
	FormatBGR8:    texel("BGR8", 3),
	FormatRGBA8:   texel("RGBA8", 4),
	FormatBGRA8:   texel("BGRA8", 4),
	FormatR16:     texel("R16", 2),
	FormatRG16:    texel("RG16", 4),
	FormatRGBA16:  texel("RGBA16", 8),
	FormatRGBA16F: texel("RGBA16F", 8),
	FormatR32F:    texel("R32F", 4),
	FormatRG32F:   texel("RG32F", 8),
	FormatRGBA32F: texel("RGBA32F", 16),

	FormatBC1RGB:     block("BC1_RGB", 4, 4, 8),
	FormatBC1RGBA:    block("BC1_RGBA", 4, 4, 8),
	FormatBC2:        block("BC2", 4, 4, 16),
	FormatBC3:        block("BC3", 4, 4, 16),
	FormatBC4Unorm:   block("BC4_UNORM", 4, 4, 8),
	FormatBC4Snorm:   block("BC4_SNORM", 4, 4, 8),
	FormatBC5Unorm:   block("BC5_UNORM", 4, 4, 16),
	FormatBC5Snorm:   block("BC5_SNORM", 4, 4, 16),
	FormatBC6HUfloat: block("BC6H_UFLOAT", 4, 4, 16),
	FormatBC6HSfloat: block("BC6H_SFLOAT", 4, 4, 16),
	FormatBC7:        block("BC7", 4, 4, 16),

	FormatETC1RGB:      block("ETC1_RGB", 4, 4, 8),
	FormatETC2RGB:      block("ETC2_RGB", 4, 4, 8),
	FormatETC2RGBA1:    block("ETC2_RGBA1", 4, 4, 8),
	FormatETC2RGBA:     block("ETC2_RGBA", 4, 4, 16),
	FormatEACR11Unorm:  block("EAC_R11_UNORM", 4, 4, 8),
	FormatEACR11Snorm:  block("EAC_R11_SNORM", 4, 4, 8),
	FormatEACRG11Unorm: block("EAC_RG11_UNORM", 4, 4, 16),
	FormatEACRG11Snorm: block("EAC_RG11_SNORM", 4, 4, 16),

	FormatASTC4x4:   block("ASTC_4x4", 4, 4, 16),
	FormatASTC5x4:   block("ASTC_5x4", 5, 4, 16),
	FormatASTC5x5:   block("ASTC_5x5", 5, 5, 16),
	FormatASTC6x5:   block("ASTC_6x5", 6, 5, 16),
	FormatASTC6x6:   block("ASTC_6x6", 6, 6, 16),
	FormatASTC8x5:   block("ASTC_8x5", 8, 5, 16),
	FormatASTC8x6:   block("ASTC_8x6", 8, 6, 16),
	FormatASTC8x8:   block("ASTC_8x8", 8, 8, 16),
	FormatASTC10x5:  block("ASTC_10x5", 10, 5, 16),
	FormatASTC10x6:  block("ASTC_10x6", 10, 6, 16),
	FormatASTC10x8:  block("ASTC_10x8", 10, 8, 16),
	FormatASTC10x10: block("ASTC_10x10", 10, 10, 16),
	FormatASTC12x10: block("ASTC_12x10", 12, 10, 16),
	FormatASTC12x12: block("ASTC_12x12", 12, 12, 16),
}

// Valid reports whether f is a defined, non-sentinel pixel format.
func (f PixelFormat) Valid() bool {
	return f > FormatInvalid && f < formatCount
}

func (f PixelFormat) String() string {
	if f < formatCount {
		return formats[f].name
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

func (f PixelFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// ParsePixelFormat returns the format whose String matches name.
func ParsePixelFormat(name string) (PixelFormat, bool) {
	for f := FormatInvalid + 1; f < formatCount; f++ {
		if formats[f].name == name {
			return f, true
		}
	}
	return FormatInvalid, false
}

// BlockInfoFor returns the block geometry of f. It panics for FormatInvalid
// and undefined values; callers validate formats coming from file headers.
func BlockInfoFor(f PixelFormat) BlockInfo {
	if !f.Valid() {
		panic(fmt.Sprintf("dtex: no block info for %v", f))
	}
	return formats[f].block
}

// IsCompressed reports whether f stores pixels in multi-pixel blocks.
func IsCompressed(f PixelFormat) bool {
	return BlockInfoFor(f).Pixels() > 1
}
