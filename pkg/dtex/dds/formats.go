package dds

import "github.com/jpfielding/dtex.go/pkg/dtex"

type mapped struct {
	format dtex.PixelFormat
	space  dtex.ColorSpace
}

// DXGI_FORMAT values of the DX10 extension header.
var dxgiFormats = map[uint32]mapped{
	2:  {dtex.FormatRGBA32F, dtex.ColorSpaceLinear},  // R32G32B32A32_FLOAT
	10: {dtex.FormatRGBA16F, dtex.ColorSpaceLinear},  // R16G16B16A16_FLOAT
	11: {dtex.FormatRGBA16, dtex.ColorSpaceLinear},   // R16G16B16A16_UNORM
	16: {dtex.FormatRG32F, dtex.ColorSpaceLinear},    // R32G32_FLOAT
	28: {dtex.FormatRGBA8, dtex.ColorSpaceLinear},    // R8G8B8A8_UNORM
	29: {dtex.FormatRGBA8, dtex.ColorSpaceSRGB},      // R8G8B8A8_UNORM_SRGB
	35: {dtex.FormatRG16, dtex.ColorSpaceLinear},     // R16G16_UNORM
	41: {dtex.FormatR32F, dtex.ColorSpaceLinear},     // R32_FLOAT
	49: {dtex.FormatRG8, dtex.ColorSpaceLinear},      // R8G8_UNORM
	56: {dtex.FormatR16, dtex.ColorSpaceLinear},      // R16_UNORM
	61: {dtex.FormatR8, dtex.ColorSpaceLinear},       // R8_UNORM
	71: {dtex.FormatBC1RGBA, dtex.ColorSpaceLinear},  // BC1_UNORM
	72: {dtex.FormatBC1RGBA, dtex.ColorSpaceSRGB},    // BC1_UNORM_SRGB
	74: {dtex.FormatBC2, dtex.ColorSpaceLinear},      // BC2_UNORM
	75: {dtex.FormatBC2, dtex.ColorSpaceSRGB},        // BC2_UNORM_SRGB
	77: {dtex.FormatBC3, dtex.ColorSpaceLinear},      // BC3_UNORM
	78: {dtex.FormatBC3, dtex.ColorSpaceSRGB},        // BC3_UNORM_SRGB
	80: {dtex.FormatBC4Unorm, dtex.ColorSpaceLinear}, // BC4_UNORM
	81: {dtex.FormatBC4Snorm, dtex.ColorSpaceLinear}, // BC4_SNORM
	83: {dtex.FormatBC5Unorm, dtex.ColorSpaceLinear}, // BC5_UNORM
	84: {dtex.FormatBC5Snorm, dtex.ColorSpaceLinear}, // BC5_SNORM
	87: {dtex.FormatBGRA8, dtex.ColorSpaceLinear},    // B8G8R8A8_UNORM
	91: {dtex.FormatBGRA8, dtex.ColorSpaceSRGB},      // B8G8R8A8_UNORM_SRGB
	95: {dtex.FormatBC6HUfloat, dtex.ColorSpaceLinear},
	96: {dtex.FormatBC6HSfloat, dtex.ColorSpaceLinear},
	98: {dtex.FormatBC7, dtex.ColorSpaceLinear},
	99: {dtex.FormatBC7, dtex.ColorSpaceSRGB},
}

func fourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// Legacy FourCC codes, including the numeric D3DFORMAT values some writers
// store there for float formats.
var fourCCFormats = map[uint32]dtex.PixelFormat{
	fourCC("DXT1"): dtex.FormatBC1RGBA,
	fourCC("DXT2"): dtex.FormatBC2,
	fourCC("DXT3"): dtex.FormatBC2,
	fourCC("DXT4"): dtex.FormatBC3,
	fourCC("DXT5"): dtex.FormatBC3,
	fourCC("ATI1"): dtex.FormatBC4Unorm,
	fourCC("BC4U"): dtex.FormatBC4Unorm,
	fourCC("BC4S"): dtex.FormatBC4Snorm,
	fourCC("ATI2"): dtex.FormatBC5Unorm,
	fourCC("BC5U"): dtex.FormatBC5Unorm,
	fourCC("BC5S"): dtex.FormatBC5Snorm,
	36:             dtex.FormatRGBA16,  // D3DFMT_A16B16G16R16
	113:            dtex.FormatRGBA16F, // D3DFMT_A16B16G16R16F
	114:            dtex.FormatR32F,    // D3DFMT_R32F
	115:            dtex.FormatRG32F,   // D3DFMT_G32R32F
	116:            dtex.FormatRGBA32F, // D3DFMT_A32B32G32R32F
}

type bitMask struct {
	bits       uint32
	r, g, b, a uint32
}

var maskFormats = map[bitMask]dtex.PixelFormat{
	{32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000}: dtex.FormatRGBA8,
	{32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000}: dtex.FormatBGRA8,
	{32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0}:          dtex.FormatBGRA8, // X8R8G8B8
	{32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0}:          dtex.FormatRGBA8, // X8B8G8R8
	{24, 0x00ff0000, 0x0000ff00, 0x000000ff, 0}:          dtex.FormatBGR8,
	{24, 0x000000ff, 0x0000ff00, 0x00ff0000, 0}:          dtex.FormatRGB8,
	{32, 0x0000ffff, 0xffff0000, 0, 0}:                   dtex.FormatRG16,
	{16, 0x000000ff, 0x0000ff00, 0, 0}:                   dtex.FormatRG8,
}

// pixelFormat.dwFlags
const (
	pfAlphaPixels = 0x1
	pfFourCC      = 0x4
	pfRGB         = 0x40
	pfLuminance   = 0x20000
)

func legacyFormat(flags, code, bitCount, r, g, b, a uint32) (dtex.PixelFormat, error) {
	switch {
	case flags&pfFourCC != 0:
		if f, ok := fourCCFormats[code]; ok {
			return f, nil
		}
		return dtex.FormatInvalid, dtex.Unsupported("fourCC %q", fourCCString(code))
	case flags&pfLuminance != 0 && bitCount == 8:
		return dtex.FormatR8, nil
	case flags&pfLuminance != 0 && bitCount == 16 && a == 0:
		return dtex.FormatR16, nil
	case flags&pfRGB != 0:
		if flags&pfAlphaPixels == 0 {
			a = 0
		}
		if f, ok := maskFormats[bitMask{bitCount, r, g, b, a}]; ok {
			return f, nil
		}
		return dtex.FormatInvalid, dtex.Unsupported("%d-bit RGB masks %08x %08x %08x %08x", bitCount, r, g, b, a)
	default:
		return dtex.FormatInvalid, dtex.Unsupported("pixel format flags 0x%x", flags)
	}
}

func fourCCString(code uint32) string {
	return string([]byte{byte(code), byte(code >> 8), byte(code >> 16), byte(code >> 24)})
}
