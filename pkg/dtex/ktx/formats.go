package ktx

import "github.com/jpfielding/dtex.go/pkg/dtex"

// OpenGL enums used by KTX 1 headers.
const (
	glUnsignedByte = 0x1401

	glRed       = 0x1903
	glRGB       = 0x1907
	glRGBA      = 0x1908
	glLuminance = 0x1909
	glRG        = 0x8227
	glBGR       = 0x80E0
	glBGRA      = 0x80E1

	glRGB8        = 0x8051
	glRGBA8       = 0x8058
	glSRGB8       = 0x8C41
	glSRGB8Alpha8 = 0x8C43

	glASTC4x4      = 0x93B0
	glSRGBASTC4x4  = 0x93D0
	astcFormatSpan = 14
)

type mapped struct {
	format dtex.PixelFormat
	space  dtex.ColorSpace
}

var lin, srgb = dtex.ColorSpaceLinear, dtex.ColorSpaceSRGB

// glInternalFormats maps sized glInternalFormat values.
var glInternalFormats = map[uint32]mapped{
	0x8229:        {dtex.FormatR8, lin},  // GL_R8
	0x822B:        {dtex.FormatRG8, lin}, // GL_RG8
	glRGB8:        {dtex.FormatRGB8, lin},
	glRGBA8:       {dtex.FormatRGBA8, lin},
	glSRGB8:       {dtex.FormatRGB8, srgb},
	glSRGB8Alpha8: {dtex.FormatRGBA8, srgb},
	0x822A:        {dtex.FormatR16, lin},     // GL_R16
	0x822C:        {dtex.FormatRG16, lin},    // GL_RG16
	0x805B:        {dtex.FormatRGBA16, lin},  // GL_RGBA16
	0x881A:        {dtex.FormatRGBA16F, lin}, // GL_RGBA16F
	0x822E:        {dtex.FormatR32F, lin},    // GL_R32F
	0x8230:        {dtex.FormatRG32F, lin},   // GL_RG32F
	0x8814:        {dtex.FormatRGBA32F, lin}, // GL_RGBA32F

	0x83F0: {dtex.FormatBC1RGB, lin},  // GL_COMPRESSED_RGB_S3TC_DXT1_EXT
	0x83F1: {dtex.FormatBC1RGBA, lin}, // GL_COMPRESSED_RGBA_S3TC_DXT1_EXT
	0x83F2: {dtex.FormatBC2, lin},     // GL_COMPRESSED_RGBA_S3TC_DXT3_EXT
	0x83F3: {dtex.FormatBC3, lin},     // GL_COMPRESSED_RGBA_S3TC_DXT5_EXT
	0x8C4C: {dtex.FormatBC1RGB, srgb},
	0x8C4D: {dtex.FormatBC1RGBA, srgb},
	0x8C4E: {dtex.FormatBC2, srgb},
	0x8C4F: {dtex.FormatBC3, srgb},
	0x8DBB: {dtex.FormatBC4Unorm, lin}, // GL_COMPRESSED_RED_RGTC1
	0x8DBC: {dtex.FormatBC4Snorm, lin},
	0x8DBD: {dtex.FormatBC5Unorm, lin}, // GL_COMPRESSED_RG_RGTC2
	0x8DBE: {dtex.FormatBC5Snorm, lin},
	0x8E8C: {dtex.FormatBC7, lin}, // GL_COMPRESSED_RGBA_BPTC_UNORM
	0x8E8D: {dtex.FormatBC7, srgb},
	0x8E8E: {dtex.FormatBC6HSfloat, lin},
	0x8E8F: {dtex.FormatBC6HUfloat, lin},

	0x8D64: {dtex.FormatETC1RGB, lin}, // GL_ETC1_RGB8_OES
	0x9270: {dtex.FormatEACR11Unorm, lin},
	0x9271: {dtex.FormatEACR11Snorm, lin},
	0x9272: {dtex.FormatEACRG11Unorm, lin},
	0x9273: {dtex.FormatEACRG11Snorm, lin},
	0x9274: {dtex.FormatETC2RGB, lin},
	0x9275: {dtex.FormatETC2RGB, srgb},
	0x9276: {dtex.FormatETC2RGBA1, lin},
	0x9277: {dtex.FormatETC2RGBA1, srgb},
	0x9278: {dtex.FormatETC2RGBA, lin},
	0x9279: {dtex.FormatETC2RGBA, srgb},
}

// unsizedFormats maps unsized internal formats, valid with GL_UNSIGNED_BYTE.
var unsizedFormats = map[uint32]dtex.PixelFormat{
	glRed:       dtex.FormatR8,
	glLuminance: dtex.FormatR8,
	glRG:        dtex.FormatRG8,
	glRGB:       dtex.FormatRGB8,
	glRGBA:      dtex.FormatRGBA8,
}

func lookupFormat(glType, glFormat, internal uint32) (mapped, bool) {
	var m mapped
	switch {
	case internal >= glASTC4x4 && internal < glASTC4x4+astcFormatSpan:
		m = mapped{dtex.FormatASTC4x4 + dtex.PixelFormat(internal-glASTC4x4), lin}
	case internal >= glSRGBASTC4x4 && internal < glSRGBASTC4x4+astcFormatSpan:
		m = mapped{dtex.FormatASTC4x4 + dtex.PixelFormat(internal-glSRGBASTC4x4), srgb}
	default:
		var ok bool
		if m, ok = glInternalFormats[internal]; !ok {
			f, ok := unsizedFormats[internal]
			if !ok || glType != glUnsignedByte {
				return mapped{}, false
			}
			m = mapped{f, lin}
		}
	}
	// client-side channel order
	switch {
	case glFormat == glBGRA && m.format == dtex.FormatRGBA8:
		m.format = dtex.FormatBGRA8
	case glFormat == glBGR && m.format == dtex.FormatRGB8:
		m.format = dtex.FormatBGR8
	}
	return m, true
}
