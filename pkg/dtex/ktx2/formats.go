package ktx2

import "github.com/jpfielding/dtex.go/pkg/dtex"

type mapped struct {
	format dtex.PixelFormat
	space  dtex.ColorSpace
}

var lin, srgb = dtex.ColorSpaceLinear, dtex.ColorSpaceSRGB

// VkFormat values of the ranges computed in lookupFormat.
const (
	vkBC1RGBUnorm  = 131
	vkETC2RGBUnorm = 147
	vkASTC4x4Unorm = 157
	vkASTC12x12End = 184
)

var vkFormats = map[uint32]mapped{
	9:   {dtex.FormatR8, lin}, // VK_FORMAT_R8_UNORM
	15:  {dtex.FormatR8, srgb},
	16:  {dtex.FormatRG8, lin},
	22:  {dtex.FormatRG8, srgb},
	23:  {dtex.FormatRGB8, lin},
	29:  {dtex.FormatRGB8, srgb},
	30:  {dtex.FormatBGR8, lin},
	36:  {dtex.FormatBGR8, srgb},
	37:  {dtex.FormatRGBA8, lin},
	43:  {dtex.FormatRGBA8, srgb},
	44:  {dtex.FormatBGRA8, lin},
	50:  {dtex.FormatBGRA8, srgb},
	70:  {dtex.FormatR16, lin}, // VK_FORMAT_R16_UNORM
	77:  {dtex.FormatRG16, lin},
	91:  {dtex.FormatRGBA16, lin},
	97:  {dtex.FormatRGBA16F, lin},
	100: {dtex.FormatR32F, lin},
	103: {dtex.FormatRG32F, lin},
	109: {dtex.FormatRGBA32F, lin},

	139: {dtex.FormatBC4Unorm, lin},
	140: {dtex.FormatBC4Snorm, lin},
	141: {dtex.FormatBC5Unorm, lin},
	142: {dtex.FormatBC5Snorm, lin},
	143: {dtex.FormatBC6HUfloat, lin},
	144: {dtex.FormatBC6HSfloat, lin},

	153: {dtex.FormatEACR11Unorm, lin},
	154: {dtex.FormatEACR11Snorm, lin},
	155: {dtex.FormatEACRG11Unorm, lin},
	156: {dtex.FormatEACRG11Snorm, lin},
}

// unorm/srgb pairs starting at vkBC1RGBUnorm
var bcPairs = [...]dtex.PixelFormat{dtex.FormatBC1RGB, dtex.FormatBC1RGBA, dtex.FormatBC2, dtex.FormatBC3}

// unorm/srgb pairs starting at vkETC2RGBUnorm
var etcPairs = [...]dtex.PixelFormat{dtex.FormatETC2RGB, dtex.FormatETC2RGBA1, dtex.FormatETC2RGBA}

func lookupFormat(vk uint32) (mapped, bool) {
	pair := func(base uint32, formats []dtex.PixelFormat) (mapped, bool) {
		i := vk - base
		if int(i/2) >= len(formats) {
			return mapped{}, false
		}
		if i%2 == 1 {
			return mapped{formats[i/2], srgb}, true
		}
		return mapped{formats[i/2], lin}, true
	}
	switch {
	case vk >= vkBC1RGBUnorm && vk < vkBC1RGBUnorm+2*len32(bcPairs[:]):
		return pair(vkBC1RGBUnorm, bcPairs[:])
	case vk == 145:
		return mapped{dtex.FormatBC7, lin}, true
	case vk == 146:
		return mapped{dtex.FormatBC7, srgb}, true
	case vk >= vkETC2RGBUnorm && vk < vkETC2RGBUnorm+2*len32(etcPairs[:]):
		return pair(vkETC2RGBUnorm, etcPairs[:])
	case vk >= vkASTC4x4Unorm && vk <= vkASTC12x12End:
		i := vk - vkASTC4x4Unorm
		m := mapped{dtex.FormatASTC4x4 + dtex.PixelFormat(i/2), lin}
		if i%2 == 1 {
			m.space = srgb
		}
		return m, true
	}
	m, ok := vkFormats[vk]
	return m, ok
}

func len32[T any](s []T) uint32 { return uint32(len(s)) }
