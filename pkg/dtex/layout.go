package dtex

import "math/bits"

// MipDimensions returns the extent of mip level of a chain starting at base.
// Each axis halves per level and stops at 1. It is defined for any level;
// range checks against MipLevelCount are the caller's job.
func MipDimensions(base Dimensions, level uint32) Dimensions {
	return Dimensions{
		Width:  halve(base.Width, level),
		Height: halve(base.Height, level),
		Depth:  halve(base.Depth, level),
	}
}

func halve(v, level uint32) uint32 {
	if level >= 32 {
		return 1
	}
	return max(1, v>>level)
}

// MaxMipLevelCount is the length of a full mip chain for base, from base down
// to 1x1x1.
func MaxMipLevelCount(base Dimensions) uint32 {
	m := max(base.Width, base.Height, base.Depth, 1)
	return uint32(bits.Len32(m))
}

// DataSize is the byte size of one image of extent d. Partial edge blocks of
// compressed formats count as whole blocks.
func DataSize(d Dimensions, f PixelFormat) int {
	b := BlockInfoFor(f)
	return int(ceilDiv(d.Width, b.Width)*ceilDiv(d.Height, b.Height)*ceilDiv(d.Depth, b.Depth)) * int(b.Size)
}

// MipLevelSize is the byte size of one layer's image at level.
func MipLevelSize(m MetaData, level uint32) (int, bool) {
	if level >= m.MipLevelCount {
		return 0, false
	}
	return DataSize(MipDimensions(m.BaseDimensions, level), m.PixelFormat), true
}

// MipOffset is the byte offset of level from the start of its layer. Levels
// are packed largest first with no padding, so the offset is the sum of all
// preceding level sizes.
func MipOffset(m MetaData, level uint32) (int, bool) {
	if level >= m.MipLevelCount {
		return 0, false
	}
	offset := 0
	for l := uint32(0); l < level; l++ {
		offset += DataSize(MipDimensions(m.BaseDimensions, l), m.PixelFormat)
	}
	return offset, true
}

// LayerStride is the byte size of one layer's complete mip chain.
func LayerStride(m MetaData) int {
	stride := 0
	for l := uint32(0); l < m.MipLevelCount; l++ {
		stride += DataSize(MipDimensions(m.BaseDimensions, l), m.PixelFormat)
	}
	return stride
}

// ImageOffset is the byte offset of the (layer, level) image in a packed
// destination buffer.
func ImageOffset(m MetaData, layer, level uint32) (int, bool) {
	if layer >= m.ArrayLayerCount {
		return 0, false
	}
	offset, ok := MipOffset(m, level)
	if !ok {
		return 0, false
	}
	return int(layer)*LayerStride(m) + offset, true
}

// TotalSize is the byte size of the whole packed texture: every level of
// every layer.
func TotalSize(m MetaData) int {
	return LayerStride(m) * int(m.ArrayLayerCount)
}

// MaxLevelSize is the largest number of bytes a single level occupies across
// all layers. Decoders that stage one container level at a time size their
// scratch with it.
func MaxLevelSize(m MetaData) int {
	if m.MipLevelCount == 0 {
		return 0
	}
	// Level 0 is never smaller than any later level.
	size, _ := MipLevelSize(m, 0)
	return size * int(m.ArrayLayerCount)
}
