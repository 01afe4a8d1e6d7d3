package dtex

import (
	"fmt"
	"math"
	"math/bits"
)

// Dimensions is the pixel extent of one mip level. Every axis is at least 1.
type Dimensions struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Depth  uint32 `json:"depth"`
}

func (d Dimensions) String() string {
	if d.Depth > 1 {
		return fmt.Sprintf("%dx%dx%d", d.Width, d.Height, d.Depth)
	}
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// MetaData describes a texture as parsed from a container header. It is
// produced once by a Decoder and not modified afterwards.
type MetaData struct {
	SourceFileFormat FileFormat  `json:"sourceFileFormat"`
	BaseDimensions   Dimensions  `json:"baseDimensions"`
	PixelFormat      PixelFormat `json:"pixelFormat"`
	ColorSpace       ColorSpace  `json:"colorSpace"`
	MipLevelCount    uint32      `json:"mipLevelCount"`
	// ArrayLayerCount counts every stored 2D/3D image of a level. For cube
	// maps that is six per cube.
	ArrayLayerCount uint32 `json:"arrayLayerCount"`
	// Cube is set by decoders whose container flags the layers as cube faces.
	Cube bool `json:"cube,omitempty"`
}

// TextureType infers the logical shape of the texture.
func (m MetaData) TextureType() TextureType {
	return InferTextureType(m.BaseDimensions, m.ArrayLayerCount, m.Cube)
}

// Validate checks the invariants the layout calculator relies on. Open calls
// it on every decoder result before any offset is computed.
func (m MetaData) Validate() error {
	d := m.BaseDimensions
	if d.Width == 0 || d.Height == 0 || d.Depth == 0 {
		return Corrupt("zero dimension %dx%dx%d", d.Width, d.Height, d.Depth)
	}
	if !m.PixelFormat.Valid() {
		return Corrupt("undefined pixel format %d", uint8(m.PixelFormat))
	}
	if m.MipLevelCount == 0 {
		return Corrupt("mip level count is zero")
	}
	if limit := MaxMipLevelCount(d); m.MipLevelCount > limit {
		return Corrupt("%d mip levels exceed the %d possible for %v", m.MipLevelCount, limit, d)
	}
	if m.ArrayLayerCount == 0 {
		return Corrupt("array layer count is zero")
	}
	if m.Cube {
		if m.ArrayLayerCount%6 != 0 {
			return Corrupt("cube map with %d faces", m.ArrayLayerCount)
		}
		if d.Width != d.Height || d.Depth != 1 {
			return Corrupt("cube map with non-square faces %v", d)
		}
	}
	if _, ok := checkedTotalSize(m); !ok {
		return Corrupt("texture size overflows")
	}
	return nil
}

// checkedTotalSize computes TotalSize in 64-bit arithmetic and reports
// whether it fits in an int.
func checkedTotalSize(m MetaData) (int, bool) {
	b := BlockInfoFor(m.PixelFormat)
	var stride uint64
	for level := uint32(0); level < m.MipLevelCount; level++ {
		d := MipDimensions(m.BaseDimensions, level)
		n := ceilDiv(d.Width, b.Width)
		hi, n := bits.Mul64(n, ceilDiv(d.Height, b.Height))
		if hi != 0 {
			return 0, false
		}
		hi, n = bits.Mul64(n, ceilDiv(d.Depth, b.Depth))
		if hi != 0 {
			return 0, false
		}
		hi, n = bits.Mul64(n, uint64(b.Size))
		if hi != 0 {
			return 0, false
		}
		var carry uint64
		stride, carry = bits.Add64(stride, n, 0)
		if carry != 0 {
			return 0, false
		}
	}
	hi, total := bits.Mul64(stride, uint64(m.ArrayLayerCount))
	if hi != 0 || total > math.MaxInt {
		return 0, false
	}
	return int(total), true
}

func ceilDiv(v uint32, d uint8) uint64 {
	return (uint64(v) + uint64(d) - 1) / uint64(d)
}
