package dtex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockInfoTable(t *testing.T) {
	for f := FormatInvalid + 1; f < formatCount; f++ {
		t.Run(f.String(), func(t *testing.T) {
			b := BlockInfoFor(f)
			assert.Greater(t, b.Pixels(), 0)
			assert.Greater(t, b.Size, uint8(0))

			parsed, ok := ParsePixelFormat(f.String())
			require.True(t, ok)
			assert.Equal(t, f, parsed)
		})
	}
}

func TestIsCompressed(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   bool
	}{
		{FormatR8, false},
		{FormatRGBA8, false},
		{FormatRGBA32F, false},
		{FormatBC1RGBA, true},
		{FormatBC7, true},
		{FormatETC1RGB, true},
		{FormatEACRG11Snorm, true},
		{FormatASTC12x12, true},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompressed(tt.format))
		})
	}
}

func TestBlockInfoForInvalidPanics(t *testing.T) {
	assert.Panics(t, func() { BlockInfoFor(FormatInvalid) })
	assert.Panics(t, func() { BlockInfoFor(formatCount) })
	_, ok := ParsePixelFormat("Invalid")
	assert.False(t, ok)
}

func TestMipDimensions(t *testing.T) {
	base := Dimensions{Width: 256, Height: 64, Depth: 8}
	assert.Equal(t, base, MipDimensions(base, 0))
	assert.Equal(t, Dimensions{128, 32, 4}, MipDimensions(base, 1))
	assert.Equal(t, Dimensions{32, 8, 1}, MipDimensions(base, 3))
	assert.Equal(t, Dimensions{1, 1, 1}, MipDimensions(base, 8))
	assert.Equal(t, Dimensions{1, 1, 1}, MipDimensions(base, 40))
}

func TestMipMonotonicity(t *testing.T) {
	bases := []Dimensions{
		{1, 1, 1},
		{3, 5, 1},
		{1024, 1, 1},
		{640, 480, 1},
		{17, 33, 65},
		{math.MaxUint32, 7, 2},
	}
	for _, base := range bases {
		t.Run(base.String(), func(t *testing.T) {
			limit := MaxMipLevelCount(base)
			for n := uint32(0); n < limit+2; n++ {
				cur, next := MipDimensions(base, n), MipDimensions(base, n+1)
				assert.LessOrEqual(t, next.Width, cur.Width)
				assert.LessOrEqual(t, next.Height, cur.Height)
				assert.LessOrEqual(t, next.Depth, cur.Depth)
				assert.GreaterOrEqual(t, next.Width, uint32(1))
				assert.GreaterOrEqual(t, next.Height, uint32(1))
				assert.GreaterOrEqual(t, next.Depth, uint32(1))
			}
			assert.Equal(t, Dimensions{1, 1, 1}, MipDimensions(base, limit-1))
		})
	}
}

func TestMaxMipLevelCount(t *testing.T) {
	assert.Equal(t, uint32(1), MaxMipLevelCount(Dimensions{1, 1, 1}))
	assert.Equal(t, uint32(11), MaxMipLevelCount(Dimensions{1024, 1024, 1}))
	assert.Equal(t, uint32(10), MaxMipLevelCount(Dimensions{640, 480, 1}))
	assert.Equal(t, uint32(7), MaxMipLevelCount(Dimensions{4, 4, 64}))
}

func TestDataSizeRounding(t *testing.T) {
	// Partial edge blocks round up: (B*k-1)^2 pixels occupy k^2 blocks.
	tests := []struct {
		format PixelFormat
		k      uint32
	}{
		{FormatBC1RGBA, 1},
		{FormatBC1RGBA, 5},
		{FormatBC7, 3},
		{FormatETC2RGBA, 8},
		{FormatASTC6x6, 4},
		{FormatASTC12x12, 2},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			b := BlockInfoFor(tt.format)
			require.Equal(t, b.Width, b.Height)
			side := uint32(b.Width)*tt.k - 1
			got := DataSize(Dimensions{side, side, 1}, tt.format)
			assert.Equal(t, int(tt.k*tt.k)*int(b.Size), got)
		})
	}

	assert.Equal(t, 8, DataSize(Dimensions{1, 1, 1}, FormatBC1RGB))
	assert.Equal(t, 2*1*16, DataSize(Dimensions{10, 5, 1}, FormatASTC8x5))
	assert.Equal(t, 3*16, DataSize(Dimensions{4, 4, 3}, FormatBC3)) // 3 slices of one block
	assert.Equal(t, 3*5*7*8, DataSize(Dimensions{3, 5, 7}, FormatRGBA16F))
}

func TestUncompressedScenario(t *testing.T) {
	m := MetaData{
		BaseDimensions:  Dimensions{4, 4, 1},
		PixelFormat:     FormatRGBA8,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	}
	require.NoError(t, m.Validate())
	assert.Equal(t, 64, TotalSize(m))

	_, ok := MipLevelSize(m, 1)
	assert.False(t, ok)
	_, ok = MipOffset(m, 1)
	assert.False(t, ok)
}

func TestOffsetPacking(t *testing.T) {
	metas := []MetaData{
		{BaseDimensions: Dimensions{256, 256, 1}, PixelFormat: FormatRGBA8, MipLevelCount: 9, ArrayLayerCount: 1},
		{BaseDimensions: Dimensions{100, 60, 1}, PixelFormat: FormatBC1RGB, MipLevelCount: 7, ArrayLayerCount: 4},
		{BaseDimensions: Dimensions{32, 16, 8}, PixelFormat: FormatR16, MipLevelCount: 6, ArrayLayerCount: 1},
		{BaseDimensions: Dimensions{64, 64, 1}, PixelFormat: FormatASTC10x10, MipLevelCount: 7, ArrayLayerCount: 6, Cube: true},
	}
	for _, m := range metas {
		t.Run(m.PixelFormat.String(), func(t *testing.T) {
			require.NoError(t, m.Validate())
			total := TotalSize(m)

			first, ok := MipOffset(m, 0)
			require.True(t, ok)
			assert.Equal(t, 0, first)

			expected := 0
			for level := uint32(0); level < m.MipLevelCount; level++ {
				offset, ok := MipOffset(m, level)
				require.True(t, ok)
				size, ok := MipLevelSize(m, level)
				require.True(t, ok)
				assert.Equal(t, expected, offset, "levels are packed without padding")
				assert.LessOrEqual(t, offset+size, total)
				expected += size
			}
			assert.Equal(t, expected, LayerStride(m))
			assert.Equal(t, expected*int(m.ArrayLayerCount), total)

			last, ok := ImageOffset(m, m.ArrayLayerCount-1, m.MipLevelCount-1)
			require.True(t, ok)
			lastSize, _ := MipLevelSize(m, m.MipLevelCount-1)
			assert.Equal(t, total, last+lastSize)

			_, ok = ImageOffset(m, m.ArrayLayerCount, 0)
			assert.False(t, ok)
			_, ok = ImageOffset(m, 0, m.MipLevelCount)
			assert.False(t, ok)
		})
	}
}

func TestLayerMajorOrdering(t *testing.T) {
	m := MetaData{BaseDimensions: Dimensions{4, 4, 1}, PixelFormat: FormatR8, MipLevelCount: 3, ArrayLayerCount: 2}
	// layer 0: 16 + 4 + 1, layer 1 starts at 21
	offsets := [][]int{{0, 16, 20}, {21, 37, 41}}
	for layer, row := range offsets {
		for level, want := range row {
			got, ok := ImageOffset(m, uint32(layer), uint32(level))
			require.True(t, ok)
			assert.Equal(t, want, got, "layer %d level %d", layer, level)
		}
	}
	assert.Equal(t, 16*2, MaxLevelSize(m))
}

func TestValidate(t *testing.T) {
	good := MetaData{BaseDimensions: Dimensions{16, 16, 1}, PixelFormat: FormatBC7, MipLevelCount: 5, ArrayLayerCount: 1}
	require.NoError(t, good.Validate())

	tests := []struct {
		name   string
		mutate func(*MetaData)
	}{
		{"zero width", func(m *MetaData) { m.BaseDimensions.Width = 0 }},
		{"zero depth", func(m *MetaData) { m.BaseDimensions.Depth = 0 }},
		{"invalid format", func(m *MetaData) { m.PixelFormat = FormatInvalid }},
		{"undefined format", func(m *MetaData) { m.PixelFormat = formatCount + 3 }},
		{"zero mips", func(m *MetaData) { m.MipLevelCount = 0 }},
		{"too many mips", func(m *MetaData) { m.MipLevelCount = 6 }},
		{"zero layers", func(m *MetaData) { m.ArrayLayerCount = 0 }},
		{"cube face count", func(m *MetaData) { m.Cube = true; m.ArrayLayerCount = 5 }},
		{"cube not square", func(m *MetaData) { m.Cube = true; m.ArrayLayerCount = 6; m.BaseDimensions.Height = 8 }},
		{"overflow", func(m *MetaData) {
			m.BaseDimensions = Dimensions{math.MaxUint32, math.MaxUint32, math.MaxUint32}
			m.PixelFormat = FormatRGBA32F
			m.MipLevelCount = 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := good
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptHeader)
		})
	}
}

func TestInferTextureType(t *testing.T) {
	tests := []struct {
		dims   Dimensions
		layers uint32
		cube   bool
		want   TextureType
	}{
		{Dimensions{64, 1, 1}, 1, false, Texture1D},
		{Dimensions{64, 1, 1}, 4, false, Texture1DArray},
		{Dimensions{64, 32, 1}, 1, false, Texture2D},
		{Dimensions{64, 32, 1}, 3, false, Texture2DArray},
		{Dimensions{64, 32, 16}, 1, false, Texture3D},
		{Dimensions{64, 32, 16}, 4, false, Texture3D},
		{Dimensions{32, 32, 1}, 6, true, TextureCube},
		{Dimensions{32, 32, 1}, 12, true, TextureCubeArray},
		{Dimensions{32, 32, 1}, 6, false, Texture2DArray},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, InferTextureType(tt.dims, tt.layers, tt.cube))
		})
	}
}
