package astc

import (
	"testing"

	"github.com/jpfielding/dtex.go/pkg/dtex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func astcFile(bx, by, bz uint8, x, y, z uint32, payload []byte) []byte {
	b := []byte{magic[0], magic[1], magic[2], magic[3], bx, by, bz}
	for _, v := range []uint32{x, y, z} {
		b = append(b, byte(v), byte(v>>8), byte(v>>16))
	}
	return append(b, payload...)
}

func TestDecode2D(t *testing.T) {
	// 100x50 with 6x5 blocks is 17x10 blocks
	payload := make([]byte, 17*10*16)
	for i := range payload {
		payload[i] = byte(i * 3)
	}
	doc, err := dtex.LoadDocument(astcFile(6, 5, 1, 100, 50, 1, payload))
	require.NoError(t, err)
	assert.Equal(t, dtex.FileFormatASTC, doc.SourceFileFormat())
	assert.Equal(t, dtex.FormatASTC6x5, doc.PixelFormat())
	assert.Equal(t, dtex.Texture2D, doc.TextureType())
	assert.True(t, doc.IsCompressed())
	assert.Equal(t, payload, doc.Bytes())
}

func TestDecodeVolumeOf2DBlocks(t *testing.T) {
	ob, err := dtex.Open(astcFile(4, 4, 1, 8, 8, 3, make([]byte, 2*2*3*16)))
	require.NoError(t, err)
	assert.Equal(t, 2*2*3*16, ob.MemoryRequired())
	assert.Equal(t, dtex.Texture3D, ob.MetaData().TextureType())
}

func TestLargeDimensions(t *testing.T) {
	ob, err := dtex.Open(astcFile(12, 12, 1, 70000, 3, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, uint32(70000), ob.MetaData().BaseDimensions.Width)
	assert.Equal(t, 5834*16, ob.MemoryRequired())
}

func TestErrors(t *testing.T) {
	_, err := dtex.Open(magic[:])
	assert.ErrorIs(t, err, dtex.ErrCorruptHeader)

	_, err = dtex.Open(astcFile(0, 4, 1, 4, 4, 1, nil))
	assert.ErrorIs(t, err, dtex.ErrCorruptHeader)

	_, err = dtex.Open(astcFile(4, 4, 4, 4, 4, 4, nil))
	assert.ErrorIs(t, err, dtex.ErrUnsupportedFeature)

	_, err = dtex.Open(astcFile(7, 7, 1, 4, 4, 1, nil))
	assert.ErrorIs(t, err, dtex.ErrUnsupportedFeature)

	_, err = dtex.Open(astcFile(4, 4, 1, 4, 0, 1, nil))
	assert.ErrorIs(t, err, dtex.ErrCorruptHeader)

	ob, err := dtex.Open(astcFile(4, 4, 1, 4, 4, 1, make([]byte, 15)))
	require.NoError(t, err)
	assert.ErrorIs(t, dtex.LoadImageData(ob, make([]byte, 16), nil), dtex.ErrDecodeFailure)
}
