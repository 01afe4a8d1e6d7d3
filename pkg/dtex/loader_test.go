package dtex

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeFormat = FileFormat(200)

var fakeMagic = []byte("FAKE")

// fakeDecoder reads a tiny container: magic, five uint32 (w, h, d, mips,
// layers), pixel format, cube flag, staged flag, then the payload already in
// destination order. Staged payloads are copied through scratch.
type fakeDecoder struct {
	lieAboutSize bool
}

type fakeState struct {
	payload []byte
	staged  bool
}

const fakeHeaderSize = 4 + 5*4 + 3

func (fakeDecoder) FileFormat() FileFormat { return fakeFormat }

func (fakeDecoder) Match(src []byte) bool { return bytes.HasPrefix(src, fakeMagic) }

func (d fakeDecoder) ParseHeader(src []byte) (Header, error) {
	if len(src) < fakeHeaderSize {
		return Header{}, Corrupt("header truncated")
	}
	u := func(i int) uint32 { return binary.LittleEndian.Uint32(src[4+4*i:]) }
	md := MetaData{
		BaseDimensions:  Dimensions{u(0), u(1), u(2)},
		MipLevelCount:   u(3),
		ArrayLayerCount: u(4),
		PixelFormat:     PixelFormat(src[24]),
		Cube:            src[25] != 0,
	}
	if md.PixelFormat == FormatRGBA16F {
		return Header{}, Unsupported("half floats")
	}
	if err := md.Validate(); err != nil {
		return Header{}, err
	}
	h := Header{
		MetaData:       md,
		State:          &fakeState{payload: src[fakeHeaderSize:], staged: src[26] != 0},
		MemoryRequired: TotalSize(md),
	}
	if src[26] != 0 {
		h.WorkingMemoryRequired = MaxLevelSize(md)
	}
	if d.lieAboutSize {
		h.MemoryRequired++
	}
	return h, nil
}

func (fakeDecoder) Decode(state any, src, dst, scratch []byte) error {
	s := state.(*fakeState)
	if len(s.payload) < len(dst) {
		return Truncated("payload", len(dst), len(s.payload))
	}
	if !s.staged {
		copy(dst, s.payload)
		return nil
	}
	for off := 0; off < len(dst); off += len(scratch) {
		n := copy(scratch, s.payload[off:len(dst)])
		copy(dst[off:], scratch[:n])
	}
	return nil
}

func fakeFile(md MetaData, staged bool, payload []byte) []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write(fakeMagic)
	for _, v := range []uint32{md.BaseDimensions.Width, md.BaseDimensions.Height, md.BaseDimensions.Depth, md.MipLevelCount, md.ArrayLayerCount} {
		binary.Write(buf, binary.LittleEndian, v)
	}
	buf.WriteByte(byte(md.PixelFormat))
	buf.WriteByte(boolByte(md.Cube))
	buf.WriteByte(boolByte(staged))
	buf.Write(payload)
	return buf.Bytes()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}

func withFakeDecoder(t *testing.T, d fakeDecoder) {
	t.Helper()
	RegisterDecoder(d)
	t.Cleanup(func() {
		registryMu.Lock()
		defer registryMu.Unlock()
		for i, r := range registry {
			if r.FileFormat() == fakeFormat {
				registry = append(registry[:i], registry[i+1:]...)
				return
			}
		}
	})
}

var rgba4x4 = MetaData{
	BaseDimensions:  Dimensions{4, 4, 1},
	PixelFormat:     FormatRGBA8,
	MipLevelCount:   1,
	ArrayLayerCount: 1,
}

func TestOpenUnrecognized(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	for _, src := range [][]byte{nil, []byte("NOPE not a texture")} {
		ob, err := Open(src)
		assert.Nil(t, ob)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnrecognizedFormat)

		var oe *OpenError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, FileFormatInvalid, oe.Format)
	}
}

func TestOpenClassifiesDecoderErrors(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})

	_, err := Open(fakeMagic)
	assert.ErrorIs(t, err, ErrCorruptHeader)

	bad := rgba4x4
	bad.MipLevelCount = 9
	_, err = Open(fakeFile(bad, false, nil))
	assert.ErrorIs(t, err, ErrCorruptHeader)
	assert.Contains(t, err.Error(), "mip levels exceed")

	half := rgba4x4
	half.PixelFormat = FormatRGBA16F
	_, err = Open(fakeFile(half, false, nil))
	assert.ErrorIs(t, err, ErrUnsupportedFeature)

	var oe *OpenError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, fakeFormat, oe.Format)
	assert.Equal(t, "half floats", oe.Detail)
}

func TestOpenRejectsSizeMismatch(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{lieAboutSize: true})
	_, err := Open(fakeFile(rgba4x4, false, sequence(64)))
	assert.ErrorIs(t, err, ErrCorruptHeader)
	assert.Contains(t, err.Error(), "layout needs 64")
}

func TestOpenScenario(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	ob, err := Open(fakeFile(rgba4x4, false, sequence(64)))
	require.NoError(t, err)
	assert.Equal(t, 64, ob.MemoryRequired())
	assert.Equal(t, 0, ob.WorkingMemoryRequired())
	assert.Equal(t, StateOpened, ob.State())
	assert.Equal(t, fakeFormat, ob.MetaData().SourceFileFormat)

	dst := make([]byte, ob.MemoryRequired())
	require.NoError(t, LoadImageData(ob, dst, nil))
	assert.Equal(t, StateLoaded, ob.State())

	doc, err := ob.Document(dst)
	require.NoError(t, err)
	assert.Equal(t, 64, doc.TotalSizeRequired())
	_, ok := doc.Dimensions(1)
	assert.False(t, ok)
}

func TestLoadBufferTooSmallWritesNothing(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	src := fakeFile(rgba4x4, false, sequence(64))

	ob, err := Open(src)
	require.NoError(t, err)

	dst := bytes.Repeat([]byte{0xAA}, 63)
	err = LoadImageData(ob, dst, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Equal(t, bytes.Repeat([]byte{0xAA}, 63), dst)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "destination", le.Buffer)
	assert.Equal(t, 64, le.Need)
	assert.Equal(t, 63, le.Have)

	// failure is terminal for the handle
	assert.Equal(t, StateFailed, ob.State())
	err = LoadImageData(ob, make([]byte, 64), nil)
	assert.ErrorIs(t, err, ErrDecodeFailure)
	_, err = ob.Document(make([]byte, 64))
	assert.Error(t, err)
}

func TestLoadScratchTooSmall(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	md := MetaData{BaseDimensions: Dimensions{8, 8, 1}, PixelFormat: FormatR8, MipLevelCount: 4, ArrayLayerCount: 3}
	ob, err := Open(fakeFile(md, true, sequence(TotalSize(md))))
	require.NoError(t, err)
	require.Equal(t, 64*3, ob.WorkingMemoryRequired())

	dst := bytes.Repeat([]byte{0x55}, ob.MemoryRequired())
	err = LoadImageData(ob, dst, make([]byte, 10))
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Equal(t, bytes.Repeat([]byte{0x55}, ob.MemoryRequired()), dst)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "scratch", le.Buffer)
}

func TestLoadDecodeFailure(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	ob, err := Open(fakeFile(rgba4x4, false, sequence(10)))
	require.NoError(t, err, "open never reads pixel data")

	err = LoadImageData(ob, make([]byte, 64), nil)
	assert.ErrorIs(t, err, ErrDecodeFailure)
	assert.Contains(t, err.Error(), "payload truncated")
	assert.Equal(t, StateFailed, ob.State())
}

func TestFailedReloadKeepsLoadedState(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	ob, err := Open(fakeFile(rgba4x4, false, sequence(64)))
	require.NoError(t, err)
	dst := make([]byte, 64)
	require.NoError(t, LoadImageData(ob, dst, nil))

	err = LoadImageData(ob, make([]byte, 8), nil)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Equal(t, StateLoaded, ob.State())

	doc, err := ob.Document(dst)
	require.NoError(t, err)
	assert.Equal(t, sequence(64), doc.Bytes())

	// reloading into a fresh buffer still works
	again := make([]byte, 64)
	require.NoError(t, LoadImageData(ob, again, nil))
	assert.Equal(t, dst, again)
}

func TestRoundTrip(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	md := MetaData{BaseDimensions: Dimensions{16, 8, 1}, PixelFormat: FormatBC1RGBA, MipLevelCount: 5, ArrayLayerCount: 2}
	payload := sequence(TotalSize(md))

	for _, staged := range []bool{false, true} {
		ob, err := Open(fakeFile(md, staged, payload))
		require.NoError(t, err)

		// oversized buffers are fine, only the prefix is written
		dst := make([]byte, ob.MemoryRequired()+16)
		scratch := make([]byte, ob.WorkingMemoryRequired())
		require.NoError(t, LoadImageData(ob, dst, scratch))
		assert.Equal(t, make([]byte, 16), dst[ob.MemoryRequired():])

		doc, err := ob.Document(dst)
		require.NoError(t, err)
		assert.Equal(t, ob.MemoryRequired(), doc.TotalSizeRequired())
		assert.Equal(t, md.MipLevelCount, doc.MipLevelCount())
		assert.Equal(t, uint32(2), doc.ArrayLayerCount())
		assert.Equal(t, Texture2DArray, doc.TextureType())
		assert.True(t, doc.IsCompressed())
		assert.Equal(t, payload, doc.Bytes())

		for level := uint32(0); level < md.MipLevelCount; level++ {
			offset, ok := doc.MipLevelOffset(level)
			require.True(t, ok)
			size, ok := doc.MipLevelSize(level)
			require.True(t, ok)
			data, ok := doc.Data(level)
			require.True(t, ok)
			assert.Equal(t, payload[offset:offset+size], data)

			second, ok := doc.LayerData(1, level)
			require.True(t, ok)
			stride := LayerStride(md)
			assert.Equal(t, payload[stride+offset:stride+offset+size], second)
		}
	}
}

func TestDocumentAbsence(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	md := MetaData{BaseDimensions: Dimensions{8, 8, 1}, PixelFormat: FormatRG8, MipLevelCount: 3, ArrayLayerCount: 1}
	doc, err := LoadDocument(fakeFile(md, false, sequence(TotalSize(md))))
	require.NoError(t, err)

	for _, level := range []uint32{3, 4, 1 << 31} {
		_, ok := doc.Dimensions(level)
		assert.False(t, ok)
		_, ok = doc.MipLevelOffset(level)
		assert.False(t, ok)
		_, ok = doc.MipLevelSize(level)
		assert.False(t, ok)
		data, ok := doc.Data(level)
		assert.False(t, ok)
		assert.Nil(t, data)
	}
	_, ok := doc.LayerData(1, 0)
	assert.False(t, ok)

	d, ok := doc.Dimensions(2)
	require.True(t, ok)
	assert.Equal(t, Dimensions{2, 2, 1}, d)
}

func TestDocumentRequiresLoadedHandle(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	ob, err := Open(fakeFile(rgba4x4, false, sequence(64)))
	require.NoError(t, err)
	_, err = ob.Document(make([]byte, 64))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	withFakeDecoder(t, fakeDecoder{})
	assert.NotNil(t, DecoderFor(fakeFormat))
	assert.Nil(t, DecoderFor(FileFormat(201)))

	// re-registering replaces
	RegisterDecoder(fakeDecoder{lieAboutSize: true})
	n := 0
	for _, d := range Decoders() {
		if d.FileFormat() == fakeFormat {
			n++
		}
	}
	assert.Equal(t, 1, n)
}
