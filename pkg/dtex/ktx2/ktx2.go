// Package ktx2 decodes Khronos KTX 2.0 containers, uncompressed or with
// Zstandard supercompression.
//
// Levels are located through the level index and hold every layer and face of
// that level back to back. Decode scatters them into the layer-major dtex
// layout. Zstandard levels of single-layer textures decompress straight into
// the destination; multi-layer levels go through scratch first.
package ktx2

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jpfielding/dtex.go/pkg/dtex"
	"github.com/klauspost/compress/zstd"
)

// Identifier is the 12-byte prefix of every KTX 2 file.
var Identifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '2', '0', 0xBB, '\r', '\n', 0x1A, '\n'}

const (
	// HeaderSize covers the fixed header and the index fields before the level index.
	HeaderSize     = 80
	levelIndexSize = 24
)

// Supercompression schemes.
const (
	SchemeNone    = 0
	SchemeBasisLZ = 1
	SchemeZstd    = 2
	SchemeZLIB    = 3
)

var le = binary.LittleEndian

var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil)
})

func init() {
	dtex.RegisterDecoder(Decoder{})
}

// Decoder implements dtex.Decoder for KTX 2.
type Decoder struct{}

type level struct {
	offset, length uint64
}

type state struct {
	md     dtex.MetaData
	scheme uint32
	levels []level
}

func (Decoder) FileFormat() dtex.FileFormat { return dtex.FileFormatKTX2 }

func (Decoder) Match(src []byte) bool {
	return len(src) >= len(Identifier) && [12]byte(src[:12]) == Identifier
}

func (Decoder) ParseHeader(src []byte) (dtex.Header, error) {
	if len(src) < HeaderSize {
		return dtex.Header{}, dtex.Corrupt("header needs %d bytes, have %d", HeaderSize, len(src))
	}
	u32 := func(off int) uint32 { return le.Uint32(src[off:]) }
	var (
		vkFormat = u32(12)
		width    = u32(20)
		height   = u32(24)
		depth    = u32(28)
		layers   = u32(32)
		faces    = u32(36)
		mips     = max(u32(40), 1)
		scheme   = u32(44)
	)
	switch scheme {
	case SchemeNone, SchemeZstd:
	case SchemeBasisLZ:
		return dtex.Header{}, dtex.Unsupported("BasisLZ supercompression")
	case SchemeZLIB:
		return dtex.Header{}, dtex.Unsupported("ZLIB supercompression")
	default:
		return dtex.Header{}, dtex.Unsupported("supercompression scheme %d", scheme)
	}
	m, ok := lookupFormat(vkFormat)
	if !ok {
		return dtex.Header{}, dtex.Unsupported("vkFormat %d", vkFormat)
	}
	if faces != 1 && faces != 6 {
		return dtex.Header{}, dtex.Corrupt("%d faces", faces)
	}
	if depth > 1 && (layers > 0 || faces > 1) {
		return dtex.Header{}, dtex.Unsupported("arrays or cubes of volume textures")
	}
	md := dtex.MetaData{
		BaseDimensions: dtex.Dimensions{
			Width:  width,
			Height: max(height, 1),
			Depth:  max(depth, 1),
		},
		PixelFormat:     m.format,
		ColorSpace:      m.space,
		MipLevelCount:   mips,
		ArrayLayerCount: max(layers, 1) * faces,
		Cube:            faces == 6,
	}
	if err := md.Validate(); err != nil {
		return dtex.Header{}, err
	}
	if need := HeaderSize + int(mips)*levelIndexSize; need > len(src) {
		return dtex.Header{}, dtex.Corrupt("level index needs %d bytes, have %d", need, len(src))
	}

	st := &state{md: md, scheme: scheme, levels: make([]level, mips)}
	for i := range st.levels {
		entry := src[HeaderSize+i*levelIndexSize:]
		l := level{offset: le.Uint64(entry), length: le.Uint64(entry[8:])}
		uncompressed := le.Uint64(entry[16:])
		size, _ := dtex.MipLevelSize(md, uint32(i))
		want := uint64(size) * uint64(md.ArrayLayerCount)
		if uncompressed != want {
			return dtex.Header{}, dtex.Corrupt("level %d uncompressedByteLength %d, expected %d", i, uncompressed, want)
		}
		if scheme == SchemeNone && l.length != want {
			return dtex.Header{}, dtex.Corrupt("level %d byteLength %d, expected %d", i, l.length, want)
		}
		st.levels[i] = l
	}

	var working int
	if scheme == SchemeZstd && md.ArrayLayerCount > 1 {
		working = dtex.MaxLevelSize(md)
	}
	slog.Debug("ktx2 header", "vk_format", vkFormat, "format", m.format, "scheme", scheme)
	return dtex.Header{
		MetaData:              md,
		State:                 st,
		MemoryRequired:        dtex.TotalSize(md),
		WorkingMemoryRequired: working,
	}, nil
}

func (Decoder) Decode(s any, src, dst, scratch []byte) error {
	st := s.(*state)
	md := st.md
	stride := dtex.LayerStride(md)
	layers := int(md.ArrayLayerCount)

	for i, l := range st.levels {
		if l.offset > uint64(len(src)) || l.length > uint64(len(src))-l.offset {
			return fmt.Errorf("%w: ktx2 level %d at %d+%d exceeds %d byte file", dtex.ErrDecodeFailure, i, l.offset, l.length, len(src))
		}
		data := src[l.offset : l.offset+l.length]
		size, _ := dtex.MipLevelSize(md, uint32(i))
		offset, _ := dtex.MipOffset(md, uint32(i))

		if st.scheme == SchemeZstd {
			if layers == 1 {
				if err := inflate(data, dst[offset:offset+size]); err != nil {
					return fmt.Errorf("%w: level %d: %w", dtex.ErrDecodeFailure, i, err)
				}
				continue
			}
			out := scratch[:size*layers]
			if err := inflate(data, out); err != nil {
				return fmt.Errorf("%w: level %d: %w", dtex.ErrDecodeFailure, i, err)
			}
			data = out
		}
		for layer := 0; layer < layers; layer++ {
			copy(dst[layer*stride+offset:][:size], data[layer*size:])
		}
	}
	return nil
}

// inflate decompresses a zstd frame into exactly len(out) bytes of out.
func inflate(data, out []byte) error {
	d, err := zstdDecoder()
	if err != nil {
		return err
	}
	got, err := d.DecodeAll(data, out[:0:len(out)])
	if err != nil {
		return err
	}
	if len(got) != len(out) {
		return fmt.Errorf("inflated %d bytes, expected %d", len(got), len(out))
	}
	return nil
}
