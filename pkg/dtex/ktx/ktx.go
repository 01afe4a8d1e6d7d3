// Package ktx decodes Khronos KTX 1.1 containers.
//
// KTX 1 stores textures level by level, each level holding every array
// element and cube face. Decode scatters those images into the layer-major
// dtex layout, drops the 4-byte row alignment of uncompressed rows and the
// cube and mip padding, and byte-swaps big-endian texel data.
package ktx

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/bits"

	"github.com/jpfielding/dtex.go/pkg/dtex"
)

// Identifier is the 12-byte prefix of every KTX 1 file.
var Identifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '1', '1', 0xBB, '\r', '\n', 0x1A, '\n'}

// HeaderSize is the fixed part of the header, before key/value data.
const HeaderSize = 64

const endianReference = 0x04030201

func init() {
	dtex.RegisterDecoder(Decoder{})
}

// Decoder implements dtex.Decoder for KTX 1.
type Decoder struct{}

type state struct {
	md         dtex.MetaData
	order      binary.ByteOrder
	typeSize   uint32
	dataOffset int
	// nonArrayCube levels store imageSize per face and pad every face
	nonArrayCube bool
}

func (Decoder) FileFormat() dtex.FileFormat { return dtex.FileFormatKTX }

func (Decoder) Match(src []byte) bool {
	return len(src) >= len(Identifier) && [12]byte(src[:12]) == Identifier
}

func (Decoder) ParseHeader(src []byte) (dtex.Header, error) {
	if len(src) < HeaderSize {
		return dtex.Header{}, dtex.Corrupt("header needs %d bytes, have %d", HeaderSize, len(src))
	}
	var order binary.ByteOrder
	switch e := binary.LittleEndian.Uint32(src[12:]); e {
	case endianReference:
		order = binary.LittleEndian
	case bits.ReverseBytes32(endianReference):
		order = binary.BigEndian
	default:
		return dtex.Header{}, dtex.Corrupt("endianness marker 0x%08x", e)
	}
	u32 := func(off int) uint32 { return order.Uint32(src[off:]) }
	var (
		glType     = u32(16)
		typeSize   = u32(20)
		glFormat   = u32(24)
		internal   = u32(28)
		width      = u32(36)
		height     = u32(40)
		depth      = u32(44)
		elements   = u32(48)
		faces      = u32(52)
		mips       = u32(56)
		kvBytes    = u32(60)
		dataOffset = HeaderSize + int(kvBytes)
	)
	if dataOffset > len(src) || dataOffset < HeaderSize {
		return dtex.Header{}, dtex.Corrupt("key/value data of %d bytes exceeds file", kvBytes)
	}
	m, ok := lookupFormat(glType, glFormat, internal)
	if !ok {
		return dtex.Header{}, dtex.Unsupported("glInternalFormat 0x%04x (glType 0x%04x, glFormat 0x%04x)", internal, glType, glFormat)
	}
	if dtex.IsCompressed(m.format) && (glType != 0 || glFormat != 0) {
		return dtex.Header{}, dtex.Corrupt("compressed format with glType 0x%04x glFormat 0x%04x", glType, glFormat)
	}
	switch typeSize {
	case 1, 2, 4:
	default:
		return dtex.Header{}, dtex.Corrupt("glTypeSize %d", typeSize)
	}
	if faces != 1 && faces != 6 {
		return dtex.Header{}, dtex.Corrupt("%d faces", faces)
	}
	if depth > 1 && (elements > 0 || faces > 1) {
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
		MipLevelCount:   max(mips, 1),
		ArrayLayerCount: max(elements, 1) * faces,
		Cube:            faces == 6,
	}
	if err := md.Validate(); err != nil {
		return dtex.Header{}, err
	}
	slog.Debug("ktx header", "internal_format", internal, "format", m.format, "big_endian", order == binary.BigEndian)
	return dtex.Header{
		MetaData: md,
		State: &state{
			md:           md,
			order:        order,
			typeSize:     typeSize,
			dataOffset:   dataOffset,
			nonArrayCube: faces == 6 && elements == 0,
		},
		MemoryRequired: dtex.TotalSize(md),
	}, nil
}

func (Decoder) Decode(s any, src, dst, _ []byte) error {
	st := s.(*state)
	md := st.md
	blockInfo := dtex.BlockInfoFor(md.PixelFormat)
	compressed := dtex.IsCompressed(md.PixelFormat)
	stride := dtex.LayerStride(md)
	layers := int(md.ArrayLayerCount)
	pos := st.dataOffset

	for level := uint32(0); level < md.MipLevelCount; level++ {
		if pos+4 > len(src) {
			return dtex.Truncated("ktx imageSize", 4, len(src)-pos)
		}
		imageSize := int(st.order.Uint32(src[pos:]))
		pos += 4

		d := dtex.MipDimensions(md.BaseDimensions, level)
		dstSize, _ := dtex.MipLevelSize(md, level)
		levelOffset, _ := dtex.MipOffset(md, level)

		// source images of uncompressed formats pad rows to 4 bytes
		rowBytes := int(d.Width) * int(blockInfo.Size)
		srcPitch, rows := rowBytes, int(d.Height)*int(d.Depth)
		srcSize := dstSize
		if !compressed {
			srcPitch = align4(rowBytes)
			srcSize = srcPitch * rows
		}

		want := srcSize * layers
		if st.nonArrayCube {
			want = srcSize
		}
		if imageSize != want {
			return fmt.Errorf("%w: level %d imageSize %d, expected %d", dtex.ErrDecodeFailure, level, imageSize, want)
		}

		for layer := 0; layer < layers; layer++ {
			if pos+srcSize > len(src) {
				return dtex.Truncated(fmt.Sprintf("ktx level %d layer %d", level, layer), srcSize, len(src)-pos)
			}
			out := dst[layer*stride+levelOffset:][:dstSize]
			if srcPitch == rowBytes {
				copy(out, src[pos:pos+srcSize])
			} else {
				for r := 0; r < rows; r++ {
					copy(out[r*rowBytes:(r+1)*rowBytes], src[pos+r*srcPitch:])
				}
			}
			if st.order == binary.BigEndian {
				swapTexels(out, st.typeSize)
			}
			pos += srcSize
			if st.nonArrayCube {
				pos = align4(pos)
			}
		}
		pos = align4(pos)
	}
	return nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}

// swapTexels converts big-endian GL data of typeSize-byte components to
// little-endian in place.
func swapTexels(b []byte, typeSize uint32) {
	switch typeSize {
	case 2:
		for i := 0; i+1 < len(b); i += 2 {
			b[i], b[i+1] = b[i+1], b[i]
		}
	case 4:
		for i := 0; i+3 < len(b); i += 4 {
			b[i], b[i+1], b[i+2], b[i+3] = b[i+3], b[i+2], b[i+1], b[i]
		}
	}
}
