// Package dds decodes DirectDraw Surface containers, with or without the DX10
// extension header.
//
// DDS stores every array element (or cube face) with its full mip chain before
// the next one, which is already the dtex destination layout, so decoding is
// a single bounds-checked copy.
package dds

import (
	"encoding/binary"
	"log/slog"

	"github.com/jpfielding/dtex.go/pkg/dtex"
)

// Magic is the four byte prefix of every DDS file.
const Magic = "DDS "

const (
	headerSize     = 124
	pixelFormatOff = 4 + 72
	dataOffset     = 4 + headerSize
	dx10Size       = 20
)

// DDS_HEADER.dwFlags
const (
	flagMipMapCount = 0x20000
	flagDepth       = 0x800000
)

// DDS_HEADER.dwCaps2
const (
	caps2Cubemap  = 0x200
	caps2AllFaces = 0xFC00
	caps2Volume   = 0x200000
)

// DX10 extension values
const (
	dimensionTexture1D = 2
	dimensionTexture2D = 3
	dimensionTexture3D = 4
	miscTextureCube    = 0x4
)

func init() {
	dtex.RegisterDecoder(Decoder{})
}

// Decoder implements dtex.Decoder for DDS.
type Decoder struct{}

type state struct {
	offset int
}

func (Decoder) FileFormat() dtex.FileFormat { return dtex.FileFormatDDS }

func (Decoder) Match(src []byte) bool {
	return len(src) >= 4 && string(src[:4]) == Magic
}

func (Decoder) ParseHeader(src []byte) (dtex.Header, error) {
	if len(src) < dataOffset {
		return dtex.Header{}, dtex.Corrupt("header needs %d bytes, have %d", dataOffset, len(src))
	}
	le := binary.LittleEndian
	u32 := func(off int) uint32 { return le.Uint32(src[off:]) }
	if size := u32(4); size != headerSize {
		return dtex.Header{}, dtex.Corrupt("header size %d", size)
	}
	flags := u32(8)
	md := dtex.MetaData{
		BaseDimensions: dtex.Dimensions{
			Width:  u32(16),
			Height: u32(12),
			Depth:  1,
		},
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	}
	if flags&flagMipMapCount != 0 && u32(28) > 0 {
		md.MipLevelCount = u32(28)
	}
	caps2 := u32(112)
	if flags&flagDepth != 0 || caps2&caps2Volume != 0 {
		md.BaseDimensions.Depth = max(1, u32(24))
	}

	pfFlags := u32(pixelFormatOff + 4)
	code := u32(pixelFormatOff + 8)
	offset := dataOffset

	if pfFlags&pfFourCC != 0 && code == fourCC("DX10") {
		if len(src) < dataOffset+dx10Size {
			return dtex.Header{}, dtex.Corrupt("DX10 header truncated")
		}
		offset += dx10Size
		dxgi := u32(dataOffset)
		m, ok := dxgiFormats[dxgi]
		if !ok {
			return dtex.Header{}, dtex.Unsupported("DXGI format %d", dxgi)
		}
		md.PixelFormat, md.ColorSpace = m.format, m.space
		arraySize := u32(dataOffset + 12)
		if arraySize == 0 {
			return dtex.Header{}, dtex.Corrupt("DX10 array size is zero")
		}
		md.ArrayLayerCount = arraySize
		switch dim := u32(dataOffset + 4); dim {
		case dimensionTexture1D:
			md.BaseDimensions.Height, md.BaseDimensions.Depth = 1, 1
		case dimensionTexture2D:
			md.BaseDimensions.Depth = 1
			if u32(dataOffset+8)&miscTextureCube != 0 {
				md.Cube = true
				md.ArrayLayerCount = arraySize * 6
			}
		case dimensionTexture3D:
			if arraySize != 1 {
				return dtex.Header{}, dtex.Unsupported("volume texture array of %d", arraySize)
			}
			md.BaseDimensions.Depth = max(1, u32(24))
		default:
			return dtex.Header{}, dtex.Corrupt("resource dimension %d", dim)
		}
	} else {
		f, err := legacyFormat(pfFlags, code, u32(pixelFormatOff+12),
			u32(pixelFormatOff+16), u32(pixelFormatOff+20), u32(pixelFormatOff+24), u32(pixelFormatOff+28))
		if err != nil {
			return dtex.Header{}, err
		}
		md.PixelFormat = f
		if caps2&caps2Cubemap != 0 {
			if caps2&caps2AllFaces != caps2AllFaces {
				return dtex.Header{}, dtex.Unsupported("partial cube map, faces 0x%x", caps2&caps2AllFaces)
			}
			md.Cube = true
			md.ArrayLayerCount = 6
			md.BaseDimensions.Depth = 1
		}
		slog.Debug("dds legacy pixel format", "fourcc", fourCCString(code), "flags", pfFlags, "format", f)
	}

	if err := md.Validate(); err != nil {
		return dtex.Header{}, err
	}
	return dtex.Header{
		MetaData:       md,
		State:          state{offset: offset},
		MemoryRequired: dtex.TotalSize(md),
	}, nil
}

func (Decoder) Decode(s any, src, dst, _ []byte) error {
	off := s.(state).offset
	if end := off + len(dst); end > len(src) {
		return dtex.Truncated("dds image data", end-off, max(0, len(src)-off))
	}
	copy(dst, src[off:])
	return nil
}
