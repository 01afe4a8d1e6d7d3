package dtex

import "fmt"

// TextureDocument is a decoded texture: its MetaData plus one contiguous
// buffer whose length is TotalSize(MetaData). Accessors never modify or
// allocate; range-checked ones report false instead of clamping.
type TextureDocument struct {
	metaData MetaData
	data     []byte
}

// LoadDocument opens src and loads it into freshly allocated memory sized
// exactly as the header requires.
func LoadDocument(src []byte) (*TextureDocument, error) {
	ob, err := Open(src)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, ob.MemoryRequired())
	var scratch []byte
	if n := ob.WorkingMemoryRequired(); n > 0 {
		scratch = make([]byte, n)
	}
	if err := LoadImageData(ob, dst, scratch); err != nil {
		return nil, err
	}
	return ob.Document(dst)
}

// Document wraps a destination buffer previously filled by LoadImageData.
// The document keeps a view of dst, truncated to MemoryRequired; it does not
// copy.
func (ob *OpenBuffer) Document(dst []byte) (*TextureDocument, error) {
	if s := ob.State(); s != StateLoaded {
		return nil, fmt.Errorf("dtex: document from %v handle", s)
	}
	if len(dst) < ob.memoryRequired {
		return nil, &LoadError{Kind: ErrBufferTooSmall, Format: ob.metaData.SourceFileFormat,
			Buffer: "destination", Need: ob.memoryRequired, Have: len(dst)}
	}
	return &TextureDocument{
		metaData: ob.metaData,
		data:     dst[:ob.memoryRequired:ob.memoryRequired],
	}, nil
}

func (t *TextureDocument) MetaData() MetaData { return t.metaData }

func (t *TextureDocument) SourceFileFormat() FileFormat { return t.metaData.SourceFileFormat }

func (t *TextureDocument) BaseDimensions() Dimensions { return t.metaData.BaseDimensions }

// Dimensions returns the extent of mipLevel.
func (t *TextureDocument) Dimensions(mipLevel uint32) (Dimensions, bool) {
	if mipLevel >= t.metaData.MipLevelCount {
		return Dimensions{}, false
	}
	return MipDimensions(t.metaData.BaseDimensions, mipLevel), true
}

func (t *TextureDocument) PixelFormat() PixelFormat { return t.metaData.PixelFormat }

func (t *TextureDocument) IsCompressed() bool { return IsCompressed(t.metaData.PixelFormat) }

func (t *TextureDocument) ColorSpace() ColorSpace { return t.metaData.ColorSpace }

func (t *TextureDocument) TextureType() TextureType { return t.metaData.TextureType() }

// TotalSizeRequired is the byte size of every level of every layer. It equals
// len(Bytes()).
func (t *TextureDocument) TotalSizeRequired() int { return len(t.data) }

func (t *TextureDocument) MipLevelCount() uint32 { return t.metaData.MipLevelCount }

func (t *TextureDocument) ArrayLayerCount() uint32 { return t.metaData.ArrayLayerCount }

// MipLevelOffset is the offset of mipLevel within the first layer, which is
// also its offset from the start of the buffer.
func (t *TextureDocument) MipLevelOffset(mipLevel uint32) (int, bool) {
	return MipOffset(t.metaData, mipLevel)
}

// MipLevelSize is the byte size of one layer's image at mipLevel.
func (t *TextureDocument) MipLevelSize(mipLevel uint32) (int, bool) {
	return MipLevelSize(t.metaData, mipLevel)
}

// Data returns the first layer's image at mipLevel.
func (t *TextureDocument) Data(mipLevel uint32) ([]byte, bool) {
	return t.LayerData(0, mipLevel)
}

// LayerData returns the image of layer at mipLevel. The slice aliases the
// document buffer and must not be written.
func (t *TextureDocument) LayerData(layer, mipLevel uint32) ([]byte, bool) {
	offset, ok := ImageOffset(t.metaData, layer, mipLevel)
	if !ok {
		return nil, false
	}
	size, _ := MipLevelSize(t.metaData, mipLevel)
	return t.data[offset : offset+size : offset+size], true
}

// Bytes returns the whole packed buffer. It must not be written.
func (t *TextureDocument) Bytes() []byte { return t.data }
