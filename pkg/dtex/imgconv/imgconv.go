// Package imgconv exposes uncompressed 8-bit texture images as image.Image
// values for export and inspection.
package imgconv

import (
	"fmt"
	"image"

	"github.com/jpfielding/dtex.go/pkg/dtex"
)

// Supported reports whether ToImage can convert textures of format.
func Supported(format dtex.PixelFormat) bool {
	switch format {
	case dtex.FormatR8, dtex.FormatRG8, dtex.FormatRGB8, dtex.FormatBGR8, dtex.FormatRGBA8, dtex.FormatBGRA8:
		return true
	}
	return false
}

// ToImage copies one layer and level of doc into a new image. R8 becomes an
// *image.Gray, every other supported format an *image.NRGBA; RG8 leaves blue
// at zero. Volume levels and compressed formats wrap dtex.ErrUnsupportedFeature.
func ToImage(doc *dtex.TextureDocument, layer, level uint32) (image.Image, error) {
	format := doc.PixelFormat()
	if !Supported(format) {
		return nil, fmt.Errorf("%w: image conversion of %v", dtex.ErrUnsupportedFeature, format)
	}
	d, ok := doc.Dimensions(level)
	if !ok {
		return nil, fmt.Errorf("level %d out of range [0, %d)", level, doc.MipLevelCount())
	}
	if d.Depth > 1 {
		return nil, fmt.Errorf("%w: image conversion of %v volume", dtex.ErrUnsupportedFeature, d)
	}
	data, ok := doc.LayerData(layer, level)
	if !ok {
		return nil, fmt.Errorf("layer %d out of range [0, %d)", layer, doc.ArrayLayerCount())
	}
	rect := image.Rect(0, 0, int(d.Width), int(d.Height))

	if format == dtex.FormatR8 {
		img := image.NewGray(rect)
		copy(img.Pix, data)
		return img, nil
	}
	img := image.NewNRGBA(rect)
	bpp := int(dtex.BlockInfoFor(format).Size)
	for i, o := 0, 0; i+bpp <= len(data); i, o = i+bpp, o+4 {
		px := data[i : i+bpp]
		out := img.Pix[o : o+4 : o+4]
		switch format {
		case dtex.FormatRG8:
			out[0], out[1], out[2], out[3] = px[0], px[1], 0, 0xFF
		case dtex.FormatRGB8:
			out[0], out[1], out[2], out[3] = px[0], px[1], px[2], 0xFF
		case dtex.FormatBGR8:
			out[0], out[1], out[2], out[3] = px[2], px[1], px[0], 0xFF
		case dtex.FormatRGBA8:
			copy(out, px)
		case dtex.FormatBGRA8:
			out[0], out[1], out[2], out[3] = px[2], px[1], px[0], px[3]
		}
	}
	return img, nil
}
