// Package dtex loads texture container files (KTX, KTX2, DDS, PKM, ASTC) into
// caller-supplied memory.
//
// Loading is split into two phases so buffers can be sized before any pixel
// data is touched:
//
//	ob, err := dtex.Open(fileBytes)
//	if err != nil {
//		log.Fatal(err)
//	}
//	dst := make([]byte, ob.MemoryRequired())
//	scratch := make([]byte, ob.WorkingMemoryRequired())
//	if err := dtex.LoadImageData(ob, dst, scratch); err != nil {
//		log.Fatal(err)
//	}
//	doc, _ := ob.Document(dst)
//
// Neither phase allocates image memory. fileBytes must not be modified between
// Open and LoadImageData because decoders keep views into it.
//
// # Buffer layout
//
// Every decoder writes the destination in the same order, regardless of how
// the container stores it:
//
//	for each array layer (cube faces count as layers, +X -X +Y -Y +Z -Z)
//		for each mip level, largest first
//			image data, block-aligned, rows tightly packed
//
// There is no padding between levels or layers. ImageOffset computes where a
// given (layer, level) image starts. Decoders are registered by importing
// their package, or pkg/dtex/all for every supported container.
package dtex

import "fmt"

// FileFormat identifies the container a texture was read from.
type FileFormat uint8

const (
	FileFormatInvalid FileFormat = iota
	FileFormatKTX
	FileFormatKTX2
	FileFormatDDS
	FileFormatPKM
	FileFormatASTC
)

func (f FileFormat) String() string {
	switch f {
	case FileFormatKTX:
		return "KTX"
	case FileFormatKTX2:
		return "KTX2"
	case FileFormatDDS:
		return "DDS"
	case FileFormatPKM:
		return "PKM"
	case FileFormatASTC:
		return "ASTC"
	default:
		return fmt.Sprintf("FileFormat(%d)", uint8(f))
	}
}

// ColorSpace is the transfer function of the stored color channels.
type ColorSpace uint8

const (
	ColorSpaceLinear ColorSpace = iota
	ColorSpaceSRGB
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceLinear:
		return "linear"
	case ColorSpaceSRGB:
		return "sRGB"
	default:
		return fmt.Sprintf("ColorSpace(%d)", uint8(c))
	}
}

// MarshalText lets the enums serialize by name in JSON output.
func (f FileFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (c ColorSpace) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
