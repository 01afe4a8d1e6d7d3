package dtex

import (
	"slices"
	"sync"
)

// Header is what a Decoder learns from a container header.
type Header struct {
	MetaData MetaData
	// State is decoder-private. It may hold sub-slices of the source bytes.
	State any
	// MemoryRequired must equal TotalSize(MetaData).
	MemoryRequired int
	// WorkingMemoryRequired is the scratch the decoder needs in Decode, 0 when
	// it writes straight into the destination.
	WorkingMemoryRequired int
}

// Decoder parses and decodes one container format.
//
// Decode writes exactly MemoryRequired bytes of dst in the layout documented
// on the package and must not allocate image memory. dst and scratch are
// already checked against the Header sizes.
type Decoder interface {
	FileFormat() FileFormat
	// Match reports whether src starts with the container's signature.
	Match(src []byte) bool
	ParseHeader(src []byte) (Header, error)
	Decode(state any, src, dst, scratch []byte) error
}

var (
	registryMu sync.RWMutex
	registry   []Decoder
)

// RegisterDecoder makes d available to Open. A later registration for the
// same FileFormat replaces the earlier one.
func RegisterDecoder(d Decoder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for i, r := range registry {
		if r.FileFormat() == d.FileFormat() {
			registry[i] = d
			return
		}
	}
	registry = append(registry, d)
}

// DecoderFor returns the registered decoder for format, or nil.
func DecoderFor(format FileFormat) Decoder {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, d := range registry {
		if d.FileFormat() == format {
			return d
		}
	}
	return nil
}

// Decoders returns the registered decoders in registration order.
func Decoders() []Decoder {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Clone(registry)
}

func match(src []byte) Decoder {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, d := range registry {
		if d.Match(src) {
			return d
		}
	}
	return nil
}
