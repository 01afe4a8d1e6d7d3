package dtex

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// LoadState is the position of an OpenBuffer in the open/load protocol.
// StateLoaded and StateFailed are terminal. A Loaded handle may be loaded
// again into another buffer; a failed reload returns its error and leaves the
// handle Loaded, so Document still accepts the earlier destination.
type LoadState int32

const (
	StateOpened LoadState = iota
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateOpened:
		return "opened"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int32(s))
	}
}

// OpenBuffer is a parsed texture header, ready to be loaded. It holds sizing
// information and a view of the source bytes, never decoded pixels.
type OpenBuffer struct {
	metaData              MetaData
	memoryRequired        int
	workingMemoryRequired int

	decoder Decoder
	state   any
	src     []byte

	loadState atomic.Int32
}

// MetaData returns the parsed texture description.
func (ob *OpenBuffer) MetaData() MetaData { return ob.metaData }

// MemoryRequired is the minimum destination length for LoadImageData.
func (ob *OpenBuffer) MemoryRequired() int { return ob.memoryRequired }

// WorkingMemoryRequired is the minimum scratch length for LoadImageData.
func (ob *OpenBuffer) WorkingMemoryRequired() int { return ob.workingMemoryRequired }

// State returns where the handle is in the open/load protocol.
func (ob *OpenBuffer) State() LoadState { return LoadState(ob.loadState.Load()) }

// Open parses the header of the texture container in src. It dispatches on
// the file signature, validates the header and computes buffer sizes. Pixel
// data is neither read nor copied; src must stay unmodified until
// LoadImageData returns.
func Open(src []byte) (*OpenBuffer, error) {
	d := match(src)
	if d == nil {
		return nil, &OpenError{Kind: ErrUnrecognizedFormat, Detail: describeSignature(src)}
	}
	format := d.FileFormat()
	h, err := d.ParseHeader(src)
	if err != nil {
		return nil, classifyOpen(format, err)
	}
	md := h.MetaData
	md.SourceFileFormat = format
	if err := md.Validate(); err != nil {
		return nil, classifyOpen(format, err)
	}
	if total := TotalSize(md); h.MemoryRequired != total {
		return nil, &OpenError{Kind: ErrCorruptHeader, Format: format,
			Detail: fmt.Sprintf("decoder reports %d bytes, layout needs %d", h.MemoryRequired, total)}
	}
	if h.WorkingMemoryRequired < 0 {
		return nil, &OpenError{Kind: ErrCorruptHeader, Format: format,
			Detail: fmt.Sprintf("negative working memory %d", h.WorkingMemoryRequired)}
	}
	slog.Debug("opened texture",
		"format", format,
		"dimensions", md.BaseDimensions,
		"pixel_format", md.PixelFormat,
		"mips", md.MipLevelCount,
		"layers", md.ArrayLayerCount,
		"memory", h.MemoryRequired,
		"working_memory", h.WorkingMemoryRequired)
	return &OpenBuffer{
		metaData:              md,
		memoryRequired:        h.MemoryRequired,
		workingMemoryRequired: h.WorkingMemoryRequired,
		decoder:               d,
		state:                 h.State,
		src:                   src,
	}, nil
}

// LoadImageData decodes the image data of ob into dst, using scratch as
// transient working memory. dst must hold at least MemoryRequired bytes and
// scratch at least WorkingMemoryRequired bytes (nil is fine when that is 0);
// otherwise ErrBufferTooSmall is returned before anything is written.
//
// On success the first MemoryRequired bytes of dst hold every layer and level
// in the package layout. Scratch contents afterwards are unspecified. Any
// failure of a handle that never loaded moves it to StateFailed; reopen the
// source to retry.
func LoadImageData(ob *OpenBuffer, dst, scratch []byte) error {
	format := ob.metaData.SourceFileFormat
	if ob.State() == StateFailed {
		return &LoadError{Kind: ErrDecodeFailure, Format: format, Detail: "handle failed earlier, reopen the source"}
	}
	if len(dst) < ob.memoryRequired {
		ob.fail()
		return &LoadError{Kind: ErrBufferTooSmall, Format: format, Buffer: "destination", Need: ob.memoryRequired, Have: len(dst)}
	}
	if len(scratch) < ob.workingMemoryRequired {
		ob.fail()
		return &LoadError{Kind: ErrBufferTooSmall, Format: format, Buffer: "scratch", Need: ob.workingMemoryRequired, Have: len(scratch)}
	}
	err := ob.decoder.Decode(ob.state, ob.src, dst[:ob.memoryRequired:ob.memoryRequired], scratch[:ob.workingMemoryRequired])
	if err != nil {
		ob.fail()
		var le *LoadError
		if errors.As(err, &le) {
			return le
		}
		return &LoadError{Kind: ErrDecodeFailure, Format: format, Detail: strings.TrimPrefix(err.Error(), ErrDecodeFailure.Error()+": ")}
	}
	ob.loadState.CompareAndSwap(int32(StateOpened), int32(StateLoaded))
	return nil
}

func (ob *OpenBuffer) fail() {
	ob.loadState.CompareAndSwap(int32(StateOpened), int32(StateFailed))
}

func describeSignature(src []byte) string {
	n := min(len(src), 12)
	if n == 0 {
		return "empty input"
	}
	return fmt.Sprintf("no decoder matches signature % x", src[:n])
}
