package dtex

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. OpenError and LoadError unwrap to one of these, so callers
// test with errors.Is and recover details with errors.As.
var (
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	ErrCorruptHeader      = errors.New("corrupt header")
	ErrUnsupportedFeature = errors.New("unsupported feature")

	ErrBufferTooSmall = errors.New("buffer too small")
	ErrDecodeFailure  = errors.New("decode failure")
)

// OpenError is returned by Open.
type OpenError struct {
	Kind   error
	Format FileFormat // FileFormatInvalid when no decoder matched
	Detail string
}

func (e *OpenError) Error() string {
	if e.Format == FileFormatInvalid {
		return fmt.Sprintf("dtex: open: %v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("dtex: open %v: %v: %s", e.Format, e.Kind, e.Detail)
}

func (e *OpenError) Unwrap() error { return e.Kind }

// LoadError is returned by LoadImageData.
type LoadError struct {
	Kind   error
	Format FileFormat
	// Buffer names the undersized buffer ("destination" or "scratch") for
	// ErrBufferTooSmall, with the required and supplied lengths.
	Buffer string
	Need   int
	Have   int
	Detail string
}

func (e *LoadError) Error() string {
	if errors.Is(e.Kind, ErrBufferTooSmall) {
		return fmt.Sprintf("dtex: load %v: %s %v: need %d bytes, have %d", e.Format, e.Buffer, e.Kind, e.Need, e.Have)
	}
	return fmt.Sprintf("dtex: load %v: %v: %s", e.Format, e.Kind, e.Detail)
}

func (e *LoadError) Unwrap() error { return e.Kind }

// classifyOpen turns a decoder error into an *OpenError. Errors that do not
// wrap an open kind are treated as header corruption.
func classifyOpen(format FileFormat, err error) *OpenError {
	var oe *OpenError
	if errors.As(err, &oe) {
		if oe.Format == FileFormatInvalid {
			oe.Format = format
		}
		return oe
	}
	kind := ErrCorruptHeader
	switch {
	case errors.Is(err, ErrUnsupportedFeature):
		kind = ErrUnsupportedFeature
	case errors.Is(err, ErrUnrecognizedFormat):
		kind = ErrUnrecognizedFormat
	}
	return &OpenError{Kind: kind, Format: format, Detail: strings.TrimPrefix(err.Error(), kind.Error()+": ")}
}

// Corrupt builds a decoder error that Open reports as ErrCorruptHeader.
func Corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptHeader, fmt.Sprintf(format, args...))
}

// Unsupported builds a decoder error that Open reports as ErrUnsupportedFeature.
func Unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFeature, fmt.Sprintf(format, args...))
}

// Truncated builds a decoder error for source data that ends early.
func Truncated(what string, need, have int) error {
	return fmt.Errorf("%w: %s truncated: need %d bytes, have %d", ErrDecodeFailure, what, need, have)
}
