package ggfont

import "errors"

// Sentinel errors shared by the ggfont packages.
var (
	// ErrIO is returned when a font file cannot be opened or fully read.
	ErrIO = errors.New("ggfont: i/o error")

	// ErrNotFound is returned when a handle does not name a live resource.
	// Stale and foreign handles are expected; callers should not treat
	// this as a fault.
	ErrNotFound = errors.New("ggfont: handle not found")

	// ErrNoFontBound is returned by draw and measure calls made before a
	// font is bound, or after the bound font was cleaned up.
	ErrNoFontBound = errors.New("ggfont: no font bound")

	// ErrInvalidFace is returned when the bound font's data could not be
	// registered as a face by the rasterizer.
	ErrInvalidFace = errors.New("ggfont: invalid font face")

	// ErrAtlasAllocation is returned when the GPU texture or mirror buffer
	// backing a glyph atlas cannot be created. It is not retried.
	ErrAtlasAllocation = errors.New("ggfont: atlas allocation failed")
)

// LoadError records a failed font load and the path that caused it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return "ggfont: load " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Status is the integer result code returned across the engine API
// boundary. Zero is success; every failure kind has its own value.
type Status int

// Status codes.
const (
	StatusOK              Status = 0
	StatusIOError         Status = 1
	StatusNotFound        Status = -1
	StatusNoFontBound     Status = -2
	StatusInvalidFace     Status = -3
	StatusAtlasAllocation Status = -4
	StatusUnknown         Status = -99
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusIOError:
		return "IOError"
	case StatusNotFound:
		return "NotFound"
	case StatusNoFontBound:
		return "NoFontBound"
	case StatusInvalidFace:
		return "InvalidFace"
	case StatusAtlasAllocation:
		return "AtlasAllocationFailure"
	default:
		return "Unknown"
	}
}

// StatusOf maps an error returned by a ggfont package to its status code.
// A nil error maps to StatusOK.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrIO):
		return StatusIOError
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrNoFontBound):
		return StatusNoFontBound
	case errors.Is(err, ErrInvalidFace):
		return StatusInvalidFace
	case errors.Is(err, ErrAtlasAllocation):
		return StatusAtlasAllocation
	default:
		return StatusUnknown
	}
}
