// Package engine exposes the font API as status-code calls.
//
// Every call returns an int status: 0 on success, otherwise one of the
// ggfont.Status failure codes. Results are written through out
// parameters only on success.
package engine

import (
	"io/fs"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggfont"
	"github.com/gogpu/ggfont/gfx"
	"github.com/gogpu/ggfont/registry"
	"github.com/gogpu/ggfont/text"
)

// Font is an opaque font handle.
type Font uint32

// Engine is the status-code front of a text.Service.
type Engine struct {
	text *text.Service
}

// New creates an engine loading fonts from fsys and drawing on dev.
func New(fsys fs.FS, dev gfx.Device, opts ...text.Option) *Engine {
	return &Engine{text: text.NewService(fsys, dev, opts...)}
}

// Text returns the underlying service.
func (e *Engine) Text() *text.Service { return e.text }

func status(err error) int {
	return int(ggfont.StatusOf(err))
}

// LoadFont loads the font at path at size pixels and stores its handle
// in out.
func (e *Engine) LoadFont(path string, size float32, out *Font) int {
	h, err := e.text.LoadFont(path, size)
	if err != nil {
		return status(err)
	}
	if out != nil {
		*out = Font(h)
	}
	return 0
}

// CleanupFont releases font. Unknown handles are a successful no-op.
func (e *Engine) CleanupFont(font Font) int {
	e.text.CleanupFont(registry.Handle(font))
	return 0
}

// SetFont binds font for subsequent draw and measure calls.
func (e *Engine) SetFont(font Font) int {
	return status(e.text.BindFont(registry.Handle(font)))
}

// DrawText draws s with its top-left corner at (x, y).
func (e *Engine) DrawText(s string, x, y int) int {
	return status(e.text.DrawText(s, float32(x), float32(y)))
}

// GetTextWidth stores the width of s in out.
func (e *Engine) GetTextWidth(s string, out *int) int {
	w, err := e.text.MeasureWidth(s)
	if err != nil {
		return status(err)
	}
	if out != nil {
		*out = w
	}
	return 0
}

// GetTextHeight stores the line height of the bound font in out.
func (e *Engine) GetTextHeight(s string, out *int) int {
	h, err := e.text.MeasureHeight(s)
	if err != nil {
		return status(err)
	}
	if out != nil {
		*out = h
	}
	return 0
}

// SetBlendMode sets the blend mode of glyph batches.
func (e *Engine) SetBlendMode(mode gfx.BlendMode) int {
	e.text.SetBlendMode(mode)
	return 0
}

// SetFilterMode sets the filter of atlas textures created from now on.
func (e *Engine) SetFilterMode(mode gputypes.FilterMode) int {
	e.text.SetFilterMode(mode)
	return 0
}

// Close releases every loaded font.
func (e *Engine) Close() {
	e.text.Close()
}
