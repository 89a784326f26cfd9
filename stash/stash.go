// Package stash is an incremental glyph rasterizer in the fontstash mould.
//
// A Context shapes UTF-8 text, rasterizes the glyphs it has not seen yet
// into a single-channel coverage atlas and batches one quad per visible
// glyph. It never talks to a GPU: every atlas lifecycle event and every
// batch is handed to the AtlasSink supplied at construction.
package stash

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/vector"

	"github.com/gogpu/ggfont"
	"github.com/gogpu/ggfont/pixbuf"
)

// DefaultMaxAtlasSize is the largest atlas edge the context grows to.
const DefaultMaxAtlasSize = 4096

// vertexCapacity is the size of the pending vertex batch. It holds a whole
// number of 3-vertex runs.
const vertexCapacity = 1023

// Flags select the coordinate system of emitted geometry.
type Flags uint8

const (
	// ZeroTopLeft puts the origin at the top-left with Y growing down.
	ZeroTopLeft Flags = 1 << iota
	// ZeroBottomLeft puts the origin at the bottom-left with Y growing up.
	ZeroBottomLeft
)

// Align controls how DrawText positions text relative to (x, y).
type Align int

// Horizontal and vertical alignment bits. Combine one of each.
const (
	AlignLeft     Align = 1 << 0
	AlignCenter   Align = 1 << 1
	AlignRight    Align = 1 << 2
	AlignTop      Align = 1 << 3
	AlignMiddle   Align = 1 << 4
	AlignBottom   Align = 1 << 5
	AlignBaseline Align = 1 << 6
)

// Errors returned by New and the atlas controls.
var (
	ErrInvalidParams = errors.New("stash: invalid parameters")
	ErrNoSink        = errors.New("stash: nil atlas sink")
)

// AtlasSink receives atlas lifecycle events and glyph batches.
//
// Update passes the coverage of the whole atlas, one byte per texel, and the
// rectangle that changed since the previous Update. Draw receives nverts
// vertices in runs of three: top-left, top-right and bottom-right corners of
// one glyph quad. Texture coordinates are normalized to the atlas size.
type AtlasSink interface {
	Create(width, height int) error
	Delete()
	Resize(width, height int) error
	Update(rect image.Rectangle, coverage []byte)
	Draw(verts, tcoords []float32, colors []uint32, nverts int)
}

// Params configures a Context.
type Params struct {
	Width, Height int
	Flags         Flags
	Sink          AtlasSink
	// MaxAtlasSize bounds atlas growth. Zero means DefaultMaxAtlasSize.
	MaxAtlasSize int
}

type state struct {
	font    int
	size    float32
	blur    float32
	align   Align
	color   uint32
	spacing float32
}

// Context is a fontstash-style rasterizer bound to one AtlasSink.
// A Context is not safe for concurrent use.
type Context struct {
	params  Params
	fonts   []*stashFont
	state   state
	shaper  shaping.HarfbuzzShaper
	raster  *vector.Rasterizer
	packer  *shelfPacker
	texData *pixbuf.Coverage
	dirty   image.Rectangle
	err     error

	verts   []float32
	tcoords []float32
	colors  []uint32
	nverts  int
}

// New creates a context and asks the sink for the initial atlas.
func New(params Params) (*Context, error) {
	if params.Sink == nil {
		return nil, ErrNoSink
	}
	if params.Width <= 0 || params.Height <= 0 {
		return nil, fmt.Errorf("%w: atlas %dx%d", ErrInvalidParams, params.Width, params.Height)
	}
	if params.Flags == 0 {
		params.Flags = ZeroTopLeft
	}
	if params.MaxAtlasSize <= 0 {
		params.MaxAtlasSize = DefaultMaxAtlasSize
	}
	params.MaxAtlasSize = max(params.MaxAtlasSize, params.Width, params.Height)

	if err := params.Sink.Create(params.Width, params.Height); err != nil {
		return nil, fmt.Errorf("stash: create atlas: %w", err)
	}

	c := &Context{
		params:  params,
		raster:  vector.NewRasterizer(0, 0),
		packer:  newShelfPacker(params.Width, params.Height),
		texData: pixbuf.NewCoverage(params.Width, params.Height),
		verts:   make([]float32, vertexCapacity*2),
		tcoords: make([]float32, vertexCapacity*2),
		colors:  make([]uint32, vertexCapacity),
	}
	c.ClearState()
	return c, nil
}

// Delete releases the fonts and tells the sink to free the atlas.
func (c *Context) Delete() {
	if c == nil || c.params.Sink == nil {
		return
	}
	c.params.Sink.Delete()
	c.params.Sink = nil
	c.fonts = nil
}

// AddFontMem registers a face from data. data is not copied and must stay
// alive as long as the context. On failure InvalidFont is returned.
func (c *Context) AddFontMem(name string, data []byte) (int, error) {
	f, err := parseFont(name, data)
	if err != nil {
		ggfont.Logger().Warn("stash: font rejected", "name", name, "err", err)
		return InvalidFont, err
	}
	c.fonts = append(c.fonts, f)
	return len(c.fonts) - 1, nil
}

// FontCount returns the number of registered faces.
func (c *Context) FontCount() int { return len(c.fonts) }

// ClearState resets font, size, blur, alignment, color and spacing.
func (c *Context) ClearState() {
	c.state = state{
		font:  0,
		size:  12,
		align: AlignLeft | AlignBaseline,
		color: 0xffffffff,
	}
}

// SetFont selects the face used by subsequent calls.
func (c *Context) SetFont(font int) { c.state.font = font }

// SetSize sets the font size in pixels.
func (c *Context) SetSize(size float32) { c.state.size = size }

// SetBlur sets the blur radius in pixels.
func (c *Context) SetBlur(blur float32) { c.state.blur = blur }

// SetAlign sets the text alignment.
func (c *Context) SetAlign(align Align) { c.state.align = align }

// SetColor sets the RGBA color attached to emitted vertices.
func (c *Context) SetColor(color uint32) { c.state.color = color }

// SetSpacing sets extra advance added after every glyph.
func (c *Context) SetSpacing(spacing float32) { c.state.spacing = spacing }

// VertMetrics returns the ascender, descender and line height of the
// current face at the current size. All zero when no valid face is set.
func (c *Context) VertMetrics() (ascender, descender, lineHeight float32) {
	f := c.currentFont()
	if f == nil {
		return 0, 0, 0
	}
	return f.vertMetrics(c.state.size)
}

// AtlasSize returns the current atlas dimensions.
func (c *Context) AtlasSize() (width, height int) {
	return c.texData.Width, c.texData.Height
}

// Coverage returns the atlas coverage bitmap. It is replaced on resize.
func (c *Context) Coverage() *pixbuf.Coverage { return c.texData }

func (c *Context) currentFont() *stashFont {
	if c.state.font < 0 || c.state.font >= len(c.fonts) {
		return nil
	}
	return c.fonts[c.state.font]
}

func (c *Context) blurRadius() int {
	return min(int(c.state.blur), maxBlur)
}
