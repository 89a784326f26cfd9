// Package atlas connects a stash.Context to a GPU texture.
//
// A Bridge is the stash.AtlasSink of one font. It owns the atlas texture
// and an RGBA mirror of it: coverage updates from the rasterizer are
// expanded into the mirror and uploaded, and glyph batches are turned into
// textured-rect draws on a gfx.Device.
package atlas

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ggfont"
	"github.com/gogpu/ggfont/gfx"
	"github.com/gogpu/ggfont/pixbuf"
	"github.com/gogpu/ggfont/stash"
)

// State is the lifecycle state of a Bridge.
type State uint8

const (
	// Uninitialized means Create has not been called yet.
	Uninitialized State = iota
	// Active means the bridge holds a texture and a mirror.
	Active
	// Destroyed means Delete released the texture.
	Destroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithRegionUpload uploads only the changed rectangle when the texture
// implements gpucontext.TextureRegionUpdater. Without it every update
// re-uploads the whole mirror.
func WithRegionUpload() Option {
	return func(b *Bridge) {
		b.regionUpload = true
	}
}

// Bridge implements stash.AtlasSink on top of a gfx.Device.
//
// Bridge is NOT safe for concurrent use.
type Bridge struct {
	dev          gfx.Device
	render       *gfx.RenderState
	regionUpload bool

	state   State
	tex     gfx.Texture
	mirror  *pixbuf.RGBA
	width   int
	height  int
	resizes int
	uploads int
}

var _ stash.AtlasSink = (*Bridge)(nil)

// New creates a bridge drawing on dev. render is shared with the caller
// and read on every Create and Draw; nil means gfx.DefaultRenderState.
func New(dev gfx.Device, render *gfx.RenderState, opts ...Option) *Bridge {
	if render == nil {
		render = gfx.DefaultRenderState()
	}
	b := &Bridge{dev: dev, render: render}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create allocates a width×height texture and a zeroed mirror.
// On failure the bridge holds no texture and the error wraps
// ggfont.ErrAtlasAllocation.
func (b *Bridge) Create(width, height int) error {
	if b.tex != nil {
		b.release()
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("atlas: create %dx%d: %w", width, height, ggfont.ErrAtlasAllocation)
	}
	tex, err := b.dev.CreateTexture(gfx.AtlasTextureDescriptor(width, height), b.render.Filter)
	if err != nil {
		return fmt.Errorf("atlas: create %dx%d: %w: %w", width, height, ggfont.ErrAtlasAllocation, err)
	}

	b.tex = tex
	b.mirror = pixbuf.NewRGBA(width, height)
	b.width, b.height = width, height
	b.state = Active
	ggfont.Logger().Debug("atlas: created", "width", width, "height", height, "filter", b.render.Filter)
	return nil
}

// Delete destroys the texture and frees the mirror. It is idempotent.
func (b *Bridge) Delete() {
	b.release()
	b.state = Destroyed
}

func (b *Bridge) release() {
	if b.tex != nil {
		b.dev.DestroyTexture(b.tex)
	}
	b.tex = nil
	b.mirror = nil
	b.width, b.height = 0, 0
}

// Resize replaces the texture with a blank width×height one. Previously
// uploaded glyphs are gone until the rasterizer sends them again.
func (b *Bridge) Resize(width, height int) error {
	from := image.Pt(b.width, b.height)
	b.Delete()
	if err := b.Create(width, height); err != nil {
		return err
	}
	b.resizes++
	ggfont.Logger().Info("atlas: resized", "from", from, "to", image.Pt(width, height))
	return nil
}

// Update expands the coverage texels inside rect into the mirror and
// uploads it. coverage must hold the whole atlas, one byte per texel; a
// buffer of any other size means a resize was missed and the update is
// dropped.
func (b *Bridge) Update(rect image.Rectangle, coverage []byte) {
	if b.state != Active || b.tex == nil {
		ggfont.Logger().Warn("atlas: update without texture", "state", b.state)
		return
	}
	src, err := pixbuf.WrapCoverage(b.width, b.height, coverage)
	if err != nil {
		ggfont.Logger().Warn("atlas: coverage does not match atlas, update dropped",
			"coverage", len(coverage), "width", b.width, "height", b.height)
		return
	}
	r, err := b.mirror.ExpandFrom(src, rect)
	if err != nil {
		ggfont.Logger().Warn("atlas: expand failed", "err", err)
		return
	}
	if r.Empty() {
		return
	}

	if err := b.upload(r); err != nil {
		ggfont.Logger().Warn("atlas: upload failed", "rect", r, "err", err)
		return
	}
	b.uploads++
	ggfont.Logger().Debug("atlas: updated", "rect", r)
}

func (b *Bridge) upload(r image.Rectangle) error {
	if b.regionUpload {
		if ru, ok := b.tex.(gpucontext.TextureRegionUpdater); ok {
			return ru.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), b.mirror.Region(r))
		}
	}
	return b.tex.UpdateData(b.mirror.Pix)
}

// Draw emits one textured rect per 3-vertex run with the atlas bound.
func (b *Bridge) Draw(verts, tcoords []float32, _ []uint32, nverts int) {
	if b.tex == nil {
		if nverts >= 3 {
			ggfont.Logger().Warn("atlas: draw without texture", "state", b.state)
		}
		return
	}
	EmitGlyphBatch(b.dev, b.tex, b.width, b.height, b.render.Blend, verts, tcoords, nverts)
}

// State returns the lifecycle state.
func (b *Bridge) State() State { return b.state }

// Size returns the atlas dimensions, zero when no texture is held.
func (b *Bridge) Size() (width, height int) { return b.width, b.height }

// Mirror returns the CPU copy of the texture, nil when no texture is held.
func (b *Bridge) Mirror() *pixbuf.RGBA { return b.mirror }

// Texture returns the atlas texture, nil when none is held.
func (b *Bridge) Texture() gfx.Texture { return b.tex }

// Resizes returns how many times the atlas was resized.
func (b *Bridge) Resizes() int { return b.resizes }

// Uploads returns how many uploads reached the texture.
func (b *Bridge) Uploads() int { return b.uploads }
