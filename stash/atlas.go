package stash

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/ggfont"
	"github.com/gogpu/ggfont/pixbuf"
)

// getGlyph returns the cached glyph for gid at the current size and blur,
// rasterizing and packing it on a miss. It returns nil when the face has no
// outline for gid.
func (c *Context) getGlyph(f *stashFont, gid font.GID, size float32, blurRadius int) *glyph {
	key := makeKey(gid, size, blurRadius)
	if g, ok := f.glyph[key]; ok {
		return g
	}

	segs, err := f.outline(gid, size)
	if err != nil {
		ggfont.Logger().Debug("stash: glyph outline unavailable", "font", f.name, "gid", gid, "err", err)
		return nil
	}
	box, ok := pixelBounds(segs, blurRadius)
	if !ok {
		g := &glyph{}
		f.glyph[key] = g
		return g
	}

	x, y, ok := c.allocate(box.Dx(), box.Dy())
	if !ok {
		if c.err != nil {
			return nil
		}
		ggfont.Logger().Warn("stash: atlas full, glyph skipped",
			"font", f.name, "gid", gid, "max", c.params.MaxAtlasSize)
		return nil
	}

	// segs is still valid: allocate never loads outlines.
	mask := rasterize(c.raster, segs, box, blurRadius)
	c.texData.Blit(mask, x, y)

	g := &glyph{
		x0: x, y0: y,
		x1: x + box.Dx(), y1: y + box.Dy(),
		xoff: box.Min.X,
		yoff: box.Min.Y,
	}
	f.glyph[key] = g
	c.markDirty(image.Rect(g.x0, g.y0, g.x1, g.y1))
	return g
}

// allocate reserves a w×h atlas area, growing the atlas when it is full.
func (c *Context) allocate(w, h int) (x, y int, ok bool) {
	for {
		if x, y, ok = c.packer.allocate(w, h); ok {
			return x, y, true
		}
		aw, ah := c.AtlasSize()
		nw := min(aw*2, c.params.MaxAtlasSize)
		nh := min(ah*2, c.params.MaxAtlasSize)
		if nw == aw && nh == ah {
			return -1, -1, false
		}
		c.flush()
		if err := c.ExpandAtlas(nw, nh); err != nil {
			ggfont.Logger().Error("stash: atlas expansion failed", "err", err)
			return -1, -1, false
		}
	}
}

// ExpandAtlas grows the atlas to width×height, keeping every resident glyph.
// The sink receives one Resize and the resident area is re-sent on the next
// flush. Shrinking is not supported; smaller sizes are raised to the
// current ones. A failed Resize is sticky, see Err.
func (c *Context) ExpandAtlas(width, height int) error {
	if c.params.Sink == nil {
		return ErrNoSink
	}
	if c.err != nil {
		return c.err
	}
	aw, ah := c.AtlasSize()
	width = max(width, aw)
	height = max(height, ah)
	if width == aw && height == ah {
		return nil
	}

	c.flush()
	used := c.packer.utilization()
	if err := c.params.Sink.Resize(width, height); err != nil {
		return c.fail(fmt.Errorf("stash: resize atlas to %dx%d: %w", width, height, err))
	}
	c.texData = c.texData.Grow(width, height)
	c.packer.grow(width, height)

	// The sink's new texture is blank.
	c.markDirty(image.Rect(0, 0, aw, c.packer.bottom()))

	ggfont.Logger().Info("stash: atlas expanded",
		"from", fmt.Sprintf("%dx%d", aw, ah),
		"to", fmt.Sprintf("%dx%d", width, height),
		"utilization", used)
	return nil
}

// ResetAtlas drops every cached glyph and starts over with an empty atlas
// of width×height.
func (c *Context) ResetAtlas(width, height int) error {
	if c.params.Sink == nil {
		return ErrNoSink
	}
	if c.err != nil {
		return c.err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: atlas %dx%d", ErrInvalidParams, width, height)
	}

	c.flush()
	if err := c.params.Sink.Resize(width, height); err != nil {
		return c.fail(fmt.Errorf("stash: reset atlas to %dx%d: %w", width, height, err))
	}
	c.texData = pixbuf.NewCoverage(width, height)
	c.packer.reset(width, height)
	for _, f := range c.fonts {
		clear(f.glyph)
	}
	c.dirty = image.Rectangle{}
	return nil
}

// fail records a sink allocation failure. The sink no longer holds a
// texture, so every later atlas operation reports the same error.
func (c *Context) fail(err error) error {
	if !errors.Is(err, ggfont.ErrAtlasAllocation) {
		err = fmt.Errorf("%w: %w", ggfont.ErrAtlasAllocation, err)
	}
	c.err = err
	c.nverts = 0
	c.dirty = image.Rectangle{}
	return err
}

// Err returns the atlas allocation failure that disabled the context, if
// any. It wraps ggfont.ErrAtlasAllocation.
func (c *Context) Err() error { return c.err }

func (c *Context) markDirty(r image.Rectangle) {
	r = r.Intersect(c.texData.Bounds())
	if r.Empty() {
		return
	}
	c.dirty = c.dirty.Union(r)
}

// flush sends pending atlas changes and then the pending vertex batch.
func (c *Context) flush() {
	sink := c.params.Sink
	if sink == nil || c.err != nil {
		return
	}
	if !c.dirty.Empty() {
		sink.Update(c.dirty, c.texData.Pix)
		c.dirty = image.Rectangle{}
	}
	if c.nverts > 0 {
		sink.Draw(c.verts[:c.nverts*2], c.tcoords[:c.nverts*2], c.colors[:c.nverts], c.nverts)
		c.nverts = 0
	}
}
