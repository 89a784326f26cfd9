package stash

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

var defaultLanguage = language.NewLanguage("en")

// DrawText shapes s with the current state and queues one quad per visible
// glyph, pen starting at (x, y). Pending atlas updates and the batch are
// flushed to the sink before returning. The returned value is the pen's X
// after the last glyph. Once Err is set nothing is drawn.
func (c *Context) DrawText(x, y float32, s string) float32 {
	f := c.currentFont()
	if f == nil || c.params.Sink == nil || c.err != nil {
		return x
	}
	out, ok := c.shape(f, s)
	if !ok {
		return x
	}

	switch {
	case c.state.align&AlignRight != 0:
		x -= c.advance(out)
	case c.state.align&AlignCenter != 0:
		x -= c.advance(out) / 2
	}
	y += c.vertAlign(f)

	size := c.state.size
	blurRadius := c.blurRadius()
	bottomLeft := c.bottomLeft()
	for _, g := range out.Glyphs {
		gl := c.getGlyph(f, g.GlyphID, size, blurRadius)
		if c.err != nil {
			return x
		}
		if gl != nil && !gl.empty() {
			gy := y - fx(g.YOffset)
			if bottomLeft {
				gy = y + fx(g.YOffset)
			}
			aw, ah := c.AtlasSize()
			c.pushQuad(glyphQuad(gl, x+fx(g.XOffset), gy, aw, ah, bottomLeft))
		}
		x += fx(g.XAdvance) + c.state.spacing
	}
	c.flush()
	return x
}

// TextBounds measures s as DrawText would place it at (x, y) without
// drawing or touching the atlas. bounds is [minX, minY, maxX, maxY] and
// always contains (x, y).
func (c *Context) TextBounds(x, y float32, s string) (advance float32, bounds [4]float32) {
	bounds = [4]float32{x, y, x, y}
	f := c.currentFont()
	if f == nil {
		return 0, bounds
	}
	out, ok := c.shape(f, s)
	if !ok {
		return 0, bounds
	}

	y += c.vertAlign(f)
	bounds[1], bounds[3] = y, y
	startX := x
	size := c.state.size
	blurRadius := c.blurRadius()
	bottomLeft := c.bottomLeft()
	for _, g := range out.Glyphs {
		segs, err := f.outline(g.GlyphID, size)
		if err == nil {
			if box, ok := pixelBounds(segs, blurRadius); ok {
				gl := &glyph{x1: box.Dx(), y1: box.Dy(), xoff: box.Min.X, yoff: box.Min.Y}
				gy := y - fx(g.YOffset)
				if bottomLeft {
					gy = y + fx(g.YOffset)
				}
				q := glyphQuad(gl, x+fx(g.XOffset), gy, 1, 1, bottomLeft)
				bounds[0] = min(bounds[0], q.x0, q.x1)
				bounds[1] = min(bounds[1], q.y0, q.y1)
				bounds[2] = max(bounds[2], q.x0, q.x1)
				bounds[3] = max(bounds[3], q.y0, q.y1)
			}
		}
		x += fx(g.XAdvance) + c.state.spacing
	}

	advance = x - startX
	switch {
	case c.state.align&AlignRight != 0:
		bounds[0] -= advance
		bounds[2] -= advance
	case c.state.align&AlignCenter != 0:
		bounds[0] -= advance / 2
		bounds[2] -= advance / 2
	}
	return advance, bounds
}

// shape runs the HarfBuzz shaper over the NFC form of s.
func (c *Context) shape(f *stashFont, s string) (shaping.Output, bool) {
	if s == "" {
		return shaping.Output{}, false
	}
	runes := []rune(norm.NFC.String(s))
	return c.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      f.face,
		Size:      fixed.Int26_6(c.state.size * 64),
		Script:    scriptOf(runes),
		Language:  defaultLanguage,
	}), true
}

// advance is the total pen advance of out including letter spacing.
func (c *Context) advance(out shaping.Output) float32 {
	var w float32
	for _, g := range out.Glyphs {
		w += fx(g.XAdvance) + c.state.spacing
	}
	return w
}

func (c *Context) vertAlign(f *stashFont) float32 {
	asc, desc, _ := f.vertMetrics(c.state.size)
	var dy float32
	switch {
	case c.state.align&AlignTop != 0:
		dy = asc
	case c.state.align&AlignMiddle != 0:
		dy = (asc + desc) / 2
	case c.state.align&AlignBottom != 0:
		dy = desc
	}
	if c.bottomLeft() {
		return -dy
	}
	return dy
}

func (c *Context) bottomLeft() bool {
	return c.params.Flags&ZeroBottomLeft != 0 && c.params.Flags&ZeroTopLeft == 0
}

// pushQuad appends one 3-vertex run: top-left, top-right, bottom-right.
func (c *Context) pushQuad(q quad) {
	if c.nverts+3 > vertexCapacity {
		c.flush()
	}
	c.vertex(q.x0, q.y0, q.s0, q.t0)
	c.vertex(q.x1, q.y0, q.s1, q.t0)
	c.vertex(q.x1, q.y1, q.s1, q.t1)
}

func (c *Context) vertex(x, y, s, t float32) {
	i := c.nverts * 2
	c.verts[i], c.verts[i+1] = x, y
	c.tcoords[i], c.tcoords[i+1] = s, t
	c.colors[c.nverts] = c.state.color
	c.nverts++
}

// scriptOf returns the first specific script in runes, Latin when none.
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		switch sc := language.LookupScript(r); sc {
		case language.Common, language.Inherited, language.Unknown:
		default:
			return sc
		}
	}
	return language.Latin
}
