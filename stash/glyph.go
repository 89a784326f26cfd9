package stash

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/chewxy/math32"
	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"
)

// glyphPadding is the empty border kept around every glyph in the atlas so
// bilinear sampling never bleeds into a neighbour.
const glyphPadding = 2

// maxBlur caps the blur radius in pixels.
const maxBlur = 20

// glyphKey identifies a rasterized glyph variant. Size is stored in tenths
// of a pixel.
type glyphKey struct {
	gid  font.GID
	size int
	blur int
}

// glyph is a cached glyph variant.
type glyph struct {
	// Atlas rectangle, including padding. Empty for blank glyphs.
	x0, y0, x1, y1 int
	// Offset of the atlas rectangle's top-left corner from the pen,
	// Y axis down, relative to the baseline.
	xoff, yoff int
}

// empty reports whether the glyph has no pixels to draw.
func (g *glyph) empty() bool {
	return g.x1 <= g.x0 || g.y1 <= g.y0
}

func makeKey(gid font.GID, size float32, blurRadius int) glyphKey {
	return glyphKey{gid: gid, size: int(size * 10), blur: blurRadius}
}

// pixelBounds returns the padded pixel box of an outline relative to the
// pen position. ok is false for glyphs without ink.
func pixelBounds(segs sfnt.Segments, blurRadius int) (r image.Rectangle, ok bool) {
	if len(segs) == 0 {
		return image.Rectangle{}, false
	}
	b := segs.Bounds()
	r = image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	if r.Empty() {
		return image.Rectangle{}, false
	}
	pad := glyphPadding + blurRadius
	return r.Inset(-pad), true
}

// rasterize renders segs into a coverage mask of size box. The pen sits at
// (-box.Min.X, -box.Min.Y) inside the mask.
func rasterize(z *vector.Rasterizer, segs sfnt.Segments, box image.Rectangle, blurRadius int) *image.Alpha {
	w, h := box.Dx(), box.Dy()
	z.Reset(w, h)
	dx := float32(-box.Min.X)
	dy := float32(-box.Min.Y)

	started := false
	for _, seg := range segs {
		p := seg.Args
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(fx(p[0].X)+dx, fx(p[0].Y)+dy)
			started = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(fx(p[0].X)+dx, fx(p[0].Y)+dy)
		case sfnt.SegmentOpQuadTo:
			z.QuadTo(fx(p[0].X)+dx, fx(p[0].Y)+dy, fx(p[1].X)+dx, fx(p[1].Y)+dy)
		case sfnt.SegmentOpCubeTo:
			z.CubeTo(fx(p[0].X)+dx, fx(p[0].Y)+dy, fx(p[1].X)+dx, fx(p[1].Y)+dy, fx(p[2].X)+dx, fx(p[2].Y)+dy)
		}
	}
	if started {
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	if blurRadius > 0 {
		mask = blurMask(mask, blurRadius)
	}
	return mask
}

// blurMask applies a gaussian blur and keeps the alpha channel.
func blurMask(mask *image.Alpha, radius int) *image.Alpha {
	blurred := blur.Gaussian(mask, float64(radius))
	out := image.NewAlpha(mask.Bounds())
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)] = blurred.Pix[blurred.PixOffset(x, y)+3]
		}
	}
	return out
}

// fx converts 26.6 fixed point to float32.
func fx[T ~int32](v T) float32 {
	return float32(v) / 64
}

// quad is a screen rectangle with its atlas texture coordinates.
type quad struct {
	x0, y0, s0, t0 float32
	x1, y1, s1, t1 float32
}

// glyphQuad places g at pen (x, y). Texture coordinates are normalized by
// the atlas size.
func glyphQuad(g *glyph, x, y float32, atlasW, atlasH int, bottomLeft bool) quad {
	itw := 1 / float32(atlasW)
	ith := 1 / float32(atlasH)
	w := float32(g.x1 - g.x0)
	h := float32(g.y1 - g.y0)

	rx := math32.Floor(x + float32(g.xoff))
	var q quad
	if bottomLeft {
		ry := math32.Floor(y - float32(g.yoff))
		q = quad{x0: rx, y0: ry, x1: rx + w, y1: ry - h}
	} else {
		ry := math32.Floor(y + float32(g.yoff))
		q = quad{x0: rx, y0: ry, x1: rx + w, y1: ry + h}
	}
	q.s0 = float32(g.x0) * itw
	q.t0 = float32(g.y0) * ith
	q.s1 = float32(g.x1) * itw
	q.t1 = float32(g.y1) * ith
	return q
}
