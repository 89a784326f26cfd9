package stash

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// InvalidFont is returned by AddFontMem when the face cannot be registered.
const InvalidFont = -1

// stashFont is one registered face.
//
// The sfnt view drives metrics and outlines; the go-text face drives shaping.
// Both read the same bytes, so glyph IDs agree between them.
type stashFont struct {
	name  string
	data  []byte
	sfnt  *sfnt.Font
	face  *font.Face
	buf   sfnt.Buffer
	glyph map[glyphKey]*glyph
}

func parseFont(name string, data []byte) (*stashFont, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("stash: parse %q: %w", name, err)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("stash: load face %q: %w", name, err)
	}
	return &stashFont{
		name:  name,
		data:  data,
		sfnt:  sf,
		face:  face,
		glyph: make(map[glyphKey]*glyph),
	}, nil
}

// vertMetrics returns ascender, descender (negative below baseline) and
// line height in pixels for the given size.
func (f *stashFont) vertMetrics(size float32) (ascender, descender, lineh float32) {
	m, err := f.sfnt.Metrics(&f.buf, fixed.Int26_6(size*64), xfont.HintingNone)
	if err != nil {
		return 0, 0, 0
	}
	return float32(m.Ascent) / 64, -float32(m.Descent) / 64, float32(m.Height) / 64
}

// outline loads the glyph outline at size. Empty glyphs return no segments.
func (f *stashFont) outline(gid font.GID, size float32) (sfnt.Segments, error) {
	if gid > 0xFFFF {
		return nil, sfnt.ErrNotFound
	}
	return f.sfnt.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), fixed.Int26_6(size*64), nil)
}
