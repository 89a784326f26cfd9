package atlas

import (
	"github.com/gogpu/ggfont/gfx"
)

// Slot is the texture slot glyph batches sample from.
const Slot = 0

// EmitGlyphBatch draws a glyph batch from tex on dev and returns the number
// of rects emitted.
//
// Vertices come in runs of three; the first is the quad's top-left corner
// and the third its bottom-right, the second is ignored. Positions are in
// pixels, texture coordinates are normalized and scaled by the atlas size.
// Every rect is drawn at the origin of a translated transform. Fewer than
// three vertices emit nothing.
func EmitGlyphBatch(dev gfx.Device, tex gfx.Texture, atlasW, atlasH int, blend gfx.BlendMode,
	verts, tcoords []float32, nverts int) int {
	nverts = min(nverts, len(verts)/2, len(tcoords)/2)
	if nverts < 3 {
		return 0
	}
	aw, ah := float32(atlasW), float32(atlasH)

	dev.BindTexture(Slot, tex)
	dev.SetBlendMode(blend)
	n := 0
	for i := 0; i+3 <= nverts; i += 3 {
		p1x, p1y := verts[i*2], verts[i*2+1]
		p3x, p3y := verts[(i+2)*2], verts[(i+2)*2+1]
		t1x, t1y := tcoords[i*2], tcoords[i*2+1]
		t3x, t3y := tcoords[(i+2)*2], tcoords[(i+2)*2+1]

		dev.PushTransform()
		dev.Translate(p1x, p1y)
		dev.DrawTexturedRect(Slot,
			gfx.Rect{W: p3x - p1x, H: p3y - p1y},
			gfx.Rect{X: t1x * aw, Y: t1y * ah, W: (t3x - t1x) * aw, H: (t3y - t1y) * ah},
		)
		dev.PopTransform()
		n++
	}
	dev.UnbindTexture(Slot)
	return n
}
