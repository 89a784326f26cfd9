package stash

// shelfPacker packs glyph rectangles into horizontal shelves.
//
// Each shelf has the height of the tallest glyph placed on it so far.
// Glyphs go left to right on the first shelf with room; when none fits,
// a new shelf starts below the last one. The packer can grow in place:
// existing placements stay valid when the atlas is enlarged.
type shelfPacker struct {
	width   int
	height  int
	shelves []shelf

	usedArea int
}

// shelf represents a horizontal strip in the atlas.
type shelf struct {
	y      int // Y position of shelf top
	height int // Height of the shelf (tallest item so far)
	x      int // Current X position (next free slot)
}

func newShelfPacker(width, height int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w×h rectangle.
// Returns -1, -1, false when the atlas has no room.
func (p *shelfPacker) allocate(w, h int) (x, y int, ok bool) {
	if w > p.width || h > p.height {
		return -1, -1, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+w > p.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow taller.
			if i != len(p.shelves)-1 || s.y+h > p.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += w
		p.usedArea += w * h
		return x, y, true
	}

	newY := p.bottom()
	if newY+h > p.height {
		return -1, -1, false
	}
	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: w})
	p.usedArea += w * h
	return 0, newY, true
}

// bottom returns the y coordinate below the last shelf.
func (p *shelfPacker) bottom() int {
	if len(p.shelves) == 0 {
		return 0
	}
	last := p.shelves[len(p.shelves)-1]
	return last.y + last.height
}

// grow enlarges the packing area. Shrinking is ignored.
func (p *shelfPacker) grow(width, height int) {
	p.width = max(p.width, width)
	p.height = max(p.height, height)
}

// reset clears all placements and sets new dimensions.
func (p *shelfPacker) reset(width, height int) {
	p.width = width
	p.height = height
	p.shelves = p.shelves[:0]
	p.usedArea = 0
}

// utilization returns the fraction of atlas area in use (0.0 to 1.0).
func (p *shelfPacker) utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.width*p.height)
}
