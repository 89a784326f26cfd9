package software

import (
	"image"

	"github.com/gogpu/ggfont/gfx"
)

// Op identifies a recorded device call.
type Op uint8

// Recorded operations.
const (
	OpCreate Op = iota
	OpDestroy
	OpUpload
	OpUploadRegion
	OpBind
	OpUnbind
	OpBlend
	OpPush
	OpPop
	OpTranslate
	OpDraw
)

var opNames = [...]string{
	OpCreate:       "create",
	OpDestroy:      "destroy",
	OpUpload:       "upload",
	OpUploadRegion: "upload-region",
	OpBind:         "bind",
	OpUnbind:       "unbind",
	OpBlend:        "blend",
	OpPush:         "push",
	OpPop:          "pop",
	OpTranslate:    "translate",
	OpDraw:         "draw",
}

// String returns the operation name.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Command is one recorded device call.
//
// For OpDraw, Dst is already in target space (the transform applied)
// and Src is in texel units. For OpTranslate, Dst.X and Dst.Y hold the
// offset. For uploads, Region is the texel rectangle written.
type Command struct {
	Op      Op
	Slot    int
	Texture *Texture
	Dst     gfx.Rect
	Src     gfx.Rect
	Region  image.Rectangle
	Blend   gfx.BlendMode
}

// Commands returns the calls recorded since the last ResetCommands.
func (d *Device) Commands() []Command {
	return d.log
}

// ResetCommands clears the command log.
func (d *Device) ResetCommands() {
	d.log = d.log[:0]
}

// Count returns how many recorded calls have op.
func (d *Device) Count(op Op) int {
	n := 0
	for _, c := range d.log {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the sequence of recorded operations, optionally keeping
// only those listed in filter.
func (d *Device) Ops(filter ...Op) []Op {
	keep := func(op Op) bool {
		if len(filter) == 0 {
			return true
		}
		for _, f := range filter {
			if f == op {
				return true
			}
		}
		return false
	}
	var ops []Op
	for _, c := range d.log {
		if keep(c.Op) {
			ops = append(ops, c.Op)
		}
	}
	return ops
}
