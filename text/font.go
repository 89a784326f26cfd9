package text

import (
	"github.com/gogpu/ggfont/atlas"
	"github.com/gogpu/ggfont/registry"
	"github.com/gogpu/ggfont/stash"
)

// Font is a loaded font: its bytes, rasterizer and atlas at one size.
//
// The record lives in the service registry; its address is stable until
// the font is cleaned up, and the rasterizer keeps the bridge as its sink
// for that whole time.
type Font struct {
	handle registry.Handle
	path   string
	size   float32
	faceID int

	data   []byte
	stash  *stash.Context
	bridge *atlas.Bridge
}

// Handle returns the registry handle of the font.
func (f *Font) Handle() registry.Handle { return f.handle }

// Path returns the path the font was loaded from.
func (f *Font) Path() string { return f.path }

// Size returns the pixel size the font was loaded at.
func (f *Font) Size() float32 { return f.size }

// FaceID returns the rasterizer face id, stash.InvalidFont when the data
// could not be parsed.
func (f *Font) FaceID() int { return f.faceID }

// Valid reports whether the face was registered.
func (f *Font) Valid() bool { return f.faceID != stash.InvalidFont }

// Atlas returns the font's atlas bridge.
func (f *Font) Atlas() *atlas.Bridge { return f.bridge }

// Stash returns the font's rasterizer context.
func (f *Font) Stash() *stash.Context { return f.stash }

// configure selects the font's face and size with a clean rasterizer state.
func (f *Font) configure() {
	f.stash.ClearState()
	f.stash.SetFont(f.faceID)
	f.stash.SetSize(f.size)
	f.stash.SetBlur(0)
}
