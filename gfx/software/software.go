// Package software is a CPU implementation of gfx.Device.
//
// Textures live in memory. Draws are sampled with golang.org/x/image/draw,
// honoring the texture filter mode, and blended into an *image.RGBA target
// with the gputypes.BlendState of the current gfx.BlendMode.
// Every call is also appended to a command log so tests can assert on
// exactly what a caller asked the GPU to do.
package software

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggfont/gfx"
)

// Default target size used by the registered factory.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// numSlots is the number of texture sampling slots.
const numSlots = 4

// init registers the software backend on package import.
func init() {
	gfx.Register(gfx.BackendSoftware, func() gfx.Device {
		return New(DefaultWidth, DefaultHeight)
	})
}

// Option configures a Device.
type Option func(*Device)

// WithMaxTextureSize makes CreateTexture fail for textures wider or
// taller than n texels, mimicking a device limit.
func WithMaxTextureSize(n int) Option {
	return func(d *Device) {
		d.maxTexture = n
	}
}

// Device renders into an in-memory RGBA target.
//
// Device is NOT safe for concurrent use.
type Device struct {
	target     *image.RGBA
	maxTexture int

	nextID    int
	textures  map[int]*Texture
	slots     [numSlots]*Texture
	blend     gfx.BlendMode
	transform [2]float32
	stack     [][2]float32

	log []Command
}

var _ gfx.Device = (*Device)(nil)

// New creates a device with a transparent width×height target.
func New(width, height int, opts ...Option) *Device {
	d := &Device{
		target:     image.NewRGBA(image.Rect(0, 0, width, height)),
		maxTexture: 8192,
		nextID:     1,
		textures:   make(map[int]*Texture),
		blend:      gfx.BlendAlpha,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Target returns the render target.
func (d *Device) Target() *image.RGBA {
	return d.target
}

// Clear fills the target with c.
func (d *Device) Clear(c color.Color) {
	draw.Draw(d.target, d.target.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// SavePNG writes the target to path.
func (d *Device) SavePNG(path string) error {
	f, err := os.Create(path) // #nosec G304 -- output path is chosen by the caller
	if err != nil {
		return fmt.Errorf("software: create %s: %w", path, err)
	}
	if err := png.Encode(f, d.target); err != nil {
		_ = f.Close()
		return fmt.Errorf("software: encode %s: %w", path, err)
	}
	return f.Close()
}

// LiveTextures returns the number of textures that have been created
// and not destroyed.
func (d *Device) LiveTextures() int {
	return len(d.textures)
}

// Bound returns the texture bound to slot, or nil.
func (d *Device) Bound(slot int) *Texture {
	if slot < 0 || slot >= numSlots {
		return nil
	}
	return d.slots[slot]
}

// BlendMode returns the current blend mode.
func (d *Device) BlendMode() gfx.BlendMode {
	return d.blend
}

// CreateTexture implements gfx.Device.
func (d *Device) CreateTexture(desc *gputypes.TextureDescriptor, filter gputypes.FilterMode) (gfx.Texture, error) {
	w, h := int(desc.Size.Width), int(desc.Size.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", gfx.ErrInvalidTextureSize, w, h)
	}
	if w > d.maxTexture || h > d.maxTexture {
		return nil, fmt.Errorf("%w: %dx%d exceeds device limit %d", gfx.ErrInvalidTextureSize, w, h, d.maxTexture)
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %v", gfx.ErrUnsupportedFormat, desc.Format)
	}

	t := &Texture{
		dev:    d,
		id:     d.nextID,
		width:  w,
		height: h,
		filter: filter,
		pix:    make([]byte, w*h*4),
	}
	d.nextID++
	d.textures[t.id] = t
	d.record(Command{Op: OpCreate, Texture: t})
	return t, nil
}

// DestroyTexture implements gfx.Device.
func (d *Device) DestroyTexture(tex gfx.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.destroyed {
		return
	}
	t.destroyed = true
	t.pix = nil
	delete(d.textures, t.id)
	for i := range d.slots {
		if d.slots[i] == t {
			d.slots[i] = nil
		}
	}
	d.record(Command{Op: OpDestroy, Texture: t})
}

// BindTexture implements gfx.Device.
func (d *Device) BindTexture(slot int, tex gfx.Texture) {
	if slot < 0 || slot >= numSlots {
		return
	}
	t, _ := tex.(*Texture)
	d.slots[slot] = t
	d.record(Command{Op: OpBind, Slot: slot, Texture: t})
}

// UnbindTexture implements gfx.Device.
func (d *Device) UnbindTexture(slot int) {
	if slot < 0 || slot >= numSlots {
		return
	}
	d.slots[slot] = nil
	d.record(Command{Op: OpUnbind, Slot: slot})
}

// SetBlendMode implements gfx.Device.
func (d *Device) SetBlendMode(mode gfx.BlendMode) {
	d.blend = mode
	d.record(Command{Op: OpBlend, Blend: mode})
}

// PushTransform implements gfx.Device.
func (d *Device) PushTransform() {
	d.stack = append(d.stack, d.transform)
	d.record(Command{Op: OpPush})
}

// PopTransform implements gfx.Device.
func (d *Device) PopTransform() {
	if n := len(d.stack); n > 0 {
		d.transform = d.stack[n-1]
		d.stack = d.stack[:n-1]
	}
	d.record(Command{Op: OpPop})
}

// Translate implements gfx.Device.
func (d *Device) Translate(x, y float32) {
	d.transform[0] += x
	d.transform[1] += y
	d.record(Command{Op: OpTranslate, Dst: gfx.Rect{X: x, Y: y}})
}

// DrawTexturedRect implements gfx.Device.
func (d *Device) DrawTexturedRect(slot int, dst, src gfx.Rect) {
	t := d.Bound(slot)
	d.record(Command{
		Op:      OpDraw,
		Slot:    slot,
		Texture: t,
		Dst:     gfx.Rect{X: dst.X + d.transform[0], Y: dst.Y + d.transform[1], W: dst.W, H: dst.H},
		Src:     src,
		Blend:   d.blend,
	})
	if t == nil || t.destroyed {
		return
	}

	ox, oy := d.transform[0]+dst.X, d.transform[1]+dst.Y
	dr := image.Rect(
		int(math32.Round(ox)), int(math32.Round(oy)),
		int(math32.Round(ox+dst.W)), int(math32.Round(oy+dst.H)),
	)
	sr := image.Rect(
		int(math32.Floor(src.X)), int(math32.Floor(src.Y)),
		int(math32.Ceil(src.X+src.W)), int(math32.Ceil(src.Y+src.H)),
	).Intersect(image.Rect(0, 0, t.width, t.height))
	if dr.Empty() || sr.Empty() {
		return
	}

	interp := draw.ApproxBiLinear
	if t.filter == gputypes.FilterModeNearest {
		interp = draw.NearestNeighbor
	}
	sampled := image.NewRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	interp.Scale(sampled, sampled.Bounds(), t.Image(), sr, draw.Src, nil)
	composite(d.target, dr, sampled, d.blend.State())
}

func (d *Device) record(c Command) {
	d.log = append(d.log, c)
}

// Texture is an in-memory RGBA8 texture.
type Texture struct {
	dev       *Device
	id        int
	width     int
	height    int
	filter    gputypes.FilterMode
	pix       []byte
	destroyed bool
}

var _ gfx.Texture = (*Texture)(nil)

// ID returns the texture's device-unique id.
func (t *Texture) ID() int { return t.id }

// Width implements gpucontext.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements gpucontext.Texture.
func (t *Texture) Height() int { return t.height }

// Filter returns the sampling filter the texture was created with.
func (t *Texture) Filter() gputypes.FilterMode { return t.filter }

// Destroyed reports whether the texture has been destroyed.
func (t *Texture) Destroyed() bool { return t.destroyed }

// Pix returns the texture contents. The slice is nil once destroyed.
func (t *Texture) Pix() []byte { return t.pix }

// Image returns an *image.RGBA view of the texture contents.
func (t *Texture) Image() *image.RGBA {
	return &image.RGBA{Pix: t.pix, Stride: t.width * 4, Rect: image.Rect(0, 0, t.width, t.height)}
}

// UpdateData implements gpucontext.TextureUpdater.
func (t *Texture) UpdateData(data []byte) error {
	if t.destroyed {
		return gfx.ErrTextureDestroyed
	}
	if len(data) != len(t.pix) {
		return fmt.Errorf("%w: %d bytes for %dx%d texture", gfx.ErrInvalidTextureSize, len(data), t.width, t.height)
	}
	copy(t.pix, data)
	t.dev.record(Command{Op: OpUpload, Texture: t, Region: image.Rect(0, 0, t.width, t.height)})
	return nil
}

// UpdateRegion implements gpucontext.TextureRegionUpdater.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	if t.destroyed {
		return gfx.ErrTextureDestroyed
	}
	r := image.Rect(x, y, x+w, y+h)
	if w < 0 || h < 0 || !r.In(image.Rect(0, 0, t.width, t.height)) {
		return fmt.Errorf("%w: region %v outside %dx%d texture", gfx.ErrInvalidTextureSize, r, t.width, t.height)
	}
	if len(data) != w*h*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d region", gfx.ErrInvalidTextureSize, len(data), w, h)
	}
	rowLen := w * 4
	for row := 0; row < h; row++ {
		d := (y+row)*t.width*4 + x*4
		copy(t.pix[d:d+rowLen], data[row*rowLen:(row+1)*rowLen])
	}
	t.dev.record(Command{Op: OpUploadRegion, Texture: t, Region: r})
	return nil
}
