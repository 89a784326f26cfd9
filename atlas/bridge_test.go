package atlas

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggfont"
	"github.com/gogpu/ggfont/gfx"
	"github.com/gogpu/ggfont/gfx/software"
)

func newBridge(t *testing.T, w, h int, opts ...Option) (*Bridge, *software.Device) {
	t.Helper()
	dev := software.New(64, 64)
	b := New(dev, nil, opts...)
	if err := b.Create(w, h); err != nil {
		t.Fatalf("Create(%d, %d) error = %v", w, h, err)
	}
	return b, dev
}

func coverageWith(w, h int, r image.Rectangle, v byte) []byte {
	cov := make([]byte, w*h)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cov[y*w+x] = v
		}
	}
	return cov
}

func texPix(t *testing.T, b *Bridge) []byte {
	t.Helper()
	tex, ok := b.Texture().(*software.Texture)
	if !ok {
		t.Fatalf("Texture() = %T, want *software.Texture", b.Texture())
	}
	return tex.Pix()
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Uninitialized, "uninitialized"},
		{Active, "active"},
		{Destroyed, "destroyed"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestBridge_Create(t *testing.T) {
	dev := software.New(8, 8)
	render := &gfx.RenderState{Blend: gfx.BlendAlpha, Filter: gputypes.FilterModeNearest}
	b := New(dev, render)
	if b.State() != Uninitialized {
		t.Fatalf("initial state = %v, want uninitialized", b.State())
	}

	if err := b.Create(32, 16); err != nil {
		t.Fatal(err)
	}
	if b.State() != Active {
		t.Errorf("state = %v, want active", b.State())
	}
	if w, h := b.Size(); w != 32 || h != 16 {
		t.Errorf("Size() = %dx%d, want 32x16", w, h)
	}
	if got := len(b.Mirror().Pix); got != 32*16*4 {
		t.Errorf("mirror length = %d, want %d", got, 32*16*4)
	}
	if !bytes.Equal(b.Mirror().Pix, make([]byte, 32*16*4)) {
		t.Error("mirror not zeroed")
	}
	tex := b.Texture().(*software.Texture)
	if tex.Width() != 32 || tex.Height() != 16 {
		t.Errorf("texture = %dx%d, want 32x16", tex.Width(), tex.Height())
	}
	if tex.Filter() != gputypes.FilterModeNearest {
		t.Errorf("texture filter = %v, want nearest", tex.Filter())
	}
}

func TestBridge_CreateFailure(t *testing.T) {
	dev := software.New(8, 8, software.WithMaxTextureSize(64))
	b := New(dev, nil)

	err := b.Create(128, 128)
	if !errors.Is(err, ggfont.ErrAtlasAllocation) {
		t.Errorf("Create error = %v, want ErrAtlasAllocation", err)
	}
	if !errors.Is(err, gfx.ErrInvalidTextureSize) {
		t.Errorf("Create error = %v, want wrapped device error", err)
	}
	if b.Texture() != nil || b.Mirror() != nil {
		t.Error("failed Create left a texture or mirror behind")
	}
	if b.State() != Uninitialized {
		t.Errorf("state = %v, want uninitialized", b.State())
	}
	if ggfont.StatusOf(err) != ggfont.StatusAtlasAllocation {
		t.Errorf("StatusOf = %v, want AtlasAllocation", ggfont.StatusOf(err))
	}

	if err := b.Create(0, 4); !errors.Is(err, ggfont.ErrAtlasAllocation) {
		t.Errorf("Create(0,4) error = %v, want ErrAtlasAllocation", err)
	}
}

func TestBridge_DeleteIdempotent(t *testing.T) {
	b, dev := newBridge(t, 16, 16)
	b.Delete()
	b.Delete()

	if b.State() != Destroyed {
		t.Errorf("state = %v, want destroyed", b.State())
	}
	if dev.LiveTextures() != 0 {
		t.Errorf("live textures = %d, want 0", dev.LiveTextures())
	}
	if got := dev.Count(software.OpDestroy); got != 1 {
		t.Errorf("destroy calls = %d, want 1", got)
	}
	if b.Mirror() != nil {
		t.Error("mirror kept after Delete")
	}

	// Updates and draws after Delete are ignored.
	b.Update(image.Rect(0, 0, 4, 4), make([]byte, 256))
	b.Draw(make([]float32, 6), make([]float32, 6), nil, 3)
	if got := dev.Count(software.OpDraw) + dev.Count(software.OpUpload); got != 0 {
		t.Errorf("calls after Delete = %d, want 0", got)
	}
}

func TestBridge_Resize(t *testing.T) {
	b, dev := newBridge(t, 16, 16)
	b.Update(image.Rect(0, 0, 16, 16), coverageWith(16, 16, image.Rect(0, 0, 16, 16), 0xff))
	old := b.Texture().(*software.Texture)

	if err := b.Resize(32, 64); err != nil {
		t.Fatal(err)
	}
	if b.State() != Active {
		t.Errorf("state = %v, want active", b.State())
	}
	if w, h := b.Size(); w != 32 || h != 64 {
		t.Errorf("Size() = %dx%d, want 32x64", w, h)
	}
	if !old.Destroyed() {
		t.Error("old texture not destroyed")
	}
	if b.Texture().(*software.Texture).ID() == old.ID() {
		t.Error("resize kept the old texture")
	}
	if !bytes.Equal(b.Mirror().Pix, make([]byte, 32*64*4)) {
		t.Error("mirror not blank after resize")
	}
	if b.Resizes() != 1 {
		t.Errorf("Resizes() = %d, want 1", b.Resizes())
	}
	if dev.LiveTextures() != 1 {
		t.Errorf("live textures = %d, want 1", dev.LiveTextures())
	}
}

func TestBridge_ResizeFailure(t *testing.T) {
	dev := software.New(8, 8, software.WithMaxTextureSize(32))
	b := New(dev, nil)
	if err := b.Create(32, 32); err != nil {
		t.Fatal(err)
	}
	if err := b.Resize(64, 64); !errors.Is(err, ggfont.ErrAtlasAllocation) {
		t.Errorf("Resize error = %v, want ErrAtlasAllocation", err)
	}
	if b.Texture() != nil {
		t.Error("failed resize left a texture")
	}
	if b.Resizes() != 0 {
		t.Errorf("Resizes() = %d, want 0", b.Resizes())
	}
}

func TestBridge_UpdateExpandsRect(t *testing.T) {
	b, dev := newBridge(t, 8, 8)
	dirty := image.Rect(2, 1, 5, 4)
	// Coverage is set everywhere; only the dirty rect may reach the mirror.
	cov := coverageWith(8, 8, image.Rect(0, 0, 8, 8), 0x80)

	b.Update(dirty, cov)

	m := b.Mirror()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := [4]uint8{}
			if image.Pt(x, y).In(dirty) {
				want = [4]uint8{0x80, 0x80, 0x80, 0x80}
			}
			if got := m.At(x, y); got != want {
				t.Fatalf("mirror(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if diff := cmp.Diff(m.Pix, texPix(t, b)); diff != "" {
		t.Errorf("texture differs from mirror (-mirror +texture):\n%s", diff)
	}
	if diff := cmp.Diff([]software.Op{software.OpUpload}, dev.Ops(software.OpUpload, software.OpUploadRegion)); diff != "" {
		t.Errorf("uploads mismatch (-want +got):\n%s", diff)
	}
	if b.Uploads() != 1 {
		t.Errorf("Uploads() = %d, want 1", b.Uploads())
	}
}

func TestBridge_UpdateClipsRect(t *testing.T) {
	b, _ := newBridge(t, 8, 8)
	cov := coverageWith(8, 8, image.Rect(0, 0, 8, 8), 0xff)
	b.Update(image.Rect(6, 6, 20, 20), cov)

	if got := b.Mirror().At(7, 7); got != [4]uint8{0xff, 0xff, 0xff, 0xff} {
		t.Errorf("mirror(7,7) = %v, want opaque", got)
	}
	if got := b.Mirror().At(5, 5); got != [4]uint8{} {
		t.Errorf("mirror(5,5) = %v, want untouched", got)
	}

	before := b.Uploads()
	b.Update(image.Rect(10, 10, 12, 12), cov)
	if b.Uploads() != before {
		t.Error("update outside atlas uploaded")
	}
}

func TestBridge_UpdateSizeMismatchDropped(t *testing.T) {
	b, dev := newBridge(t, 8, 8)
	b.Update(image.Rect(0, 0, 4, 4), make([]byte, 4*4))

	if !bytes.Equal(b.Mirror().Pix, make([]byte, 8*8*4)) {
		t.Error("mismatched update touched the mirror")
	}
	if got := dev.Count(software.OpUpload); got != 0 {
		t.Errorf("uploads = %d, want 0", got)
	}
}

func TestBridge_RegionUpload(t *testing.T) {
	b, dev := newBridge(t, 16, 16, WithRegionUpload())

	rects := []image.Rectangle{
		image.Rect(0, 0, 4, 4),
		image.Rect(8, 2, 16, 9),
		image.Rect(3, 3, 10, 10),
	}
	for i, r := range rects {
		cov := coverageWith(16, 16, image.Rect(0, 0, 16, 16), byte(40*(i+1)))
		b.Update(r, cov)
		if diff := cmp.Diff(b.Mirror().Pix, texPix(t, b)); diff != "" {
			t.Fatalf("after update %d texture differs from mirror:\n%s", i, diff)
		}
	}

	var regions []image.Rectangle
	for _, c := range dev.Commands() {
		switch c.Op {
		case software.OpUpload:
			t.Error("full upload used in region mode")
		case software.OpUploadRegion:
			regions = append(regions, c.Region)
		}
	}
	if diff := cmp.Diff(rects, regions); diff != "" {
		t.Errorf("uploaded regions mismatch (-want +got):\n%s", diff)
	}
}
