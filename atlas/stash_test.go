package atlas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggfont/gfx/software"
	"github.com/gogpu/ggfont/stash"
)

func newStash(t *testing.T, b *Bridge, size, maxSize int) *stash.Context {
	t.Helper()
	ctx, err := stash.New(stash.Params{Width: size, Height: size, Sink: b, MaxAtlasSize: maxSize})
	if err != nil {
		t.Fatal(err)
	}
	font, err := ctx.AddFontMem("goregular", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetFont(font)
	ctx.SetSize(24)
	return ctx
}

func TestBridge_WithStash(t *testing.T) {
	dev := software.New(200, 80)
	b := New(dev, nil)
	ctx := newStash(t, b, 256, 0)
	if b.State() != Active {
		t.Fatalf("state after stash.New = %v, want active", b.State())
	}
	dev.ResetCommands()

	ctx.DrawText(10, 40, "Hi")

	if got := dev.Count(software.OpBind); got != 1 {
		t.Errorf("bind calls = %d, want 1", got)
	}
	if got := dev.Count(software.OpDraw); got != 2 {
		t.Errorf("draw calls = %d, want 2", got)
	}
	if diff := cmp.Diff(b.Mirror().Pix, texPix(t, b)); diff != "" {
		t.Errorf("texture differs from mirror:\n%s", diff)
	}

	// Mirror holds exactly the expanded coverage.
	cov := ctx.Coverage()
	m := b.Mirror()
	for i, v := range cov.Pix {
		x, y := i%cov.Width, i/cov.Width
		if got := m.At(x, y); got != [4]uint8{v, v, v, v} {
			t.Fatalf("mirror(%d,%d) = %v, want coverage %d", x, y, got, v)
		}
	}

	// Something was composited into the target.
	inked := false
	for _, p := range dev.Target().Pix {
		if p != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Error("target is blank after drawing")
	}

	ctx.Delete()
	if b.State() != Destroyed || dev.LiveTextures() != 0 {
		t.Errorf("after stash Delete: state %v, live textures %d", b.State(), dev.LiveTextures())
	}
}

func TestBridge_WithStashGrowth(t *testing.T) {
	for _, region := range []bool{false, true} {
		var opts []Option
		if region {
			opts = append(opts, WithRegionUpload())
		}
		dev := software.New(400, 80)
		b := New(dev, nil, opts...)
		ctx := newStash(t, b, 32, 1024)

		ctx.DrawText(0, 40, "The quick brown fox jumps over the lazy dog")

		if b.Resizes() == 0 {
			t.Fatalf("region=%v: atlas never resized", region)
		}
		aw, ah := ctx.AtlasSize()
		if w, h := b.Size(); w != aw || h != ah {
			t.Errorf("region=%v: bridge %dx%d, stash %dx%d", region, w, h, aw, ah)
		}
		if dev.LiveTextures() != 1 {
			t.Errorf("region=%v: live textures = %d, want 1", region, dev.LiveTextures())
		}
		if diff := cmp.Diff(b.Mirror().Pix, texPix(t, b)); diff != "" {
			t.Errorf("region=%v: texture differs from mirror:\n%s", region, diff)
		}

		// Glyphs resident before the last resize were re-sent.
		cov := ctx.Coverage()
		for i, v := range cov.Pix {
			x, y := i%cov.Width, i/cov.Width
			if got := b.Mirror().At(x, y); got[3] != v {
				t.Fatalf("region=%v: mirror(%d,%d) alpha %d, coverage %d", region, x, y, got[3], v)
			}
		}
	}
}
