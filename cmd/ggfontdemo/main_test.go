package main

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggfont/gfx"
	"github.com/gogpu/ggfont/gfx/software"
)

// inked reports whether any pixel of img differs from bg.
func inked(img *image.RGBA, bg color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				return true
			}
		}
	}
	return false
}

const sceneTOML = `
font = "fonts/go.ttf"
size = 18
width = 300
height = 120
background = [0, 0, 0, 255]
filter = "nearest"
blend = "alpha"
atlas = 128
region_upload = true
output = "out.png"

[[text]]
x = 10
y = 10
value = "Hello"

[[text]]
x = 10
y = 50
size = 32
value = "ggfont"
`

func TestDecodeScene(t *testing.T) {
	got, err := decodeScene(strings.NewReader(sceneTOML))
	if err != nil {
		t.Fatal(err)
	}
	want := Scene{
		Font:         "fonts/go.ttf",
		Size:         18,
		Width:        300,
		Height:       120,
		Background:   [4]uint8{0, 0, 0, 255},
		Filter:       "nearest",
		Blend:        "alpha",
		Atlas:        128,
		RegionUpload: true,
		Output:       "out.png",
		Text: []Line{
			{X: 10, Y: 10, Value: "Hello"},
			{X: 10, Y: 50, Size: 32, Value: "ggfont"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scene mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeScene_Defaults(t *testing.T) {
	got, err := decodeScene(strings.NewReader(`font = "a.ttf"`))
	if err != nil {
		t.Fatal(err)
	}
	want := defaultScene()
	want.Font = "a.ttf"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scene mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeScene_UnknownField(t *testing.T) {
	if _, err := decodeScene(strings.NewReader(`colour = "red"`)); err == nil {
		t.Error("decodeScene accepted an unknown field")
	}
}

func TestSceneModes(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Scene)
		wantErr bool
	}{
		{"valid", func(*Scene) {}, false},
		{"no font", func(s *Scene) { s.Font = "" }, true},
		{"zero width", func(s *Scene) { s.Width = 0 }, true},
		{"zero size", func(s *Scene) { s.Size = 0 }, true},
		{"bad blend", func(s *Scene) { s.Blend = "screen" }, true},
		{"bad filter", func(s *Scene) { s.Filter = "cubic" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultScene()
			s.Font = "a.ttf"
			tt.edit(&s)
			_, _, err := s.modes()
			if (err != nil) != tt.wantErr {
				t.Errorf("modes() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	s := defaultScene()
	s.Font, s.Blend, s.Filter = "a.ttf", "add", "nearest"
	blend, filter, err := s.modes()
	if err != nil || blend != gfx.BlendAdd || filter != gputypes.FilterModeNearest {
		t.Errorf("modes() = %v, %v, %v", blend, filter, err)
	}
}

func TestRender(t *testing.T) {
	scene, err := decodeScene(strings.NewReader(sceneTOML))
	if err != nil {
		t.Fatal(err)
	}
	fsys := fstest.MapFS{"fonts/go.ttf": {Data: goregular.TTF}}

	dev, err := render(scene, fsys)
	if err != nil {
		t.Fatal(err)
	}
	if !inked(dev.Target(), color.RGBA{A: 255}) {
		t.Error("rendered image is blank")
	}
	// Two sizes, two fonts, both released by the service on return.
	if got := dev.Count(software.OpCreate); got < 2 {
		t.Errorf("atlas textures created = %d, want at least 2", got)
	}
	if dev.LiveTextures() != 0 {
		t.Errorf("live textures = %d, want 0", dev.LiveTextures())
	}
}

func TestRender_MissingFont(t *testing.T) {
	scene := defaultScene()
	scene.Font = "nope.ttf"
	scene.Text = []Line{{Value: "x"}}
	if _, err := render(scene, fstest.MapFS{}); err == nil {
		t.Error("render with a missing font succeeded")
	}
}
