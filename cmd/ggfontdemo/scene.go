package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ggfont/gfx"
)

// Scene describes one rendered image.
type Scene struct {
	Font         string   `toml:"font"`
	Size         float32  `toml:"size"`
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
	Background   [4]uint8 `toml:"background"`
	Filter       string   `toml:"filter"`
	Blend        string   `toml:"blend"`
	Atlas        int      `toml:"atlas"`
	RegionUpload bool     `toml:"region_upload"`
	Output       string   `toml:"output"`
	Text         []Line   `toml:"text"`
}

// Line is one string drawn at (X, Y). A zero Size uses the scene size.
type Line struct {
	X     int     `toml:"x"`
	Y     int     `toml:"y"`
	Size  float32 `toml:"size"`
	Value string  `toml:"value"`
}

func defaultScene() Scene {
	return Scene{
		Size:       24,
		Width:      640,
		Height:     240,
		Background: [4]uint8{0x20, 0x20, 0x28, 0xff},
		Filter:     "linear",
		Blend:      "alpha",
		Atlas:      1024,
		Output:     "ggfont.png",
	}
}

// loadScene reads a TOML scene file on top of the defaults.
func loadScene(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, err
	}
	defer f.Close()
	return decodeScene(f)
}

func decodeScene(r io.Reader) (Scene, error) {
	s := defaultScene()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	return s, nil
}

// modes validates the scene and returns its blend and filter modes.
func (s *Scene) modes() (gfx.BlendMode, gputypes.FilterMode, error) {
	if s.Font == "" {
		return 0, 0, errors.New("scene: no font")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return 0, 0, fmt.Errorf("scene: invalid size %dx%d", s.Width, s.Height)
	}
	if s.Size <= 0 {
		return 0, 0, fmt.Errorf("scene: invalid font size %v", s.Size)
	}
	blend, ok := gfx.ParseBlendMode(s.Blend)
	if !ok {
		return 0, 0, fmt.Errorf("scene: unknown blend mode %q", s.Blend)
	}
	filter, ok := gfx.ParseFilterMode(s.Filter)
	if !ok {
		return 0, 0, fmt.Errorf("scene: unknown filter mode %q", s.Filter)
	}
	return blend, filter, nil
}
