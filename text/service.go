package text

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggfont"
	"github.com/gogpu/ggfont/atlas"
	"github.com/gogpu/ggfont/gfx"
	"github.com/gogpu/ggfont/registry"
	"github.com/gogpu/ggfont/stash"
)

// errTruncated reports a read that returned fewer bytes than stat promised.
var errTruncated = errors.New("truncated read")

// Service loads fonts and draws text with the bound one.
type Service struct {
	fsys   fs.FS
	dev    gfx.Device
	cfg    config
	render *gfx.RenderState

	fonts   *registry.Registry[Font]
	current registry.Handle
}

// NewService creates a service reading font files from fsys and drawing
// on dev.
func NewService(fsys fs.FS, dev gfx.Device, opts ...Option) *Service {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	render := cfg.render
	if render == nil {
		render = gfx.DefaultRenderState()
	}
	return &Service{
		fsys:   fsys,
		dev:    dev,
		cfg:    cfg,
		render: render,
		fonts:  registry.New[Font](),
	}
}

// LoadFont reads the font at path and prepares it for drawing at size
// pixels. A file that is not a usable font still loads; drawing with it
// fails with ggfont.ErrInvalidFace. On error nothing is registered.
func (s *Service) LoadFont(path string, size float32) (registry.Handle, error) {
	data, err := readFile(s.fsys, path)
	if err != nil {
		ggfont.Logger().Warn("text: font load failed", "path", path, "err", err)
		return registry.InvalidHandle, &ggfont.LoadError{Path: path, Err: fmt.Errorf("%w: %w", ggfont.ErrIO, err)}
	}

	h, f := s.fonts.Insert(Font{path: path, size: size, data: data})
	f.handle = h
	f.bridge = atlas.New(s.dev, s.render, s.cfg.bridgeOpts...)
	f.stash, err = stash.New(stash.Params{
		Width:        s.cfg.atlasWidth,
		Height:       s.cfg.atlasHeight,
		Flags:        stash.ZeroTopLeft,
		Sink:         f.bridge,
		MaxAtlasSize: s.cfg.maxAtlasSize,
	})
	if err != nil {
		s.fonts.Remove(h)
		ggfont.Logger().Warn("text: atlas creation failed", "path", path, "err", err)
		return registry.InvalidHandle, &ggfont.LoadError{Path: path, Err: err}
	}

	f.faceID, err = f.stash.AddFontMem(path, f.data)
	if err != nil {
		ggfont.Logger().Warn("text: font face rejected", "path", path, "err", err)
	}
	ggfont.Logger().Info("text: font loaded", "path", path, "size", size, "handle", h, "valid", f.Valid())
	return h, nil
}

// readFile reads the whole file, failing when fewer bytes arrive than the
// file's stat size.
func readFile(fsys fs.FS, path string) ([]byte, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != info.Size() {
		return nil, fmt.Errorf("%w: got %d of %d bytes", errTruncated, len(data), info.Size())
	}
	return data, nil
}

// CleanupFont releases the font's rasterizer, bytes and atlas texture and
// removes it from the registry. It reports whether h named a font.
// Cleaning up the bound font clears the binding.
func (s *Service) CleanupFont(h registry.Handle) bool {
	f, ok := s.fonts.Lookup(h)
	if !ok {
		return false
	}
	f.stash.Delete()
	f.stash = nil
	f.data = nil
	s.fonts.Remove(h)
	if s.current == h {
		s.current = registry.InvalidHandle
	}
	ggfont.Logger().Debug("text: font cleaned up", "handle", h)
	return true
}

// BindFont makes h the font used by DrawText and Measure. An unknown
// handle returns ggfont.ErrNotFound and leaves the binding unchanged.
func (s *Service) BindFont(h registry.Handle) error {
	if _, ok := s.fonts.Lookup(h); !ok {
		ggfont.Logger().Warn("text: bind unknown font", "handle", h)
		return fmt.Errorf("text: bind font %d: %w", h, ggfont.ErrNotFound)
	}
	s.current = h
	return nil
}

// Current returns the bound font handle.
func (s *Service) Current() (registry.Handle, bool) {
	if _, ok := s.fonts.Lookup(s.current); !ok {
		return registry.InvalidHandle, false
	}
	return s.current, true
}

// Font returns the font registered under h.
func (s *Service) Font(h registry.Handle) (*Font, bool) {
	return s.fonts.Lookup(h)
}

// Len returns the number of loaded fonts.
func (s *Service) Len() int { return s.fonts.Len() }

// bound resolves the current binding.
func (s *Service) bound() (*Font, error) {
	f, ok := s.fonts.Lookup(s.current)
	if !ok {
		return nil, ggfont.ErrNoFontBound
	}
	if !f.Valid() {
		return nil, fmt.Errorf("text: font %q: %w", f.path, ggfont.ErrInvalidFace)
	}
	if err := f.stash.Err(); err != nil {
		return nil, fmt.Errorf("text: font %q: %w", f.path, err)
	}
	return f, nil
}

// DrawText draws str with its top edge at y. When the atlas cannot grow
// to fit a glyph the font is disabled: this and every later call on it
// fail with ggfont.ErrAtlasAllocation.
func (s *Service) DrawText(str string, x, y float32) error {
	f, err := s.bound()
	if err != nil {
		return err
	}
	f.configure()
	_, _, lineh := f.stash.VertMetrics()
	f.stash.DrawText(x, y+lineh, str)
	if err := f.stash.Err(); err != nil {
		ggfont.Logger().Error("text: font atlas lost", "path", f.path, "handle", f.handle, "err", err)
		return fmt.Errorf("text: font %q: %w", f.path, err)
	}
	return nil
}

// Measure returns the advance width of str and the font's line height,
// both truncated to whole pixels. Nothing is drawn and the binding is
// unchanged.
func (s *Service) Measure(str string) (width, height int, err error) {
	f, err := s.bound()
	if err != nil {
		return 0, 0, err
	}
	f.configure()
	advance, _ := f.stash.TextBounds(0, 0, str)
	_, _, lineh := f.stash.VertMetrics()
	return int(advance), int(lineh), nil
}

// MeasureWidth returns the advance width of str.
func (s *Service) MeasureWidth(str string) (int, error) {
	w, _, err := s.Measure(str)
	return w, err
}

// MeasureHeight returns the line height of the bound font. str does not
// affect the result.
func (s *Service) MeasureHeight(str string) (int, error) {
	_, h, err := s.Measure(str)
	return h, err
}

// SetBlendMode sets the blend mode used by every subsequent glyph batch.
func (s *Service) SetBlendMode(mode gfx.BlendMode) {
	s.render.Blend = mode
}

// SetFilterMode sets the sampling filter of atlas textures. It applies to
// textures created afterwards, by new fonts or atlas resizes.
func (s *Service) SetFilterMode(mode gputypes.FilterMode) {
	s.render.Filter = mode
}

// RenderState returns a copy of the shared render state.
func (s *Service) RenderState() gfx.RenderState {
	return *s.render
}

// Close cleans up every loaded font.
func (s *Service) Close() {
	for _, h := range s.fonts.Handles() {
		s.CleanupFont(h)
	}
	s.current = registry.InvalidHandle
}
