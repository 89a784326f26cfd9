// Package ggfont renders text through a GPU glyph atlas.
//
// A font is loaded once per size. Its glyphs are rasterized on demand by
// an incremental rasterizer (package stash), which packs coverage bitmaps
// into a single-channel atlas. The atlas bridge (package atlas) mirrors
// that atlas into an RGBA8 buffer, keeps a GPU texture in sync with it,
// and turns the rasterizer's vertex stream into textured-rect draw calls
// on a gfx.Device.
//
// # Packages
//
//   - registry: opaque numeric handles for engine resources
//   - pixbuf: coverage and RGBA8 pixel buffers
//   - gfx: the GPU backend contract, plus gfx/software for CPU rendering
//   - stash: glyph rasterization, shaping and atlas packing
//   - atlas: the atlas bridge and glyph batch emitter
//   - text: font loading, binding, drawing and measuring
//   - engine: status-code API on top of text
//
// # Example usage
//
//	dev := software.New(640, 480)
//	svc := text.NewService(os.DirFS("assets"), dev)
//	defer svc.Close()
//
//	h, err := svc.LoadFont("fonts/Go-Regular.ttf", 24)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.BindFont(h); err != nil {
//	    log.Fatal(err)
//	}
//	_ = svc.DrawText("Hello, GoGPU!", 10, 10)
//
// # Logging
//
// ggfont is silent by default. Call SetLogger to route diagnostics to a
// log/slog logger.
package ggfont
