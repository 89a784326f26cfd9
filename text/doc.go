// Package text loads fonts and draws or measures text with the currently
// bound font.
//
// A Service owns a registry of fonts. Each font has its own rasterizer
// (stash.Context) and atlas texture (atlas.Bridge). Callers refer to fonts
// by registry.Handle, bind one, and then draw or measure:
//
//	svc := text.NewService(os.DirFS("assets"), dev)
//	h, err := svc.LoadFont("fonts/regular.ttf", 24)
//	if err != nil {
//		return err
//	}
//	if err := svc.BindFont(h); err != nil {
//		return err
//	}
//	svc.DrawText("Hello", 10, 10)
//
// DrawText positions text by its top edge: y is offset by the font's line
// height before the glyphs are placed on the baseline.
//
// A Service is not safe for concurrent use. Keep one per thread that owns
// a GPU context.
package text
