// Command ggfontdemo renders text from a TOML scene into a PNG.
//
//	ggfontdemo -config scene.toml
//	ggfontdemo -root /usr/share/fonts -font truetype/dejavu/DejaVuSans.ttf Hello
//
// Font paths are relative to -root. Positional arguments add a line of
// text at (10, 10). With -watch the scene is re-rendered on every save of
// the -config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"

	"github.com/gogpu/ggfont"
	"github.com/gogpu/ggfont/gfx/software"
	"github.com/gogpu/ggfont/registry"
	"github.com/gogpu/ggfont/text"
)

func main() {
	var (
		config  = flag.String("config", "", "TOML scene file")
		root    = flag.String("root", ".", "directory font paths are relative to")
		font    = flag.String("font", "", "font file (overrides scene)")
		size    = flag.Float64("size", 0, "font size in pixels (overrides scene)")
		output  = flag.String("output", "", "output file (overrides scene)")
		verbose = flag.Bool("v", false, "log atlas activity")
		watchIt = flag.Bool("watch", false, "re-render whenever the scene file changes")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	ggfont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	scene := defaultScene()
	if *config != "" {
		var err error
		if scene, err = loadScene(*config); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}
	if *font != "" {
		scene.Font = *font
	}
	if *size > 0 {
		scene.Size = float32(*size)
	}
	if *output != "" {
		scene.Output = *output
	}
	if flag.NArg() > 0 {
		scene.Text = append(scene.Text, Line{X: 10, Y: 10, Value: strings.Join(flag.Args(), " ")})
	}

	fsys := os.DirFS(*root)
	if err := renderToFile(scene, fsys); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if *watchIt {
		if *config == "" {
			log.Fatal("-watch needs -config")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watch(ctx, *config, fsys, renderToFile); err != nil {
			log.Fatalf("Failed to watch: %v", err)
		}
	}
}

// renderToFile renders scene and writes the PNG named by scene.Output.
func renderToFile(scene Scene, fsys fs.FS) error {
	dev, err := render(scene, fsys)
	if err != nil {
		return err
	}
	if err := dev.SavePNG(scene.Output); err != nil {
		return err
	}
	log.Printf("Scene saved to %s (%dx%d)\n", scene.Output, scene.Width, scene.Height)
	return nil
}

// render draws every line of the scene on a software device.
func render(scene Scene, fsys fs.FS) (*software.Device, error) {
	blend, filter, err := scene.modes()
	if err != nil {
		return nil, err
	}

	dev := software.New(scene.Width, scene.Height)
	bg := scene.Background
	dev.Clear(color.RGBA{R: bg[0], G: bg[1], B: bg[2], A: bg[3]})

	opts := []text.Option{text.WithAtlasSize(scene.Atlas, scene.Atlas)}
	if scene.RegionUpload {
		opts = append(opts, text.WithRegionUpload())
	}
	svc := text.NewService(fsys, dev, opts...)
	defer svc.Close()
	svc.SetBlendMode(blend)
	svc.SetFilterMode(filter)

	fontPath := path.Clean(filepath.ToSlash(scene.Font))
	fonts := make(map[float32]registry.Handle)
	for i, line := range scene.Text {
		sz := line.Size
		if sz <= 0 {
			sz = scene.Size
		}
		h, ok := fonts[sz]
		if !ok {
			if h, err = svc.LoadFont(fontPath, sz); err != nil {
				return nil, err
			}
			fonts[sz] = h
		}
		if err := svc.BindFont(h); err != nil {
			return nil, err
		}
		if err := svc.DrawText(line.Value, float32(line.X), float32(line.Y)); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if w, _ := svc.MeasureWidth(line.Value); line.X+w > scene.Width {
			ggfont.Logger().Warn("line exceeds image width", "line", i+1, "width", w)
		}
	}
	return dev, nil
}
