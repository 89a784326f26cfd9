package text

import (
	"github.com/gogpu/ggfont/atlas"
	"github.com/gogpu/ggfont/gfx"
	"github.com/gogpu/ggfont/stash"
)

// DefaultAtlasSize is the initial atlas edge of every loaded font.
const DefaultAtlasSize = 1024

// Option configures a Service.
type Option func(*config)

// config holds configuration for Service.
type config struct {
	atlasWidth   int
	atlasHeight  int
	maxAtlasSize int
	render       *gfx.RenderState
	bridgeOpts   []atlas.Option
}

// defaultConfig returns the default service configuration.
func defaultConfig() config {
	return config{
		atlasWidth:   DefaultAtlasSize,
		atlasHeight:  DefaultAtlasSize,
		maxAtlasSize: stash.DefaultMaxAtlasSize,
	}
}

// WithAtlasSize sets the initial atlas dimensions for fonts loaded
// afterwards. Non-positive values are ignored.
func WithAtlasSize(width, height int) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.atlasWidth, c.atlasHeight = width, height
		}
	}
}

// WithMaxAtlasSize bounds how far a font's atlas may grow.
func WithMaxAtlasSize(n int) Option {
	return func(c *config) {
		c.maxAtlasSize = n
	}
}

// WithRenderState shares rs with the service. Blend and filter changes
// made through the service are written to rs.
func WithRenderState(rs *gfx.RenderState) Option {
	return func(c *config) {
		c.render = rs
	}
}

// WithRegionUpload makes every atlas upload only its changed rectangle
// when the backend supports it.
func WithRegionUpload() Option {
	return func(c *config) {
		c.bridgeOpts = append(c.bridgeOpts, atlas.WithRegionUpload())
	}
}
