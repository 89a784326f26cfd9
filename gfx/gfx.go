// Package gfx is the contract between ggfont and a GPU backend.
//
// ggfont needs very little from the GPU: dynamic RGBA8 textures that can
// be re-uploaded, one sampling slot, a blend mode, a translate-only
// transform stack and an immediate-mode textured rectangle. Backends
// implement Device and register a factory under a name; gfx/software is
// the CPU implementation used by tests and the demo.
//
// Textures satisfy gpucontext.Texture and gpucontext.TextureUpdater so
// they interoperate with other gogpu packages. Backends that can upload
// sub-rectangles additionally implement gpucontext.TextureRegionUpdater.
package gfx

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when no backend is registered
	// under the requested name.
	ErrBackendNotAvailable = errors.New("gfx: backend not available")

	// ErrInvalidTextureSize is returned when a texture is requested with
	// non-positive dimensions or data of the wrong length is uploaded.
	ErrInvalidTextureSize = errors.New("gfx: invalid texture size")

	// ErrUnsupportedFormat is returned for texture formats a backend
	// cannot allocate.
	ErrUnsupportedFormat = errors.New("gfx: unsupported texture format")

	// ErrTextureDestroyed is returned when uploading to a destroyed texture.
	ErrTextureDestroyed = errors.New("gfx: texture destroyed")
)

// Texture is a GPU texture created by a Device.
type Texture interface {
	gpucontext.Texture
	gpucontext.TextureUpdater
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Device is an immediate-mode 2D GPU device.
//
// All methods are called from the thread that owns the GPU context.
type Device interface {
	// CreateTexture allocates a texture described by desc and sampled
	// with the given filter for both minification and magnification.
	CreateTexture(desc *gputypes.TextureDescriptor, filter gputypes.FilterMode) (Texture, error)

	// DestroyTexture releases tex. Destroying a texture twice is a no-op.
	DestroyTexture(tex Texture)

	// BindTexture makes tex the sampling source for slot.
	BindTexture(slot int, tex Texture)

	// UnbindTexture clears slot.
	UnbindTexture(slot int)

	// SetBlendMode sets the blend mode for subsequent draws.
	SetBlendMode(mode BlendMode)

	// PushTransform saves the current transform.
	PushTransform()

	// PopTransform restores the most recently saved transform.
	PopTransform()

	// Translate moves the origin of the current transform.
	Translate(x, y float32)

	// DrawTexturedRect draws dst, in the current transform's space,
	// sampling src (in texel units) from the texture bound to slot.
	DrawTexturedRect(slot int, dst, src Rect)
}

// AtlasFormat is the pixel format of every glyph atlas texture.
const AtlasFormat = gputypes.TextureFormatRGBA8Unorm

// AtlasTextureDescriptor describes a dynamic, sampled RGBA8 atlas texture.
func AtlasTextureDescriptor(width, height int) *gputypes.TextureDescriptor {
	return &gputypes.TextureDescriptor{
		Label:         "ggfont.atlas",
		Size:          gputypes.NewExtent2D(uint32(width), uint32(height)), //nolint:gosec // validated positive by callers
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        AtlasFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// RenderState is the engine-wide state read by every atlas: the blend
// mode applied when glyph batches are drawn and the filter used when
// atlas textures are created.
type RenderState struct {
	Blend  BlendMode
	Filter gputypes.FilterMode
}

// DefaultRenderState returns alpha blending with linear filtering.
func DefaultRenderState() *RenderState {
	return &RenderState{
		Blend:  BlendAlpha,
		Filter: gputypes.FilterModeLinear,
	}
}
