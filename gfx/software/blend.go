package software

import (
	"image"

	"github.com/gogpu/gputypes"
)

// composite blends src onto dst at r with the fixed-function equation a
// GPU would run for state. Channels are the stored 8-bit values in [0, 1];
// src's origin maps to r.Min.
func composite(dst *image.RGBA, r image.Rectangle, src *image.RGBA, state gputypes.BlendState) {
	clip := r.Intersect(dst.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			si := src.PixOffset(x-r.Min.X, y-r.Min.Y)
			di := dst.PixOffset(x, y)
			var s, d [4]float32
			for i := range 4 {
				s[i] = float32(src.Pix[si+i]) / 255
				d[i] = float32(dst.Pix[di+i]) / 255
			}
			for i := range 3 {
				dst.Pix[di+i] = unorm(blendChannel(state.Color, s, d, i))
			}
			dst.Pix[di+3] = unorm(blendChannel(state.Alpha, s, d, 3))
		}
	}
}

// blendChannel evaluates one channel i of the blend equation.
func blendChannel(c gputypes.BlendComponent, s, d [4]float32, i int) float32 {
	a := s[i] * factor(c.SrcFactor, s, d, i)
	b := d[i] * factor(c.DstFactor, s, d, i)
	switch c.Operation {
	case gputypes.BlendOperationSubtract:
		return a - b
	case gputypes.BlendOperationReverseSubtract:
		return b - a
	case gputypes.BlendOperationMin:
		return min(s[i], d[i])
	case gputypes.BlendOperationMax:
		return max(s[i], d[i])
	default:
		return a + b
	}
}

// factor returns the multiplier for channel i. Constant factors are not
// supported and act as One.
func factor(f gputypes.BlendFactor, s, d [4]float32, i int) float32 {
	switch f {
	case gputypes.BlendFactorZero:
		return 0
	case gputypes.BlendFactorSrc:
		return s[i]
	case gputypes.BlendFactorOneMinusSrc:
		return 1 - s[i]
	case gputypes.BlendFactorSrcAlpha:
		return s[3]
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - s[3]
	case gputypes.BlendFactorDst:
		return d[i]
	case gputypes.BlendFactorOneMinusDst:
		return 1 - d[i]
	case gputypes.BlendFactorDstAlpha:
		return d[3]
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 1 - d[3]
	case gputypes.BlendFactorSrcAlphaSaturated:
		if i == 3 {
			return 1
		}
		return min(s[3], 1-d[3])
	default:
		return 1
	}
}

func unorm(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	default:
		return uint8(v*255 + 0.5)
	}
}
