package gfx

import "github.com/gogpu/gputypes"

// BlendMode selects how drawn texels combine with the target.
type BlendMode uint8

// Blend modes.
const (
	// BlendNone replaces the destination.
	BlendNone BlendMode = iota
	// BlendAlpha is standard source-over alpha blending.
	BlendAlpha
	// BlendAdd adds source color scaled by source alpha.
	BlendAdd
	// BlendMod multiplies the destination by the source color.
	BlendMod
	// BlendMul multiplies, keeping the destination where source is transparent.
	BlendMul
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendAlpha:
		return "alpha"
	case BlendAdd:
		return "add"
	case BlendMod:
		return "mod"
	case BlendMul:
		return "mul"
	default:
		return "unknown"
	}
}

// ParseBlendMode returns the blend mode with the given name.
func ParseBlendMode(name string) (BlendMode, bool) {
	for m := BlendNone; m <= BlendMul; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return BlendAlpha, false
}

// State returns the pipeline blend state for m.
func (m BlendMode) State() gputypes.BlendState {
	switch m {
	case BlendNone:
		return gputypes.BlendStateReplace()
	case BlendAdd:
		return gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorZero,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case BlendMod:
		return gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorDst,
				DstFactor: gputypes.BlendFactorZero,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorZero,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case BlendMul:
		return gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorDst,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorDst,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	default:
		return gputypes.BlendStateAlpha()
	}
}

// ParseFilterMode returns the filter mode with the given name
// ("nearest" or "linear").
func ParseFilterMode(name string) (gputypes.FilterMode, bool) {
	switch name {
	case "nearest":
		return gputypes.FilterModeNearest, true
	case "linear":
		return gputypes.FilterModeLinear, true
	default:
		return gputypes.FilterModeLinear, false
	}
}
