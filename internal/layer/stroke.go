package layer

import (
	"fmt"

	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// BlendMode specifies how a brush stroke is composited onto its layer.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so blend modes serialize
// as their names.
func (m BlendMode) MarshalText() ([]byte, error) {
	if m < BlendNormal || m > BlendOverlay {
		return nil, fmt.Errorf("unknown blend mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*m = BlendNormal
	case "multiply":
		*m = BlendMultiply
	case "screen":
		*m = BlendScreen
	case "overlay":
		*m = BlendOverlay
	default:
		return fmt.Errorf("unknown blend mode %q", text)
	}
	return nil
}

// EraserColor is the sentinel stroke color marking an eraser stroke.
// Eraser strokes carve pixels out of the layer with destination-out at
// full strength, ignoring nominal opacity and flow.
const EraserColor = "transparent"

// BrushStroke is one committed polyline stroke on a brush layer.
type BrushStroke struct {
	Points   []geometry.Point2D `json:"points"`
	Color    string             `json:"color"` // #RRGGBB or EraserColor
	Size     float64            `json:"size"`
	Hardness float64            `json:"hardness"` // 0..100
	Opacity  float64            `json:"opacity"`  // 0..1
	Flow     float64            `json:"flow"`     // 0..1
	Blend    BlendMode          `json:"blend"`
}

// IsEraser reports whether the stroke uses the eraser sentinel color.
func (s *BrushStroke) IsEraser() bool {
	return s.Color == EraserColor
}
