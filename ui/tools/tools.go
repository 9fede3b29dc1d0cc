// Package tools defines the editor tool set and the keyboard shortcut
// mapping onto editor actions.
package tools

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"fyne.io/fyne/v2"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// Tool identifies the active interaction tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolBrush
	ToolFill
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "Select"
	case ToolBrush:
		return "Brush"
	case ToolFill:
		return "Fill"
	default:
		return "Unknown"
	}
}

// Actions is implemented by the main window. Shortcut handling talks to
// the editor only through it.
type Actions interface {
	// SetTool switches the active tool. Switching to the brush tool
	// reuses or creates the sticky brush layer on the next stroke.
	SetTool(t Tool)
	// InsertDefaultLayer inserts a default-initialized layer of the kind
	// and returns to the select tool.
	InsertDefaultLayer(kind layer.Kind)
	// AdjustBrushSize changes the brush size by delta canvas units.
	AdjustBrushSize(delta float64)
}

// HandleKey dispatches a key press to the matching action. Returns false
// when the key is not a tool shortcut.
func HandleKey(key fyne.KeyName, a Actions) bool {
	switch key {
	case fyne.KeyV:
		a.SetTool(ToolSelect)
	case fyne.KeyB:
		a.SetTool(ToolBrush)
	case fyne.KeyF:
		a.SetTool(ToolFill)
	case fyne.KeyT:
		a.InsertDefaultLayer(layer.KindText)
	case fyne.KeyR:
		a.InsertDefaultLayer(layer.KindRect)
	case fyne.KeyO:
		a.InsertDefaultLayer(layer.KindCircle)
	case fyne.KeyL:
		a.InsertDefaultLayer(layer.KindLine)
	case fyne.KeyS:
		a.InsertDefaultLayer(layer.KindStar)
	case fyne.KeyLeftBracket:
		a.AdjustBrushSize(-2)
	case fyne.KeyRightBracket:
		a.AdjustBrushSize(2)
	default:
		return false
	}
	return true
}

// ImportedLayer builds an image or texture layer from externally supplied
// file bytes (PNG or JPEG). The layer takes the bitmap's natural size and
// is centered on the canvas; source is kept for re-resolution after the
// document round-trips through serialization.
func ImportedLayer(kind layer.Kind, source string, data []byte) (*layer.Layer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", source, err)
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%q decodes to an empty bitmap", source)
	}

	const center = layer.CanvasSize / 2
	l := &layer.Layer{
		Kind: kind,
		X:    center - w/2,
		Y:    center - h/2,
	}
	switch kind {
	case layer.KindImage:
		l.Name = "Image"
		l.Image = &layer.ImageProps{Source: source, Width: w, Height: h, Bitmap: img}
	case layer.KindTexture:
		l.Name = "Texture"
		l.Texture = &layer.TextureProps{Source: source, Width: w, Height: h, Bitmap: img}
	default:
		return nil, fmt.Errorf("kind %q does not take file bytes", kind)
	}
	return l, nil
}

// DefaultLayer returns the default-initialized layer inserted by the
// insert shortcuts. Image and texture layers are excluded: they require
// externally supplied file bytes (see ImportedLayer).
func DefaultLayer(kind layer.Kind) *layer.Layer {
	const center = layer.CanvasSize / 2
	switch kind {
	case layer.KindText:
		return &layer.Layer{
			Name: "Text", Kind: layer.KindText,
			X: center - 80, Y: center - 20,
			Text: &layer.TextProps{Content: "New Text", FontSize: 36, Color: "#000000"},
		}
	case layer.KindRect:
		return &layer.Layer{
			Name: "Rectangle", Kind: layer.KindRect,
			X: center - 100, Y: center - 50,
			Rect: &layer.RectProps{Width: 200, Height: 100, Fill: "#D32F2F"},
		}
	case layer.KindCircle:
		return &layer.Layer{
			Name: "Circle", Kind: layer.KindCircle,
			X: center, Y: center,
			Circle: &layer.CircleProps{Radius: 60, Fill: "#1976D2"},
		}
	case layer.KindLine:
		return &layer.Layer{
			Name: "Line", Kind: layer.KindLine,
			X: center - 100, Y: center,
			Line: &layer.LineProps{
				Points:      []geometry.Point2D{{X: 0, Y: 0}, {X: 200, Y: 0}},
				Stroke:      "#212121",
				StrokeWidth: 4,
			},
		}
	case layer.KindStar:
		return &layer.Layer{
			Name: "Star", Kind: layer.KindStar,
			X: center, Y: center,
			Star: &layer.StarProps{NumPoints: 5, InnerRadius: 30, OuterRadius: 70, Fill: "#FBC02D"},
		}
	default:
		return nil
	}
}
