// Package brush captures pointer gestures into raster strokes on brush
// layers and rasterizes them.
package brush

import (
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// Settings holds the active brush parameters.
type Settings struct {
	Size      float64
	Hardness  float64 // 0..100
	Opacity   float64 // 0..1
	Flow      float64 // 0..1
	Spacing   float64 // percent of size between samples
	Smoothing float64 // 0..1
	Color     string  // #RRGGBB
	Blend     layer.BlendMode
	Eraser    bool
}

// DefaultSettings returns the brush defaults used when the tool activates.
func DefaultSettings() Settings {
	return Settings{
		Size:     20,
		Hardness: 100,
		Opacity:  1,
		Flow:     1,
		Spacing:  10,
		Color:    "#000000",
		Blend:    layer.BlendNormal,
	}
}

// Engine turns pointer gestures into strokes. While a gesture is active the
// growing stroke lives only in the engine's preview slot; it reaches the
// document (and becomes history-eligible) in one step at gesture end.
type Engine struct {
	session  *document.Session
	Settings Settings

	toolActive bool
	stickyID   string // brush layer reused across strokes while the tool stays active

	drawing bool
	last    geometry.Point2D // last recorded sample, or the gesture anchor
	preview *layer.BrushStroke
}

// NewEngine creates a brush engine over the given session.
func NewEngine(session *document.Session) *Engine {
	return &Engine{session: session, Settings: DefaultSettings()}
}

// ActivateTool marks the brush tool active. A brush layer selected while
// the tool stays continuously active becomes the sticky target for
// subsequent strokes.
func (e *Engine) ActivateTool() {
	if e.toolActive {
		return
	}
	e.toolActive = true
	// Stickiness never survives a tool switch; only an explicit brush-layer
	// reselection while the tool is active rebinds it.
	e.stickyID = ""
}

// DeactivateTool marks the tool inactive and drops stroke stickiness.
func (e *Engine) DeactivateTool() {
	e.toolActive = false
	e.stickyID = ""
	e.cancel()
}

// NotifySelection records an explicit brush-layer reselection while the
// tool is active.
func (e *Engine) NotifySelection(id string) {
	if !e.toolActive {
		return
	}
	if l := e.session.Store.Find(id); l != nil && l.Kind == layer.KindBrush {
		e.stickyID = id
	}
}

// SpacingDistance returns the minimum travel, in canvas units, between two
// recorded samples.
func (e *Engine) SpacingDistance() float64 {
	d := e.Settings.Size * e.Settings.Spacing / 100
	if d < 1 {
		d = 1
	}
	return d
}

// PointerDown starts a stroke gesture at a canvas-local coordinate. The
// down position anchors the sampler; the first recorded point comes from
// the first qualifying move, so a bare click records nothing.
func (e *Engine) PointerDown(p geometry.Point2D) {
	if !e.toolActive || e.drawing {
		return
	}
	e.drawing = true
	e.last = p

	s := e.Settings
	stroke := &layer.BrushStroke{
		Color:    s.Color,
		Size:     s.Size,
		Hardness: s.Hardness,
		Opacity:  s.Opacity,
		Flow:     s.Flow,
		Blend:    s.Blend,
	}
	if s.Eraser {
		stroke.Color = layer.EraserColor
	}
	e.preview = stroke
}

// PointerMove extends the active gesture. The raw point is first blended
// toward the previous point by the smoothing factor, then recorded only if
// it traveled at least the spacing distance.
func (e *Engine) PointerMove(p geometry.Point2D) {
	if !e.drawing {
		return
	}

	if s := e.Settings.Smoothing; s > 0 {
		k := 1 - s*0.5
		p = geometry.Point2D{
			X: e.last.X + (p.X-e.last.X)*k,
			Y: e.last.Y + (p.Y-e.last.Y)*k,
		}
	}

	if e.last.Distance(p) < e.SpacingDistance() {
		return
	}
	e.preview.Points = append(e.preview.Points, p)
	e.last = p
}

// PointerUp ends the gesture. A stroke with at least two points replaces
// the preview with a committed stroke on the target brush layer and pushes
// exactly one history entry; shorter strokes are discarded. The pointer
// leaving the canvas is handled identically.
func (e *Engine) PointerUp() {
	if !e.drawing {
		return
	}
	stroke := e.preview
	e.drawing = false
	e.preview = nil

	if stroke == nil || len(stroke.Points) < 2 {
		return
	}

	store := e.session.Store
	targetID := e.stickyID
	if store.Find(targetID) == nil {
		targetID = store.AddLayer(&layer.Layer{
			Name:  "Brush",
			Kind:  layer.KindBrush,
			Brush: &layer.BrushProps{},
		})
		if targetID == "" {
			return
		}
		e.stickyID = targetID
		store.SetSelection(targetID)
	}

	store.Mutate(targetID, func(l *layer.Layer) {
		if l.Kind == layer.KindBrush {
			l.Brush.Strokes = append(l.Brush.Strokes, *stroke)
		}
	})
	e.session.Commit()
}

// Preview returns the in-progress stroke, or nil. It is rendered on top of
// the sticky layer's committed strokes but is invisible to history.
func (e *Engine) Preview() *layer.BrushStroke {
	if !e.drawing {
		return nil
	}
	return e.preview
}

// PreviewLayerID returns the layer the preview stroke will land on, or ""
// when a fresh layer would be created at commit.
func (e *Engine) PreviewLayerID() string {
	if e.session.Store.Find(e.stickyID) != nil {
		return e.stickyID
	}
	return ""
}

// Drawing reports whether a stroke gesture is active.
func (e *Engine) Drawing() bool {
	return e.drawing
}

func (e *Engine) cancel() {
	e.drawing = false
	e.preview = nil
}
