package transform

import (
	"math"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

const (
	// SnapThreshold is how close, in canvas units, a bounding-box center
	// must be to a canvas centerline for that axis to snap.
	SnapThreshold = 10

	centerline = layer.CanvasSize / 2
)

// Gesture identifies the kind of interactive transform in progress.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureDrag
	GestureResize
	GestureRotate
)

// Live is the engine-local transform state of the active gesture. It feeds
// rendering directly; the document sees nothing until the gesture ends.
type Live struct {
	LayerID  string
	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
}

// Engine runs one transform gesture at a time. All document writes happen
// at gesture end, in a single history commit.
type Engine struct {
	session *document.Session

	gesture Gesture
	layerID string

	startPointer geometry.Point2D
	start        Live
	live         Live

	snapX, snapY bool
}

// NewEngine creates a transform engine over the given session.
func NewEngine(session *document.Session) *Engine {
	return &Engine{session: session}
}

// canTransform reports whether the layer accepts transform gestures:
// it must exist, be unlocked, and brush layers transform only when
// explicitly allowed (the select tool).
func (e *Engine) canTransform(l *layer.Layer, allowBrush bool) bool {
	if l == nil || l.Locked {
		return false
	}
	if l.Kind == layer.KindBrush && !allowBrush {
		return false
	}
	return true
}

// BeginDrag starts a move gesture. allowBrush is true under the select
// tool, where brush layers are draggable like any other.
func (e *Engine) BeginDrag(id string, pointer geometry.Point2D, allowBrush bool) bool {
	return e.begin(GestureDrag, id, pointer, allowBrush)
}

// BeginResize starts a scale gesture.
func (e *Engine) BeginResize(id string, pointer geometry.Point2D, allowBrush bool) bool {
	return e.begin(GestureResize, id, pointer, allowBrush)
}

// BeginRotate starts a rotation gesture. Rotation is unconstrained.
func (e *Engine) BeginRotate(id string, pointer geometry.Point2D, allowBrush bool) bool {
	return e.begin(GestureRotate, id, pointer, allowBrush)
}

func (e *Engine) begin(g Gesture, id string, pointer geometry.Point2D, allowBrush bool) bool {
	if e.gesture != GestureNone {
		return false
	}
	l := e.session.Store.Find(id)
	if !e.canTransform(l, allowBrush) {
		return false
	}
	e.gesture = g
	e.layerID = id
	e.startPointer = pointer
	e.start = Live{
		LayerID:  id,
		X:        l.X,
		Y:        l.Y,
		Rotation: l.Rotation,
		ScaleX:   l.ScaleX,
		ScaleY:   l.ScaleY,
	}
	e.live = e.start
	e.snapX, e.snapY = false, false
	return true
}

// DragTo updates the live position from the current pointer and re-evaluates
// center snapping. Snapping adjusts each axis independently whenever the
// transformed bounding-box center comes within SnapThreshold of a canvas
// centerline.
func (e *Engine) DragTo(pointer geometry.Point2D) {
	if e.gesture != GestureDrag {
		return
	}
	delta := pointer.Sub(e.startPointer)
	e.live.X = e.start.X + delta.X
	e.live.Y = e.start.Y + delta.Y
	e.applySnap()
}

// ScaleTo updates the live scale by factors relative to the gesture start.
// Raster image layers are aspect-locked: the X factor drives both axes.
func (e *Engine) ScaleTo(factorX, factorY float64) {
	if e.gesture != GestureResize {
		return
	}
	l := e.session.Store.Find(e.layerID)
	if l == nil {
		return
	}
	if l.Kind == layer.KindImage {
		factorY = factorX
	}
	e.live.ScaleX = e.start.ScaleX * factorX
	e.live.ScaleY = e.start.ScaleY * factorY
	e.applySnap()
}

// RotateTo sets the live rotation in degrees.
func (e *Engine) RotateTo(deg float64) {
	if e.gesture != GestureRotate {
		return
	}
	e.live.Rotation = deg
}

// applySnap nudges the live position so the transformed bounding-box
// center lands exactly on a centerline it is within threshold of.
func (e *Engine) applySnap() {
	l := e.session.Store.Find(e.layerID)
	if l == nil {
		return
	}
	t := geometry.LayerTransform(e.live.X, e.live.Y, e.live.Rotation, e.live.ScaleX, e.live.ScaleY)
	center := TransformedBounds(l, t).Center()

	e.snapX = math.Abs(center.X-centerline) <= SnapThreshold
	if e.snapX {
		e.live.X += centerline - center.X
	}
	e.snapY = math.Abs(center.Y-centerline) <= SnapThreshold
	if e.snapY {
		e.live.Y += centerline - center.Y
	}
}

// Guides reports which centerline guides are active for the current
// gesture, x and y independently.
func (e *Engine) Guides() (x, y bool) {
	if e.gesture == GestureNone {
		return false, false
	}
	return e.snapX, e.snapY
}

// Live returns the engine-local transform override for rendering, or nil
// when no gesture is active.
func (e *Engine) Live() *Live {
	if e.gesture == GestureNone {
		return nil
	}
	live := e.live
	return &live
}

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool {
	return e.gesture != GestureNone
}

// Gesture returns the kind of gesture in progress, GestureNone when idle.
func (e *Engine) Gesture() Gesture {
	return e.gesture
}

// End finalizes the gesture: the live transform is written to the document
// in one step and one history entry is committed. Rect layers bake the
// scale into their literal width/height and reset scale to 1, preserving
// stroke width and corner radius rendering. Releasing the pointer outside
// the canvas ends the gesture the same way.
func (e *Engine) End() {
	if e.gesture == GestureNone {
		return
	}
	live := e.live
	start := e.start
	e.gesture = GestureNone
	e.snapX, e.snapY = false, false

	store := e.session.Store
	if live == start {
		return
	}

	l := store.Find(e.layerID)
	if l == nil {
		return
	}

	if l.Kind == layer.KindRect && (live.ScaleX != start.ScaleX || live.ScaleY != start.ScaleY) {
		store.Mutate(e.layerID, func(l *layer.Layer) {
			l.Rect.Width *= live.ScaleX / start.ScaleX
			l.Rect.Height *= live.ScaleY / start.ScaleY
			l.X = live.X
			l.Y = live.Y
			l.Rotation = live.Rotation
			l.ScaleX = 1
			l.ScaleY = 1
		})
	} else {
		store.UpdateLayer(e.layerID, document.Patch{
			X:        &live.X,
			Y:        &live.Y,
			Rotation: &live.Rotation,
			ScaleX:   &live.ScaleX,
			ScaleY:   &live.ScaleY,
		})
	}
	e.session.Commit()
}
