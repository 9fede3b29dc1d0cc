package canvas

import (
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/brush"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/compositor"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/fill"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/transform"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/tools"
)

const (
	minZoom = 0.25
	maxZoom = 8.0
	zoomStep = 1.25

	fillTolerance = 32
)

// Editor is the interactive wrap canvas. It renders the composited
// document scaled by the current zoom and routes pointer events to the
// brush, transform and fill tools.
type Editor struct {
	widget.BaseWidget

	session *document.Session
	brush   *brush.Engine
	xform   *transform.Engine

	raster  *fynecanvas.Raster
	content *pointerArea
	scroll  *zoomScroll

	mu       sync.Mutex
	tool     tools.Tool
	zoom     float64
	overlays bool

	cursor       geometry.Point2D
	cursorInside bool

	// handle-gesture reference state, captured at pointer-down
	gestureCenter   geometry.Point2D
	gesturePointer  geometry.Point2D
	gestureRotation float64

	fillColor string

	// last full-resolution composite, kept for fill seeding and for
	// callers that want the current rendered frame
	composite *image.RGBA
}

// NewEditor builds an editor bound to the given session and tool engines.
func NewEditor(session *document.Session, b *brush.Engine, x *transform.Engine) *Editor {
	e := &Editor{
		session:   session,
		brush:     b,
		xform:     x,
		tool:      tools.ToolSelect,
		zoom:      1.0,
		overlays:  true,
		fillColor: "#D32F2F",
	}
	e.ExtendBaseWidget(e)

	e.raster = fynecanvas.NewRaster(e.draw)
	e.content = newPointerArea(e)
	e.scroll = newZoomScroll(e, e.content)

	e.session.Store.On(document.EventDocumentChanged, func(any) { e.Refresh() })
	e.session.Store.On(document.EventSelectionChanged, func(any) { e.Refresh() })

	e.updateContentSize()
	return e
}

// CreateRenderer implements fyne.Widget.
func (e *Editor) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(e.scroll)
}

// SetTool switches the active tool. The brush engine is told about
// activation so its sticky layer binding resets.
func (e *Editor) SetTool(t tools.Tool) {
	e.mu.Lock()
	prev := e.tool
	e.tool = t
	e.mu.Unlock()
	if prev == t {
		return
	}
	if t == tools.ToolBrush {
		e.brush.ActivateTool()
	} else if prev == tools.ToolBrush {
		e.brush.DeactivateTool()
	}
	e.Refresh()
}

// Tool returns the active tool.
func (e *Editor) Tool() tools.Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetFillColor sets the color used by the fill tool for new fill layers.
func (e *Editor) SetFillColor(hex string) {
	e.mu.Lock()
	e.fillColor = hex
	e.mu.Unlock()
}

// Composite returns the most recently rendered full-resolution frame.
// It may be nil before the first draw.
func (e *Editor) Composite() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.composite
}

// OverlaysVisible reports whether selection chrome and guides are drawn.
func (e *Editor) OverlaysVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlays
}

// SetOverlaysVisible toggles selection chrome, guides and the brush
// cursor. Export uses this to capture a clean frame.
func (e *Editor) SetOverlaysVisible(v bool) {
	e.mu.Lock()
	e.overlays = v
	e.mu.Unlock()
	e.Refresh()
}

// Zoom returns the current zoom factor.
func (e *Editor) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

// ZoomIn increases the zoom one step.
func (e *Editor) ZoomIn() { e.setZoom(e.Zoom() * zoomStep) }

// ZoomOut decreases the zoom one step.
func (e *Editor) ZoomOut() { e.setZoom(e.Zoom() / zoomStep) }

// ZoomReset returns to 1:1.
func (e *Editor) ZoomReset() { e.setZoom(1.0) }

func (e *Editor) setZoom(z float64) {
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	e.mu.Lock()
	e.zoom = z
	e.mu.Unlock()
	e.updateContentSize()
	e.Refresh()
}

func (e *Editor) updateContentSize() {
	z := e.Zoom()
	side := float32(float64(layer.CanvasSize) * z)
	e.content.Resize(fyne.NewSize(side, side))
	e.raster.Resize(fyne.NewSize(side, side))
}

// toCanvas converts a position inside the scrolled content to
// canvas-space coordinates.
func (e *Editor) toCanvas(pos fyne.Position) geometry.Point2D {
	z := e.Zoom()
	off := e.scroll.Offset()
	return geometry.Point2D{
		X: (float64(pos.X) + float64(off.X)) / z,
		Y: (float64(pos.Y) + float64(off.Y)) / z,
	}
}

// hitTest returns the id of the topmost visible layer whose transformed
// bounds contain p, or "" when nothing is hit.
func (e *Editor) hitTest(p geometry.Point2D) string {
	for _, l := range e.session.Store.Layers() {
		if !l.Visible {
			continue
		}
		if transform.TransformedBounds(l, l.Transform()).Contains(p) {
			return l.ID
		}
	}
	return ""
}

func (e *Editor) pointerDown(p geometry.Point2D) {
	switch e.Tool() {
	case tools.ToolBrush:
		e.brush.PointerDown(p)
	case tools.ToolSelect:
		if e.beginHandleGesture(p) {
			break
		}
		id := e.hitTest(p)
		e.session.Store.SetSelection(id)
		if id != "" {
			e.xform.BeginDrag(id, p, true)
		}
	}
	e.Refresh()
}

// beginHandleGesture starts a resize or rotate gesture when the pointer
// lands on one of the selection's handles. Corner handles scale, the
// stem handle above the bounding box rotates.
func (e *Editor) beginHandleGesture(p geometry.Point2D) bool {
	sel := e.session.Store.Selected()
	if sel == nil {
		return false
	}
	b := transform.TransformedBounds(sel, sel.Transform())
	tol := handleHitRadius / e.Zoom()
	center := b.Center()

	rotateAt := geometry.Point2D{X: center.X, Y: b.Y - rotateHandleOffset}
	if p.Distance(rotateAt) <= tol {
		if !e.xform.BeginRotate(sel.ID, p, true) {
			return false
		}
		e.mu.Lock()
		e.gestureCenter = center
		e.gesturePointer = p
		e.gestureRotation = sel.Rotation
		e.mu.Unlock()
		return true
	}

	for _, c := range b.Corners() {
		if p.Distance(c) > tol {
			continue
		}
		if !e.xform.BeginResize(sel.ID, p, true) {
			return false
		}
		e.mu.Lock()
		e.gestureCenter = center
		e.gesturePointer = p
		e.mu.Unlock()
		return true
	}
	return false
}

func (e *Editor) pointerMove(p geometry.Point2D) {
	switch e.Tool() {
	case tools.ToolBrush:
		e.brush.PointerMove(p)
	case tools.ToolSelect:
		switch e.xform.Gesture() {
		case transform.GestureDrag:
			e.xform.DragTo(p)
		case transform.GestureResize:
			e.xform.ScaleTo(e.resizeFactors(p))
		case transform.GestureRotate:
			e.xform.RotateTo(e.rotationAt(p))
		}
	}
	e.Refresh()
}

// resizeFactors derives per-axis scale factors from the pointer's travel
// away from the bounding-box center, relative to where the grab started.
func (e *Editor) resizeFactors(p geometry.Point2D) (float64, float64) {
	e.mu.Lock()
	center := e.gestureCenter
	start := e.gesturePointer
	e.mu.Unlock()

	fx, fy := 1.0, 1.0
	if d := start.X - center.X; math.Abs(d) > 1e-6 {
		fx = (p.X - center.X) / d
	}
	if d := start.Y - center.Y; math.Abs(d) > 1e-6 {
		fy = (p.Y - center.Y) / d
	}
	return fx, fy
}

// rotationAt derives the live rotation from the pointer's swing around
// the bounding-box center.
func (e *Editor) rotationAt(p geometry.Point2D) float64 {
	e.mu.Lock()
	center := e.gestureCenter
	start := e.gesturePointer
	base := e.gestureRotation
	e.mu.Unlock()

	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	a1 := math.Atan2(p.Y-center.Y, p.X-center.X)
	return base + (a1-a0)*180/math.Pi
}

func (e *Editor) pointerUp() {
	switch e.Tool() {
	case tools.ToolBrush:
		e.brush.PointerUp()
	case tools.ToolSelect:
		if e.xform.Active() {
			e.xform.End()
		}
	}
	e.Refresh()
}

func (e *Editor) tapped(p geometry.Point2D) {
	switch e.Tool() {
	case tools.ToolSelect:
		e.session.Store.SetSelection(e.hitTest(p))
	case tools.ToolFill:
		e.applyFill(p)
	}
	e.Refresh()
}

func (e *Editor) applyFill(p geometry.Point2D) {
	src := e.Composite()
	if src == nil {
		return
	}
	x, y := int(p.X), int(p.Y)
	mask := fill.ComputeMask(src, x, y, fillTolerance)
	if len(mask) == 0 {
		return
	}
	e.mu.Lock()
	hex := e.fillColor
	e.mu.Unlock()
	l := fill.NewLayer(mask, hex)
	id := e.session.Store.AddLayer(l)
	if id == "" {
		log.Printf("fill layer rejected at (%d,%d)", x, y)
		return
	}
	e.session.Store.SetSelection(id)
	e.session.Commit()
}

func (e *Editor) cursorMoved(p geometry.Point2D, inside bool) {
	e.mu.Lock()
	e.cursor = p
	e.cursorInside = inside
	e.mu.Unlock()
	if e.Tool() == tools.ToolBrush {
		e.Refresh()
	}
}

// draw renders the document at the current zoom with overlays on top.
func (e *Editor) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	fillBackground(out, color.RGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff})

	opts := compositor.Options{
		PreviewStroke:  e.brush.Preview(),
		PreviewLayerID: e.brush.PreviewLayerID(),
		Override:       e.xform.Live(),
	}
	frame, err := compositor.Render(e.session.Store, opts)
	if err != nil {
		return out
	}
	e.mu.Lock()
	e.composite = frame
	z := e.zoom
	overlays := e.overlays
	cursor := e.cursor
	cursorInside := e.cursorInside
	e.mu.Unlock()

	side := int(float64(layer.CanvasSize) * z)
	if side > w {
		side = w
	}
	dst := image.Rect(0, 0, side, side)
	if z == 1.0 {
		xdraw.Copy(out, image.Point{}, frame, frame.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.NearestNeighbor.Scale(out, dst, frame, frame.Bounds(), xdraw.Src, nil)
	}

	if overlays {
		e.drawOverlays(out, z, cursor, cursorInside)
	}
	return out
}

// Refresh redraws the canvas.
func (e *Editor) Refresh() {
	e.raster.Refresh()
	e.BaseWidget.Refresh()
}

// pointerArea receives pointer events for the zoomed canvas content.
type pointerArea struct {
	widget.BaseWidget
	editor   *Editor
	dragging bool
}

func newPointerArea(e *Editor) *pointerArea {
	a := &pointerArea{editor: e}
	a.ExtendBaseWidget(a)
	return a
}

func (a *pointerArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(a.editor.raster)
}

func (a *pointerArea) Tapped(ev *fyne.PointEvent) {
	a.editor.tapped(a.editor.toCanvas(ev.Position))
}

func (a *pointerArea) Dragged(ev *fyne.DragEvent) {
	p := a.editor.toCanvas(ev.Position)
	if !a.dragging {
		a.dragging = true
		z := a.editor.Zoom()
		start := geometry.Point2D{
			X: p.X - float64(ev.Dragged.DX)/z,
			Y: p.Y - float64(ev.Dragged.DY)/z,
		}
		a.editor.pointerDown(start)
	}
	a.editor.pointerMove(p)
}

func (a *pointerArea) DragEnd() {
	if !a.dragging {
		return
	}
	a.dragging = false
	a.editor.pointerUp()
}

func (a *pointerArea) MouseMoved(ev *desktop.MouseEvent) {
	a.editor.cursorMoved(a.editor.toCanvas(ev.Position), true)
}

func (a *pointerArea) MouseIn(ev *desktop.MouseEvent) {
	a.editor.cursorMoved(a.editor.toCanvas(ev.Position), true)
}

// MouseOut ends any in-flight gesture so leaving the canvas behaves
// like releasing the pointer.
func (a *pointerArea) MouseOut() {
	a.editor.cursorMoved(geometry.Point2D{}, false)
	if a.dragging {
		a.dragging = false
		a.editor.pointerUp()
	}
}

var _ fyne.Tappable = (*pointerArea)(nil)
var _ fyne.Draggable = (*pointerArea)(nil)
var _ desktop.Hoverable = (*pointerArea)(nil)

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	editor *Editor
}

func newZoomScroll(e *Editor, content fyne.CanvasObject) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	s := &zoomScroll{scroll: scroll, editor: e}
	s.ExtendBaseWidget(s)
	return s
}

func (s *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.scroll)
}

func (s *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		s.editor.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		s.editor.ZoomOut()
	}
}

// Offset returns the scroll container's current offset.
func (s *zoomScroll) Offset() fyne.Position {
	return s.scroll.Offset
}

func (s *zoomScroll) Refresh() {
	s.scroll.Refresh()
	s.BaseWidget.Refresh()
}

func fillBackground(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}
