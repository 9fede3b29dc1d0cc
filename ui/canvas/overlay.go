package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/transform"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/tools"
)

var (
	selectionColor = color.RGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}
	guideColor     = color.RGBA{R: 0xff, G: 0x40, B: 0x81, A: 0xff}
	handleFill     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	cursorColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb0}
)

const (
	handleSize = 7

	// rotateHandleOffset is how far above the selection's bounding box
	// the rotation handle sits, in canvas units.
	rotateHandleOffset = 24

	// handleHitRadius is the pointer pick distance for handles, in
	// screen pixels; hit tests divide by zoom to get canvas units.
	handleHitRadius = 8.0
)

// drawOverlays paints selection chrome, snap guides and the brush
// cursor on top of the scaled frame. Overlays are never clipped by the
// template silhouette.
func (e *Editor) drawOverlays(out *image.RGBA, zoom float64, cursor geometry.Point2D, cursorInside bool) {
	e.drawGuides(out, zoom)
	e.drawSelection(out, zoom)
	if e.Tool() == tools.ToolBrush && cursorInside {
		r := e.brush.Settings.Size / 2 * zoom
		drawCircleOutline(out, cursor.X*zoom, cursor.Y*zoom, r, cursorColor)
	}
}

func (e *Editor) drawGuides(out *image.RGBA, zoom float64) {
	gx, gy := e.xform.Guides()
	mid := int(float64(layer.CanvasSize) / 2 * zoom)
	if gx {
		drawVLine(out, mid, 0, int(float64(layer.CanvasSize)*zoom), guideColor)
	}
	if gy {
		drawHLine(out, mid, 0, int(float64(layer.CanvasSize)*zoom), guideColor)
	}
}

func (e *Editor) drawSelection(out *image.RGBA, zoom float64) {
	sel := e.session.Store.Selected()
	if sel == nil {
		return
	}
	t := sel.Transform()
	if live := e.xform.Live(); live != nil && live.LayerID == sel.ID {
		t = geometry.LayerTransform(live.X, live.Y, live.Rotation, live.ScaleX, live.ScaleY)
	}
	b := transform.TransformedBounds(sel, t)

	x0 := int(b.X * zoom)
	y0 := int(b.Y * zoom)
	x1 := int((b.X + b.Width) * zoom)
	y1 := int((b.Y + b.Height) * zoom)
	drawHLine(out, y0, x0, x1, selectionColor)
	drawHLine(out, y1, x0, x1, selectionColor)
	drawVLine(out, x0, y0, y1, selectionColor)
	drawVLine(out, x1, y0, y1, selectionColor)

	for _, c := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		drawHandle(out, c[0], c[1])
	}

	// rotation handle on a stem above the box
	cx := (x0 + x1) / 2
	ry := int((b.Y - rotateHandleOffset) * zoom)
	drawVLine(out, cx, ry, y0, selectionColor)
	drawHandle(out, cx, ry)

	// line layers expose their endpoints as grab handles
	if sel.Kind == layer.KindLine && sel.Line != nil {
		for _, p := range sel.Line.Points {
			q := t.Apply(p)
			drawHandle(out, int(q.X*zoom), int(q.Y*zoom))
		}
	}
}

func drawHandle(out *image.RGBA, cx, cy int) {
	half := handleSize / 2
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if !inBounds(out, x, y) {
				continue
			}
			edge := x == cx-half || x == cx+half || y == cy-half || y == cy+half
			if edge {
				out.SetRGBA(x, y, selectionColor)
			} else {
				out.SetRGBA(x, y, handleFill)
			}
		}
	}
}

func drawCircleOutline(out *image.RGBA, cx, cy, r float64, c color.RGBA) {
	if r < 1 {
		r = 1
	}
	steps := int(2 * math.Pi * r)
	if steps < 12 {
		steps = 12
	}
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		x := int(cx + r*math.Cos(a))
		y := int(cy + r*math.Sin(a))
		if inBounds(out, x, y) {
			out.SetRGBA(x, y, c)
		}
	}
}

func drawHLine(out *image.RGBA, y, x0, x1 int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		if inBounds(out, x, y) {
			out.SetRGBA(x, y, c)
		}
	}
}

func drawVLine(out *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		if inBounds(out, x, y) {
			out.SetRGBA(x, y, c)
		}
	}
}

func inBounds(img *image.RGBA, x, y int) bool {
	return x >= img.Rect.Min.X && x < img.Rect.Max.X && y >= img.Rect.Min.Y && y < img.Rect.Max.Y
}
