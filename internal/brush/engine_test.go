package brush

import (
	"testing"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

func newTestEngine() (*Engine, *document.Session) {
	session := document.NewSession(document.NewStore())
	e := NewEngine(session)
	e.ActivateTool()
	return e, session
}

// drag simulates a stroke gesture as a sequence of 1-unit pointer moves
// along the x axis starting just after the anchor.
func drag(e *Engine, startX, y float64, units int) {
	e.PointerDown(geometry.Point2D{X: startX, Y: y})
	for i := 1; i <= units; i++ {
		e.PointerMove(geometry.Point2D{X: startX + float64(i), Y: y})
	}
	e.PointerUp()
}

func brushLayers(s *document.Session) []*layer.Layer {
	var out []*layer.Layer
	for _, l := range s.Store.Layers() {
		if l.Kind == layer.KindBrush {
			out = append(out, l)
		}
	}
	return out
}

func TestSpacingDistance(t *testing.T) {
	e, _ := newTestEngine()
	tests := []struct {
		size, spacing, want float64
	}{
		{100, 10, 10},
		{20, 10, 2},
		{50, 20, 10},
		{5, 10, 1}, // floor of one canvas unit
	}
	for _, tt := range tests {
		e.Settings.Size = tt.size
		e.Settings.Spacing = tt.spacing
		if got := e.SpacingDistance(); got != tt.want {
			t.Errorf("size %v spacing %v: got %v, want %v", tt.size, tt.spacing, got, tt.want)
		}
	}
}

// A 100-unit drag with size 100 and 10 percent spacing records exactly
// ten samples, one per spacing interval, none at the anchor.
func TestSamplingInterval(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Size = 100
	e.Settings.Spacing = 10
	e.Settings.Smoothing = 0

	drag(e, 0, 512, 100)

	layers := brushLayers(s)
	if len(layers) != 1 {
		t.Fatalf("got %d brush layers, want 1", len(layers))
	}
	strokes := layers[0].Brush.Strokes
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	pts := strokes[0].Points
	if len(pts) != 10 {
		t.Fatalf("got %d points, want 10", len(pts))
	}
	for i, p := range pts {
		wantX := float64((i + 1) * 10)
		if p.X != wantX || p.Y != 512 {
			t.Errorf("point %d = %v, want (%v, 512)", i, p, wantX)
		}
	}
}

func TestBareClickRecordsNothing(t *testing.T) {
	e, s := newTestEngine()
	e.PointerDown(geometry.Point2D{X: 100, Y: 100})
	e.PointerUp()

	if len(brushLayers(s)) != 0 {
		t.Error("bare click created a layer")
	}
	if s.History.CanUndo() {
		t.Error("bare click reached history")
	}
}

func TestSinglePointStrokeDiscarded(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Size = 20
	e.Settings.Spacing = 10
	e.Settings.Smoothing = 0

	e.PointerDown(geometry.Point2D{X: 0, Y: 0})
	e.PointerMove(geometry.Point2D{X: 5, Y: 0}) // one recorded sample
	e.PointerUp()

	if len(brushLayers(s)) != 0 {
		t.Error("sub-minimum stroke created a layer")
	}
}

func TestSmoothingPullsTowardPrevious(t *testing.T) {
	e, _ := newTestEngine()
	e.Settings.Size = 20
	e.Settings.Spacing = 10
	e.Settings.Smoothing = 1 // blend factor 0.5

	e.PointerDown(geometry.Point2D{X: 0, Y: 0})
	e.PointerMove(geometry.Point2D{X: 20, Y: 0})

	pts := e.Preview().Points
	if len(pts) != 1 {
		t.Fatalf("got %d points, want 1", len(pts))
	}
	if pts[0].X != 10 {
		t.Errorf("smoothed point at x=%v, want 10", pts[0].X)
	}
}

func TestMovesBelowSpacingNotRecorded(t *testing.T) {
	e, _ := newTestEngine()
	e.Settings.Size = 100
	e.Settings.Spacing = 10
	e.Settings.Smoothing = 0

	e.PointerDown(geometry.Point2D{X: 0, Y: 0})
	for i := 1; i <= 9; i++ {
		e.PointerMove(geometry.Point2D{X: float64(i), Y: 0})
	}
	if got := len(e.Preview().Points); got != 0 {
		t.Errorf("recorded %d points within a spacing interval, want 0", got)
	}
	e.PointerMove(geometry.Point2D{X: 10, Y: 0})
	if got := len(e.Preview().Points); got != 1 {
		t.Errorf("recorded %d points after crossing the interval, want 1", got)
	}
}

func TestStrokesStickToOneLayer(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Smoothing = 0

	drag(e, 0, 100, 50)
	drag(e, 0, 200, 50)

	layers := brushLayers(s)
	if len(layers) != 1 {
		t.Fatalf("got %d brush layers, want 1 shared layer", len(layers))
	}
	if got := len(layers[0].Brush.Strokes); got != 2 {
		t.Errorf("got %d strokes on sticky layer, want 2", got)
	}
}

func TestStickinessResetsOnToolSwitch(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Smoothing = 0

	drag(e, 0, 100, 50)
	e.DeactivateTool()
	e.ActivateTool()
	drag(e, 0, 200, 50)

	if got := len(brushLayers(s)); got != 2 {
		t.Errorf("got %d brush layers, want 2 after tool switch", got)
	}
}

func TestNotifySelectionRebindsSticky(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Smoothing = 0

	drag(e, 0, 100, 50)
	first := brushLayers(s)[0].ID

	e.DeactivateTool()
	e.ActivateTool()
	e.NotifySelection(first)
	drag(e, 0, 200, 50)

	layers := brushLayers(s)
	if len(layers) != 1 {
		t.Fatalf("got %d brush layers, want reuse of the reselected one", len(layers))
	}
	if got := len(layers[0].Brush.Strokes); got != 2 {
		t.Errorf("got %d strokes, want 2", got)
	}
}

func TestNotifySelectionIgnoresNonBrush(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Smoothing = 0

	rectID := s.Store.AddLayer(&layer.Layer{
		Name: "Rect", Kind: layer.KindRect,
		Rect: &layer.RectProps{Width: 10, Height: 10, Fill: "#000000"},
	})
	e.NotifySelection(rectID)
	drag(e, 0, 100, 50)

	if len(brushLayers(s)) != 1 {
		t.Error("stroke should land on a fresh brush layer")
	}
}

func TestEraserStrokeUsesSentinelColor(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Smoothing = 0
	e.Settings.Eraser = true

	drag(e, 0, 100, 50)

	strokes := brushLayers(s)[0].Brush.Strokes
	if !strokes[0].IsEraser() {
		t.Errorf("stroke color %q, want eraser sentinel", strokes[0].Color)
	}
}

func TestGestureCommitsExactlyOnce(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Smoothing = 0

	before := s.History.Len()
	drag(e, 0, 100, 50)
	if got := s.History.Len() - before; got != 1 {
		t.Errorf("gesture produced %d history entries, want 1", got)
	}
}

func TestPreviewInvisibleToDocument(t *testing.T) {
	e, s := newTestEngine()
	e.Settings.Size = 20
	e.Settings.Spacing = 10
	e.Settings.Smoothing = 0

	e.PointerDown(geometry.Point2D{X: 0, Y: 0})
	for i := 1; i <= 30; i++ {
		e.PointerMove(geometry.Point2D{X: float64(i), Y: 0})
	}

	if e.Preview() == nil || len(e.Preview().Points) == 0 {
		t.Fatal("preview stroke missing mid-gesture")
	}
	if len(brushLayers(s)) != 0 {
		t.Error("document grew a layer before the gesture ended")
	}
	if s.History.CanUndo() {
		t.Error("history advanced mid-gesture")
	}

	e.PointerUp()
	if e.Preview() != nil {
		t.Error("preview survived the gesture end")
	}
	if len(brushLayers(s)) != 1 {
		t.Error("committed stroke missing")
	}
}

func TestInactiveToolIgnoresPointer(t *testing.T) {
	session := document.NewSession(document.NewStore())
	e := NewEngine(session) // never activated

	drag(e, 0, 100, 50)
	if len(brushLayers(session)) != 0 {
		t.Error("inactive tool painted")
	}
}
