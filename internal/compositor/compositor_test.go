package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/template"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/transform"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// windowTemplate builds a silhouette whose paintable surface is the square
// [100,900) on both axes.
func windowTemplate(t *testing.T) *template.Template {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, layer.CanvasSize, layer.CanvasSize))
	for y := 100; y < 900; y++ {
		for x := 100; x < 900; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	tpl, err := template.New("window", img)
	if err != nil {
		t.Fatalf("template.New: %v", err)
	}
	return tpl
}

func newDoc(t *testing.T) *document.Store {
	t.Helper()
	store := document.NewStore()
	store.SetTemplate(windowTemplate(t))
	store.SetBaseColor(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return store
}

func rgbaAt(img *image.RGBA, x, y int) [4]uint8 {
	i := img.PixOffset(x, y)
	return [4]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

func addRect(t *testing.T, store *document.Store, x, y, w, h float64, fill string) string {
	t.Helper()
	id := store.AddLayer(&layer.Layer{
		Name: "rect",
		Kind: layer.KindRect,
		X:    x, Y: y,
		Rect: &layer.RectProps{Width: w, Height: h, Fill: fill},
	})
	if id == "" {
		t.Fatal("rect layer rejected")
	}
	return id
}

func TestRenderRequiresTemplate(t *testing.T) {
	store := document.NewStore()
	if _, err := Render(store, Options{}); err == nil {
		t.Fatal("want error for missing template")
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	store := newDoc(t)
	store.SetBaseColor(color.RGBA{R: 200, G: 30, B: 30, A: 255})

	out, err := Render(store, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := out.Bounds(); got.Dx() != layer.CanvasSize || got.Dy() != layer.CanvasSize {
		t.Fatalf("bounds = %v", got)
	}
	if got := rgbaAt(out, 500, 500); got != [4]uint8{200, 30, 30, 255} {
		t.Errorf("inside silhouette: got %v, want base coat", got)
	}
	if got := rgbaAt(out, 50, 50); got != [4]uint8{0, 0, 0, 0} {
		t.Errorf("outside silhouette: got %v, want transparent", got)
	}
}

func TestSilhouetteClipsLayerContent(t *testing.T) {
	store := newDoc(t)
	// Straddles the left silhouette edge at x=100.
	addRect(t, store, 50, 200, 100, 100, "#FF0000")

	out, err := Render(store, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rgbaAt(out, 120, 250); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("inside silhouette: got %v, want rect fill", got)
	}
	if got := rgbaAt(out, 80, 250); got != [4]uint8{0, 0, 0, 0} {
		t.Errorf("rect paint leaked outside silhouette: %v", got)
	}
}

func TestHiddenLayerSkipped(t *testing.T) {
	store := newDoc(t)
	id := addRect(t, store, 200, 200, 100, 100, "#FF0000")
	v := false
	store.UpdateLayer(id, document.Patch{Visible: &v})

	out, err := Render(store, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rgbaAt(out, 250, 250); got != [4]uint8{255, 255, 255, 255} {
		t.Errorf("hidden layer rendered: %v", got)
	}
}

func TestLayerOpacity(t *testing.T) {
	store := newDoc(t)
	id := addRect(t, store, 200, 200, 100, 100, "#000000")
	op := 0.5
	store.UpdateLayer(id, document.Patch{Opacity: &op})

	out, err := Render(store, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := rgbaAt(out, 250, 250)
	for i := 0; i < 3; i++ {
		if got[i] < 120 || got[i] > 135 {
			t.Fatalf("half-opaque black over white: got %v, want mid gray", got)
		}
	}
	if got[3] != 255 {
		t.Errorf("alpha = %d, want 255", got[3])
	}
}

func TestFillLayerRendered(t *testing.T) {
	store := newDoc(t)
	idx := 500*layer.CanvasSize + 500
	id := store.AddLayer(&layer.Layer{
		Name: "fill",
		Kind: layer.KindFill,
		Fill: &layer.FillProps{Mask: []int{idx, idx + 1}, Color: "#00FF00"},
	})
	if id == "" {
		t.Fatal("fill layer rejected")
	}

	out, err := Render(store, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rgbaAt(out, 500, 500); got != [4]uint8{0, 255, 0, 255} {
		t.Errorf("masked pixel: got %v, want fill color", got)
	}
	if got := rgbaAt(out, 500, 501); got != [4]uint8{255, 255, 255, 255} {
		t.Errorf("unmasked pixel recolored: %v", got)
	}
}

func TestPreviewStrokeAboveAllLayers(t *testing.T) {
	store := newDoc(t)
	addRect(t, store, 450, 450, 200, 200, "#FF0000")

	stroke := &layer.BrushStroke{
		Points:   []geometry.Point2D{{X: 512, Y: 512}},
		Color:    "#00FF00",
		Size:     20,
		Hardness: 100,
		Opacity:  1,
		Flow:     1,
	}
	out, err := Render(store, Options{PreviewStroke: stroke})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rgbaAt(out, 512, 512); got != [4]uint8{0, 255, 0, 255} {
		t.Errorf("preview not on top: got %v", got)
	}
	// The preview is render-only; the document stays unchanged.
	if store.LayerCount() != 1 {
		t.Errorf("preview created a layer: %d layers", store.LayerCount())
	}
}

func TestPreviewStrokeOnExistingLayer(t *testing.T) {
	store := newDoc(t)
	id := store.AddLayer(&layer.Layer{
		Name:  "paint",
		Kind:  layer.KindBrush,
		Brush: &layer.BrushProps{},
	})
	if id == "" {
		t.Fatal("brush layer rejected")
	}

	stroke := &layer.BrushStroke{
		Points:   []geometry.Point2D{{X: 300, Y: 300}},
		Color:    "#0000FF",
		Size:     20,
		Hardness: 100,
		Opacity:  1,
		Flow:     1,
	}
	out, err := Render(store, Options{PreviewStroke: stroke, PreviewLayerID: id})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rgbaAt(out, 300, 300); got != [4]uint8{0, 0, 255, 255} {
		t.Errorf("preview not drawn on its layer: got %v", got)
	}
}

func TestOverrideTransform(t *testing.T) {
	store := newDoc(t)
	id := addRect(t, store, 200, 200, 100, 100, "#FF0000")

	out, err := Render(store, Options{Override: &transform.Live{
		LayerID: id,
		X:       400, Y: 200,
		ScaleX: 1, ScaleY: 1,
	}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rgbaAt(out, 450, 250); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("override position empty: got %v", got)
	}
	if got := rgbaAt(out, 250, 250); got != [4]uint8{255, 255, 255, 255} {
		t.Errorf("committed position still painted: got %v", got)
	}
	if got := store.Find(id).X; got != 200 {
		t.Errorf("override mutated the document: X = %v", got)
	}
}
