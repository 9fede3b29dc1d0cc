package brush

import (
	"image"
	"testing"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

func solidStroke(points []geometry.Point2D) *layer.BrushStroke {
	return &layer.BrushStroke{
		Points:   points,
		Color:    "#FF0000",
		Size:     20,
		Hardness: 100,
		Opacity:  1,
		Flow:     1,
	}
}

func line(x0, y0, x1, y1 float64) []geometry.Point2D {
	return []geometry.Point2D{{X: x0, Y: y0}, {X: x1, Y: y1}}
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.Pix[img.PixOffset(x, y)+3]
}

func TestDrawStrokePaintsAlongPolyline(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	DrawStroke(dst, solidStroke(line(50, 100, 150, 100)))

	if alphaAt(dst, 100, 100) == 0 {
		t.Error("stroke center not painted")
	}
	if alphaAt(dst, 50, 100) == 0 || alphaAt(dst, 150, 100) == 0 {
		t.Error("stroke endpoints not painted")
	}
	if alphaAt(dst, 100, 150) != 0 {
		t.Error("paint found far from the stroke")
	}

	i := dst.PixOffset(100, 100)
	if dst.Pix[i] != 255 || dst.Pix[i+1] != 0 || dst.Pix[i+2] != 0 {
		t.Errorf("stroke color at center = %v", dst.Pix[i:i+3])
	}
}

func TestDrawStrokeHardEdge(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	DrawStroke(dst, solidStroke(line(50, 100, 150, 100)))

	// Hardness 100 has no halo: full coverage inside the radius, nothing
	// past it.
	if got := alphaAt(dst, 100, 105); got != 255 {
		t.Errorf("inside radius: alpha %d, want 255", got)
	}
	if got := alphaAt(dst, 100, 120); got != 0 {
		t.Errorf("outside radius: alpha %d, want 0", got)
	}
}

func TestDrawStrokeSoftHalo(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	s := solidStroke(line(50, 100, 150, 100))
	s.Hardness = 0 // halo extends half the size past the radius
	DrawStroke(dst, s)

	core := alphaAt(dst, 100, 100)
	mid := alphaAt(dst, 100, 114) // inside the halo
	if core != 255 {
		t.Errorf("core alpha %d, want 255", core)
	}
	if mid == 0 || mid >= core {
		t.Errorf("halo alpha %d should fall between 0 and core %d", mid, core)
	}
	if got := alphaAt(dst, 100, 125); got != 0 {
		t.Errorf("past halo reach: alpha %d, want 0", got)
	}
}

func TestDrawStrokeOpacityAndFlowScaleCoverage(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	s := solidStroke(line(50, 100, 150, 100))
	s.Opacity = 0.5
	s.Flow = 0.5
	DrawStroke(dst, s)

	got := alphaAt(dst, 100, 100)
	if got < 60 || got > 68 { // 0.25 * 255, rounded
		t.Errorf("alpha %d, want about 64", got)
	}
}

// Painting a region and erasing it at full strength restores full
// transparency, and repainting restores the paint: erase is the inverse
// of paint at the coverage level.
func TestEraseInverseOfPaint(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	paint := solidStroke(line(50, 100, 150, 100))
	DrawStroke(dst, paint)

	eraser := solidStroke(line(50, 100, 150, 100))
	eraser.Color = layer.EraserColor
	eraser.Size = 40 // cover the paint completely
	DrawStroke(dst, eraser)

	for _, p := range [][2]int{{100, 100}, {50, 100}, {150, 100}, {100, 105}} {
		if got := alphaAt(dst, p[0], p[1]); got != 0 {
			t.Errorf("alpha at %v = %d after erase, want 0", p, got)
		}
	}

	DrawStroke(dst, paint)
	if got := alphaAt(dst, 100, 100); got != 255 {
		t.Errorf("alpha after repaint = %d, want 255", got)
	}
}

// Eraser strength ignores the stroke's nominal opacity and flow.
func TestEraserIgnoresOpacity(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	DrawStroke(dst, solidStroke(line(50, 100, 150, 100)))

	eraser := solidStroke(line(50, 100, 150, 100))
	eraser.Color = layer.EraserColor
	eraser.Opacity = 0.1
	eraser.Flow = 0.1
	eraser.Size = 40
	DrawStroke(dst, eraser)

	if got := alphaAt(dst, 100, 100); got != 0 {
		t.Errorf("alpha %d, want 0: eraser must apply at full strength", got)
	}
}

func TestDrawStrokeEmptyAndDegenerate(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	DrawStroke(dst, &layer.BrushStroke{Color: "#FF0000", Size: 20}) // no points

	single := solidStroke([]geometry.Point2D{{X: 50, Y: 50}})
	DrawStroke(dst, single)
	if alphaAt(dst, 50, 50) == 0 {
		t.Error("single-point stroke painted nothing")
	}
}
