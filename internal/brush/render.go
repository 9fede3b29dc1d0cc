package brush

import (
	"image"
	"math"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/raster"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/colorutil"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// DrawStroke rasterizes one stroke onto dst. Each stroke carries its own
// blend mode and hardness; coverage is computed once per pixel across the
// whole polyline so overlapping segments do not double-blend. Eraser
// strokes apply destination-out at full strength, ignoring opacity and
// flow.
func DrawStroke(dst *image.RGBA, s *layer.BrushStroke) {
	if len(s.Points) == 0 || s.Size <= 0 {
		return
	}

	eraser := s.IsEraser()
	var col = colorutil.Black
	if !eraser {
		c, err := colorutil.ParseHex(s.Color)
		if err != nil {
			return
		}
		col = c
	}

	radius := s.Size / 2
	halo := 0.0
	if s.Hardness < 100 {
		halo = (100 - s.Hardness) / 100 * s.Size * 0.5
	}
	reach := radius + halo

	box := strokeBounds(s.Points, reach)
	bounds := dst.Bounds()
	x0 := maxInt(int(math.Floor(box.X)), bounds.Min.X)
	y0 := maxInt(int(math.Floor(box.Y)), bounds.Min.Y)
	x1 := minInt(int(math.Ceil(box.X+box.Width)), bounds.Max.X-1)
	y1 := minInt(int(math.Ceil(box.Y+box.Height)), bounds.Max.Y-1)

	strength := s.Opacity * s.Flow
	if eraser {
		strength = 1
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := distanceToStroke(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}, s.Points)
			if d > reach {
				continue
			}

			coverage := 1.0
			if d > radius && halo > 0 {
				coverage = 1 - (d-radius)/halo
			}
			a := coverage * strength
			if a <= 0 {
				continue
			}

			if eraser {
				raster.EraseAt(dst, x, y, a)
			} else {
				raster.BlendPixel(dst, x, y, col, a, s.Blend)
			}
		}
	}
}

// distanceToStroke returns the shortest distance from p to the stroke
// polyline. A single-point stroke degenerates to point distance.
func distanceToStroke(p geometry.Point2D, points []geometry.Point2D) float64 {
	if len(points) == 1 {
		return p.Distance(points[0])
	}
	best := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		if d := geometry.DistanceToSegment(p, points[i], points[i+1]); d < best {
			best = d
		}
	}
	return best
}

func strokeBounds(points []geometry.Point2D, reach float64) geometry.Rect {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return geometry.Rect{
		X:      minX - reach,
		Y:      minY - reach,
		Width:  maxX - minX + 2*reach,
		Height: maxY - minY + 2*reach,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
