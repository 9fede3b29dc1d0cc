// Package transform provides interactive move/resize/rotate gestures with
// canvas center snapping.
package transform

import (
	"gonum.org/v1/gonum/floats"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// TransformedBounds returns the axis-aligned bounding box of the layer's
// local bounds under the given transform.
func TransformedBounds(l *layer.Layer, t geometry.AffineTransform) geometry.Rect {
	corners := l.Bounds().Corners()

	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, c := range corners {
		p := t.Apply(c)
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
