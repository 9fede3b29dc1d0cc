package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/raster"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/colorutil"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// Shape variants are rasterized by inverse-transform sampling: for every
// destination pixel inside the transformed bounding box, the pixel center
// is mapped back into the layer's local space and the shape's signed
// distance (or polygon coverage) is evaluated there. Edges get one pixel
// of distance-based antialiasing scaled by the layer's smaller axis scale.

// sampleArea walks the destination pixels covered by localBounds under t
// and calls eval with local coordinates for each pixel center.
func sampleArea(dst *image.RGBA, localBounds geometry.Rect, t geometry.AffineTransform, eval func(local geometry.Point2D) (color.RGBA, float64)) {
	inv, ok := t.Inverse()
	if !ok {
		return
	}

	// Transformed bbox, padded a pixel for the antialiased edge.
	corners := localBounds.Corners()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := t.Apply(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	bounds := dst.Bounds()
	x0 := clampInt(int(math.Floor(minX))-1, bounds.Min.X, bounds.Max.X-1)
	x1 := clampInt(int(math.Ceil(maxX))+1, bounds.Min.X, bounds.Max.X-1)
	y0 := clampInt(int(math.Floor(minY))-1, bounds.Min.Y, bounds.Max.Y-1)
	y1 := clampInt(int(math.Ceil(maxY))+1, bounds.Min.Y, bounds.Max.Y-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			local := inv.Apply(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			c, a := eval(local)
			if a > 0 {
				raster.BlendPixel(dst, x, y, c, a, layer.BlendNormal)
			}
		}
	}
}

// aaScale returns the factor converting local distance units to
// approximate device pixels for edge antialiasing.
func aaScale(t geometry.AffineTransform) float64 {
	sx := math.Hypot(t.A, t.C)
	sy := math.Hypot(t.B, t.D)
	s := math.Min(sx, sy)
	if s <= 0 {
		return 1
	}
	return s
}

// strokeFill evaluates a shape from its signed distance: negative inside.
// The stroke band straddles the boundary when strokeWidth > 0.
func strokeFill(d, aa float64, fill color.RGBA, hasFill bool, stroke color.RGBA, strokeWidth float64, hasStroke bool) (color.RGBA, float64) {
	if hasStroke && strokeWidth > 0 {
		band := math.Abs(d) - strokeWidth/2
		if band < 0.5/aa {
			return stroke, coverage(band, aa)
		}
	}
	if hasFill && d < 0.5/aa {
		return fill, coverage(d, aa)
	}
	return color.RGBA{}, 0
}

// coverage converts a signed distance to edge coverage in [0, 1].
func coverage(d, aa float64) float64 {
	a := 0.5 - d*aa
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

func renderRect(dst *image.RGBA, props *layer.RectProps, t geometry.AffineTransform) {
	fill, hasFill := parseColor(props.Fill)
	stroke, hasStroke := parseColor(props.Stroke)
	if !hasFill && !hasStroke {
		return
	}

	hw, hh := props.Width/2, props.Height/2
	r := math.Min(props.CornerRadius, math.Min(hw, hh))
	aa := aaScale(t)
	pad := props.StrokeWidth + 1

	local := geometry.NewRect(-pad, -pad, props.Width+2*pad, props.Height+2*pad)
	sampleArea(dst, local, t, func(p geometry.Point2D) (color.RGBA, float64) {
		// Rounded-rect signed distance around the rect center.
		qx := math.Abs(p.X-hw) - (hw - r)
		qy := math.Abs(p.Y-hh) - (hh - r)
		d := math.Hypot(math.Max(qx, 0), math.Max(qy, 0)) + math.Min(math.Max(qx, qy), 0) - r
		return strokeFill(d, aa, fill, hasFill, stroke, props.StrokeWidth, hasStroke)
	})
}

func renderCircle(dst *image.RGBA, props *layer.CircleProps, t geometry.AffineTransform) {
	fill, hasFill := parseColor(props.Fill)
	stroke, hasStroke := parseColor(props.Stroke)
	if !hasFill && !hasStroke || props.Radius <= 0 {
		return
	}

	aa := aaScale(t)
	pad := props.Radius + props.StrokeWidth + 1
	local := geometry.NewRect(-pad, -pad, 2*pad, 2*pad)
	sampleArea(dst, local, t, func(p geometry.Point2D) (color.RGBA, float64) {
		d := math.Hypot(p.X, p.Y) - props.Radius
		return strokeFill(d, aa, fill, hasFill, stroke, props.StrokeWidth, hasStroke)
	})
}

func renderStar(dst *image.RGBA, props *layer.StarProps, t geometry.AffineTransform) {
	fill, hasFill := parseColor(props.Fill)
	stroke, hasStroke := parseColor(props.Stroke)
	if !hasFill && !hasStroke || props.NumPoints < 2 {
		return
	}

	poly := geometry.StarPoints(props.NumPoints, props.InnerRadius, props.OuterRadius)
	aa := aaScale(t)
	pad := props.OuterRadius + props.StrokeWidth + 1
	local := geometry.NewRect(-pad, -pad, 2*pad, 2*pad)
	sampleArea(dst, local, t, func(p geometry.Point2D) (color.RGBA, float64) {
		d := polygonDistance(p, poly)
		if geometry.PointInPolygon(p, poly) {
			d = -d
		}
		return strokeFill(d, aa, fill, hasFill, stroke, props.StrokeWidth, hasStroke)
	})
}

func renderLine(dst *image.RGBA, props *layer.LineProps, t geometry.AffineTransform) {
	stroke, hasStroke := parseColor(props.Stroke)
	if !hasStroke || len(props.Points) < 2 || props.StrokeWidth <= 0 {
		return
	}

	aa := aaScale(t)
	pad := props.StrokeWidth*4 + 1 // room for arrowheads
	local := pointsBounds(props.Points, pad)

	var arrows [][]geometry.Point2D
	if props.ArrowStart {
		arrows = append(arrows, arrowhead(props.Points[1], props.Points[0], props.StrokeWidth))
	}
	if props.ArrowEnd {
		n := len(props.Points)
		arrows = append(arrows, arrowhead(props.Points[n-2], props.Points[n-1], props.StrokeWidth))
	}

	sampleArea(dst, local, t, func(p geometry.Point2D) (color.RGBA, float64) {
		best := math.Inf(1)
		for i := 0; i < len(props.Points)-1; i++ {
			if d := geometry.DistanceToSegment(p, props.Points[i], props.Points[i+1]); d < best {
				best = d
			}
		}
		d := best - props.StrokeWidth/2
		for _, tri := range arrows {
			if geometry.PointInPolygon(p, tri) {
				d = -1
				break
			}
		}
		return stroke, coverage(d, aa)
	})
}

// arrowhead builds a filled triangle at tip, pointing away from from.
func arrowhead(from, tip geometry.Point2D, strokeWidth float64) []geometry.Point2D {
	dir := tip.Sub(from)
	length := math.Hypot(dir.X, dir.Y)
	if length == 0 {
		return nil
	}
	dir = dir.Scale(1 / length)
	perp := geometry.Point2D{X: -dir.Y, Y: dir.X}
	size := strokeWidth * 3
	base := tip.Sub(dir.Scale(size))
	return []geometry.Point2D{
		tip,
		base.Add(perp.Scale(size / 2)),
		base.Sub(perp.Scale(size / 2)),
	}
}

func polygonDistance(p geometry.Point2D, poly []geometry.Point2D) float64 {
	best := math.Inf(1)
	for i := range poly {
		j := (i + 1) % len(poly)
		if d := geometry.DistanceToSegment(p, poly[i], poly[j]); d < best {
			best = d
		}
	}
	return best
}

func pointsBounds(points []geometry.Point2D, pad float64) geometry.Rect {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return geometry.NewRect(minX-pad, minY-pad, maxX-minX+2*pad, maxY-minY+2*pad)
}

func parseColor(s string) (color.RGBA, bool) {
	if s == "" {
		return color.RGBA{}, false
	}
	c, err := colorutil.ParseHex(s)
	if err != nil {
		return color.RGBA{}, false
	}
	return c, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
