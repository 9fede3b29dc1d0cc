package geometry

import "math"

// StarPoints generates the vertices of a star polygon centered at the origin,
// alternating between outerRadius and innerRadius. numPoints is the number of
// star tips; the result has 2*numPoints vertices. The first tip points up.
func StarPoints(numPoints int, innerRadius, outerRadius float64) []Point2D {
	if numPoints < 2 {
		return nil
	}
	points := make([]Point2D, 0, numPoints*2)
	step := math.Pi / float64(numPoints)
	for i := 0; i < numPoints*2; i++ {
		r := outerRadius
		if i%2 == 1 {
			r = innerRadius
		}
		angle := float64(i)*step - math.Pi/2
		points = append(points, Point2D{
			X: r * math.Cos(angle),
			Y: r * math.Sin(angle),
		})
	}
	return points
}

// PointInPolygon returns true if the point lies inside the polygon,
// using the ray-casting (even-odd) rule.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi := polygon[i]
		pj := polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// DistanceToSegment returns the shortest distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}
