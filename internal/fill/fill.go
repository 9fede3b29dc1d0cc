// Package fill implements the fill tool: flood-fill coverage mask
// computation over a composited buffer, and recoloring of fill layers.
package fill

import (
	"image"
	"sort"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
)

// ComputeMask flood-fills from the seed pixel and returns the covered
// pixel indices (y*CanvasSize+x), sorted ascending. Connectivity is
// 4-connected. A pixel joins the region when every channel is within
// tolerance of the seed color. Returns nil for out-of-canvas seeds.
func ComputeMask(img *image.RGBA, seedX, seedY int, tolerance uint8) []int {
	if seedX < 0 || seedY < 0 || seedX >= layer.CanvasSize || seedY >= layer.CanvasSize {
		return nil
	}

	seed := pixelAt(img, seedX, seedY)
	visited := make([]bool, layer.CanvasSize*layer.CanvasSize)
	var mask []int

	queue := []int{seedY*layer.CanvasSize + seedX}
	visited[queue[0]] = true

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		x := idx % layer.CanvasSize
		y := idx / layer.CanvasSize

		if !withinTolerance(pixelAt(img, x, y), seed, tolerance) {
			continue
		}
		mask = append(mask, idx)

		for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
			nx, ny := n[0], n[1]
			if nx < 0 || ny < 0 || nx >= layer.CanvasSize || ny >= layer.CanvasSize {
				continue
			}
			nidx := ny*layer.CanvasSize + nx
			if !visited[nidx] {
				visited[nidx] = true
				queue = append(queue, nidx)
			}
		}
	}

	sort.Ints(mask)
	return mask
}

// NewLayer builds a fill layer from a coverage mask and color, ready for
// insertion into a document.
func NewLayer(mask []int, color string) *layer.Layer {
	return &layer.Layer{
		Name: "Fill",
		Kind: layer.KindFill,
		Fill: &layer.FillProps{Mask: mask, Color: color},
	}
}

// Recolor changes a fill layer's color. Rendering the new color touches
// only the masked pixels; the flood fill is never re-run. No-op for
// absent or non-fill layers.
func Recolor(store *document.Store, id, color string) {
	store.Mutate(id, func(l *layer.Layer) {
		if l.Kind == layer.KindFill {
			l.Fill.Color = color
		}
	})
}

func pixelAt(img *image.RGBA, x, y int) [4]uint8 {
	i := img.PixOffset(x, y)
	return [4]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

func withinTolerance(a, b [4]uint8, tol uint8) bool {
	for i := 0; i < 4; i++ {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		if d > int(tol) {
			return false
		}
	}
	return true
}
