// Package raster provides low-level pixel operations shared by the brush
// rasterizer and the compositor: blend modes, alpha masking, and composite
// operators over image.RGBA buffers.
package raster

import (
	"image"
	"image/color"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
)

// BlendPixel composites the straight-alpha source color onto dst at (x, y)
// with the given coverage alpha and blend mode. Out-of-bounds writes are
// dropped.
func BlendPixel(dst *image.RGBA, x, y int, src color.RGBA, alpha float64, mode layer.BlendMode) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}

	i := dst.PixOffset(x, y)
	pix := dst.Pix[i : i+4 : i+4]

	sf := [3]float64{float64(src.R) / 255, float64(src.G) / 255, float64(src.B) / 255}
	df := [3]float64{float64(pix[0]) / 255, float64(pix[1]) / 255, float64(pix[2]) / 255}
	da := float64(pix[3]) / 255

	var rf [3]float64
	switch mode {
	case layer.BlendNormal:
		rf = sf

	case layer.BlendMultiply:
		for i := 0; i < 3; i++ {
			rf[i] = sf[i] * df[i]
		}

	case layer.BlendScreen:
		for i := 0; i < 3; i++ {
			rf[i] = 1 - (1-sf[i])*(1-df[i])
		}

	case layer.BlendOverlay:
		for i := 0; i < 3; i++ {
			if df[i] < 0.5 {
				rf[i] = 2 * sf[i] * df[i]
			} else {
				rf[i] = 1 - 2*(1-sf[i])*(1-df[i])
			}
		}

	default:
		rf = sf
	}

	// Where the destination is transparent there is nothing to blend with;
	// fall back to the source color so modes like multiply do not darken
	// against undefined pixels.
	if da < 0.001 {
		rf = sf
	}

	pix[0] = uint8(clamp01(rf[0]*alpha+df[0]*(1-alpha)) * 255)
	pix[1] = uint8(clamp01(rf[1]*alpha+df[1]*(1-alpha)) * 255)
	pix[2] = uint8(clamp01(rf[2]*alpha+df[2]*(1-alpha)) * 255)
	pix[3] = uint8(clamp01(alpha+da*(1-alpha)) * 255)
}

// EraseAt applies destination-out at (x, y): the pixel's alpha (and color,
// to keep the buffer consistent) is scaled down by strength.
func EraseAt(dst *image.RGBA, x, y int, strength float64) {
	if strength <= 0 {
		return
	}
	if strength > 1 {
		strength = 1
	}
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}

	i := dst.PixOffset(x, y)
	pix := dst.Pix[i : i+4 : i+4]
	keep := 1 - strength
	pix[0] = uint8(float64(pix[0]) * keep)
	pix[1] = uint8(float64(pix[1]) * keep)
	pix[2] = uint8(float64(pix[2]) * keep)
	pix[3] = uint8(float64(pix[3]) * keep)
}

// MaskDestinationIn multiplies every pixel of dst by the row-major alpha
// mask. dst must be CanvasSize×CanvasSize at origin. This is the group-level
// silhouette clip: content outside the mask is removed no matter which
// layer produced it.
func MaskDestinationIn(dst *image.RGBA, alpha []uint8) {
	for y := 0; y < layer.CanvasSize; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+layer.CanvasSize*4]
		for x := 0; x < layer.CanvasSize; x++ {
			a := uint32(alpha[y*layer.CanvasSize+x])
			if a == 255 {
				continue
			}
			pix := row[x*4 : x*4+4 : x*4+4]
			if a == 0 {
				pix[0], pix[1], pix[2], pix[3] = 0, 0, 0, 0
				continue
			}
			pix[0] = uint8(uint32(pix[0]) * a / 255)
			pix[1] = uint8(uint32(pix[1]) * a / 255)
			pix[2] = uint8(uint32(pix[2]) * a / 255)
			pix[3] = uint8(uint32(pix[3]) * a / 255)
		}
	}
}

// CompositeOver draws src over dst with an extra opacity factor. Both
// buffers must share bounds. Plain source-over; per-stroke blend modes are
// resolved earlier, when strokes are drawn into their layer buffer.
func CompositeOver(dst, src *image.RGBA, opacity float64) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	bounds := dst.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			si := src.PixOffset(x, y)
			spix := src.Pix[si : si+4 : si+4]
			sa := float64(spix[3]) / 255 * opacity
			if sa <= 0.001 {
				continue
			}

			di := dst.PixOffset(x, y)
			dpix := dst.Pix[di : di+4 : di+4]
			da := float64(dpix[3]) / 255
			inv := 1 - sa

			dpix[0] = uint8(clamp01(float64(spix[0])/255*opacity+float64(dpix[0])/255*inv) * 255)
			dpix[1] = uint8(clamp01(float64(spix[1])/255*opacity+float64(dpix[1])/255*inv) * 255)
			dpix[2] = uint8(clamp01(float64(spix[2])/255*opacity+float64(dpix[2])/255*inv) * 255)
			dpix[3] = uint8(clamp01(sa+da*inv) * 255)
		}
	}
}

// Fill sets every pixel of dst to the given color.
func Fill(dst *image.RGBA, c color.RGBA) {
	bounds := dst.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := dst.PixOffset(bounds.Min.X, y)
		row := dst.Pix[i : i+bounds.Dx()*4]
		for x := 0; x < bounds.Dx(); x++ {
			row[x*4] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
}

// NewCanvas allocates a transparent CanvasSize×CanvasSize buffer.
func NewCanvas() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, layer.CanvasSize, layer.CanvasSize))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
