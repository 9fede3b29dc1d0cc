// Package compositor turns document state into the final composited
// 1024x1024 pixel buffer with the silhouette mask enforced at group level.
package compositor

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/brush"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/raster"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/transform"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/colorutil"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// Options adjusts a single render pass. The zero value renders the
// committed document exactly.
type Options struct {
	// PreviewStroke is the in-progress brush stroke, drawn on the layer
	// named by PreviewLayerID, or above all layers when the id is empty
	// (the stroke will create a fresh topmost layer on commit).
	PreviewStroke  *layer.BrushStroke
	PreviewLayerID string

	// Override replaces one layer's transform with the live mid-gesture
	// values, keeping the document untouched during the gesture.
	Override *transform.Live
}

// Render executes the deterministic recipe: base coat fill, silhouette
// mask, visible layers back to front, then the group-level silhouette mask
// again. The returned buffer never contains UI chrome.
func Render(doc *document.Store, opts Options) (*image.RGBA, error) {
	tpl := doc.Template()
	if tpl == nil {
		return nil, fmt.Errorf("no template loaded")
	}

	out := raster.NewCanvas()
	raster.Fill(out, doc.BaseColor())
	raster.MaskDestinationIn(out, tpl.Alpha())

	group := raster.NewCanvas()
	layers := doc.Layers() // topmost first; paint in reverse
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !l.Visible {
			continue
		}
		buf := renderLayer(l, tpl, opts)
		if buf == nil {
			continue
		}
		raster.CompositeOver(group, buf, l.Opacity)
	}

	if opts.PreviewStroke != nil && opts.PreviewLayerID == "" {
		buf := raster.NewCanvas()
		brush.DrawStroke(buf, opts.PreviewStroke)
		raster.CompositeOver(group, buf, 1)
	}

	// The critical invariant: the whole accumulated design is clipped to
	// the silhouette once, at group level, so no layer can leak outside it.
	raster.MaskDestinationIn(group, tpl.Alpha())
	raster.CompositeOver(out, group, 1)

	return out, nil
}

// layerTransform returns the transform to use for l, honoring a live
// gesture override.
func layerTransform(l *layer.Layer, opts Options) geometry.AffineTransform {
	if o := opts.Override; o != nil && o.LayerID == l.ID {
		return geometry.LayerTransform(o.X, o.Y, o.Rotation, o.ScaleX, o.ScaleY)
	}
	return l.Transform()
}

// renderLayer rasterizes one layer into its own canvas-sized buffer.
// Exhaustive over the closed variant set.
func renderLayer(l *layer.Layer, tpl templateAlpha, opts Options) *image.RGBA {
	buf := raster.NewCanvas()
	t := layerTransform(l, opts)

	switch l.Kind {
	case layer.KindText:
		renderText(buf, l.Text, t)

	case layer.KindImage:
		renderBitmap(buf, l.Image.Bitmap, l.Image.Width, l.Image.Height, t)

	case layer.KindTexture:
		renderBitmap(buf, l.Texture.Bitmap, l.Texture.Width, l.Texture.Height, t)
		// The texture's own silhouette clip stays pinned at the canvas
		// origin: moving the layer repositions paint under a fixed
		// stencil, it does not move a bounded sticker.
		raster.MaskDestinationIn(buf, tpl.Alpha())

	case layer.KindRect:
		renderRect(buf, l.Rect, t)

	case layer.KindCircle:
		renderCircle(buf, l.Circle, t)

	case layer.KindLine:
		renderLine(buf, l.Line, t)

	case layer.KindStar:
		renderStar(buf, l.Star, t)

	case layer.KindBrush:
		for i := range l.Brush.Strokes {
			brush.DrawStroke(buf, &l.Brush.Strokes[i])
		}
		if opts.PreviewStroke != nil && opts.PreviewLayerID == l.ID {
			brush.DrawStroke(buf, opts.PreviewStroke)
		}

	case layer.KindFill:
		renderFill(buf, l.Fill)

	default:
		return nil
	}
	return buf
}

// templateAlpha is the slice of the template the compositor needs.
type templateAlpha interface {
	Alpha() []uint8
}

// renderBitmap draws a decoded bitmap with bilinear resampling under the
// layer transform. The bitmap is first normalized to the layer's nominal
// width/height, so scale factors compose on top of that size.
func renderBitmap(dst *image.RGBA, src image.Image, width, height float64, t geometry.AffineTransform) {
	if src == nil || width <= 0 || height <= 0 {
		return
	}
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	norm := t.Compose(geometry.Scale(width/float64(sb.Dx()), height/float64(sb.Dy())))
	norm = norm.Compose(geometry.Translation(-float64(sb.Min.X), -float64(sb.Min.Y)))
	m := f64.Aff3{norm.A, norm.B, norm.TX, norm.C, norm.D, norm.TY}
	xdraw.BiLinear.Transform(dst, m, src, sb, xdraw.Over, nil)
}

// renderFill recolors the precomputed pixel-index coverage mask. This is
// O(mask size); the flood fill that produced the mask is never re-run.
func renderFill(dst *image.RGBA, props *layer.FillProps) {
	col, err := colorutil.ParseHex(props.Color)
	if err != nil {
		return
	}
	for _, idx := range props.Mask {
		if idx < 0 || idx >= layer.CanvasSize*layer.CanvasSize {
			continue
		}
		i := (idx/layer.CanvasSize)*dst.Stride + (idx%layer.CanvasSize)*4
		pix := dst.Pix[i : i+4 : i+4]
		pix[0], pix[1], pix[2], pix[3] = col.R, col.G, col.B, col.A
	}
}
