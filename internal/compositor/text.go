package compositor

import (
	"image"
	"log"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

var (
	fontOnce   sync.Once
	fontParsed *opentype.Font
)

func textFont() *opentype.Font {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("font parse failed: %v", err)
			return
		}
		fontParsed = f
	})
	return fontParsed
}

// renderText rasterizes the text into a tight local buffer at the layer's
// font size, then maps it onto the canvas under the layer transform with
// bilinear resampling.
func renderText(dst *image.RGBA, props *layer.TextProps, t geometry.AffineTransform) {
	if props.Content == "" || props.FontSize <= 0 {
		return
	}
	f := textFont()
	if f == nil {
		return
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    props.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("font face failed: %v", err)
		return
	}
	defer face.Close()

	col, ok := parseColor(props.Color)
	if !ok {
		return
	}

	metrics := face.Metrics()
	width := font.MeasureString(face, props.Content).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if width <= 0 || height <= 0 {
		return
	}

	local := image.NewRGBA(image.Rect(0, 0, width+2, height+2))
	drawer := font.Drawer{
		Dst:  local,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(1), Y: fixed.I(1) + metrics.Ascent},
	}
	drawer.DrawString(props.Content)

	m := f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
	xdraw.BiLinear.Transform(dst, m, local, local.Bounds(), xdraw.Over, nil)
}
