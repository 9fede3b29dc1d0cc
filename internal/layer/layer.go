// Package layer defines the closed set of drawable layer variants and the
// brush stroke model.
package layer

import (
	"image"

	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

// CanvasSize is the fixed edge length of the design canvas in pixels.
// Every document, template, and exported image is exactly this size.
const CanvasSize = 1024

// Kind identifies a layer variant. The set is closed: every consumer
// switches exhaustively over these values.
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindLine    Kind = "line"
	KindStar    Kind = "star"
	KindBrush   Kind = "brush"
	KindTexture Kind = "texture"
	KindFill    Kind = "fill"
)

// Valid reports whether k is a known layer kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindImage, KindRect, KindCircle, KindLine,
		KindStar, KindBrush, KindTexture, KindFill:
		return true
	}
	return false
}

// Layer is one drawable element of a document. Exactly one variant props
// pointer is non-nil, matching Kind.
type Layer struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Visible  bool    `json:"visible"`
	Locked   bool    `json:"locked"`
	Opacity  float64 `json:"opacity"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // degrees
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`

	Text    *TextProps    `json:"text,omitempty"`
	Image   *ImageProps   `json:"image,omitempty"`
	Rect    *RectProps    `json:"rect,omitempty"`
	Circle  *CircleProps  `json:"circle,omitempty"`
	Line    *LineProps    `json:"line,omitempty"`
	Star    *StarProps    `json:"star,omitempty"`
	Brush   *BrushProps   `json:"brush,omitempty"`
	Texture *TextureProps `json:"texture,omitempty"`
	Fill    *FillProps    `json:"fill,omitempty"`
}

// TextProps holds the fields of a text layer.
type TextProps struct {
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"` // #RRGGBB
}

// ImageProps holds the fields of a raster image layer. Bitmap is the decoded
// pixel data, resolved by the asset collaborator and never serialized.
type ImageProps struct {
	Source string  `json:"source"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Bitmap image.Image `json:"-"`
}

// RectProps holds the fields of a rectangle layer. Width and height are
// stored literally rather than as a scaled unit box so stroke width and
// corner radius render correctly after a resize.
type RectProps struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	CornerRadius float64 `json:"cornerRadius"`
	Fill         string  `json:"fill"`
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
}

// CircleProps holds the fields of a circle layer.
type CircleProps struct {
	Radius      float64 `json:"radius"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// LineProps holds the fields of a polyline layer.
type LineProps struct {
	Points      []geometry.Point2D `json:"points"`
	Stroke      string             `json:"stroke"`
	StrokeWidth float64            `json:"strokeWidth"`
	ArrowStart  bool               `json:"arrowStart,omitempty"`
	ArrowEnd    bool               `json:"arrowEnd,omitempty"`
}

// StarProps holds the fields of a star layer.
type StarProps struct {
	NumPoints   int     `json:"numPoints"`
	InnerRadius float64 `json:"innerRadius"`
	OuterRadius float64 `json:"outerRadius"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// BrushProps holds the committed strokes of a brush layer. In-progress
// preview strokes live in the brush engine, never here.
type BrushProps struct {
	Strokes []BrushStroke `json:"strokes"`
}

// TextureProps holds the fields of a texture layer. The content is freely
// transformable while its silhouette mask stays pinned at the canvas origin.
type TextureProps struct {
	Source string  `json:"source"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Bitmap image.Image `json:"-"`
}

// FillProps holds a precomputed pixel-index coverage mask and its color.
// Recoloring touches only the masked pixels; the flood fill that produced
// the mask is never re-run.
type FillProps struct {
	Mask  []int  `json:"mask"`
	Color string `json:"color"`
}

// Bounds returns the layer's untransformed local bounding box. Brush and
// fill layers cover the full canvas; shape layers report their geometry.
func (l *Layer) Bounds() geometry.Rect {
	switch l.Kind {
	case KindText:
		if l.Text == nil {
			return geometry.Rect{}
		}
		// Approximate advance width; the compositor measures precisely.
		w := float64(len([]rune(l.Text.Content))) * l.Text.FontSize * 0.6
		return geometry.NewRect(0, 0, w, l.Text.FontSize*1.2)
	case KindImage:
		if l.Image == nil {
			return geometry.Rect{}
		}
		return geometry.NewRect(0, 0, l.Image.Width, l.Image.Height)
	case KindRect:
		if l.Rect == nil {
			return geometry.Rect{}
		}
		return geometry.NewRect(0, 0, l.Rect.Width, l.Rect.Height)
	case KindCircle:
		if l.Circle == nil {
			return geometry.Rect{}
		}
		r := l.Circle.Radius
		return geometry.NewRect(-r, -r, 2*r, 2*r)
	case KindLine:
		if l.Line == nil || len(l.Line.Points) == 0 {
			return geometry.Rect{}
		}
		return boundingBox(l.Line.Points)
	case KindStar:
		if l.Star == nil {
			return geometry.Rect{}
		}
		r := l.Star.OuterRadius
		return geometry.NewRect(-r, -r, 2*r, 2*r)
	case KindBrush:
		if l.Brush == nil || len(l.Brush.Strokes) == 0 {
			return geometry.NewRect(0, 0, CanvasSize, CanvasSize)
		}
		bounds := boundingBox(l.Brush.Strokes[0].Points)
		for _, s := range l.Brush.Strokes[1:] {
			bounds = bounds.Union(boundingBox(s.Points))
		}
		return bounds
	case KindTexture, KindFill:
		return geometry.NewRect(0, 0, CanvasSize, CanvasSize)
	}
	return geometry.Rect{}
}

// Transform returns the layer's local-to-canvas affine transform.
func (l *Layer) Transform() geometry.AffineTransform {
	return geometry.LayerTransform(l.X, l.Y, l.Rotation, l.ScaleX, l.ScaleY)
}

func boundingBox(points []geometry.Point2D) geometry.Rect {
	if len(points) == 0 {
		return geometry.Rect{}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
