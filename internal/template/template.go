// Package template provides vehicle silhouette templates: fixed-size bitmaps
// whose alpha channel defines the paintable surface.
package template

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
)

// Template is an immutable per-vehicle silhouette image. The alpha channel
// is authoritative: nothing outside it may appear in a composite.
type Template struct {
	Name  string
	Image image.Image

	alpha []uint8 // row-major CanvasSize×CanvasSize alpha values
}

// New validates the bitmap and precomputes the alpha mask. The bitmap must
// be exactly CanvasSize×CanvasSize.
func New(name string, img image.Image) (*Template, error) {
	bounds := img.Bounds()
	if bounds.Dx() != layer.CanvasSize || bounds.Dy() != layer.CanvasSize {
		return nil, fmt.Errorf("template %q: got %dx%d, want %dx%d",
			name, bounds.Dx(), bounds.Dy(), layer.CanvasSize, layer.CanvasSize)
	}

	alpha := make([]uint8, layer.CanvasSize*layer.CanvasSize)
	for y := 0; y < layer.CanvasSize; y++ {
		for x := 0; x < layer.CanvasSize; x++ {
			_, _, _, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			alpha[y*layer.CanvasSize+x] = uint8(a >> 8)
		}
	}

	return &Template{Name: name, Image: img, alpha: alpha}, nil
}

// Decode decodes template image bytes (PNG or JPEG) and validates them.
func Decode(name string, data []byte) (*Template, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %q: %w", name, err)
	}
	return New(name, img)
}

// Load reads and decodes a template image file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Decode(name, data)
}

// AlphaAt returns the silhouette alpha at canvas coordinates, 0 outside
// the canvas.
func (t *Template) AlphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= layer.CanvasSize || y >= layer.CanvasSize {
		return 0
	}
	return t.alpha[y*layer.CanvasSize+x]
}

// Alpha returns the full row-major alpha mask. Callers must not modify it.
func (t *Template) Alpha() []uint8 {
	return t.alpha
}

// Resolver resolves external assets for the document core: silhouette
// templates by name and texture/image bitmaps by source reference.
type Resolver interface {
	Template(name string) (*Template, error)
	Bitmap(source string) (image.Image, error)
}

// DirResolver resolves assets from files under a root directory.
type DirResolver struct {
	Root string
}

// Template loads <root>/<name>.png as a silhouette template.
func (r DirResolver) Template(name string) (*Template, error) {
	return Load(filepath.Join(r.Root, name+".png"))
}

// Bitmap loads an image file relative to the root directory.
func (r DirResolver) Bitmap(source string) (image.Image, error) {
	data, err := os.ReadFile(filepath.Join(r.Root, source))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %q: %w", source, err)
	}
	return img, nil
}
