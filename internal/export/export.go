// Package export produces distributable PNG images of the composited
// document, bit-identical to the live view with all UI chrome suppressed.
package export

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/compositor"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
)

// OverlayController is the live editor's interactive chrome: selection
// handles, alignment guides, brush cursor, endpoint handles. The export
// service hides it during capture and restores the prior visibility
// unconditionally.
type OverlayController interface {
	OverlaysVisible() bool
	SetOverlaysVisible(visible bool)
}

// Service renders documents to PNG at native pixel ratio.
type Service struct {
	// Overlays is the optional live-editor chrome to suppress during
	// capture. Nil for headless use.
	Overlays OverlayController
}

// PNG composites the document and encodes it as a PNG, exactly
// CanvasSize×CanvasSize with no scaling.
func (s *Service) PNG(doc *document.Store) ([]byte, error) {
	if s.Overlays != nil {
		prior := s.Overlays.OverlaysVisible()
		s.Overlays.SetOverlaysVisible(false)
		defer s.Overlays.SetOverlaysVisible(prior)
	}

	img, err := compositor.Render(doc, compositor.Options{})
	if err != nil {
		return nil, fmt.Errorf("export render failed: %w", err)
	}
	if b := img.Bounds(); b.Dx() != layer.CanvasSize || b.Dy() != layer.CanvasSize {
		return nil, fmt.Errorf("export render produced %dx%d, want %dx%d",
			b.Dx(), b.Dy(), layer.CanvasSize, layer.CanvasSize)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile exports the document to the given path. The filename is
// supplied by the caller.
func (s *Service) WriteFile(doc *document.Store, path string) error {
	data, err := s.PNG(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	log.Printf("Exported %d bytes to %s", len(data), path)
	return nil
}
