package document

import (
	"encoding/json"
	"fmt"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/template"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/colorutil"
)

// documentFile is the JSON structure of a serialized document. This is the
// schema consumed by the external persistence collaborator.
type documentFile struct {
	Version   int            `json:"version"`
	BaseColor string         `json:"baseColor"`
	Template  string         `json:"template,omitempty"`
	Selection string         `json:"selection,omitempty"`
	Layers    []*layer.Layer `json:"layers"`
}

const documentVersion = 1

// Serialize returns the full document state as JSON. The result is a
// complete snapshot: deserializing it restores an identical document.
func (s *Store) Serialize() ([]byte, error) {
	s.mu.RLock()
	doc := documentFile{
		Version:   documentVersion,
		BaseColor: colorutil.FormatHex(s.baseColor),
		Template:  s.templateName,
		Selection: s.selection,
		Layers:    s.layers,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Deserialize replaces the document state with the given serialized form.
// Malformed input is rejected and the document is left unchanged. The
// template bitmap and image/texture bitmaps are not restored here; callers
// resolve them afterward via ResolveAssets.
func (s *Store) Deserialize(data []byte) error {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("malformed document: %w", err)
	}
	base, err := colorutil.ParseHex(doc.BaseColor)
	if err != nil {
		return fmt.Errorf("malformed document: %w", err)
	}
	seen := make(map[string]bool, len(doc.Layers))
	for _, l := range doc.Layers {
		if l == nil {
			return fmt.Errorf("malformed document: null layer")
		}
		if err := l.Validate(); err != nil {
			return fmt.Errorf("malformed document: %w", err)
		}
		if seen[l.ID] {
			return fmt.Errorf("malformed document: duplicate layer id %s", l.ID)
		}
		seen[l.ID] = true
	}
	if doc.Selection != "" && !seen[doc.Selection] {
		doc.Selection = ""
	}

	s.mu.Lock()
	s.layers = doc.Layers
	if s.layers == nil {
		s.layers = []*layer.Layer{}
	}
	s.baseColor = base
	s.templateName = doc.Template
	if s.template != nil && s.template.Name != doc.Template {
		s.template = nil
	}
	s.selection = doc.Selection
	s.mu.Unlock()

	// Replacement invalidates everything a subscriber may be showing, so
	// the targeted events fire too: views refresh off LayersChanged and
	// SelectionChanged, auto-persist off DocumentChanged.
	s.Emit(EventDocumentReplaced, nil)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, doc.Selection)
	s.Emit(EventDocumentChanged, nil)
	return nil
}

// ResolveAssets resolves the template and all image/texture bitmaps through
// the asset collaborator. The first resolution failure is returned and the
// remaining assets are left unresolved; callers keep the editor in a loading
// state rather than rendering a partially masked composite.
func (s *Store) ResolveAssets(r template.Resolver) error {
	name := s.TemplateName()
	if name != "" && s.Template() == nil {
		t, err := r.Template(name)
		if err != nil {
			return fmt.Errorf("template %q: %w", name, err)
		}
		s.SetTemplate(t)
	}

	for _, l := range s.Layers() {
		switch l.Kind {
		case layer.KindImage:
			if l.Image.Bitmap == nil && l.Image.Source != "" {
				img, err := r.Bitmap(l.Image.Source)
				if err != nil {
					return fmt.Errorf("image asset %q: %w", l.Image.Source, err)
				}
				l.Image.Bitmap = img
			}
		case layer.KindTexture:
			if l.Texture.Bitmap == nil && l.Texture.Source != "" {
				img, err := r.Bitmap(l.Texture.Source)
				if err != nil {
					return fmt.Errorf("texture asset %q: %w", l.Texture.Source, err)
				}
				l.Texture.Bitmap = img
			}
		}
	}
	return nil
}
