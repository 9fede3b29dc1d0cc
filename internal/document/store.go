// Package document provides the canonical in-memory document state: the
// ordered layer stack, base color, active template, and selection.
package document

import (
	"image/color"
	"sync"

	"github.com/google/uuid"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/template"
)

// EventType identifies document events.
type EventType int

const (
	EventLayersChanged EventType = iota
	EventSelectionChanged
	EventBaseColorChanged
	EventTemplateChanged
	EventDocumentChanged // any mutation; drives auto-persist
	EventDocumentReplaced
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Store owns one document. It is passed by reference to every engine; there
// is no ambient global state. Index 0 of the layer stack is the topmost /
// most recently created layer; render order is the reverse.
type Store struct {
	mu sync.RWMutex

	layers       []*layer.Layer
	baseColor    color.RGBA
	template     *template.Template
	templateName string // survives serialization while the bitmap is resolved externally
	selection    string // layer id, "" = none

	listeners map[EventType][]EventListener
}

// NewStore creates an empty document with a white base coat.
func NewStore() *Store {
	return &Store{
		baseColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Store) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Store) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *Store) changed(event EventType, data interface{}) {
	s.Emit(event, data)
	s.Emit(EventDocumentChanged, nil)
}

// AddLayer assigns the layer a fresh id, fills in missing defaults, and
// inserts it at index 0 (topmost). Returns the new id, or "" if the layer
// is structurally invalid.
func (s *Store) AddLayer(l *layer.Layer) string {
	if l == nil {
		return ""
	}
	l.ID = uuid.NewString()
	if l.Opacity == 0 {
		l.Opacity = 1
	}
	if l.ScaleX == 0 {
		l.ScaleX = 1
	}
	if l.ScaleY == 0 {
		l.ScaleY = 1
	}
	l.Visible = true
	if err := l.Validate(); err != nil {
		return ""
	}

	s.mu.Lock()
	s.layers = append([]*layer.Layer{l}, s.layers...)
	s.mu.Unlock()

	s.changed(EventLayersChanged, l.ID)
	return l.ID
}

// Patch is a partial update of a layer's common fields. Nil fields are
// left unchanged; id and kind can never change.
type Patch struct {
	Name     *string
	Visible  *bool
	Locked   *bool
	Opacity  *float64
	X        *float64
	Y        *float64
	Rotation *float64
	ScaleX   *float64
	ScaleY   *float64
}

// UpdateLayer merges the patch into the layer. No-op if the id is absent.
func (s *Store) UpdateLayer(id string, p Patch) {
	s.mu.Lock()
	l := s.findLocked(id)
	if l == nil {
		s.mu.Unlock()
		return
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Visible != nil {
		l.Visible = *p.Visible
	}
	if p.Locked != nil {
		l.Locked = *p.Locked
	}
	if p.Opacity != nil {
		l.Opacity = *p.Opacity
	}
	if p.X != nil {
		l.X = *p.X
	}
	if p.Y != nil {
		l.Y = *p.Y
	}
	if p.Rotation != nil {
		l.Rotation = *p.Rotation
	}
	if p.ScaleX != nil {
		l.ScaleX = *p.ScaleX
	}
	if p.ScaleY != nil {
		l.ScaleY = *p.ScaleY
	}
	s.mu.Unlock()

	s.changed(EventLayersChanged, id)
}

// Mutate applies fn to the layer's variant payload under the store lock.
// No-op if the id is absent. Used by the brush and transform engines for
// variant-specific writes (stroke lists, rect geometry bakes, fill colors).
func (s *Store) Mutate(id string, fn func(*layer.Layer)) {
	s.mu.Lock()
	l := s.findLocked(id)
	if l == nil {
		s.mu.Unlock()
		return
	}
	fn(l)
	s.mu.Unlock()

	s.changed(EventLayersChanged, id)
}

// DeleteLayer removes a layer. No-op if the layer is locked or absent.
// Clears the selection if the deleted layer was selected.
func (s *Store) DeleteLayer(id string) {
	s.mu.Lock()
	idx := -1
	for i, l := range s.layers {
		if l.ID == id {
			if l.Locked {
				s.mu.Unlock()
				return
			}
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.layers = append(s.layers[:idx], s.layers[idx+1:]...)
	clearedSelection := s.selection == id
	if clearedSelection {
		s.selection = ""
	}
	s.mu.Unlock()

	s.changed(EventLayersChanged, id)
	if clearedSelection {
		s.Emit(EventSelectionChanged, "")
	}
}

// ReorderLayers moves the layer at fromIndex to toIndex, preserving the
// relative order of all others. Out-of-range indices are a no-op.
func (s *Store) ReorderLayers(fromIndex, toIndex int) {
	s.mu.Lock()
	n := len(s.layers)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n || fromIndex == toIndex {
		s.mu.Unlock()
		return
	}
	l := s.layers[fromIndex]
	s.layers = append(s.layers[:fromIndex], s.layers[fromIndex+1:]...)
	s.layers = append(s.layers[:toIndex], append([]*layer.Layer{l}, s.layers[toIndex:]...)...)
	s.mu.Unlock()

	s.changed(EventLayersChanged, l.ID)
}

// SetSelection selects a layer by id, or clears the selection with "".
// Ids that no longer exist resolve to no selection.
func (s *Store) SetSelection(id string) {
	s.mu.Lock()
	if id != "" && s.findLocked(id) == nil {
		id = ""
	}
	if s.selection == id {
		s.mu.Unlock()
		return
	}
	s.selection = id
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, id)
}

// Selection returns the selected layer id, or "".
func (s *Store) Selection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Selected returns the selected layer, or nil.
func (s *Store) Selected() *layer.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(s.selection)
}

// Find returns the layer with the given id, or nil.
func (s *Store) Find(id string) *layer.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

func (s *Store) findLocked(id string) *layer.Layer {
	if id == "" {
		return nil
	}
	for _, l := range s.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Layers returns a copy of the layer stack, topmost first.
func (s *Store) Layers() []*layer.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*layer.Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// LayerCount returns the number of layers.
func (s *Store) LayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers)
}

// SetBaseColor sets the base coat color.
func (s *Store) SetBaseColor(c color.RGBA) {
	s.mu.Lock()
	s.baseColor = c
	s.mu.Unlock()
	s.changed(EventBaseColorChanged, c)
}

// BaseColor returns the base coat color.
func (s *Store) BaseColor() color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseColor
}

// SetTemplate sets the active silhouette template.
func (s *Store) SetTemplate(t *template.Template) {
	s.mu.Lock()
	s.template = t
	if t != nil {
		s.templateName = t.Name
	}
	s.mu.Unlock()
	s.changed(EventTemplateChanged, t)
}

// TemplateName returns the active template reference, which may name a
// template whose bitmap has not been resolved yet.
func (s *Store) TemplateName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templateName
}

// Template returns the active silhouette template, or nil while loading.
func (s *Store) Template() *template.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.template
}
