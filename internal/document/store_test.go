package document

import (
	"image/color"
	"testing"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
)

func newRectLayer() *layer.Layer {
	return &layer.Layer{
		Name: "Rect",
		Kind: layer.KindRect,
		Rect: &layer.RectProps{Width: 200, Height: 100, Fill: "#D32F2F"},
	}
}

func TestAddLayerAssignsUniqueIDs(t *testing.T) {
	s := NewStore()
	const n = 25
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := s.AddLayer(newRectLayer())
		if id == "" {
			t.Fatalf("layer %d rejected", i)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		// Newest layer is topmost.
		if got := s.Layers()[0].ID; got != id {
			t.Fatalf("layer %d not at index 0: top is %s", i, got)
		}
	}
	if s.LayerCount() != n {
		t.Errorf("LayerCount() = %d, want %d", s.LayerCount(), n)
	}
}

func TestAddLayerDefaults(t *testing.T) {
	s := NewStore()
	id := s.AddLayer(newRectLayer())
	l := s.Find(id)
	if l == nil {
		t.Fatal("layer not found")
	}
	if l.Opacity != 1 || l.ScaleX != 1 || l.ScaleY != 1 || !l.Visible {
		t.Errorf("defaults not applied: %+v", l)
	}
}

func TestAddLayerRejectsInvalid(t *testing.T) {
	s := NewStore()
	bad := &layer.Layer{Name: "Bad", Kind: layer.KindRect} // no payload
	if id := s.AddLayer(bad); id != "" {
		t.Errorf("invalid layer accepted with id %s", id)
	}
	if s.LayerCount() != 0 {
		t.Error("invalid layer entered the document")
	}
}

func TestUpdateLayer(t *testing.T) {
	s := NewStore()
	id := s.AddLayer(newRectLayer())

	x, rot := 250.0, 45.0
	vis := false
	s.UpdateLayer(id, Patch{X: &x, Rotation: &rot, Visible: &vis})

	l := s.Find(id)
	if l.X != 250 || l.Rotation != 45 || l.Visible {
		t.Errorf("patch not applied: %+v", l)
	}
	// Unpatched fields stay.
	if l.Name != "Rect" || l.ScaleX != 1 {
		t.Errorf("patch clobbered other fields: %+v", l)
	}
}

func TestUpdateLayerAbsentNoOp(t *testing.T) {
	s := NewStore()
	x := 10.0
	s.UpdateLayer("missing", Patch{X: &x}) // must not panic
}

func TestDeleteLayer(t *testing.T) {
	s := NewStore()
	id := s.AddLayer(newRectLayer())
	s.SetSelection(id)

	s.DeleteLayer(id)
	if s.LayerCount() != 0 {
		t.Error("layer not deleted")
	}
	if s.Selection() != "" {
		t.Error("selection not cleared on delete")
	}
}

func TestDeleteLockedLayerNoOp(t *testing.T) {
	s := NewStore()
	id := s.AddLayer(newRectLayer())
	locked := true
	s.UpdateLayer(id, Patch{Locked: &locked})

	s.DeleteLayer(id)
	if s.LayerCount() != 1 {
		t.Error("locked layer was deleted")
	}
}

func TestDeleteAbsentNoOp(t *testing.T) {
	s := NewStore()
	s.AddLayer(newRectLayer())
	s.DeleteLayer("missing")
	if s.LayerCount() != 1 {
		t.Error("delete of absent id changed the stack")
	}
}

func TestReorderLayers(t *testing.T) {
	s := NewStore()
	a := s.AddLayer(newRectLayer())
	b := s.AddLayer(newRectLayer())
	c := s.AddLayer(newRectLayer())
	// Stack is topmost first: c, b, a.

	s.ReorderLayers(0, 2)
	got := s.Layers()
	want := []string{b, a, c}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("after reorder, index %d = %s, want %s", i, got[i].ID, id)
		}
	}
	_ = a
}

func TestReorderOutOfRangeNoOp(t *testing.T) {
	s := NewStore()
	a := s.AddLayer(newRectLayer())
	b := s.AddLayer(newRectLayer())

	for _, idx := range [][2]int{{-1, 0}, {0, 2}, {5, 0}, {1, 1}} {
		s.ReorderLayers(idx[0], idx[1])
	}
	got := s.Layers()
	if got[0].ID != b || got[1].ID != a {
		t.Error("out-of-range reorder changed the stack")
	}
}

func TestSetSelection(t *testing.T) {
	s := NewStore()
	id := s.AddLayer(newRectLayer())

	s.SetSelection(id)
	if s.Selection() != id {
		t.Error("selection not set")
	}
	if s.Selected() == nil || s.Selected().ID != id {
		t.Error("Selected() does not match selection")
	}

	s.SetSelection("missing")
	if s.Selection() != "" {
		t.Error("selecting an unknown id should clear the selection")
	}
}

func TestMutate(t *testing.T) {
	s := NewStore()
	id := s.AddLayer(newRectLayer())
	s.Mutate(id, func(l *layer.Layer) {
		l.Rect.Width = 400
	})
	if got := s.Find(id).Rect.Width; got != 400 {
		t.Errorf("width = %v, want 400", got)
	}
}

func TestBaseColor(t *testing.T) {
	s := NewStore()
	want := color.RGBA{R: 0xF5, G: 0xF5, B: 0xF0, A: 0xFF}
	s.SetBaseColor(want)
	if got := s.BaseColor(); got != want {
		t.Errorf("BaseColor() = %v, want %v", got, want)
	}
}

func TestEvents(t *testing.T) {
	s := NewStore()

	var layersChanged, docChanged int
	s.On(EventLayersChanged, func(interface{}) { layersChanged++ })
	s.On(EventDocumentChanged, func(interface{}) { docChanged++ })

	id := s.AddLayer(newRectLayer())
	x := 5.0
	s.UpdateLayer(id, Patch{X: &x})

	if layersChanged != 2 {
		t.Errorf("EventLayersChanged fired %d times, want 2", layersChanged)
	}
	if docChanged != 2 {
		t.Errorf("EventDocumentChanged fired %d times, want 2", docChanged)
	}
}
