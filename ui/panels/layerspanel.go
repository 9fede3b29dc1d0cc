// Package panels provides the side panels of the wrap studio window.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
)

// LayersPanel lists the document's layers topmost first with controls
// for visibility, locking, ordering and removal.
type LayersPanel struct {
	session   *document.Session
	list      *widget.List
	container fyne.CanvasObject
}

// NewLayersPanel creates a layers panel bound to the session.
func NewLayersPanel(session *document.Session) *LayersPanel {
	lp := &LayersPanel{session: session}
	store := session.Store

	lp.list = widget.NewList(
		func() int {
			return store.LayerCount()
		},
		func() fyne.CanvasObject {
			vis := widget.NewCheck("", nil)
			lock := widget.NewButton("Lock", nil)
			name := widget.NewLabel("Layer Name")
			return container.NewBorder(nil, nil, vis, lock, name)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			layers := store.Layers()
			if int(id) >= len(layers) {
				return
			}
			l := layers[id]
			row := obj.(*fyne.Container)
			vis := row.Objects[1].(*widget.Check)
			lock := row.Objects[2].(*widget.Button)
			name := row.Objects[0].(*widget.Label)

			name.SetText(fmt.Sprintf("%s (%s)", l.Name, l.Kind))
			vis.OnChanged = nil
			vis.SetChecked(l.Visible)
			layerID := l.ID
			vis.OnChanged = func(checked bool) {
				lp.setVisible(layerID, checked)
			}
			if l.Locked {
				lock.SetText("Unlock")
			} else {
				lock.SetText("Lock")
			}
			lock.OnTapped = func() {
				lp.toggleLock(layerID)
			}
		},
	)

	lp.list.OnSelected = func(id widget.ListItemID) {
		layers := store.Layers()
		if int(id) < len(layers) {
			store.SetSelection(layers[id].ID)
		}
	}

	store.On(document.EventLayersChanged, func(any) {
		lp.list.Refresh()
	})
	store.On(document.EventSelectionChanged, func(any) {
		lp.syncSelection()
	})

	upBtn := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { lp.move(-1) })
	downBtn := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { lp.move(1) })
	deleteBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { lp.deleteSelected() })
	controls := container.NewHBox(upBtn, downBtn, deleteBtn)

	lp.container = container.NewBorder(nil, controls, nil, nil, lp.list)
	return lp
}

// Container returns the panel container.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}

func (lp *LayersPanel) syncSelection() {
	id := lp.session.Store.Selection()
	if id == "" {
		lp.list.UnselectAll()
		return
	}
	for i, l := range lp.session.Store.Layers() {
		if l.ID == id {
			lp.list.Select(widget.ListItemID(i))
			return
		}
	}
}

func (lp *LayersPanel) setVisible(id string, visible bool) {
	lp.session.Store.UpdateLayer(id, document.Patch{Visible: &visible})
	lp.session.Commit()
}

func (lp *LayersPanel) toggleLock(id string) {
	l := lp.session.Store.Find(id)
	if l == nil {
		return
	}
	locked := !l.Locked
	lp.session.Store.Mutate(id, func(l *layer.Layer) {
		l.Locked = locked
	})
	lp.session.Commit()
}

func (lp *LayersPanel) move(delta int) {
	store := lp.session.Store
	id := store.Selection()
	if id == "" {
		return
	}
	layers := store.Layers()
	for i, l := range layers {
		if l.ID == id {
			to := i + delta
			if to < 0 || to >= len(layers) {
				return
			}
			store.ReorderLayers(i, to)
			lp.session.Commit()
			return
		}
	}
}

func (lp *LayersPanel) deleteSelected() {
	store := lp.session.Store
	id := store.Selection()
	if id == "" {
		return
	}
	if l := store.Find(id); l == nil || l.Locked {
		return
	}
	store.DeleteLayer(id)
	lp.session.Commit()
}
