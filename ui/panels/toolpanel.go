package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/brush"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/fill"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/colorutil"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/canvas"
)

// ToolPanel exposes brush settings, fill color and the property sheet
// for the selected layer.
type ToolPanel struct {
	session   *document.Session
	brush     *brush.Engine
	editor    *canvas.Editor
	container fyne.CanvasObject

	sizeLabel *widget.Label
	nameEntry *widget.Entry
	propsCard *widget.Card
	propsBox  *fyne.Container
}

// NewToolPanel creates the tool panel.
func NewToolPanel(session *document.Session, b *brush.Engine, editor *canvas.Editor) *ToolPanel {
	tp := &ToolPanel{session: session, brush: b, editor: editor}

	tp.sizeLabel = widget.NewLabel(fmt.Sprintf("Size: %.0fpx", b.Settings.Size))
	sizeSlider := widget.NewSlider(1, 200)
	sizeSlider.Value = b.Settings.Size
	sizeSlider.OnChanged = func(v float64) {
		b.Settings.Size = v
		tp.sizeLabel.SetText(fmt.Sprintf("Size: %.0fpx", v))
	}

	hardnessSlider := widget.NewSlider(0, 100)
	hardnessSlider.Value = b.Settings.Hardness
	hardnessSlider.OnChanged = func(v float64) { b.Settings.Hardness = v }

	opacitySlider := widget.NewSlider(0, 1)
	opacitySlider.Step = 0.01
	opacitySlider.Value = b.Settings.Opacity
	opacitySlider.OnChanged = func(v float64) { b.Settings.Opacity = v }

	flowSlider := widget.NewSlider(0, 1)
	flowSlider.Step = 0.01
	flowSlider.Value = b.Settings.Flow
	flowSlider.OnChanged = func(v float64) { b.Settings.Flow = v }

	spacingSlider := widget.NewSlider(1, 100)
	spacingSlider.Value = b.Settings.Spacing
	spacingSlider.OnChanged = func(v float64) { b.Settings.Spacing = v }

	smoothingSlider := widget.NewSlider(0, 1)
	smoothingSlider.Step = 0.01
	smoothingSlider.Value = b.Settings.Smoothing
	smoothingSlider.OnChanged = func(v float64) { b.Settings.Smoothing = v }

	colorEntry := widget.NewEntry()
	colorEntry.SetText(b.Settings.Color)
	colorEntry.OnChanged = func(s string) {
		if _, err := colorutil.ParseHex(s); err == nil {
			b.Settings.Color = s
		}
	}

	eraserCheck := widget.NewCheck("Eraser", func(on bool) {
		b.Settings.Eraser = on
	})

	blendSelect := widget.NewSelect(
		[]string{"normal", "multiply", "screen", "overlay"},
		func(s string) {
			var m layer.BlendMode
			if err := m.UnmarshalText([]byte(s)); err == nil {
				b.Settings.Blend = m
			}
		},
	)
	blendSelect.SetSelected("normal")

	brushCard := widget.NewCard("Brush", "", container.NewVBox(
		container.NewHBox(tp.sizeLabel, sizeSlider),
		container.NewHBox(widget.NewLabel("Hardness"), hardnessSlider),
		container.NewHBox(widget.NewLabel("Opacity"), opacitySlider),
		container.NewHBox(widget.NewLabel("Flow"), flowSlider),
		container.NewHBox(widget.NewLabel("Spacing"), spacingSlider),
		container.NewHBox(widget.NewLabel("Smoothing"), smoothingSlider),
		container.NewHBox(widget.NewLabel("Color"), colorEntry),
		container.NewHBox(eraserCheck, blendSelect),
	))

	fillEntry := widget.NewEntry()
	fillEntry.SetText("#D32F2F")
	fillEntry.OnChanged = func(s string) {
		if _, err := colorutil.ParseHex(s); err == nil {
			editor.SetFillColor(s)
		}
	}
	fillCard := widget.NewCard("Fill", "", container.NewHBox(
		widget.NewLabel("Color"), fillEntry,
	))

	tp.nameEntry = widget.NewEntry()
	tp.nameEntry.OnSubmitted = func(s string) {
		id := session.Store.Selection()
		if id == "" || s == "" {
			return
		}
		session.Store.UpdateLayer(id, document.Patch{Name: &s})
		session.Commit()
	}
	tp.propsBox = container.NewVBox()
	tp.propsCard = widget.NewCard("Layer", "", container.NewVBox(
		container.NewHBox(widget.NewLabel("Name"), tp.nameEntry),
		tp.propsBox,
	))

	session.Store.On(document.EventSelectionChanged, func(any) {
		tp.syncProps()
	})

	tp.container = container.NewVScroll(container.NewVBox(brushCard, fillCard, tp.propsCard))
	return tp
}

// Container returns the panel container.
func (tp *ToolPanel) Container() fyne.CanvasObject {
	return tp.container
}

// RefreshBrush updates the controls after the settings change elsewhere,
// e.g. via the bracket shortcuts.
func (tp *ToolPanel) RefreshBrush() {
	tp.sizeLabel.SetText(fmt.Sprintf("Size: %.0fpx", tp.brush.Settings.Size))
}

// syncProps rebuilds the per-kind property rows for the selected layer.
func (tp *ToolPanel) syncProps() {
	tp.propsBox.Objects = nil
	sel := tp.session.Store.Selected()
	if sel == nil {
		tp.nameEntry.SetText("")
		tp.propsBox.Refresh()
		return
	}
	tp.nameEntry.SetText(sel.Name)

	opacity := widget.NewSlider(0, 1)
	opacity.Step = 0.01
	opacity.Value = sel.Opacity
	id := sel.ID
	opacity.OnChangeEnded = func(v float64) {
		tp.session.Store.UpdateLayer(id, document.Patch{Opacity: &v})
		tp.session.Commit()
	}
	tp.propsBox.Add(container.NewHBox(widget.NewLabel("Opacity"), opacity))

	switch sel.Kind {
	case layer.KindText:
		content := widget.NewEntry()
		content.SetText(sel.Text.Content)
		content.OnSubmitted = func(s string) {
			tp.session.Store.Mutate(id, func(l *layer.Layer) { l.Text.Content = s })
			tp.session.Commit()
		}
		tp.propsBox.Add(container.NewHBox(widget.NewLabel("Text"), content))
		tp.propsBox.Add(tp.colorRow("Color", sel.Text.Color, func(l *layer.Layer, hex string) {
			l.Text.Color = hex
		}))
	case layer.KindRect:
		tp.propsBox.Add(tp.colorRow("Fill", sel.Rect.Fill, func(l *layer.Layer, hex string) {
			l.Rect.Fill = hex
		}))
	case layer.KindCircle:
		tp.propsBox.Add(tp.colorRow("Fill", sel.Circle.Fill, func(l *layer.Layer, hex string) {
			l.Circle.Fill = hex
		}))
	case layer.KindLine:
		tp.propsBox.Add(tp.colorRow("Stroke", sel.Line.Stroke, func(l *layer.Layer, hex string) {
			l.Line.Stroke = hex
		}))
	case layer.KindStar:
		tp.propsBox.Add(tp.colorRow("Fill", sel.Star.Fill, func(l *layer.Layer, hex string) {
			l.Star.Fill = hex
		}))
	case layer.KindFill:
		entry := widget.NewEntry()
		entry.SetText(sel.Fill.Color)
		entry.OnSubmitted = func(s string) {
			if _, err := colorutil.ParseHex(s); err != nil {
				return
			}
			fill.Recolor(tp.session.Store, id, s)
			tp.session.Commit()
		}
		tp.propsBox.Add(container.NewHBox(widget.NewLabel("Color"), entry))
	}
	tp.propsBox.Refresh()
}

func (tp *ToolPanel) colorRow(label, current string, apply func(*layer.Layer, string)) fyne.CanvasObject {
	entry := widget.NewEntry()
	entry.SetText(current)
	id := tp.session.Store.Selection()
	entry.OnSubmitted = func(s string) {
		if _, err := colorutil.ParseHex(s); err != nil {
			return
		}
		if id == "" {
			return
		}
		tp.session.Store.Mutate(id, func(l *layer.Layer) { apply(l, s) })
		tp.session.Commit()
	}
	return container.NewHBox(widget.NewLabel(label), entry)
}
