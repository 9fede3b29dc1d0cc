// Package mainwindow provides the main application window.
package mainwindow

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/brush"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/export"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/layer"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/transform"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/canvas"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/panels"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/prefs"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/tools"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *document.Session
	prefs   *prefs.Prefs

	brush    *brush.Engine
	xform    *transform.Engine
	editor   *canvas.Editor
	exporter *export.Service

	layersPanel *panels.LayersPanel
	toolPanel   *panels.ToolPanel
	statusBar   *widget.Label

	docPath string
}

// New creates the main window over an existing session.
func New(fyneApp fyne.App, session *document.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Wrap Studio")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	mw.brush = brush.NewEngine(session)
	mw.xform = transform.NewEngine(session)
	mw.editor = canvas.NewEditor(session, mw.brush, mw.xform)
	mw.exporter = &export.Service{Overlays: mw.editor}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1400, 980))
	return mw
}

// Brush exposes the brush engine for startup wiring.
func (mw *MainWindow) Brush() *brush.Engine {
	return mw.brush
}

// DocumentPath returns the current document path, or "" when unsaved.
func (mw *MainWindow) DocumentPath() string {
	return mw.docPath
}

// SetDocumentPath records the path used by Save without a dialog.
func (mw *MainWindow) SetDocumentPath(path string) {
	mw.docPath = path
	if path != "" {
		mw.SetTitle("Wrap Studio - " + filepath.Base(path))
	}
}

func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")

	mw.layersPanel = panels.NewLayersPanel(mw.session)
	mw.toolPanel = panels.NewToolPanel(mw.session, mw.brush, mw.editor)

	side := container.NewAppTabs(
		container.NewTabItem("Layers", mw.layersPanel.Container()),
		container.NewTabItem("Tools", mw.toolPanel.Container()),
	)

	canvasArea := container.NewBorder(
		mw.createToolbar(),
		nil, nil, nil,
		mw.editor,
	)

	split := container.NewHSplit(side, canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	selectBtn := widget.NewButton("Select (V)", func() { mw.SetTool(tools.ToolSelect) })
	brushBtn := widget.NewButton("Brush (B)", func() { mw.SetTool(tools.ToolBrush) })
	fillBtn := widget.NewButton("Fill (F)", func() { mw.SetTool(tools.ToolFill) })

	undoBtn := widget.NewButton("Undo", mw.onUndo)
	redoBtn := widget.NewButton("Redo", mw.onRedo)

	zoomOutBtn := widget.NewButton("-", mw.editor.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.editor.ZoomIn)
	actualBtn := widget.NewButton("1:1", mw.editor.ZoomReset)

	return container.NewHBox(
		selectBtn, brushBtn, fillBtn,
		widget.NewSeparator(),
		undoBtn, redoBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"), zoomOutBtn, zoomInBtn, actualBtn,
	)
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Document...", mw.onOpen),
		fyne.NewMenuItem("Save Document", mw.onSave),
		fyne.NewMenuItem("Save Document As...", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
	)

	insertMenu := fyne.NewMenu("Insert",
		fyne.NewMenuItem("Text", func() { mw.InsertDefaultLayer(layer.KindText) }),
		fyne.NewMenuItem("Rectangle", func() { mw.InsertDefaultLayer(layer.KindRect) }),
		fyne.NewMenuItem("Circle", func() { mw.InsertDefaultLayer(layer.KindCircle) }),
		fyne.NewMenuItem("Line", func() { mw.InsertDefaultLayer(layer.KindLine) }),
		fyne.NewMenuItem("Star", func() { mw.InsertDefaultLayer(layer.KindStar) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Image...", func() { mw.onInsertAsset(layer.KindImage) }),
		fyne.NewMenuItem("Texture...", func() { mw.onInsertAsset(layer.KindTexture) }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.editor.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.editor.ZoomOut),
		fyne.NewMenuItem("Actual Size", mw.editor.ZoomReset),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, insertMenu, viewMenu))
}

func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		tools.HandleKey(ev.Name, mw)
	})

	undoShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(undoShortcut, func(fyne.Shortcut) { mw.onUndo() })

	redoShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(redoShortcut, func(fyne.Shortcut) { mw.onRedo() })
}

func (mw *MainWindow) setupEventHandlers() {
	mw.session.Store.On(document.EventSelectionChanged, func(data interface{}) {
		if id, ok := data.(string); ok {
			mw.brush.NotifySelection(id)
		}
		mw.updateStatus()
	})
	mw.session.Store.On(document.EventLayersChanged, func(interface{}) {
		mw.updateStatus()
	})
}

// SetTool implements tools.Actions.
func (mw *MainWindow) SetTool(t tools.Tool) {
	mw.editor.SetTool(t)
	mw.statusBar.SetText("Tool: " + t.String())
}

// InsertDefaultLayer implements tools.Actions. The inserted layer is
// selected and the select tool activated so it can be moved right away.
func (mw *MainWindow) InsertDefaultLayer(kind layer.Kind) {
	l := tools.DefaultLayer(kind)
	if l == nil {
		return
	}
	id := mw.session.Store.AddLayer(l)
	if id == "" {
		return
	}
	mw.session.Store.SetSelection(id)
	mw.session.Commit()
	mw.SetTool(tools.ToolSelect)
}

// onInsertAsset inserts an image or texture layer from a picked file.
func (mw *MainWindow) onInsertAsset(kind layer.Kind) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		l, err := tools.ImportedLayer(kind, reader.URI().Name(), data)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		id := mw.session.Store.AddLayer(l)
		if id == "" {
			log.Printf("imported layer rejected: %s", reader.URI().Name())
			return
		}
		mw.session.Store.SetSelection(id)
		mw.session.Commit()
		mw.SetTool(tools.ToolSelect)
	}, mw.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
	d.Show()
}

// AdjustBrushSize implements tools.Actions.
func (mw *MainWindow) AdjustBrushSize(delta float64) {
	s := mw.brush.Settings.Size + delta
	if s < 1 {
		s = 1
	}
	if s > 200 {
		s = 200
	}
	mw.brush.Settings.Size = s
	mw.toolPanel.RefreshBrush()
	mw.editor.Refresh()
}

func (mw *MainWindow) onUndo() {
	if mw.session.Undo() {
		mw.statusBar.SetText("Undo")
	}
}

func (mw *MainWindow) onRedo() {
	if mw.session.Redo() {
		mw.statusBar.SetText("Redo")
	}
}

func (mw *MainWindow) onOpen() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		data, err := os.ReadFile(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if err := mw.session.Store.Deserialize(data); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if mw.session.Resolver != nil {
			if err := mw.session.Store.ResolveAssets(mw.session.Resolver); err != nil {
				log.Printf("resolve assets: %v", err)
			}
		}
		mw.session.History.Reset(mustSerialize(mw.session.Store))
		mw.SetDocumentPath(path)
		mw.prefs.SetString(prefs.KeyLastDocument, path)
		mw.statusBar.SetText("Opened " + filepath.Base(path))
	}, mw.Window)
}

func (mw *MainWindow) onSave() {
	if mw.docPath == "" {
		mw.onSaveAs()
		return
	}
	mw.saveTo(mw.docPath)
}

func (mw *MainWindow) onSaveAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		mw.saveTo(path)
		mw.SetDocumentPath(path)
		mw.prefs.SetString(prefs.KeyLastDocument, path)
	}, mw.Window)
	d.SetFileName("wrap.json")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (mw *MainWindow) saveTo(path string) {
	data, err := mw.session.Store.Serialize()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.statusBar.SetText("Saved " + filepath.Base(path))
}

func (mw *MainWindow) onExport() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := mw.exporter.WriteFile(mw.session.Store, path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.statusBar.SetText("Exported " + filepath.Base(path))
	}, mw.Window)
	d.SetFileName("wrap.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	d.Show()
}

func (mw *MainWindow) updateStatus() {
	sel := mw.session.Store.Selected()
	if sel == nil {
		mw.statusBar.SetText("Ready")
		return
	}
	mw.statusBar.SetText("Selected: " + sel.Name + " (" + string(sel.Kind) + ")")
}

func mustSerialize(s *document.Store) []byte {
	data, err := s.Serialize()
	if err != nil {
		log.Printf("serialize: %v", err)
		return nil
	}
	return data
}
