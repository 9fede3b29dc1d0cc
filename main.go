// Package main provides the entry point for the wrap studio application.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/persist"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/template"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/version"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/apptheme"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/mainwindow"
	"github.com/yzydeveloper/tesla-wrap-sub000/ui/prefs"
)

const (
	appTitle = "Wrap Studio"

	autosaveDelay = 2 * time.Second
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	assetsDir := flag.String("assets", "assets", "directory with template and image assets")
	templateName := flag.String("template", "", "template image to load (overrides preferences)")
	docPath := flag.String("doc", "", "document to open on startup")
	flag.Parse()

	appPrefs := prefs.Load()

	store := document.NewStore()
	session := document.NewSession(store)
	session.Resolver = template.DirResolver{Root: *assetsDir}

	tplName := *templateName
	if tplName == "" {
		tplName = appPrefs.String(prefs.KeyTemplate, "model3")
	}
	loadTemplate(session, tplName)

	watcher := startTemplateWatcher(session, *assetsDir, tplName)
	if watcher != nil {
		defer watcher.Stop()
	}

	path := *docPath
	if path == "" {
		path = appPrefs.String(prefs.KeyLastDocument, "")
	}

	fyneApp := fyneapp.NewWithID("com.wrapstudio.app")
	fyneApp.Settings().SetTheme(&apptheme.WrapStudioTheme{})
	win := mainwindow.New(fyneApp, session, appPrefs)
	win.Brush().Settings.Size = appPrefs.Float(prefs.KeyBrushSize, win.Brush().Settings.Size)
	win.Brush().Settings.Color = appPrefs.String(prefs.KeyBrushColor, win.Brush().Settings.Color)

	if path != "" {
		openDocument(session, path)
		win.SetDocumentPath(path)
	}

	saver := startAutoSaver(session, win.DocumentPath)
	defer saver.Stop()

	win.Show()
	fyneApp.Run()

	saver.Flush()
	appPrefs.SetString(prefs.KeyTemplate, tplName)
	appPrefs.SetFloat(prefs.KeyBrushSize, win.Brush().Settings.Size)
	appPrefs.SetString(prefs.KeyBrushColor, win.Brush().Settings.Color)
	if err := appPrefs.Save(); err != nil {
		log.Printf("Save preferences: %v", err)
	}
}

// loadTemplate resolves the named template and installs it on the store.
// A missing template is not fatal; the canvas stays blank until one loads.
func loadTemplate(session *document.Session, name string) {
	tpl, err := session.Resolver.Template(name)
	if err != nil {
		log.Printf("Load template %s: %v", name, err)
		return
	}
	session.Store.SetTemplate(tpl)
	log.Printf("Template loaded: %s", name)
}

// startTemplateWatcher reloads the template when its file changes on disk.
func startTemplateWatcher(session *document.Session, dir, name string) *template.Watcher {
	path := filepath.Join(dir, name+".png")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w := template.NewWatcher(path, 2*time.Second)
	w.OnChange(func() {
		log.Printf("Template changed on disk, reloading: %s", name)
		loadTemplate(session, name)
	})
	w.Start()
	return w
}

// openDocument loads a document file into the session and reseeds history.
func openDocument(session *document.Session, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Open document %s: %v", path, err)
		return
	}
	if err := session.Store.Deserialize(data); err != nil {
		log.Printf("Open document %s: %v", path, err)
		return
	}
	if err := session.Store.ResolveAssets(session.Resolver); err != nil {
		log.Printf("Resolve assets for %s: %v", path, err)
	}
	if snapshot, err := session.Store.Serialize(); err == nil {
		session.History.Reset(snapshot)
	}
	log.Printf("Document loaded: %s", path)
}

// startAutoSaver persists the document a short while after each change,
// so a burst of edits produces a single write.
func startAutoSaver(session *document.Session, pathFn func() string) *persist.AutoSaver {
	saver := persist.NewAutoSaver(autosaveDelay,
		func() ([]byte, error) {
			return session.Store.Serialize()
		},
		func(data []byte) error {
			path := pathFn()
			if path == "" {
				return nil
			}
			return os.WriteFile(path, data, 0o644)
		},
	)
	session.Store.On(document.EventDocumentChanged, func(interface{}) {
		saver.Trigger()
	})
	return saver
}
