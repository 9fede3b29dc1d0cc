// Command wrapexport renders a wrap document to a PNG without the UI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/document"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/export"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/template"
)

// headlessOverlays satisfies the export overlay contract with nothing to
// hide. A headless render never draws selection chrome.
type headlessOverlays struct{}

func (headlessOverlays) OverlaysVisible() bool  { return false }
func (headlessOverlays) SetOverlaysVisible(bool) {}

func main() {
	docPath := flag.String("doc", "", "Path to document JSON")
	assetsDir := flag.String("assets", "assets", "Directory with template and image assets")
	outPath := flag.String("out", "wrap.png", "Output PNG path")
	flag.Parse()

	if *docPath == "" {
		fmt.Println("Usage: wrapexport -doc <path> [-assets dir] [-out wrap.png]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read document: %v\n", err)
		os.Exit(1)
	}

	store := document.NewStore()
	if err := store.Deserialize(data); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse document: %v\n", err)
		os.Exit(1)
	}

	resolver := template.DirResolver{Root: *assetsDir}
	if err := store.ResolveAssets(resolver); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve assets: %v\n", err)
		os.Exit(1)
	}

	svc := &export.Service{Overlays: headlessOverlays{}}
	if err := svc.WriteFile(store, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d layers to %s\n", store.LayerCount(), *outPath)
}
