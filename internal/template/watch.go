package template

import (
	"os"
	"time"
)

// Watcher polls a template asset file for modification and triggers a
// callback when a newer version appears on disk. This lets designers tweak
// a silhouette in an external editor and see it reload in the running app.
type Watcher struct {
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func()
}

// NewWatcher creates a watcher for the given template file. Returns nil if
// the file cannot be stat'd.
func NewWatcher(path string, checkInterval time.Duration) *Watcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &Watcher{
		path:          path,
		baseline:      info.ModTime(),
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// OnChange sets the callback to invoke when the file changes. The callback
// runs on a background goroutine - synchronize before touching UI state.
func (w *Watcher) OnChange(callback func()) {
	w.onChange = callback
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watchLoop()
}

// Stop stops the watcher goroutine.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.checkForUpdate() {
				if w.onChange != nil {
					w.onChange()
				}
			}
		}
	}
}

// checkForUpdate advances the baseline and reports whether the file has
// been modified since the last check.
func (w *Watcher) checkForUpdate() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	if info.ModTime().After(w.baseline) {
		w.baseline = info.ModTime()
		return true
	}
	return false
}
