// Package persist provides debounced auto-saving of serialized documents.
package persist

import (
	"log"
	"sync"
	"time"
)

// Saver accepts one serialized document. It is the boundary to the
// external persistence collaborator (local file, cloud project, ...).
type Saver func(data []byte) error

// Source produces the current serialized document state.
type Source func() ([]byte, error)

// AutoSaver coalesces bursts of document mutations into a single save:
// the timer restarts on every Trigger and the save fires only after a
// quiet period.
type AutoSaver struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	source Source
	saver  Saver
}

// NewAutoSaver creates an auto-saver with the given quiet period.
func NewAutoSaver(delay time.Duration, source Source, saver Saver) *AutoSaver {
	return &AutoSaver{delay: delay, source: source, saver: saver}
}

// Trigger notes a mutation and (re)starts the quiet-period timer.
func (a *AutoSaver) Trigger() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.save)
}

// Flush cancels any pending timer and saves immediately. Call on shutdown.
func (a *AutoSaver) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	a.save()
}

// Stop cancels any pending save without firing it.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *AutoSaver) save() {
	data, err := a.source()
	if err != nil {
		log.Printf("auto-save: serialize failed: %v", err)
		return
	}
	if err := a.saver(data); err != nil {
		log.Printf("auto-save: save failed: %v", err)
	}
}
