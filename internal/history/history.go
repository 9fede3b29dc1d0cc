// Package history provides snapshot-based undo/redo over serialized
// document state.
package history

import (
	"sync"
)

// Manager keeps an ordered list of full document snapshots and a cursor.
// Snapshots are committed at gesture boundaries only, never per frame:
// one interactive gesture produces exactly one history entry.
type Manager struct {
	mu        sync.Mutex
	snapshots [][]byte
	cursor    int
}

// New creates a history seeded with the initial document snapshot. The
// seed occupies cursor 0 so the first committed mutation is undoable.
func New(initial []byte) *Manager {
	return &Manager{snapshots: [][]byte{clone(initial)}}
}

// Reset discards all history and re-seeds it with the given snapshot.
func (m *Manager) Reset(initial []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = [][]byte{clone(initial)}
	m.cursor = 0
}

// Commit truncates any redoable future past the cursor, appends the
// snapshot, and advances the cursor to it. The snapshot is copied so
// later caller writes cannot rewrite history.
func (m *Manager) Commit(snapshot []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots[:m.cursor+1], clone(snapshot))
	m.cursor = len(m.snapshots) - 1
}

// Undo steps the cursor back and returns the snapshot to apply.
// Returns (nil, false) at the lower bound.
func (m *Manager) Undo() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor <= 0 {
		return nil, false
	}
	m.cursor--
	return m.snapshots[m.cursor], true
}

// Redo steps the cursor forward and returns the snapshot to apply.
// Returns (nil, false) at the upper bound.
func (m *Manager) Redo() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor >= len(m.snapshots)-1 {
		return nil, false
	}
	m.cursor++
	return m.snapshots[m.cursor], true
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.snapshots)-1
}

// Len returns the number of stored snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
