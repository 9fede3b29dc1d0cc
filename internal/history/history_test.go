package history

import (
	"bytes"
	"testing"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	m := New([]byte("s0"))
	m.Commit([]byte("s1"))
	m.Commit([]byte("s2"))

	got, ok := m.Undo()
	if !ok || !bytes.Equal(got, []byte("s1")) {
		t.Fatalf("undo: got %q, %v", got, ok)
	}
	got, ok = m.Redo()
	if !ok || !bytes.Equal(got, []byte("s2")) {
		t.Fatalf("redo: got %q, %v", got, ok)
	}
}

func TestFirstCommitIsUndoable(t *testing.T) {
	m := New([]byte("initial"))
	if m.CanUndo() {
		t.Error("fresh history should have nothing to undo")
	}
	m.Commit([]byte("first edit"))
	got, ok := m.Undo()
	if !ok || !bytes.Equal(got, []byte("initial")) {
		t.Fatalf("undo after first commit: got %q, %v", got, ok)
	}
}

func TestBoundsAreNoOps(t *testing.T) {
	m := New([]byte("s0"))
	m.Commit([]byte("s1"))

	if _, ok := m.Redo(); ok {
		t.Error("redo at upper bound should fail")
	}
	if _, ok := m.Undo(); !ok {
		t.Fatal("one undo should succeed")
	}
	if _, ok := m.Undo(); ok {
		t.Error("undo at lower bound should fail")
	}
	// Failed moves must not corrupt the cursor.
	if got, ok := m.Redo(); !ok || !bytes.Equal(got, []byte("s1")) {
		t.Errorf("redo after bounded undo: got %q, %v", got, ok)
	}
}

func TestCommitTruncatesRedoBranch(t *testing.T) {
	m := New([]byte("s0"))
	m.Commit([]byte("s1"))
	m.Commit([]byte("s2"))
	if _, ok := m.Undo(); !ok {
		t.Fatal("undo failed")
	}
	m.Commit([]byte("s1b"))

	if m.CanRedo() {
		t.Error("redo branch should be gone after commit")
	}
	if got := m.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	got, ok := m.Undo()
	if !ok || !bytes.Equal(got, []byte("s1")) {
		t.Errorf("undo from new branch: got %q, %v", got, ok)
	}
}

func TestReset(t *testing.T) {
	m := New([]byte("s0"))
	m.Commit([]byte("s1"))
	m.Reset([]byte("fresh"))

	if m.CanUndo() || m.CanRedo() {
		t.Error("reset history should have no undo or redo")
	}
	if got := m.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	buf := []byte("mutable")
	m := New([]byte("s0"))
	m.Commit(buf)
	buf[0] = 'X'

	got, _ := m.Undo()
	_ = got
	got, ok := m.Redo()
	if !ok {
		t.Fatal("redo failed")
	}
	if !bytes.Equal(got, []byte("mutable")) {
		t.Errorf("history shares caller's buffer: %q", got)
	}
}
