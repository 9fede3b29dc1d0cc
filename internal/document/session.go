package document

import (
	"log"

	"github.com/yzydeveloper/tesla-wrap-sub000/internal/history"
	"github.com/yzydeveloper/tesla-wrap-sub000/internal/template"
)

// Session ties a document store to its undo/redo history. Interactive
// engines mutate the store live and call Commit exactly once at gesture
// end; intermediate states never reach history.
type Session struct {
	Store   *Store
	History *history.Manager

	// Resolver re-resolves bitmaps after a snapshot is applied, since
	// decoded pixel data is not part of the serialized form.
	Resolver template.Resolver
}

// NewSession creates a session whose history is seeded with the store's
// current state.
func NewSession(store *Store) *Session {
	initial, err := store.Serialize()
	if err != nil {
		log.Printf("history seed failed: %v", err)
		initial = []byte("{}")
	}
	return &Session{Store: store, History: history.New(initial)}
}

// Commit snapshots the current document state into history.
func (s *Session) Commit() {
	snapshot, err := s.Store.Serialize()
	if err != nil {
		log.Printf("history commit failed: %v", err)
		return
	}
	s.History.Commit(snapshot)
}

// Undo applies the previous snapshot to the document. Returns false at the
// lower bound or if the snapshot cannot be applied.
func (s *Session) Undo() bool {
	snapshot, ok := s.History.Undo()
	if !ok {
		return false
	}
	if err := s.Store.Deserialize(snapshot); err != nil {
		log.Printf("undo failed: %v", err)
		return false
	}
	s.resolve()
	return true
}

// Redo applies the next snapshot to the document. Returns false at the
// upper bound or if the snapshot cannot be applied.
func (s *Session) Redo() bool {
	snapshot, ok := s.History.Redo()
	if !ok {
		return false
	}
	if err := s.Store.Deserialize(snapshot); err != nil {
		log.Printf("redo failed: %v", err)
		return false
	}
	s.resolve()
	return true
}

func (s *Session) resolve() {
	if s.Resolver == nil {
		return
	}
	if err := s.Store.ResolveAssets(s.Resolver); err != nil {
		log.Printf("asset resolution failed: %v", err)
	}
}
