package workspace

import (
	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/federation"
)

// Documents returns the open documents in the order they were opened.
func (w *Workspace) Documents() []federation.DocID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Documents()
}

// Lookup returns the document opened at location.
func (w *Workspace) Lookup(location string) (federation.DocID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Lookup(location)
}

// Location returns the location doc was opened at.
func (w *Workspace) Location(doc federation.DocID) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Location(doc)
}

// Scope returns a snapshot of doc's scope.
func (w *Workspace) Scope(doc federation.DocID) (federation.ScopeView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Scope(doc)
}

// Resolve returns the document declaring the library kind/name in doc's scope.
func (w *Workspace) Resolve(doc federation.DocID, kind federation.Kind, name string) (federation.DocID, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Resolve(doc, kind, name)
}

// ResolveID returns the document declaring id in doc's scope.
func (w *Workspace) ResolveID(doc federation.DocID, id uuid.UUID) (federation.DocID, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.ResolveID(doc, id)
}

// Validate checks the whole reference graph for cycles.
func (w *Workspace) Validate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Validate()
}

// Stats returns graph and scope-cache counters.
func (w *Workspace) Stats() federation.Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Stats()
}

// Snapshot is a consistent, read-only copy of the workspace taken under one lock.
type Snapshot struct {
	Documents []DocumentInfo
	Stats     federation.Stats
}

// DocumentInfo describes one document of a [Snapshot].
type DocumentInfo struct {
	ID         federation.DocID
	Location   string
	Libraries  map[federation.Kind][]string
	Elements   int
	References []federation.DocID // explicit, in list order
	Implicit   []ImplicitInfo     // in ascending target order
	Scope      federation.ScopeView
}

// ImplicitInfo is the implicit reference count towards one target.
type ImplicitInfo struct {
	Target federation.DocID
	Count  int
}

// Snapshot copies every document, its references and its scope.
func (w *Workspace) Snapshot() (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var snap Snapshot
	for _, id := range w.graph.Documents() {
		d := w.docs[id]
		loc, _ := w.graph.Location(id)
		scope, err := w.graph.Scope(id)
		if err != nil {
			return Snapshot{}, err
		}
		info := DocumentInfo{
			ID:         id,
			Location:   loc,
			Libraries:  make(map[federation.Kind][]string),
			Elements:   len(d.elements),
			References: w.graph.ExplicitReferences(id),
			Scope:      scope,
		}
		for _, kind := range federation.LibraryKinds {
			if names := d.libraries[kind]; len(names) > 0 {
				info.Libraries[kind] = append([]string(nil), names...)
			}
		}
		for _, to := range w.graph.NeighborsForward(id) {
			if n := w.graph.ImplicitCount(id, to); n > 0 {
				info.Implicit = append(info.Implicit, ImplicitInfo{Target: to, Count: n})
			}
		}
		snap.Documents = append(snap.Documents, info)
	}
	snap.Stats = w.graph.Stats()
	return snap, nil
}
