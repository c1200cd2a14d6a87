package federation

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/observability"
)

// table maps namespace keys to the document that declares them.
type table map[key]DocID

// scope is the cached, bidirectional transitive view rooted at one document.
//
// fwdIndex holds declarations of root and every document in forward;
// bwdIndex holds declarations of every document in backward. While valid is
// false every other field is stale and must be rebuilt before it is read.
type scope struct {
	g        *Graph
	root     DocID
	forward  map[DocID]struct{}
	backward map[DocID]struct{}
	fwdIndex table
	bwdIndex table
	valid    bool
}

// scopeOf returns the cached scope of root, materializing an invalid one on
// first use. root must be a registered document.
func (g *Graph) scopeOf(root DocID) *scope {
	if s := g.scopes[root-1]; s != nil {
		return s
	}
	s := &scope{g: g, root: root}
	g.scopes[root-1] = s
	return s
}

// validScope looks up root and returns its scope after revalidation.
func (g *Graph) validScope(root DocID) (*scope, error) {
	if _, err := g.doc(root); err != nil {
		return nil, err
	}
	s := g.scopeOf(root)
	if err := s.revalidate(); err != nil {
		return nil, err
	}
	return s, nil
}

// revalidate rebuilds the forward and backward sets from the live graph and
// then every index from document content. A valid scope is left untouched.
func (s *scope) revalidate() error {
	if s.valid {
		return nil
	}
	start := time.Now()

	forward, err := s.g.walk([]DocID{s.root}, forwardOf)
	if err != nil {
		return err
	}
	backward, err := s.g.walk([]DocID{s.root}, backwardOf)
	if err != nil {
		return err
	}

	s.forward, s.backward = forward, backward
	s.fwdIndex, s.bwdIndex = make(table), make(table)
	s.collect(s.fwdIndex, s.root)
	for _, d := range sortedIDs(forward) {
		s.collect(s.fwdIndex, d)
	}
	for _, d := range sortedIDs(backward) {
		s.collect(s.bwdIndex, d)
	}
	s.valid = true

	observability.Federation().OnScopeRevalidated(s.g.location(s.root), len(forward), len(backward), time.Since(start))
	return nil
}

func (s *scope) collect(t table, doc DocID) {
	for _, kind := range LibraryKinds {
		for _, name := range s.g.content.LibraryNames(doc, kind) {
			t[key{kind: kind, name: name}] = doc
		}
	}
	for _, id := range s.g.content.UniqueIDs(doc) {
		t[idKey(id)] = doc
	}
}

func (s *scope) invalidate() {
	if !s.valid {
		return
	}
	s.valid = false
	observability.Federation().OnScopeInvalidated(s.g.location(s.root))
}

// contains reports membership using the cached sets. Callers must have
// revalidated s or know it to be valid.
func (s *scope) contains(doc DocID) bool {
	if doc == s.root {
		return true
	}
	if _, ok := s.forward[doc]; ok {
		return true
	}
	_, ok := s.backward[doc]
	return ok
}

// forwardSide reports whether doc contributes to fwdIndex.
func (s *scope) forwardSide(doc DocID) bool {
	if doc == s.root {
		return true
	}
	_, ok := s.forward[doc]
	return ok
}

// lookup resolves k through the forward side first, then the backward side.
func (s *scope) lookup(k key) (DocID, bool) {
	if owner, ok := s.fwdIndex[k]; ok {
		return owner, true
	}
	owner, ok := s.bwdIndex[k]
	return owner, ok
}

// insert patches a single declaration of doc into the matching side.
func (s *scope) insert(doc DocID, k key) {
	if s.forwardSide(doc) {
		s.fwdIndex[k] = doc
		return
	}
	s.bwdIndex[k] = doc
}

// remove drops k from whichever side holds it, provided doc owns it.
func (s *scope) remove(doc DocID, k key) {
	if owner, ok := s.fwdIndex[k]; ok && owner == doc {
		delete(s.fwdIndex, k)
	}
	if owner, ok := s.bwdIndex[k]; ok && owner == doc {
		delete(s.bwdIndex, k)
	}
}

// members returns root, the forward set and the backward set in ascending order.
func (s *scope) members() []DocID {
	ids := make([]DocID, 0, 1+len(s.forward)+len(s.backward))
	ids = append(ids, s.root)
	ids = append(ids, sortedIDs(s.forward)...)
	ids = append(ids, sortedIDs(s.backward)...)
	return ids
}

// Entry is one declaration visible in a scope.
type Entry struct {
	Kind     Kind
	Name     string    // library name; empty for identifiers
	ID       uuid.UUID // identifier; uuid.Nil for library names
	Owner    DocID
	Backward bool // true if the owner is in the backward set
}

// ScopeView is a read-only snapshot of a revalidated scope.
type ScopeView struct {
	Root     DocID
	Forward  []DocID
	Backward []DocID
	Entries  []Entry // sorted by kind, then name, then identifier
}

// Names returns the library names of kind visible in the snapshot.
func (v ScopeView) Names(kind Kind) []string {
	var names []string
	for _, e := range v.Entries {
		if e.Kind == kind && kind.IsLibrary() {
			names = append(names, e.Name)
		}
	}
	return names
}

// IDs returns the unique identifiers visible in the snapshot.
func (v ScopeView) IDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, e := range v.Entries {
		if e.Kind == KindIdentifier {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Contains reports whether doc is the root or a member of either set.
func (v ScopeView) Contains(doc DocID) bool {
	return doc == v.Root || slices.Contains(v.Forward, doc) || slices.Contains(v.Backward, doc)
}

// Scope revalidates the scope rooted at root and returns a snapshot of it.
func (g *Graph) Scope(root DocID) (ScopeView, error) {
	s, err := g.validScope(root)
	if err != nil {
		return ScopeView{}, err
	}
	v := ScopeView{
		Root:     root,
		Forward:  sortedIDs(s.forward),
		Backward: sortedIDs(s.backward),
	}
	for _, side := range []struct {
		t        table
		backward bool
	}{{s.fwdIndex, false}, {s.bwdIndex, true}} {
		for _, k := range sortedKeys(side.t) {
			v.Entries = append(v.Entries, Entry{
				Kind:     k.kind,
				Name:     k.name,
				ID:       k.id,
				Owner:    side.t[k],
				Backward: side.backward,
			})
		}
	}
	slices.SortStableFunc(v.Entries, func(a, b Entry) int {
		return compareKeys(key{a.Kind, a.Name, a.ID}, key{b.Kind, b.Name, b.ID})
	})
	return v, nil
}

// Contains reports whether doc is root or a member of root's forward or
// backward set.
func (g *Graph) Contains(root, doc DocID) (bool, error) {
	s, err := g.validScope(root)
	if err != nil {
		return false, err
	}
	return s.contains(doc), nil
}

func sortedKeys(t table) []key {
	return slices.SortedFunc(maps.Keys(t), compareKeys)
}
