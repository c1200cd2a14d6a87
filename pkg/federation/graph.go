package federation

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// DocID is a stable handle to a registered document. The zero value,
// [NoDocument], is never issued by [Graph.Register].
type DocID uint32

// NoDocument is the zero handle. It is used as "no anchor" or "ignore nothing"
// by the operations that accept an optional document.
const NoDocument DocID = 0

// Content is the read-only view of document content the graph consults when
// it rebuilds a scope from scratch. Implementations must report the current
// declarations of the document, including identifiers nested arbitrarily deep
// under instance hierarchies and class definitions.
type Content interface {
	LibraryNames(doc DocID, kind Kind) []string
	UniqueIDs(doc DocID) []uuid.UUID
}

type noContent struct{}

func (noContent) LibraryNames(DocID, Kind) []string { return nil }
func (noContent) UniqueIDs(DocID) []uuid.UUID       { return nil }

// document is one node of the federation. forward and backward are the
// direct-edge caches covering explicit and implicit references alike.
type document struct {
	id       DocID
	location string
	explicit []DocID
	forward  map[DocID]struct{}
	backward map[DocID]struct{}
}

// edge is a (referrer, referenced) pair.
type edge struct{ from, to DocID }

// Graph is the directed acyclic graph of federated documents together with
// the per-document scope caches derived from it.
//
// The zero value is not usable - use [New]. A Graph is not safe for concurrent
// use; callers must serialize every mutation and every query, because queries
// lazily rebuild cached scopes.
type Graph struct {
	content   Content
	docs      []*document // DocID-1 -> document, nil once unregistered
	scopes    []*scope    // parallel to docs, nil until first materialized
	locations map[string]DocID
	implicit  map[edge]int
}

// New creates an empty graph that reads document content from c.
// A nil c behaves like content with no declarations.
func New(c Content) *Graph {
	if c == nil {
		c = noContent{}
	}
	return &Graph{
		content:   c,
		locations: make(map[string]DocID),
		implicit:  make(map[edge]int),
	}
}

// Register creates an isolated document bound to location.
// Returns ErrInvalidLocation for an empty location and
// ErrLocationAlreadyRegistered if the location is already bound.
func (g *Graph) Register(location string) (DocID, error) {
	if location == "" {
		return NoDocument, ErrInvalidLocation
	}
	if _, exists := g.locations[location]; exists {
		return NoDocument, fmt.Errorf("%w: %s", ErrLocationAlreadyRegistered, location)
	}
	id := DocID(len(g.docs) + 1)
	g.docs = append(g.docs, &document{
		id:       id,
		location: location,
		forward:  make(map[DocID]struct{}),
		backward: make(map[DocID]struct{}),
	})
	g.scopes = append(g.scopes, nil)
	g.locations[location] = id
	return id, nil
}

// Unregister removes a document and discards its cached scope.
// Returns ErrReferencedDocumentStillInUse while any edge touches the document.
func (g *Graph) Unregister(doc DocID) error {
	d, err := g.doc(doc)
	if err != nil {
		return err
	}
	if len(d.forward) > 0 || len(d.backward) > 0 {
		return fmt.Errorf("%w: %s", ErrReferencedDocumentStillInUse, d.location)
	}
	delete(g.locations, d.location)
	g.docs[doc-1] = nil
	g.scopes[doc-1] = nil
	return nil
}

// Lookup returns the document bound to location.
func (g *Graph) Lookup(location string) (DocID, bool) {
	id, ok := g.locations[location]
	return id, ok
}

// Location returns the location a document was registered with.
func (g *Graph) Location(doc DocID) (string, bool) {
	d, err := g.doc(doc)
	if err != nil {
		return "", false
	}
	return d.location, true
}

// Documents returns the handles of all registered documents in registration order.
func (g *Graph) Documents() []DocID {
	ids := make([]DocID, 0, len(g.locations))
	for _, d := range g.docs {
		if d != nil {
			ids = append(ids, d.id)
		}
	}
	return ids
}

// NeighborsForward returns the documents doc directly references, explicitly
// or implicitly, in ascending handle order. Returns nil for an unknown document.
func (g *Graph) NeighborsForward(doc DocID) []DocID {
	d, err := g.doc(doc)
	if err != nil {
		return nil
	}
	return sortedIDs(d.forward)
}

// NeighborsBackward returns the documents that directly reference doc, in
// ascending handle order. Returns nil for an unknown document.
func (g *Graph) NeighborsBackward(doc DocID) []DocID {
	d, err := g.doc(doc)
	if err != nil {
		return nil
	}
	return sortedIDs(d.backward)
}

// HasEdge reports whether a direct edge referrer→referenced exists.
func (g *Graph) HasEdge(referrer, referenced DocID) bool {
	d, err := g.doc(referrer)
	if err != nil {
		return false
	}
	_, ok := d.forward[referenced]
	return ok
}

// Validate walks the live graph from every document and returns a
// [*CycleError] if any directed cycle exists. A graph mutated only through
// this package always validates.
func (g *Graph) Validate() error {
	seen := make(map[DocID]struct{}, len(g.locations))
	for _, d := range g.docs {
		if d == nil {
			continue
		}
		if _, ok := seen[d.id]; ok {
			continue
		}
		visited, err := g.walk([]DocID{d.id}, forwardOf)
		if err != nil {
			return err
		}
		seen[d.id] = struct{}{}
		maps.Copy(seen, visited)
	}
	return nil
}

// Stats summarizes the graph and its scope cache.
type Stats struct {
	Documents     int
	ExplicitEdges int
	ImplicitPairs int
	DirectEdges   int
	CachedScopes  int
	ValidScopes   int
}

// Stats returns counts describing the current graph and cache state.
func (g *Graph) Stats() Stats {
	s := Stats{Documents: len(g.locations), ImplicitPairs: len(g.implicit)}
	for _, d := range g.docs {
		if d == nil {
			continue
		}
		s.ExplicitEdges += len(d.explicit)
		s.DirectEdges += len(d.forward)
	}
	for _, sc := range g.scopes {
		if sc == nil {
			continue
		}
		s.CachedScopes++
		if sc.valid {
			s.ValidScopes++
		}
	}
	return s
}

func (g *Graph) doc(id DocID) (*document, error) {
	if id == NoDocument || int(id) > len(g.docs) || g.docs[id-1] == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDocument, id)
	}
	return g.docs[id-1], nil
}

func (g *Graph) location(id DocID) string {
	if loc, ok := g.Location(id); ok {
		return loc
	}
	return fmt.Sprintf("#%d", id)
}

func (g *Graph) locationsOf(ids []DocID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.location(id)
	}
	return out
}

func sortedIDs(set map[DocID]struct{}) []DocID {
	return slices.Sorted(maps.Keys(set))
}
