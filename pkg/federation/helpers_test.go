package federation

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/observability"
)

// memContent is an in-memory Content for tests.
type memContent struct {
	names map[DocID]map[Kind][]string
	ids   map[DocID][]uuid.UUID
}

func newMemContent() *memContent {
	return &memContent{
		names: make(map[DocID]map[Kind][]string),
		ids:   make(map[DocID][]uuid.UUID),
	}
}

func (c *memContent) LibraryNames(doc DocID, kind Kind) []string { return c.names[doc][kind] }
func (c *memContent) UniqueIDs(doc DocID) []uuid.UUID            { return c.ids[doc] }

func (c *memContent) declare(doc DocID, kind Kind, name string) {
	if c.names[doc] == nil {
		c.names[doc] = make(map[Kind][]string)
	}
	c.names[doc][kind] = append(c.names[doc][kind], name)
}

func (c *memContent) undeclare(doc DocID, kind Kind, name string) {
	c.names[doc][kind] = slices.DeleteFunc(c.names[doc][kind], func(s string) bool { return s == name })
}

func (c *memContent) declareID(doc DocID, id uuid.UUID) {
	c.ids[doc] = append(c.ids[doc], id)
}

// fixture wires a graph to memContent and registers documents by location.
type fixture struct {
	t       *testing.T
	g       *Graph
	content *memContent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := newMemContent()
	return &fixture{t: t, g: New(c), content: c}
}

func (f *fixture) register(locations ...string) []DocID {
	f.t.Helper()
	ids := make([]DocID, len(locations))
	for i, loc := range locations {
		id, err := f.g.Register(loc)
		if err != nil {
			f.t.Fatalf("Register(%q) error: %v", loc, err)
		}
		ids[i] = id
	}
	return ids
}

func (f *fixture) link(from, to DocID) {
	f.t.Helper()
	if err := f.g.AddExplicitReference(from, to); err != nil {
		f.t.Fatalf("AddExplicitReference(%d, %d) error: %v", from, to, err)
	}
}

func (f *fixture) scope(root DocID) ScopeView {
	f.t.Helper()
	v, err := f.g.Scope(root)
	if err != nil {
		f.t.Fatalf("Scope(%d) error: %v", root, err)
	}
	return v
}

func (f *fixture) defined(root DocID, kind Kind, name string) bool {
	f.t.Helper()
	ok, err := f.g.IsNameDefined(root, kind, name)
	if err != nil {
		f.t.Fatalf("IsNameDefined(%d, %s, %q) error: %v", root, kind, name, err)
	}
	return ok
}

// recordingHooks counts federation events.
type recordingHooks struct {
	observability.NoopFederationHooks
	revalidated []string
	invalidated []string
	added       int
	removed     int
	rejected    int
}

func (h *recordingHooks) OnEdgeAdded(string, string)           { h.added++ }
func (h *recordingHooks) OnEdgeRemoved(string, string)         { h.removed++ }
func (h *recordingHooks) OnEdgeRejected(string, string, error) { h.rejected++ }
func (h *recordingHooks) OnScopeRevalidated(root string, _, _ int, _ time.Duration) {
	h.revalidated = append(h.revalidated, root)
}
func (h *recordingHooks) OnScopeInvalidated(root string) {
	h.invalidated = append(h.invalidated, root)
}

func installHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetFederationHooks(h)
	t.Cleanup(observability.Reset)
	return h
}
