// Package workspace is a minimal element model on top of [federation.Graph].
//
// A [Workspace] holds the content of every open document (library
// declarations, nested internal elements with unique identifiers, and
// pointers to classes or elements in other documents) and keeps the
// federation graph in step with it. Every mutation is validated against the
// graph before it is committed, so a failed call changes nothing.
//
// All methods are safe for concurrent use. A single mutex spans each
// validate-then-mutate sequence.
package workspace

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/federation"
)

// Options configures a [Workspace].
type Options struct {
	// RequireExplicitPath makes pointers legal only into documents reachable
	// through explicit references, and refuses to remove an explicit reference
	// that a pointer still depends on.
	RequireExplicitPath bool

	// Logger receives debug output for every mutation. Defaults to log.Default().
	Logger *log.Logger
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Workspace is a set of federated documents and their content.
type Workspace struct {
	mu       sync.Mutex
	opts     Options
	graph    *federation.Graph
	docs     map[federation.DocID]*document
	pointers map[PointerID]*Pointer
	nextPtr  PointerID
}

// document is the content of one open document.
type document struct {
	libraries map[federation.Kind][]string
	elements  map[uuid.UUID]*Element
	roots     []uuid.UUID
}

// Element is an internal element. Parent is uuid.Nil for top-level elements.
type Element struct {
	ID       uuid.UUID
	Name     string
	Parent   uuid.UUID
	Children []uuid.UUID
}

// New creates an empty workspace.
func New(opts Options) *Workspace {
	opts.SetDefaults()
	w := &Workspace{
		opts:     opts,
		docs:     make(map[federation.DocID]*document),
		pointers: make(map[PointerID]*Pointer),
	}
	w.graph = federation.New(view{w})
	return w
}

// view is the lock-free Content handed to the graph. The graph only calls it
// while the workspace mutex is held.
type view struct{ w *Workspace }

func (v view) LibraryNames(doc federation.DocID, kind federation.Kind) []string {
	if d := v.w.docs[doc]; d != nil {
		return d.libraries[kind]
	}
	return nil
}

func (v view) UniqueIDs(doc federation.DocID) []uuid.UUID {
	d := v.w.docs[doc]
	if d == nil {
		return nil
	}
	return slices.SortedFunc(maps.Keys(d.elements), compareIDs)
}

// LibraryNames implements [federation.Content].
func (w *Workspace) LibraryNames(doc federation.DocID, kind federation.Kind) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(view{w}.LibraryNames(doc, kind))
}

// UniqueIDs implements [federation.Content]. It includes every nested element.
func (w *Workspace) UniqueIDs(doc federation.DocID) []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return view{w}.UniqueIDs(doc)
}

var _ federation.Content = (*Workspace)(nil)

// Open registers a new, empty document at location.
func (w *Workspace) Open(location string) (federation.DocID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, err := w.graph.Register(location)
	if err != nil {
		return federation.NoDocument, err
	}
	w.docs[id] = &document{
		libraries: make(map[federation.Kind][]string),
		elements:  make(map[uuid.UUID]*Element),
	}
	w.opts.Logger.Debug("document opened", "location", location, "doc", id)
	return id, nil
}

// Close drops the document's own pointers and explicit references and then
// unregisters it. It fails with federation.ErrReferencedDocumentStillInUse,
// leaving the document untouched, while another document references it.
func (w *Workspace) Close(doc federation.DocID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	loc, err := w.location(doc)
	if err != nil {
		return err
	}
	if in := w.graph.NeighborsBackward(doc); len(in) > 0 {
		return fmt.Errorf("%w: %s is referenced by %d document(s)", federation.ErrReferencedDocumentStillInUse, loc, len(in))
	}

	for _, p := range w.pointersFrom(doc) {
		if err := w.unpoint(p); err != nil {
			return err
		}
	}
	for _, ref := range w.graph.ExplicitReferences(doc) {
		if err := w.graph.RemoveExplicitReference(doc, ref); err != nil {
			return err
		}
	}
	if err := w.graph.Unregister(doc); err != nil {
		return err
	}
	delete(w.docs, doc)
	w.opts.Logger.Debug("document closed", "location", loc)
	return nil
}

func (w *Workspace) document(doc federation.DocID) (*document, error) {
	d, ok := w.docs[doc]
	if !ok {
		return nil, fmt.Errorf("%w: %d", federation.ErrUnknownDocument, doc)
	}
	return d, nil
}

func (w *Workspace) location(doc federation.DocID) (string, error) {
	loc, ok := w.graph.Location(doc)
	if !ok {
		return "", fmt.Errorf("%w: %d", federation.ErrUnknownDocument, doc)
	}
	return loc, nil
}

func compareIDs(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) }
