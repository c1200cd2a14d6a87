package workspace

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/federation"
)

// PointerID identifies a pointer within a workspace.
type PointerID uint64

// Pointer is a content-level reference from a document to a class library or
// an element, possibly in another document. Each pointer whose target lies
// outside its own document holds one implicit reference in the graph.
type Pointer struct {
	ID     PointerID
	From   federation.DocID
	Target federation.DocID

	// Kind is a library kind for class pointers and
	// federation.KindIdentifier for element pointers.
	Kind    federation.Kind
	Library string
	Element uuid.UUID
}

// AddReference adds an explicit reference from referrer to referenced.
func (w *Workspace) AddReference(referrer, referenced federation.DocID, opts ...federation.PlaceOption) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.graph.AddExplicitReference(referrer, referenced, opts...); err != nil {
		return err
	}
	w.opts.Logger.Debug("reference added", "from", referrer, "to", referenced)
	return nil
}

// RemoveReference removes an explicit reference. With
// Options.RequireExplicitPath it fails with ErrReferenceRequired if one of
// referrer's pointers would lose its last explicit path to its target.
func (w *Workspace) RemoveReference(referrer, referenced federation.DocID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.opts.RequireExplicitPath && slices.Contains(w.graph.ExplicitReferences(referrer), referenced) {
		for _, p := range w.pointersFrom(referrer) {
			if p.Target == referrer {
				continue
			}
			ok, err := w.graph.IsReachableViaExplicitOnly(referrer, p.Target, referenced)
			if err != nil {
				return err
			}
			if !ok {
				loc, _ := w.graph.Location(p.Target)
				return fmt.Errorf("%w: pointer %d into %s", ErrReferenceRequired, p.ID, loc)
			}
		}
	}

	if err := w.graph.RemoveExplicitReference(referrer, referenced); err != nil {
		return err
	}
	w.opts.Logger.Debug("reference removed", "from", referrer, "to", referenced)
	return nil
}

// References returns referrer's ordered explicit references.
func (w *Workspace) References(referrer federation.DocID) []federation.DocID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.ExplicitReferences(referrer)
}

// PointToClass points doc at the class library kind/library visible in doc's
// scope, for example a base class or a role requirement.
func (w *Workspace) PointToClass(doc federation.DocID, kind federation.Kind, library string) (PointerID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	target, ok, err := w.graph.Resolve(doc, kind, library)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnresolved, kind, library)
	}
	return w.point(&Pointer{From: doc, Target: target, Kind: kind, Library: library})
}

// PointToElement points doc at the element id visible in doc's scope, for
// example a link endpoint.
func (w *Workspace) PointToElement(doc federation.DocID, id uuid.UUID) (PointerID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	target, ok, err := w.graph.ResolveID(doc, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: element %s", ErrUnresolved, id)
	}
	return w.point(&Pointer{From: doc, Target: target, Kind: federation.KindIdentifier, Element: id})
}

func (w *Workspace) point(p *Pointer) (PointerID, error) {
	if p.Target != p.From {
		if w.opts.RequireExplicitPath {
			ok, err := w.graph.IsReachableViaExplicitOnly(p.From, p.Target, federation.NoDocument)
			if err != nil {
				return 0, err
			}
			if !ok {
				loc, _ := w.graph.Location(p.Target)
				return 0, fmt.Errorf("%w: %s", ErrNotExplicitlyReferenced, loc)
			}
		}
		if err := w.graph.AddImplicitReference(p.From, p.Target); err != nil {
			return 0, err
		}
	}

	w.nextPtr++
	p.ID = w.nextPtr
	w.pointers[p.ID] = p
	w.opts.Logger.Debug("pointer added", "id", p.ID, "from", p.From, "to", p.Target, "kind", p.Kind)
	return p.ID, nil
}

// Unpoint removes a pointer and releases its implicit reference.
func (w *Workspace) Unpoint(id PointerID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pointers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPointer, id)
	}
	return w.unpoint(p)
}

func (w *Workspace) unpoint(p *Pointer) error {
	if p.Target != p.From {
		if err := w.graph.RemoveImplicitReference(p.From, p.Target); err != nil {
			return err
		}
	}
	delete(w.pointers, p.ID)
	w.opts.Logger.Debug("pointer removed", "id", p.ID)
	return nil
}

// Pointers returns copies of doc's pointers ordered by ID.
func (w *Workspace) Pointers(doc federation.DocID) []Pointer {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []Pointer
	for _, p := range w.pointersFrom(doc) {
		out = append(out, *p)
	}
	return out
}

func (w *Workspace) pointersFrom(doc federation.DocID) []*Pointer {
	var out []*Pointer
	for _, p := range w.pointers {
		if p.From == doc {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b *Pointer) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
