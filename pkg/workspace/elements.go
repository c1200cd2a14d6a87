package workspace

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/federation"
)

// AddElement creates an internal element in doc under parent, or at the top
// level when parent is uuid.Nil. A new identifier is generated when id is
// uuid.Nil. It returns the identifier of the created element.
func (w *Workspace) AddElement(doc federation.DocID, parent uuid.UUID, name string, id uuid.UUID) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := w.document(doc)
	if err != nil {
		return uuid.Nil, err
	}
	if name == "" {
		return uuid.Nil, ErrInvalidName
	}
	var p *Element
	if parent != uuid.Nil {
		if p = d.elements[parent]; p == nil {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownElement, parent)
		}
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, exists := d.elements[id]; exists {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrElementExists, id)
	}

	if err := w.graph.AddID(doc, id); err != nil {
		return uuid.Nil, err
	}
	d.elements[id] = &Element{ID: id, Name: name, Parent: parent}
	if p != nil {
		p.Children = append(p.Children, id)
	} else {
		d.roots = append(d.roots, id)
	}
	w.opts.Logger.Debug("element added", "doc", doc, "name", name, "id", id)
	return id, nil
}

// RemoveElement removes an element and its whole subtree. It fails with
// ErrElementInUse while a pointer targets any element of the subtree.
func (w *Workspace) RemoveElement(doc federation.DocID, id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := w.document(doc)
	if err != nil {
		return err
	}
	e := d.elements[id]
	if e == nil {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	subtree := d.subtree(id)
	for _, p := range w.pointers {
		if p.Target == doc && p.Kind == federation.KindIdentifier && slices.Contains(subtree, p.Element) {
			return fmt.Errorf("%w: %s", ErrElementInUse, p.Element)
		}
	}

	if e.Parent != uuid.Nil {
		parent := d.elements[e.Parent]
		parent.Children = slices.DeleteFunc(parent.Children, func(c uuid.UUID) bool { return c == id })
	} else {
		d.roots = slices.DeleteFunc(d.roots, func(c uuid.UUID) bool { return c == id })
	}
	for _, sub := range subtree {
		delete(d.elements, sub)
		if err := w.graph.RemoveID(doc, sub); err != nil {
			return err
		}
	}
	w.opts.Logger.Debug("element removed", "doc", doc, "id", id, "subtree", len(subtree))
	return nil
}

// Element returns a copy of the element with the given identifier.
func (w *Workspace) Element(doc federation.DocID, id uuid.UUID) (Element, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := w.docs[doc]
	if d == nil || d.elements[id] == nil {
		return Element{}, false
	}
	e := *d.elements[id]
	e.Children = slices.Clone(e.Children)
	return e, true
}

// Roots returns the identifiers of doc's top-level elements in creation order.
func (w *Workspace) Roots(doc federation.DocID) []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d := w.docs[doc]; d != nil {
		return slices.Clone(d.roots)
	}
	return nil
}

// subtree lists id and all of its descendants, parents first.
func (d *document) subtree(id uuid.UUID) []uuid.UUID {
	out := []uuid.UUID{id}
	for i := 0; i < len(out); i++ {
		out = append(out, d.elements[out[i]].Children...)
	}
	return out
}
