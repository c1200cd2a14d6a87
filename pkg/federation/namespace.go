package federation

import "github.com/google/uuid"

// IsNameDefined reports whether any document in root's scope declares a
// library of kind named name. It is the pre-validation a caller runs before
// committing a create or rename in root.
func (g *Graph) IsNameDefined(root DocID, kind Kind, name string) (bool, error) {
	k, err := nameKey(kind, name)
	if err != nil {
		return false, err
	}
	return g.isDefined(root, k)
}

// IsIDDefined reports whether any document in root's scope declares id.
func (g *Graph) IsIDDefined(root DocID, id uuid.UUID) (bool, error) {
	return g.isDefined(root, idKey(id))
}

func (g *Graph) isDefined(root DocID, k key) (bool, error) {
	s, err := g.validScope(root)
	if err != nil {
		return false, err
	}
	_, ok := s.lookup(k)
	return ok, nil
}

// Resolve returns the document declaring the library kind/name in root's
// scope. Root and the forward set are searched before the backward set.
func (g *Graph) Resolve(root DocID, kind Kind, name string) (DocID, bool, error) {
	k, err := nameKey(kind, name)
	if err != nil {
		return NoDocument, false, err
	}
	return g.resolve(root, k)
}

// ResolveID returns the document declaring id in root's scope.
func (g *Graph) ResolveID(root DocID, id uuid.UUID) (DocID, bool, error) {
	return g.resolve(root, idKey(id))
}

func (g *Graph) resolve(root DocID, k key) (DocID, bool, error) {
	s, err := g.validScope(root)
	if err != nil {
		return NoDocument, false, err
	}
	owner, ok := s.lookup(k)
	return owner, ok, nil
}

// CheckName reports the [*CollisionError] that declaring kind/name in doc
// would cause in any scope containing doc, or nil if the name is free
// everywhere doc is visible.
func (g *Graph) CheckName(doc DocID, kind Kind, name string) error {
	k, err := nameKey(kind, name)
	if err != nil {
		return err
	}
	return g.check(doc, k)
}

// CheckID is the identifier counterpart of [Graph.CheckName].
func (g *Graph) CheckID(doc DocID, id uuid.UUID) error {
	return g.check(doc, idKey(id))
}

// check visits the scope of every member of doc's own scope; containment is
// symmetric, so these are exactly the scopes that contain doc.
func (g *Graph) check(doc DocID, k key) error {
	own, err := g.validScope(doc)
	if err != nil {
		return err
	}
	for _, m := range own.members() {
		s := g.scopeOf(m)
		if err := s.revalidate(); err != nil {
			return err
		}
		if owner, ok := s.lookup(k); ok && owner != doc {
			return g.collision(k, owner, doc)
		}
	}
	return nil
}

// AddName records that doc now declares a library kind/name. The
// declaration is checked like [Graph.CheckName] and then patched into every
// valid cached scope containing doc; invalid scopes pick it up from
// [Content] when they are next read.
func (g *Graph) AddName(doc DocID, kind Kind, name string) error {
	k, err := nameKey(kind, name)
	if err != nil {
		return err
	}
	return g.add(doc, k)
}

// AddID records that doc now declares id. See [Graph.AddName].
func (g *Graph) AddID(doc DocID, id uuid.UUID) error {
	return g.add(doc, idKey(id))
}

func (g *Graph) add(doc DocID, k key) error {
	if err := g.check(doc, k); err != nil {
		return err
	}
	for _, s := range g.scopes {
		if s != nil && s.valid && s.contains(doc) {
			s.insert(doc, k)
		}
	}
	return nil
}

// RemoveName drops doc's declaration of kind/name from every cached scope.
// Entries owned by other documents are left alone.
func (g *Graph) RemoveName(doc DocID, kind Kind, name string) error {
	k, err := nameKey(kind, name)
	if err != nil {
		return err
	}
	return g.remove(doc, k)
}

// RemoveID drops doc's declaration of id from every cached scope.
func (g *Graph) RemoveID(doc DocID, id uuid.UUID) error {
	return g.remove(doc, idKey(id))
}

func (g *Graph) remove(doc DocID, k key) error {
	if _, err := g.doc(doc); err != nil {
		return err
	}
	for _, s := range g.scopes {
		if s != nil && s.valid {
			s.remove(doc, k)
		}
	}
	return nil
}
