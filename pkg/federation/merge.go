package federation

import "maps"

// mergeWith validates and then applies the scope union implied by a new edge
// s.root→other.root. Validation is read-only apart from materializing caches,
// so a rejected merge leaves both scopes as they were.
func (s *scope) mergeWith(other *scope) error {
	if err := s.revalidate(); err != nil {
		return err
	}
	if err := other.revalidate(); err != nil {
		return err
	}
	if s.root == other.root {
		return nil
	}

	// The live graph, not the caches, decides whether the edge closes a cycle.
	if _, err := s.g.walk([]DocID{s.root, other.root}, forwardOf); err != nil {
		return err
	}
	if err := s.checkCollisions(other); err != nil {
		return err
	}

	s.union(other)
	return nil
}

// checkCollisions reports the first key that the new edge would make
// ambiguous in any scope whose membership changes.
//
// The endpoint check compares everything s already sees with other's forward
// side. Scopes of s.backward gain the same documents as s, and scopes of
// other.root and other.forward gain s.root and s.backward, so those are
// checked against the corresponding incoming entries as well.
func (s *scope) checkCollisions(other *scope) error {
	if err := s.g.conflict(s, other.fwdIndex); err != nil {
		return err
	}

	for _, d := range sortedIDs(s.backward) {
		sc := s.g.scopeOf(d)
		if err := sc.revalidate(); err != nil {
			return err
		}
		if err := s.g.conflict(sc, other.fwdIndex); err != nil {
			return err
		}
	}

	incoming := s.upstream()
	for _, d := range append([]DocID{other.root}, sortedIDs(other.forward)...) {
		sc := s.g.scopeOf(d)
		if err := sc.revalidate(); err != nil {
			return err
		}
		if err := s.g.conflict(sc, incoming); err != nil {
			return err
		}
	}
	return nil
}

// conflict returns a [*CollisionError] for the first key of incoming that sc
// already maps to a different document. Identical owners are shared
// documents, not collisions.
func (g *Graph) conflict(sc *scope, incoming table) error {
	for _, k := range sortedKeys(incoming) {
		owner, ok := sc.lookup(k)
		if !ok || owner == incoming[k] {
			continue
		}
		return g.collision(k, owner, incoming[k])
	}
	return nil
}

// upstream returns the declarations of s.root and of every document in
// s.backward: the entries a new downstream document starts to see.
func (s *scope) upstream() table {
	t := make(table, len(s.bwdIndex))
	for k, owner := range s.fwdIndex {
		if owner == s.root {
			t[k] = owner
		}
	}
	maps.Copy(t, s.bwdIndex)
	return t
}

// union folds other into s for the edge s.root→other.root. Both sides are
// repaired here, so neither scope needs a full revalidation afterwards.
func (s *scope) union(other *scope) {
	s.forward[other.root] = struct{}{}
	maps.Copy(s.forward, other.forward)
	maps.Copy(s.fwdIndex, other.fwdIndex)

	other.backward[s.root] = struct{}{}
	maps.Copy(other.backward, s.backward)
	maps.Copy(other.bwdIndex, s.upstream())
}

func (g *Graph) collision(k key, owner, other DocID) *CollisionError {
	return &CollisionError{
		Kind:          k.kind,
		Name:          k.name,
		ID:            k.id,
		Owner:         owner,
		Other:         other,
		OwnerLocation: g.location(owner),
		OtherLocation: g.location(other),
	}
}
