package federation

import (
	"fmt"
	"slices"
)

// PlaceOption positions a new explicit reference within the referrer's
// ordered reference list.
type PlaceOption func(*placement)

type placement struct {
	before DocID
	after  DocID
}

// Before inserts the new reference directly in front of anchor.
// It takes precedence over [After] when both anchors are listed.
func Before(anchor DocID) PlaceOption {
	return func(p *placement) { p.before = anchor }
}

// After inserts the new reference directly behind anchor.
func After(anchor DocID) PlaceOption {
	return func(p *placement) { p.after = anchor }
}

// AddExplicitReference adds referenced to referrer's ordered explicit
// reference list. Without anchors, or when no anchor is present in the list,
// the reference is appended. Adding a reference that is already listed is a
// no-op and keeps its position.
//
// Returns ErrSelfReference for referrer == referenced, or the validation
// error ([*CycleError], [*CollisionError]) that rejected the edge. A failed
// call leaves the graph and every scope unchanged.
func (g *Graph) AddExplicitReference(referrer, referenced DocID, opts ...PlaceOption) error {
	from, err := g.doc(referrer)
	if err != nil {
		return err
	}
	to, err := g.doc(referenced)
	if err != nil {
		return err
	}
	if referrer == referenced {
		return fmt.Errorf("%w: %s", ErrSelfReference, from.location)
	}
	if slices.Contains(from.explicit, referenced) {
		return nil
	}

	var p placement
	for _, opt := range opts {
		opt(&p)
	}

	if err := g.addDirectEdge(from, to); err != nil {
		return err
	}
	from.explicit = slices.Insert(from.explicit, p.position(from.explicit), referenced)
	return nil
}

func (p placement) position(list []DocID) int {
	if p.before != NoDocument {
		if i := slices.Index(list, p.before); i >= 0 {
			return i
		}
	}
	if p.after != NoDocument {
		if i := slices.Index(list, p.after); i >= 0 {
			return i + 1
		}
	}
	return len(list)
}

// RemoveExplicitReference removes referenced from referrer's explicit list.
// The direct edge survives while implicit references still cover the pair.
// Returns ErrUnknownReference if the reference is not listed.
func (g *Graph) RemoveExplicitReference(referrer, referenced DocID) error {
	from, err := g.doc(referrer)
	if err != nil {
		return err
	}
	to, err := g.doc(referenced)
	if err != nil {
		return err
	}
	i := slices.Index(from.explicit, referenced)
	if i < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrUnknownReference, from.location, to.location)
	}
	from.explicit = slices.Delete(from.explicit, i, i+1)
	if g.implicit[edge{referrer, referenced}] == 0 {
		g.removeDirectEdge(from, to)
	}
	return nil
}

// ExplicitReferences returns a copy of referrer's ordered explicit list.
func (g *Graph) ExplicitReferences(referrer DocID) []DocID {
	d, err := g.doc(referrer)
	if err != nil {
		return nil
	}
	return slices.Clone(d.explicit)
}

// AddImplicitReference increments the reference count of the pair. The first
// reference creates the direct edge, validated like an explicit one; a
// rejected first reference leaves the count at zero. A reference from a
// document to itself is ignored.
func (g *Graph) AddImplicitReference(referrer, referenced DocID) error {
	from, err := g.doc(referrer)
	if err != nil {
		return err
	}
	to, err := g.doc(referenced)
	if err != nil {
		return err
	}
	if referrer == referenced {
		return nil
	}
	k := edge{referrer, referenced}
	if g.implicit[k] == 0 {
		if err := g.addDirectEdge(from, to); err != nil {
			return err
		}
	}
	g.implicit[k]++
	return nil
}

// RemoveImplicitReference decrements the reference count of the pair. When
// the count drops to zero the direct edge is removed unless an explicit
// reference still covers it. Returns ErrUnknownReference if the count is
// already zero. A reference from a document to itself is ignored.
func (g *Graph) RemoveImplicitReference(referrer, referenced DocID) error {
	from, err := g.doc(referrer)
	if err != nil {
		return err
	}
	to, err := g.doc(referenced)
	if err != nil {
		return err
	}
	if referrer == referenced {
		return nil
	}
	k := edge{referrer, referenced}
	switch n := g.implicit[k]; n {
	case 0:
		return fmt.Errorf("%w: %s -> %s (implicit)", ErrUnknownReference, from.location, to.location)
	case 1:
		delete(g.implicit, k)
		if !slices.Contains(from.explicit, referenced) {
			g.removeDirectEdge(from, to)
		}
	default:
		g.implicit[k] = n - 1
	}
	return nil
}

// ImplicitCount returns the current implicit reference count of the pair.
func (g *Graph) ImplicitCount(referrer, referenced DocID) int {
	return g.implicit[edge{referrer, referenced}]
}

// IsReachableViaExplicitOnly reports whether candidate can be reached from
// referrer by following explicit references only. When ignoring is not
// [NoDocument], the explicit reference referrer→ignoring is treated as
// already removed, which tells a caller whether dropping it would strand a
// document that a surviving implicit reference still needs.
func (g *Graph) IsReachableViaExplicitOnly(referrer, candidate, ignoring DocID) (bool, error) {
	if _, err := g.doc(referrer); err != nil {
		return false, err
	}
	if _, err := g.doc(candidate); err != nil {
		return false, err
	}
	if referrer == candidate {
		return true, nil
	}

	seen := map[DocID]bool{referrer: true}
	queue := []DocID{referrer}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.docs[cur-1].explicit {
			if cur == referrer && next == ignoring {
				continue
			}
			if next == candidate {
				return true, nil
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false, nil
}
