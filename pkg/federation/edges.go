package federation

import "github.com/matzehuels/amlfed/pkg/observability"

// addDirectEdge records from→to after the endpoint scopes agree to merge.
// It is a no-op if the edge already exists.
func (g *Graph) addDirectEdge(from, to *document) error {
	if _, ok := from.forward[to.id]; ok {
		return nil
	}

	this, other := g.scopeOf(from.id), g.scopeOf(to.id)
	if err := this.mergeWith(other); err != nil {
		observability.Federation().OnEdgeRejected(from.location, to.location, err)
		return err
	}

	from.forward[to.id] = struct{}{}
	to.backward[from.id] = struct{}{}

	// The endpoint scopes were repaired by the merge. Every other scope that
	// already sees an endpoint is recomputed lazily.
	for _, s := range g.scopes {
		if s == nil || s == this || s == other || !s.valid {
			continue
		}
		if s.contains(from.id) || s.contains(to.id) {
			s.invalidate()
		}
	}

	observability.Federation().OnEdgeAdded(from.location, to.location)
	return nil
}

// removeDirectEdge drops from→to and invalidates every scope that contains from.
func (g *Graph) removeDirectEdge(from, to *document) {
	if _, ok := from.forward[to.id]; !ok {
		return
	}
	delete(from.forward, to.id)
	delete(to.backward, from.id)

	for _, s := range g.scopes {
		if s != nil && s.valid && s.contains(from.id) {
			s.invalidate()
		}
	}

	observability.Federation().OnEdgeRemoved(from.location, to.location)
}
