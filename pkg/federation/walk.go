package federation

import "slices"

// direction selects which direct-edge cache a walk follows.
type direction func(*document) map[DocID]struct{}

func forwardOf(d *document) map[DocID]struct{}  { return d.forward }
func backwardOf(d *document) map[DocID]struct{} { return d.backward }

// walk runs an iterative depth-first traversal of the live graph starting at
// the last document of seed. Every seed document counts as being on the
// current path, so reaching any of them again reports a [*CycleError] whose
// path starts and ends at the revisited document.
//
// The returned set holds every document reached, excluding the seed itself.
// Neighbors are visited in ascending handle order so cycle paths are stable.
func (g *Graph) walk(seed []DocID, next direction) (map[DocID]struct{}, error) {
	type frame struct {
		pending []DocID
	}

	visited := make(map[DocID]struct{})
	onPath := make(map[DocID]bool, len(seed))
	for _, id := range seed {
		onPath[id] = true
	}
	path := slices.Clone(seed)

	start := seed[len(seed)-1]
	stack := []frame{{pending: g.neighbors(start, next)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.pending) == 0 {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				delete(onPath, path[len(path)-1])
				path = path[:len(path)-1]
			}
			continue
		}

		n := top.pending[0]
		top.pending = top.pending[1:]

		if onPath[n] {
			cycle := append(slices.Clone(path), n)
			if i := slices.Index(cycle, n); i > 0 {
				cycle = cycle[i:]
			}
			return nil, &CycleError{Path: cycle, Locations: g.locationsOf(cycle)}
		}
		if _, seen := visited[n]; seen {
			continue
		}
		visited[n] = struct{}{}
		onPath[n] = true
		path = append(path, n)
		stack = append(stack, frame{pending: g.neighbors(n, next)})
	}
	return visited, nil
}

func (g *Graph) neighbors(id DocID, next direction) []DocID {
	d, err := g.doc(id)
	if err != nil {
		return nil
	}
	return sortedIDs(next(d))
}
