package services

import "sort"

// weightedView is a traversal-weighted copy of the graph's structure. Each
// directed pair carries a cost derived from the relevance of its endpoints:
// the more relevant the endpoints, the cheaper the edge. Costs are always
// strictly positive so shortest-path computation stays well-defined.
// Parallel relationships collapse to a single cost per ordered pair.
type weightedView struct {
	out map[string]map[string]float64
	in  map[string]map[string]float64
}

// buildWeightedViewLocked derives the weighted view under the current
// context. With no active context every entity scores 0 and all edges get
// the base cost.
func (m *ContextManager) buildWeightedViewLocked() *weightedView {
	view := &weightedView{
		out: make(map[string]map[string]float64),
		in:  make(map[string]map[string]float64),
	}

	for _, rel := range m.graph.Relationships() {
		combined := (m.scoreLocked(rel.SourceID) + m.scoreLocked(rel.TargetID)) / 2
		cost := m.cfg.BaseTraversalCost * (1 - combined)
		if cost < m.cfg.MinTraversalCost {
			cost = m.cfg.MinTraversalCost
		}

		if existing, ok := view.out[rel.SourceID][rel.TargetID]; !ok || cost < existing {
			if view.out[rel.SourceID] == nil {
				view.out[rel.SourceID] = make(map[string]float64)
			}
			if view.in[rel.TargetID] == nil {
				view.in[rel.TargetID] = make(map[string]float64)
			}
			view.out[rel.SourceID][rel.TargetID] = cost
			view.in[rel.TargetID][rel.SourceID] = cost
		}
	}

	return view
}

// successors returns the outgoing neighbors in sorted order for
// deterministic enumeration
func (v *weightedView) successors(entityID string) []string {
	targets := make([]string, 0, len(v.out[entityID]))
	for target := range v.out[entityID] {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// neighbors returns direction-agnostic neighbors
func (v *weightedView) neighbors(entityID string) []string {
	result := make([]string, 0, len(v.out[entityID])+len(v.in[entityID]))
	for target := range v.out[entityID] {
		result = append(result, target)
	}
	for source := range v.in[entityID] {
		result = append(result, source)
	}
	return result
}

// simplePaths enumerates all simple directed paths from source to target
// with at most cutoff edges
func (v *weightedView) simplePaths(sourceID, targetID string, cutoff int) [][]string {
	var paths [][]string
	onPath := map[string]bool{sourceID: true}
	stack := []string{sourceID}

	var walk func(current string)
	walk = func(current string) {
		if len(stack)-1 >= cutoff {
			return
		}
		for _, next := range v.successors(current) {
			if next == targetID {
				path := make([]string, len(stack)+1)
				copy(path, stack)
				path[len(stack)] = targetID
				paths = append(paths, path)
				continue
			}
			if onPath[next] {
				continue
			}
			onPath[next] = true
			stack = append(stack, next)
			walk(next)
			stack = stack[:len(stack)-1]
			delete(onPath, next)
		}
	}
	walk(sourceID)

	return paths
}

// shortestPath runs an unweighted BFS from source to target and
// reconstructs the hop-minimal path, or nil when unreachable
func (v *weightedView) shortestPath(sourceID, targetID string) []string {
	if sourceID == targetID {
		return []string{sourceID}
	}

	parent := map[string]string{sourceID: sourceID}
	queue := []string{sourceID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range v.successors(current) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current

			if next == targetID {
				path := []string{targetID}
				for node := current; ; node = parent[node] {
					path = append([]string{node}, path...)
					if node == sourceID {
						return path
					}
				}
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// cost returns the traversal cost of an ordered pair, or 0 when absent.
// Exposed for tuning and tests; ranking uses relevance, not raw cost.
func (v *weightedView) cost(sourceID, targetID string) float64 {
	return v.out[sourceID][targetID]
}
