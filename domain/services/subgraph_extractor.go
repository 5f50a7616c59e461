package services

import (
	"sort"

	"contextgraph/domain/core/aggregates"
	pkgerrors "contextgraph/pkg/errors"
)

// GetContextSubgraph extracts an independent subgraph of the entities most
// relevant to the current context. Entities are ranked by score descending
// (ties broken by original enumeration order), filtered by the relevance
// threshold, and capped at maxNodes. The copy contains every relationship,
// parallel edges included, whose both endpoints were selected. With no
// active context the result is empty.
func (m *ContextManager) GetContextSubgraph(maxNodes int, relevanceThreshold float64) (*aggregates.Graph, error) {
	if maxNodes <= 0 {
		return nil, pkgerrors.NewInvalidArgument("maxNodes must be positive")
	}
	if relevanceThreshold < 0 || relevanceThreshold > 1 {
		return nil, pkgerrors.NewInvalidArgument("relevanceThreshold must be in [0, 1]")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.contextActive() {
		return aggregates.NewGraph(), nil
	}

	scores := m.scoreAllLocked()
	ranked := m.rankByScoreLocked(m.graph.EntityIDs(), scores)

	selected := make([]string, 0, maxNodes)
	for _, entityID := range ranked {
		if scores[entityID] >= relevanceThreshold && len(selected) < maxNodes {
			selected = append(selected, entityID)
		}
	}

	return m.graph.InducedSubgraph(selected), nil
}

// GetEntityNeighborhood extracts a bounded neighborhood around an entity.
// Expansion treats relationships as direction-agnostic reachability edges,
// one hop per round up to maxDistance, stopping early once maxNodes
// entities have been visited. If the visited set still exceeds maxNodes,
// the entities other than the center are ranked by relevance and only the
// top maxNodes-1 are kept; the center always survives. The result is the
// node-induced copy of the original graph. The context-weighted view, when
// built, affects traversal cost elsewhere but never neighborhood shape.
func (m *ContextManager) GetEntityNeighborhood(entityID string, maxDistance, maxNodes int, contextWeighted bool) (*aggregates.Graph, error) {
	if maxDistance < 0 {
		return nil, pkgerrors.NewInvalidArgument("maxDistance cannot be negative")
	}
	if maxNodes <= 0 {
		return nil, pkgerrors.NewInvalidArgument("maxNodes must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.graph.HasEntity(entityID) {
		return aggregates.NewGraph(), nil
	}

	// The weighted view shares the graph's structure, so expansion over it
	// visits the same nodes; it is built here only when asked for, to keep
	// parity with weighted path traversal.
	var view *weightedView
	if contextWeighted && m.contextActive() {
		view = m.buildWeightedViewLocked()
	}

	visited := map[string]bool{entityID: true}
	frontier := []string{entityID}

	for round := 0; round < maxDistance; round++ {
		var next []string
		for _, current := range frontier {
			for _, neighbor := range m.neighbors(view, current) {
				if !visited[neighbor] {
					visited[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
		if len(visited) >= maxNodes {
			break
		}
	}

	retained := make([]string, 0, len(visited))
	for id := range visited {
		retained = append(retained, id)
	}

	if len(retained) > maxNodes {
		scores := make(map[string]float64, len(retained))
		for _, id := range retained {
			scores[id] = m.scoreLocked(id)
		}
		ranked := m.rankByScoreLocked(retained, scores)

		retained = retained[:0]
		retained = append(retained, entityID)
		for _, id := range ranked {
			if id == entityID {
				continue
			}
			retained = append(retained, id)
			if len(retained) >= maxNodes {
				break
			}
		}
	}

	return m.graph.InducedSubgraph(retained), nil
}

// neighbors returns direction-agnostic neighbors from the weighted view
// when present, otherwise from the graph
func (m *ContextManager) neighbors(view *weightedView, entityID string) []string {
	if view != nil {
		return view.neighbors(entityID)
	}
	return append(m.graph.Successors(entityID), m.graph.Predecessors(entityID)...)
}

// rankByScoreLocked sorts entity IDs by score descending; ties keep the
// graph's original enumeration order
func (m *ContextManager) rankByScoreLocked(entityIDs []string, scores map[string]float64) []string {
	ranked := make([]string, len(entityIDs))
	copy(ranked, entityIDs)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si != sj {
			return si > sj
		}
		return m.graph.EnumerationIndex(ranked[i]) < m.graph.EnumerationIndex(ranked[j])
	})
	return ranked
}
