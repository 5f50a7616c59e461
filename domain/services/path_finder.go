package services

import (
	"sort"

	pkgerrors "contextgraph/pkg/errors"
)

// FindPathsByContext finds up to maxPaths paths from source to target,
// ranked by contextual relevance. The search order is fixed:
//
//  1. a direct relationship wins immediately, skipping ranking entirely
//  2. source == target yields the single-node path
//  3. simple paths are enumerated with a rising cutoff (2..maxLength edges);
//     the first cutoff that yields any path ends the search
//  4. failing that, one unweighted shortest path is accepted if it spans at
//     most maxLength+1 nodes
//
// An exhausted search returns an empty slice, never a synthesized path.
func (m *ContextManager) FindPathsByContext(sourceID, targetID string, maxPaths, maxLength int) ([][]string, error) {
	if maxPaths <= 0 {
		return nil, pkgerrors.NewInvalidArgument("maxPaths must be positive")
	}
	if maxLength <= 0 {
		return nil, pkgerrors.NewInvalidArgument("maxLength must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.graph.HasEntity(sourceID) || !m.graph.HasEntity(targetID) {
		return nil, nil
	}

	view := m.buildWeightedViewLocked()

	if m.graph.HasRelationship(sourceID, targetID) {
		return [][]string{{sourceID, targetID}}, nil
	}

	if sourceID == targetID {
		return [][]string{{sourceID}}, nil
	}

	var candidates [][]string
	for cutoff := 2; cutoff <= maxLength; cutoff++ {
		candidates = view.simplePaths(sourceID, targetID, cutoff)
		if len(candidates) > 0 {
			break
		}
	}

	if len(candidates) == 0 {
		if shortest := view.shortestPath(sourceID, targetID); shortest != nil && len(shortest) <= maxLength+1 {
			candidates = [][]string{shortest}
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	type scoredPath struct {
		path  []string
		score float64
	}
	scored := make([]scoredPath, len(candidates))
	for i, path := range candidates {
		scored[i] = scoredPath{path: path, score: m.pathRelevanceLocked(path)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxPaths {
		scored = scored[:maxPaths]
	}
	paths := make([][]string, len(scored))
	for i, sp := range scored {
		paths[i] = sp.path
	}
	return paths, nil
}

// pathRelevanceLocked aggregates per-node relevance and traversed edge
// weights along a path. Both components are normalized to [0, 1] before
// the configured blend.
func (m *ContextManager) pathRelevanceLocked(path []string) float64 {
	if len(path) == 0 {
		return 0
	}

	var nodeSum float64
	for _, entityID := range path {
		nodeSum += m.scoreLocked(entityID)
	}
	nodeScore := nodeSum / float64(len(path))

	edgeScore := 0.0
	if len(path) > 1 {
		var edgeSum float64
		for i := 0; i < len(path)-1; i++ {
			best := 0.0
			for _, rel := range m.graph.RelationshipsBetween(path[i], path[i+1]) {
				if w := clamp01(rel.Weight); w > best {
					best = w
				}
			}
			edgeSum += best
		}
		edgeScore = edgeSum / float64(len(path)-1)
	}

	total := m.cfg.PathNodeWeight + m.cfg.PathEdgeWeight
	if total == 0 {
		return nodeScore
	}
	return (m.cfg.PathNodeWeight*nodeScore + m.cfg.PathEdgeWeight*edgeScore) / total
}
