package services

import (
	"math"
	"strings"

	"contextgraph/domain/core/entities"
)

// Score computes how relevant an entity is to the current context, in
// [0, 1]. Returns 0 when no context is active or the entity is unknown.
// The result is a weighted mean over the factors that fired; with the
// default equal weights this is the plain arithmetic mean. The score is a
// pure function of (entity attributes, graph structure, current context).
func (m *ContextManager) Score(entityID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreLocked(entityID)
}

// ScoreAll computes (or reuses) the score of every entity in the graph.
// A cache entry written under the current context version is always reused.
func (m *ContextManager) ScoreAll() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreAllLocked()
}

func (m *ContextManager) scoreAllLocked() map[string]float64 {
	scores := make(map[string]float64, m.graph.EntityCount())
	for _, entityID := range m.graph.EntityIDs() {
		scores[entityID] = m.scoreLocked(entityID)
	}
	return scores
}

func (m *ContextManager) scoreLocked(entityID string) float64 {
	if !m.contextActive() || !m.graph.HasEntity(entityID) {
		return 0
	}

	if score, ok := m.cache.get(entityID); ok {
		return score
	}

	score := m.computeRelevance(entityID)
	m.cache.put(entityID, score)
	return score
}

// computeRelevance evaluates the factor composite. A factor contributes
// only when it has a defined signal for this context/entity pair:
//
//   - focus membership fires for entities listed in focus_entities
//   - keyword overlap fires when keywords are set and overlap is non-zero
//   - type match is counted (even at 0.0) whenever a type filter is set
//   - recency fires for entities with a non-zero last-updated stamp
//   - structural proximity fires when a focus entity is within decay range
func (m *ContextManager) computeRelevance(entityID string) float64 {
	entity, err := m.graph.GetEntity(entityID)
	if err != nil {
		return 0
	}

	var sum, weightSum float64
	add := func(weight, value float64) {
		sum += weight * value
		weightSum += weight
	}

	focus := m.current.FocusEntities()
	if containsString(focus, entityID) {
		add(m.cfg.FocusWeight, 1.0)
	}

	if keywords := m.current.Keywords(); len(keywords) > 0 {
		if overlap := m.keywordOverlap(keywords, entity); overlap > 0 {
			add(m.cfg.KeywordWeight, overlap)
		}
	}

	entityTypes := m.current.EntityTypes()
	relTypes := m.current.RelationshipTypes()
	if len(entityTypes) > 0 || len(relTypes) > 0 {
		add(m.cfg.TypeMatchWeight, m.typeMatch(entity, entityTypes, relTypes))
	}

	if !entity.UpdatedAt.IsZero() {
		add(m.cfg.RecencyWeight, m.recency(entity))
	}

	if len(focus) > 0 {
		if proximity := m.focusProximity(entityID, focus); proximity > 0 {
			add(m.cfg.ProximityWeight, proximity)
		}
	}

	if weightSum == 0 {
		return 0
	}
	return clamp01(sum / weightSum)
}

// keywordOverlap is the Jaccard index between the context keywords and the
// tokens of the entity's textual attributes
func (m *ContextManager) keywordOverlap(keywords []string, entity *entities.Entity) float64 {
	tokens := m.analyzer.TokenizeWords(entity.TextualContent())
	if len(tokens) == 0 {
		return 0
	}

	keywordSet := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywordSet[kw] = true
		}
	}
	if len(keywordSet) == 0 {
		return 0
	}

	intersection := 0
	union := len(tokens)
	for kw := range keywordSet {
		if tokens[kw] {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

// typeMatch is 1.0 when the entity's type is listed in the entity filter,
// or any incident relationship's type is listed in the relationship filter
func (m *ContextManager) typeMatch(entity *entities.Entity, entityTypes, relTypes []string) float64 {
	if containsString(entityTypes, string(entity.Type)) {
		return 1.0
	}
	if len(relTypes) > 0 {
		for _, rel := range m.graph.IncidentRelationships(entity.ID) {
			if containsString(relTypes, string(rel.Type)) {
				return 1.0
			}
		}
	}
	return 0
}

// recency decays exponentially with the gap between the entity's last
// update and the context activation time
func (m *ContextManager) recency(entity *entities.Entity) float64 {
	gap := m.lastChange.Sub(entity.UpdatedAt)
	if gap < 0 {
		gap = 0
	}
	halfLife := m.cfg.RecencyHalfLife
	if halfLife <= 0 {
		return 1.0
	}
	return math.Exp(-math.Ln2 * gap.Seconds() / halfLife.Seconds())
}

// focusProximity decays linearly with the hop distance to the nearest focus
// entity, reaching zero at the configured proximity range. Expansion is
// direction-agnostic. Focus IDs no longer present in the graph are simply
// unreachable.
func (m *ContextManager) focusProximity(entityID string, focus []string) float64 {
	rangeHops := m.cfg.ProximityRange
	if rangeHops <= 0 {
		return 0
	}

	focusSet := make(map[string]bool, len(focus))
	for _, id := range focus {
		focusSet[id] = true
	}
	if focusSet[entityID] {
		return 1.0
	}

	// bounded bidirectional BFS from the entity toward the focus set
	visited := map[string]bool{entityID: true}
	frontier := []string{entityID}

	for distance := 1; distance < rangeHops; distance++ {
		var next []string
		for _, current := range frontier {
			for _, neighbor := range append(m.graph.Successors(current), m.graph.Predecessors(current)...) {
				if visited[neighbor] {
					continue
				}
				if focusSet[neighbor] {
					return 1.0 - float64(distance)/float64(rangeHops)
				}
				visited[neighbor] = true
				next = append(next, neighbor)
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return 0
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
