package aggregates

import (
	"time"

	"github.com/google/uuid"

	"contextgraph/domain/core/entities"
	pkgerrors "contextgraph/pkg/errors"
)

// GraphID represents a unique graph identifier
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// Graph is a directed multigraph of entities and relationships. Parallel
// relationships between the same ordered pair are distinguished by key.
// Entity enumeration is stable in insertion order, which downstream ranking
// relies on for deterministic tie-breaks. The graph performs no internal
// locking; callers synchronize access.
type Graph struct {
	id       GraphID
	entities map[string]*entities.Entity
	order    []string
	// out[source][target][key] and in[target][source][key]
	out map[string]map[string]map[string]*entities.Relationship
	in  map[string]map[string]map[string]*entities.Relationship

	relationshipCount int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	now := time.Now()
	return &Graph{
		id:        NewGraphID(),
		entities:  make(map[string]*entities.Entity),
		out:       make(map[string]map[string]map[string]*entities.Relationship),
		in:        make(map[string]map[string]map[string]*entities.Relationship),
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the graph's unique identifier
func (g *Graph) ID() GraphID {
	return g.id
}

// AddEntity adds an entity to the graph
func (g *Graph) AddEntity(entity *entities.Entity) error {
	if entity == nil {
		return pkgerrors.NewInvalidArgument("entity cannot be nil")
	}
	if _, exists := g.entities[entity.ID]; exists {
		return pkgerrors.NewInvalidArgument("entity already exists: " + entity.ID)
	}

	g.entities[entity.ID] = entity
	g.order = append(g.order, entity.ID)
	g.updatedAt = time.Now()
	return nil
}

// RemoveEntity removes an entity and all relationships touching it
func (g *Graph) RemoveEntity(entityID string) error {
	if _, exists := g.entities[entityID]; !exists {
		return pkgerrors.NewNotFound("entity: " + entityID)
	}

	for target := range g.out[entityID] {
		g.relationshipCount -= len(g.out[entityID][target])
		delete(g.in[target], entityID)
	}
	delete(g.out, entityID)

	for source := range g.in[entityID] {
		g.relationshipCount -= len(g.in[entityID][source])
		delete(g.out[source], entityID)
	}
	delete(g.in, entityID)

	delete(g.entities, entityID)
	for i, id := range g.order {
		if id == entityID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.updatedAt = time.Now()
	return nil
}

// AddRelationship adds a directed relationship; both endpoints must exist.
// Parallel relationships are allowed as long as their keys differ.
func (g *Graph) AddRelationship(rel *entities.Relationship) error {
	if rel == nil {
		return pkgerrors.NewInvalidArgument("relationship cannot be nil")
	}
	if _, exists := g.entities[rel.SourceID]; !exists {
		return pkgerrors.NewNotFound("source entity: " + rel.SourceID)
	}
	if _, exists := g.entities[rel.TargetID]; !exists {
		return pkgerrors.NewNotFound("target entity: " + rel.TargetID)
	}

	if g.out[rel.SourceID] == nil {
		g.out[rel.SourceID] = make(map[string]map[string]*entities.Relationship)
	}
	if g.out[rel.SourceID][rel.TargetID] == nil {
		g.out[rel.SourceID][rel.TargetID] = make(map[string]*entities.Relationship)
	}
	if _, exists := g.out[rel.SourceID][rel.TargetID][rel.Key]; exists {
		return pkgerrors.NewInvalidArgument("relationship key already exists for this pair: " + rel.Key)
	}
	g.out[rel.SourceID][rel.TargetID][rel.Key] = rel

	if g.in[rel.TargetID] == nil {
		g.in[rel.TargetID] = make(map[string]map[string]*entities.Relationship)
	}
	if g.in[rel.TargetID][rel.SourceID] == nil {
		g.in[rel.TargetID][rel.SourceID] = make(map[string]*entities.Relationship)
	}
	g.in[rel.TargetID][rel.SourceID][rel.Key] = rel

	g.relationshipCount++
	g.updatedAt = time.Now()
	return nil
}

// GetEntity retrieves an entity by ID
func (g *Graph) GetEntity(entityID string) (*entities.Entity, error) {
	entity, exists := g.entities[entityID]
	if !exists {
		return nil, pkgerrors.NewNotFound("entity: " + entityID)
	}
	return entity, nil
}

// HasEntity checks if an entity exists in the graph
func (g *Graph) HasEntity(entityID string) bool {
	_, exists := g.entities[entityID]
	return exists
}

// HasRelationship reports whether any relationship source -> target exists
func (g *Graph) HasRelationship(sourceID, targetID string) bool {
	return len(g.out[sourceID][targetID]) > 0
}

// RelationshipsBetween returns all keyed relationships for an ordered pair
func (g *Graph) RelationshipsBetween(sourceID, targetID string) []*entities.Relationship {
	keyed := g.out[sourceID][targetID]
	if len(keyed) == 0 {
		return nil
	}
	rels := make([]*entities.Relationship, 0, len(keyed))
	for _, rel := range keyed {
		rels = append(rels, rel)
	}
	return rels
}

// Successors returns the distinct targets of outgoing relationships
func (g *Graph) Successors(entityID string) []string {
	targets := make([]string, 0, len(g.out[entityID]))
	for target := range g.out[entityID] {
		targets = append(targets, target)
	}
	return targets
}

// Predecessors returns the distinct sources of incoming relationships
func (g *Graph) Predecessors(entityID string) []string {
	sources := make([]string, 0, len(g.in[entityID]))
	for source := range g.in[entityID] {
		sources = append(sources, source)
	}
	return sources
}

// IncidentRelationships returns all relationships touching an entity
func (g *Graph) IncidentRelationships(entityID string) []*entities.Relationship {
	var rels []*entities.Relationship
	for _, keyed := range g.out[entityID] {
		for _, rel := range keyed {
			rels = append(rels, rel)
		}
	}
	for _, keyed := range g.in[entityID] {
		for _, rel := range keyed {
			rels = append(rels, rel)
		}
	}
	return rels
}

// EntityIDs returns all entity IDs in insertion order
func (g *Graph) EntityIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Entities returns all entities in insertion order
func (g *Graph) Entities() []*entities.Entity {
	result := make([]*entities.Entity, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.entities[id])
	}
	return result
}

// Relationships returns all relationships, grouped by source in insertion order
func (g *Graph) Relationships() []*entities.Relationship {
	var rels []*entities.Relationship
	for _, source := range g.order {
		for _, keyed := range g.out[source] {
			for _, rel := range keyed {
				rels = append(rels, rel)
			}
		}
	}
	return rels
}

// EntityCount returns the number of entities in the graph
func (g *Graph) EntityCount() int {
	return len(g.entities)
}

// RelationshipCount returns the number of relationships in the graph
func (g *Graph) RelationshipCount() int {
	return g.relationshipCount
}

// EnumerationIndex returns the insertion position of an entity, or -1.
// Ranking code uses this as the deterministic tie-break.
func (g *Graph) EnumerationIndex(entityID string) int {
	for i, id := range g.order {
		if id == entityID {
			return i
		}
	}
	return -1
}

// InducedSubgraph builds an independent copy containing the given entities
// (attributes cloned) plus every relationship whose both endpoints are in
// the set, including all parallel edges. Unknown IDs are skipped.
func (g *Graph) InducedSubgraph(entityIDs []string) *Graph {
	selected := make(map[string]bool, len(entityIDs))
	for _, id := range entityIDs {
		if g.HasEntity(id) {
			selected[id] = true
		}
	}

	sub := NewGraph()
	// preserve original insertion order in the copy
	for _, id := range g.order {
		if selected[id] {
			_ = sub.AddEntity(g.entities[id].Clone())
		}
	}

	for _, source := range g.order {
		if !selected[source] {
			continue
		}
		for target, keyed := range g.out[source] {
			if !selected[target] {
				continue
			}
			for _, rel := range keyed {
				_ = sub.AddRelationship(rel.Clone())
			}
		}
	}

	return sub
}

// Clone returns an independent copy of the whole graph
func (g *Graph) Clone() *Graph {
	return g.InducedSubgraph(g.order)
}

// UpdatedAt returns when the graph last changed
func (g *Graph) UpdatedAt() time.Time {
	return g.updatedAt
}

// CreatedAt returns when the graph was created
func (g *Graph) CreatedAt() time.Time {
	return g.createdAt
}
