package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contextgraph/domain/core/entities"
	pkgerrors "contextgraph/pkg/errors"
)

func TestGetContextSubgraph_Validation(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	tests := []struct {
		name      string
		maxNodes  int
		threshold float64
	}{
		{"zero max nodes", 0, 0.5},
		{"negative max nodes", -1, 0.5},
		{"threshold below zero", 10, -0.1},
		{"threshold above one", 10, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.GetContextSubgraph(tt.maxNodes, tt.threshold)
			assert.True(t, pkgerrors.IsInvalidArgument(err))
		})
	}
}

func TestGetContextSubgraph_NoActiveContext(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	subgraph, err := manager.GetContextSubgraph(10, 0.0)
	require.NoError(t, err)
	assert.Equal(t, 0, subgraph.EntityCount())
}

func TestGetContextSubgraph_ThresholdAndCap(t *testing.T) {
	// Chain a -> b -> c with focus on a: scores are 1.0, 0.5, 0.
	manager := newTestManager(t, newTestGraph(t))
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})

	subgraph, err := manager.GetContextSubgraph(2, 0.5)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "b"}, subgraph.EntityIDs())
	assert.True(t, subgraph.HasRelationship("a", "b"))
	assert.False(t, subgraph.HasEntity("c"))
}

func TestGetContextSubgraph_CapBeatsThreshold(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})

	subgraph, err := manager.GetContextSubgraph(1, 0.0)
	require.NoError(t, err)

	// Only the single best-scored entity survives the cap
	assert.Equal(t, []string{"a"}, subgraph.EntityIDs())
}

func TestGetContextSubgraph_ResultIsIndependentCopy(t *testing.T) {
	graph := newTestGraph(t)
	manager := newTestManager(t, graph)
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})

	subgraph, err := manager.GetContextSubgraph(10, 0.0)
	require.NoError(t, err)

	require.NoError(t, subgraph.RemoveEntity("a"))
	assert.True(t, graph.HasEntity("a"))
}

func TestGetEntityNeighborhood_Validation(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	_, err := manager.GetEntityNeighborhood("a", -1, 10, false)
	assert.True(t, pkgerrors.IsInvalidArgument(err))

	_, err = manager.GetEntityNeighborhood("a", 2, 0, false)
	assert.True(t, pkgerrors.IsInvalidArgument(err))
}

func TestGetEntityNeighborhood_UnknownCenterIsEmpty(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	neighborhood, err := manager.GetEntityNeighborhood("ghost", 2, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 0, neighborhood.EntityCount())
}

func TestGetEntityNeighborhood_DistanceBound(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	neighborhood, err := manager.GetEntityNeighborhood("a", 1, 10, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, neighborhood.EntityIDs())

	neighborhood, err = manager.GetEntityNeighborhood("a", 2, 10, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, neighborhood.EntityIDs())

	// Distance zero keeps just the center
	neighborhood, err = manager.GetEntityNeighborhood("a", 0, 10, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, neighborhood.EntityIDs())
}

func TestGetEntityNeighborhood_ExpansionIsDirectionAgnostic(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	// c has only an incoming relationship, which still counts for reach
	neighborhood, err := manager.GetEntityNeighborhood("c", 1, 10, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, neighborhood.EntityIDs())
}

func TestGetEntityNeighborhood_TrimKeepsCenter(t *testing.T) {
	graph := newTestGraph(t)
	// Fan of extra neighbors around b
	for _, id := range []string{"d", "e", "f"} {
		addEntity(t, graph, id, entities.EntityTypeConcept, nil)
		addRel(t, graph, "b", id, entities.RelationRelatedTo, "b-"+id)
	}
	manager := newTestManager(t, graph)
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})

	neighborhood, err := manager.GetEntityNeighborhood("b", 1, 3, true)
	require.NoError(t, err)

	assert.Equal(t, 3, neighborhood.EntityCount())
	assert.True(t, neighborhood.HasEntity("b"))
	// The focus entity outscores the unscored fan and survives the trim
	assert.True(t, neighborhood.HasEntity("a"))
}

func TestGetEntityNeighborhood_WeightingNeverChangesShape(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})

	plain, err := manager.GetEntityNeighborhood("a", 2, 10, false)
	require.NoError(t, err)
	weighted, err := manager.GetEntityNeighborhood("a", 2, 10, true)
	require.NoError(t, err)

	assert.ElementsMatch(t, plain.EntityIDs(), weighted.EntityIDs())
	assert.Equal(t, plain.RelationshipCount(), weighted.RelationshipCount())
}
