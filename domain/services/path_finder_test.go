package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contextgraph/domain/core/aggregates"
	"contextgraph/domain/core/entities"
	pkgerrors "contextgraph/pkg/errors"
)

func TestFindPathsByContext_Validation(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	_, err := manager.FindPathsByContext("a", "c", 0, 4)
	assert.True(t, pkgerrors.IsInvalidArgument(err))

	_, err = manager.FindPathsByContext("a", "c", 3, 0)
	assert.True(t, pkgerrors.IsInvalidArgument(err))
}

func TestFindPathsByContext_UnknownEndpoints(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	paths, err := manager.FindPathsByContext("a", "ghost", 3, 4)
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = manager.FindPathsByContext("ghost", "a", 3, 4)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFindPathsByContext_DirectRelationshipWins(t *testing.T) {
	graph := newTestGraph(t)
	// Add a longer alternative a -> c -> ... that must be ignored
	addRel(t, graph, "a", "c", entities.RelationRelatedTo, "ac")
	manager := newTestManager(t, graph)

	paths, err := manager.FindPathsByContext("a", "c", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "c"}}, paths)
}

func TestFindPathsByContext_SelfTarget(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	paths, err := manager.FindPathsByContext("a", "a", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}}, paths)
}

func TestFindPathsByContext_SelfLoopBeatsSingleNodePath(t *testing.T) {
	graph := newTestGraph(t)
	addRel(t, graph, "a", "a", entities.RelationRelatedTo, "loop")
	manager := newTestManager(t, graph)

	// The direct-relationship check runs before the self-target check
	paths, err := manager.FindPathsByContext("a", "a", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "a"}}, paths)
}

func TestFindPathsByContext_RisingCutoff(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	// a -> b -> c is the only path; found at cutoff 2
	paths, err := manager.FindPathsByContext("a", "c", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, paths)
}

func TestFindPathsByContext_ShortestWinsOverLonger(t *testing.T) {
	graph := newTestGraph(t)
	// A longer alternative a -> d -> e -> c must lose to the two-hop path
	addEntity(t, graph, "d", entities.EntityTypeConcept, nil)
	addEntity(t, graph, "e", entities.EntityTypeConcept, nil)
	addRel(t, graph, "a", "d", entities.RelationRelatedTo, "ad")
	addRel(t, graph, "d", "e", entities.RelationRelatedTo, "de")
	addRel(t, graph, "e", "c", entities.RelationRelatedTo, "ec")
	manager := newTestManager(t, graph)

	paths, err := manager.FindPathsByContext("a", "c", 3, 4)
	require.NoError(t, err)
	// The rising cutoff stops at the first length that yields any path
	assert.Equal(t, [][]string{{"a", "b", "c"}}, paths)
}

func TestFindPathsByContext_NoPathReturnsEmpty(t *testing.T) {
	graph := newTestGraph(t)
	addEntity(t, graph, "island", entities.EntityTypeConcept, nil)
	manager := newTestManager(t, graph)

	paths, err := manager.FindPathsByContext("a", "island", 3, 4)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFindPathsByContext_MaxPathsCap(t *testing.T) {
	graph := aggregates.NewGraph()
	for _, id := range []string{"s", "m1", "m2", "m3", "t"} {
		addEntity(t, graph, id, entities.EntityTypeConcept, nil)
	}
	for i, mid := range []string{"m1", "m2", "m3"} {
		addRel(t, graph, "s", mid, entities.RelationRelatedTo, "s"+mid)
		addRel(t, graph, mid, "t", entities.RelationRelatedTo, mid+"t")
		_ = i
	}
	manager := newTestManager(t, graph)

	paths, err := manager.FindPathsByContext("s", "t", 2, 4)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	for _, path := range paths {
		assert.Len(t, path, 3)
		assert.Equal(t, "s", path[0])
		assert.Equal(t, "t", path[2])
	}
}

func TestFindPathsByContext_RankingPrefersRelevantIntermediates(t *testing.T) {
	graph := aggregates.NewGraph()
	for _, id := range []string{"s", "hot", "cold", "t"} {
		addEntity(t, graph, id, entities.EntityTypeConcept, nil)
	}
	addRel(t, graph, "s", "hot", entities.RelationRelatedTo, "r1")
	addRel(t, graph, "hot", "t", entities.RelationRelatedTo, "r2")
	addRel(t, graph, "s", "cold", entities.RelationRelatedTo, "r3")
	addRel(t, graph, "cold", "t", entities.RelationRelatedTo, "r4")
	manager := newTestManager(t, graph)
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"hot"}})

	paths, err := manager.FindPathsByContext("s", "t", 2, 4)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"s", "hot", "t"}, paths[0])
}

func TestFindPathsByContext_FallbackShortestPathWithinBound(t *testing.T) {
	// A chain long enough that the simple-path cutoff cannot reach the
	// target, but the unweighted shortest path still fits maxLength+1 nodes.
	graph := aggregates.NewGraph()
	ids := []string{"n1", "n2", "n3", "n4"}
	for _, id := range ids {
		addEntity(t, graph, id, entities.EntityTypeConcept, nil)
	}
	for i := 0; i < len(ids)-1; i++ {
		addRel(t, graph, ids[i], ids[i+1], entities.RelationRelatedTo, ids[i]+ids[i+1])
	}
	manager := newTestManager(t, graph)

	// maxLength 3 covers the three-hop chain via the cutoff
	paths, err := manager.FindPathsByContext("n1", "n4", 1, 3)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"n1", "n2", "n3", "n4"}, paths[0])

	// maxLength 2 cannot: no simple path within cutoff, and the shortest
	// path spans four nodes, above the maxLength+1 bound
	paths, err = manager.FindPathsByContext("n1", "n4", 1, 2)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
