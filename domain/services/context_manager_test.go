package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contextgraph/domain/config"
	"contextgraph/domain/core/aggregates"
	"contextgraph/domain/core/entities"
)

// newTestGraph builds the canonical chain a -> b -> c used across tests
func newTestGraph(t *testing.T) *aggregates.Graph {
	t.Helper()
	graph := aggregates.NewGraph()
	for _, seed := range []struct {
		id         string
		entityType entities.EntityType
	}{
		{"a", entities.EntityTypePerson},
		{"b", entities.EntityTypeTask},
		{"c", entities.EntityTypeDocument},
	} {
		entity, err := entities.NewEntity(seed.id, seed.entityType, nil)
		require.NoError(t, err)
		require.NoError(t, graph.AddEntity(entity))
	}
	addRel(t, graph, "a", "b", entities.RelationWorksOn, "ab")
	addRel(t, graph, "b", "c", entities.RelationReferences, "bc")
	return graph
}

func addEntity(t *testing.T, graph *aggregates.Graph, id string, entityType entities.EntityType, attrs map[string]interface{}) *entities.Entity {
	t.Helper()
	entity, err := entities.NewEntity(id, entityType, attrs)
	require.NoError(t, err)
	require.NoError(t, graph.AddEntity(entity))
	return entity
}

func addRel(t *testing.T, graph *aggregates.Graph, source, target string, relType entities.RelationshipType, key string) {
	t.Helper()
	rel, err := entities.NewRelationship(source, target, relType, key, nil)
	require.NoError(t, err)
	require.NoError(t, graph.AddRelationship(rel))
}

func newTestManager(t *testing.T, graph *aggregates.Graph) *ContextManager {
	t.Helper()
	return NewContextManager(graph, config.DefaultScoringConfig(), nil, zap.NewNop())
}

func TestContextManager_SetContext_ArchivesPrevious(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	// Setting the first context archives nothing
	manager.SetContext(Context{ContextKeyTask: "first"})
	assert.Empty(t, manager.History())

	manager.SetContext(Context{ContextKeyTask: "second"})

	history := manager.History()
	require.Len(t, history, 1)
	assert.Equal(t, "first", history[0].Context.Task())
	assert.False(t, history[0].EndTime.Before(history[0].StartTime))
	assert.Equal(t, "second", manager.CurrentContext().Task())
}

func TestContextManager_SetContext_EmptyPreviousNotArchived(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	manager.SetContext(Context{})
	manager.SetContext(Context{ContextKeyTask: "real"})

	assert.Empty(t, manager.History())
}

func TestContextManager_UpdateContext_MergesWithoutArchiving(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))
	manager.SetContext(Context{ContextKeyTask: "original", ContextKeyKeywords: []string{"alpha"}})

	manager.UpdateContext(Context{ContextKeyKeywords: []string{"beta"}})

	current := manager.CurrentContext()
	assert.Equal(t, "original", current.Task())
	assert.Equal(t, []string{"beta"}, current.Keywords())
	assert.Empty(t, manager.History())
}

func TestContextManager_AddFocusEntity(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))
	manager.SetContext(Context{ContextKeyTask: "work"})

	assert.False(t, manager.AddFocusEntity("ghost"))

	assert.True(t, manager.AddFocusEntity("a"))
	assert.Equal(t, []string{"a"}, manager.CurrentContext().FocusEntities())

	// Re-adding is a no-op that still succeeds
	assert.True(t, manager.AddFocusEntity("a"))
	assert.Equal(t, []string{"a"}, manager.CurrentContext().FocusEntities())

	assert.True(t, manager.AddFocusEntity("b"))
	assert.Equal(t, []string{"a", "b"}, manager.CurrentContext().FocusEntities())
}

func TestContextManager_RemoveFocusEntity(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	// No context at all
	assert.False(t, manager.RemoveFocusEntity("a"))

	manager.SetContext(Context{ContextKeyTask: "work"})
	// Context without a focus list
	assert.False(t, manager.RemoveFocusEntity("a"))

	require.True(t, manager.AddFocusEntity("a"))
	require.True(t, manager.AddFocusEntity("b"))

	assert.True(t, manager.RemoveFocusEntity("a"))
	assert.Equal(t, []string{"b"}, manager.CurrentContext().FocusEntities())
	assert.False(t, manager.RemoveFocusEntity("a"))
}

func TestContextManager_CacheInvalidation(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})

	first := manager.Score("a")
	versionBefore := manager.Stats().Version

	// A cached read must not change the version
	second := manager.Score("a")
	assert.Equal(t, first, second)
	assert.Equal(t, versionBefore, manager.Stats().Version)
	assert.Greater(t, manager.Stats().Hits, uint64(0))

	// Whole-context replacement bumps the version
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"b"}})
	assert.Greater(t, manager.Stats().Version, versionBefore)

	// Scores reflect the new context, not stale cache entries
	assert.Equal(t, 1.0, manager.Score("b"))
	assert.Less(t, manager.Score("a"), 1.0)
}

func TestContextManager_CurrentContextIsACopy(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})

	leaked := manager.CurrentContext()
	leaked[ContextKeyFocusEntities] = []string{"hacked"}

	assert.Equal(t, []string{"a"}, manager.CurrentContext().FocusEntities())
}

func TestContext_StringListToleratesJSONDecoding(t *testing.T) {
	ctx := Context{
		ContextKeyFocusEntities: []interface{}{"a", "b", 42},
	}
	assert.Equal(t, []string{"a", "b"}, ctx.FocusEntities())
}
