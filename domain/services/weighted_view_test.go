package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contextgraph/domain/core/entities"
)

func TestWeightedView_CostsShrinkWithRelevance(t *testing.T) {
	manager := newTestManager(t, newTestGraph(t))

	// Without context every edge carries the base cost
	manager.mu.Lock()
	view := manager.buildWeightedViewLocked()
	manager.mu.Unlock()
	assert.InDelta(t, 1.0, view.cost("a", "b"), 1e-9)
	assert.InDelta(t, 1.0, view.cost("b", "c"), 1e-9)

	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a"}})
	manager.mu.Lock()
	view = manager.buildWeightedViewLocked()
	manager.mu.Unlock()

	// a scores 1.0, b scores 0.5: cost 1 - (1.0+0.5)/2 = 0.25
	assert.InDelta(t, 0.25, view.cost("a", "b"), 1e-9)
	// b scores 0.5, c scores 0: cost 0.75
	assert.InDelta(t, 0.75, view.cost("b", "c"), 1e-9)
	// Edges stay strictly positive, and absent pairs report zero
	assert.Greater(t, view.cost("a", "b"), 0.0)
	assert.Equal(t, 0.0, view.cost("b", "a"))
}

func TestWeightedView_ParallelEdgesCollapseToCheapest(t *testing.T) {
	graph := newTestGraph(t)
	addRel(t, graph, "a", "b", entities.RelationRelatedTo, "ab2")
	manager := newTestManager(t, graph)

	manager.mu.Lock()
	view := manager.buildWeightedViewLocked()
	manager.mu.Unlock()

	// One cost per ordered pair regardless of edge multiplicity
	require.Len(t, view.out["a"], 1)
	assert.InDelta(t, 1.0, view.cost("a", "b"), 1e-9)
}

func TestWeightedView_CostFloor(t *testing.T) {
	graph := newTestGraph(t)
	manager := newTestManager(t, graph)
	// Focus both endpoints so the raw cost would reach zero
	manager.SetContext(Context{ContextKeyFocusEntities: []string{"a", "b"}})

	manager.mu.Lock()
	view := manager.buildWeightedViewLocked()
	manager.mu.Unlock()

	assert.InDelta(t, manager.cfg.MinTraversalCost, view.cost("a", "b"), 1e-9)
}
