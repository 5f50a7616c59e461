package services

import (
	"strings"

	pkgerrors "contextgraph/pkg/errors"
)

// GetTaskRelevantEntities scores every entity against an ephemeral context
// built from a task description and returns the top maxEntities by score.
// The ephemeral context is activated through the normal replacement path
// and then replaced again by the caller's original context, so each call
// appends two entries to the context history (one for the displaced
// original, one for the ephemeral context). That side effect is deliberate:
// the history records every context that was ever active.
func (m *ContextManager) GetTaskRelevantEntities(taskDescription string, maxEntities int) ([]EntityScore, error) {
	if maxEntities <= 0 {
		return nil, pkgerrors.NewInvalidArgument("maxEntities must be positive")
	}
	if strings.TrimSpace(taskDescription) == "" {
		return nil, pkgerrors.NewInvalidArgument("task description is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	temp := Context{
		ContextKeyTask:     taskDescription,
		ContextKeyKeywords: m.analyzer.ExtractKeywords(taskDescription),
	}

	original := m.current.Clone()

	m.setContextLocked(temp)
	scores := m.scoreAllLocked()
	m.setContextLocked(original)

	ranked := m.rankByScoreLocked(m.graph.EntityIDs(), scores)

	result := make([]EntityScore, 0, maxEntities)
	for _, entityID := range ranked {
		if scores[entityID] <= 0 {
			break
		}
		result = append(result, EntityScore{EntityID: entityID, Score: scores[entityID]})
		if len(result) >= maxEntities {
			break
		}
	}
	return result, nil
}
