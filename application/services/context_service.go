package services

import (
	"go.uber.org/zap"

	"contextgraph/domain/core/aggregates"
	domainservices "contextgraph/domain/services"
	"contextgraph/infrastructure/security"
	"contextgraph/internal/observability"
	apperrors "contextgraph/pkg/errors"
)

// ContextService is the application facade over the context engine. It
// enforces access control, records audit entries, and filters results
// before they leave the domain layer.
type ContextService struct {
	manager  *domainservices.ContextManager
	security *security.Provider
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewContextService creates a new context service
func NewContextService(
	manager *domainservices.ContextManager,
	securityProvider *security.Provider,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ContextService {
	return &ContextService{
		manager:  manager,
		security: securityProvider,
		metrics:  metrics,
		logger:   logger,
	}
}

// Manager exposes the underlying domain manager for wiring and tests.
func (s *ContextService) Manager() *domainservices.ContextManager {
	return s.manager
}

// SetContext replaces the active retrieval context.
func (s *ContextService) SetContext(user security.UserContext, data domainservices.Context) error {
	if !s.security.CanAccess(user, security.OpReadPattern) {
		s.deny(user, "set_context")
		return apperrors.NewPermissionDenied("not allowed to manage retrieval context")
	}

	s.manager.SetContext(data)
	s.metrics.ContextSwitches.Inc()
	s.security.CreateAuditLog(user, "set_context", map[string]interface{}{
		"task": data.Task(),
	})
	return nil
}

// UpdateContext merges updates into the active context without archiving it.
func (s *ContextService) UpdateContext(user security.UserContext, updates domainservices.Context) error {
	if !s.security.CanAccess(user, security.OpReadPattern) {
		s.deny(user, "update_context")
		return apperrors.NewPermissionDenied("not allowed to manage retrieval context")
	}

	s.manager.UpdateContext(updates)
	s.security.CreateAuditLog(user, "update_context", map[string]interface{}{
		"keys": contextKeys(updates),
	})
	return nil
}

// AddFocusEntity marks an entity as a focus of the active context.
func (s *ContextService) AddFocusEntity(user security.UserContext, entityID string) (bool, error) {
	if !s.security.CanAccess(user, security.OpReadEntity) {
		s.deny(user, "add_focus_entity")
		return false, apperrors.NewPermissionDenied("not allowed to read entities")
	}

	added := s.manager.AddFocusEntity(entityID)
	s.security.CreateAuditLog(user, "add_focus_entity", map[string]interface{}{
		"entity_id": entityID,
		"added":     added,
	})
	return added, nil
}

// RemoveFocusEntity removes an entity from the active context's focus list.
func (s *ContextService) RemoveFocusEntity(user security.UserContext, entityID string) (bool, error) {
	if !s.security.CanAccess(user, security.OpReadEntity) {
		s.deny(user, "remove_focus_entity")
		return false, apperrors.NewPermissionDenied("not allowed to read entities")
	}

	removed := s.manager.RemoveFocusEntity(entityID)
	s.security.CreateAuditLog(user, "remove_focus_entity", map[string]interface{}{
		"entity_id": entityID,
		"removed":   removed,
	})
	return removed, nil
}

// CurrentContext returns a copy of the active context.
func (s *ContextService) CurrentContext(user security.UserContext) (domainservices.Context, error) {
	if !s.security.CanAccess(user, security.OpReadPattern) {
		s.deny(user, "get_context")
		return nil, apperrors.NewPermissionDenied("not allowed to read retrieval context")
	}
	return s.manager.CurrentContext(), nil
}

// ContextHistory returns archived contexts, most recent last.
func (s *ContextService) ContextHistory(user security.UserContext) ([]domainservices.HistoryEntry, error) {
	if !s.security.CanAccess(user, security.OpReadPattern) {
		s.deny(user, "get_context_history")
		return nil, apperrors.NewPermissionDenied("not allowed to read retrieval context")
	}
	return s.manager.History(), nil
}

// Score returns the relevance of one entity under the active context.
func (s *ContextService) Score(user security.UserContext, entityID string) (float64, error) {
	if !s.security.CanAccess(user, security.OpReadEntity) {
		s.deny(user, "score_entity")
		return 0, apperrors.NewPermissionDenied("not allowed to read entities")
	}

	s.metrics.ScoresComputed.Inc()
	return s.manager.Score(entityID), nil
}

// GetContextSubgraph extracts the most relevant portion of the graph for
// the active context, filtered to entity types the user may see.
func (s *ContextService) GetContextSubgraph(user security.UserContext, maxNodes int, relevanceThreshold float64) (*aggregates.Graph, error) {
	if !s.security.CanAccess(user, security.OpReadPattern) {
		s.deny(user, "get_context_subgraph")
		return nil, apperrors.NewPermissionDenied("not allowed to query graph patterns")
	}

	subgraph, err := s.manager.GetContextSubgraph(maxNodes, relevanceThreshold)
	if err != nil {
		return nil, err
	}

	s.metrics.SubgraphsExtracted.Inc()
	s.security.CreateAuditLog(user, "get_context_subgraph", map[string]interface{}{
		"max_nodes": maxNodes,
		"threshold": relevanceThreshold,
		"returned":  subgraph.EntityCount(),
	})
	return s.filterGraphForUser(user, subgraph), nil
}

// GetEntityNeighborhood extracts the area around one entity.
func (s *ContextService) GetEntityNeighborhood(user security.UserContext, entityID string, maxDistance, maxNodes int, contextWeighted bool) (*aggregates.Graph, error) {
	if !s.security.CanAccess(user, security.OpReadEntity) {
		s.deny(user, "get_entity_neighborhood")
		return nil, apperrors.NewPermissionDenied("not allowed to read entities")
	}

	neighborhood, err := s.manager.GetEntityNeighborhood(entityID, maxDistance, maxNodes, contextWeighted)
	if err != nil {
		return nil, err
	}

	s.security.CreateAuditLog(user, "get_entity_neighborhood", map[string]interface{}{
		"entity_id":    entityID,
		"max_distance": maxDistance,
	})
	return s.filterGraphForUser(user, neighborhood), nil
}

// FindPathsByContext finds context-relevant paths between two entities.
func (s *ContextService) FindPathsByContext(user security.UserContext, sourceID, targetID string, maxPaths, maxLength int) ([][]string, error) {
	if !s.security.CanAccess(user, security.OpReadPattern) {
		s.deny(user, "find_paths")
		return nil, apperrors.NewPermissionDenied("not allowed to query graph patterns")
	}

	paths, err := s.manager.FindPathsByContext(sourceID, targetID, maxPaths, maxLength)
	if err != nil {
		return nil, err
	}

	s.metrics.PathSearches.Inc()
	s.security.CreateAuditLog(user, "find_paths", map[string]interface{}{
		"source": sourceID,
		"target": targetID,
		"found":  len(paths),
	})
	return paths, nil
}

// GetTaskRelevantEntities ranks entities against a task description.
func (s *ContextService) GetTaskRelevantEntities(user security.UserContext, taskDescription string, maxEntities int) ([]domainservices.EntityScore, error) {
	if !s.security.CanAccess(user, security.OpReadPattern) {
		s.deny(user, "get_task_relevant_entities")
		return nil, apperrors.NewPermissionDenied("not allowed to query graph patterns")
	}

	scores, err := s.manager.GetTaskRelevantEntities(taskDescription, maxEntities)
	if err != nil {
		return nil, err
	}

	s.metrics.TaskQueries.Inc()

	filtered := make([]domainservices.EntityScore, 0, len(scores))
	for _, es := range scores {
		entity, err := s.manager.Graph().GetEntity(es.EntityID)
		if err != nil {
			continue
		}
		if s.security.FilterEntityForUser(user, entity) == nil {
			continue
		}
		filtered = append(filtered, es)
	}

	s.security.CreateAuditLog(user, "get_task_relevant_entities", map[string]interface{}{
		"task":     taskDescription,
		"returned": len(filtered),
	})
	return filtered, nil
}

// AuditLogs returns audit entries matching the given filters.
func (s *ContextService) AuditLogs(user security.UserContext, filters map[string]string) ([]security.AuditEntry, error) {
	if user.Role != security.RoleAdmin {
		s.deny(user, "read_audit_logs")
		return nil, apperrors.NewPermissionDenied("audit logs are restricted to administrators")
	}
	return s.security.AuditLogs(filters), nil
}

// filterGraphForUser removes entities of types the user may not access,
// together with their incident relationships.
func (s *ContextService) filterGraphForUser(user security.UserContext, graph *aggregates.Graph) *aggregates.Graph {
	allowed := make([]string, 0, graph.EntityCount())
	removed := 0
	for _, entity := range graph.Entities() {
		if s.security.FilterEntityForUser(user, entity) == nil {
			removed++
			continue
		}
		allowed = append(allowed, entity.ID)
	}
	if removed == 0 {
		return graph
	}

	s.logger.Debug("filtered entities from result",
		zap.String("user_id", user.UserID),
		zap.Int("removed", removed))
	return graph.InducedSubgraph(allowed)
}

func (s *ContextService) deny(user security.UserContext, action string) {
	s.metrics.AccessDenied.Inc()
	s.security.CreateAuditLog(user, "access_denied", map[string]interface{}{
		"action": action,
	})
}

func contextKeys(c domainservices.Context) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
