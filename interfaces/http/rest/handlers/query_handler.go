package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"contextgraph/application/services"
	"contextgraph/domain/config"
	"contextgraph/domain/core/aggregates"
	"contextgraph/interfaces/http/rest/middleware"
	"contextgraph/pkg/api"
)

// QueryHandler handles retrieval HTTP requests
type QueryHandler struct {
	service  *services.ContextService
	defaults *config.ScoringConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(service *services.ContextService, defaults *config.ScoringConfig, logger *zap.Logger) *QueryHandler {
	if defaults == nil {
		defaults = config.DefaultScoringConfig()
	}
	return &QueryHandler{
		service:  service,
		defaults: defaults,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetSubgraph handles GET /api/subgraph
func (h *QueryHandler) GetSubgraph(w http.ResponseWriter, r *http.Request) {
	maxNodes := queryInt(r, "max_nodes", h.defaults.DefaultMaxSubgraphNodes)
	threshold := queryFloat(r, "threshold", h.defaults.DefaultRelevanceThreshold)

	user := middleware.GetUser(r.Context())
	subgraph, err := h.service.GetContextSubgraph(user, maxNodes, threshold)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, graphToResponse(subgraph))
}

// GetNeighborhood handles GET /api/entities/{entityID}/neighborhood
func (h *QueryHandler) GetNeighborhood(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")
	if entityID == "" {
		api.Error(w, http.StatusBadRequest, "Entity ID is required")
		return
	}

	maxDistance := queryInt(r, "max_distance", h.defaults.DefaultNeighborhoodDistance)
	maxNodes := queryInt(r, "max_nodes", h.defaults.DefaultNeighborhoodNodes)
	contextWeighted := queryBool(r, "context_weighted", true)

	user := middleware.GetUser(r.Context())
	neighborhood, err := h.service.GetEntityNeighborhood(user, entityID, maxDistance, maxNodes, contextWeighted)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, graphToResponse(neighborhood))
}

// FindPaths handles GET /api/paths
func (h *QueryHandler) FindPaths(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	target := r.URL.Query().Get("target")
	if source == "" || target == "" {
		api.Error(w, http.StatusBadRequest, "source and target are required")
		return
	}

	maxPaths := queryInt(r, "max_paths", h.defaults.DefaultMaxPaths)
	maxLength := queryInt(r, "max_length", h.defaults.DefaultMaxPathLength)

	user := middleware.GetUser(r.Context())
	paths, err := h.service.FindPathsByContext(user, source, target, maxPaths, maxLength)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	if paths == nil {
		paths = [][]string{}
	}
	api.Success(w, http.StatusOK, api.PathsResponse{Paths: paths})
}

// GetScore handles GET /api/scores/{entityID}
func (h *QueryHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")
	if entityID == "" {
		api.Error(w, http.StatusBadRequest, "Entity ID is required")
		return
	}

	user := middleware.GetUser(r.Context())
	score, err := h.service.Score(user, entityID)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, api.ScoreResponse{EntityID: entityID, Score: score})
}

// GetTaskRelevantEntities handles POST /api/task-entities
func (h *QueryHandler) GetTaskRelevantEntities(w http.ResponseWriter, r *http.Request) {
	var req api.TaskQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, "task is required")
		return
	}
	if req.MaxEntities <= 0 {
		req.MaxEntities = h.defaults.DefaultMaxTaskEntities
	}

	user := middleware.GetUser(r.Context())
	scores, err := h.service.GetTaskRelevantEntities(user, req.Task, req.MaxEntities)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}

	resp := make([]api.ScoreResponse, 0, len(scores))
	for _, es := range scores {
		resp = append(resp, api.ScoreResponse{EntityID: es.EntityID, Score: es.Score})
	}
	api.Success(w, http.StatusOK, resp)
}

// GetAuditLogs handles GET /api/audit-logs
func (h *QueryHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	filters := map[string]string{}
	for _, key := range []string{"user_id", "role", "tenant_id", "action"} {
		if v := r.URL.Query().Get(key); v != "" {
			filters[key] = v
		}
	}

	user := middleware.GetUser(r.Context())
	entries, err := h.service.AuditLogs(user, filters)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}

	resp := make([]api.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, api.AuditEntryResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			UserID:    e.UserID,
			Role:      e.Role,
			TenantID:  e.TenantID,
			Action:    e.Action,
			Details:   e.Details,
		})
	}
	api.Success(w, http.StatusOK, resp)
}

func graphToResponse(graph *aggregates.Graph) api.GraphResponse {
	resp := api.GraphResponse{
		Entities:      make([]api.EntityResponse, 0, graph.EntityCount()),
		Relationships: make([]api.RelationshipResponse, 0, graph.RelationshipCount()),
	}

	for _, entity := range graph.Entities() {
		er := api.EntityResponse{
			ID:         entity.ID,
			Type:       string(entity.Type),
			Attributes: entity.Attributes,
		}
		if !entity.UpdatedAt.IsZero() {
			t := entity.UpdatedAt
			er.UpdatedAt = &t
		}
		resp.Entities = append(resp.Entities, er)
	}

	for _, rel := range graph.Relationships() {
		resp.Relationships = append(resp.Relationships, api.RelationshipResponse{
			Key:        rel.Key,
			Source:     rel.SourceID,
			Target:     rel.TargetID,
			Type:       string(rel.Type),
			Weight:     rel.Weight,
			Attributes: rel.Attributes,
		})
	}
	return resp
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func queryBool(r *http.Request, key string, fallback bool) bool {
	if v := r.URL.Query().Get(key); v != "" {
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}
