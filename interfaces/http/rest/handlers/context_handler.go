package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"contextgraph/application/services"
	domainservices "contextgraph/domain/services"
	"contextgraph/interfaces/http/rest/middleware"
	"contextgraph/pkg/api"
)

// ContextHandler handles context lifecycle HTTP requests
type ContextHandler struct {
	service  *services.ContextService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewContextHandler creates a new context handler
func NewContextHandler(service *services.ContextService, logger *zap.Logger) *ContextHandler {
	return &ContextHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// SetContext handles PUT /api/context
func (h *ContextHandler) SetContext(w http.ResponseWriter, r *http.Request) {
	var req api.SetContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user := middleware.GetUser(r.Context())
	if err := h.service.SetContext(user, contextFromRequest(req)); err != nil {
		api.ErrorFromApp(w, err)
		return
	}

	current, err := h.service.CurrentContext(user)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, contextToResponse(current))
}

// UpdateContext handles PATCH /api/context
func (h *ContextHandler) UpdateContext(w http.ResponseWriter, r *http.Request) {
	var req api.SetContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user := middleware.GetUser(r.Context())
	if err := h.service.UpdateContext(user, contextFromRequest(req)); err != nil {
		api.ErrorFromApp(w, err)
		return
	}

	current, err := h.service.CurrentContext(user)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, contextToResponse(current))
}

// GetContext handles GET /api/context
func (h *ContextHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	current, err := h.service.CurrentContext(user)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, contextToResponse(current))
}

// GetContextHistory handles GET /api/context/history
func (h *ContextHandler) GetContextHistory(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	history, err := h.service.ContextHistory(user)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}

	resp := make([]api.HistoryEntryResponse, 0, len(history))
	for _, entry := range history {
		resp = append(resp, api.HistoryEntryResponse{
			Context:   contextToResponse(entry.Context),
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
		})
	}
	api.Success(w, http.StatusOK, resp)
}

// AddFocusEntity handles POST /api/context/focus
func (h *ContextHandler) AddFocusEntity(w http.ResponseWriter, r *http.Request) {
	var req api.FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, "entity_id is required")
		return
	}

	user := middleware.GetUser(r.Context())
	added, err := h.service.AddFocusEntity(user, req.EntityID)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, api.FocusResponse{EntityID: req.EntityID, Changed: added})
}

// RemoveFocusEntity handles DELETE /api/context/focus
func (h *ContextHandler) RemoveFocusEntity(w http.ResponseWriter, r *http.Request) {
	var req api.FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, "entity_id is required")
		return
	}

	user := middleware.GetUser(r.Context())
	removed, err := h.service.RemoveFocusEntity(user, req.EntityID)
	if err != nil {
		api.ErrorFromApp(w, err)
		return
	}
	api.Success(w, http.StatusOK, api.FocusResponse{EntityID: req.EntityID, Changed: removed})
}

func contextFromRequest(req api.SetContextRequest) domainservices.Context {
	ctx := domainservices.Context{}
	if req.Task != "" {
		ctx[domainservices.ContextKeyTask] = req.Task
	}
	if len(req.FocusEntities) > 0 {
		ctx[domainservices.ContextKeyFocusEntities] = req.FocusEntities
	}
	if len(req.Keywords) > 0 {
		ctx[domainservices.ContextKeyKeywords] = req.Keywords
	}
	if len(req.EntityTypes) > 0 {
		ctx[domainservices.ContextKeyEntityTypes] = req.EntityTypes
	}
	if len(req.RelationshipTypes) > 0 {
		ctx[domainservices.ContextKeyRelationshipTypes] = req.RelationshipTypes
	}
	return ctx
}

func contextToResponse(c domainservices.Context) api.ContextResponse {
	return api.ContextResponse{
		Task:              c.Task(),
		FocusEntities:     c.FocusEntities(),
		Keywords:          c.Keywords(),
		EntityTypes:       c.EntityTypes(),
		RelationshipTypes: c.RelationshipTypes(),
	}
}
