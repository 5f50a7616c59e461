package api

import "time"

// SetContextRequest is the expected body for a PUT /api/context request.
type SetContextRequest struct {
	Task              string   `json:"task" validate:"omitempty,max=2048"`
	FocusEntities     []string `json:"focus_entities" validate:"omitempty,dive,required"`
	Keywords          []string `json:"keywords" validate:"omitempty,dive,required"`
	EntityTypes       []string `json:"entity_types" validate:"omitempty,dive,required"`
	RelationshipTypes []string `json:"relationship_types" validate:"omitempty,dive,required"`
}

// FocusRequest is the expected body for focus add/remove requests.
type FocusRequest struct {
	EntityID string `json:"entity_id" validate:"required"`
}

// TaskQueryRequest is the expected body for a POST /api/task-entities request.
type TaskQueryRequest struct {
	Task        string `json:"task" validate:"required"`
	MaxEntities int    `json:"max_entities" validate:"omitempty,min=1"`
}

// FocusResponse reports the outcome of a focus mutation.
type FocusResponse struct {
	EntityID string `json:"entity_id"`
	Changed  bool   `json:"changed"`
}

// ContextResponse is the API representation of a retrieval context.
type ContextResponse struct {
	Task              string   `json:"task,omitempty"`
	FocusEntities     []string `json:"focus_entities,omitempty"`
	Keywords          []string `json:"keywords,omitempty"`
	EntityTypes       []string `json:"entity_types,omitempty"`
	RelationshipTypes []string `json:"relationship_types,omitempty"`
}

// HistoryEntryResponse is one archived context with its activity bounds.
type HistoryEntryResponse struct {
	Context   ContextResponse `json:"context"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
}

// EntityResponse is the API representation of a single entity.
type EntityResponse struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	UpdatedAt  *time.Time             `json:"updated_at,omitempty"`
}

// RelationshipResponse is the API representation of a single relationship.
type RelationshipResponse struct {
	Key        string                 `json:"key"`
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	Type       string                 `json:"type"`
	Weight     float64                `json:"weight"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// GraphResponse is the API representation of an extracted subgraph.
type GraphResponse struct {
	Entities      []EntityResponse       `json:"entities"`
	Relationships []RelationshipResponse `json:"relationships"`
}

// ScoreResponse reports one entity's relevance under the active context.
type ScoreResponse struct {
	EntityID string  `json:"entity_id"`
	Score    float64 `json:"score"`
}

// PathsResponse lists ranked entity-ID paths between two entities.
type PathsResponse struct {
	Paths [][]string `json:"paths"`
}

// AuditEntryResponse is the API representation of one audit log entry.
type AuditEntryResponse struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id"`
	Role      string                 `json:"role"`
	TenantID  string                 `json:"tenant_id,omitempty"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
