package entities

import (
	"time"

	pkgerrors "contextgraph/pkg/errors"
)

// EntityType classifies an entity. The set is closed; unknown values are
// rejected at construction time.
type EntityType string

const (
	EntityTypePerson       EntityType = "person"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeTask         EntityType = "task"
	EntityTypeSoftware     EntityType = "software"
	EntityTypeDocument     EntityType = "document"
	EntityTypeConcept      EntityType = "concept"
	EntityTypeEvent        EntityType = "event"
	EntityTypeLocation     EntityType = "location"
)

var validEntityTypes = map[EntityType]bool{
	EntityTypePerson:       true,
	EntityTypeOrganization: true,
	EntityTypeTask:         true,
	EntityTypeSoftware:     true,
	EntityTypeDocument:     true,
	EntityTypeConcept:      true,
	EntityTypeEvent:        true,
	EntityTypeLocation:     true,
}

// IsValid reports whether the type is part of the closed enumeration
func (t EntityType) IsValid() bool {
	return validEntityTypes[t]
}

// Entity is a uniquely identified, typed node in the knowledge graph.
// Attributes are free-form; UpdatedAt is zero until the first attribute
// mutation, so freshly loaded entities carry no recency signal.
type Entity struct {
	ID         string
	Type       EntityType
	Attributes map[string]interface{}
	UpdatedAt  time.Time
}

// NewEntity creates a new entity with a copy of the given attributes
func NewEntity(id string, entityType EntityType, attributes map[string]interface{}) (*Entity, error) {
	if id == "" {
		return nil, pkgerrors.NewInvalidArgument("entity id is required")
	}
	if !entityType.IsValid() {
		return nil, pkgerrors.NewInvalidArgument("unknown entity type: " + string(entityType))
	}

	attrs := make(map[string]interface{}, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}

	return &Entity{
		ID:         id,
		Type:       entityType,
		Attributes: attrs,
	}, nil
}

// SetAttribute updates a single attribute and stamps the entity
func (e *Entity) SetAttribute(key string, value interface{}) {
	if e.Attributes == nil {
		e.Attributes = make(map[string]interface{})
	}
	e.Attributes[key] = value
	e.UpdatedAt = time.Now()
}

// TextualContent concatenates all string-valued attributes. Used by the
// relevance scorer for keyword matching.
func (e *Entity) TextualContent() string {
	text := e.ID
	for _, v := range e.Attributes {
		if s, ok := v.(string); ok {
			text += " " + s
		}
	}
	return text
}

// Clone returns an independent copy of the entity
func (e *Entity) Clone() *Entity {
	attrs := make(map[string]interface{}, len(e.Attributes))
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	return &Entity{
		ID:         e.ID,
		Type:       e.Type,
		Attributes: attrs,
		UpdatedAt:  e.UpdatedAt,
	}
}
