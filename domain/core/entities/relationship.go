package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "contextgraph/pkg/errors"
)

// RelationshipType classifies a directed relationship between two entities
type RelationshipType string

const (
	RelationRelatedTo  RelationshipType = "related_to"
	RelationDependsOn  RelationshipType = "depends_on"
	RelationWorksOn    RelationshipType = "works_on"
	RelationCreatedBy  RelationshipType = "created_by"
	RelationPartOf     RelationshipType = "part_of"
	RelationReferences RelationshipType = "references"
	RelationAssignedTo RelationshipType = "assigned_to"
	RelationUses       RelationshipType = "uses"
)

var validRelationshipTypes = map[RelationshipType]bool{
	RelationRelatedTo:  true,
	RelationDependsOn:  true,
	RelationWorksOn:    true,
	RelationCreatedBy:  true,
	RelationPartOf:     true,
	RelationReferences: true,
	RelationAssignedTo: true,
	RelationUses:       true,
}

// IsValid reports whether the type is part of the closed enumeration
func (t RelationshipType) IsValid() bool {
	return validRelationshipTypes[t]
}

// Relationship is a typed, directed edge between two entities. Multiple
// relationships may connect the same ordered pair; Key distinguishes them.
type Relationship struct {
	Key        string
	SourceID   string
	TargetID   string
	Type       RelationshipType
	Weight     float64
	Attributes map[string]interface{}
	CreatedAt  time.Time
}

// NewRelationship creates a relationship. An empty key gets a generated one.
func NewRelationship(sourceID, targetID string, relType RelationshipType, key string, attributes map[string]interface{}) (*Relationship, error) {
	if sourceID == "" || targetID == "" {
		return nil, pkgerrors.NewInvalidArgument("relationship endpoints are required")
	}
	if !relType.IsValid() {
		return nil, pkgerrors.NewInvalidArgument("unknown relationship type: " + string(relType))
	}

	if key == "" {
		key = uuid.New().String()
	}

	attrs := make(map[string]interface{}, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}

	return &Relationship{
		Key:        key,
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       relType,
		Weight:     1.0,
		Attributes: attrs,
		CreatedAt:  time.Now(),
	}, nil
}

// Clone returns an independent copy of the relationship
func (r *Relationship) Clone() *Relationship {
	attrs := make(map[string]interface{}, len(r.Attributes))
	for k, v := range r.Attributes {
		attrs[k] = v
	}
	return &Relationship{
		Key:        r.Key,
		SourceID:   r.SourceID,
		TargetID:   r.TargetID,
		Type:       r.Type,
		Weight:     r.Weight,
		Attributes: attrs,
		CreatedAt:  r.CreatedAt,
	}
}
