// Package memory loads in-memory graph fixtures from YAML seed files.
package memory

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"contextgraph/domain/core/aggregates"
	"contextgraph/domain/core/entities"
	apperrors "contextgraph/pkg/errors"
)

// SeedFile is the on-disk shape of a graph seed.
type SeedFile struct {
	Entities      []SeedEntity       `yaml:"entities"`
	Relationships []SeedRelationship `yaml:"relationships"`
}

// SeedEntity describes one entity in a seed file.
type SeedEntity struct {
	ID         string                 `yaml:"id"`
	Type       string                 `yaml:"type"`
	Attributes map[string]interface{} `yaml:"attributes"`
	UpdatedAt  time.Time              `yaml:"updated_at"`
}

// SeedRelationship describes one relationship in a seed file.
type SeedRelationship struct {
	Key        string                 `yaml:"key"`
	Source     string                 `yaml:"source"`
	Target     string                 `yaml:"target"`
	Type       string                 `yaml:"type"`
	Weight     float64                `yaml:"weight"`
	Attributes map[string]interface{} `yaml:"attributes"`
}

// LoadSeedFile reads a YAML seed file and builds a graph from it.
func LoadSeedFile(path string) (*aggregates.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInternal("failed to read seed file", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, apperrors.NewInvalidArgument("failed to parse seed file: " + err.Error())
	}

	return BuildGraph(&seed)
}

// BuildGraph constructs a graph from parsed seed data.
func BuildGraph(seed *SeedFile) (*aggregates.Graph, error) {
	graph := aggregates.NewGraph()

	for _, se := range seed.Entities {
		entity, err := entities.NewEntity(se.ID, entities.EntityType(se.Type), se.Attributes)
		if err != nil {
			return nil, err
		}
		if !se.UpdatedAt.IsZero() {
			entity.UpdatedAt = se.UpdatedAt
		}
		if err := graph.AddEntity(entity); err != nil {
			return nil, err
		}
	}

	for _, sr := range seed.Relationships {
		rel, err := entities.NewRelationship(sr.Source, sr.Target,
			entities.RelationshipType(sr.Type), sr.Key, sr.Attributes)
		if err != nil {
			return nil, err
		}
		if sr.Weight > 0 {
			rel.Weight = sr.Weight
		}
		if err := graph.AddRelationship(rel); err != nil {
			return nil, err
		}
	}

	return graph, nil
}
