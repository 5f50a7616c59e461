package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "contextgraph/pkg/errors"
)

const sampleSeed = `
entities:
  - id: alice
    type: person
    attributes:
      name: Alice
  - id: rollout
    type: task
    attributes:
      title: Q3 rollout
relationships:
  - key: r1
    source: alice
    target: rollout
    type: works_on
    weight: 0.8
  - source: rollout
    target: alice
    type: assigned_to
`

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o644))

	graph, err := LoadSeedFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2, graph.EntityCount())
	assert.Equal(t, 2, graph.RelationshipCount())
	assert.True(t, graph.HasRelationship("alice", "rollout"))

	rels := graph.RelationshipsBetween("alice", "rollout")
	require.Len(t, rels, 1)
	assert.Equal(t, "r1", rels[0].Key)
	assert.InDelta(t, 0.8, rels[0].Weight, 1e-9)

	// Relationship without a key or weight gets generated defaults
	back := graph.RelationshipsBetween("rollout", "alice")
	require.Len(t, back, 1)
	assert.NotEmpty(t, back[0].Key)
	assert.Equal(t, 1.0, back[0].Weight)

	entity, err := graph.GetEntity("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", entity.Attributes["name"])
	// Seed entities without a stamp carry no recency signal
	assert.True(t, entity.UpdatedAt.IsZero())
}

func TestLoadSeedFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.True(t, pkgerrors.IsInternal(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\t-{"), 0o644))
		_, err := LoadSeedFile(path)
		assert.True(t, pkgerrors.IsInvalidArgument(err))
	})

	t.Run("unknown entity type", func(t *testing.T) {
		seed := &SeedFile{Entities: []SeedEntity{{ID: "x", Type: "alien"}}}
		_, err := BuildGraph(seed)
		assert.True(t, pkgerrors.IsInvalidArgument(err))
	})

	t.Run("relationship to missing entity", func(t *testing.T) {
		seed := &SeedFile{
			Entities:      []SeedEntity{{ID: "x", Type: "person"}},
			Relationships: []SeedRelationship{{Source: "x", Target: "ghost", Type: "related_to"}},
		}
		_, err := BuildGraph(seed)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
