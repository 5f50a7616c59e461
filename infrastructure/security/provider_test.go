package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contextgraph/domain/core/entities"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	return NewProvider(NewMemoryACLStore(), zap.NewNop())
}

func TestCanAccess_DefaultRoleMatrix(t *testing.T) {
	provider := newTestProvider(t)

	tests := []struct {
		role      string
		operation string
		allowed   bool
	}{
		{RoleAdmin, OpReadEntity, true},
		{RoleAdmin, OpDeleteEntity, true},
		{RoleAdmin, OpDeleteRelationship, true},
		{RoleEditor, OpReadEntity, true},
		{RoleEditor, OpWriteEntity, true},
		{RoleEditor, OpDeleteEntity, false},
		{RoleEditor, OpDeleteRelationship, false},
		{RoleViewer, OpReadEntity, true},
		{RoleViewer, OpReadPattern, true},
		{RoleViewer, OpWriteEntity, false},
		{RoleViewer, OpWriteRelationship, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.operation, func(t *testing.T) {
			user := UserContext{UserID: "u1", Role: tt.role}
			assert.Equal(t, tt.allowed, provider.CanAccess(user, tt.operation))
		})
	}
}

func TestCanAccess_UnknownInputsDeny(t *testing.T) {
	provider := newTestProvider(t)

	// Unknown operation
	assert.False(t, provider.CanAccess(UserContext{UserID: "u1", Role: RoleAdmin}, "launch_missiles"))
	// Unknown role
	assert.False(t, provider.CanAccess(UserContext{UserID: "u1", Role: "superuser"}, OpReadEntity))
}

func TestCanAccess_EmptyRoleFallsBackToViewer(t *testing.T) {
	provider := newTestProvider(t)
	user := UserContext{UserID: "u1"}

	assert.True(t, provider.CanAccess(user, OpReadEntity))
	assert.False(t, provider.CanAccess(user, OpWriteEntity))
}

func TestCanAccess_UserOverrideBeatsRole(t *testing.T) {
	provider := newTestProvider(t)

	// Grant a viewer something the role denies
	provider.SetUserOperationPermission(OpWriteEntity, "grantee", true)
	assert.True(t, provider.CanAccess(UserContext{UserID: "grantee", Role: RoleViewer}, OpWriteEntity))

	// Revoke from an admin something the role allows
	provider.SetUserOperationPermission(OpDeleteEntity, "revokee", false)
	assert.False(t, provider.CanAccess(UserContext{UserID: "revokee", Role: RoleAdmin}, OpDeleteEntity))

	// The override is scoped to that operation only
	assert.True(t, provider.CanAccess(UserContext{UserID: "revokee", Role: RoleAdmin}, OpWriteEntity))
}

func TestCanAccessEntityType_DefaultAllow(t *testing.T) {
	provider := newTestProvider(t)
	viewer := UserContext{UserID: "u1", Role: RoleViewer}

	// No rule exists: every type is visible, unlike operation checks
	assert.True(t, provider.CanAccessEntityType(viewer, entities.EntityTypeDocument))
	assert.True(t, provider.CanAccessRelationshipType(viewer, entities.RelationDependsOn))

	provider.SetEntityTypePermission(entities.EntityTypeDocument, RoleViewer, false)
	assert.False(t, provider.CanAccessEntityType(viewer, entities.EntityTypeDocument))
	// Other roles keep the default
	assert.True(t, provider.CanAccessEntityType(UserContext{UserID: "u2", Role: RoleAdmin}, entities.EntityTypeDocument))
}

func TestFilterEntityForUser(t *testing.T) {
	provider := newTestProvider(t)
	provider.SetEntityTypePermission(entities.EntityTypeDocument, RoleViewer, false)

	doc, err := entities.NewEntity("doc1", entities.EntityTypeDocument, nil)
	require.NoError(t, err)
	person, err := entities.NewEntity("p1", entities.EntityTypePerson, nil)
	require.NoError(t, err)

	viewer := UserContext{UserID: "u1", Role: RoleViewer}
	assert.Nil(t, provider.FilterEntityForUser(viewer, doc))
	assert.Same(t, person, provider.FilterEntityForUser(viewer, person))
	assert.Nil(t, provider.FilterEntityForUser(viewer, nil))
}

func TestFilterTypesForUser(t *testing.T) {
	provider := newTestProvider(t)
	provider.SetEntityTypePermission(entities.EntityTypeDocument, RoleViewer, false)
	provider.SetRelationshipTypePermission(entities.RelationCreatedBy, RoleViewer, false)

	viewer := UserContext{UserID: "u1", Role: RoleViewer}
	entityTypes, relTypes := provider.FilterTypesForUser(viewer,
		[]entities.EntityType{entities.EntityTypeDocument, entities.EntityTypePerson},
		[]entities.RelationshipType{entities.RelationCreatedBy, entities.RelationWorksOn},
	)

	assert.Equal(t, []entities.EntityType{entities.EntityTypePerson}, entityTypes)
	assert.Equal(t, []entities.RelationshipType{entities.RelationWorksOn}, relTypes)
}

func TestAuditLogs_Filtering(t *testing.T) {
	provider := newTestProvider(t)
	provider.CreateAuditLog(UserContext{UserID: "alice", Role: RoleAdmin, TenantID: "t1"}, "set_context", nil)
	provider.CreateAuditLog(UserContext{UserID: "bob", Role: RoleViewer, TenantID: "t1"}, "get_subgraph", map[string]interface{}{"max_nodes": 10})
	provider.CreateAuditLog(UserContext{UserID: "alice", Role: RoleAdmin, TenantID: "t2"}, "get_subgraph", nil)

	assert.Len(t, provider.AuditLogs(nil), 3)
	assert.Len(t, provider.AuditLogs(map[string]string{"user_id": "alice"}), 2)
	assert.Len(t, provider.AuditLogs(map[string]string{"user_id": "alice", "tenant_id": "t2"}), 1)
	assert.Len(t, provider.AuditLogs(map[string]string{"action": "get_subgraph"}), 2)
	assert.Empty(t, provider.AuditLogs(map[string]string{"user_id": "carol"}))
	// Unknown filter keys match nothing
	assert.Empty(t, provider.AuditLogs(map[string]string{"color": "red"}))

	entries := provider.AuditLogs(map[string]string{"user_id": "bob"})
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, 10, entries[0].Details["max_nodes"])
}

func TestNewProvider_RecoversFromCorruptStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acl.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	provider := NewProvider(NewFileACLStore(path, zap.NewNop()), zap.NewNop())

	// Defaults are in force despite the corrupt file
	assert.True(t, provider.CanAccess(UserContext{UserID: "u1", Role: RoleAdmin}, OpDeleteEntity))

	// And the recovered defaults were persisted back
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), OpDeleteEntity)
}

func TestFileACLStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "acl.json")
	store := NewFileACLStore(path, zap.NewNop())

	data := NewACLData()
	data.applyDefaults()
	data.Users["alice"] = map[string]bool{OpWriteEntity: true}
	require.NoError(t, store.Save(data))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Users["alice"][OpWriteEntity])
	assert.True(t, loaded.Operations[OpReadEntity].Roles[RoleViewer])

	// No stray temp file left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestApplyDefaults_DoesNotOverwriteExistingRules(t *testing.T) {
	data := NewACLData()
	data.Operations[OpReadEntity] = &TypePermissions{Roles: map[string]bool{RoleViewer: false}}

	data.applyDefaults()

	assert.False(t, data.Operations[OpReadEntity].Roles[RoleViewer])
	// Missing operations were still filled in
	assert.True(t, data.Operations[OpWriteEntity].Roles[RoleEditor])
}
