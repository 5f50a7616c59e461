// Package security provides role-based access control, per-user permission
// overrides, type-level visibility rules, and audit logging for knowledge
// graph operations. Permission checks never fail a query: persistence
// trouble is logged and recovered by falling back to default permissions.
package security

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contextgraph/domain/core/entities"
)

// UserContext identifies the caller of an operation. An empty role is
// treated as viewer.
type UserContext struct {
	UserID   string
	Role     string
	TenantID string
}

func (u UserContext) role() string {
	if u.Role == "" {
		return RoleViewer
	}
	return u.Role
}

// AuditEntry is one in-memory audit record
type AuditEntry struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id"`
	Role      string                 `json:"role"`
	TenantID  string                 `json:"tenant_id"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
}

// Provider enforces ACL rules and records audit entries
type Provider struct {
	mu       sync.RWMutex
	store    ACLStore
	acl      *ACLData
	auditLog []AuditEntry
	logger   *zap.Logger
}

// NewProvider creates a provider backed by the given store. A load failure
// is logged and recovered by initializing default permissions; it never
// propagates.
func NewProvider(store ACLStore, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	acl, err := store.Load()
	if err != nil {
		logger.Warn("ACL store unavailable, initializing defaults", zap.Error(err))
		acl = NewACLData()
	}
	acl.applyDefaults()

	p := &Provider{store: store, acl: acl, logger: logger}
	p.persist()
	return p
}

// persist saves the ACL data, absorbing failures. Caller must not hold the
// write lock when the store is slow, so persist copies nothing and relies
// on the store serializing the shared structure under our read lock.
func (p *Provider) persist() {
	if err := p.store.Save(p.acl); err != nil {
		p.logger.Warn("failed to persist ACL store", zap.Error(err))
	}
}

// CanAccess checks whether the user may perform an operation. Resolution
// order: user-specific override, then role rule, then deny.
func (p *Provider) CanAccess(user UserContext, operation string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if user.UserID != "" {
		if overrides, ok := p.acl.Users[user.UserID]; ok {
			if allowed, ok := overrides[operation]; ok {
				return allowed
			}
		}
	}

	if perms, ok := p.acl.Operations[operation]; ok && perms.Roles != nil {
		if allowed, ok := perms.Roles[user.role()]; ok {
			return allowed
		}
	}

	return false
}

// CanAccessEntityType checks type-level visibility. Unlike CanAccess, the
// default when no specific rule exists is allow.
func (p *Provider) CanAccessEntityType(user UserContext, entityType entities.EntityType) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canAccessType(p.acl.EntityTypes, user, string(entityType))
}

// CanAccessRelationshipType checks relationship type visibility with the
// same default-allow behavior as CanAccessEntityType
func (p *Provider) CanAccessRelationshipType(user UserContext, relType entities.RelationshipType) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canAccessType(p.acl.RelationshipTypes, user, string(relType))
}

func (p *Provider) canAccessType(rules map[string]*TypePermissions, user UserContext, typeName string) bool {
	perms, ok := rules[typeName]
	if !ok {
		return true
	}

	if user.UserID != "" && perms.Users != nil {
		if allowed, ok := perms.Users[user.UserID]; ok {
			return allowed
		}
	}
	if perms.Roles != nil {
		if allowed, ok := perms.Roles[user.role()]; ok {
			return allowed
		}
	}

	// no specific rule for this user or role
	return true
}

// FilterEntityForUser returns the entity when its type is visible to the
// user, nil otherwise
func (p *Provider) FilterEntityForUser(user UserContext, entity *entities.Entity) *entities.Entity {
	if entity == nil {
		return nil
	}
	if !p.CanAccessEntityType(user, entity.Type) {
		return nil
	}
	return entity
}

// FilterTypesForUser removes entity and relationship types the user may
// not see from a query pattern
func (p *Provider) FilterTypesForUser(user UserContext, entityTypes []entities.EntityType, relTypes []entities.RelationshipType) ([]entities.EntityType, []entities.RelationshipType) {
	allowedEntities := make([]entities.EntityType, 0, len(entityTypes))
	for _, t := range entityTypes {
		if p.CanAccessEntityType(user, t) {
			allowedEntities = append(allowedEntities, t)
		}
	}
	allowedRels := make([]entities.RelationshipType, 0, len(relTypes))
	for _, t := range relTypes {
		if p.CanAccessRelationshipType(user, t) {
			allowedRels = append(allowedRels, t)
		}
	}
	return allowedEntities, allowedRels
}

// CreateAuditLog appends an audit record
func (p *Provider) CreateAuditLog(user UserContext, action string, details map[string]interface{}) {
	entry := AuditEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		UserID:    user.UserID,
		Role:      user.Role,
		TenantID:  user.TenantID,
		Action:    action,
		Details:   details,
	}
	if entry.Details == nil {
		entry.Details = map[string]interface{}{}
	}

	p.mu.Lock()
	p.auditLog = append(p.auditLog, entry)
	p.mu.Unlock()
}

// AuditLogs returns audit entries, optionally filtered by exact match on
// user_id, role, tenant_id or action
func (p *Provider) AuditLogs(filters map[string]string) []AuditEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(filters) == 0 {
		logs := make([]AuditEntry, len(p.auditLog))
		copy(logs, p.auditLog)
		return logs
	}

	var logs []AuditEntry
	for _, entry := range p.auditLog {
		if matchesAuditFilters(entry, filters) {
			logs = append(logs, entry)
		}
	}
	return logs
}

func matchesAuditFilters(entry AuditEntry, filters map[string]string) bool {
	for key, value := range filters {
		switch key {
		case "user_id":
			if entry.UserID != value {
				return false
			}
		case "role":
			if entry.Role != value {
				return false
			}
		case "tenant_id":
			if entry.TenantID != value {
				return false
			}
		case "action":
			if entry.Action != value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// SetOperationPermission sets a role rule for an operation
func (p *Provider) SetOperationPermission(operation, role string, allowed bool) {
	p.mu.Lock()
	if p.acl.Operations[operation] == nil {
		p.acl.Operations[operation] = &TypePermissions{Roles: make(map[string]bool)}
	}
	if p.acl.Operations[operation].Roles == nil {
		p.acl.Operations[operation].Roles = make(map[string]bool)
	}
	p.acl.Operations[operation].Roles[role] = allowed
	p.mu.Unlock()

	p.persist()
	p.logger.Info("operation permission updated",
		zap.String("operation", operation),
		zap.String("role", role),
		zap.Bool("allowed", allowed),
	)
}

// SetUserOperationPermission sets a per-user override for an operation.
// Overrides take precedence over role rules.
func (p *Provider) SetUserOperationPermission(operation, userID string, allowed bool) {
	p.mu.Lock()
	if p.acl.Users[userID] == nil {
		p.acl.Users[userID] = make(map[string]bool)
	}
	p.acl.Users[userID][operation] = allowed
	p.mu.Unlock()

	p.persist()
	p.logger.Info("user permission override updated",
		zap.String("operation", operation),
		zap.String("userId", userID),
		zap.Bool("allowed", allowed),
	)
}

// SetEntityTypePermission sets a role rule for an entity type
func (p *Provider) SetEntityTypePermission(entityType entities.EntityType, role string, allowed bool) {
	p.mu.Lock()
	p.setTypeRule(p.acl.EntityTypes, string(entityType), role, allowed)
	p.mu.Unlock()
	p.persist()
}

// SetRelationshipTypePermission sets a role rule for a relationship type
func (p *Provider) SetRelationshipTypePermission(relType entities.RelationshipType, role string, allowed bool) {
	p.mu.Lock()
	p.setTypeRule(p.acl.RelationshipTypes, string(relType), role, allowed)
	p.mu.Unlock()
	p.persist()
}

func (p *Provider) setTypeRule(rules map[string]*TypePermissions, typeName, role string, allowed bool) {
	if rules[typeName] == nil {
		rules[typeName] = &TypePermissions{Roles: make(map[string]bool)}
	}
	if rules[typeName].Roles == nil {
		rules[typeName].Roles = make(map[string]bool)
	}
	rules[typeName].Roles[role] = allowed
}
