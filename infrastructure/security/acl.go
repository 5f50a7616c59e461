package security

// Operation names checked by CanAccess
const (
	OpReadEntity         = "read_entity"
	OpWriteEntity        = "write_entity"
	OpDeleteEntity       = "delete_entity"
	OpReadRelationship   = "read_relationship"
	OpWriteRelationship  = "write_relationship"
	OpDeleteRelationship = "delete_relationship"
	OpReadPattern        = "read_pattern"
)

// Role names known to the default ACL matrix
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// TypePermissions holds role and per-user rules for one operation or one
// entity/relationship type
type TypePermissions struct {
	Roles map[string]bool `json:"roles,omitempty"`
	Users map[string]bool `json:"users,omitempty"`
}

// ACLData is the serialized shape of the ACL store
type ACLData struct {
	Operations        map[string]*TypePermissions `json:"operations"`
	EntityTypes       map[string]*TypePermissions `json:"entity_types"`
	RelationshipTypes map[string]*TypePermissions `json:"relationship_types"`
	// Users maps user ID -> operation -> allowed; overrides role rules
	Users map[string]map[string]bool `json:"users"`
}

// NewACLData returns an empty ACL structure
func NewACLData() *ACLData {
	return &ACLData{
		Operations:        make(map[string]*TypePermissions),
		EntityTypes:       make(map[string]*TypePermissions),
		RelationshipTypes: make(map[string]*TypePermissions),
		Users:             make(map[string]map[string]bool),
	}
}

// defaultOperationRoles is the fixed role matrix applied at initialization
func defaultOperationRoles() map[string]map[string]bool {
	return map[string]map[string]bool{
		OpReadEntity:         {RoleAdmin: true, RoleEditor: true, RoleViewer: true},
		OpWriteEntity:        {RoleAdmin: true, RoleEditor: true, RoleViewer: false},
		OpDeleteEntity:       {RoleAdmin: true, RoleEditor: false, RoleViewer: false},
		OpReadRelationship:   {RoleAdmin: true, RoleEditor: true, RoleViewer: true},
		OpWriteRelationship:  {RoleAdmin: true, RoleEditor: true, RoleViewer: false},
		OpDeleteRelationship: {RoleAdmin: true, RoleEditor: false, RoleViewer: false},
		OpReadPattern:        {RoleAdmin: true, RoleEditor: true, RoleViewer: true},
	}
}

// applyDefaults fills in any operation missing from the store. Existing
// rules are never overwritten.
func (d *ACLData) applyDefaults() {
	if d.Operations == nil {
		d.Operations = make(map[string]*TypePermissions)
	}
	if d.EntityTypes == nil {
		d.EntityTypes = make(map[string]*TypePermissions)
	}
	if d.RelationshipTypes == nil {
		d.RelationshipTypes = make(map[string]*TypePermissions)
	}
	if d.Users == nil {
		d.Users = make(map[string]map[string]bool)
	}

	for operation, roles := range defaultOperationRoles() {
		if _, exists := d.Operations[operation]; !exists {
			copied := make(map[string]bool, len(roles))
			for role, allowed := range roles {
				copied[role] = allowed
			}
			d.Operations[operation] = &TypePermissions{Roles: copied}
		}
	}
}
