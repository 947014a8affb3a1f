package access

// The access engine answers "may this identity perform this action on
// this resource type, and optionally on this specific record". It is a
// pure function over an already-loaded AuthContext: key scopes are loaded
// once per request by the caller, never here. Every inconclusive state
// resolves to a denial; the engine never returns an error.

import (
	"strings"

	"gestionale/internal/models"
	"gestionale/internal/registry"
)

// KeyScopes maps domain -> type slug -> set of resource ids the user
// holds explicit keys for. Immutable for the lifetime of a request.
type KeyScopes map[registry.Domain]map[string]map[string]struct{}

// Contains reports whether the scopes grant a specific record.
func (s KeyScopes) Contains(domain registry.Domain, slug, resourceID string) bool {
	bySlug, ok := s[domain]
	if !ok {
		return false
	}
	ids, ok := bySlug[slug]
	if !ok {
		return false
	}
	_, ok = ids[resourceID]
	return ok
}

// IDs returns the granted record ids for one resource type. List queries
// for own-only roles are filtered with this; nil means no grants.
func (s KeyScopes) IDs(domain registry.Domain, slug string) []string {
	bySlug, ok := s[domain]
	if !ok {
		return nil
	}
	ids, ok := bySlug[slug]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

// Add records a grant. Used by the key store when building scopes.
func (s KeyScopes) Add(domain registry.Domain, slug, resourceID string) {
	bySlug, ok := s[domain]
	if !ok {
		bySlug = make(map[string]map[string]struct{})
		s[domain] = bySlug
	}
	ids, ok := bySlug[slug]
	if !ok {
		ids = make(map[string]struct{})
		bySlug[slug] = ids
	}
	ids[resourceID] = struct{}{}
}

// AuthContext is the authenticated identity a request acts as. KeyScopes
// is empty for admins; they never need it.
type AuthContext struct {
	UserID    string
	Role      models.UserRole
	IsAdmin   bool
	KeyScopes KeyScopes
}

// CheckOptions narrows a permission check to a resource type and,
// optionally, to one specific record.
type CheckOptions struct {
	ResourceType string
	ResourceID   string
}

// HasPermission evaluates a "<domain>.<action>" permission key.
//
// Admins pass unconditionally. Otherwise the registry rule for
// (domain, resourceType, action) decides: a role in Roles gets unscoped
// access, a role in OwnOnlyRoles gets access to records covered by the
// user's key scopes. A check without a resource id (can the user list or
// create at all) passes provisionally for own-only roles; the caller must
// then filter list queries through KeyScopes.IDs. Anything unknown denies.
func HasPermission(auth AuthContext, permissionKey string, opts *CheckOptions) bool {
	if auth.IsAdmin {
		return true
	}

	domain, action, ok := splitPermissionKey(permissionKey)
	if !ok {
		return false
	}
	if opts == nil || opts.ResourceType == "" {
		return false
	}

	rule, ok := registry.GetPermissionRule(domain, opts.ResourceType, action)
	if !ok {
		return false
	}

	if rule.HasRole(auth.Role) {
		return true
	}

	if rule.HasOwnOnlyRole(auth.Role) {
		if opts.ResourceID == "" {
			return true
		}
		return auth.KeyScopes.Contains(domain, opts.ResourceType, opts.ResourceID)
	}

	return false
}

func splitPermissionKey(key string) (registry.Domain, registry.Action, bool) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	domain := registry.Domain(parts[0])
	action := registry.Action(parts[1])
	if !registry.IsValidDomain(domain) || !registry.IsValidAction(action) {
		return "", "", false
	}
	return domain, action, true
}
