package registry

// The registry is the static description of every resource type the
// platform knows about: which domain it belongs to, which fields its
// records may carry, and which roles may act on it. It is config-as-code
// and read-only at runtime; everything the access and automation engines
// decide is resolved against it.

import "gestionale/internal/models"

type Domain string

const (
	DomainAnagrafica Domain = "anagrafica"
	DomainAula       Domain = "aula"
	DomainEvento     Domain = "evento"
)

// Action is a CRUD action on a resource type.
type Action string

const (
	ActionCreate Action = "create"
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// PermissionRule describes who may perform one action on one resource
// type. A role belongs to at most one of the two sets: Roles grants full
// access to every record of the type, OwnOnlyRoles grants access only to
// records the user holds a resource key for.
type PermissionRule struct {
	Roles        []models.UserRole
	OwnOnlyRoles []models.UserRole
}

func (r PermissionRule) HasRole(role models.UserRole) bool {
	for _, candidate := range r.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

func (r PermissionRule) HasOwnOnlyRole(role models.UserRole) bool {
	for _, candidate := range r.OwnOnlyRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

// PreviewFields names the two fields used when a record is rendered as a
// compact list row.
type PreviewFields struct {
	Title    string
	Subtitle string
}

// ResourceDef is the full static definition of one resource type slug.
type ResourceDef struct {
	Slug   string
	Domain Domain
	Fields map[string]bool

	// VisibilityOptions names the notification audiences automation
	// actions on this type may address.
	VisibilityOptions []string
	CreatorRoles      []models.UserRole
	Permissions       map[Action]PermissionRule
	Preview           PreviewFields
}

// HasField reports whether a field key belongs to the type's catalog.
func (d *ResourceDef) HasField(key string) bool {
	return d.Fields[key]
}

// HasVisibilityOption reports whether an audience is configured for the
// type.
func (d *ResourceDef) HasVisibilityOption(option string) bool {
	for _, candidate := range d.VisibilityOptions {
		if candidate == option {
			return true
		}
	}
	return false
}

func IsValidDomain(domain Domain) bool {
	switch domain {
	case DomainAnagrafica, DomainAula, DomainEvento:
		return true
	default:
		return false
	}
}

func IsValidAction(action Action) bool {
	switch action {
	case ActionCreate, ActionView, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// GetResourceDef resolves the definition for a (domain, slug) pair.
// Unknown pairs return (nil, false): callers fail closed.
func GetResourceDef(domain Domain, slug string) (*ResourceDef, bool) {
	defs, ok := definitions[domain]
	if !ok {
		return nil, false
	}
	def, ok := defs[slug]
	return def, ok
}

// GetPermissionRule resolves the rule for one action on one resource type.
func GetPermissionRule(domain Domain, slug string, action Action) (PermissionRule, bool) {
	def, ok := GetResourceDef(domain, slug)
	if !ok {
		return PermissionRule{}, false
	}
	rule, ok := def.Permissions[action]
	return rule, ok
}

// DomainOfSlug finds which domain a type slug belongs to. Slugs are unique
// across domains.
func DomainOfSlug(slug string) (Domain, bool) {
	for domain, defs := range definitions {
		if _, ok := defs[slug]; ok {
			return domain, true
		}
	}
	return "", false
}

// SlugsForDomain lists the registered type slugs of a domain in
// registration order.
func SlugsForDomain(domain Domain) []string {
	return slugOrder[domain]
}
