package access

import (
	"testing"

	"gestionale/internal/models"
	"gestionale/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agenteWithKey(domain registry.Domain, slug, id string) AuthContext {
	scopes := make(KeyScopes)
	scopes.Add(domain, slug, id)
	return AuthContext{
		UserID:    "user-agente",
		Role:      models.UserRoleAgente,
		KeyScopes: scopes,
	}
}

func TestHasPermissionAdminBypass(t *testing.T) {
	admin := AuthContext{UserID: "root", Role: models.UserRoleAdmin, IsAdmin: true}

	// Admins pass everything, including keys nothing else would accept.
	assert.True(t, HasPermission(admin, "anagrafica.view", &CheckOptions{ResourceType: "clienti"}))
	assert.True(t, HasPermission(admin, "evento.delete", &CheckOptions{ResourceType: "scadenze", ResourceID: "x"}))
	assert.True(t, HasPermission(admin, "garbage", nil))
	assert.True(t, HasPermission(admin, "", nil))
}

func TestHasPermissionFailClosed(t *testing.T) {
	segreteria := AuthContext{UserID: "u1", Role: models.UserRoleSegreteria}

	tests := []struct {
		name string
		key  string
		opts *CheckOptions
	}{
		{"malformed key", "anagrafica", &CheckOptions{ResourceType: "clienti"}},
		{"unknown domain", "magazzino.view", &CheckOptions{ResourceType: "clienti"}},
		{"unknown action", "anagrafica.export", &CheckOptions{ResourceType: "clienti"}},
		{"nil options", "anagrafica.view", nil},
		{"empty resource type", "anagrafica.view", &CheckOptions{}},
		{"unknown resource type", "anagrafica.view", &CheckOptions{ResourceType: "magazzino"}},
		{"slug from another domain", "anagrafica.view", &CheckOptions{ResourceType: "corsi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, HasPermission(segreteria, tt.key, tt.opts))
		})
	}
}

func TestHasPermissionUnscopedRole(t *testing.T) {
	segreteria := AuthContext{UserID: "u1", Role: models.UserRoleSegreteria}

	// Full-access roles pass with or without a specific record, and never
	// need key scopes.
	assert.True(t, HasPermission(segreteria, "anagrafica.view", &CheckOptions{ResourceType: "clienti"}))
	assert.True(t, HasPermission(segreteria, "anagrafica.view", &CheckOptions{ResourceType: "clienti", ResourceID: "any-id"}))
	assert.True(t, HasPermission(segreteria, "anagrafica.delete", &CheckOptions{ResourceType: "clienti", ResourceID: "any-id"}))
}

func TestHasPermissionOwnOnlyScoping(t *testing.T) {
	auth := agenteWithKey(registry.DomainAnagrafica, "conferme-ordine", "ordine-42")

	// Type-level check passes provisionally; the record check follows the keys.
	assert.True(t, HasPermission(auth, "anagrafica.view", &CheckOptions{ResourceType: "conferme-ordine"}))
	assert.True(t, HasPermission(auth, "anagrafica.view", &CheckOptions{ResourceType: "conferme-ordine", ResourceID: "ordine-42"}))
	assert.False(t, HasPermission(auth, "anagrafica.view", &CheckOptions{ResourceType: "conferme-ordine", ResourceID: "ordine-43"}))

	// The key grants the record, not the type: other slugs stay scoped.
	assert.False(t, HasPermission(auth, "anagrafica.view", &CheckOptions{ResourceType: "clienti", ResourceID: "ordine-42"}))

	// Delete on conferme-ordine has no agente entry at all.
	assert.False(t, HasPermission(auth, "anagrafica.delete", &CheckOptions{ResourceType: "conferme-ordine", ResourceID: "ordine-42"}))
}

func TestHasPermissionRoleWithoutEntryDenied(t *testing.T) {
	docente := AuthContext{UserID: "u2", Role: models.UserRoleDocente, KeyScopes: make(KeyScopes)}

	// Docente has no entry on clienti and an own-only entry on corsi.
	assert.False(t, HasPermission(docente, "anagrafica.view", &CheckOptions{ResourceType: "clienti"}))
	assert.True(t, HasPermission(docente, "aula.view", &CheckOptions{ResourceType: "corsi"}))
	assert.False(t, HasPermission(docente, "aula.view", &CheckOptions{ResourceType: "corsi", ResourceID: "corso-1"}))

	docente.KeyScopes.Add(registry.DomainAula, "corsi", "corso-1")
	assert.True(t, HasPermission(docente, "aula.view", &CheckOptions{ResourceType: "corsi", ResourceID: "corso-1"}))
}

func TestHasPermissionNilKeyScopes(t *testing.T) {
	// An own-only role with no scopes loaded at all must deny, not panic.
	auth := AuthContext{UserID: "u3", Role: models.UserRoleAgente}
	assert.False(t, HasPermission(auth, "anagrafica.view", &CheckOptions{ResourceType: "clienti", ResourceID: "c-1"}))
}

func TestKeyScopesIDs(t *testing.T) {
	scopes := make(KeyScopes)
	require.Nil(t, scopes.IDs(registry.DomainEvento, "appuntamenti"))

	scopes.Add(registry.DomainEvento, "appuntamenti", "a")
	scopes.Add(registry.DomainEvento, "appuntamenti", "b")
	scopes.Add(registry.DomainEvento, "scadenze", "c")

	assert.ElementsMatch(t, []string{"a", "b"}, scopes.IDs(registry.DomainEvento, "appuntamenti"))
	assert.ElementsMatch(t, []string{"c"}, scopes.IDs(registry.DomainEvento, "scadenze"))
	assert.Nil(t, scopes.IDs(registry.DomainAula, "corsi"))
}
