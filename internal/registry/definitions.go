package registry

import "gestionale/internal/models"

// Static resource-type definitions, grouped by domain. Mirrors what the
// deployment actually configures; slugs are unique across the whole
// registry so automation actions can name a type without its domain.

func fieldSet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, key := range keys {
		set[key] = true
	}
	return set
}

var anagraficaDefs = map[string]*ResourceDef{
	"clienti": {
		Slug:   "clienti",
		Domain: DomainAnagrafica,
		Fields: fieldSet(
			"ragioneSociale", "nome", "cognome", "email", "telefono",
			"indirizzo", "citta", "provincia", "partitaIva", "codiceFiscale",
			"stato", "note", "referente",
		),
		VisibilityOptions: []string{"cliente"},
		CreatorRoles:      []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente},
		Permissions: map[Action]PermissionRule{
			ActionCreate: {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionView:   {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionUpdate: {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionDelete: {Roles: []models.UserRole{models.UserRoleSegreteria}},
		},
		Preview: PreviewFields{Title: "ragioneSociale", Subtitle: "citta"},
	},
	"fornitori": {
		Slug:   "fornitori",
		Domain: DomainAnagrafica,
		Fields: fieldSet(
			"ragioneSociale", "email", "telefono", "indirizzo", "citta",
			"partitaIva", "stato", "note",
		),
		VisibilityOptions: []string{"cliente"},
		CreatorRoles:      []models.UserRole{models.UserRoleSegreteria},
		Permissions: map[Action]PermissionRule{
			ActionCreate: {Roles: []models.UserRole{models.UserRoleSegreteria}},
			ActionView:   {Roles: []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente}},
			ActionUpdate: {Roles: []models.UserRole{models.UserRoleSegreteria}},
			ActionDelete: {Roles: []models.UserRole{models.UserRoleSegreteria}},
		},
		Preview: PreviewFields{Title: "ragioneSociale", Subtitle: "partitaIva"},
	},
	"conferme-ordine": {
		Slug:   "conferme-ordine",
		Domain: DomainAnagrafica,
		Fields: fieldSet(
			"numeroOrdine", "cliente", "email", "statoAvanzamento",
			"dataConsegna", "importo", "stato", "note", "referente",
		),
		VisibilityOptions: []string{"cliente"},
		CreatorRoles:      []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente},
		Permissions: map[Action]PermissionRule{
			ActionCreate: {Roles: []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente}},
			ActionView:   {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionUpdate: {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionDelete: {Roles: []models.UserRole{models.UserRoleSegreteria}},
		},
		Preview: PreviewFields{Title: "numeroOrdine", Subtitle: "statoAvanzamento"},
	},
}

var aulaDefs = map[string]*ResourceDef{
	"corsi": {
		Slug:   "corsi",
		Domain: DomainAula,
		Fields: fieldSet(
			"titolo", "descrizione", "docente", "email", "aula", "posti",
			"dataInizio", "dataFine", "stato", "note",
		),
		VisibilityOptions: []string{"partecipanti", "cliente"},
		CreatorRoles:      []models.UserRole{models.UserRoleSegreteria},
		Permissions: map[Action]PermissionRule{
			ActionCreate: {Roles: []models.UserRole{models.UserRoleSegreteria}},
			ActionView:   {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleDocente}},
			ActionUpdate: {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleDocente}},
			ActionDelete: {Roles: []models.UserRole{models.UserRoleSegreteria}},
		},
		Preview: PreviewFields{Title: "titolo", Subtitle: "docente"},
	},
	"riunioni": {
		Slug:   "riunioni",
		Domain: DomainAula,
		Fields: fieldSet(
			"titolo", "descrizione", "sala", "organizzatore", "email",
			"dataInizio", "stato",
		),
		VisibilityOptions: []string{"partecipanti"},
		CreatorRoles:      []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente},
		Permissions: map[Action]PermissionRule{
			ActionCreate: {Roles: []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente}},
			ActionView:   {Roles: []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente, models.UserRoleDocente}},
			ActionUpdate: {Roles: []models.UserRole{models.UserRoleSegreteria}},
			ActionDelete: {Roles: []models.UserRole{models.UserRoleSegreteria}},
		},
		Preview: PreviewFields{Title: "titolo", Subtitle: "sala"},
	},
}

var eventoDefs = map[string]*ResourceDef{
	"appuntamenti": {
		Slug:   "appuntamenti",
		Domain: DomainEvento,
		Fields: fieldSet(
			"titolo", "descrizione", "luogo", "cliente", "email",
			"stato", "esito", "note",
		),
		VisibilityOptions: []string{"cliente"},
		CreatorRoles:      []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente},
		Permissions: map[Action]PermissionRule{
			ActionCreate: {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionView:   {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionUpdate: {Roles: []models.UserRole{models.UserRoleSegreteria}, OwnOnlyRoles: []models.UserRole{models.UserRoleAgente}},
			ActionDelete: {Roles: []models.UserRole{models.UserRoleSegreteria}},
		},
		Preview: PreviewFields{Title: "titolo", Subtitle: "luogo"},
	},
	"scadenze": {
		Slug:   "scadenze",
		Domain: DomainEvento,
		Fields: fieldSet(
			"titolo", "descrizione", "cliente", "importo", "stato", "note",
		),
		VisibilityOptions: []string{"cliente"},
		CreatorRoles:      []models.UserRole{models.UserRoleSegreteria},
		Permissions: map[Action]PermissionRule{
			ActionCreate: {Roles: []models.UserRole{models.UserRoleSegreteria}},
			ActionView:   {Roles: []models.UserRole{models.UserRoleSegreteria, models.UserRoleAgente}},
			ActionUpdate: {Roles: []models.UserRole{models.UserRoleSegreteria}},
			ActionDelete: {Roles: []models.UserRole{models.UserRoleSegreteria}},
		},
		Preview: PreviewFields{Title: "titolo", Subtitle: "stato"},
	},
}

var definitions = map[Domain]map[string]*ResourceDef{
	DomainAnagrafica: anagraficaDefs,
	DomainAula:       aulaDefs,
	DomainEvento:     eventoDefs,
}

var slugOrder = map[Domain][]string{
	DomainAnagrafica: {"clienti", "fornitori", "conferme-ordine"},
	DomainAula:       {"corsi", "riunioni"},
	DomainEvento:     {"appuntamenti", "scadenze"},
}
