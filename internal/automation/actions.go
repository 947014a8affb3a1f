package automation

// Automation actions are config-as-code: what a deployment watches and
// when it fires is fixed at build time, while the persisted RuleOverride
// lets an admin switch an action off or customize its templates without a
// release. Action ids are unique across both scopes.

// Scope is the resource domain an action watches. Eventi are driven by
// the visibility-window engine instead, so only the two record-like
// domains appear here.
type Scope string

const (
	ScopeAnagrafica Scope = "ANAGRAFICA"
	ScopeAula       Scope = "AULA"
)

// Trigger is the condition under which an action fires on a save.
type Trigger string

const (
	// TriggerOnChange fires whenever the watched field's value differs
	// between the before and after states.
	TriggerOnChange Trigger = "ON_CHANGE"
	// TriggerOnFirstSet fires only when the watched field goes from
	// unset to a non-empty value.
	TriggerOnFirstSet Trigger = "ON_FIRST_SET"
)

// TimeKind decides when the resulting mail job is scheduled for.
type TimeKind string

const (
	TimeImmediate   TimeKind = "IMMEDIATE"
	TimeAtEventDate TimeKind = "AT_EVENT_DATE"
)

// Send modes understood by the recipient resolver.
const (
	SendModeReferente    = "referente"    // data["email"]
	SendModePartecipanti = "partecipanti" // every participant's email
)

type Action struct {
	ID               string
	Label            string
	Scope            Scope
	ResourceTypeSlug string
	Field            string
	Trigger          Trigger
	TimeKind         TimeKind
	// TimeSource is the record field the scheduled date is read from when
	// TimeKind is AT_EVENT_DATE; ignored otherwise.
	TimeSource       string
	WindowDaysBefore int
	WindowDaysAfter  int
	Visibility       string
	DefaultSubject   string
	DefaultHTML      string
}

// registered is the deployment's action set, in evaluation order.
var registered = []Action{
	{
		ID:               "ordine-avanzamento",
		Label:            "Avanzamento conferma ordine",
		Scope:            ScopeAnagrafica,
		ResourceTypeSlug: "conferme-ordine",
		Field:            "statoAvanzamento",
		Trigger:          TriggerOnChange,
		TimeKind:         TimeImmediate,
		Visibility:       "cliente",
		DefaultSubject:   "Ordine {{numeroOrdine}}: {{statoAvanzamento}}",
		DefaultHTML:      "<p>Gentile {{cliente}},</p><p>la sua conferma d'ordine {{numeroOrdine}} &egrave; passata allo stato <b>{{statoAvanzamento}}</b>.</p>",
	},
	{
		ID:               "ordine-consegna",
		Label:            "Promemoria consegna ordine",
		Scope:            ScopeAnagrafica,
		ResourceTypeSlug: "conferme-ordine",
		Field:            "dataConsegna",
		Trigger:          TriggerOnFirstSet,
		TimeKind:         TimeAtEventDate,
		TimeSource:       "dataConsegna",
		WindowDaysBefore: 2,
		Visibility:       "cliente",
		DefaultSubject:   "Consegna ordine {{numeroOrdine}} in arrivo",
		DefaultHTML:      "<p>La consegna dell'ordine {{numeroOrdine}} &egrave; prevista per il {{dataConsegna}}.</p>",
	},
	{
		ID:               "cliente-benvenuto",
		Label:            "Benvenuto nuovo cliente",
		Scope:            ScopeAnagrafica,
		ResourceTypeSlug: "clienti",
		Field:            "email",
		Trigger:          TriggerOnFirstSet,
		TimeKind:         TimeImmediate,
		Visibility:       "cliente",
		DefaultSubject:   "Benvenuto {{ragioneSociale}}",
		DefaultHTML:      "<p>Gentile {{ragioneSociale}},</p><p>la sua anagrafica &egrave; stata registrata.</p>",
	},
	{
		ID:               "corso-avvio",
		Label:            "Avvio corso",
		Scope:            ScopeAula,
		ResourceTypeSlug: "corsi",
		Field:            "dataInizio",
		Trigger:          TriggerOnFirstSet,
		TimeKind:         TimeAtEventDate,
		TimeSource:       "dataInizio",
		WindowDaysBefore: 1,
		Visibility:       "partecipanti",
		DefaultSubject:   "Il corso {{titolo}} sta per iniziare",
		DefaultHTML:      "<p>Il corso <b>{{titolo}}</b> inizia il {{dataInizio}} in aula {{aula}}.</p>",
	},
	{
		ID:               "corso-stato",
		Label:            "Cambio stato corso",
		Scope:            ScopeAula,
		ResourceTypeSlug: "corsi",
		Field:            "stato",
		Trigger:          TriggerOnChange,
		TimeKind:         TimeImmediate,
		Visibility:       "partecipanti",
		DefaultSubject:   "Corso {{titolo}}: {{stato}}",
		DefaultHTML:      "<p>Il corso <b>{{titolo}}</b> &egrave; ora nello stato {{stato}}.</p>",
	},
}

// Actions returns the registered action set in stable evaluation order.
func Actions() []Action {
	return registered
}

// ActionByID resolves one action.
func ActionByID(id string) (Action, bool) {
	for _, action := range registered {
		if action.ID == id {
			return action, true
		}
	}
	return Action{}, false
}
