package automation

import (
	"context"
	"testing"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredActionsMatchRegistry(t *testing.T) {
	for _, action := range Actions() {
		domain, ok := registry.DomainOfSlug(action.ResourceTypeSlug)
		require.True(t, ok, action.ID)
		def, ok := registry.GetResourceDef(domain, action.ResourceTypeSlug)
		require.True(t, ok, action.ID)
		assert.True(t, def.HasField(action.Field), "%s watches unknown field %s", action.ID, action.Field)
		assert.True(t, def.HasVisibilityOption(action.Visibility), "%s addresses unknown audience %s", action.ID, action.Visibility)
	}
}

type fakeOverrides struct {
	byAction map[string]*models.RuleOverride
}

func (f *fakeOverrides) Get(ctx context.Context, actionID string) (*models.RuleOverride, error) {
	return f.byAction[actionID], nil
}

type fakeQueue struct {
	jobs []*models.MailJob
}

func (f *fakeQueue) Enqueue(ctx context.Context, job *models.MailJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine(overrides map[string]*models.RuleOverride) (*Engine, *fakeQueue) {
	queue := &fakeQueue{}
	engine := NewEngine(
		&fakeOverrides{byAction: overrides},
		queue,
		"noreply@gestionale.local",
		"info@gestionale.local",
	).WithClock(func() time.Time { return testClock })
	return engine, queue
}

func TestOnChangeFiresOnDifference(t *testing.T) {
	engine, queue := newTestEngine(nil)

	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-1",
		Data: map[string]interface{}{
			"numeroOrdine":     "CO-2026-001",
			"cliente":          "Rossi SRL",
			"email":            "rossi@example.com",
			"statoAvanzamento": "spedito",
		},
		PreviousData: map[string]interface{}{
			"numeroOrdine":     "CO-2026-001",
			"cliente":          "Rossi SRL",
			"email":            "rossi@example.com",
			"statoAvanzamento": "in lavorazione",
		},
	})

	require.Len(t, queue.jobs, 1)
	job := queue.jobs[0]
	assert.Equal(t, models.MailJobStatusPending, job.Status)
	assert.Equal(t, "ordine-avanzamento", job.ActionID)
	assert.Equal(t, "conferme-ordine", job.TargetSlug)
	assert.Equal(t, "ordine-1", job.TargetID)
	assert.Equal(t, "rossi@example.com", job.To)
	assert.Equal(t, "noreply@gestionale.local", job.From)
	assert.Equal(t, "Ordine CO-2026-001: spedito", job.Subject)
	assert.True(t, job.ScheduledAt.Equal(testClock), "IMMEDIATE jobs schedule at the engine clock")
}

func TestOnChangeSilentWhenUnchanged(t *testing.T) {
	engine, queue := newTestEngine(nil)

	data := map[string]interface{}{
		"numeroOrdine":     "CO-2026-001",
		"email":            "rossi@example.com",
		"statoAvanzamento": "spedito",
	}
	// Re-saving the identical record is a no-op for every trigger.
	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-1",
		Data:             data,
		PreviousData:     data,
	})

	assert.Empty(t, queue.jobs)
}

func TestOnChangeFiresOnCreation(t *testing.T) {
	engine, queue := newTestEngine(nil)

	// nil PreviousData means pure creation: the before-state is empty, so
	// a populated watched field counts as changed.
	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-2",
		Data: map[string]interface{}{
			"numeroOrdine":     "CO-2026-002",
			"email":            "verdi@example.com",
			"statoAvanzamento": "ricevuto",
		},
	})

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "ordine-avanzamento", queue.jobs[0].ActionID)
}

func TestOnFirstSetFiresOnceOnly(t *testing.T) {
	engine, queue := newTestEngine(nil)

	// Unset -> set fires.
	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "clienti",
		ResourceID:       "cliente-1",
		Data: map[string]interface{}{
			"ragioneSociale": "Bianchi SPA",
			"email":          "bianchi@example.com",
		},
		PreviousData: map[string]interface{}{
			"ragioneSociale": "Bianchi SPA",
			"email":          "",
		},
	})
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "cliente-benvenuto", queue.jobs[0].ActionID)
	assert.Equal(t, "Benvenuto Bianchi SPA", queue.jobs[0].Subject)

	// Set -> different value does not fire again.
	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "clienti",
		ResourceID:       "cliente-1",
		Data: map[string]interface{}{
			"ragioneSociale": "Bianchi SPA",
			"email":          "amministrazione@example.com",
		},
		PreviousData: map[string]interface{}{
			"ragioneSociale": "Bianchi SPA",
			"email":          "bianchi@example.com",
		},
	})
	assert.Len(t, queue.jobs, 1)
}

func TestAtEventDateSchedulesBeforeWindow(t *testing.T) {
	engine, queue := newTestEngine(nil)

	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-3",
		Data: map[string]interface{}{
			"numeroOrdine": "CO-2026-003",
			"email":        "rossi@example.com",
			"dataConsegna": "2026-03-20",
		},
		PreviousData: map[string]interface{}{
			"numeroOrdine": "CO-2026-003",
			"email":        "rossi@example.com",
		},
	})

	require.Len(t, queue.jobs, 1)
	job := queue.jobs[0]
	assert.Equal(t, "ordine-consegna", job.ActionID)
	// dataConsegna minus the 2-day lead window.
	want := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	assert.True(t, job.ScheduledAt.Equal(want), "got %s", job.ScheduledAt)
}

func TestAtEventDateSkipsOnUnparsableDate(t *testing.T) {
	engine, queue := newTestEngine(nil)

	// A garbage date skips this one rule, with no error surfaced and no job.
	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-4",
		Data: map[string]interface{}{
			"numeroOrdine": "CO-2026-004",
			"email":        "rossi@example.com",
			"dataConsegna": "domani pomeriggio",
		},
		PreviousData: map[string]interface{}{
			"numeroOrdine": "CO-2026-004",
			"email":        "rossi@example.com",
		},
	})

	assert.Empty(t, queue.jobs)
}

func TestDisabledOverrideSuppressesAction(t *testing.T) {
	engine, queue := newTestEngine(map[string]*models.RuleOverride{
		"ordine-avanzamento": {ActionID: "ordine-avanzamento", Enabled: false},
	})

	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-5",
		Data: map[string]interface{}{
			"numeroOrdine":     "CO-2026-005",
			"email":            "rossi@example.com",
			"statoAvanzamento": "spedito",
		},
		PreviousData: map[string]interface{}{
			"numeroOrdine":     "CO-2026-005",
			"email":            "rossi@example.com",
			"statoAvanzamento": "ricevuto",
		},
	})

	assert.Empty(t, queue.jobs)
}

func TestOverrideTemplatesAndPartecipantiMode(t *testing.T) {
	engine, queue := newTestEngine(map[string]*models.RuleOverride{
		"corso-stato": {
			ActionID:        "corso-stato",
			Enabled:         true,
			SendMode:        SendModePartecipanti,
			SubjectTemplate: "Aggiornamento {{titolo}}",
		},
	})

	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "corsi",
		ResourceID:       "corso-1",
		Data: map[string]interface{}{
			"titolo": "Sicurezza sul lavoro",
			"stato":  "confermato",
		},
		PreviousData: map[string]interface{}{
			"titolo": "Sicurezza sul lavoro",
			"stato":  "bozza",
		},
		ParticipantsDetail: []map[string]interface{}{
			{"nome": "Mario", "email": "mario@example.com"},
			{"nome": "Lucia", "email": "lucia@example.com"},
			{"nome": "Senza Mail"},
		},
	})

	require.Len(t, queue.jobs, 1)
	job := queue.jobs[0]
	assert.Equal(t, "Aggiornamento Sicurezza sul lavoro", job.Subject)
	assert.Equal(t, "mario@example.com, lucia@example.com", job.To)
	// HTML falls back to the action default when the override leaves it empty.
	assert.Contains(t, job.HTML, "Sicurezza sul lavoro")
}

func TestNoRecipientSkipsRule(t *testing.T) {
	engine, queue := newTestEngine(nil)

	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-6",
		Data: map[string]interface{}{
			"numeroOrdine":     "CO-2026-006",
			"statoAvanzamento": "spedito",
		},
		PreviousData: map[string]interface{}{
			"numeroOrdine":     "CO-2026-006",
			"statoAvanzamento": "ricevuto",
		},
	})

	assert.Empty(t, queue.jobs)
}

func TestUnknownResourceTypeIsIgnored(t *testing.T) {
	engine, queue := newTestEngine(nil)

	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "magazzino",
		ResourceID:       "x",
		Data:             map[string]interface{}{"email": "a@b.c", "stato": "nuovo"},
	})

	assert.Empty(t, queue.jobs)
}

func TestMultipleActionsFireOnOneSave(t *testing.T) {
	engine, queue := newTestEngine(nil)

	// One save flips statoAvanzamento and first-sets dataConsegna: both
	// conferme-ordine actions fire, one job each.
	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-7",
		Data: map[string]interface{}{
			"numeroOrdine":     "CO-2026-007",
			"email":            "rossi@example.com",
			"statoAvanzamento": "confermato",
			"dataConsegna":     "2026-04-01",
		},
		PreviousData: map[string]interface{}{
			"numeroOrdine":     "CO-2026-007",
			"email":            "rossi@example.com",
			"statoAvanzamento": "ricevuto",
		},
	})

	require.Len(t, queue.jobs, 2)
	ids := []string{queue.jobs[0].ActionID, queue.jobs[1].ActionID}
	assert.ElementsMatch(t, []string{"ordine-avanzamento", "ordine-consegna"}, ids)
}

func TestUnconfiguredAudienceSkipsRule(t *testing.T) {
	engine, queue := newTestEngine(nil)

	// An action addressing an audience the registry does not configure
	// for its type is skipped, not fired.
	err := engine.runAction(context.Background(), Action{
		ID:               "clienti-docenti",
		Scope:            ScopeAnagrafica,
		ResourceTypeSlug: "clienti",
		Field:            "email",
		Trigger:          TriggerOnFirstSet,
		TimeKind:         TimeImmediate,
		Visibility:       "docenti",
		DefaultSubject:   "x",
		DefaultHTML:      "x",
	}, SaveInput{
		ResourceTypeSlug: "clienti",
		ResourceID:       "cliente-9",
		Data:             map[string]interface{}{"email": "a@example.com"},
	})

	assert.NoError(t, err)
	assert.Empty(t, queue.jobs)
}

func TestZeroIsARealValue(t *testing.T) {
	engine, queue := newTestEngine(nil)

	// Numeric 0 is a stored value, not "unset": flipping it to another
	// number is a change, and 0 as a before-state blocks ON_FIRST_SET.
	engine.RunAutoActionsOnSave(context.Background(), SaveInput{
		ResourceTypeSlug: "conferme-ordine",
		ResourceID:       "ordine-8",
		Data: map[string]interface{}{
			"email":            "rossi@example.com",
			"statoAvanzamento": float64(1),
		},
		PreviousData: map[string]interface{}{
			"email":            "rossi@example.com",
			"statoAvanzamento": float64(0),
		},
	})
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "ordine-avanzamento", queue.jobs[0].ActionID)
}
