package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func finestraPref() Preference {
	return Preference{
		Enabled:    true,
		Base:       BaseStartAt,
		Mode:       ModeFinestra,
		BeforeDays: 4,
		AfterDays:  4,
	}
}

func recordAt(start time.Time) Record {
	return Record{
		StartAt: timePtr(start),
		Data:    map[string]interface{}{"titolo": "Appuntamento"},
	}
}

func TestFinestraInclusiveBounds(t *testing.T) {
	pref := finestraPref()
	record := recordAt(base)

	tests := []struct {
		name    string
		now     time.Time
		visible bool
		state   State
	}{
		{"exactly at window start", base.Add(-4 * 24 * time.Hour), true, StateUpcoming},
		{"just before window start", base.Add(-4*24*time.Hour - time.Millisecond), false, ""},
		{"inside the window, before base", base.Add(-time.Hour), true, StateUpcoming},
		{"exactly at base", base, true, StatePast},
		{"inside the window, after base", base.Add(24 * time.Hour), true, StatePast},
		{"exactly at window end", base.Add(4 * 24 * time.Hour), true, StatePast},
		{"just after window end", base.Add(4*24*time.Hour + time.Millisecond), false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsVisibleByPreferencesNow(record, pref, tt.now)
			assert.Equal(t, tt.visible, result.Visible)
			if tt.visible {
				assert.Equal(t, tt.state, result.State)
			}
		})
	}
}

func TestFinestraIncludePastCap(t *testing.T) {
	pref := finestraPref()
	pref.IncludePast = true
	pref.PastDays = 2
	record := recordAt(base)

	// Past items stay visible only up to base+pastDays, even though the
	// raw window extends further.
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base.Add(2*24*time.Hour)).Visible)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base.Add(2*24*time.Hour+time.Minute)).Visible)
	// Upcoming side is unaffected.
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base.Add(-24*time.Hour)).Visible)
}

func TestStopAfterDaysTightensWindow(t *testing.T) {
	pref := finestraPref()
	pref.StopAfterDays = intPtr(1)
	record := recordAt(base)

	assert.True(t, IsVisibleByPreferencesNow(record, pref, base.Add(24*time.Hour)).Visible)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base.Add(2*24*time.Hour)).Visible)

	// A stop larger than afterDays never widens the window.
	pref.StopAfterDays = intPtr(10)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base.Add(5*24*time.Hour)).Visible)
}

func TestModeSempre(t *testing.T) {
	pref := Preference{Enabled: true, Base: BaseStartAt, Mode: ModeSempre}
	record := recordAt(base)

	upcoming := IsVisibleByPreferencesNow(record, pref, base.Add(-365*24*time.Hour))
	assert.True(t, upcoming.Visible)
	assert.Equal(t, StateUpcoming, upcoming.State)

	past := IsVisibleByPreferencesNow(record, pref, base.Add(365*24*time.Hour))
	assert.True(t, past.Visible)
	assert.Equal(t, StatePast, past.State)
}

func TestModeSoloPrima(t *testing.T) {
	pref := Preference{Enabled: true, Base: BaseStartAt, Mode: ModeSoloPrima, BeforeDays: 7}
	record := recordAt(base)

	// Visible in [base-beforeDays, base), never at or after base.
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base.Add(-7*24*time.Hour)).Visible)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base.Add(-8*24*time.Hour)).Visible)
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base.Add(-time.Second)).Visible)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base).Visible)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base.Add(time.Second)).Visible)
}

func TestModeSoloDopo(t *testing.T) {
	pref := Preference{Enabled: true, Base: BaseStartAt, Mode: ModeSoloDopo, AfterDays: 3}
	record := recordAt(base)

	// Visible in (base, base+afterDays], always as PAST.
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base).Visible)
	result := IsVisibleByPreferencesNow(record, pref, base.Add(time.Second))
	assert.True(t, result.Visible)
	assert.Equal(t, StatePast, result.State)
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base.Add(3*24*time.Hour)).Visible)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base.Add(3*24*time.Hour+time.Second)).Visible)
}

func TestDisabledPreferenceHidesEverything(t *testing.T) {
	pref := finestraPref()
	pref.Enabled = false
	assert.False(t, IsVisibleByPreferencesNow(recordAt(base), pref, base).Visible)
}

func TestExcludeStatuses(t *testing.T) {
	pref := finestraPref()
	pref.ExcludeStatuses = []string{"annullato", "disdetto"}

	record := recordAt(base)
	record.Data["stato"] = "annullato"
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base).Visible)

	record.Data["stato"] = "confermato"
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base).Visible)
}

func TestRequireFields(t *testing.T) {
	pref := finestraPref()
	pref.RequireFields = []string{"titolo", "cliente"}

	record := recordAt(base)
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base).Visible, "cliente missing")

	record.Data["cliente"] = ""
	assert.False(t, IsVisibleByPreferencesNow(record, pref, base).Visible, "empty string is unset")

	record.Data["cliente"] = "Rossi SRL"
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base).Visible)

	// Numeric zero is a real value.
	pref.RequireFields = []string{"importo"}
	record.Data["importo"] = float64(0)
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base).Visible)
}

func TestBaseDateFallback(t *testing.T) {
	pref := finestraPref()

	// No dates at all: invisible.
	assert.False(t, IsVisibleByPreferencesNow(Record{Data: map[string]interface{}{}}, pref, base).Visible)

	// startAt missing, endAt anchors the window.
	record := Record{EndAt: timePtr(base), Data: map[string]interface{}{}}
	assert.True(t, IsVisibleByPreferencesNow(record, pref, base).Visible)

	// endAt-based preference prefers endAt over startAt.
	endPref := pref
	endPref.Base = BaseEndAt
	record = Record{
		StartAt: timePtr(base.Add(-30 * 24 * time.Hour)),
		EndAt:   timePtr(base),
		Data:    map[string]interface{}{},
	}
	assert.True(t, IsVisibleByPreferencesNow(record, endPref, base).Visible)
}

func TestDeploymentPreferences(t *testing.T) {
	appuntamenti, ok := PreferenceForSlug("appuntamenti")
	assert.True(t, ok)
	assert.Equal(t, ModeFinestra, appuntamenti.Mode)
	assert.True(t, appuntamenti.IncludePast)

	scadenze, ok := PreferenceForSlug("scadenze")
	assert.True(t, ok)
	assert.Equal(t, ModeSoloPrima, scadenze.Mode)
	assert.Equal(t, BaseEndAt, scadenze.Base)

	_, ok = PreferenceForSlug("riunioni")
	assert.False(t, ok)
}
