package visibility

// Per-event-type notification preferences for this deployment. Keyed by
// evento type slug.

func intPtr(n int) *int { return &n }

var preferences = map[string]Preference{
	"appuntamenti": {
		Enabled:         true,
		Base:            BaseStartAt,
		Mode:            ModeFinestra,
		BeforeDays:      4,
		AfterDays:       4,
		IncludePast:     true,
		PastDays:        2,
		ExcludeStatuses: []string{"annullato", "disdetto"},
		RequireFields:   []string{"titolo"},
	},
	"scadenze": {
		Enabled:       true,
		Base:          BaseEndAt,
		Mode:          ModeSoloPrima,
		BeforeDays:    7,
		StopAfterDays: intPtr(0),
		RequireFields: []string{"titolo", "cliente"},
	},
}

// PreferenceForSlug returns the window preference configured for one
// evento type. A missing preference means the type never shows up in the
// notifications feed.
func PreferenceForSlug(slug string) (Preference, bool) {
	pref, ok := preferences[slug]
	return pref, ok
}
