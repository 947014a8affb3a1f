package visibility

// The visibility-window engine decides whether an evento-style record
// should currently be shown in the notifications feed, and whether it is
// upcoming or already past. It is a pure function of (record, preference,
// now); any unresolvable input makes the record invisible, never an error.

import (
	"time"

	"gestionale/internal/utils"
)

// Mode selects how the window around the base date behaves.
type Mode string

const (
	// ModeSempre shows the item regardless of date.
	ModeSempre Mode = "SEMPRE"
	// ModeFinestra shows the item inside [base-beforeDays, base+afterDays].
	ModeFinestra Mode = "FINESTRA"
	// ModeSoloPrima shows the item only before the base date.
	ModeSoloPrima Mode = "SOLO_PRIMA"
	// ModeSoloDopo shows the item only after the base date.
	ModeSoloDopo Mode = "SOLO_DOPO"
)

// BaseField selects which record date anchors the window.
type BaseField string

const (
	BaseStartAt BaseField = "startAt"
	BaseEndAt   BaseField = "endAt"
)

type State string

const (
	StateUpcoming State = "UPCOMING"
	StatePast     State = "PAST"
)

// Preference is the per-event-type window configuration. Config-as-code,
// never persisted per record.
type Preference struct {
	Enabled         bool
	Base            BaseField
	Mode            Mode
	BeforeDays      int
	AfterDays       int
	StopAfterDays   *int
	IncludePast     bool
	PastDays        int
	ExcludeStatuses []string
	RequireFields   []string
}

// Record is the slice of an evento record the engine needs.
type Record struct {
	StartAt *time.Time
	EndAt   *time.Time
	Data    map[string]interface{}
}

type Result struct {
	Visible bool
	State   State
}

func day(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// IsVisibleByPreferencesNow evaluates one record against one preference.
func IsVisibleByPreferencesNow(record Record, pref Preference, now time.Time) Result {
	if !pref.Enabled {
		return Result{}
	}

	if status, ok := record.Data["stato"].(string); ok {
		for _, excluded := range pref.ExcludeStatuses {
			if status == excluded {
				return Result{}
			}
		}
	}

	for _, field := range pref.RequireFields {
		if utils.IsEmptyValue(record.Data[field]) {
			return Result{}
		}
	}

	baseDate, ok := resolveBaseDate(record, pref.Base)
	if !ok {
		return Result{}
	}

	effectiveAfterDays := pref.AfterDays
	if pref.StopAfterDays != nil && *pref.StopAfterDays < effectiveAfterDays {
		effectiveAfterDays = *pref.StopAfterDays
	}

	past := !now.Before(baseDate)

	switch pref.Mode {
	case ModeSempre:
		state := StateUpcoming
		if past {
			state = StatePast
		}
		return Result{Visible: true, State: state}

	case ModeSoloPrima:
		if now.Before(baseDate.Add(-day(pref.BeforeDays))) || past {
			return Result{}
		}
		return Result{Visible: true, State: StateUpcoming}

	case ModeSoloDopo:
		if !now.After(baseDate) || now.After(baseDate.Add(day(effectiveAfterDays))) {
			return Result{}
		}
		return Result{Visible: true, State: StatePast}

	default: // FINESTRA, inclusive on both ends
		start := baseDate.Add(-day(pref.BeforeDays))
		end := baseDate.Add(day(effectiveAfterDays))
		if now.Before(start) || now.After(end) {
			return Result{}
		}
		if !past {
			return Result{Visible: true, State: StateUpcoming}
		}
		// Once past, includePast additionally caps visibility at
		// base+pastDays; otherwise the window end alone decides.
		if pref.IncludePast && now.After(baseDate.Add(day(pref.PastDays))) {
			return Result{}
		}
		return Result{Visible: true, State: StatePast}
	}
}

func resolveBaseDate(record Record, base BaseField) (time.Time, bool) {
	var primary, fallback *time.Time
	switch base {
	case BaseEndAt:
		primary, fallback = record.EndAt, record.StartAt
	default:
		primary, fallback = record.StartAt, record.EndAt
	}
	if primary != nil {
		return *primary, true
	}
	if fallback != nil {
		return *fallback, true
	}
	return time.Time{}, false
}
