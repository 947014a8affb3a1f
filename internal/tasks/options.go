package tasks

import (
	"time"

	"github.com/robfig/cron/v3"
)

// NextCronOccurrence resolves the next firing of a cron expression after
// a reference time. Dispatch tasks without an explicit due time are
// deferred to the next sweep boundary through this. An unparsable
// expression falls back to a fixed delay.
func NextCronOccurrence(expr string, after time.Time) time.Time {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return after.Add(5 * time.Minute)
	}
	return schedule.Next(after)
}
