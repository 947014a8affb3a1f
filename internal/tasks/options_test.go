package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextCronOccurrence(t *testing.T) {
	after := time.Date(2026, 3, 10, 12, 3, 0, 0, time.UTC)

	next := NextCronOccurrence("*/5 * * * *", after)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 5, 0, 0, time.UTC), next)

	next = NextCronOccurrence("0 8 * * *", after)
	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), next)

	// Unparsable expressions fall back to a fixed delay instead of
	// scheduling at an arbitrary time.
	next = NextCronOccurrence("ogni tanto", after)
	assert.Equal(t, after.Add(5*time.Minute), next)
}
