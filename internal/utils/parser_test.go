package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(""))

	// Zero-ish values a user can deliberately store are not empty.
	assert.False(t, IsEmptyValue(float64(0)))
	assert.False(t, IsEmptyValue(false))
	assert.False(t, IsEmptyValue("0"))
	assert.False(t, IsEmptyValue(" "))
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "", NormalizeValue(nil))
	assert.Equal(t, "abc", NormalizeValue("abc"))
	assert.Equal(t, "true", NormalizeValue(true))
	assert.Equal(t, "42", NormalizeValue(float64(42)))
	assert.Equal(t, "3.5", NormalizeValue(float64(3.5)))
	assert.Equal(t, "7", NormalizeValue(7))

	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2026-01-02T15:04:05Z", NormalizeValue(ts))
}

func TestParseDateValue(t *testing.T) {
	want := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	got, ok := ParseDateValue("2026-03-20")
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = ParseDateValue("2026-03-20T09:30:00Z")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2026, 3, 20, 9, 30, 0, 0, time.UTC)))

	got, ok = ParseDateValue(want)
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = ParseDateValue(&want)
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	// Unix seconds from date pickers.
	got, ok = ParseDateValue(float64(want.Unix()))
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	_, ok = ParseDateValue("")
	assert.False(t, ok)
	_, ok = ParseDateValue("domani")
	assert.False(t, ok)
	_, ok = ParseDateValue(nil)
	assert.False(t, ok)
	var nilTime *time.Time
	_, ok = ParseDateValue(nilTime)
	assert.False(t, ok)
}

func TestFieldMapRoundTrip(t *testing.T) {
	data := map[string]interface{}{"titolo": "Corso", "posti": float64(12)}

	raw, err := FieldMapToJSON(data)
	require.NoError(t, err)

	back, err := JSONToFieldMap(raw)
	require.NoError(t, err)
	assert.Equal(t, data, back)

	empty, err := JSONToFieldMap(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
