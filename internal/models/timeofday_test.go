package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, raw string) TimeOfDay {
	t.Helper()
	parsed, err := ParseTimeOfDay(raw)
	require.NoError(t, err)
	return parsed
}

func TestParseTimeOfDay(t *testing.T) {
	assert.Equal(t, TimeOfDay(0), mustTime(t, "00:00"))
	assert.Equal(t, TimeOfDay(8*60), mustTime(t, "08:00"))
	assert.Equal(t, TimeOfDay(13*60+45), mustTime(t, "13:45"))
	assert.Equal(t, TimeOfDay(23*60+59), mustTime(t, "23:59"))

	// Seconds from TIME columns are truncated.
	assert.Equal(t, TimeOfDay(9*60+30), mustTime(t, "09:30:00"))

	for _, raw := range []string{"24:00", "12:60", "-1:00", "noon", "", "12:34xx", "12:34 pm", "08:30:61", "1:2:3:4"} {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, raw)
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "08:05", mustTime(t, "8:5").String())
	assert.Equal(t, "23:59", mustTime(t, "23:59").String())
}

func TestTimeOfDayJSON(t *testing.T) {
	data, err := json.Marshal(mustTime(t, "08:30"))
	require.NoError(t, err)
	assert.Equal(t, `"08:30"`, string(data))

	var parsed TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"14:15"`), &parsed))
	assert.Equal(t, TimeOfDay(14*60+15), parsed)
}

func TestTimeOfDayScan(t *testing.T) {
	var parsed TimeOfDay

	require.NoError(t, parsed.Scan(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeOfDay(10*60+30), parsed)

	require.NoError(t, parsed.Scan([]byte("07:45:00")))
	assert.Equal(t, TimeOfDay(7*60+45), parsed)

	require.NoError(t, parsed.Scan("16:00"))
	assert.Equal(t, TimeOfDay(16*60), parsed)

	assert.Error(t, parsed.Scan(42))
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"identical", "08:00", "09:00", "08:00", "09:00", true},
		{"partial overlap", "08:00", "09:00", "08:30", "09:30", true},
		{"contained", "08:00", "10:00", "08:30", "09:00", true},
		{"touching end to start", "08:00", "09:00", "09:00", "10:00", false},
		{"touching start to end", "09:00", "10:00", "08:00", "09:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
		{"one minute overlap", "08:00", "09:01", "09:00", "10:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(mustTime(t, tc.aStart), mustTime(t, tc.aEnd), mustTime(t, tc.bStart), mustTime(t, tc.bEnd))
			assert.Equal(t, tc.want, got)

			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(mustTime(t, tc.bStart), mustTime(t, tc.bEnd), mustTime(t, tc.aStart), mustTime(t, tc.aEnd)))
		})
	}
}
