package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("monday")
	require.NoError(t, err)
	assert.Equal(t, Monday, day)

	day, err = ParseWeekday(" FRIDAY ")
	require.NoError(t, err)
	assert.Equal(t, Friday, day)

	for _, raw := range []string{"SATURDAY", "SUNDAY", "LUNDI", ""} {
		_, err := ParseWeekday(raw)
		assert.Error(t, err, raw)
	}
}

func TestWeekdayOrdering(t *testing.T) {
	assert.True(t, Monday < Tuesday)
	assert.True(t, Thursday < Friday)
	assert.Equal(t, 1, int(Monday))
	assert.Equal(t, 5, int(Friday))
}

func TestWeekdayJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Wednesday)
	require.NoError(t, err)
	assert.Equal(t, `"WEDNESDAY"`, string(data))

	var day Weekday
	require.NoError(t, json.Unmarshal([]byte(`"tuesday"`), &day))
	assert.Equal(t, Tuesday, day)

	assert.Error(t, json.Unmarshal([]byte(`"SUNDAY"`), &day))

	_, err = json.Marshal(Weekday(0))
	assert.Error(t, err)
}
