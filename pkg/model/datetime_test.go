package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatetimeLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-01T12:00:00Z":       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		"2024-01-01T12:00:00+08:00":  time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC),
		"2024-01-01T12:00:00":        time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local),
		"2024-01-01T12:00:00.123456": time.Date(2024, 1, 1, 12, 0, 0, 123456000, time.Local),
		"2024-01-01 12:00:00":        time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local),
	}
	for raw, want := range cases {
		got, ok := Datetime(raw).Time()
		require.True(t, ok, raw)
		assert.True(t, want.Equal(got), raw)
	}

	_, ok := Datetime("yesterday").Time()
	assert.False(t, ok)
}

func TestSecurityLogZonelessTimestamp(t *testing.T) {
	var logs []SecurityLog
	err := json.Unmarshal([]byte(`[
		{"id":1,"operate_datetime":"2024-01-01T12:00:00"},
		{"id":2,"operate_datetime":null},
		{"id":3,"operate_datetime":"not a time"}
	]`), &logs)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, Datetime("2024-01-01T12:00:00"), logs[0].OperateDatetime)
	assert.Empty(t, logs[1].OperateDatetime)
	assert.Equal(t, Datetime("not a time"), logs[2].OperateDatetime)
}
