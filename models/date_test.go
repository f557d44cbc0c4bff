package models_test

import (
	"encoding/json"
	"movfeed/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.Date
		wantErr  bool
	}{
		{
			name:     "plain date",
			input:    "2025-01-15",
			expected: models.NewDate(2025, time.January, 15),
		},
		{
			name:     "timestamp with negative offset keeps the written day",
			input:    "2025-01-15T23:30:00-06:00",
			expected: models.NewDate(2025, time.January, 15),
		},
		{
			name:     "postgres timestamp",
			input:    "2025-03-01 00:00:00+00",
			expected: models.NewDate(2025, time.March, 1),
		},
		{
			name:     "surrounding whitespace",
			input:    "  2024-12-31 ",
			expected: models.NewDate(2024, time.December, 31),
		},
		{
			name:     "written out month",
			input:    "Jan 12, 2025",
			expected: models.NewDate(2025, time.January, 12),
		},
		{
			name:     "slashes",
			input:    "2025/01/12",
			expected: models.NewDate(2025, time.January, 12),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "yesterday",
			wantErr: true,
		},
		{
			name:    "day out of range",
			input:   "2025-02-30",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := models.ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTodayUsesLocalCalendarDay(t *testing.T) {
	// 23:30 in Chiapas is already the next day in UTC
	zone := time.FixedZone("CST", -6*60*60)
	now := time.Date(2025, time.January, 15, 23, 30, 0, 0, zone)

	assert.Equal(t, "2025-01-15", models.Today(now).String())
}

func TestDateCompare(t *testing.T) {
	older := models.NewDate(2025, time.January, 10)
	newer := models.NewDate(2025, time.January, 12)

	assert.Equal(t, -1, older.Compare(newer))
	assert.Equal(t, 1, newer.Compare(older))
	assert.Equal(t, 0, newer.Compare(models.NewDate(2025, time.January, 12)))
}

func TestDateJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Date models.Date `json:"date"`
	}{Date: models.NewDate(2025, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-01-05"}`, string(data))

	var decoded struct {
		Date models.Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-07-04"}`), &decoded))
	assert.Equal(t, models.NewDate(2024, time.July, 4), decoded.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"not a date"}`), &decoded))
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Category
		ok       bool
	}{
		{"movement", models.CategoryMovement, true},
		{"movimiento", models.CategoryMovement, true},
		{"Media", models.CategoryMedia, true},
		{"medios", models.CategoryMedia, true},
		{"press", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			category, ok := models.ParseCategory(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestParsePostType(t *testing.T) {
	typ, ok := models.ParsePostType(" YouTube ")
	assert.True(t, ok)
	assert.Equal(t, models.TypeYouTube, typ)

	_, ok = models.ParsePostType("bluesky")
	assert.False(t, ok)
}
