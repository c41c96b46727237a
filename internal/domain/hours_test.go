package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupWeeklyHours(t *testing.T) {
	rows := []WeeklyHourRow{
		{Day: "Måndag", Open: "10:00", Close: "18:00"},
		{Day: "Tisdag", Open: "10:00", Close: "18:00"},
		{Day: "Onsdag", Closed: true},
		{Day: "Torsdag", Open: "10:00", Close: "18:00"},
		{Day: "Fredag", Open: "10:00", Close: "15:00"},
	}

	groups := GroupWeeklyHours(rows)
	require.Len(t, groups, 3)

	// Grouping is by exact hours string, first-seen order, and groups are not
	// required to be contiguous in the week.
	assert.Equal(t, []string{"Måndag", "Tisdag", "Torsdag"}, groups[0].Days)
	assert.Equal(t, "10:00-18:00", groups[0].Hours)
	assert.Equal(t, []string{"Onsdag"}, groups[1].Days)
	assert.Equal(t, ClosedSentinel, groups[1].Hours)
	assert.Equal(t, []string{"Fredag"}, groups[2].Days)
	assert.Equal(t, "10:00-15:00", groups[2].Hours)
}

func TestGroupWeeklyHours_Empty(t *testing.T) {
	assert.Nil(t, GroupWeeklyHours(nil))
}

func TestFormatDayRange(t *testing.T) {
	assert.Equal(t, "", FormatDayRange(nil))
	assert.Equal(t, "Måndag", FormatDayRange([]string{"Måndag"}))
	assert.Equal(t, "Måndag - Fredag", FormatDayRange([]string{"Måndag", "Tisdag", "Fredag"}))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "10:00 - 18:00", FormatHours("10:00-18:00"))
	assert.Equal(t, ClosedSentinel, FormatHours(ClosedSentinel))
	assert.Equal(t, ClosedSentinel, FormatHours(""))
}

func TestTodayStatus(t *testing.T) {
	weekdays := []OpeningHoursGroup{
		{Days: []string{"Måndag", "Tisdag", "Onsdag", "Torsdag", "Fredag"}, Hours: "10:00-18:00"},
		{Days: []string{"Lördag", "Söndag"}, Hours: ClosedSentinel},
	}

	// 2025-10-06 is a Monday.
	monday := func(hour, min int) time.Time {
		return time.Date(2025, 10, 6, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		groups    []OpeningHoursGroup
		now       time.Time
		wantKind  StatusKind
		wantLabel string
	}{
		{
			name:      "open mid-day",
			groups:    weekdays,
			now:       monday(12, 0),
			wantKind:  StatusOpen,
			wantLabel: "Stänger 18:00",
		},
		{
			name:      "closing soon inside 30 minutes",
			groups:    weekdays,
			now:       monday(17, 40),
			wantKind:  StatusClosingSoon,
			wantLabel: "18:00",
		},
		{
			name:      "before opening",
			groups:    weekdays,
			now:       monday(8, 0),
			wantKind:  StatusClosed,
			wantLabel: "Öppnar 10:00",
		},
		{
			name:      "after closing",
			groups:    weekdays,
			now:       monday(21, 0),
			wantKind:  StatusClosed,
			wantLabel: ClosedSentinel,
		},
		{
			name:   "closed today, next open day reported",
			groups: weekdays,
			// Saturday 2025-10-11 is closed; next opening is Monday 10:00.
			now:       time.Date(2025, 10, 11, 12, 0, 0, 0, time.UTC),
			wantKind:  StatusClosed,
			wantLabel: "Öppnar 10:00",
		},
		{
			name:      "no valid rows",
			groups:    []OpeningHoursGroup{{Days: []string{" "}, Hours: "10:00-18:00"}, {Days: []string{"Måndag"}, Hours: "-"}},
			now:       monday(12, 0),
			wantKind:  StatusClosed,
			wantLabel: ClosedSentinel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TodayStatus(tt.groups, tt.now)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}
