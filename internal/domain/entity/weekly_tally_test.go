package entity

import (
	"testing"
	"time"
)

func TestWeekWindow(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	nextMonday := monday.AddDate(0, 0, 7)

	tests := []struct {
		name string
		now  time.Time
	}{
		{"monday_midnight", monday},
		{"wednesday_noon", time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)},
		{"sunday_last_second", time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := WeekWindow(tt.now, time.UTC)
			if !from.Equal(monday) || !to.Equal(nextMonday) {
				t.Errorf("WeekWindow(%s) = [%s, %s), want [%s, %s)", tt.now, from, to, monday, nextMonday)
			}
		})
	}
}

func TestWeekWindow_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// Sunday 22:00 UTC is already Monday 01:00 in UTC+3
	now := time.Date(2025, 3, 16, 22, 0, 0, 0, time.UTC)

	from, _ := WeekWindow(now, loc)
	want := time.Date(2025, 3, 17, 0, 0, 0, 0, loc)
	if !from.Equal(want) {
		t.Errorf("week start = %s, want %s", from, want)
	}
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	from, to := DayWindow(at, time.UTC)
	if want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("day start = %s, want %s", from, want)
	}
	if want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC); !to.Equal(want) {
		t.Errorf("day end = %s, want %s", to, want)
	}
}
