package entity

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	at := func(hhmm string) time.Time {
		tm, err := time.Parse("2006-01-02 15:04", "2025-03-10 "+hhmm)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", hhmm, err)
		}
		return tm
	}

	tests := []struct {
		name   string
		s1, e1 string
		s2, e2 string
		want   bool
	}{
		{"partial_overlap", "10:00", "10:30", "10:15", "10:45", true},
		{"touching_end_to_start", "10:00", "10:30", "10:30", "11:00", false},
		{"touching_start_to_end", "10:30", "11:00", "10:00", "10:30", false},
		{"contained", "10:00", "11:00", "10:15", "10:30", true},
		{"identical", "10:00", "10:30", "10:00", "10:30", true},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(at(tt.s1), at(tt.e1), at(tt.s2), at(tt.e2))
			if got != tt.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
		})
	}
}

func TestValidDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    bool
	}{
		{15, true},
		{30, true},
		{90, true},
		{0, false},
		{-15, false},
		{20, false},
		{7, false},
	}

	for _, tt := range tests {
		if got := ValidDuration(tt.minutes); got != tt.want {
			t.Errorf("ValidDuration(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTallyAppointments(t *testing.T) {
	appointments := []Appointment{
		{Status: AppointmentStatusScheduled, DurationMinutes: 30},
		{Status: AppointmentStatusScheduled, DurationMinutes: 45},
		{Status: AppointmentStatusCompleted, DurationMinutes: 60},
		{Status: AppointmentStatusCompleted, DurationMinutes: 15},
		{Status: AppointmentStatusCancelled, DurationMinutes: 15},
	}

	got := TallyAppointments(appointments)
	want := WeeklyTally{ScheduledMinutes: 75, CompletedCount: 2, CancelledCount: 1}
	if got != want {
		t.Errorf("TallyAppointments() = %+v, want %+v", got, want)
	}

	if empty := TallyAppointments(nil); empty != (WeeklyTally{}) {
		t.Errorf("TallyAppointments(nil) = %+v, want zero", empty)
	}
}
