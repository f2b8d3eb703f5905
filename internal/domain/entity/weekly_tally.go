package entity

import "time"

// WeeklyTally is the per-specialty aggregate over one ISO week.
type WeeklyTally struct {
	ScheduledMinutes int64
	CompletedCount   int64
	CancelledCount   int64
}

// Add folds one appointment into the tally.
func (t *WeeklyTally) Add(a *Appointment) {
	switch a.Status {
	case AppointmentStatusScheduled:
		t.ScheduledMinutes += int64(a.DurationMinutes)
	case AppointmentStatusCompleted:
		t.CompletedCount++
	case AppointmentStatusCancelled:
		t.CancelledCount++
	}
}

// TallyAppointments computes every counter of a WeeklyTally in one pass.
func TallyAppointments(appointments []Appointment) WeeklyTally {
	var tally WeeklyTally
	for i := range appointments {
		tally.Add(&appointments[i])
	}
	return tally
}

// WeekWindow returns the ISO week [Monday 00:00, next Monday 00:00) that
// contains now, evaluated in loc.
func WeekWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	// time.Weekday has Sunday = 0; shift so Monday = 0
	offset := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 7)
}

// DayWindow returns the calendar day [00:00, next 00:00) containing t in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
