package rule

import (
	"strings"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

const (
	MsgDoctorMissing   = "doctor does not exist"
	MsgLeadTime        = "appointment must be scheduled at least 30 minutes in advance"
	MsgDuration        = "duration must be a positive multiple of 15 minutes"
	MsgOutsideShift    = "appointment must fall within the doctor's shift"
	MsgConflict        = "appointment conflicts with an existing appointment"
	MsgReasonRequired  = "reason for visit is required"
	MsgPatientRequired = "patient name is required"
)

// AppointmentInput is an appointment admission request after parsing.
type AppointmentInput struct {
	PatientName     string
	DoctorID        uuid.UUID
	AppointmentTime time.Time
	ReasonForVisit  string
	DurationMinutes int
}

// AppointmentFacts are the store-dependent inputs to CheckAppointment.
type AppointmentFacts struct {
	// Doctor is nil when the referenced doctor does not exist.
	Doctor *entity.Doctor
	// Booked holds the doctor's scheduled appointments on the same calendar day.
	Booked []entity.Appointment
	// Now is the admission instant.
	Now time.Time
	// Location anchors calendar days and shift times.
	Location *time.Location
}

// CheckAppointment runs every appointment admission rule.
//
// When the doctor is missing the shift and overlap checks are skipped, as
// they have nothing to be evaluated against. They are also skipped for a
// non-positive duration, which does not describe an interval.
func CheckAppointment(in AppointmentInput, facts AppointmentFacts) []entity.Violation {
	var v violations

	if facts.Doctor == nil {
		v.add(entity.RuleDoctorExists, MsgDoctorMissing)
	}
	if in.AppointmentTime.Before(facts.Now.Add(entity.MinLeadTime)) {
		v.add(entity.RuleLeadTime, MsgLeadTime)
	}
	if !entity.ValidDuration(in.DurationMinutes) {
		v.add(entity.RuleDurationStep, MsgDuration)
	}

	if facts.Doctor != nil && in.DurationMinutes > 0 {
		if !WithinShift(facts.Doctor, in.AppointmentTime, in.DurationMinutes, facts.Location) {
			v.add(entity.RuleWithinShift, MsgOutsideShift)
		}
		end := in.AppointmentTime.Add(time.Duration(in.DurationMinutes) * time.Minute)
		if Conflicts(facts.Booked, in.AppointmentTime, end) {
			v.add(entity.RuleNoOverlap, MsgConflict)
		}
	}

	if strings.TrimSpace(in.ReasonForVisit) == "" {
		v.add(entity.RuleReasonPresent, MsgReasonRequired)
	}
	if strings.TrimSpace(in.PatientName) == "" {
		v.add(entity.RulePatientPresent, MsgPatientRequired)
	}

	return v
}

// WithinShift reports whether an appointment starting at t and lasting
// minutes fits in the doctor's shift, comparing wall-clock times in loc.
// An appointment that runs past midnight never fits.
func WithinShift(d *entity.Doctor, t time.Time, minutes int, loc *time.Location) bool {
	start := entity.ClockOf(t.In(loc))
	end := start + entity.ClockTime(time.Duration(minutes)*time.Minute)
	return d.Covers(start, end)
}

// Conflicts reports whether any scheduled appointment overlaps [start, end).
func Conflicts(booked []entity.Appointment, start, end time.Time) bool {
	for i := range booked {
		if booked[i].IsScheduled() && booked[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}
