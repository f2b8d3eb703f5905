// Package rule holds the admission rules for doctors and appointments.
//
// Each check function is pure: it takes the submitted values plus the facts
// read from the store (inside the admission transaction) and returns every
// violated rule in check order. An empty result means the record may be
// written.
package rule

import (
	"strings"

	"clinic-scheduling/internal/domain/entity"
)

const (
	MsgShiftOrder     = "shift start must be before shift end"
	MsgSpecialty      = "specialty must be one of: Cardiology, Pediatrics, Oncology, Dermatology, General Practice"
	MsgNameRequired   = "first name and last name are required"
	MsgPhoneDigits    = "phone number must contain exactly 10 digits"
	MsgEmailExists    = "a doctor with this email already exists"
	MsgShiftMinLength = "shift must be at least 4 hours long"
)

// DoctorInput is a doctor admission request after parsing.
type DoctorInput struct {
	FirstName   string
	LastName    string
	Specialty   entity.Specialty
	PhoneNumber string
	Email       string
	ShiftStart  entity.ClockTime
	ShiftEnd    entity.ClockTime
}

// DoctorFacts are the store-dependent inputs to CheckDoctor.
type DoctorFacts struct {
	EmailTaken bool
}

// CheckDoctor runs every doctor admission rule.
func CheckDoctor(in DoctorInput, facts DoctorFacts) []entity.Violation {
	var v violations

	if in.ShiftStart >= in.ShiftEnd {
		v.add(entity.RuleShiftOrder, MsgShiftOrder)
	}
	if !in.Specialty.IsValid() {
		v.add(entity.RuleSpecialtyKnown, MsgSpecialty)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		v.add(entity.RuleNamePresent, MsgNameRequired)
	}
	if !isTenDigits(entity.NormalizePhone(in.PhoneNumber)) {
		v.add(entity.RulePhoneTenDigits, MsgPhoneDigits)
	}
	if facts.EmailTaken {
		v.add(entity.RuleEmailUnique, MsgEmailExists)
	}
	if in.ShiftEnd.Duration()-in.ShiftStart.Duration() < entity.MinShiftLength {
		v.add(entity.RuleShiftMinLength, MsgShiftMinLength)
	}

	return v
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type violations []entity.Violation

func (v *violations) add(r entity.Rule, msg string) {
	*v = append(*v, entity.Violation{Rule: r, Message: msg})
}
