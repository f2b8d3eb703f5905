package entity

// Rule identifies one business rule checked during admission.
type Rule string

// Doctor admission rules
const (
	RuleShiftOrder     Rule = "shift_order"
	RuleSpecialtyKnown Rule = "specialty_known"
	RuleNamePresent    Rule = "name_present"
	RulePhoneTenDigits Rule = "phone_ten_digits"
	RuleEmailUnique    Rule = "email_unique"
	RuleShiftMinLength Rule = "shift_min_length"
)

// Appointment admission rules
const (
	RuleDoctorExists   Rule = "doctor_exists"
	RuleLeadTime       Rule = "lead_time"
	RuleDurationStep   Rule = "duration_step"
	RuleWithinShift    Rule = "within_shift"
	RuleNoOverlap      Rule = "no_overlap"
	RuleReasonPresent  Rule = "reason_present"
	RulePatientPresent Rule = "patient_present"
)

// Violation is a failed rule together with its user-facing message.
type Violation struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}
