package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Specialty is the fixed set of clinical specialties a doctor can hold.
type Specialty string

const (
	SpecialtyCardiology      Specialty = "Cardiology"
	SpecialtyPediatrics      Specialty = "Pediatrics"
	SpecialtyOncology        Specialty = "Oncology"
	SpecialtyDermatology     Specialty = "Dermatology"
	SpecialtyGeneralPractice Specialty = "General Practice"
)

// Specialties lists every valid specialty in display order.
var Specialties = []Specialty{
	SpecialtyCardiology,
	SpecialtyPediatrics,
	SpecialtyOncology,
	SpecialtyDermatology,
	SpecialtyGeneralPractice,
}

func (s Specialty) IsValid() bool {
	for _, known := range Specialties {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSpecialty matches s against the known specialties ignoring case and
// surrounding whitespace. Unknown names are returned unchanged with ok=false.
func ParseSpecialty(s string) (Specialty, bool) {
	trimmed := strings.TrimSpace(s)
	for _, known := range Specialties {
		if strings.EqualFold(trimmed, string(known)) {
			return known, true
		}
	}
	return Specialty(trimmed), false
}

// MinShiftLength is the shortest shift a doctor may be registered with.
const MinShiftLength = 4 * time.Hour

// Doctor is a registered practitioner with a daily shift window
type Doctor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName   string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Specialty   Specialty `gorm:"type:varchar(50);not null;index" json:"specialty"`
	PhoneNumber string    `gorm:"type:char(10);not null" json:"phone_number"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex:idx_doctors_email;not null" json:"email"`
	ShiftStart  ClockTime `gorm:"type:time;not null" json:"shift_start"`
	ShiftEnd    ClockTime `gorm:"type:time;not null" json:"shift_end"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// FullName returns "First Last".
func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Covers reports whether [start, end) lies within the doctor's shift.
func (d *Doctor) Covers(start, end ClockTime) bool {
	return start >= d.ShiftStart && end <= d.ShiftEnd
}

// phoneSeparators are stripped before a phone number is checked.
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// NormalizePhone strips separator characters from a phone number.
func NormalizePhone(phone string) string {
	return phoneSeparators.Replace(strings.TrimSpace(phone))
}

// NormalizeEmail is the form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
