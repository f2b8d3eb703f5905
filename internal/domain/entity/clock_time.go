package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ClockTime is a time of day stored as an offset from midnight.
type ClockTime time.Duration

const clockLayout = "15:04"

// ParseClockTime accepts HH:MM or HH:MM:SS.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	layouts := []string{clockLayout, clockLayout + ":05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, use HH:MM", s)
}

// MustClockTime is ParseClockTime for constants and tests.
func MustClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns the wall-clock time of day of t in its own location.
func ClockOf(t time.Time) ClockTime {
	h, m, s := t.Clock()
	return ClockTime(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func (c ClockTime) Duration() time.Duration {
	return time.Duration(c)
}

func (c ClockTime) String() string {
	d := time.Duration(c)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if sec := int((d % time.Minute) / time.Second); sec != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer for postgres TIME columns.
func (c ClockTime) Value() (driver.Value, error) {
	d := time.Duration(c)
	return fmt.Sprintf("%02d:%02d:%02d", int(d/time.Hour), int((d%time.Hour)/time.Minute), int((d%time.Minute)/time.Second)), nil
}

// Scan implements sql.Scanner.
func (c *ClockTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = 0
		return nil
	case time.Time:
		*c = ClockOf(v)
		return nil
	case []byte:
		return c.scanString(string(v))
	case string:
		return c.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", value)
	}
}

func (c *ClockTime) scanString(s string) error {
	// postgres may append fractional seconds
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
