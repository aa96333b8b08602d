package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Weekday is a school day. Sessions are only scheduled Monday through
// Friday; the ordering of the constants drives timetable sort order.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

var weekdayNames = map[Weekday]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
}

// ParseWeekday resolves a case-insensitive day name into a Weekday.
func ParseWeekday(raw string) (Weekday, error) {
	needle := strings.ToUpper(strings.TrimSpace(raw))
	for day, name := range weekdayNames {
		if name == needle {
			return day, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", raw)
}

// Valid reports whether the value is inside the closed Monday-Friday set.
func (d Weekday) Valid() bool {
	_, ok := weekdayNames[d]
	return ok
}

// String returns the canonical upper-case day name.
func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("WEEKDAY(%d)", int(d))
}

// MarshalJSON encodes the weekday as its canonical name.
func (d Weekday) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a day name into a Weekday.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	day, err := ParseWeekday(raw)
	if err != nil {
		return err
	}
	*d = day
	return nil
}
