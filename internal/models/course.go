package models

import "time"

// Course levels as used by the institution.
const (
	LevelPrimary   = "PRIMARIA"
	LevelSecondary = "SECUNDARIA"
)

// Course represents a subject taught at the school. A course may appear in
// any number of timetable sessions.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Level       string    `db:"level" json:"level"`
	Grade       int       `db:"grade" json:"grade"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	Color       *string   `db:"color" json:"color,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures filtering options for listing courses.
type CourseFilter struct {
	Search    string
	Level     string
	Grade     *int
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
