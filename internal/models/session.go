package models

import "time"

// ConflictDimension identifies which occupancy rule a session collided with.
type ConflictDimension string

const (
	DimensionTeacher ConflictDimension = "TEACHER"
	DimensionRoom    ConflictDimension = "ROOM"
)

// Session represents a scheduled timetable entry binding a teacher, a
// classroom and a course to a weekday time interval. The interval is
// half-open: [StartTime, EndTime).
type Session struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Day       Weekday   `db:"day" json:"day"`
	StartTime TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   TimeOfDay `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SessionFilter describes query params for listing sessions.
type SessionFilter struct {
	TeacherID string
	RoomID    string
	CourseID  string
	Day       Weekday
	Page      int
	PageSize  int
}

// SessionConflict describes the persisted session that blocked a write.
type SessionConflict struct {
	SessionID string            `json:"session_id"`
	TeacherID string            `json:"teacher_id"`
	RoomID    string            `json:"room_id"`
	Day       Weekday           `json:"day"`
	StartTime TimeOfDay         `json:"start_time"`
	EndTime   TimeOfDay         `json:"end_time"`
	Dimension ConflictDimension `json:"dimension"`
}

// SessionConflictError is returned when a candidate session overlaps an
// existing one on the teacher or room dimension.
type SessionConflictError struct {
	Dimension ConflictDimension `json:"dimension"`
	Message   string            `json:"message"`
	Conflict  *SessionConflict  `json:"conflict,omitempty"`
}

// Error implements the error interface for conflict errors.
func (e *SessionConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
