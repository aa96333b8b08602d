package models

import "time"

// DashboardSummary aggregates headline counts for the admin landing page.
type DashboardSummary struct {
	ActiveTeachers int       `json:"active_teachers"`
	ActiveRooms    int       `json:"active_rooms"`
	ActiveCourses  int       `json:"active_courses"`
	TotalSessions  int       `json:"total_sessions"`
	Today          Weekday   `json:"today,omitempty"`
	TodaySessions  int       `json:"today_sessions"`
	GeneratedAt    time.Time `json:"generated_at"`
}
