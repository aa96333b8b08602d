package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID           string    `db:"id" json:"id"`
	DNI          string    `db:"dni" json:"dni"`
	FirstName    string    `db:"first_name" json:"first_name"`
	PaternalName string    `db:"paternal_name" json:"paternal_name"`
	MaternalName *string   `db:"maternal_name" json:"maternal_name,omitempty"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName concatenates the teacher's name components for display.
func (t Teacher) FullName() string {
	name := t.FirstName + " " + t.PaternalName
	if t.MaternalName != nil && *t.MaternalName != "" {
		name += " " + *t.MaternalName
	}
	return name
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
