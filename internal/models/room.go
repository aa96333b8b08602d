package models

import "time"

// Room represents a classroom record.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Floor     *int      `db:"floor" json:"floor,omitempty"`
	Building  *string   `db:"building" json:"building,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Search    string
	Active    *bool
	Building  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
