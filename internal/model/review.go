package model

import "time"

// Review is a text record linking a User and a Place.
// This is a pure domain model with no database-specific dependencies or tags.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlaceID   string    `json:"place_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewProtectedFields lists the attributes an update payload can never change.
var ReviewProtectedFields = map[string]struct{}{
	"id":         {},
	"user_id":    {},
	"place_id":   {},
	"created_at": {},
	"updated_at": {},
}

// IsProtected reports whether key names an immutable review attribute.
func IsProtected(key string) bool {
	_, ok := ReviewProtectedFields[key]
	return ok
}
