package models

import "time"

// UserProfile holds the user's anchor locations (home, work)
type UserProfile struct {
	ID           int64       `json:"id" db:"id"`
	HomePlaceID  string      `json:"home_place_id,omitempty" db:"home_place_id"`
	HomeLocation *Coordinate `json:"home_location,omitempty"`
	WorkPlaceID  string      `json:"work_place_id,omitempty" db:"work_place_id"`
	WorkLocation *Coordinate `json:"work_location,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// HomeReference is the resolved notion of "home" for one detector pass.
// Exactly one comparison mode is active: place-identifier equality when
// a place id is configured, otherwise a distance threshold around the
// home coordinate.
type HomeReference struct {
	PlaceID  string
	Location *Coordinate
}

// IsSet reports whether any home reference is configured
func (h HomeReference) IsSet() bool {
	return h.PlaceID != "" || h.Location != nil
}

// UseDistance reports whether home comparison uses the coordinate
// threshold instead of place-id equality
func (h HomeReference) UseDistance() bool {
	return h.PlaceID == "" && h.Location != nil
}
