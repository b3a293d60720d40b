package models

import "time"

// TimelineSegment represents one atomic interval of the imported location
// history. Exactly one payload field is set, matching Type.
type TimelineSegment struct {
	ID int64 `json:"id" db:"id"`

	// Segment classification
	Type string `json:"type" db:"segment_type"` // visit, activity, path, memory

	// Temporal info
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	// Type-specific payload
	Visit    *Visit      `json:"visit,omitempty"`
	Activity *Activity   `json:"activity,omitempty"`
	Memory   *Memory     `json:"memory,omitempty"`
	Path     []PathPoint `json:"path,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// SegmentType constants
const (
	SegmentTypeVisit    = "visit"
	SegmentTypeActivity = "activity"
	SegmentTypePath     = "path"
	SegmentTypeMemory   = "memory"
)

// Duration returns the segment duration
func (s *TimelineSegment) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Coordinate represents a geographic point in decimal degrees
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Visit represents a stay at a specific place
type Visit struct {
	PlaceID      string      `json:"place_id,omitempty" db:"place_id"`
	SemanticType string      `json:"semantic_type,omitempty" db:"semantic_type"` // HOME, WORK, UNKNOWN, ...
	Location     *Coordinate `json:"location,omitempty"`
	Probability  float64     `json:"probability" db:"probability"` // 0~1
}

// Activity represents a movement segment between two locations
type Activity struct {
	StartLocation  *Coordinate `json:"start_location,omitempty"`
	EndLocation    *Coordinate `json:"end_location,omitempty"`
	DistanceMeters float64     `json:"distance_meters" db:"distance_meters"`
	ActivityType   string      `json:"activity_type,omitempty" db:"activity_type"` // WALKING, IN_PASSENGER_VEHICLE, ...
	Probability    float64     `json:"probability" db:"probability"`               // 0~1
}

// Memory represents a provider-identified trip from timeline memory
type Memory struct {
	DistanceFromOriginKm float64  `json:"distance_from_origin_km" db:"distance_from_origin_km"`
	DestinationPlaceIDs  []string `json:"destination_place_ids,omitempty"`
}

// PathPoint represents a single raw GPS point in a timeline path
type PathPoint struct {
	Point Coordinate `json:"point"`
	Time  time.Time  `json:"time"`
}
