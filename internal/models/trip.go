package models

import "time"

// Detection algorithm tags
const (
	AlgorithmTimelineMemory = "timeline_memory"
	AlgorithmHomeBased      = "home_based"
	AlgorithmOvernight      = "overnight"
	AlgorithmDistanceBased  = "distance_based"
)

// Algorithms lists the detection algorithms in their fixed execution order
var Algorithms = []string{
	AlgorithmTimelineMemory,
	AlgorithmHomeBased,
	AlgorithmOvernight,
	AlgorithmDistanceBased,
}

// Trip represents a detected trip (algorithm-generated)
type Trip struct {
	ID int64 `json:"id" db:"id"`

	// Temporal info
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
	IsMultiDay bool      `json:"is_multi_day" db:"is_multi_day"`

	// Trip characteristics
	TotalDistanceMeters  float64 `json:"total_distance_meters" db:"total_distance_meters"`
	PrimaryTransportMode string  `json:"primary_transport_mode,omitempty" db:"primary_transport_mode"`

	// Provenance: which algorithm produced this trip.
	// (start_time, end_time, detection_algorithm) is the dedup key.
	DetectionAlgorithm string `json:"detection_algorithm" db:"detection_algorithm"`

	// Ordered destinations and member segments
	DestinationPlaceIDs []string `json:"destination_place_ids,omitempty"`
	SegmentIDs          []int64  `json:"segment_ids,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DurationHours returns the trip duration in hours
func (t *Trip) DurationHours() float64 {
	return t.EndTime.Sub(t.StartTime).Hours()
}

// DistanceKm returns the trip distance in kilometers
func (t *Trip) DistanceKm() float64 {
	return t.TotalDistanceMeters / 1000
}

// AlgorithmStats holds the per-algorithm slice of a trip summary
type AlgorithmStats struct {
	Count      int64   `json:"count"`
	DistanceKm float64 `json:"distance_km"`
}

// DetectorRun reports the outcome of a single detector pass. Failed
// counts candidates that qualified but could not be persisted, so a
// caller can tell "0 found" apart from "0 persisted due to failures".
type DetectorRun struct {
	Algorithm  string `json:"algorithm"`
	Created    int    `json:"created"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
}

// DetectionSummary aggregates detection results across algorithms.
// Algorithms may claim overlapping segments into different trips, so
// TotalTrips is not a count of unique journeys.
type DetectionSummary struct {
	TotalTrips      int64                     `json:"total_trips"`
	MultiDayTrips   int64                     `json:"multi_day_trips"`
	TotalDistanceKm float64                   `json:"total_distance_km"`
	PerAlgorithm    map[string]AlgorithmStats `json:"per_algorithm"`
	Runs            []DetectorRun             `json:"runs,omitempty"`
}

// TripsResponse represents a paginated response of trips
type TripsResponse struct {
	Data       []Trip `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}
