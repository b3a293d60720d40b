package models

// SegmentFilter represents filter parameters for querying timeline segments
type SegmentFilter struct {
	Type      string `form:"type"`      // visit, activity, path, memory
	StartTime int64  `form:"startTime"` // Unix timestamp (inclusive)
	EndTime   int64  `form:"endTime"`   // Unix timestamp (inclusive)
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// TripFilter represents filter parameters for querying trips
type TripFilter struct {
	StartTime   int64   `form:"startTime"`   // Unix timestamp
	EndTime     int64   `form:"endTime"`     // Unix timestamp
	Algorithm   string  `form:"algorithm"`   // timeline_memory, home_based, overnight, distance_based
	MultiDay    *bool   `form:"multiDay"`    // filter on the multi-day flag when set
	MinDistance float64 `form:"minDistance"` // Meters
	Page        int     `form:"page"`
	PageSize    int     `form:"pageSize"`
}
