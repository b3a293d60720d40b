package service

import (
	"time"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/config"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/detection"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

// DetectionService handles business logic for trip detection runs
type DetectionService struct {
	detector *detection.Detector
	defaults config.DetectionDefaults
}

// NewDetectionService creates a new detection service
func NewDetectionService(detector *detection.Detector, defaults config.DetectionDefaults) *DetectionService {
	return &DetectionService{detector: detector, defaults: defaults}
}

// DetectRequest carries a detection run request. Unset thresholds fall
// back to the configured defaults; an empty algorithm list runs all
// four detectors.
type DetectRequest struct {
	Algorithms          []string `json:"algorithms"`
	StartTime           int64    `json:"startTime"` // Unix timestamp, 0 = unbounded
	EndTime             int64    `json:"endTime"`   // Unix timestamp, 0 = unbounded
	MinDistanceKm       *float64 `json:"minDistanceKm"`
	MinDurationHours    *float64 `json:"minDurationHours"`
	MinNights           *int     `json:"minNights"`
	DistanceThresholdKm *float64 `json:"distanceThresholdKm"`
	TimeGapHours        *float64 `json:"timeGapHours"`
}

// Detect runs the requested detection algorithms and returns the
// aggregated summary
func (s *DetectionService) Detect(req DetectRequest) (*models.DetectionSummary, error) {
	opts := detection.Options{
		MinDistanceKm:       s.defaults.MinDistanceKm,
		MinDurationHours:    s.defaults.MinDurationHours,
		MinNights:           s.defaults.MinNights,
		DistanceThresholdKm: s.defaults.DistanceThresholdKm,
		TimeGapHours:        s.defaults.TimeGapHours,
	}

	if req.StartTime > 0 {
		opts.Start = time.Unix(req.StartTime, 0).UTC()
	}
	if req.EndTime > 0 {
		opts.End = time.Unix(req.EndTime, 0).UTC()
	}
	if req.MinDistanceKm != nil {
		opts.MinDistanceKm = *req.MinDistanceKm
	}
	if req.MinDurationHours != nil {
		opts.MinDurationHours = *req.MinDurationHours
	}
	if req.MinNights != nil {
		opts.MinNights = *req.MinNights
	}
	if req.DistanceThresholdKm != nil {
		opts.DistanceThresholdKm = *req.DistanceThresholdKm
	}
	if req.TimeGapHours != nil {
		opts.TimeGapHours = *req.TimeGapHours
	}

	return s.detector.DetectAll(opts, req.Algorithms...)
}
