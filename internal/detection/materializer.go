package detection

import (
	"fmt"
	"time"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/repository"
)

// TripInput is the shared input all four detectors funnel through the
// materializer
type TripInput struct {
	Start          time.Time
	End            time.Time
	Segments       []models.TimelineSegment
	DistanceMeters float64
	Destinations   []string
	Algorithm      string
}

// Materializer turns detector candidates into persisted trips. It
// derives the multi-day flag and primary transport mode, deduplicates
// on (start, end, algorithm), and writes the trip with its destinations
// and segment links atomically.
type Materializer struct {
	trips *repository.TripRepository
}

// NewMaterializer creates a new trip materializer
func NewMaterializer(trips *repository.TripRepository) *Materializer {
	return &Materializer{trips: trips}
}

// Materialize persists a trip candidate. Returns false when a trip with
// the same dedup key already exists (no write is performed).
func (m *Materializer) Materialize(in TripInput) (bool, error) {
	if !in.End.After(in.Start) {
		return false, fmt.Errorf("invalid trip bounds: end %s not after start %s", in.End, in.Start)
	}

	segmentIDs := make([]int64, len(in.Segments))
	for i := range in.Segments {
		segmentIDs[i] = in.Segments[i].ID
	}

	trip := &models.Trip{
		StartTime:            in.Start,
		EndTime:              in.End,
		IsMultiDay:           isMultiDay(in.Start, in.End),
		TotalDistanceMeters:  in.DistanceMeters,
		PrimaryTransportMode: primaryTransportMode(in.Segments),
		DetectionAlgorithm:   in.Algorithm,
		DestinationPlaceIDs:  in.Destinations,
		SegmentIDs:           segmentIDs,
	}

	return m.trips.CreateTrip(trip)
}

// primaryTransportMode picks the activity label with the largest summed
// distance among the member segments. Exact ties go to the label seen
// first in segment order. Empty when no member carries an activity.
func primaryTransportMode(segments []models.TimelineSegment) string {
	sums := make(map[string]float64)
	var order []string

	for i := range segments {
		activity := segments[i].Activity
		if activity == nil {
			continue
		}
		if _, ok := sums[activity.ActivityType]; !ok {
			order = append(order, activity.ActivityType)
		}
		sums[activity.ActivityType] += activity.DistanceMeters
	}

	var best string
	var bestDistance float64
	for i, mode := range order {
		if i == 0 || sums[mode] > bestDistance {
			best = mode
			bestDistance = sums[mode]
		}
	}
	return best
}

// isMultiDay reports whether the end calendar date is after the start
// calendar date
func isMultiDay(start, end time.Time) bool {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if ey != sy {
		return ey > sy
	}
	if em != sm {
		return em > sm
	}
	return ed > sd
}
