package detection

import (
	"fmt"
	"log"
	"time"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/repository"
)

// Detection thresholds shared by the detectors
const (
	// HomeProximityKm is the radius around the home coordinate within
	// which a visit counts as being at home
	HomeProximityKm = 1.0

	// MinOvernightStay is the minimum visit duration for an overnight
	// candidate
	MinOvernightStay = 6 * time.Hour

	// NightStartHour / NightEndHour bound the approximate night window:
	// a visit qualifies when it starts at or after 20:00 or ends at or
	// before 08:00
	NightStartHour = 20
	NightEndHour   = 8

	// OvernightTripGap is the maximum gap between overnight visits of
	// the same trip
	OvernightTripGap = 48 * time.Hour
)

// Options carries the time range and thresholds for one detection run.
// Detectors read all tunables from here, never from ambient state.
type Options struct {
	Start time.Time // inclusive; zero = unbounded
	End   time.Time // inclusive; zero = unbounded

	MinDistanceKm       float64 // home_based: minimum accumulated distance
	MinDurationHours    float64 // home_based: minimum duration
	MinNights           int     // overnight: minimum qualifying visits (default 1)
	DistanceThresholdKm float64 // distance_based: minimum distance from home
	TimeGapHours        float64 // distance_based: maximum intra-cluster gap (default 6)
}

// Detector runs the four trip detection algorithms over the stored
// timeline
type Detector struct {
	segments *repository.SegmentRepository
	trips    *repository.TripRepository
	profiles *repository.ProfileRepository
	mat      *Materializer
}

// NewDetector creates a new detector
func NewDetector(segments *repository.SegmentRepository, trips *repository.TripRepository, profiles *repository.ProfileRepository) *Detector {
	return &Detector{
		segments: segments,
		trips:    trips,
		profiles: profiles,
		mat:      NewMaterializer(trips),
	}
}

// DetectAll runs the requested algorithms (all four when none are
// named) in fixed order and aggregates the results. Algorithms are
// independent and may claim overlapping segments into different trips;
// the summary reports per-algorithm counts rather than a canonical
// deduplicated trip list.
func (d *Detector) DetectAll(opts Options, algorithms ...string) (*models.DetectionSummary, error) {
	if len(algorithms) == 0 {
		algorithms = models.Algorithms
	}

	requested := make(map[string]bool, len(algorithms))
	for _, algorithm := range algorithms {
		switch algorithm {
		case models.AlgorithmTimelineMemory, models.AlgorithmHomeBased,
			models.AlgorithmOvernight, models.AlgorithmDistanceBased:
			requested[algorithm] = true
		default:
			return nil, fmt.Errorf("unknown detection algorithm: %q", algorithm)
		}
	}

	var runs []models.DetectorRun
	for _, algorithm := range models.Algorithms {
		if !requested[algorithm] {
			continue
		}

		var run models.DetectorRun
		var err error
		switch algorithm {
		case models.AlgorithmTimelineMemory:
			run, err = d.DetectMemoryTrips(opts)
		case models.AlgorithmHomeBased:
			run, err = d.DetectHomeBasedTrips(opts)
		case models.AlgorithmOvernight:
			run, err = d.DetectOvernightTrips(opts)
		case models.AlgorithmDistanceBased:
			run, err = d.DetectDistanceBasedTrips(opts)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to run %s detection: %w", algorithm, err)
		}

		log.Printf("[TripDetector] %s: %d created, %d duplicates, %d failed",
			run.Algorithm, run.Created, run.Duplicates, run.Failed)
		runs = append(runs, run)
	}

	summary, err := d.trips.GetSummary()
	if err != nil {
		return nil, err
	}
	summary.Runs = runs

	return summary, nil
}

// materialize routes a candidate through the shared materializer and
// books the outcome on the run. A persistence failure is logged and
// counted; the pass moves on to the next candidate.
func (d *Detector) materialize(run *models.DetectorRun, in TripInput) {
	created, err := d.mat.Materialize(in)
	switch {
	case err != nil:
		log.Printf("[TripDetector] %s: failed to persist trip [%s, %s): %v",
			in.Algorithm, in.Start, in.End, err)
		run.Failed++
	case created:
		run.Created++
	default:
		run.Duplicates++
	}
}
