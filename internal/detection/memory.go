package detection

import (
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

// DetectMemoryTrips promotes provider-identified trip memories directly
// into trips. This is the simplest and most trustworthy source: each
// memory segment becomes one trip with the provider's own distance and
// destination list.
func (d *Detector) DetectMemoryTrips(opts Options) (models.DetectorRun, error) {
	run := models.DetectorRun{Algorithm: models.AlgorithmTimelineMemory}

	memories, err := d.segments.GetSegmentsInRange(opts.Start, opts.End, models.SegmentTypeMemory)
	if err != nil {
		return run, err
	}

	for i := range memories {
		seg := memories[i]
		if seg.Memory == nil {
			continue
		}

		d.materialize(&run, TripInput{
			Start:          seg.StartTime,
			End:            seg.EndTime,
			Segments:       []models.TimelineSegment{seg},
			DistanceMeters: seg.Memory.DistanceFromOriginKm * 1000,
			// An empty destination list is valid: the provider asserts
			// the trip happened even without named destinations
			Destinations: seg.Memory.DestinationPlaceIDs,
			Algorithm:    models.AlgorithmTimelineMemory,
		})
	}

	return run, nil
}
