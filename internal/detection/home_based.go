package detection

import (
	"log"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/spatial"
)

// pendingTrip accumulates the run of non-home segments between two home
// visits. It is reset on every home-visit boundary, whether or not the
// candidate was accepted.
type pendingTrip struct {
	segments       []models.TimelineSegment
	distanceMeters float64
	destinations   []string
	seen           map[string]bool
}

func newPendingTrip() *pendingTrip {
	return &pendingTrip{seen: make(map[string]bool)}
}

func (p *pendingTrip) add(seg models.TimelineSegment) {
	p.segments = append(p.segments, seg)

	if seg.Activity != nil {
		p.distanceMeters += seg.Activity.DistanceMeters
	}
	if seg.Visit != nil && seg.Visit.PlaceID != "" && !p.seen[seg.Visit.PlaceID] {
		p.seen[seg.Visit.PlaceID] = true
		p.destinations = append(p.destinations, seg.Visit.PlaceID)
	}
}

func (p *pendingTrip) empty() bool {
	return len(p.segments) == 0
}

func (p *pendingTrip) reset() {
	*p = *newPendingTrip()
}

// DetectHomeBasedTrips reconstructs trips as maximal runs of consecutive
// non-home segments bracketed by two home visits. A candidate is
// accepted when its accumulated activity distance and elapsed duration
// clear the thresholds. A trailing run with no closing home visit is
// discarded: trips must be observed to end at home.
func (d *Detector) DetectHomeBasedTrips(opts Options) (models.DetectorRun, error) {
	run := models.DetectorRun{Algorithm: models.AlgorithmHomeBased}

	home, err := d.profiles.ResolveHomeReference()
	if err != nil {
		return run, err
	}
	if !home.IsSet() {
		log.Printf("[TripDetector] home_based: no home location set, skipping")
		return run, nil
	}

	segments, err := d.segments.GetSegmentsInRange(opts.Start, opts.End)
	if err != nil {
		return run, err
	}

	pending := newPendingTrip()
	for i := range segments {
		seg := segments[i]

		if !isHomeVisit(seg, home) {
			pending.add(seg)
			continue
		}

		// Back at home: close the pending run against the thresholds
		if !pending.empty() {
			start := pending.segments[0].StartTime
			end := seg.StartTime
			durationHours := end.Sub(start).Hours()

			if pending.distanceMeters/1000 >= opts.MinDistanceKm && durationHours >= opts.MinDurationHours {
				d.materialize(&run, TripInput{
					Start:          start,
					End:            end,
					Segments:       pending.segments,
					DistanceMeters: pending.distanceMeters,
					Destinations:   pending.destinations,
					Algorithm:      models.AlgorithmHomeBased,
				})
			}
			pending.reset()
		}
	}

	return run, nil
}

// isHomeVisit classifies a segment as a visit to home. Non-visit
// segments and visits missing the field the active comparison mode
// needs are never home.
func isHomeVisit(seg models.TimelineSegment, home models.HomeReference) bool {
	if seg.Visit == nil {
		return false
	}
	if home.UseDistance() {
		if seg.Visit.Location == nil {
			return false
		}
		return spatial.DistanceKm(*home.Location, *seg.Visit.Location) < HomeProximityKm
	}
	return seg.Visit.PlaceID != "" && seg.Visit.PlaceID == home.PlaceID
}
