package detection

import (
	"log"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/spatial"
)

// DetectOvernightTrips detects multi-day trips characterized by
// overnight stays away from home. Qualifying visits within 48 hours of
// each other merge into one trip; a group becomes a trip when it holds
// at least MinNights visits. This detector measures presence, not
// distance: trip distance is reported as 0.
func (d *Detector) DetectOvernightTrips(opts Options) (models.DetectorRun, error) {
	run := models.DetectorRun{Algorithm: models.AlgorithmOvernight}

	home, err := d.profiles.ResolveHomeReference()
	if err != nil {
		return run, err
	}
	if !home.IsSet() {
		log.Printf("[TripDetector] overnight: no home location set, skipping")
		return run, nil
	}

	minNights := opts.MinNights
	if minNights < 1 {
		minNights = 1
	}

	visits, err := d.segments.GetSegmentsInRange(opts.Start, opts.End, models.SegmentTypeVisit)
	if err != nil {
		return run, err
	}

	var group []models.TimelineSegment
	flush := func() {
		if len(group) >= minNights {
			d.materializeOvernight(&run, group)
		}
		group = nil
	}

	for i := range visits {
		seg := visits[i]
		if !isOvernightCandidate(seg, home) {
			continue
		}

		if len(group) > 0 && seg.StartTime.Sub(group[len(group)-1].EndTime) > OvernightTripGap {
			flush()
		}
		group = append(group, seg)
	}
	// Unlike home-based detection, the last open group needs no closing
	// bracket: flush it through the same acceptance test
	flush()

	return run, nil
}

func (d *Detector) materializeOvernight(run *models.DetectorRun, group []models.TimelineSegment) {
	// Duplicates are retained: the same hotel on consecutive nights is
	// still one destination entry per night
	var destinations []string
	for i := range group {
		if group[i].Visit.PlaceID != "" {
			destinations = append(destinations, group[i].Visit.PlaceID)
		}
	}

	d.materialize(run, TripInput{
		Start:          group[0].StartTime,
		End:            group[len(group)-1].EndTime,
		Segments:       group,
		DistanceMeters: 0,
		Destinations:   destinations,
		Algorithm:      models.AlgorithmOvernight,
	})
}

// isOvernightCandidate reports whether a visit is long enough, spans
// the night window, and is away from home
func isOvernightCandidate(seg models.TimelineSegment, home models.HomeReference) bool {
	if seg.Visit == nil {
		return false
	}
	if seg.Duration() < MinOvernightStay {
		return false
	}
	if !spansNight(seg) {
		return false
	}
	return isAwayFromHome(seg.Visit, home)
}

// spansNight is an approximate overnight predicate, not a strict
// interval check: a visit qualifies when it starts late or ends early
func spansNight(seg models.TimelineSegment) bool {
	return seg.StartTime.Hour() >= NightStartHour || seg.EndTime.Hour() <= NightEndHour
}

// isAwayFromHome applies the active home-comparison mode. Visits
// missing the required field are excluded rather than assumed away.
func isAwayFromHome(visit *models.Visit, home models.HomeReference) bool {
	if home.UseDistance() {
		if visit.Location == nil {
			return false
		}
		return spatial.DistanceKm(*home.Location, *visit.Location) >= HomeProximityKm
	}
	return visit.PlaceID != "" && visit.PlaceID != home.PlaceID
}
