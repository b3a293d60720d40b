package detection

import (
	"log"
	"time"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/spatial"
)

// DetectDistanceBasedTrips clusters visits and activities that happen
// far from home, catching trips the other detectors miss: no home-visit
// bracketing and no overnight timing is required, only sustained
// presence at distance. A lone far segment is noise, not a trip.
func (d *Detector) DetectDistanceBasedTrips(opts Options) (models.DetectorRun, error) {
	run := models.DetectorRun{Algorithm: models.AlgorithmDistanceBased}

	home, err := d.profiles.ResolveHomeReference()
	if err != nil {
		return run, err
	}
	// Distance from home is the whole point here, so a place-id-only
	// home reference is insufficient
	if home.Location == nil {
		log.Printf("[TripDetector] distance_based: no home coordinate set, skipping")
		return run, nil
	}

	segments, err := d.segments.GetSegmentsInRange(opts.Start, opts.End,
		models.SegmentTypeVisit, models.SegmentTypeActivity)
	if err != nil {
		return run, err
	}

	timeGap := time.Duration(opts.TimeGapHours * float64(time.Hour))
	if timeGap <= 0 {
		timeGap = 6 * time.Hour
	}

	var cluster []models.TimelineSegment
	flush := func() {
		if len(cluster) >= 2 {
			d.materializeCluster(&run, cluster)
		}
		cluster = nil
	}

	for i := range segments {
		seg := segments[i]

		point := representativePoint(seg)
		if point == nil {
			// No usable location on this segment; skip it, don't abort
			continue
		}
		if spatial.DistanceKm(*home.Location, *point) < opts.DistanceThresholdKm {
			continue
		}

		if len(cluster) > 0 && seg.StartTime.Sub(cluster[len(cluster)-1].EndTime) > timeGap {
			flush()
		}
		cluster = append(cluster, seg)
	}
	flush()

	return run, nil
}

func (d *Detector) materializeCluster(run *models.DetectorRun, cluster []models.TimelineSegment) {
	var distanceMeters float64
	var destinations []string
	seen := make(map[string]bool)

	for i := range cluster {
		if cluster[i].Activity != nil {
			distanceMeters += cluster[i].Activity.DistanceMeters
		}
		if visit := cluster[i].Visit; visit != nil && visit.PlaceID != "" && !seen[visit.PlaceID] {
			seen[visit.PlaceID] = true
			destinations = append(destinations, visit.PlaceID)
		}
	}

	d.materialize(run, TripInput{
		Start:          cluster[0].StartTime,
		End:            cluster[len(cluster)-1].EndTime,
		Segments:       cluster,
		DistanceMeters: distanceMeters,
		Destinations:   destinations,
		Algorithm:      models.AlgorithmDistanceBased,
	})
}

// representativePoint picks the point used for the distance-from-home
// test: a visit's location, or an activity's start location
func representativePoint(seg models.TimelineSegment) *models.Coordinate {
	switch {
	case seg.Visit != nil && seg.Visit.Location != nil:
		return seg.Visit.Location
	case seg.Activity != nil && seg.Activity.StartLocation != nil:
		return seg.Activity.StartLocation
	}
	return nil
}
