package detection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

func TestDetectHomeBasedTrips(t *testing.T) {
	opts := Options{MinDistanceKm: 1, MinDurationHours: 0.5}

	t.Run("no-op without a home reference", func(t *testing.T) {
		env := newTestEnv(t)
		env.insert(t,
			visitSegment(ts(1, 8, 0), ts(1, 9, 0), "place-a", nil),
			activitySegment(ts(1, 9, 0), ts(1, 10, 0), "IN_PASSENGER_VEHICLE", 50_000, nil),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, run.Created)
		require.EqualValues(t, 0, env.tripCount(t, models.AlgorithmHomeBased))
	})

	t.Run("brackets a trip between two home visits", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			visitSegment(ts(1, 7, 0), ts(1, 8, 0), "place-home", nil),
			activitySegment(ts(1, 8, 0), ts(1, 9, 0), "IN_PASSENGER_VEHICLE", 40_000, nil),
			visitSegment(ts(1, 9, 0), ts(1, 17, 0), "place-resort", nil),
			visitSegment(ts(1, 18, 0), ts(1, 23, 0), "place-home", nil),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmHomeBased)
		// Bounds are [first away segment start, closing home visit start)
		require.Equal(t, ts(1, 8, 0), trip.StartTime)
		require.Equal(t, ts(1, 18, 0), trip.EndTime)
		require.False(t, trip.IsMultiDay)
		require.InDelta(t, 40_000.0, trip.TotalDistanceMeters, 1e-9)
		require.Equal(t, []string{"place-resort"}, trip.DestinationPlaceIDs)
		require.Equal(t, "IN_PASSENGER_VEHICLE", trip.PrimaryTransportMode)
		require.Len(t, trip.SegmentIDs, 2)
	})

	t.Run("trailing run without a closing home visit is discarded", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			visitSegment(ts(1, 7, 0), ts(1, 8, 0), "place-home", nil),
			activitySegment(ts(1, 8, 0), ts(1, 9, 0), "IN_PASSENGER_VEHICLE", 500_000, nil),
			visitSegment(ts(1, 9, 0), ts(2, 17, 0), "place-resort", nil),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, run.Created)
		require.EqualValues(t, 0, env.tripCount(t, models.AlgorithmHomeBased))
	})

	t.Run("rejects candidates under the distance threshold", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			visitSegment(ts(1, 7, 0), ts(1, 8, 0), "place-home", nil),
			activitySegment(ts(1, 8, 0), ts(1, 8, 30), "WALKING", 300, nil),
			visitSegment(ts(1, 9, 0), ts(1, 10, 0), "place-home", nil),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, run.Created)
	})

	t.Run("rejects candidates under the duration threshold", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			visitSegment(ts(1, 7, 0), ts(1, 8, 0), "place-home", nil),
			activitySegment(ts(1, 8, 0), ts(1, 8, 10), "IN_PASSENGER_VEHICLE", 5_000, nil),
			visitSegment(ts(1, 8, 15), ts(1, 9, 0), "place-home", nil),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, run.Created)
	})

	t.Run("destinations keep first-seen order without repeats", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			visitSegment(ts(1, 7, 0), ts(1, 8, 0), "place-home", nil),
			activitySegment(ts(1, 8, 0), ts(1, 9, 0), "IN_PASSENGER_VEHICLE", 30_000, nil),
			visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-a", nil),
			visitSegment(ts(1, 11, 0), ts(1, 12, 0), "place-b", nil),
			visitSegment(ts(1, 12, 0), ts(1, 14, 0), "place-a", nil),
			visitSegment(ts(1, 15, 0), ts(1, 16, 0), "place-home", nil),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmHomeBased)
		require.Equal(t, []string{"place-a", "place-b"}, trip.DestinationPlaceIDs)
	})

	t.Run("coordinate mode classifies home by proximity", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, 40.0, -74.0)

		home := &models.Coordinate{Lat: 40.0001, Lon: -74.0001} // tens of meters away
		far := &models.Coordinate{Lat: 40.9, Lon: -74.0}        // ~100 km away

		env.insert(t,
			visitSegment(ts(1, 7, 0), ts(1, 8, 0), "place-x", home),
			activitySegment(ts(1, 8, 0), ts(1, 10, 0), "IN_PASSENGER_VEHICLE", 100_000, nil),
			visitSegment(ts(1, 10, 0), ts(1, 17, 0), "place-resort", far),
			visitSegment(ts(1, 18, 0), ts(1, 20, 0), "place-y", home),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmHomeBased)
		require.Equal(t, ts(1, 8, 0), trip.StartTime)
		require.Equal(t, ts(1, 18, 0), trip.EndTime)
	})

	t.Run("visits without a location never count as home in coordinate mode", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, 40.0, -74.0)

		// No closing home visit can be recognized: all visits lack
		// coordinates, so the run stays open and is discarded
		env.insert(t,
			activitySegment(ts(1, 8, 0), ts(1, 9, 0), "IN_PASSENGER_VEHICLE", 80_000, nil),
			visitSegment(ts(1, 9, 0), ts(1, 17, 0), "place-resort", nil),
		)

		run, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, run.Created)
	})

	t.Run("idempotent across repeated runs", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			visitSegment(ts(1, 7, 0), ts(1, 8, 0), "place-home", nil),
			activitySegment(ts(1, 8, 0), ts(1, 9, 0), "IN_PASSENGER_VEHICLE", 40_000, nil),
			visitSegment(ts(1, 18, 0), ts(1, 23, 0), "place-home", nil),
		)

		first, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, first.Created)

		second, err := env.detector.DetectHomeBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, second.Created)
		require.Equal(t, 1, second.Duplicates)
		require.EqualValues(t, 1, env.tripCount(t, models.AlgorithmHomeBased))
	})
}
