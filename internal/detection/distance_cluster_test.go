package detection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

func TestDetectDistanceBasedTrips(t *testing.T) {
	opts := Options{DistanceThresholdKm: 50, TimeGapHours: 6}

	home := models.Coordinate{Lat: 40.0, Lon: -74.0}
	far := &models.Coordinate{Lat: 41.0, Lon: -74.0} // ~111 km north

	t.Run("no-op without a home coordinate", func(t *testing.T) {
		env := newTestEnv(t)
		// A place-id-only home reference is insufficient here
		env.setHomePlace(t, "place-home")
		env.insert(t,
			visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-a", far),
			visitSegment(ts(1, 12, 0), ts(1, 14, 0), "place-b", far),
		)

		run, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, run.Created)
	})

	t.Run("a lone far segment is noise, not a trip", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, home.Lat, home.Lon)
		env.insert(t, visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-a", far))

		run, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, run.Created)
		require.EqualValues(t, 0, env.tripCount(t, models.AlgorithmDistanceBased))
	})

	t.Run("two far segments within the gap form one trip", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, home.Lat, home.Lon)
		env.insert(t,
			visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-a", far),
			// 3 hours after the previous segment's end, inside the 6h gap
			activitySegment(ts(1, 14, 0), ts(1, 15, 0), "IN_PASSENGER_VEHICLE", 20_000, far),
		)

		run, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmDistanceBased)
		require.Equal(t, ts(1, 9, 0), trip.StartTime)
		require.Equal(t, ts(1, 15, 0), trip.EndTime)
		require.InDelta(t, 20_000.0, trip.TotalDistanceMeters, 1e-9)
		require.Equal(t, []string{"place-a"}, trip.DestinationPlaceIDs)
		require.Equal(t, "IN_PASSENGER_VEHICLE", trip.PrimaryTransportMode)
	})

	t.Run("gap over the threshold splits clusters", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, home.Lat, home.Lon)
		env.insert(t,
			visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-a", far),
			visitSegment(ts(1, 12, 0), ts(1, 14, 0), "place-b", far),
			// 20 hours later: separate cluster, but a singleton, so dropped
			visitSegment(ts(2, 10, 0), ts(2, 12, 0), "place-c", far),
		)

		run, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmDistanceBased)
		require.Equal(t, ts(1, 9, 0), trip.StartTime)
		require.Equal(t, ts(1, 14, 0), trip.EndTime)
	})

	t.Run("near segments and segments without locations are excluded", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, home.Lat, home.Lon)

		near := &models.Coordinate{Lat: 40.01, Lon: -74.0}
		env.insert(t,
			visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-near", near),
			visitSegment(ts(1, 11, 0), ts(1, 12, 0), "place-unknown", nil),
			visitSegment(ts(1, 12, 0), ts(1, 14, 0), "place-a", far),
		)

		run, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		// Only one far segment survives the filter: not enough for a trip
		require.Zero(t, run.Created)
	})

	t.Run("destinations are deduplicated", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, home.Lat, home.Lon)
		env.insert(t,
			visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-a", far),
			visitSegment(ts(1, 12, 0), ts(1, 14, 0), "place-a", far),
			visitSegment(ts(1, 15, 0), ts(1, 17, 0), "place-b", far),
		)

		run, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmDistanceBased)
		require.ElementsMatch(t, []string{"place-a", "place-b"}, trip.DestinationPlaceIDs)
	})

	t.Run("idempotent across repeated runs", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, home.Lat, home.Lon)
		env.insert(t,
			visitSegment(ts(1, 9, 0), ts(1, 11, 0), "place-a", far),
			visitSegment(ts(1, 12, 0), ts(1, 14, 0), "place-b", far),
		)

		first, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		require.Equal(t, 1, first.Created)

		second, err := env.detector.DetectDistanceBasedTrips(opts)
		require.NoError(t, err)
		require.Zero(t, second.Created)
		require.Equal(t, 1, second.Duplicates)
	})
}
