package detection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

// overnightVisit builds a qualifying hotel stay: starts in the evening
// of the given day and ends the next morning (10 h duration)
func overnightVisit(day int, placeID string, loc *models.Coordinate) models.TimelineSegment {
	return visitSegment(ts(day, 21, 0), ts(day+1, 7, 0), placeID, loc)
}

func TestDetectOvernightTrips(t *testing.T) {
	t.Run("no-op without a home reference", func(t *testing.T) {
		env := newTestEnv(t)
		env.insert(t, overnightVisit(1, "place-hotel", nil))

		run, err := env.detector.DetectOvernightTrips(Options{})
		require.NoError(t, err)
		require.Zero(t, run.Created)
	})

	t.Run("single overnight stay becomes a trip with minNights 1", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t, overnightVisit(1, "place-hotel", nil))

		run, err := env.detector.DetectOvernightTrips(Options{MinNights: 1})
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmOvernight)
		require.Equal(t, ts(1, 21, 0), trip.StartTime)
		require.Equal(t, ts(2, 7, 0), trip.EndTime)
		require.True(t, trip.IsMultiDay)
		// Overnight grouping optimizes for presence, not distance
		require.Zero(t, trip.TotalDistanceMeters)
		require.Equal(t, []string{"place-hotel"}, trip.DestinationPlaceIDs)
	})

	t.Run("minNights 2 requires two stays within the gap", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t, overnightVisit(1, "place-hotel", nil))

		run, err := env.detector.DetectOvernightTrips(Options{MinNights: 2})
		require.NoError(t, err)
		require.Zero(t, run.Created)
		require.EqualValues(t, 0, env.tripCount(t, models.AlgorithmOvernight))

		// A second night within 48 hours merges into one trip
		env.insert(t, overnightVisit(2, "place-hotel", nil))

		run, err = env.detector.DetectOvernightTrips(Options{MinNights: 2})
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmOvernight)
		require.Equal(t, ts(1, 21, 0), trip.StartTime)
		require.Equal(t, ts(3, 7, 0), trip.EndTime)
		// Consecutive nights at the same hotel keep one entry per night
		require.Equal(t, []string{"place-hotel", "place-hotel"}, trip.DestinationPlaceIDs)
	})

	t.Run("gap over 48 hours splits trips", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			overnightVisit(1, "place-hotel-a", nil),
			overnightVisit(10, "place-hotel-b", nil),
		)

		run, err := env.detector.DetectOvernightTrips(Options{MinNights: 1})
		require.NoError(t, err)
		require.Equal(t, 2, run.Created)
		require.EqualValues(t, 2, env.tripCount(t, models.AlgorithmOvernight))
	})

	t.Run("stays at home do not qualify", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t, overnightVisit(1, "place-home", nil))

		run, err := env.detector.DetectOvernightTrips(Options{MinNights: 1})
		require.NoError(t, err)
		require.Zero(t, run.Created)
	})

	t.Run("short or daytime visits do not qualify", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t,
			// Long enough but entirely inside the day
			visitSegment(ts(1, 9, 0), ts(1, 18, 0), "place-office", nil),
			// Night window but too short
			visitSegment(ts(1, 22, 0), ts(2, 1, 0), "place-bar", nil),
		)

		run, err := env.detector.DetectOvernightTrips(Options{MinNights: 1})
		require.NoError(t, err)
		require.Zero(t, run.Created)
	})

	t.Run("coordinate mode requires the visit to be at least 1km away", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomeLocation(t, 40.0, -74.0)

		near := &models.Coordinate{Lat: 40.0005, Lon: -74.0}
		far := &models.Coordinate{Lat: 41.0, Lon: -74.0}

		env.insert(t,
			overnightVisit(1, "place-near", near),
			overnightVisit(10, "place-far", far),
		)

		run, err := env.detector.DetectOvernightTrips(Options{MinNights: 1})
		require.NoError(t, err)
		require.Equal(t, 1, run.Created)

		trip := env.singleTrip(t, models.AlgorithmOvernight)
		require.Equal(t, []string{"place-far"}, trip.DestinationPlaceIDs)
	})

	t.Run("idempotent across repeated runs", func(t *testing.T) {
		env := newTestEnv(t)
		env.setHomePlace(t, "place-home")
		env.insert(t, overnightVisit(1, "place-hotel", nil))

		first, err := env.detector.DetectOvernightTrips(Options{MinNights: 1})
		require.NoError(t, err)
		require.Equal(t, 1, first.Created)

		second, err := env.detector.DetectOvernightTrips(Options{MinNights: 1})
		require.NoError(t, err)
		require.Zero(t, second.Created)
		require.Equal(t, 1, second.Duplicates)
	})
}
