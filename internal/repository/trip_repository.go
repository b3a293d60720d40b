package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/database"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

// TripRepository handles database operations for trips
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// CreateTrip inserts a trip with its destinations and segment links in one
// transaction. Returns false when a trip with the same
// (start_time, end_time, detection_algorithm) key already exists; the
// unique index on that key makes the check-and-insert safe against
// concurrent runs of the same algorithm.
func (r *TripRepository) CreateTrip(trip *models.Trip) (bool, error) {
	created := false

	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRow(
			"SELECT id FROM trips WHERE start_time = ? AND end_time = ? AND detection_algorithm = ?",
			trip.StartTime.Unix(), trip.EndTime.Unix(), trip.DetectionAlgorithm,
		).Scan(&existing)
		if err == nil {
			return nil // duplicate, no write
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check for existing trip: %w", err)
		}

		res, err := tx.Exec(
			`INSERT INTO trips (start_time, end_time, is_multi_day, total_distance_meters, primary_transport_mode, detection_algorithm)
			VALUES (?, ?, ?, ?, ?, ?)`,
			trip.StartTime.Unix(), trip.EndTime.Unix(), trip.IsMultiDay,
			trip.TotalDistanceMeters, trip.PrimaryTransportMode, trip.DetectionAlgorithm,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get trip id: %w", err)
		}
		trip.ID = id

		for i, placeID := range trip.DestinationPlaceIDs {
			if _, err := tx.Exec(
				"INSERT INTO trip_destinations (trip_id, place_id, visit_order) VALUES (?, ?, ?)",
				id, placeID, i,
			); err != nil {
				return fmt.Errorf("failed to insert trip destination: %w", err)
			}
		}

		for i, segID := range trip.SegmentIDs {
			if _, err := tx.Exec(
				"INSERT INTO trip_segments (trip_id, segment_id, segment_order) VALUES (?, ?, ?)",
				id, segID, i,
			); err != nil {
				return fmt.Errorf("failed to insert trip segment link: %w", err)
			}
		}

		created = true
		return nil
	})
	if err != nil {
		// A concurrent run may have inserted the same key after our check
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return false, nil
		}
		return false, err
	}

	return created, nil
}

// GetTrips retrieves trips with filtering and pagination
func (r *TripRepository) GetTrips(filter models.TripFilter) ([]models.Trip, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "end_time <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.Algorithm != "" {
		conditions = append(conditions, "detection_algorithm = ?")
		args = append(args, filter.Algorithm)
	}
	if filter.MultiDay != nil {
		conditions = append(conditions, "is_multi_day = ?")
		args = append(args, *filter.MultiDay)
	}
	if filter.MinDistance > 0 {
		conditions = append(conditions, "total_distance_meters >= ?")
		args = append(args, filter.MinDistance)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trips"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `SELECT id, start_time, end_time, is_multi_day, total_distance_meters,
		primary_transport_mode, detection_algorithm, created_at
		FROM trips` + where + " ORDER BY start_time DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, t)
	}

	return trips, total, rows.Err()
}

// GetTripByID retrieves a single trip with its destinations and member
// segment ids. Returns nil when the trip does not exist.
func (r *TripRepository) GetTripByID(id int64) (*models.Trip, error) {
	query := `SELECT id, start_time, end_time, is_multi_day, total_distance_meters,
		primary_transport_mode, detection_algorithm, created_at
		FROM trips WHERE id = ?`

	row := r.db.QueryRow(query, id)

	var t models.Trip
	var startTS, endTS int64
	var mode sql.NullString
	err := row.Scan(&t.ID, &startTS, &endTS, &t.IsMultiDay, &t.TotalDistanceMeters,
		&mode, &t.DetectionAlgorithm, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	t.StartTime = time.Unix(startTS, 0).UTC()
	t.EndTime = time.Unix(endTS, 0).UTC()
	t.PrimaryTransportMode = mode.String

	t.DestinationPlaceIDs, err = r.tripDestinations(id)
	if err != nil {
		return nil, err
	}
	t.SegmentIDs, err = r.tripSegmentIDs(id)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// GetSummary computes cross-algorithm trip statistics. Counts are
// per-algorithm; the four algorithms are not mutually exclusive
// partitions of the timeline, so totals overstate unique travel.
func (r *TripRepository) GetSummary() (*models.DetectionSummary, error) {
	summary := &models.DetectionSummary{
		PerAlgorithm: make(map[string]models.AlgorithmStats),
	}

	var totalDistanceMeters sql.NullFloat64
	err := r.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(is_multi_day), 0), SUM(total_distance_meters) FROM trips",
	).Scan(&summary.TotalTrips, &summary.MultiDayTrips, &totalDistanceMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trip totals: %w", err)
	}
	summary.TotalDistanceKm = totalDistanceMeters.Float64 / 1000

	rows, err := r.db.Query(
		"SELECT detection_algorithm, COUNT(*), COALESCE(SUM(total_distance_meters), 0) FROM trips GROUP BY detection_algorithm",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute per-algorithm stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var algorithm string
		var count int64
		var distanceMeters float64
		if err := rows.Scan(&algorithm, &count, &distanceMeters); err != nil {
			return nil, fmt.Errorf("failed to scan algorithm stats: %w", err)
		}
		summary.PerAlgorithm[algorithm] = models.AlgorithmStats{
			Count:      count,
			DistanceKm: distanceMeters / 1000,
		}
	}

	return summary, rows.Err()
}

func (r *TripRepository) tripDestinations(tripID int64) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT place_id FROM trip_destinations WHERE trip_id = ? ORDER BY visit_order", tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip destinations: %w", err)
	}
	defer rows.Close()

	var placeIDs []string
	for rows.Next() {
		var placeID string
		if err := rows.Scan(&placeID); err != nil {
			return nil, fmt.Errorf("failed to scan trip destination: %w", err)
		}
		placeIDs = append(placeIDs, placeID)
	}
	return placeIDs, rows.Err()
}

func (r *TripRepository) tripSegmentIDs(tripID int64) ([]int64, error) {
	rows, err := r.db.Query(
		"SELECT segment_id FROM trip_segments WHERE trip_id = ? ORDER BY segment_order", tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip segments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan trip segment id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanTrip(rows *sql.Rows) (models.Trip, error) {
	var t models.Trip
	var startTS, endTS int64
	var mode sql.NullString

	err := rows.Scan(&t.ID, &startTS, &endTS, &t.IsMultiDay, &t.TotalDistanceMeters,
		&mode, &t.DetectionAlgorithm, &t.CreatedAt)
	if err != nil {
		return t, fmt.Errorf("failed to scan trip: %w", err)
	}

	t.StartTime = time.Unix(startTS, 0).UTC()
	t.EndTime = time.Unix(endTS, 0).UTC()
	t.PrimaryTransportMode = mode.String
	return t, nil
}
