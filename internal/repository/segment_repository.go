package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/database"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

// SegmentRepository handles database operations for timeline segments
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

const segmentSelect = `SELECT s.id, s.segment_type, s.start_time, s.end_time,
	v.place_id, v.semantic_type, v.lat, v.lon, v.probability,
	a.start_lat, a.start_lon, a.end_lat, a.end_lon, a.distance_meters, a.activity_type, a.probability,
	m.distance_from_origin_km, m.destinations_json
	FROM timeline_segments s
	LEFT JOIN visits v ON v.segment_id = s.id
	LEFT JOIN activities a ON a.segment_id = s.id
	LEFT JOIN timeline_memories m ON m.segment_id = s.id`

// GetSegmentsInRange retrieves segments in chronological order, joined to
// their payloads. The time range is inclusive on both ends; a zero time
// leaves that end unbounded. When types are given, only those segment
// types are returned.
func (r *SegmentRepository) GetSegmentsInRange(start, end time.Time, types ...string) ([]models.TimelineSegment, error) {
	query := segmentSelect

	var conditions []string
	var args []interface{}

	if !start.IsZero() {
		conditions = append(conditions, "s.start_time >= ?")
		args = append(args, start.Unix())
	}
	if !end.IsZero() {
		conditions = append(conditions, "s.end_time <= ?")
		args = append(args, end.Unix())
	}
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		conditions = append(conditions, "s.segment_type IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Insertion order breaks start-time ties
	query += " ORDER BY s.start_time, s.id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.TimelineSegment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	return segments, rows.Err()
}

// GetSegments retrieves segments with filtering and pagination
func (r *SegmentRepository) GetSegments(filter models.SegmentFilter) ([]models.TimelineSegment, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, "s.segment_type = ?")
		args = append(args, filter.Type)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "s.start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "s.end_time <= ?")
		args = append(args, filter.EndTime)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM timeline_segments s" + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count segments: %w", err)
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
	query := segmentSelect + where + " ORDER BY s.start_time, s.id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.TimelineSegment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, 0, err
		}
		segments = append(segments, seg)
	}

	return segments, total, rows.Err()
}

// InsertSegments inserts a batch of segments with their payloads in a
// single transaction
func (r *SegmentRepository) InsertSegments(segments []models.TimelineSegment) ([]int64, error) {
	ids := make([]int64, 0, len(segments))

	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		for i := range segments {
			id, err := insertSegment(tx, &segments[i])
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func insertSegment(tx *sql.Tx, seg *models.TimelineSegment) (int64, error) {
	res, err := tx.Exec(
		"INSERT INTO timeline_segments (segment_type, start_time, end_time) VALUES (?, ?, ?)",
		seg.Type, seg.StartTime.Unix(), seg.EndTime.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert segment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get segment id: %w", err)
	}

	switch {
	case seg.Visit != nil:
		var lat, lon interface{}
		if seg.Visit.Location != nil {
			lat, lon = seg.Visit.Location.Lat, seg.Visit.Location.Lon
		}
		_, err = tx.Exec(
			"INSERT INTO visits (segment_id, place_id, semantic_type, lat, lon, probability) VALUES (?, ?, ?, ?, ?, ?)",
			id, seg.Visit.PlaceID, seg.Visit.SemanticType, lat, lon, seg.Visit.Probability,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert visit: %w", err)
		}

	case seg.Activity != nil:
		var sLat, sLon, eLat, eLon interface{}
		if seg.Activity.StartLocation != nil {
			sLat, sLon = seg.Activity.StartLocation.Lat, seg.Activity.StartLocation.Lon
		}
		if seg.Activity.EndLocation != nil {
			eLat, eLon = seg.Activity.EndLocation.Lat, seg.Activity.EndLocation.Lon
		}
		_, err = tx.Exec(
			"INSERT INTO activities (segment_id, start_lat, start_lon, end_lat, end_lon, distance_meters, activity_type, probability) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			id, sLat, sLon, eLat, eLon, seg.Activity.DistanceMeters, seg.Activity.ActivityType, seg.Activity.Probability,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert activity: %w", err)
		}

	case seg.Memory != nil:
		destJSON, err := json.Marshal(seg.Memory.DestinationPlaceIDs)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal destinations: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO timeline_memories (segment_id, distance_from_origin_km, destinations_json) VALUES (?, ?, ?)",
			id, seg.Memory.DistanceFromOriginKm, string(destJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert memory: %w", err)
		}

	case len(seg.Path) > 0:
		for i, p := range seg.Path {
			_, err = tx.Exec(
				"INSERT INTO timeline_path_points (segment_id, point_order, lat, lon, point_time) VALUES (?, ?, ?, ?, ?)",
				id, i, p.Point.Lat, p.Point.Lon, p.Time.Unix(),
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert path point: %w", err)
			}
		}
	}

	return id, nil
}

func scanSegment(rows *sql.Rows) (models.TimelineSegment, error) {
	var seg models.TimelineSegment
	var startTS, endTS int64

	var vPlaceID, vSemanticType sql.NullString
	var vLat, vLon, vProb sql.NullFloat64
	var aStartLat, aStartLon, aEndLat, aEndLon, aDistance, aProb sql.NullFloat64
	var aType sql.NullString
	var mDistance sql.NullFloat64
	var mDestJSON sql.NullString

	err := rows.Scan(
		&seg.ID, &seg.Type, &startTS, &endTS,
		&vPlaceID, &vSemanticType, &vLat, &vLon, &vProb,
		&aStartLat, &aStartLon, &aEndLat, &aEndLon, &aDistance, &aType, &aProb,
		&mDistance, &mDestJSON,
	)
	if err != nil {
		return seg, fmt.Errorf("failed to scan segment: %w", err)
	}

	seg.StartTime = time.Unix(startTS, 0).UTC()
	seg.EndTime = time.Unix(endTS, 0).UTC()

	switch seg.Type {
	case models.SegmentTypeVisit:
		visit := &models.Visit{
			PlaceID:      vPlaceID.String,
			SemanticType: vSemanticType.String,
			Probability:  vProb.Float64,
		}
		if vLat.Valid && vLon.Valid {
			visit.Location = &models.Coordinate{Lat: vLat.Float64, Lon: vLon.Float64}
		}
		seg.Visit = visit

	case models.SegmentTypeActivity:
		activity := &models.Activity{
			DistanceMeters: aDistance.Float64,
			ActivityType:   aType.String,
			Probability:    aProb.Float64,
		}
		if aStartLat.Valid && aStartLon.Valid {
			activity.StartLocation = &models.Coordinate{Lat: aStartLat.Float64, Lon: aStartLon.Float64}
		}
		if aEndLat.Valid && aEndLon.Valid {
			activity.EndLocation = &models.Coordinate{Lat: aEndLat.Float64, Lon: aEndLon.Float64}
		}
		seg.Activity = activity

	case models.SegmentTypeMemory:
		memory := &models.Memory{
			DistanceFromOriginKm: mDistance.Float64,
		}
		if mDestJSON.Valid && mDestJSON.String != "" {
			if err := json.Unmarshal([]byte(mDestJSON.String), &memory.DestinationPlaceIDs); err != nil {
				return seg, fmt.Errorf("failed to unmarshal destinations for segment %d: %w", seg.ID, err)
			}
		}
		seg.Memory = memory
	}

	return seg, nil
}
