package repository

import (
	"database/sql"
	"fmt"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
)

// ProfileRepository handles database operations for the user profile
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetProfile retrieves the user profile. Returns nil when no profile
// has been saved yet.
func (r *ProfileRepository) GetProfile() (*models.UserProfile, error) {
	query := `SELECT id, home_place_id, home_lat, home_lon,
		work_place_id, work_lat, work_lon, updated_at
		FROM user_profile WHERE id = 1`

	var p models.UserProfile
	var homePlaceID, workPlaceID sql.NullString
	var homeLat, homeLon, workLat, workLon sql.NullFloat64

	err := r.db.QueryRow(query).Scan(
		&p.ID, &homePlaceID, &homeLat, &homeLon,
		&workPlaceID, &workLat, &workLon, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	p.HomePlaceID = homePlaceID.String
	p.WorkPlaceID = workPlaceID.String
	if homeLat.Valid && homeLon.Valid {
		p.HomeLocation = &models.Coordinate{Lat: homeLat.Float64, Lon: homeLon.Float64}
	}
	if workLat.Valid && workLon.Valid {
		p.WorkLocation = &models.Coordinate{Lat: workLat.Float64, Lon: workLon.Float64}
	}

	return &p, nil
}

// SaveProfile upserts the single-row user profile
func (r *ProfileRepository) SaveProfile(p *models.UserProfile) error {
	var homePlaceID, workPlaceID interface{}
	if p.HomePlaceID != "" {
		homePlaceID = p.HomePlaceID
	}
	if p.WorkPlaceID != "" {
		workPlaceID = p.WorkPlaceID
	}

	var homeLat, homeLon, workLat, workLon interface{}
	if p.HomeLocation != nil {
		homeLat, homeLon = p.HomeLocation.Lat, p.HomeLocation.Lon
	}
	if p.WorkLocation != nil {
		workLat, workLon = p.WorkLocation.Lat, p.WorkLocation.Lon
	}

	query := `INSERT INTO user_profile (id, home_place_id, home_lat, home_lon, work_place_id, work_lat, work_lon, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			home_place_id = excluded.home_place_id,
			home_lat = excluded.home_lat,
			home_lon = excluded.home_lon,
			work_place_id = excluded.work_place_id,
			work_lat = excluded.work_lat,
			work_lon = excluded.work_lon,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.Exec(query, homePlaceID, homeLat, homeLon, workPlaceID, workLat, workLon); err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

// ResolveHomeReference loads the profile and resolves it into a home
// reference. An unset reference means detectors that need home are a
// no-op.
func (r *ProfileRepository) ResolveHomeReference() (models.HomeReference, error) {
	profile, err := r.GetProfile()
	if err != nil {
		return models.HomeReference{}, err
	}
	if profile == nil {
		return models.HomeReference{}, nil
	}
	return models.HomeReference{
		PlaceID:  profile.HomePlaceID,
		Location: profile.HomeLocation,
	}, nil
}
