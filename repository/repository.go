// Package repository implements data access layer for the application
package repository

import (
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agroclima.app/models"
)

// ProfileRepository handles data access operations for location profiles
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository for location profile data
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ListWithLocation retrieves all profiles with both city and region set.
// Profiles without resolved coordinates are still eligible; coordinates are
// resolved lazily by the sync job.
func (r *ProfileRepository) ListWithLocation() ([]models.LocationProfile, error) {
	log.Println("[DEBUG] ProfileRepository.ListWithLocation called")

	var profiles []models.LocationProfile
	result := r.db.Where("city IS NOT NULL AND city <> '' AND region IS NOT NULL AND region <> ''").Find(&profiles)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing profiles: %v\n", result.Error)
		return nil, result.Error
	}

	log.Printf("[DEBUG] Found %d profiles with location\n", len(profiles))
	return profiles, nil
}

// UpdateCoordinates fills in a profile's resolved coordinate pair and the
// resolution timestamp. Only applied when the pair is still unresolved, so
// an existing pair is never overwritten.
func (r *ProfileRepository) UpdateCoordinates(userID string, latitude, longitude float64, resolvedAt time.Time) error {
	log.Printf("[DEBUG] ProfileRepository.UpdateCoordinates: userID=%s, lat=%f, lon=%f\n", userID, latitude, longitude)

	result := r.db.Model(&models.LocationProfile{}).
		Where("usuario_id = ? AND latitude IS NULL AND longitude IS NULL", userID).
		Updates(map[string]interface{}{
			"latitude":           latitude,
			"longitude":          longitude,
			"coords_resolved_at": resolvedAt,
		})
	if result.Error != nil {
		log.Printf("[ERROR] Database error when updating coordinates: %v\n", result.Error)
		return result.Error
	}

	log.Printf("[DEBUG] Updated coordinates for %d profile(s)\n", result.RowsAffected)
	return nil
}

// SnapshotRepository handles data access operations for weather snapshots
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new repository for snapshot data
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Upsert writes one snapshot keyed on (usuario_id, date). A conflicting row
// is fully overwritten, which makes repeated runs for the same day idempotent.
func (r *SnapshotRepository) Upsert(snapshot *models.WeatherSnapshot) error {
	log.Printf("[DEBUG] SnapshotRepository.Upsert: userID=%s, date=%s\n", snapshot.UserID, snapshot.Date)

	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "usuario_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"city", "region", "latitude", "longitude",
			"temperature", "apparent_temperature", "humidity", "precipitation",
			"cloud_cover", "surface_pressure", "wind_speed", "wind_direction", "wind_gusts",
			"temp_max", "temp_min", "precipitation_sum", "rain_probability_max", "uv_index_max",
			"sunrise", "sunset", "day_length_hours",
			"heat_stress_index", "heat_stress_tier",
			"forecast", "source", "updated_at",
		}),
	}).Create(snapshot)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when upserting snapshot: %v\n", result.Error)
		return result.Error
	}

	log.Println("[DEBUG] Upserted snapshot successfully")
	return nil
}

// FindByUserAndDate retrieves one snapshot by its composite key
func (r *SnapshotRepository) FindByUserAndDate(userID, date string) (*models.WeatherSnapshot, error) {
	var snapshot models.WeatherSnapshot
	result := r.db.Where("usuario_id = ? AND date = ?", userID, date).First(&snapshot)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when finding snapshot: %v\n", result.Error)
		return nil, result.Error
	}

	return &snapshot, nil
}
