package service

import (
	"context"
	"time"

	"agroclima.app/models"
)

// ProfileRepositoryInterface defines the profile store contract used by the sync job
type ProfileRepositoryInterface interface {
	ListWithLocation() ([]models.LocationProfile, error)
	UpdateCoordinates(userID string, latitude, longitude float64, resolvedAt time.Time) error
}

// SnapshotRepositoryInterface defines the snapshot store contract used by the sync job
type SnapshotRepositoryInterface interface {
	Upsert(snapshot *models.WeatherSnapshot) error
}

// ClimateSyncServiceInterface defines the single entry point both trigger
// surfaces share
type ClimateSyncServiceInterface interface {
	RunSync(ctx context.Context, detailed bool) (*models.RunSummary, error)
}

// Ensure implementations satisfy interfaces
var _ ClimateSyncServiceInterface = (*ClimateSyncService)(nil)
