package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"agroclima.app/climate"
	"agroclima.app/errors"
	"agroclima.app/events"
	"agroclima.app/metrics"
	"agroclima.app/models"
	"agroclima.app/providers"
)

// Subscriber outcome statuses reported by the trigger surfaces
const (
	StatusUpdated = "atualizado"
	StatusError   = "erro"
)

// ClimateSyncService runs the climate synchronization batch job: for every
// subscriber with a configured location it resolves coordinates when
// missing, fetches current + forecast weather, computes the heat-stress
// index and upserts one snapshot per (subscriber, date).
//
// Processing is deliberately sequential with an inter-subscriber pause;
// the upstream geocoding and forecast APIs are rate-limited and this pause
// is the job's only back-pressure mechanism.
type ClimateSyncService struct {
	profileRepo  ProfileRepositoryInterface
	snapshotRepo SnapshotRepositoryInterface
	geocoder     providers.Geocoder
	forecast     providers.ForecastProvider
	assembler    *climate.Assembler
	publisher    events.Publisher
	syncMetrics  *metrics.SyncMetrics
	clock        clockwork.Clock
	location     *time.Location
	throttle     time.Duration
}

// NewClimateSyncService creates the sync service shared by all trigger surfaces
func NewClimateSyncService(
	profileRepo ProfileRepositoryInterface,
	snapshotRepo SnapshotRepositoryInterface,
	geocoder providers.Geocoder,
	forecast providers.ForecastProvider,
	assembler *climate.Assembler,
	publisher events.Publisher,
	clock clockwork.Clock,
	location *time.Location,
	throttle time.Duration,
) *ClimateSyncService {
	return &ClimateSyncService{
		profileRepo:  profileRepo,
		snapshotRepo: snapshotRepo,
		geocoder:     geocoder,
		forecast:     forecast,
		assembler:    assembler,
		publisher:    publisher,
		syncMetrics:  metrics.NewSyncMetrics(),
		clock:        clock,
		location:     location,
		throttle:     throttle,
	}
}

// RunSync executes one full pass over all eligible subscribers. Every
// subscriber is processed inside its own failure boundary: a geocoding
// miss, upstream failure or persistence error is counted and the loop
// continues. Only a failure to load the profiles aborts the run.
func (s *ClimateSyncService) RunSync(ctx context.Context, detailed bool) (*models.RunSummary, error) {
	runID := uuid.New().String()
	started := s.clock.Now()
	slog.Info("Starting climate sync run", "run_id", runID)

	profiles, err := s.profileRepo.ListWithLocation()
	if err != nil {
		s.syncMetrics.RecordRun("failure")
		return nil, errors.NewDatabaseError("failed to load location profiles", err)
	}

	summary := &models.RunSummary{
		RunID: runID,
		Date:  started.In(s.location).Format("2006-01-02"),
		Total: len(profiles),
	}

	if len(profiles) == 0 {
		slog.Info("No eligible subscribers, nothing to sync", "run_id", runID)
		s.syncMetrics.RecordRun("success")
		return summary, nil
	}

	for i := range profiles {
		if ctx.Err() != nil {
			slog.Warn("Climate sync run cancelled",
				"run_id", runID, "processed", summary.Updated+summary.Errors, "total", summary.Total)
			break
		}

		profile := &profiles[i]
		if err := s.syncSubscriber(ctx, profile, summary.Date); err != nil {
			slog.Error("Subscriber sync failed", "run_id", runID, "usuario_id", profile.UserID, "error", err)
			summary.Errors++
			s.syncMetrics.RecordSubscriber(StatusError)
			if detailed {
				summary.Outcomes = append(summary.Outcomes, models.SubscriberOutcome{
					UserID: profile.UserID,
					Status: StatusError,
					Error:  err.Error(),
				})
			}
			continue
		}

		summary.Updated++
		s.syncMetrics.RecordSubscriber(StatusUpdated)
		if detailed {
			summary.Outcomes = append(summary.Outcomes, models.SubscriberOutcome{
				UserID: profile.UserID,
				Status: StatusUpdated,
			})
		}

		s.pause(ctx)
	}

	s.syncMetrics.RecordRun("success")
	s.syncMetrics.ObserveRunDuration(s.clock.Since(started).Seconds())

	slog.Info("Climate sync run finished",
		"run_id", runID, "total", summary.Total, "updated", summary.Updated, "errors", summary.Errors)
	return summary, nil
}

// syncSubscriber processes one subscriber end to end: lazy coordinate
// resolution with write-back, forecast fetch, snapshot assembly, persist.
// No snapshot is ever written without valid coordinates.
func (s *ClimateSyncService) syncSubscriber(ctx context.Context, profile *models.LocationProfile, date string) error {
	if !profile.HasCoordinates() {
		coords, err := s.geocoder.Resolve(ctx, profile.City, profile.Region)
		if err != nil {
			return err
		}

		if err := s.profileRepo.UpdateCoordinates(profile.UserID, coords.Latitude, coords.Longitude, s.clock.Now()); err != nil {
			return errors.NewDatabaseError("failed to store resolved coordinates", err)
		}

		profile.Latitude = &coords.Latitude
		profile.Longitude = &coords.Longitude
	}

	payload, err := s.forecast.Fetch(ctx, *profile.Latitude, *profile.Longitude)
	if err != nil {
		return err
	}

	snapshot := s.assembler.Build(profile, payload, date)
	if err := s.snapshotRepo.Upsert(snapshot); err != nil {
		return errors.NewDatabaseError("failed to persist snapshot", err)
	}

	s.publishSnapshotEvent(ctx, snapshot)
	return nil
}

// publishSnapshotEvent is best-effort: a publisher failure is logged but
// never counted against the subscriber.
func (s *ClimateSyncService) publishSnapshotEvent(ctx context.Context, snapshot *models.WeatherSnapshot) {
	event := events.SnapshotEvent{
		UserID:          snapshot.UserID,
		Date:            snapshot.Date,
		City:            snapshot.City,
		Region:          snapshot.Region,
		HeatStressIndex: snapshot.HeatStressIndex,
		HeatStressTier:  snapshot.HeatStressTier,
	}

	if err := s.publisher.SnapshotWritten(ctx, event); err != nil {
		slog.Warn("Failed to publish snapshot event", "usuario_id", snapshot.UserID, "error", err)
	}
}

// pause applies the inter-subscriber throttle, waking early on cancellation
func (s *ClimateSyncService) pause(ctx context.Context) {
	if s.throttle <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-s.clock.After(s.throttle):
	}
}
