package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"agroclima.app/api"
	"agroclima.app/climate"
	"agroclima.app/config"
	"agroclima.app/database"
	"agroclima.app/events"
	"agroclima.app/providers"
	"agroclima.app/providers/cache"
	"agroclima.app/repository"
	"agroclima.app/scheduler"
	"agroclima.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	scheduler *scheduler.Scheduler
	publisher events.Publisher

	schedulerCancel context.CancelFunc
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...")

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	location, err := time.LoadLocation(app.config.Forecast.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", app.config.Forecast.Timezone, err)
	}

	geocodeCache, err := cache.New(&app.config.Cache)
	if err != nil {
		return fmt.Errorf("create geocode cache: %w", err)
	}

	geocoder := providers.NewGeocodingClient(
		&app.config.Geocoding,
		geocodeCache,
		time.Duration(app.config.Cache.TTLMinutes)*time.Minute,
	)
	forecast := providers.NewForecastClient(&app.config.Forecast)

	assembler := climate.NewAssembler(
		climate.NewDefaultCatalog(),
		climate.NewCalculator(climate.DefaultThresholds()),
	)

	profileRepo := repository.NewProfileRepository(app.db)
	snapshotRepo := repository.NewSnapshotRepository(app.db)

	app.publisher = events.NewPublisher(&app.config.Events)

	syncService := service.NewClimateSyncService(
		profileRepo,
		snapshotRepo,
		geocoder,
		forecast,
		assembler,
		app.publisher,
		clockwork.NewRealClock(),
		location,
		time.Duration(app.config.Sync.ThrottleMs)*time.Millisecond,
	)

	app.server = api.NewServer(app.config, syncService)
	app.scheduler = scheduler.NewScheduler(&app.config.Scheduler, syncService)

	slog.Info("Services initialized successfully")
	return nil
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting application...")

	ctx, cancel := context.WithCancel(context.Background())
	app.schedulerCancel = cancel

	slog.Info("Starting scheduler...")
	go app.scheduler.Start(ctx)

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.schedulerCancel != nil {
		app.schedulerCancel()
	}

	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			slog.Warn("Error closing event publisher", "error", err)
		}
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
