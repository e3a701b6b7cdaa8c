package service

import (
	"context"
	"errors"
	"log"
	"time"

	"GreenCampus.dumpsterSync/internal/arcgis"
	"GreenCampus.dumpsterSync/internal/config"
	"GreenCampus.dumpsterSync/internal/models"
	"GreenCampus.dumpsterSync/internal/repository"
	"GreenCampus.dumpsterSync/internal/soracom"
	"github.com/google/uuid"
)

// TelemetrySource authenticates against the telemetry backend and reads the
// latest reading of a device.
type TelemetrySource interface {
	Authenticate(ctx context.Context, keyID, secret string) (models.Session, error)
	FetchLatest(ctx context.Context, session models.Session, imsi string) (models.Reading, models.HarvestEntry, error)
}

// FeatureLayer is the part of a feature layer the updater needs.
type FeatureLayer interface {
	Query(ctx context.Context, where string) ([]models.Feature, error)
	ApplyEdits(ctx context.Context, updates []models.Feature) (models.EditResult, error)
}

// LayerConnector resolves the feature layer a run writes to.
type LayerConnector func(ctx context.Context) (FeatureLayer, error)

// ArcGISConnector connects to the layer described by opts.
func ArcGISConnector(opts arcgis.Options) LayerConnector {
	return func(ctx context.Context) (FeatureLayer, error) {
		layer, err := arcgis.ConnectLayer(ctx, opts)
		if err != nil {
			return nil, err
		}
		return layer, nil
	}
}

// SyncService runs the telemetry to feature layer sync.
type SyncService struct {
	cfg       config.Config
	telemetry TelemetrySource
	connect   LayerConnector
	history   repository.Repository // nil when history is disabled
	updater   *FeatureUpdater
	now       func() time.Time
}

// NewSyncService creates a new SyncService. history may be nil.
func NewSyncService(cfg config.Config, telemetry TelemetrySource, connect LayerConnector, history repository.Repository) *SyncService {
	return &SyncService{
		cfg:       cfg,
		telemetry: telemetry,
		connect:   connect,
		history:   history,
		updater:   NewFeatureUpdater(),
		now:       time.Now,
	}
}

// NewSyncServiceFromConfig wires the Soracom and ArcGIS clients, and the
// InfluxDB history when configured. The returned func releases resources.
func NewSyncServiceFromConfig(cfg config.Config) (*SyncService, func()) {
	telemetry := soracom.NewClient(cfg.SoracomURL)
	connect := ArcGISConnector(arcgis.Options{
		PortalURL:    cfg.ArcGISURL,
		ItemID:       cfg.ArcGISItemID,
		ClientID:     cfg.ArcGISClientID,
		ClientSecret: cfg.ArcGISClientSecret,
	})

	if !cfg.HistoryEnabled() {
		return NewSyncService(cfg, telemetry, connect, nil), func() {}
	}
	repo := repository.NewInfluxDBRepository(cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg)
	return NewSyncService(cfg, telemetry, connect, repo), repo.Close
}

// Run performs one sync. Each stage gates the next; the first failing stage
// stops the run and its *models.SyncError is returned.
func (s *SyncService) Run(ctx context.Context) (models.SyncResult, error) {
	runID := uuid.NewString()
	log.Printf("Starting sync run %s for SIM %s", runID, s.cfg.DeviceID)

	session, err := s.telemetry.Authenticate(ctx, s.cfg.SoracomAuthKeyID, s.cfg.SoracomAuthKey)
	if err != nil {
		return models.SyncResult{}, stageError(err, models.ErrorCodeAuthFailure, "telemetry authentication failed")
	}

	reading, entry, err := s.telemetry.FetchLatest(ctx, session, s.cfg.DeviceID)
	if err != nil {
		return models.SyncResult{}, stageError(err, models.ErrorCodeUnexpected, "telemetry fetch failed")
	}

	s.recordHistory(ctx, reading, entry)

	layer, err := s.connect(ctx)
	if err != nil {
		return models.SyncResult{}, stageError(err, models.ErrorCodeConnectFailure, "feature store connection failed")
	}

	outcome, err := s.updater.UpdateFeature(ctx, layer, reading)
	if err != nil {
		return models.SyncResult{}, stageError(err, models.ErrorCodeUnexpected, "feature update failed")
	}

	log.Printf("✅ Sync run %s finished", runID)
	return models.SyncResult{
		RunID:         runID,
		DeviceID:      string(reading.ID),
		UpdateOutcome: outcome,
	}, nil
}

// recordHistory writes the reading to the history bucket, creating the
// bucket when needed. Failures are logged and never stop the run.
func (s *SyncService) recordHistory(ctx context.Context, reading models.Reading, entry models.HarvestEntry) {
	if s.history == nil {
		return
	}
	bucket := s.cfg.InfluxDBBucket

	bucketExists, err := s.history.BucketExists(ctx, bucket)
	if err != nil {
		log.Printf("❌ Could not check history bucket '%s': %v", bucket, err)
		return
	}
	if !bucketExists {
		log.Printf("Bucket '%s' does not exist, creating it.\n", bucket)
		if err := s.history.CreateBucket(ctx, bucket); err != nil {
			log.Printf("❌ Error creating bucket '%s': %v", bucket, err)
			return
		}
	}

	fallback := entry.ReceivedAt()
	if fallback.IsZero() {
		fallback = s.now()
	}
	if err := s.history.WriteReading(ctx, bucket, reading, reading.Timestamp(fallback)); err != nil {
		log.Printf("❌ Error recording reading history: %v", err)
	}
}

// stageError makes sure a stage failure reaches the caller as a SyncError.
func stageError(err error, code models.ErrorCode, message string) error {
	var syncErr *models.SyncError
	if errors.As(err, &syncErr) {
		return err
	}
	log.Printf("%s: %v", message, err)
	return models.NewSyncError(code, message, nil, err)
}
