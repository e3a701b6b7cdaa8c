package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"GreenCampus.dumpsterSync/internal/arcgis"
	"GreenCampus.dumpsterSync/internal/models"
)

// FeatureUpdater writes a reading into the dumpster feature it belongs to.
type FeatureUpdater struct {
	now func() time.Time
}

// NewFeatureUpdater creates a new FeatureUpdater using the wall clock.
func NewFeatureUpdater() *FeatureUpdater {
	return &FeatureUpdater{now: time.Now}
}

// UpdateFeature finds the single feature whose Dumpster_ID matches the
// reading, overwrites its fill level, temperature and last update time, and
// submits it. Nothing is edited unless exactly one feature matches.
func (u *FeatureUpdater) UpdateFeature(ctx context.Context, layer FeatureLayer, reading models.Reading) (models.UpdateOutcome, error) {
	dumpsterID, err := reading.FeatureKey()
	if err != nil {
		log.Printf("Error: %v", err)
		return models.UpdateOutcome{}, models.NewSyncError(models.ErrorCodeMissingField, "telemetry data has no id", nil, err)
	}

	where := arcgis.EqualsClause(models.FieldDumpsterID, dumpsterID)
	features, err := layer.Query(ctx, where)
	if err != nil {
		log.Printf("An error occurred during the update: %v", err)
		return models.UpdateOutcome{}, models.NewSyncError(models.ErrorCodeTransportFailure, "feature query failed", nil, err)
	}

	switch len(features) {
	case 0:
		log.Printf("Error: Could not find a dumpster with ID '%s' in ArcGIS.", dumpsterID)
		return models.UpdateOutcome{}, models.NewSyncError(models.ErrorCodeNotFound,
			fmt.Sprintf("no feature with %s '%s'", models.FieldDumpsterID, dumpsterID), nil, nil)
	case 1:
	default:
		log.Printf("Error: %d dumpsters share the ID '%s' in ArcGIS, not updating any of them.", len(features), dumpsterID)
		return models.UpdateOutcome{}, models.NewSyncError(models.ErrorCodeAmbiguousMatch,
			fmt.Sprintf("%d features with %s '%s'", len(features), models.FieldDumpsterID, dumpsterID),
			map[string]int{"matches": len(features)}, nil)
	}

	feature := features[0]
	if feature.Attributes == nil {
		feature.Attributes = make(map[string]any)
	}
	lastUpdated := u.now().UnixMilli()
	feature.Attributes[models.FieldFillLevel] = nullable(reading.Fullness)
	feature.Attributes[models.FieldTemperature] = nullable(reading.Temperature)
	feature.Attributes[models.FieldLastUpdated] = lastUpdated

	log.Printf("Updating feature: %s...", dumpsterID)
	result, err := layer.ApplyEdits(ctx, []models.Feature{feature})
	if err != nil {
		log.Printf("An error occurred during the update: %v", err)
		return models.UpdateOutcome{}, models.NewSyncError(models.ErrorCodeTransportFailure, "applyEdits request failed", nil, err)
	}
	if len(result.UpdateResults) == 0 || !result.UpdateResults[0].Success {
		log.Printf("❌ Error updating feature: %+v", result)
		return models.UpdateOutcome{}, models.NewSyncError(models.ErrorCodeUpdateRejected,
			fmt.Sprintf("feature store rejected the update of '%s'", dumpsterID), result, nil)
	}

	log.Printf("✅ Successfully updated '%s' with data: Fill=%s, Temp=%s",
		dumpsterID, formatValue(reading.Fullness), formatValue(reading.Temperature))
	return models.UpdateOutcome{
		DumpsterID:  dumpsterID,
		ObjectID:    result.UpdateResults[0].ObjectID,
		FillLevel:   reading.Fullness,
		Temperature: reading.Temperature,
		LastUpdated: lastUpdated,
	}, nil
}

// nullable keeps absent values as JSON null in the edit.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func formatValue(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
