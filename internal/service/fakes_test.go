package service

import (
	"context"
	"time"

	"GreenCampus.dumpsterSync/internal/models"
)

type fakeTelemetry struct {
	session    models.Session
	authErr    error
	reading    models.Reading
	entry      models.HarvestEntry
	fetchErr   error
	authCalls  int
	fetchCalls int
	gotSession models.Session
	gotIMSI    string
}

func (f *fakeTelemetry) Authenticate(ctx context.Context, keyID, secret string) (models.Session, error) {
	f.authCalls++
	if f.authErr != nil {
		return models.Session{}, f.authErr
	}
	return f.session, nil
}

func (f *fakeTelemetry) FetchLatest(ctx context.Context, session models.Session, imsi string) (models.Reading, models.HarvestEntry, error) {
	f.fetchCalls++
	f.gotSession = session
	f.gotIMSI = imsi
	if f.fetchErr != nil {
		return models.Reading{}, models.HarvestEntry{}, f.fetchErr
	}
	return f.reading, f.entry, nil
}

type fakeLayer struct {
	features   []models.Feature
	queryErr   error
	result     models.EditResult
	editErr    error
	queries    []string
	editCalls  int
	lastEdited []models.Feature
}

func (f *fakeLayer) Query(ctx context.Context, where string) ([]models.Feature, error) {
	f.queries = append(f.queries, where)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.features, nil
}

func (f *fakeLayer) ApplyEdits(ctx context.Context, updates []models.Feature) (models.EditResult, error) {
	f.editCalls++
	f.lastEdited = updates
	if f.editErr != nil {
		return models.EditResult{}, f.editErr
	}
	return f.result, nil
}

type writtenReading struct {
	bucket  string
	reading models.Reading
	at      time.Time
}

type fakeHistory struct {
	exists    bool
	existsErr error
	createErr error
	writeErr  error
	created   []string
	written   []writtenReading
}

func (f *fakeHistory) WriteReading(ctx context.Context, bucket string, reading models.Reading, at time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, writtenReading{bucket: bucket, reading: reading, at: at})
	return nil
}

func (f *fakeHistory) BucketExists(ctx context.Context, name string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeHistory) CreateBucket(ctx context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	f.exists = true
	return nil
}

func float(v float64) *float64 { return &v }

func dumpsterFeature(id string, objectID int) models.Feature {
	return models.Feature{
		Attributes: map[string]any{
			"OBJECTID":    float64(objectID),
			"Dumpster_ID": id,
			"Fill_Level":  float64(0),
			"Temperature": float64(0),
		},
	}
}
