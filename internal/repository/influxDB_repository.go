// internal/repository/influxDB_repository.go

package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"GreenCampus.dumpsterSync/internal/models"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement every reading is written to.
const readingMeasurement = "dumpster_readings"

var errEmptyReading = errors.New("reading has neither fullness, temperature nor status")

// Repository stores the history of synced readings.
type Repository interface {
	WriteReading(ctx context.Context, bucket string, reading models.Reading, at time.Time) error
	BucketExists(ctx context.Context, name string) (bool, error)
	CreateBucket(ctx context.Context, name string) error
}

// InfluxDBRepository is a repository for writing readings to InfluxDB.
type InfluxDBRepository struct {
	client influxdb2.Client
	org    string
}

// NewInfluxDBRepository creates a new InfluxDBRepository.
func NewInfluxDBRepository(url, token, org string) *InfluxDBRepository {
	client := influxdb2.NewClient(url, token)
	return &InfluxDBRepository{
		client: client,
		org:    org,
	}
}

// Close releases the client's resources.
func (r *InfluxDBRepository) Close() {
	r.client.Close()
}

// WriteReading writes one reading as a point tagged with the sensor id.
func (r *InfluxDBRepository) WriteReading(ctx context.Context, bucket string, reading models.Reading, at time.Time) error {
	p, err := NewReadingPoint(reading, at)
	if err != nil {
		return err
	}

	writeAPI := r.client.WriteAPIBlocking(r.org, bucket)
	if err := writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	log.Printf("Reading written to InfluxDB, bucket: %s, id: %s, time: %s\n", bucket, reading.ID, at.Format(time.RFC3339))
	return nil
}

// NewReadingPoint maps a reading to a point. Absent values are left out.
func NewReadingPoint(reading models.Reading, at time.Time) (*write.Point, error) {
	fields := make(map[string]interface{})
	if reading.Fullness != nil {
		fields["fullness"] = *reading.Fullness
	}
	if reading.Temperature != nil {
		fields["temperature"] = *reading.Temperature
	}
	if reading.Status != "" {
		fields["status"] = reading.Status
	}
	if len(fields) == 0 {
		return nil, errEmptyReading
	}

	return influxdb2.NewPoint(
		readingMeasurement,
		map[string]string{"device_id": string(reading.ID)}, // tags
		fields,
		at,
	), nil
}

// BucketExists checks if a bucket exists in InfluxDB.
func (r *InfluxDBRepository) BucketExists(ctx context.Context, name string) (bool, error) {
	bucketsAPI := r.client.BucketsAPI()
	_, err := bucketsAPI.FindBucketByName(ctx, name)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	return true, nil
}

// CreateBucket creates a new bucket in InfluxDB.
func (r *InfluxDBRepository) CreateBucket(ctx context.Context, name string) error {
	orgAPI := r.client.OrganizationsAPI()

	// Find Organization
	org, err := orgAPI.FindOrganizationByName(ctx, r.org)
	if err != nil {
		log.Printf("Error finding organization '%s': %v", r.org, err)
		return err
	}
	if org == nil {
		return fmt.Errorf("organization '%s' not found", r.org)
	}

	bucketsAPI := r.client.BucketsAPI()
	_, err = bucketsAPI.CreateBucketWithName(ctx, org, name)
	if err != nil {
		log.Printf("Error creating bucket: %v", err)
		return err
	}

	log.Printf("✅ Bucket '%s' created successfully.", name)
	return nil
}
