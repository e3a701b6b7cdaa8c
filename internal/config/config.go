package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultSoracomURL   = "https://g.api.soracom.io"
	DefaultArcGISURL    = "https://www.arcgis.com"
	DefaultInfluxBucket = "dumpster_readings"
	DefaultPort         = "8000"
)

// Config holds the application's configuration.
type Config struct {
	// Telemetry (Soracom Harvest)
	SoracomURL       string
	SoracomAuthKeyID string
	SoracomAuthKey   string
	DeviceID         string // IMSI of the sensor's SIM

	// Feature store (ArcGIS)
	ArcGISURL          string
	ArcGISItemID       string
	ArcGISClientID     string
	ArcGISClientSecret string

	// Optional reading history
	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	// Sync trigger
	Port      string
	JWTSecret string
}

// HistoryEnabled reports whether readings are also written to InfluxDB.
func (c Config) HistoryEnabled() bool {
	return c.InfluxDBURL != ""
}

// LoadConfig loads the configuration from envFile and the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	//load env variables
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("No %s file found, relying on system environment variables", envFile)
		}
	}

	cfg := Config{
		SoracomURL:         getEnv("SORACOM_API_URL", DefaultSoracomURL),
		SoracomAuthKeyID:   os.Getenv("SORACOM_AUTH_KEY_ID"),
		SoracomAuthKey:     os.Getenv("SORACOM_AUTH_KEY"),
		DeviceID:           os.Getenv("SORACOM_IMSI"),
		ArcGISURL:          getEnv("ARCGIS_URL", DefaultArcGISURL),
		ArcGISItemID:       os.Getenv("ARCGIS_ITEM_ID"),
		ArcGISClientID:     os.Getenv("ARCGIS_CLIENT_ID"),
		ArcGISClientSecret: os.Getenv("ARCGIS_CLIENT_SECRET"),
		InfluxDBURL:        os.Getenv("INFLUXDB_URL"),
		InfluxDBToken:      os.Getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:        os.Getenv("INFLUXDB_ORG"),
		InfluxDBBucket:     getEnv("INFLUXDB_BUCKET", DefaultInfluxBucket),
		Port:               getEnv("PORT", DefaultPort),
		JWTSecret:          os.Getenv("SYNC_JWT_SECRET"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type requirement struct {
	name  string
	value string
}

// Validate names every required variable that is missing.
func (c Config) Validate() error {
	required := []requirement{
		{"SORACOM_AUTH_KEY_ID", c.SoracomAuthKeyID},
		{"SORACOM_AUTH_KEY", c.SoracomAuthKey},
		{"SORACOM_IMSI", c.DeviceID},
		{"ARCGIS_ITEM_ID", c.ArcGISItemID},
		{"ARCGIS_CLIENT_ID", c.ArcGISClientID},
		{"ARCGIS_CLIENT_SECRET", c.ArcGISClientSecret},
	}
	if c.HistoryEnabled() {
		required = append(required,
			requirement{"INFLUXDB_TOKEN", c.InfluxDBToken},
			requirement{"INFLUXDB_ORG", c.InfluxDBOrg},
		)
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("configuration is incomplete. Please set %s environment variables", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
