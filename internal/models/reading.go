package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DumpsterKeyPrefix is prepended to the sensor id to build the feature key.
const DumpsterKeyPrefix = "D-"

var (
	// ErrMissingID is returned by FeatureKey when the reading has no id.
	ErrMissingID = errors.New("'id' not found in telemetry data")
	// ErrNoPayload means the Harvest entry carried neither parsedData nor content.
	ErrNoPayload = errors.New("entry has no parsedData or content")
)

// DeviceID is the sensor id reported by the firmware. Devices send it either
// as a JSON string or a JSON number; both are kept as text.
type DeviceID string

func (d *DeviceID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DeviceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*d = DeviceID(n.String())
	return nil
}

// Reading is the latest telemetry record of one dumpster sensor.
type Reading struct {
	ID          DeviceID `json:"id"`
	Fullness    *float64 `json:"fullness"`    // fill level, percent
	Temperature *float64 `json:"temperature"` // degrees as sent by the sensor
	Status      string   `json:"status,omitempty"`
	Time        string   `json:"time,omitempty"` // ISO-8601, set by the modem clock
}

// FeatureKey derives the Dumpster_ID of the feature this reading belongs to.
func (r Reading) FeatureKey() (string, error) {
	if r.ID == "" {
		return "", ErrMissingID
	}
	return DumpsterKeyPrefix + string(r.ID), nil
}

// Timestamp returns the device time of the reading, or fallback when the
// device did not send a usable one.
func (r Reading) Timestamp(fallback time.Time) time.Time {
	if r.Time == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, r.Time)
	if err != nil || t.Unix() <= 0 {
		return fallback
	}
	return t
}

// DecodeReading turns a Harvest payload into a Reading. The payload is either
// a JSON object or a JSON string that itself holds a JSON object; anything
// else is an error.
func DecodeReading(raw json.RawMessage) (Reading, error) {
	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return Reading{}, ErrNoPayload
	}

	if payload[0] == '"' {
		var text string
		if err := json.Unmarshal(payload, &text); err != nil {
			return Reading{}, fmt.Errorf("invalid string payload: %w", err)
		}
		payload = bytes.TrimSpace([]byte(text))
	}

	if len(payload) == 0 || payload[0] != '{' {
		return Reading{}, fmt.Errorf("payload is not a JSON object: %q", payload)
	}

	var reading Reading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return Reading{}, fmt.Errorf("could not parse telemetry data: %w", err)
	}
	return reading, nil
}
