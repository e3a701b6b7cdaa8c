package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// HarvestEntry is one element of the Harvest data listing.
type HarvestEntry struct {
	Time        int64           `json:"time"` // epoch millis, set by Harvest on receipt
	ContentType string          `json:"contentType"`
	Content     json.RawMessage `json:"content"`
	ParsedData  json.RawMessage `json:"parsedData"`
}

// Payload prefers parsedData and falls back to the raw content.
func (e HarvestEntry) Payload() json.RawMessage {
	if present(e.ParsedData) {
		return e.ParsedData
	}
	if present(e.Content) {
		return e.Content
	}
	return nil
}

// ReceivedAt is the Harvest receive time, zero when the entry has none.
func (e HarvestEntry) ReceivedAt() time.Time {
	if e.Time <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.Time)
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
