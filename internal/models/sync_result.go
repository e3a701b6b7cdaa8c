package models

// UpdateOutcome describes the feature write of a successful run.
type UpdateOutcome struct {
	DumpsterID  string   `json:"dumpsterId"`
	ObjectID    int64    `json:"objectId"`
	FillLevel   *float64 `json:"fillLevel"`
	Temperature *float64 `json:"temperature"`
	LastUpdated int64    `json:"lastUpdated"` // epoch millis
}

// SyncResult is returned by a complete run and by the sync trigger.
type SyncResult struct {
	RunID    string `json:"runId"`
	DeviceID string `json:"deviceId"`
	UpdateOutcome
}
