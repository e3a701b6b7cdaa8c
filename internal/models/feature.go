package models

import "encoding/json"

// Attribute names of the dumpster layer.
const (
	FieldDumpsterID  = "Dumpster_ID"
	FieldFillLevel   = "Fill_Level"
	FieldTemperature = "Temperature"
	FieldLastUpdated = "Last_Updated"
)

// Feature is one record of a feature layer as returned by a query.
type Feature struct {
	Attributes map[string]any  `json:"attributes"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

// EditResult is the applyEdits response of a feature layer.
type EditResult struct {
	AddResults    []EditOutcome `json:"addResults"`
	UpdateResults []EditOutcome `json:"updateResults"`
	DeleteResults []EditOutcome `json:"deleteResults"`
}

// EditOutcome reports the result for a single edited feature.
type EditOutcome struct {
	ObjectID int64        `json:"objectId"`
	GlobalID string       `json:"globalId,omitempty"`
	Success  bool         `json:"success"`
	Error    *EditFailure `json:"error,omitempty"`
}

type EditFailure struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}
