package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"GreenCampus.dumpsterSync/internal/models"
)

// Layer is a handle on one feature layer of a feature service.
type Layer struct {
	client *Client
	URL    string
	Name   string
}

type queryResponse struct {
	ObjectIDFieldName string           `json:"objectIdFieldName"`
	Features          []models.Feature `json:"features"`
}

// Query returns the features matching the where clause, with all fields.
func (l *Layer) Query(ctx context.Context, where string) ([]models.Feature, error) {
	params := l.client.params()
	params["where"] = where
	params["outFields"] = "*"
	params["returnGeometry"] = "true"

	resp, err := l.client.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(l.URL + "/query")

	var result queryResponse
	if err := decode(resp, err, &result); err != nil {
		return nil, fmt.Errorf("query %q failed: %w", where, err)
	}
	return result.Features, nil
}

// ApplyEdits submits updated features and returns the per-feature results.
func (l *Layer) ApplyEdits(ctx context.Context, updates []models.Feature) (models.EditResult, error) {
	encoded, err := json.Marshal(updates)
	if err != nil {
		return models.EditResult{}, fmt.Errorf("could not encode updates: %w", err)
	}

	form := l.client.params()
	form["updates"] = string(encoded)

	resp, err := l.client.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(l.URL + "/applyEdits")

	var result models.EditResult
	if err := decode(resp, err, &result); err != nil {
		return models.EditResult{}, fmt.Errorf("applyEdits failed: %w", err)
	}
	return result, nil
}

// EqualsClause builds a where clause matching field to a string value.
func EqualsClause(field, value string) string {
	return fmt.Sprintf("%s = '%s'", field, strings.ReplaceAll(value, "'", "''"))
}
