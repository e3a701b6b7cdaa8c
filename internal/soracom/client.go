// Package soracom talks to the Soracom API: it exchanges an auth key for a
// session and reads the latest Harvest entry of a subscriber.
package soracom

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"GreenCampus.dumpsterSync/internal/models"
	"github.com/go-resty/resty/v2"
)

const (
	authPath = "/v1/auth"
	dataPath = "/v1/data/Subscriber/{imsi}"
)

// Client is a Soracom API client bound to one API endpoint.
type Client struct {
	http *resty.Client
}

// NewClient creates a new Client for baseURL, e.g. https://g.api.soracom.io.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

// Authenticate exchanges the auth key pair for a short-lived session.
func (c *Client) Authenticate(ctx context.Context, keyID, secret string) (models.Session, error) {
	log.Println("Authenticating with Soracom...")

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.AuthRequest{AuthKeyID: keyID, AuthKey: secret}).
		Post(authPath)
	if err != nil {
		log.Printf("Error authenticating with Soracom: %v", err)
		return models.Session{}, models.NewSyncError(models.ErrorCodeTransportFailure, "soracom auth request failed", nil, err)
	}
	if resp.IsError() {
		log.Printf("Error authenticating with Soracom: %s", resp.Status())
		log.Printf("Error details: %s", resp.String())
		return models.Session{}, models.NewSyncError(models.ErrorCodeAuthFailure,
			fmt.Sprintf("soracom auth rejected with status %d", resp.StatusCode()), errorDetails(resp), nil)
	}
	var session models.Session
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		log.Printf("Error authenticating with Soracom: %v", err)
		return models.Session{}, models.NewSyncError(models.ErrorCodeAuthFailure, "soracom auth response is not JSON", nil, err)
	}
	if session.APIKey == "" || session.Token == "" {
		log.Printf("Error authenticating with Soracom: response has no apiKey/token")
		return models.Session{}, models.NewSyncError(models.ErrorCodeAuthFailure, "soracom auth response is missing apiKey or token", nil, nil)
	}

	log.Println("Successfully authenticated.")
	return session, nil
}

// FetchLatest reads the most recent Harvest entry of the subscriber imsi and
// decodes its payload. It never returns an unparsed payload.
func (c *Client) FetchLatest(ctx context.Context, session models.Session, imsi string) (models.Reading, models.HarvestEntry, error) {
	log.Printf("Fetching data from Soracom for SIM: %s...", imsi)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(session.Headers()).
		SetPathParam("imsi", imsi).
		SetQueryParam("limit", "1").
		Get(dataPath)
	if err != nil {
		log.Printf("Error fetching from Soracom: %v", err)
		return models.Reading{}, models.HarvestEntry{}, models.NewSyncError(models.ErrorCodeTransportFailure, "soracom data request failed", nil, err)
	}
	if resp.IsError() {
		log.Printf("Error fetching from Soracom: %s", resp.Status())
		return models.Reading{}, models.HarvestEntry{}, models.NewSyncError(models.ErrorCodeTransportFailure,
			fmt.Sprintf("soracom data request returned status %d", resp.StatusCode()), errorDetails(resp), nil)
	}

	var entries []models.HarvestEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		log.Printf("Error: Could not decode Soracom data listing: %v", err)
		return models.Reading{}, models.HarvestEntry{}, models.NewSyncError(models.ErrorCodeParseFailure, "soracom data listing is not a JSON array", nil, err)
	}
	if len(entries) == 0 {
		log.Println("No data returned from Soracom.")
		return models.Reading{}, models.HarvestEntry{}, models.NewSyncError(models.ErrorCodeEmptyResult, "no data returned from soracom", nil, nil)
	}

	latest := entries[0]
	payload := latest.Payload()
	reading, err := models.DecodeReading(payload)
	if err != nil {
		log.Printf("Error: Could not parse Soracom data: %s (%v)", payload, err)
		return models.Reading{}, models.HarvestEntry{}, models.NewSyncError(models.ErrorCodeParseFailure, "could not parse soracom data", nil, err)
	}

	log.Printf("Successfully fetched data: %s", payload)
	return reading, latest, nil
}

// errorDetails keeps the server's error body, decoded when it is JSON.
func errorDetails(resp *resty.Response) any {
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}
	return string(body)
}
