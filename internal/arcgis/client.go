// Package arcgis is a small ArcGIS REST client: app login, item lookup and
// the feature layer operations the sync needs.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"GreenCampus.dumpsterSync/internal/models"
	"github.com/go-resty/resty/v2"
)

const (
	tokenPath = "/sharing/rest/oauth2/token"
	itemPath  = "/sharing/rest/content/items/{itemId}"
)

// Options identify the portal, the app credentials and the content item
// holding the feature layer.
type Options struct {
	PortalURL    string
	ItemID       string
	ClientID     string
	ClientSecret string
}

// RESTError is the error object ArcGIS returns, often with status 200.
type RESTError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *RESTError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("arcgis error %d: %s (%s)", e.Code, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("arcgis error %d: %s", e.Code, e.Message)
}

// Item is the part of a portal item the sync uses.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type serviceInfo struct {
	Layers []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"layers"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Client is an authenticated session against one portal.
type Client struct {
	http  *resty.Client
	token string
}

// NewClient creates a new, not yet authenticated, Client for portalURL.
func NewClient(portalURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(strings.TrimRight(portalURL, "/")),
	}
}

// Login obtains an app token with the client credentials grant.
func (c *Client) Login(ctx context.Context, clientID, clientSecret string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     clientID,
			"client_secret": clientSecret,
			"grant_type":    "client_credentials",
			"f":             "json",
		}).
		Post(tokenPath)

	var token tokenResponse
	if err := decode(resp, err, &token); err != nil {
		return fmt.Errorf("app login failed: %w", err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("app login failed: response has no access_token")
	}
	c.token = token.AccessToken
	return nil
}

// Item retrieves a content item by id.
func (c *Client) Item(ctx context.Context, itemID string) (Item, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("itemId", itemID).
		SetQueryParams(c.params()).
		Get(itemPath)

	var item Item
	if err := decode(resp, err, &item); err != nil {
		return Item{}, fmt.Errorf("could not get item %s: %w", itemID, err)
	}
	if item.URL == "" {
		return Item{}, fmt.Errorf("item %s (%s) has no service url", itemID, item.Type)
	}
	return item, nil
}

// FirstLayer returns a handle on the first layer of the item's service.
func (c *Client) FirstLayer(ctx context.Context, item Item) (*Layer, error) {
	serviceURL := strings.TrimRight(item.URL, "/")
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.params()).
		Get(serviceURL)

	var info serviceInfo
	if err := decode(resp, err, &info); err != nil {
		return nil, fmt.Errorf("could not describe service %s: %w", serviceURL, err)
	}
	if len(info.Layers) == 0 {
		return nil, fmt.Errorf("item %s has no layers", item.ID)
	}

	first := info.Layers[0]
	return &Layer{
		client: c,
		URL:    serviceURL + "/" + strconv.Itoa(first.ID),
		Name:   first.Name,
	}, nil
}

// ConnectLayer logs in with the app credentials and resolves the first layer
// of the configured item. Every failure is reported as a connect failure.
func ConnectLayer(ctx context.Context, opts Options) (*Layer, error) {
	log.Println("--- ArcGIS Authentication ---")
	log.Println("Connecting to ArcGIS Online using Client ID...")

	client := NewClient(opts.PortalURL)
	if err := client.Login(ctx, opts.ClientID, opts.ClientSecret); err != nil {
		return nil, connectFailure(err)
	}
	log.Printf("Successfully connected via App: %s.", opts.ClientID)

	item, err := client.Item(ctx, opts.ItemID)
	if err != nil {
		return nil, connectFailure(err)
	}
	layer, err := client.FirstLayer(ctx, item)
	if err != nil {
		return nil, connectFailure(err)
	}

	log.Printf("Using layer %q at %s", layer.Name, layer.URL)
	return layer, nil
}

func connectFailure(err error) error {
	log.Printf("Error connecting to ArcGIS: %v", err)
	return models.NewSyncError(models.ErrorCodeConnectFailure, "could not connect to arcgis", nil, err)
}

func (c *Client) params() map[string]string {
	params := map[string]string{"f": "json"}
	if c.token != "" {
		params["token"] = c.token
	}
	return params
}

// decode checks the transport error, the HTTP status and the ArcGIS error
// envelope before decoding the body into v.
func decode(resp *resty.Response, err error, v any) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("%s returned status %d: %s", resp.Request.URL, resp.StatusCode(), resp.String())
	}

	var envelope struct {
		Error *RESTError `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), v)
}
