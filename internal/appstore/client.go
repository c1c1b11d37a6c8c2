// Package appstore queries the iTunes lookup API for App Store metadata.
package appstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Error variables for catalog lookups
var (
	// ErrAppNotFound is returned when the lookup yields no results for an ID
	ErrAppNotFound = errors.New("no app found for ID")
	// ErrTransient is returned for network failures, timeouts and bad
	// responses; the caller is expected to retry on its next cycle
	ErrTransient = errors.New("transient app store error")
)

// DefaultBaseURL is the iTunes API endpoint
const DefaultBaseURL = "https://itunes.apple.com"

// DefaultTimeout bounds each lookup call
const DefaultTimeout = 10 * time.Second

// defaultUserAgent mirrors a desktop browser; the lookup API occasionally
// rejects requests without a plausible User-Agent
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// AppRecord holds the metadata returned for a single app.
type AppRecord struct {
	AppID        string
	Name         string
	Developer    string
	Version      string
	Updated      time.Time
	StoreURL     string
	ReleaseNotes string
}

// lookupResponse matches the iTunes lookup/search JSON shape
type lookupResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []lookupResult `json:"results"`
}

type lookupResult struct {
	TrackID                   int64  `json:"trackId"`
	TrackName                 string `json:"trackName"`
	ArtistName                string `json:"artistName"`
	Version                   string `json:"version"`
	CurrentVersionReleaseDate string `json:"currentVersionReleaseDate"`
	TrackViewURL              string `json:"trackViewUrl"`
	ReleaseNotes              string `json:"releaseNotes"`
}

// Client fetches app metadata from the iTunes API. Each call is a single
// attempt bounded by the client timeout; the monitor's next scheduled cycle
// serves as the retry, so no backoff happens here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	country    string
	userAgent  string
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint (useful for testing)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the per-call timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithCountry sets the storefront country code (default "us")
func WithCountry(country string) ClientOption {
	return func(c *Client) {
		c.country = country
	}
}

// NewClient creates an iTunes API client.
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		country:    "us",
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Lookup fetches the current metadata for one app ID.
// It returns ErrAppNotFound when the catalog has no entry for the ID and
// wraps every network-layer or response failure in ErrTransient.
func (c *Client) Lookup(ctx context.Context, appID string) (*AppRecord, error) {
	query := url.Values{}
	query.Set("id", appID)
	query.Set("country", c.country)

	var resp lookupResponse
	if err := c.getJSON(ctx, "/lookup", query, &resp); err != nil {
		return nil, err
	}

	if resp.ResultCount == 0 || len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAppNotFound, appID)
	}

	return recordFromResult(appID, resp.Results[0]), nil
}

// recordFromResult converts an API result into an AppRecord.
// A missing or unparsable release date leaves Updated at its zero value
// rather than failing the lookup; the version field is what matters.
func recordFromResult(appID string, res lookupResult) *AppRecord {
	rec := &AppRecord{
		AppID:        appID,
		Name:         res.TrackName,
		Developer:    res.ArtistName,
		Version:      res.Version,
		StoreURL:     res.TrackViewURL,
		ReleaseNotes: res.ReleaseNotes,
	}

	if res.CurrentVersionReleaseDate != "" {
		if released, err := time.Parse(time.RFC3339, res.CurrentVersionReleaseDate); err == nil {
			rec.Updated = released
		}
	}

	return rec
}

// getJSON issues a single GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			return fmt.Errorf("%w: request timed out: %v", ErrTransient, err)
		}
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrTransient, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrTransient, err)
	}

	return nil
}

// isTimeoutError checks if an error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	type timeoutError interface {
		Timeout() bool
	}
	var te timeoutError
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}
