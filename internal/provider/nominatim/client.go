// Package nominatim talks to an OpenStreetMap Nominatim compatible
// reverse-geocoding endpoint.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent identifies this tool as required by the Nominatim usage policy.
const DefaultUserAgent = "PinDropTool/1.0 (contactme@pindroptool.com)"

// ErrInvalidBody is returned when the upstream answers with something that is not JSON.
var ErrInvalidBody = errors.New("nominatim: response body is not valid JSON")

// Client issues reverse-geocoding requests against baseURL.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a client. A zero timeout keeps the transport default.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Reverse fetches the reverse-geocoding document for lat/lon and returns the
// body unmodified. lat and lon are forwarded exactly as given.
func (c *Client) Reverse(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)
	params.Set("format", "json")

	reqURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nominatim: failed to read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("nominatim: unexpected status: %s", resp.Status)
	}

	if !json.Valid(body) {
		return nil, ErrInvalidBody
	}

	return json.RawMessage(body), nil
}
