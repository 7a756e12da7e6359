package pinclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RelayClient resolves addresses through the relay's /reverse-geocode route.
type RelayClient struct {
	baseURL string
	http    *http.Client
}

// NewRelayClient creates a relay client. A nil httpClient uses http.DefaultClient.
func NewRelayClient(baseURL string, httpClient *http.Client) *RelayClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RelayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type reverseGeocodeResponse struct {
	DisplayName string `json:"display_name"`
}

// ResolveAddress returns the display_name of the relay's answer, or
// AddressNotFound when the answer has none. Transport failures, non-2xx
// answers and unparseable bodies are errors.
func (r *RelayClient) ResolveAddress(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	reqURL := fmt.Sprintf("%s/reverse-geocode?%s", r.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("pinclient: failed to build relay request: %w", err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinclient: relay request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("pinclient: relay answered %s", resp.Status)
	}

	var body reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("pinclient: failed to decode relay answer: %w", err)
	}

	if body.DisplayName == "" {
		return AddressNotFound, nil
	}
	return body.DisplayName, nil
}
