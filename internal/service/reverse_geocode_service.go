package service

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReverseGeoCodeService relays reverse geocoding lookups to the upstream provider
type ReverseGeoCodeService struct {
	upstream UpstreamProvider
}

// UpstreamProvider interface for dependency injection
type UpstreamProvider interface {
	Reverse(ctx context.Context, lat, lon string) (json.RawMessage, error)
}

// NewReverseGeoCodeService creates a new reverse geo code service
func NewReverseGeoCodeService(upstream UpstreamProvider) *ReverseGeoCodeService {
	return &ReverseGeoCodeService{upstream: upstream}
}

// ReverseGeocode returns the upstream document for the given coordinates untouched.
// Coordinates are forwarded as received; the upstream decides what is valid.
func (s *ReverseGeoCodeService) ReverseGeocode(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	if lat == "" || lon == "" {
		return nil, fmt.Errorf("service: latitude and longitude are required")
	}

	body, err := s.upstream.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reverse geocode: %w", err)
	}

	return body, nil
}
