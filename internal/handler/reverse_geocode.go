package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	errMissingCoordinates = "Latitude and longitude are required."
	errUpstreamFailure    = "Failed to fetch address from API."
)

// ReverseGeocodeHandler handles reverse geocoding requests
type ReverseGeocodeHandler struct {
	service GeoCodingService
}

// Service interface for dependency injection
type GeoCodingService interface {
	ReverseGeocode(ctx context.Context, lat, lon string) (json.RawMessage, error)
}

// NewReverseGeocodeHandler creates a new reverse geocode handler
func NewReverseGeocodeHandler(svc GeoCodingService) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{service: svc}
}

// ReverseGeocode handles GET /reverse-geocode requests
//
//	@Summary		Reverse geocode a coordinate pair
//	@Description	Forwards lat/lon to the upstream provider and returns its JSON document unchanged.
//	@Tags			geocoding
//	@Produce		json
//	@Param			lat	query		string	true	"Latitude"
//	@Param			lon	query		string	true	"Longitude"
//	@Success		200	{object}	map[string]any
//	@Failure		400	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/reverse-geocode [get]
func (h *ReverseGeocodeHandler) ReverseGeocode(c *gin.Context) {
	lat := c.Query("lat")
	lon := c.Query("lon")

	if lat == "" || lon == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMissingCoordinates})
		return
	}

	body, err := h.service.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		log.Error().Err(err).Str("lat", lat).Str("lon", lon).Msg("error while fetching geocode")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errUpstreamFailure})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
