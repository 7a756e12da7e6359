package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGeoCodingService is a mock implementation of the GeoCodingService interface
type MockGeoCodingService struct {
	mock.Mock
}

func (m *MockGeoCodingService) ReverseGeocode(ctx context.Context, lat string, lon string) (json.RawMessage, error) {
	args := m.Called(ctx, lat, lon)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

func TestReverseGeocodeHandler_ReverseGeocode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		lat            string
		lon            string
		mockBody       json.RawMessage
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing both parameters",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Latitude and longitude are required."}`,
		},
		{
			name:           "missing lon",
			lat:            "12.97",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Latitude and longitude are required."}`,
		},
		{
			name:           "missing lat",
			lon:            "77.59",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Latitude and longitude are required."}`,
		},
		{
			name:           "upstream body is passed through",
			lat:            "12.97",
			lon:            "77.59",
			mockBody:       json.RawMessage(`{"place_id":42,"display_name":"MG Road, Bengaluru"}`),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"place_id":42,"display_name":"MG Road, Bengaluru"}`,
		},
		{
			name:           "service error",
			lat:            "12.97",
			lon:            "77.59",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to fetch address from API."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockGeoCodingService)
			handler := NewReverseGeocodeHandler(mockSvc)

			valid := tt.lat != "" && tt.lon != ""
			if valid {
				mockSvc.On("ReverseGeocode", mock.Anything, tt.lat, tt.lon).Return(tt.mockBody, tt.mockError)
			}

			// Create request
			req := httptest.NewRequest(http.MethodGet, "/reverse-geocode", nil)
			q := req.URL.Query()
			if tt.lat != "" {
				q.Add("lat", tt.lat)
			}
			if tt.lon != "" {
				q.Add("lon", tt.lon)
			}
			req.URL.RawQuery = q.Encode()
			w := httptest.NewRecorder()

			// Create Gin context
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			// Execute
			handler.ReverseGeocode(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			if valid {
				mockSvc.AssertExpectations(t)
			} else {
				mockSvc.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
