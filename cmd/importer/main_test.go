package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pindrop/internal/models"
	"pindrop/internal/pinclient"
	"pindrop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	tests := []struct {
		name        string
		csv         string
		expected    []PinRecord
		expectError bool
	}{
		{
			name: "with and without remark",
			csv:  "lat,lon,remark\n12.97,77.59,Lunch spot\n 13.0 , 77.6\n",
			expected: []PinRecord{
				{Lat: 12.97, Lon: 77.59, Remark: "Lunch spot"},
				{Lat: 13.0, Lon: 77.6},
			},
		},
		{name: "header only", csv: "lat,lon,remark\n", expected: nil},
		{name: "empty file", csv: "", expectError: true},
		{name: "bad latitude", csv: "lat,lon\nx,1\n", expectError: true},
		{name: "bad longitude", csv: "lat,lon\n1,y\n", expectError: true},
		{name: "too few columns", csv: "lat,lon\n1\n", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readRecords(strings.NewReader(tt.csv))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestImportRecords(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "13" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to fetch address from API."}`))
			return
		}
		_, _ = w.Write([]byte(`{"display_name":"MG Road, Bengaluru"}`))
	}))
	defer relay.Close()

	ctx := context.Background()
	store := repository.NewMemoryStore()
	client := pinclient.New(ctx, store, pinclient.NewRelayClient(relay.URL, nil))

	records := []PinRecord{
		{Lat: 12.97, Lon: 77.59, Remark: "Lunch spot"},
		{Lat: 13, Lon: 77.6, Remark: "Dinner"},
	}
	require.NoError(t, importRecords(ctx, client, records))

	assert.Equal(t, []models.Pin{
		{Latitude: 12.97, Longitude: 77.59, Remark: "Lunch spot", Address: "MG Road, Bengaluru"},
		{Latitude: 13, Longitude: 77.6, Remark: "Dinner", Address: pinclient.AddressFetchError},
	}, client.Pins())

	assert.NoError(t, verifyImport(ctx, store, 2))
	assert.Error(t, verifyImport(ctx, store, 3))
}
