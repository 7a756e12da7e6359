package tui

import (
	"fmt"
	"sync"

	"pindrop/internal/models"
)

// Initial camera of the map, centred on India.
var (
	DefaultCenter = models.Coordinates{Latitude: 20.5937, Longitude: 78.9629}
	DefaultZoom   = 5
)

// MapView is the terminal stand-in for the map: it only remembers where the
// camera points.
type MapView struct {
	mu     sync.Mutex
	center models.Coordinates
	zoom   int
}

// NewMapView creates a view at the default camera position.
func NewMapView() *MapView {
	return &MapView{center: DefaultCenter, zoom: DefaultZoom}
}

// FlyTo implements pinclient.Map.
func (v *MapView) FlyTo(c models.Coordinates, zoom int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center = c
	v.zoom = zoom
}

// Camera returns the current centre and zoom.
func (v *MapView) Camera() (models.Coordinates, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center, v.zoom
}

func (v *MapView) String() string {
	c, z := v.Camera()
	return fmt.Sprintf("%.4f, %.4f @ zoom %d", c.Latitude, c.Longitude, z)
}
