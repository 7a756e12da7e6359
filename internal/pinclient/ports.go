package pinclient

import (
	"context"

	"pindrop/internal/models"
)

// Store is the durable key-value capability the pin list is mirrored into.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// AddressResolver turns coordinates into a human-readable address.
type AddressResolver interface {
	ResolveAddress(ctx context.Context, lat, lon float64) (string, error)
}

// Map is the part of the map view the client drives.
type Map interface {
	FlyTo(c models.Coordinates, zoom int)
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type noopMap struct{}

func (noopMap) FlyTo(models.Coordinates, int) {}
