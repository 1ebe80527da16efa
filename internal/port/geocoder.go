package port

import (
	"context"
	"errors"

	"restorag/internal/domain"
)

// ErrPlaceNotFound is returned when a free-text place cannot be resolved to
// coordinates.
var ErrPlaceNotFound = errors.New("place not found")

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (domain.Coord, error)
}
