package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"restorag/internal/domain"
	"restorag/internal/port"
)

const earthRadiusKm = 6371.0

// NotFoundReason explains why no nearest restaurant could be computed.
type NotFoundReason string

const (
	ReasonUnresolvablePlace NotFoundReason = "unresolvable_place"
	ReasonNoCandidates      NotFoundReason = "no_geo_candidates"
)

// NotFoundError is the non-fatal outcome of a nearest lookup. Callers can
// render it to the user; it never aborts a conversation.
type NotFoundError struct {
	Place  string
	Reason NotFoundReason
}

func (e *NotFoundError) Error() string {
	switch e.Reason {
	case ReasonUnresolvablePlace:
		return fmt.Sprintf("place %q could not be geocoded", e.Place)
	case ReasonNoCandidates:
		return "no restaurant has known coordinates"
	default:
		return fmt.Sprintf("nearest lookup failed for %q", e.Place)
	}
}

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Locator finds the restaurant closest to a user-supplied place name.
type Locator struct {
	geocoder port.Geocoder
	logger   *slog.Logger
}

func NewLocator(geocoder port.Geocoder, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{geocoder: geocoder, logger: logger}
}

// Nearest geocodes the place and returns the candidate with the smallest
// great-circle distance. Candidates without coordinates are skipped. An
// unresolvable place or an all-uncoordinated candidate list yields a
// *NotFoundError.
func (l *Locator) Nearest(ctx context.Context, place string, candidates []domain.GeoEntity) (domain.NearestResult, error) {
	coord, err := l.geocoder.Geocode(ctx, place)
	if err != nil {
		if errors.Is(err, port.ErrPlaceNotFound) {
			l.logger.Info("place not geocodable", "place", place)
			return domain.NearestResult{}, &NotFoundError{Place: place, Reason: ReasonUnresolvablePlace}
		}
		return domain.NearestResult{}, fmt.Errorf("geocoding %q: %w", place, err)
	}

	result, err := NearestTo(coord.Lat, coord.Lon, candidates)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.Place = place
		}
		return domain.NearestResult{}, err
	}
	return result, nil
}

// NearestTo is the pure half of Nearest: given resolved coordinates it
// picks the closest candidate, with the distance rounded to one decimal.
func NearestTo(lat, lon float64, candidates []domain.GeoEntity) (domain.NearestResult, error) {
	best := domain.NearestResult{DistanceKm: -1}
	for _, cand := range candidates {
		if cand.Coord == nil {
			continue
		}
		d := Haversine(lat, lon, cand.Coord.Lat, cand.Coord.Lon)
		if best.DistanceKm < 0 || d < best.DistanceKm {
			best = domain.NearestResult{Entity: cand, DistanceKm: d}
		}
	}

	if best.DistanceKm < 0 {
		return domain.NearestResult{}, &NotFoundError{Reason: ReasonNoCandidates}
	}

	best.DistanceKm = math.Round(best.DistanceKm*10) / 10
	return best, nil
}
