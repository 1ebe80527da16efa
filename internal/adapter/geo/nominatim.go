package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
	"restorag/internal/domain"
	"restorag/internal/port"
)

// NominatimGeocoder resolves free-text place names against the Nominatim
// search API, constrained to one country for precision. Requests are
// serialized through a rate limiter because the provider's usage policy
// allows at most one request per second.
type NominatimGeocoder struct {
	baseURL      string
	countryCodes string
	userAgent    string
	limiter      *rate.Limiter
	client       *http.Client
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatimGeocoder creates a geocoder. ratePerSec <= 0 defaults to the
// provider policy of 1 req/s.
func NewNominatimGeocoder(baseURL, countryCodes, userAgent string, ratePerSec float64) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &NominatimGeocoder{
		baseURL:      baseURL,
		countryCodes: countryCodes,
		userAgent:    userAgent,
		limiter:      rate.NewLimiter(rate.Limit(ratePerSec), 1),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) (domain.Coord, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return domain.Coord{}, err
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")
	if g.countryCodes != "" {
		params.Set("countrycodes", g.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Coord{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Coord{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Coord{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Coord{}, fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return domain.Coord{}, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if len(results) == 0 {
		return domain.Coord{}, port.ErrPlaceNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coord{}, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coord{}, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	return domain.Coord{Lat: lat, Lon: lon}, nil
}
