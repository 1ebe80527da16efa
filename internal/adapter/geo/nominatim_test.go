package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restorag/internal/port"
)

func TestGeocode_ParsesResult(t *testing.T) {
	var gotQuery, gotCodes, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCodes = r.URL.Query().Get("countrycodes")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat": "48.8566", "lon": "2.3522"}]`))
	}))
	defer server.Close()

	g := NewNominatimGeocoder(server.URL, "fr", "test-agent", 100)
	coord, err := g.Geocode(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}

	if coord.Lat != 48.8566 || coord.Lon != 2.3522 {
		t.Errorf("coord = %+v", coord)
	}
	if gotQuery != "Paris" {
		t.Errorf("query param = %q", gotQuery)
	}
	if gotCodes != "fr" {
		t.Errorf("countrycodes = %q", gotCodes)
	}
	if gotAgent != "test-agent" {
		t.Errorf("user agent = %q", gotAgent)
	}
}

func TestGeocode_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	g := NewNominatimGeocoder(server.URL, "fr", "test-agent", 100)
	_, err := g.Geocode(context.Background(), "Nulle-Part-sur-Mer")
	if !errors.Is(err, port.ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestGeocode_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewNominatimGeocoder(server.URL, "fr", "test-agent", 100)
	_, err := g.Geocode(context.Background(), "Paris")
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if errors.Is(err, port.ErrPlaceNotFound) {
		t.Error("server error must not look like a not-found result")
	}
}

func TestGeocode_CanceledContext(t *testing.T) {
	g := NewNominatimGeocoder("http://127.0.0.1:0", "fr", "test-agent", 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Geocode(ctx, "Paris"); err == nil {
		t.Error("expected error with canceled context")
	}
}
