package processor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/winemap/internal/config"
	"github.com/woozymasta/winemap/internal/geo"
	"github.com/woozymasta/winemap/internal/store"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const upstreamDoc = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-122.27, 37.87]},
   "properties": {"Name": " Alpha ", "Community": "  ", "Phone": 5551234}}
]}`

func TestProcessLocations(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(upstreamDoc))
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.Data.URL = upstream.URL
	dest := filepath.Join(t.TempDir(), "data", "map.geojson")
	l := store.NewLoader(upstream.Client())

	if err := ProcessLocations(context.Background(), l, cfg, dest, false); err != nil {
		t.Fatalf("ProcessLocations failed: %v", err)
	}

	s, err := l.Load(context.Background(), dest)
	if err != nil {
		t.Fatalf("written file does not load: %v", err)
	}
	f := s.Features()[0]
	if f.Get("Name") != "Alpha" || f.Get("Phone") != "5551234" {
		t.Errorf("properties = %v", f.Properties)
	}
	if _, ok := f.Properties["Community"]; ok {
		t.Error("blank property kept")
	}

	// existing file is kept without force
	if err := os.WriteFile(dest, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ProcessLocations(context.Background(), l, cfg, dest, false); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(dest); string(data) != "keep" {
		t.Error("existing file overwritten without force")
	}

	if err := ProcessLocations(context.Background(), l, cfg, dest, true); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(dest); string(data) == "keep" {
		t.Error("force did not overwrite")
	}
}

func TestProcessLocationsNoSource(t *testing.T) {
	cfg := config.Default()
	err := ProcessLocations(context.Background(), store.NewLoader(nil), cfg, filepath.Join(t.TempDir(), "x.geojson"), false)
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}
}

func TestConvertCSV(t *testing.T) {
	in := "\ufeffName,Community,Latitude,Longitude,Link\n" +
		"Alpha,Napa,38.29,-122.28,https://alpha.example\n" +
		"\"Beta, Inc\", Sonoma ,38.44,-122.72,\n" +
		"Broken,Napa,north,-122.0,\n" +
		"Far,Napa,95,0,\n"

	fc, skipped, err := ConvertCSV(strings.NewReader(in), CSVOptions{LonColumn: "longitude", LatColumn: "latitude"})
	if err != nil {
		t.Fatalf("ConvertCSV failed: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d", skipped)
	}

	features := geo.FromCollection(fc)
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}

	a, b := features[0], features[1]
	if !a.Coordinates.Equal(orb.Point{-122.28, 38.29}) {
		t.Errorf("coordinates = %v", a.Coordinates)
	}
	if a.Get("Name") != "Alpha" || a.Get("Link") != "https://alpha.example" {
		t.Errorf("properties = %v", a.Properties)
	}
	if _, ok := a.Properties["Latitude"]; ok {
		t.Error("coordinate column kept as property")
	}
	if b.Get("Name") != "Beta, Inc" || b.Get("Community") != "Sonoma" {
		t.Errorf("properties = %v", b.Properties)
	}
	if _, ok := b.Properties["Link"]; ok {
		t.Error("blank link kept")
	}
}

func TestConvertCSVMissingColumn(t *testing.T) {
	_, _, err := ConvertCSV(strings.NewReader("Name,Lat\nA,1\n"), CSVOptions{LonColumn: "Lon", LatColumn: "Lat"})
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}
