package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/winemap/internal/geo"

	"github.com/pkg/errors"
)

const wineries = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-122.27, 37.87]}, "properties": {"Name": "Alpha", "Community": "Napa"}},
  {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-122.30, 38.10]}, "properties": {"Name": "Beta", "Community": "Sonoma"}}
]}`

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/map.geojson":
			w.Header().Set("Content-Type", "application/geo+json")
			_, _ = w.Write([]byte(wineries))
		case "/broken.geojson":
			_, _ = w.Write([]byte(`<html>oops</html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())

	s, err := l.Load(context.Background(), srv.URL+"/map.geojson")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 features, got %d", s.Len())
	}
	if got := s.Features()[1].Get(geo.NameProperty); got != "Beta" {
		t.Errorf("second feature = %q", got)
	}
	if len(s.Collection().Features) != 2 {
		t.Errorf("raw collection has %d features", len(s.Collection().Features))
	}
	if s.Bounds().IsEmpty() {
		t.Error("bounds should not be empty")
	}

	_, err = l.Load(context.Background(), srv.URL+"/missing.geojson")
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch for 404, got %v", err)
	}

	_, err = l.Load(context.Background(), srv.URL+"/broken.geojson")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.geojson")
	if err := os.WriteFile(path, []byte(wineries), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Source() != path {
		t.Errorf("source = %q", s.Source())
	}

	_, err = NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.geojson"))
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch for missing file, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestLoadKeepsCause(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(wineries))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(srv.Client()).Load(ctx, srv.URL)
	if !errors.Is(err, ErrFetch) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected ErrFetch wrapping context.Canceled, got %v", err)
	}

	var loadErr *Error
	if !errors.As(err, &loadErr) || loadErr.Source != srv.URL {
		t.Errorf("expected *Error for %s, got %#v", srv.URL, err)
	}
}

func TestFeaturesIsCopy(t *testing.T) {
	s, _ := NewLoader(nil).Load(context.Background(), writeTemp(t))

	got := s.Features()
	got[0] = geo.Feature{}

	if s.Features()[0].Get(geo.NameProperty) != "Alpha" {
		t.Error("store was mutated through Features()")
	}
}

func writeTemp(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.geojson")
	if err := os.WriteFile(path, []byte(wineries), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
