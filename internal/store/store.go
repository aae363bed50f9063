// Package store loads the location features once and exposes them read-only.
package store

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/woozymasta/winemap/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrFetch is returned when the source could not be read.
	ErrFetch = errors.New("geodata fetch failed")
	// ErrInvalidPayload is returned when the source is not a GeoJSON feature collection.
	ErrInvalidPayload = errors.New("geodata payload invalid")
)

// Error is a load failure of one source. It matches both its kind
// (ErrFetch or ErrInvalidPayload) and the underlying cause.
type Error struct {
	Kind   error
	Source string
	Err    error
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Source + ": " + e.Err.Error()
}

// Unwrap returns the kind and the cause.
func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// Store is an immutable ordered sequence of features.
type Store struct {
	collection *geojson.FeatureCollection
	features   []geo.Feature
	source     string
}

// Loader fetches geodata sources.
type Loader struct {
	Client *http.Client
}

// NewLoader returns a loader using client, or http.DefaultClient if nil.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}

	return &Loader{Client: client}
}

// Load reads source (http(s) URL or local path) and parses it into a Store.
func (l *Loader) Load(ctx context.Context, source string) (*Store, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, &Error{Kind: ErrFetch, Source: source, Err: err}
	}

	features, fc, err := geo.Decode(data)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidPayload, Source: source, Err: err}
	}

	log.Debug().
		Str("source", source).
		Int("features", len(features)).
		Int("skipped", len(fc.Features)-len(features)).
		Msg("Geodata loaded")

	return New(source, features, fc), nil
}

// New wraps already decoded features. The slice is copied.
func New(source string, features []geo.Feature, fc *geojson.FeatureCollection) *Store {
	if fc == nil {
		fc = geo.ToCollection(features)
	}

	own := make([]geo.Feature, len(features))
	copy(own, features)

	return &Store{source: source, features: own, collection: fc}
}

// Features returns a copy of the feature sequence in source order.
func (s *Store) Features() []geo.Feature {
	out := make([]geo.Feature, len(s.features))
	copy(out, s.features)
	return out
}

// Len returns the number of features.
func (s *Store) Len() int { return len(s.features) }

// Source returns where the features were loaded from.
func (s *Store) Source() string { return s.source }

// Collection returns the decoded collection handed to the map.
func (s *Store) Collection() *geojson.FeatureCollection { return s.collection }

// Bounds returns the bounding box of all features.
func (s *Store) Bounds() orb.Bound { return geo.Bounds(s.features) }

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
