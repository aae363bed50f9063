// Package processor prepares the geodata served to the widget.
package processor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/winemap/internal/config"
	"github.com/woozymasta/winemap/internal/geo"
	"github.com/woozymasta/winemap/internal/store"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrNoSource is returned when the configuration names no upstream geodata.
var ErrNoSource = errors.New("no geodata source configured")

// ProcessLocations fetches the configured geodata, normalizes it and writes it to dest.
// An existing dest is kept unless force is set.
func ProcessLocations(ctx context.Context, l *store.Loader, cfg *config.Config, dest string, force bool) error {
	if _, err := os.Stat(dest); err == nil && !force {
		log.Debug().Str("path", dest).Msg("Locations file exists, skipping")
		return nil
	}

	source := cfg.Data.URL
	if source == "" {
		return ErrNoSource
	}

	log.Info().
		Str("source", source).
		Str("dest", dest).
		Msg("Processing locations")

	s, err := l.Load(ctx, source)
	if err != nil {
		return err
	}

	features := Normalize(s.Features(), cfg.Identity)

	log.Info().
		Int("loaded", s.Len()).
		Int("kept", len(features)).
		Msg("Locations normalized")

	return SaveGeoJSON(dest, geo.ToCollection(features))
}

// Normalize trims every property and drops blank ones.
// Features never lose their place; a blank identity is only reported.
func Normalize(features []geo.Feature, identity string) []geo.Feature {
	out := make([]geo.Feature, 0, len(features))

	for i, f := range features {
		props := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			key := strings.TrimSpace(k)
			val := strings.TrimSpace(v)
			if key == "" || val == "" {
				continue
			}
			props[key] = val
		}

		if props[identity] == "" {
			log.Warn().Int("index", i).Str("property", identity).Msg("Feature has no identity, it will not match map filters")
		}

		out = append(out, geo.Feature{Coordinates: f.Coordinates, Properties: props})
	}

	return out
}

// SaveGeoJSON marshals the feature collection and writes it to disk.
func SaveGeoJSON(path string, fc *geojson.FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
