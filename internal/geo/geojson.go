// Package geo handles location features and their GeoJSON representation.
package geo

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NameProperty is the property used to label and identify a feature.
const NameProperty = "Name"

// ErrNotCollection is returned when a document is not a GeoJSON FeatureCollection.
var ErrNotCollection = errors.New("not a GeoJSON feature collection")

// Feature is a single mapped location with flat string properties.
type Feature struct {
	Properties  map[string]string
	Coordinates orb.Point // [Lon, Lat]
}

// Get returns the raw value of a property, or an empty string if absent.
func (f Feature) Get(property string) string {
	return f.Properties[property]
}

// Value returns the trimmed value of a property.
func (f Feature) Value(property string) string {
	return strings.TrimSpace(f.Properties[property])
}

// Decode parses a GeoJSON FeatureCollection document into features.
// Features without a Point geometry are skipped.
func Decode(data []byte) ([]Feature, *geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, nil, errors.Wrap(ErrNotCollection, err.Error())
	}
	if fc.Type != "FeatureCollection" {
		return nil, nil, errors.Wrapf(ErrNotCollection, "type=%q", fc.Type)
	}

	return FromCollection(fc), fc, nil
}

// FromCollection converts point features of an orb collection, preserving order.
func FromCollection(fc *geojson.FeatureCollection) []Feature {
	features := make([]Feature, 0, len(fc.Features))

	for i, f := range fc.Features {
		if f == nil {
			continue
		}

		point, ok := f.Geometry.(orb.Point)
		if !ok {
			log.Debug().
				Int("index", i).
				Str("geometry", geometryType(f.Geometry)).
				Msg("Skipping feature: not a point")
			continue
		}

		features = append(features, Feature{
			Coordinates: point,
			Properties:  Stringify(f.Properties),
		})
	}

	return features
}

// ToCollection builds a FeatureCollection from features with their string properties.
func ToCollection(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gf := geojson.NewFeature(f.Coordinates)
		for k, v := range f.Properties {
			gf.Properties[k] = v
		}
		fc.Append(gf)
	}

	return fc
}

// Stringify flattens GeoJSON properties into strings.
// Numbers use their shortest form, booleans become true/false,
// null values and nested objects or arrays are dropped.
func Stringify(props geojson.Properties) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		}
	}

	return out
}

// Bounds returns the bounding box of all feature coordinates.
func Bounds(features []Feature) orb.Bound {
	mp := make(orb.MultiPoint, 0, len(features))
	for _, f := range features {
		mp = append(mp, f.Coordinates)
	}

	return mp.Bound()
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "null"
	}

	return g.GeoJSONType()
}
