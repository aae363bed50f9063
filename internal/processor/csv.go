package processor

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/woozymasta/winemap/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrMissingColumn is returned when a coordinate column is not in the header.
var ErrMissingColumn = errors.New("missing coordinate column")

// CSVOptions names the coordinate columns of a spreadsheet export.
type CSVOptions struct {
	LonColumn string
	LatColumn string
	Comma     rune
}

// ConvertCSV reads a header row followed by one location per row.
// Coordinate columns become the point geometry, every other column a property.
// Rows with unparsable or out of range coordinates are skipped.
func ConvertCSV(r io.Reader, opts CSVOptions) (*geojson.FeatureCollection, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err != nil {
		return nil, 0, errors.Wrap(err, "read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	lonIdx, latIdx := index(header, opts.LonColumn), index(header, opts.LatColumn)
	if lonIdx < 0 {
		return nil, 0, errors.Wrapf(ErrMissingColumn, "%q", opts.LonColumn)
	}
	if latIdx < 0 {
		return nil, 0, errors.Wrapf(ErrMissingColumn, "%q", opts.LatColumn)
	}

	var features []geo.Feature
	skipped := 0

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrapf(err, "line %d", line)
		}

		p, ok := point(rec, lonIdx, latIdx)
		if !ok {
			log.Warn().Int("line", line).Msg("Skipping row: invalid coordinates")
			skipped++
			continue
		}

		props := make(map[string]string, len(header))
		for i, name := range header {
			if i == lonIdx || i == latIdx || i >= len(rec) || name == "" {
				continue
			}
			props[name] = rec[i]
		}

		features = append(features, geo.Feature{Coordinates: p, Properties: props})
	}

	return geo.ToCollection(Normalize(features, geo.NameProperty)), skipped, nil
}

func index(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func point(rec []string, lonIdx, latIdx int) (orb.Point, bool) {
	if lonIdx >= len(rec) || latIdx >= len(rec) {
		return orb.Point{}, false
	}

	lon, err1 := strconv.ParseFloat(strings.TrimSpace(rec[lonIdx]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
	if err1 != nil || err2 != nil {
		return orb.Point{}, false
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return orb.Point{}, false
	}

	return orb.Point{lon, lat}, true
}
