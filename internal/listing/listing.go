// Package listing renders the sidebar list of filtered features.
package listing

import (
	"bytes"
	"html/template"

	"github.com/woozymasta/winemap/internal/geo"
	"github.com/woozymasta/winemap/internal/mapview"
	"github.com/woozymasta/winemap/internal/popup"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Placeholders shown instead of entries.
const (
	NoResults template.HTML = `<p>No results found.</p>`
	LoadError template.HTML = `<p>Error loading data.</p>`
)

// ErrNoEntry is returned when activating an index outside the listing.
var ErrNoEntry = errors.New("no such listing entry")

var tmpl = template.Must(template.New("listing").Parse(
	`{{range $i, $e := .}}` +
		`<div class="listing-item" data-index="{{$i}}">` +
		`<strong>{{$e.Name}}</strong>` +
		`<div class="listing-secondary">{{$e.Secondary}}</div>` +
		`</div>` +
		`{{end}}`))

// Options controls which properties are shown and how entries are ordered.
type Options struct {
	Locale            language.Tag
	NameProperty      string
	SecondaryProperty string
}

// Camera is the fly-to request issued on activation.
type Camera struct {
	Zoom  float64
	Speed float64
}

// Entry is one listed feature.
type Entry struct {
	Properties  map[string]string
	Name        string
	Secondary   string
	Coordinates orb.Point
}

// Listing is an ordered, read-only list of entries.
type Listing struct {
	entries []Entry
}

// New lists features sorted by display name.
func New(features []geo.Feature, opts Options) *Listing {
	sorted := make([]geo.Feature, len(features))
	copy(sorted, features)
	geo.SortByProperty(opts.Locale, sorted, opts.NameProperty)

	entries := make([]Entry, len(sorted))
	for i, f := range sorted {
		entries[i] = Entry{
			Name:        f.Get(opts.NameProperty),
			Secondary:   f.Get(opts.SecondaryProperty),
			Coordinates: f.Coordinates,
			Properties:  f.Properties,
		}
	}

	return &Listing{entries: entries}
}

// Entries returns the entries in display order.
func (l *Listing) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Listing) Len() int { return len(l.entries) }

// Render returns the listing HTML, or the NoResults placeholder.
func (l *Listing) Render() template.HTML {
	if len(l.entries) == 0 {
		return NoResults
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, l.entries); err != nil {
		log.Error().Err(err).Msg("Failed to render listing")
		return NoResults
	}

	return template.HTML(buf.String())
}

// Activate centers the map on entry i and opens its popup.
func (l *Listing) Activate(i int, m mapview.Map, f *popup.Formatter, cam Camera) error {
	if i < 0 || i >= len(l.entries) {
		return errors.Wrapf(ErrNoEntry, "index %d of %d", i, len(l.entries))
	}

	e := l.entries[i]
	m.FlyTo(e.Coordinates, cam.Zoom, cam.Speed)
	m.ShowPopup(e.Coordinates, f.Format(e.Properties))

	return nil
}
