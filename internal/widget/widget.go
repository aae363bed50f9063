// Package widget owns the feature store and the active selection, and pushes
// every recomputed result to the listing and the map.
package widget

import (
	"context"
	"html/template"
	"strconv"

	"github.com/woozymasta/winemap/internal/config"
	"github.com/woozymasta/winemap/internal/filter"
	"github.com/woozymasta/winemap/internal/listing"
	"github.com/woozymasta/winemap/internal/mapview"
	"github.com/woozymasta/winemap/internal/popup"
	"github.com/woozymasta/winemap/internal/store"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Phase is the load state of the widget.
type Phase string

const (
	PhaseLoading     Phase = "loading"
	PhaseReady       Phase = "ready"
	PhaseUnavailable Phase = "unavailable"
)

var (
	// ErrNotReady is returned for interactions before the features are loaded.
	ErrNotReady = errors.New("widget not ready")
	// ErrUnknownEvent is returned for an event kind the widget does not handle.
	ErrUnknownEvent = errors.New("unknown event")
)

// Source loads the feature store.
type Source interface {
	Load(ctx context.Context, source string) (*store.Store, error)
}

// Widget is the single holder of the application state. It is not safe for
// concurrent use; the host delivers events one at a time.
type Widget struct {
	m         mapview.Map
	cfg       *config.Config
	state     *filter.State
	store     *store.Store
	listing   *listing.Listing
	formatter *popup.Formatter
	options   filter.Options
	collapsed map[string]bool
	expr      mapview.Expression
	err       error
	phase     Phase
	sidebar   bool
}

// New returns a widget in the loading phase.
func New(cfg *config.Config, m mapview.Map) *Widget {
	return &Widget{
		cfg:       cfg,
		m:         m,
		state:     filter.NewState(cfg.Attributes),
		formatter: cfg.Formatter(),
		collapsed: make(map[string]bool, len(cfg.Attributes)),
		listing:   listing.New(nil, listing.Options{}),
		phase:     PhaseLoading,
	}
}

// Load reads the features from source and attaches them.
// A failure leaves the widget unavailable: the listing shows the error
// placeholder, controls stay disabled and the map is not touched.
func (w *Widget) Load(ctx context.Context, src Source, source string) error {
	if w.phase != PhaseLoading {
		return errors.Errorf("widget already %s", w.phase)
	}

	s, err := src.Load(ctx, source)
	if err != nil {
		w.phase = PhaseUnavailable
		w.err = err
		log.Warn().Err(err).Str("source", source).Msg("Geodata unavailable")
		return err
	}

	w.Attach(s)
	return nil
}

// Attach installs s as the feature store, builds the controls and renders the
// initial result. It is a no-op once the widget has left the loading phase.
func (w *Widget) Attach(s *store.Store) {
	if w.phase != PhaseLoading {
		return
	}

	w.store = s
	w.options = filter.BuildOptions(w.cfg.Tag(), s.Features(), w.state)
	w.m.SetData(w.cfg.Map.Source, s.Collection())
	w.subscribe()
	w.phase = PhaseReady

	log.Info().
		Str("source", s.Source()).
		Int("features", s.Len()).
		Int("attributes", len(w.cfg.Attributes)).
		Msg("Widget ready")

	w.refresh()
}

// Dispatch handles one user interaction.
// Sidebar and group collapse work in every phase; everything else needs the features.
func (w *Widget) Dispatch(ev filter.Event) error {
	switch ev.Kind {
	case filter.KindSidebar:
		w.sidebar = !w.sidebar
		w.m.Resize()
		return nil

	case filter.KindCollapse:
		if _, ok := w.state.Model(ev.Attribute); ok {
			w.collapsed[ev.Attribute] = !w.collapsed[ev.Attribute]
		}
		return nil
	}

	if w.phase != PhaseReady {
		log.Debug().Str("kind", string(ev.Kind)).Str("phase", string(w.phase)).Msg("Ignoring event")
		return ErrNotReady
	}

	switch ev.Kind {
	case filter.KindToggle, filter.KindClear:
		if w.state.Apply(ev) {
			w.refresh()
		}
		return nil

	case filter.KindActivate:
		i, err := strconv.Atoi(ev.Value)
		if err != nil {
			return errors.Wrapf(listing.ErrNoEntry, "index %q", ev.Value)
		}
		return w.listing.Activate(i, w.m, w.formatter, w.camera())

	case filter.KindResetView:
		w.m.FlyTo(w.center(), w.cfg.Map.Zoom, w.cfg.Map.FlyToSpeed)
		return nil
	}

	return errors.Wrapf(ErrUnknownEvent, "%q", ev.Kind)
}

// Filtered returns the listing entries of the current result.
func (w *Widget) Filtered() []listing.Entry {
	return w.listing.Entries()
}

// Err returns the load error of an unavailable widget.
func (w *Widget) Err() error { return w.err }

// Config returns the widget configuration.
func (w *Widget) Config() *config.Config { return w.cfg }

// refresh recomputes the result over the whole store and propagates it.
func (w *Widget) refresh() {
	filtered := filter.Evaluate(w.store.Features(), w.state)

	w.listing = listing.New(filtered, listing.Options{
		Locale:            w.cfg.Tag(),
		NameProperty:      w.cfg.Identity,
		SecondaryProperty: w.cfg.Listing.Secondary,
	})

	// no selection shows every point, named or not
	w.expr = nil
	if !w.state.Empty() {
		w.expr = mapview.MatchNames(w.cfg.Identity, filter.Names(filtered, w.cfg.Identity))
	}
	w.m.SetFilter(w.cfg.Map.Layer, w.expr)

	log.Debug().
		Int("total", w.store.Len()).
		Int("filtered", len(filtered)).
		Msg("Filters applied")
}

func (w *Widget) subscribe() {
	layer := w.cfg.Map.Layer

	w.m.On(mapview.EventClick, layer, func(ev mapview.LayerEvent) {
		w.m.ShowPopup(ev.Coordinates, w.formatter.Format(ev.Properties))
	})
	w.m.On(mapview.EventMouseEnter, layer, func(mapview.LayerEvent) {
		w.m.SetCursor("pointer")
	})
	w.m.On(mapview.EventMouseLeave, layer, func(mapview.LayerEvent) {
		w.m.SetCursor("")
	})
}

func (w *Widget) camera() listing.Camera {
	return listing.Camera{Zoom: w.cfg.Map.FlyToZoom, Speed: w.cfg.Map.FlyToSpeed}
}

func (w *Widget) center() orb.Point {
	return orb.Point{w.cfg.Map.Center[0], w.cfg.Map.Center[1]}
}

// placeholder returns the listing HTML for the current phase.
func (w *Widget) placeholder() template.HTML {
	switch w.phase {
	case PhaseUnavailable:
		return listing.LoadError
	case PhaseLoading:
		return ""
	}
	return w.listing.Render()
}
