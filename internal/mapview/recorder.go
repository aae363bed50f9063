package mapview

import (
	"html/template"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FlyTo is a recorded camera request.
type FlyTo struct {
	Center orb.Point
	Zoom   float64
	Speed  float64
}

// Popup is a recorded popup request.
type Popup struct {
	HTML template.HTML
	At   orb.Point
}

// Recorder is an in-memory Map that keeps every request it receives.
type Recorder struct {
	Data     map[string]*geojson.FeatureCollection
	Filters  map[string]Expression
	handlers map[EventType]map[string][]Handler
	FlyTos   []FlyTo
	Popups   []Popup
	Cursor   string
	Resizes  int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Data:     make(map[string]*geojson.FeatureCollection),
		Filters:  make(map[string]Expression),
		handlers: make(map[EventType]map[string][]Handler),
	}
}

func (r *Recorder) SetData(source string, fc *geojson.FeatureCollection) { r.Data[source] = fc }

func (r *Recorder) SetFilter(layer string, expr Expression) { r.Filters[layer] = expr }

func (r *Recorder) FlyTo(center orb.Point, zoom, speed float64) {
	r.FlyTos = append(r.FlyTos, FlyTo{Center: center, Zoom: zoom, Speed: speed})
}

func (r *Recorder) ShowPopup(at orb.Point, html template.HTML) {
	r.Popups = append(r.Popups, Popup{At: at, HTML: html})
}

func (r *Recorder) SetCursor(cursor string) { r.Cursor = cursor }

func (r *Recorder) Resize() { r.Resizes++ }

func (r *Recorder) On(event EventType, layer string, h Handler) {
	if r.handlers[event] == nil {
		r.handlers[event] = make(map[string][]Handler)
	}
	r.handlers[event][layer] = append(r.handlers[event][layer], h)
}

// Emit delivers ev to the handlers subscribed to event on layer.
// It returns the number of handlers called.
func (r *Recorder) Emit(event EventType, layer string, ev LayerEvent) int {
	hs := r.handlers[event][layer]
	for _, h := range hs {
		h(ev)
	}
	return len(hs)
}

// LastPopup returns the most recent popup request.
func (r *Recorder) LastPopup() (Popup, bool) {
	if len(r.Popups) == 0 {
		return Popup{}, false
	}
	return r.Popups[len(r.Popups)-1], true
}
