// Package mapview defines what the widget needs from the map renderer.
package mapview

import (
	"html/template"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// EventType names a pointer event on a rendered layer.
type EventType string

// Layer events the widget subscribes to.
const (
	EventClick      EventType = "click"
	EventMouseEnter EventType = "mouseenter"
	EventMouseLeave EventType = "mouseleave"
)

// LayerEvent carries the feature under the pointer.
type LayerEvent struct {
	Properties  map[string]string
	Coordinates orb.Point
}

// Handler receives layer events.
type Handler func(LayerEvent)

// Map is the map collaborator. Implementations own rendering, projection and popup placement.
type Map interface {
	// SetData loads or replaces the feature collection of a source.
	SetData(source string, fc *geojson.FeatureCollection)
	// SetFilter applies a declarative filter expression to a layer.
	// A nil expression removes the filter.
	SetFilter(layer string, expr Expression)
	FlyTo(center orb.Point, zoom, speed float64)
	ShowPopup(at orb.Point, html template.HTML)
	SetCursor(cursor string)
	Resize()
	On(event EventType, layer string, h Handler)
}
