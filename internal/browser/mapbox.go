//go:build js && wasm

// Package browser binds the widget to the page DOM and to Mapbox GL JS.
package browser

import (
	"encoding/json"
	"html/template"
	"syscall/js"

	"github.com/woozymasta/winemap/internal/config"
	"github.com/woozymasta/winemap/internal/geo"
	"github.com/woozymasta/winemap/internal/mapview"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Mapbox drives a mapboxgl.Map. It implements mapview.Map.
type Mapbox struct {
	cfg   *config.Config
	m     js.Value
	popup js.Value
	funcs []js.Func
}

var _ mapview.Map = (*Mapbox)(nil)

// NewMapbox creates the map in the configured container.
func NewMapbox(cfg *config.Config) *Mapbox {
	gl := js.Global().Get("mapboxgl")
	gl.Set("accessToken", cfg.Map.AccessToken)

	m := gl.Get("Map").New(toJS(map[string]interface{}{
		"container": cfg.Map.Container,
		"style":     cfg.Map.Style,
		"center":    cfg.Map.Center,
		"zoom":      cfg.Map.Zoom,
	}))

	popup := gl.Get("Popup").New(toJS(map[string]interface{}{
		"closeButton":  true,
		"closeOnClick": true,
	}))

	return &Mapbox{cfg: cfg, m: m, popup: popup}
}

// Loaded returns a channel closed once the map style has loaded.
func (b *Mapbox) Loaded() <-chan struct{} {
	done := make(chan struct{})
	if b.m.Call("loaded").Bool() {
		close(done)
		return done
	}

	var fn js.Func
	fn = js.FuncOf(func(js.Value, []js.Value) interface{} {
		close(done)
		fn.Release()
		return nil
	})
	b.m.Call("once", "load", fn)

	return done
}

// SetData adds the source and the point layer, or replaces the source data.
func (b *Mapbox) SetData(source string, fc *geojson.FeatureCollection) {
	if src := b.m.Call("getSource", source); src.Truthy() {
		src.Call("setData", toJS(fc))
	} else {
		b.m.Call("addSource", source, toJS(map[string]interface{}{
			"type": "geojson",
			"data": fc,
		}))
	}

	if !b.m.Call("getLayer", b.cfg.Map.Layer).Truthy() {
		b.m.Call("addLayer", toJS(map[string]interface{}{
			"id":     b.cfg.Map.Layer,
			"type":   "circle",
			"source": source,
			"paint":  b.cfg.Map.Paint,
		}))
	}
}

func (b *Mapbox) SetFilter(layer string, expr mapview.Expression) {
	b.m.Call("setFilter", layer, toJS(expr))
}

func (b *Mapbox) FlyTo(center orb.Point, zoom, speed float64) {
	b.m.Call("flyTo", toJS(map[string]interface{}{
		"center": center,
		"zoom":   zoom,
		"speed":  speed,
	}))
}

func (b *Mapbox) ShowPopup(at orb.Point, html template.HTML) {
	b.popup.
		Call("setLngLat", toJS(at)).
		Call("setHTML", string(html)).
		Call("addTo", b.m)
}

func (b *Mapbox) SetCursor(cursor string) {
	b.m.Call("getCanvas").Get("style").Set("cursor", cursor)
}

// Resize waits for the sidebar transition before resizing the canvas.
func (b *Mapbox) Resize() {
	var fn js.Func
	fn = js.FuncOf(func(js.Value, []js.Value) interface{} {
		b.m.Call("resize")
		fn.Release()
		return nil
	})
	js.Global().Call("setTimeout", fn, 300)
}

func (b *Mapbox) On(event mapview.EventType, layer string, h mapview.Handler) {
	fn := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		var ev mapview.LayerEvent
		if len(args) > 0 {
			ev = layerEvent(args[0])
		}
		h(ev)
		return nil
	})
	b.funcs = append(b.funcs, fn)
	b.m.Call("on", string(event), layer, fn)
}

// layerEvent reads the first feature of a mapbox layer event.
func layerEvent(e js.Value) mapview.LayerEvent {
	var ev mapview.LayerEvent

	features := e.Get("features")
	if !features.Truthy() || features.Length() == 0 {
		return ev
	}
	f := features.Index(0)

	coords := f.Get("geometry").Get("coordinates")
	if coords.Truthy() && coords.Length() >= 2 {
		ev.Coordinates = orb.Point{coords.Index(0).Float(), coords.Index(1).Float()}
	}

	// rendered features carry flat properties
	props := f.Get("properties")
	if props.Truthy() {
		raw := js.Global().Get("JSON").Call("stringify", props).String()
		var m geojson.Properties
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			log.Debug().Err(err).Msg("Failed to read feature properties")
		}
		ev.Properties = geo.Stringify(m)
	}

	return ev
}

// toJS converts a Go value to a JS value through JSON.
func toJS(v interface{}) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode value for JS")
		return js.Null()
	}
	return js.Global().Get("JSON").Call("parse", string(data))
}
