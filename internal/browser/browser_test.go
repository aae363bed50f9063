//go:build js && wasm

package browser

import (
	"syscall/js"
	"testing"

	"github.com/woozymasta/winemap/internal/mapview"

	"github.com/paulmach/orb"
)

func stringify(v js.Value) string {
	return js.Global().Get("JSON").Call("stringify", v).String()
}

func TestToJS(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"match nothing", mapview.MatchNames("Name", nil), `["in",["get","Name"],["literal",[]]]`},
		{"match names", mapview.MatchNames("Name", []string{"A", "A", "B"}), `["in",["get","Name"],["literal",["A","B"]]]`},
		{"unset filter", mapview.Expression(nil), `null`},
		{"point", orb.Point{-122.27, 37.87}, `[-122.27,37.87]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stringify(toJS(tc.in)); got != tc.want {
				t.Errorf("toJS = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestLayerEvent(t *testing.T) {
	e := js.Global().Get("JSON").Call("parse", `{"features": [{
		"geometry": {"type": "Point", "coordinates": [-122.72, 38.44]},
		"properties": {"Name": "Red Barn", "Rank": 3, "Open": true}
	}]}`)

	ev := layerEvent(e)
	if !ev.Coordinates.Equal(orb.Point{-122.72, 38.44}) {
		t.Errorf("coordinates = %v", ev.Coordinates)
	}
	if ev.Properties["Name"] != "Red Barn" || ev.Properties["Rank"] != "3" || ev.Properties["Open"] != "true" {
		t.Errorf("properties = %v", ev.Properties)
	}

	empty := layerEvent(js.Global().Get("JSON").Call("parse", `{"features": []}`))
	if empty.Properties != nil {
		t.Errorf("expected no properties, got %v", empty.Properties)
	}
}
