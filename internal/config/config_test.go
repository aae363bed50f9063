package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/woozymasta/winemap/internal/filter"

	"github.com/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
title: Lodi Wineries
locale: en-US
data:
  url: https://example.com/map.geojson
  cache_ttl: 90s
map:
  access_token: pk.test
  zoom: 9
attributes:
  - property: Community
    container: community-filters
  - property: ToursandTasting
    title: Tours
    model: toggle
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Title != "Lodi Wineries" || cfg.Map.Zoom != 9 || cfg.Map.AccessToken != "pk.test" {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Data.CacheTTL != 90*time.Second {
		t.Errorf("cache ttl = %v", cfg.Data.CacheTTL)
	}
	if cfg.Data.Path != DataPath || cfg.Map.Layer != "points-layer" || cfg.Map.FlyToZoom != 14 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(cfg.Attributes))
	}
	if a := cfg.Attributes[0]; a.Model != filter.ModelSet || a.Title != "Community" {
		t.Errorf("attribute defaults not applied: %+v", a)
	}
	if a := cfg.Attributes[1]; a.Model != filter.ModelToggle || a.Title != "Tours" || a.Container != "toursandtasting-filters" {
		t.Errorf("attribute = %+v", a)
	}
	if cfg.Tag().String() != "en-US" {
		t.Errorf("tag = %v", cfg.Tag())
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"no data": `title: x`,
		"duplicate": `
data: {file: map.geojson}
attributes: [{property: A}, {property: A}]`,
		"bad model": `
data: {file: map.geojson}
attributes: [{property: A, model: radio}]`,
		"empty property": `
data: {file: map.geojson}
attributes: [{title: A}]`,
		"bad locale": `
locale: "!!"
data: {file: map.geojson}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Attributes) != 4 {
		t.Fatalf("expected 4 default attributes, got %d", len(cfg.Attributes))
	}
	if cfg.Map.Center[0] != -122.27 || cfg.Map.Center[1] != 37.87 {
		t.Errorf("center = %v", cfg.Map.Center)
	}
	if f := cfg.Formatter(); f.Fallback != "Winery" || len(f.Rows) != 5 {
		t.Errorf("formatter = %+v", f)
	}

	// defaults must not alias the package level slice
	cfg.Attributes[0].Property = "Changed"
	if DefaultAttributes[0].Property != "Community" {
		t.Error("DefaultAttributes was modified through a config")
	}
}

func TestJSONRoundTripHidesServerFields(t *testing.T) {
	cfg := Default()
	cfg.Data.URL = "https://secret.example/map.geojson"
	cfg.Data.File = "/srv/map.geojson"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var raw struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw.Data["url"]; ok {
		t.Error("upstream url leaked to widget config")
	}

	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if back.Data.Path != DataPath || len(back.Attributes) != 4 {
		t.Errorf("unexpected widget config: %+v", back)
	}
}
