// Package config handles configuration loading and shared data structures.
package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/woozymasta/winemap/internal/filter"
	"github.com/woozymasta/winemap/internal/geo"
	"github.com/woozymasta/winemap/internal/popup"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DataPath is where the widget fetches geodata from by default.
const DataPath = "/data/map.geojson"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the root configuration file structure.
// The same structure is served to the widget as JSON.
type Config struct {
	Title      string             `yaml:"title,omitempty" json:"title"`
	Locale     string             `yaml:"locale,omitempty" json:"locale"`
	Identity   string             `yaml:"identity,omitempty" json:"identity"`
	Data       Data               `yaml:"data" json:"data"`
	Listing    Listing            `yaml:"listing" json:"listing"`
	Popup      Popup              `yaml:"popup" json:"popup"`
	Attributes []filter.Attribute `yaml:"attributes" json:"attributes"`
	Map        Map                `yaml:"map" json:"map"`
}

// Map holds the map renderer settings.
type Map struct {
	Paint       map[string]interface{} `yaml:"paint,omitempty" json:"paint"`
	AccessToken string                 `yaml:"access_token,omitempty" json:"access_token"`
	Style       string                 `yaml:"style,omitempty" json:"style"`
	Container   string                 `yaml:"container,omitempty" json:"container"`
	Layer       string                 `yaml:"layer,omitempty" json:"layer"`
	Source      string                 `yaml:"source,omitempty" json:"source"`
	Center      []float64              `yaml:"center,omitempty" json:"center"` // [Lon, Lat]
	Zoom        float64                `yaml:"zoom,omitempty" json:"zoom"`
	FlyToZoom   float64                `yaml:"fly_to_zoom,omitempty" json:"fly_to_zoom"`
	FlyToSpeed  float64                `yaml:"fly_to_speed,omitempty" json:"fly_to_speed"`
}

// Data describes where the geodata comes from.
type Data struct {
	// URL is the upstream document, proxied by the server when File is empty.
	URL  string `yaml:"url,omitempty" json:"-"`
	File string `yaml:"file,omitempty" json:"-"`
	// Path is the address the widget fetches, relative to the page.
	Path     string        `yaml:"path,omitempty" json:"path"`
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty" json:"-"`
}

// Listing holds the sidebar list settings.
type Listing struct {
	Container string `yaml:"container,omitempty" json:"container"`
	Secondary string `yaml:"secondary,omitempty" json:"secondary"`
}

// Popup holds the detail popup settings.
type Popup struct {
	Fallback  string      `yaml:"fallback,omitempty" json:"fallback"`
	LinkLabel string      `yaml:"link_label,omitempty" json:"link_label"`
	Rows      []popup.Row `yaml:"rows,omitempty" json:"rows"`
	Links     []string    `yaml:"links,omitempty" json:"links"`
}

// DefaultAttributes are the winery filters.
var DefaultAttributes = []filter.Attribute{
	{Property: "Community", Title: "Community", Container: "community-filters", Model: filter.ModelSet},
	{Property: "BusinessHours", Title: "Business Hours", Container: "hours-filters", Model: filter.ModelSet},
	{Property: "BusinessDays", Title: "Business Days", Container: "days-filters", Model: filter.ModelSet},
	{Property: "ToursandTasting", Title: "Tours & Tasting", Container: "tours-filters", Model: filter.ModelSet},
}

// Default returns a normalized configuration for the winery map.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FromJSON parses the configuration served to the widget.
func FromJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.validateAttributes(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	if c.Title == "" {
		c.Title = "Wineries"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.Identity == "" {
		c.Identity = geo.NameProperty
	}

	if c.Data.Path == "" {
		c.Data.Path = DataPath
	}
	if c.Data.CacheTTL <= 0 {
		c.Data.CacheTTL = 10 * time.Minute
	}

	m := &c.Map
	if m.Container == "" {
		m.Container = "map"
	}
	if m.Style == "" {
		m.Style = "mapbox://styles/mapbox/streets-v12"
	}
	if m.Layer == "" {
		m.Layer = "points-layer"
	}
	if m.Source == "" {
		m.Source = "points-data"
	}
	if len(m.Center) != 2 {
		m.Center = []float64{-122.27, 37.87}
	}
	if m.Zoom <= 0 {
		m.Zoom = 10
	}
	if m.FlyToZoom <= 0 {
		m.FlyToZoom = 14
	}
	if m.FlyToSpeed <= 0 {
		m.FlyToSpeed = 0.8
	}
	if m.Paint == nil {
		m.Paint = map[string]interface{}{
			"circle-color":        "#5B2071",
			"circle-radius":       6,
			"circle-stroke-width": 2,
			"circle-stroke-color": "#000000",
		}
	}

	if c.Listing.Container == "" {
		c.Listing.Container = "feature-listing"
	}
	if c.Listing.Secondary == "" {
		c.Listing.Secondary = "Community"
	}

	if c.Popup.Fallback == "" {
		c.Popup.Fallback = "Winery"
	}
	if c.Popup.LinkLabel == "" {
		c.Popup.LinkLabel = "Website"
	}
	if len(c.Popup.Rows) == 0 {
		c.Popup.Rows = append([]popup.Row(nil), popup.DefaultRows...)
	}
	if len(c.Popup.Links) == 0 {
		c.Popup.Links = []string{"Link", "link"}
	}

	if len(c.Attributes) == 0 {
		c.Attributes = append([]filter.Attribute(nil), DefaultAttributes...)
	}
	for i := range c.Attributes {
		a := &c.Attributes[i]
		if a.Model == "" {
			a.Model = filter.ModelSet
		}
		if a.Title == "" {
			a.Title = a.Property
		}
		if a.Container == "" {
			a.Container = strings.ToLower(a.Property) + "-filters"
		}
	}
}

// Validate checks the configuration used by the server and tooling.
func (c *Config) Validate() error {
	if c.Data.URL == "" && c.Data.File == "" {
		return errors.Wrap(ErrInvalid, "data: url or file is required")
	}

	return c.validateAttributes()
}

func (c *Config) validateAttributes() error {
	seen := make(map[string]bool, len(c.Attributes))

	for i, a := range c.Attributes {
		if a.Property == "" {
			return errors.Wrapf(ErrInvalid, "attributes[%d]: property is required", i)
		}
		if seen[a.Property] {
			return errors.Wrapf(ErrInvalid, "attributes[%d]: duplicate property %q", i, a.Property)
		}
		seen[a.Property] = true

		if _, err := filter.ParseModel(string(a.Model)); err != nil {
			return errors.Wrapf(ErrInvalid, "attributes[%d]: %v", i, err)
		}
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return errors.Wrapf(ErrInvalid, "locale %q: %v", c.Locale, err)
	}

	return nil
}

// Tag returns the collation language, falling back to English.
func (c *Config) Tag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Formatter returns the popup formatter described by the configuration.
func (c *Config) Formatter() *popup.Formatter {
	return &popup.Formatter{
		NameProperty:   c.Identity,
		Fallback:       c.Popup.Fallback,
		LinkLabel:      c.Popup.LinkLabel,
		Rows:           c.Popup.Rows,
		LinkProperties: c.Popup.Links,
	}
}
