// Package popup renders the detail fragment shown for a feature on the map.
package popup

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/rs/zerolog/log"
)

// Row is a labeled property line of the popup.
type Row struct {
	Label    string `yaml:"label" json:"label"`
	Property string `yaml:"property" json:"property"`
}

// Formatter maps feature properties to popup HTML.
type Formatter struct {
	NameProperty string
	Fallback     string
	LinkLabel    string
	Rows         []Row
	// LinkProperties are tried in order, the first non-empty one is used.
	LinkProperties []string
}

// DefaultRows are the winery detail rows.
var DefaultRows = []Row{
	{Label: "Address", Property: "Address"},
	{Label: "Community", Property: "Community"},
	{Label: "Hours", Property: "BusinessHours"},
	{Label: "Days", Property: "BusinessDays"},
	{Label: "Tours & Tasting", Property: "ToursandTasting"},
}

var tmpl = template.Must(template.New("popup").Parse(
	`<div class="popup">` +
		`<h3>{{.Name}}</h3>` +
		`{{range .Rows}}<div><strong>{{.Label}}:</strong> {{.Value}}</div>{{end}}` +
		`{{with .Link}}<div class="popup-link"><a href="{{.}}" target="_blank" rel="noopener">{{$.LinkLabel}}</a></div>{{end}}` +
		`</div>`))

type row struct {
	Label string
	Value string
}

type data struct {
	Name      string
	Link      string
	LinkLabel string
	Rows      []row
}

// Default returns the formatter for winery features.
func Default() *Formatter {
	return &Formatter{
		NameProperty:   "Name",
		Fallback:       "Winery",
		LinkLabel:      "Website",
		Rows:           DefaultRows,
		LinkProperties: []string{"Link", "link"},
	}
}

// Format renders props. Rows whose property is blank are left out.
func (f *Formatter) Format(props map[string]string) template.HTML {
	d := data{
		Name:      value(props, f.NameProperty),
		LinkLabel: f.LinkLabel,
	}
	if d.Name == "" {
		d.Name = f.Fallback
	}

	for _, r := range f.Rows {
		if v := value(props, r.Property); v != "" {
			d.Rows = append(d.Rows, row{Label: r.Label, Value: v})
		}
	}

	for _, p := range f.LinkProperties {
		if v := value(props, p); v != "" {
			d.Link = v
			break
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		log.Error().Err(err).Msg("Failed to render popup")
		return ""
	}

	// html/template escaped every value above
	return template.HTML(buf.String())
}

func value(props map[string]string, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(props[key])
}
