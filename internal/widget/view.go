package widget

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/woozymasta/winemap/internal/filter"
	"github.com/woozymasta/winemap/internal/mapview"
)

// Option is one filter control.
type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Checked  bool   `json:"checked"`
	Disabled bool   `json:"disabled"`
}

// Control is the group of options of one attribute.
type Control struct {
	Attribute filter.Attribute `json:"attribute"`
	Options   []Option         `json:"options"`
	Collapsed bool             `json:"collapsed"`
}

// View is everything the host needs to draw the sidebar.
type View struct {
	Listing          template.HTML      `json:"listing"`
	Phase            Phase              `json:"phase"`
	Filter           mapview.Expression `json:"filter,omitempty"`
	Controls         []Control          `json:"controls"`
	Count            int                `json:"count"`
	Total            int                `json:"total"`
	SidebarCollapsed bool               `json:"sidebar_collapsed"`
}

// View returns the current state for rendering. Controls have no options until
// the features are loaded.
func (w *Widget) View() View {
	v := View{
		Phase:            w.phase,
		Listing:          w.placeholder(),
		Filter:           w.expr,
		SidebarCollapsed: w.sidebar,
		Count:            w.listing.Len(),
	}
	if w.store != nil {
		v.Total = w.store.Len()
	}

	disabled := w.phase != PhaseReady

	for _, a := range w.state.Attributes() {
		c := Control{Attribute: a, Collapsed: w.collapsed[a.Property]}

		for _, val := range w.options[a.Property] {
			c.Options = append(c.Options, Option{
				ID:       ControlID(a.Property, val),
				Label:    val,
				Value:    val,
				Checked:  w.state.Selected(a.Property, val),
				Disabled: disabled,
			})
		}

		v.Controls = append(v.Controls, c)
	}

	return v
}

var (
	reSpaces  = regexp.MustCompile(`\s+`)
	reNonWord = regexp.MustCompile(`[^\w\-]+`)
	reDashes  = regexp.MustCompile(`\-\-+`)
)

// ControlID returns the DOM id of the control for value of property.
func ControlID(property, value string) string {
	return property + "__" + Slugify(value)
}

// Slugify lowercases text and reduces it to word characters and single dashes.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = reSpaces.ReplaceAllString(s, "-")
	s = reNonWord.ReplaceAllString(s, "")
	s = reDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
