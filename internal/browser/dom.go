//go:build js && wasm

package browser

import (
	"html/template"
	"syscall/js"

	"github.com/woozymasta/winemap/internal/filter"
	"github.com/woozymasta/winemap/internal/widget"

	"github.com/rs/zerolog/log"
)

// Element ids of the page layout in assets/index.html.tpl.
const (
	idSidebar       = "sidebar"
	idToggleSidebar = "toggle-sidebar"
	idFilterGroups  = "filter-groups"
	idClearFilters  = "clear-filters"
)

var document = js.Global().Get("document")

// Sidebar draws widget views and turns DOM events into widget events.
type Sidebar struct {
	w       *widget.Widget
	listing js.Value
	groups  js.Value
	// built counts the options each group was drawn with
	built map[string]int
	funcs []js.Func
}

// NewSidebar binds the static sidebar elements to w.
func NewSidebar(w *widget.Widget) *Sidebar {
	s := &Sidebar{
		w:       w,
		listing: byID(w.Config().Listing.Container),
		groups:  byID(idFilterGroups),
		built:   make(map[string]int),
	}

	s.listen(byID(idClearFilters), "click", func(js.Value) {
		s.dispatch(filter.Event{Kind: filter.KindClear})
	})
	s.listen(byID(idToggleSidebar), "click", func(js.Value) {
		s.dispatch(filter.Event{Kind: filter.KindSidebar})
	})
	s.listen(s.listing, "click", func(e js.Value) {
		item := e.Get("target").Call("closest", ".listing-item")
		if !item.Truthy() {
			return
		}
		s.dispatch(filter.Event{
			Kind:  filter.KindActivate,
			Value: item.Get("dataset").Get("index").String(),
		})
	})

	return s
}

// Render draws the current view.
func (s *Sidebar) Render() {
	v := s.w.View()

	if s.listing.Truthy() {
		s.listing.Set("innerHTML", string(v.Listing))
	}

	for _, c := range v.Controls {
		if s.built[c.Attribute.Property] != len(c.Options) {
			s.buildGroup(c)
		}
		s.updateGroup(c)
	}

	if btn := byID(idClearFilters); btn.Truthy() {
		btn.Set("disabled", v.Phase != widget.PhaseReady)
	}

	sidebar := byID(idSidebar)
	if sidebar.Truthy() {
		sidebar.Get("classList").Call("toggle", "collapsed", v.SidebarCollapsed)
	}
	if btn := byID(idToggleSidebar); btn.Truthy() {
		arrow := "⟨"
		if v.SidebarCollapsed {
			arrow = "⟩"
		}
		btn.Set("textContent", arrow)
	}
}

func (s *Sidebar) dispatch(ev filter.Event) {
	if err := s.w.Dispatch(ev); err != nil {
		log.Debug().Err(err).Str("kind", string(ev.Kind)).Msg("Event rejected")
	}
	s.Render()
}

// buildGroup creates or replaces the header and body of one attribute group.
func (s *Sidebar) buildGroup(c widget.Control) {
	a := c.Attribute
	groupID := a.Container + "-group"

	group := byID(groupID)
	if group.Truthy() {
		group.Set("innerHTML", "")
	} else {
		group = create("div", "filter-group")
		group.Set("id", groupID)
		s.groups.Call("appendChild", group)
	}

	header := create("div", "filter-header")
	title := a.Title
	if title == "" {
		title = a.Property
	}
	header.Set("textContent", title+" ")
	chevron := create("span", "chevron")
	header.Call("appendChild", chevron)
	s.listen(header, "click", func(js.Value) {
		s.dispatch(filter.Event{Kind: filter.KindCollapse, Attribute: a.Property})
	})

	body := create("div", "filter-body")
	body.Set("id", a.Container)

	for _, o := range c.Options {
		body.Call("appendChild", s.control(a, o))
	}

	group.Call("appendChild", header)
	group.Call("appendChild", body)
	s.built[a.Property] = len(c.Options)
}

func (s *Sidebar) control(a filter.Attribute, o widget.Option) js.Value {
	ev := filter.Event{Kind: filter.KindToggle, Attribute: a.Property, Value: o.Value, Model: a.Model}

	if a.Model == filter.ModelToggle {
		btn := create("button", "filter-button")
		btn.Set("id", o.ID)
		btn.Set("type", "button")
		btn.Set("textContent", o.Label)
		s.listen(btn, "click", func(js.Value) { s.dispatch(ev) })
		return btn
	}

	label := create("label", "filter-checkbox")
	input := create("input", "")
	input.Set("type", "checkbox")
	input.Set("id", o.ID)
	input.Set("value", o.Value)
	s.listen(input, "change", func(js.Value) { s.dispatch(ev) })

	span := create("span", "")
	span.Set("textContent", o.Label)

	label.Call("appendChild", input)
	label.Call("appendChild", span)
	return label
}

// updateGroup syncs control state without rebuilding the group.
func (s *Sidebar) updateGroup(c widget.Control) {
	a := c.Attribute

	if body := byID(a.Container); body.Truthy() {
		body.Get("classList").Call("toggle", "collapsed", c.Collapsed)
	}
	if group := byID(a.Container + "-group"); group.Truthy() {
		if chevron := group.Call("querySelector", ".chevron"); chevron.Truthy() {
			mark := "▾"
			if c.Collapsed {
				mark = "▸"
			}
			chevron.Set("textContent", mark)
		}
	}

	for _, o := range c.Options {
		el := byID(o.ID)
		if !el.Truthy() {
			continue
		}
		el.Set("disabled", o.Disabled)
		if a.Model == filter.ModelToggle {
			el.Get("classList").Call("toggle", "active", o.Checked)
		} else {
			el.Set("checked", o.Checked)
		}
	}
}

// listen registers fn for event on el. Listeners live as long as the page.
func (s *Sidebar) listen(el js.Value, event string, fn func(js.Value)) {
	if !el.Truthy() {
		return
	}
	cb := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		var e js.Value
		if len(args) > 0 {
			e = args[0]
		}
		fn(e)
		return nil
	})
	s.funcs = append(s.funcs, cb)
	el.Call("addEventListener", event, cb)
}

// ShowError replaces the listing with msg.
func ShowError(container string, msg template.HTML) {
	if el := byID(container); el.Truthy() {
		el.Set("innerHTML", string(msg))
	}
}

func byID(id string) js.Value {
	return document.Call("getElementById", id)
}

func create(tag, class string) js.Value {
	el := document.Call("createElement", tag)
	if class != "" {
		el.Set("className", class)
	}
	return el
}
