package filter

import (
	"github.com/rs/zerolog/log"
)

// Kind is the type of a user interaction.
type Kind string

// Interaction kinds.
const (
	KindToggle    Kind = "toggle"   // filter control changed
	KindClear     Kind = "clear"    // clear filters button
	KindCollapse  Kind = "collapse" // filter group header
	KindSidebar   Kind = "sidebar"  // sidebar collapse button
	KindActivate  Kind = "activate" // listing entry, Value is the entry index
	KindResetView Kind = "reset-view"
)

// Event is a user interaction with the widget.
type Event struct {
	Kind      Kind   `json:"kind"`
	Attribute string `json:"attribute,omitempty"`
	Value     string `json:"value,omitempty"`
	// Model is the model the control was built for; empty skips the check.
	Model Model `json:"model,omitempty"`
}

// Apply applies a selection event to s and reports whether the selection changed.
// Events of other kinds, for unknown attributes or for a stale model are ignored.
func (s *State) Apply(ev Event) bool {
	switch ev.Kind {
	case KindClear:
		s.ClearAll()
		return true

	case KindToggle:
		m, ok := s.Model(ev.Attribute)
		if !ok {
			log.Debug().Str("attribute", ev.Attribute).Msg("Ignoring toggle: unknown attribute")
			return false
		}
		if ev.Model != "" && ev.Model != m {
			log.Debug().
				Str("attribute", ev.Attribute).
				Str("event_model", string(ev.Model)).
				Str("model", string(m)).
				Msg("Ignoring toggle: stale control model")
			return false
		}
		return s.Toggle(ev.Attribute, ev.Value)
	}

	return false
}
