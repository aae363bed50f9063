// Package filter holds the active selection per attribute and evaluates features against it.
package filter

import (
	"strings"

	"github.com/pkg/errors"
)

// Model is the selection model of an attribute.
type Model string

const (
	// ModelSet allows several values per attribute, OR'd together.
	ModelSet Model = "set"
	// ModelToggle allows at most one value per attribute.
	ModelToggle Model = "toggle"
)

// ErrUnknownModel is returned for a model other than set or toggle.
var ErrUnknownModel = errors.New("unknown selection model")

// ParseModel returns the model named s; empty means ModelSet.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case "", ModelSet:
		return ModelSet, nil
	case ModelToggle:
		return ModelToggle, nil
	}
	return "", errors.Wrapf(ErrUnknownModel, "%q", s)
}

// Attribute is a filterable feature property.
type Attribute struct {
	Property  string `yaml:"property" json:"property"`
	Title     string `yaml:"title,omitempty" json:"title,omitempty"`
	Container string `yaml:"container,omitempty" json:"container,omitempty"`
	Model     Model  `yaml:"model,omitempty" json:"model,omitempty"`
}

// State is the active selection of every attribute.
// The zero selection of an attribute imposes no constraint.
type State struct {
	selected   map[string]map[string]struct{}
	models     map[string]Model
	attributes []Attribute
}

// NewState returns a state with an empty selection for each attribute.
// Attributes without a model use ModelSet.
func NewState(attributes []Attribute) *State {
	s := &State{
		attributes: make([]Attribute, len(attributes)),
		selected:   make(map[string]map[string]struct{}, len(attributes)),
		models:     make(map[string]Model, len(attributes)),
	}

	for i, a := range attributes {
		if a.Model == "" {
			a.Model = ModelSet
		}
		s.attributes[i] = a
		s.models[a.Property] = a.Model
		s.selected[a.Property] = make(map[string]struct{})
	}

	return s
}

// Attributes returns the configured attributes in order.
func (s *State) Attributes() []Attribute {
	out := make([]Attribute, len(s.attributes))
	copy(out, s.attributes)
	return out
}

// Model returns the selection model of property and whether it is known.
func (s *State) Model(property string) (Model, bool) {
	m, ok := s.models[property]
	return m, ok
}

// Toggle flips value in the selection of property.
// Under ModelSet the value is added or removed. Under ModelToggle it replaces the
// current value, or clears it when it is already the current one.
// Values are trimmed like feature values are.
// It reports whether the selection changed; unknown properties and blank values are ignored.
func (s *State) Toggle(property, value string) bool {
	value = strings.TrimSpace(value)
	sel, ok := s.selected[property]
	if !ok || value == "" {
		return false
	}

	_, on := sel[value]

	if s.models[property] == ModelToggle {
		clear(sel)
		if !on {
			sel[value] = struct{}{}
		}
		return true
	}

	if on {
		delete(sel, value)
	} else {
		sel[value] = struct{}{}
	}

	return true
}

// ClearAll empties every selection.
func (s *State) ClearAll() {
	for _, sel := range s.selected {
		clear(sel)
	}
}

// Selected reports whether value is active for property.
func (s *State) Selected(property, value string) bool {
	_, ok := s.selected[property][strings.TrimSpace(value)]
	return ok
}

// Active returns the active values of property in no particular order.
func (s *State) Active(property string) []string {
	sel := s.selected[property]
	out := make([]string, 0, len(sel))
	for v := range sel {
		out = append(out, v)
	}
	return out
}

// Empty reports whether no attribute has an active selection.
func (s *State) Empty() bool {
	for _, sel := range s.selected {
		if len(sel) > 0 {
			return false
		}
	}
	return true
}
