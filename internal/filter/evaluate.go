package filter

import (
	"strings"

	"github.com/woozymasta/winemap/internal/geo"

	"golang.org/x/text/language"
)

// Values returns the distinct non-blank trimmed values of property, compared
// case-sensitively and sorted in locale order ignoring case.
func Values(tag language.Tag, features []geo.Feature, property string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)

	for _, f := range features {
		v := f.Value(property)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	geo.SortFold(tag, values)
	return values
}

// Options is the value index of every attribute, built once per load.
type Options map[string][]string

// BuildOptions indexes the values of each attribute of s.
func BuildOptions(tag language.Tag, features []geo.Feature, s *State) Options {
	opts := make(Options, len(s.attributes))
	for _, a := range s.attributes {
		opts[a.Property] = Values(tag, features, a.Property)
	}
	return opts
}

// Pass reports whether f satisfies every attribute with an active selection.
func (s *State) Pass(f geo.Feature) bool {
	for property, sel := range s.selected {
		if len(sel) == 0 {
			continue
		}
		if _, ok := sel[strings.TrimSpace(f.Get(property))]; !ok {
			return false
		}
	}
	return true
}

// Evaluate returns the features passing s, in input order.
func Evaluate(features []geo.Feature, s *State) []geo.Feature {
	out := make([]geo.Feature, 0, len(features))
	for _, f := range features {
		if s.Pass(f) {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the identifying property of each feature.
func Names(features []geo.Feature, property string) []string {
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Get(property))
	}
	return names
}
