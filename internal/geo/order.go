package geo

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortFold sorts values in locale order ignoring case and diacritics.
// Values that collate equal keep a byte order so the result is deterministic.
func SortFold(tag language.Tag, values []string) {
	c := collate.New(tag, collate.IgnoreCase, collate.IgnoreDiacritics)

	sort.SliceStable(values, func(i, j int) bool {
		if r := c.CompareString(values[i], values[j]); r != 0 {
			return r < 0
		}
		return values[i] < values[j]
	})
}

// SortByProperty stable sorts features by a property in locale order.
func SortByProperty(tag language.Tag, features []Feature, property string) {
	c := collate.New(tag)

	sort.SliceStable(features, func(i, j int) bool {
		return c.CompareString(features[i].Get(property), features[j].Get(property)) < 0
	})
}
