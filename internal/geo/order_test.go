package geo

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"
)

func TestSortByProperty(t *testing.T) {
	features := []Feature{
		{Properties: map[string]string{"Name": "winery B", "i": "0"}},
		{Properties: map[string]string{"Name": "Winery A", "i": "1"}},
		{Properties: map[string]string{"i": "2"}},
		{Properties: map[string]string{"Name": "Winery A", "i": "3"}},
	}

	SortByProperty(language.English, features, NameProperty)

	var got []string
	for _, f := range features {
		got = append(got, f.Get(NameProperty)+"/"+f.Get("i"))
	}

	want := []string{"/2", "Winery A/1", "Winery A/3", "winery B/0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortFold(t *testing.T) {
	values := []string{"sonoma", "Château", "Napa", "chablis", "napa"}
	SortFold(language.English, values)

	want := []string{"chablis", "Château", "Napa", "napa", "sonoma"}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("got %v, want %v", values, want)
	}
}
