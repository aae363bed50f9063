package popup

import (
	"strings"
	"testing"
)

func TestFormatFull(t *testing.T) {
	got := string(Default().Format(map[string]string{
		"Name":            "Alpha Cellars",
		"Address":         "1 Vine St",
		"Community":       "Napa",
		"BusinessHours":   "10-5",
		"BusinessDays":    "Mon-Fri",
		"ToursandTasting": "Yes",
		"Link":            "https://alpha.example",
	}))

	for _, want := range []string{
		"<h3>Alpha Cellars</h3>",
		"<strong>Address:</strong> 1 Vine St",
		"<strong>Community:</strong> Napa",
		"<strong>Hours:</strong> 10-5",
		"<strong>Days:</strong> Mon-Fri",
		"<strong>Tours &amp; Tasting:</strong> Yes",
		`<a href="https://alpha.example" target="_blank" rel="noopener">Website</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %s", want, got)
		}
	}
}

func TestFormatOmitsBlankRows(t *testing.T) {
	got := string(Default().Format(map[string]string{
		"Address":   "   ",
		"Community": "Sonoma",
	}))

	if !strings.Contains(got, "<h3>Winery</h3>") {
		t.Errorf("expected fallback label, got %s", got)
	}
	for _, unwanted := range []string{"Address", "Hours", "Days", "Tours", "href", "N/A"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("unexpected %q in %s", unwanted, got)
		}
	}
	if !strings.Contains(got, "<strong>Community:</strong> Sonoma") {
		t.Errorf("missing community row: %s", got)
	}
}

func TestFormatLowercaseLink(t *testing.T) {
	got := string(Default().Format(map[string]string{"Name": "B", "link": "https://b.example"}))
	if !strings.Contains(got, `href="https://b.example"`) {
		t.Errorf("lowercase link not used: %s", got)
	}
}

func TestFormatEscapes(t *testing.T) {
	got := string(Default().Format(map[string]string{
		"Name": `<script>alert(1)</script>`,
		"Link": "javascript:alert(1)",
	}))

	if strings.Contains(got, "<script>") {
		t.Errorf("name not escaped: %s", got)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("unsafe link kept: %s", got)
	}
}
