package mapview

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMatchNames(t *testing.T) {
	e := MatchNames("Name", []string{"Alpha", "", "Beta", "Alpha", "  "})

	if got := e.Names(); !reflect.DeepEqual(got, []string{"Alpha", "Beta"}) {
		t.Errorf("names = %v", got)
	}
	if e.MatchesNothing() {
		t.Error("non-empty predicate reported as match-nothing")
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["in",["get","Name"],["literal",["Alpha","Beta"]]]` {
		t.Errorf("json = %s", data)
	}
}

func TestMatchNamesEmpty(t *testing.T) {
	for _, names := range [][]string{nil, {}, {""}} {
		e := MatchNames("Name", names)
		if !e.MatchesNothing() {
			t.Errorf("MatchNames(%q) should match nothing", names)
		}

		data, _ := json.Marshal(e)
		if string(data) != `["in",["get","Name"],["literal",[]]]` {
			t.Errorf("json = %s", data)
		}
	}
}

func TestNamesOtherShape(t *testing.T) {
	if (Expression{"==", "a", "b"}).Names() != nil {
		t.Error("expected nil names for non-membership expression")
	}
	if Expression(nil).MatchesNothing() {
		t.Error("nil expression is not match-nothing")
	}
}
