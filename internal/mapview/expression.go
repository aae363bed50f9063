package mapview

import "strings"

// Expression is a map style expression, serialized as a JSON array.
type Expression []interface{}

// MatchNames builds ["in", ["get", property], ["literal", names]].
// Empty names are skipped and duplicates removed in order. An empty list matches no feature.
func MatchNames(property string, names []string) Expression {
	seen := make(map[string]struct{}, len(names))
	literal := make([]string, 0, len(names))

	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		literal = append(literal, n)
	}

	return Expression{"in", Expression{"get", property}, Expression{"literal", literal}}
}

// Names returns the literal list of a MatchNames expression, or nil if e has another shape.
func (e Expression) Names() []string {
	if len(e) != 3 || e[0] != "in" {
		return nil
	}

	lit, ok := e[2].(Expression)
	if !ok || len(lit) != 2 || lit[0] != "literal" {
		return nil
	}

	names, _ := lit[1].([]string)
	return names
}

// MatchesNothing reports whether e is a membership test over an empty list.
func (e Expression) MatchesNothing() bool {
	names := e.Names()
	return names != nil && len(names) == 0
}
