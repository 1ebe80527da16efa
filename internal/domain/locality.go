package domain

import (
	"regexp"
	"strings"
)

// Locality binds a department code and its spelled-out alias to the one city
// served in that department. The table is deliberately small and fixed: it
// mirrors the covered area, not a general-purpose gazetteer.
type Locality struct {
	Code     string // department code, e.g. "91"
	Alias    string // department name, lowercase
	City     string // canonical city name
	Fragment string // lowercase fragment matching restaurant names/addresses
}

var Localities = []Locality{
	{Code: "91", Alias: "essonne", City: "Corbeil-Essonnes", Fragment: "corbeil"},
	{Code: "94", Alias: "val-de-marne", City: "Ivry-sur-Seine", Fragment: "ivry"},
	{Code: "78", Alias: "yvelines", City: "Les Mureaux", Fragment: "mureaux"},
	{Code: "77", Alias: "seine-et-marne", City: "Lagny-sur-Marne", Fragment: "lagny"},
}

var codePatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(Localities))
	for _, loc := range Localities {
		patterns[loc.Code] = regexp.MustCompile(`\b` + loc.Code + `\b`)
	}
	return patterns
}()

// LocalityForQuery detects a department code (word-bounded) or department
// alias inside free text and returns the matching locality.
func LocalityForQuery(query string) (Locality, bool) {
	lower := strings.ToLower(query)
	for _, loc := range Localities {
		if codePatterns[loc.Code].MatchString(lower) || strings.Contains(lower, loc.Alias) {
			return loc, true
		}
	}
	return Locality{}, false
}

// NormalizeLocality lowercases a place reference and folds department codes,
// department names and postal codes down to the matchable city fragment.
// Plain city names pass through lowercased.
func NormalizeLocality(place string) string {
	needle := strings.ToLower(strings.TrimSpace(place))
	if needle == "" {
		return ""
	}

	for _, loc := range Localities {
		if needle == loc.Code || needle == loc.Alias {
			return loc.Fragment
		}
		// Postal codes share the department prefix: 91100 -> corbeil.
		if strings.HasPrefix(needle, loc.Code) && len(needle) == 5 && isDigits(needle) {
			return loc.Fragment
		}
	}
	return needle
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
