package domain

import "testing"

func TestLocalityForQuery(t *testing.T) {
	tests := []struct {
		query string
		city  string
		found bool
	}{
		{"avez-vous un restaurant dans le 91 ?", "Corbeil-Essonnes", true},
		{"un restaurant en Essonne", "Corbeil-Essonnes", true},
		{"restaurant dans le val-de-marne", "Ivry-sur-Seine", true},
		{"restaurant dans le 78", "Les Mureaux", true},
		{"restaurant en seine-et-marne", "Lagny-sur-Marne", true},
		{"restaurant au 9100", "", false},
		{"meilleur bo bun de Paris", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		loc, ok := LocalityForQuery(tt.query)
		if ok != tt.found {
			t.Errorf("LocalityForQuery(%q) found=%v, want %v", tt.query, ok, tt.found)
			continue
		}
		if ok && loc.City != tt.city {
			t.Errorf("LocalityForQuery(%q) city=%q, want %q", tt.query, loc.City, tt.city)
		}
	}
}

func TestLocalityForQuery_CodeNeedsWordBoundary(t *testing.T) {
	// "91" inside a longer number must not match the department.
	if _, ok := LocalityForQuery("appelez le 0191234567"); ok {
		t.Error("embedded digits matched a department code")
	}
}

func TestNormalizeLocality(t *testing.T) {
	tests := []struct{ place, want string }{
		{"91", "corbeil"},
		{"essonne", "corbeil"},
		{"91100", "corbeil"},
		{"94200", "ivry"},
		{"78130", "mureaux"},
		{"77400", "lagny"},
		{"Ivry-sur-Seine", "ivry-sur-seine"},
		{"  Lagny  ", "lagny"},
		{"", ""},
		{"912345", "912345"},
	}

	for _, tt := range tests {
		if got := NormalizeLocality(tt.place); got != tt.want {
			t.Errorf("NormalizeLocality(%q) = %q, want %q", tt.place, got, tt.want)
		}
	}
}
