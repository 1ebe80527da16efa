package domain

// Kind identifies the source shape of a retrievable unit.
type Kind string

const (
	KindRestaurant  Kind = "restaurant"
	KindDish        Kind = "dish"
	KindPage        Kind = "page"
	KindGeneralInfo Kind = "general_info"
)

// Unit is one indexable chunk of corpus text: a restaurant record, a single
// dish, a scraped page, or the general-info blob. Units are created at
// snapshot load time and never mutated afterwards.
type Unit struct {
	ID       string
	Kind     Kind
	Title    string
	Text     string
	Metadata map[string]string
}

// SearchResult pairs a unit with its ranking score for one query.
// Score decreases monotonically with Distance; scores are comparable within
// a single query but not across index metrics.
type SearchResult struct {
	Unit     Unit
	Score    float64
	Distance float64
}

// Coord is a WGS84 latitude/longitude pair.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoEntity is a named place that may carry coordinates. Entities without
// coordinates are excluded from nearest-neighbor search but remain valid for
// every other lookup.
type GeoEntity struct {
	Name    string
	Address string
	Phone   string
	URL     string
	Coord   *Coord
}

// NearestResult is the outcome of a successful nearest-entity lookup.
type NearestResult struct {
	Entity     GeoEntity
	DistanceKm float64
}

// FindingCategory enumerates the classes of factual drift the response
// validator detects.
type FindingCategory string

const (
	FindingExistence  FindingCategory = "existence_contradiction"
	FindingSchedule   FindingCategory = "schedule_mismatch"
	FindingDepartment FindingCategory = "department_contradiction"
	FindingPrice      FindingCategory = "price_hallucination"
)

// Finding records one validation hit. Findings are ephemeral, computed per
// generated answer and never persisted.
type Finding struct {
	Category  FindingCategory
	Evidence  string
	Corrected string
}

// Turn is one exchange entry in a conversation session.
type Turn struct {
	Role string
	Text string
}
