package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"restorag/internal/domain"
)

const sampleSnapshot = `{
  "restaurants": [
    {
      "name": "BOLKIRI Ivry-sur-Seine Street Food Viêt",
      "adresse": "5 Rue Exemple, 94200 Ivry-sur-Seine",
      "telephone": "01 23 45 67 89",
      "email": "ivry@example.fr",
      "url": "https://example.fr/ivry",
      "horaires": {"mardi": "11h30-14h30", "lundi": "11h30-14h30"},
      "services": ["sur place", "à emporter"],
      "coordinates": {"lat": 48.8139, "lon": 2.3847}
    },
    {
      "name": "BOLKIRI Corbeil-Essonnes Street Food Viêt",
      "adresse": "1 Rue Exemple, 91100 Corbeil-Essonnes",
      "horaires": {},
      "services": []
    }
  ],
  "pages_par_categorie": {
    "menu": [
      {"url": "https://example.fr/menu", "title": "Menu", "content": "BO BUN POULET\nPlus\nVermicelles de riz, poulet citronnelle\n12.90 €\nCOMMANDER"}
    ],
    "contact": [
      {"url": "https://example.fr/contact", "title": "Contact", "content": "Contactez-nous au 01 23 45 67 89"}
    ],
    "vide": [
      {"url": "https://example.fr/vide", "title": "Vide", "content": "   "}
    ]
  },
  "informations_generales": {"enseigne": "BOLKIRI"}
}`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}
	return path
}

func TestStoreLoad_FlattensSnapshot(t *testing.T) {
	store := NewStore(writeSnapshot(t, sampleSnapshot), "", nil)
	corpus := store.Load()

	if corpus.Hash == "" {
		t.Error("loaded corpus missing content hash")
	}
	if len(corpus.Restaurants) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(corpus.Restaurants))
	}

	kinds := map[domain.Kind]int{}
	for _, u := range corpus.Units {
		kinds[u.Kind]++
		if strings.TrimSpace(u.Text) == "" {
			t.Errorf("unit %s has empty text", u.ID)
		}
	}
	if kinds[domain.KindDish] != 1 {
		t.Errorf("expected 1 dish unit, got %d", kinds[domain.KindDish])
	}
	if kinds[domain.KindPage] != 1 {
		t.Errorf("expected 1 page unit (empty page dropped), got %d", kinds[domain.KindPage])
	}
	if kinds[domain.KindRestaurant] != 2 {
		t.Errorf("expected 2 restaurant units, got %d", kinds[domain.KindRestaurant])
	}
	if kinds[domain.KindGeneralInfo] != 1 {
		t.Errorf("expected 1 general info unit, got %d", kinds[domain.KindGeneralInfo])
	}
}

func TestStoreLoad_UniqueIDs(t *testing.T) {
	store := NewStore(writeSnapshot(t, sampleSnapshot), "", nil)
	corpus := store.Load()

	seen := map[string]bool{}
	for _, u := range corpus.Units {
		if seen[u.ID] {
			t.Errorf("duplicate unit ID %s", u.ID)
		}
		seen[u.ID] = true
	}
}

func TestStoreLoad_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), "", nil)
	corpus := store.Load()
	if len(corpus.Units) != 0 || corpus.Hash != "" {
		t.Errorf("missing snapshot should degrade to empty corpus, got %d units", len(corpus.Units))
	}
}

func TestStoreLoad_CorruptFile(t *testing.T) {
	store := NewStore(writeSnapshot(t, "{not json"), "", nil)
	corpus := store.Load()
	if len(corpus.Units) != 0 {
		t.Errorf("corrupt snapshot should degrade to empty corpus, got %d units", len(corpus.Units))
	}
}

func TestStoreLoad_FallbackDataDir(t *testing.T) {
	dataDir := t.TempDir()
	pages := `[{"url": "https://example.fr/contact", "title": "Contact", "content": "Contactez-nous par téléphone"}]`
	if err := os.WriteFile(filepath.Join(dataDir, "contact.json"), []byte(pages), 0644); err != nil {
		t.Fatalf("failed to write page file: %v", err)
	}

	store := NewStore(filepath.Join(dataDir, "absent.json"), dataDir, nil)
	corpus := store.Load()

	if len(corpus.Units) != 1 {
		t.Fatalf("expected 1 fallback unit, got %d", len(corpus.Units))
	}
	if corpus.Units[0].Metadata["category"] != "contact" {
		t.Errorf("fallback category = %q, want contact", corpus.Units[0].Metadata["category"])
	}
	if corpus.Hash != "" {
		t.Error("fallback corpus must not carry a snapshot hash")
	}
}

func TestStoreLoad_Deterministic(t *testing.T) {
	store := NewStore(writeSnapshot(t, sampleSnapshot), "", nil)
	first := store.Load()
	second := store.Load()

	if len(first.Units) != len(second.Units) {
		t.Fatalf("unit counts differ: %d vs %d", len(first.Units), len(second.Units))
	}
	for i := range first.Units {
		if first.Units[i].ID != second.Units[i].ID {
			t.Errorf("unit order differs at %d: %s vs %s", i, first.Units[i].ID, second.Units[i].ID)
		}
	}
}

func TestRestaurantDescribe(t *testing.T) {
	r := Restaurant{
		Name:      "BOLKIRI Ivry-sur-Seine Street Food Viêt",
		Ville:     "Ivry-sur-Seine",
		Adresse:   "5 Rue Exemple, 94200 Ivry-sur-Seine",
		Telephone: "01 23 45 67 89",
		Horaires:  map[string]string{"mardi": "11h30-14h30", "lundi": "11h30-14h30"},
		Services:  []string{"sur place"},
	}

	text := r.Describe()
	for _, want := range []string{"Restaurant BOLKIRI", "Situé à", "Ville: Ivry-sur-Seine", "Téléphone:", "Services: sur place"} {
		if !strings.Contains(text, want) {
			t.Errorf("Describe() missing %q:\n%s", want, text)
		}
	}

	// Weekday order, not map order.
	if strings.Index(text, "lundi") > strings.Index(text, "mardi") {
		t.Error("horaires not in weekday order")
	}
}

func TestVilleFromName(t *testing.T) {
	tests := []struct{ name, want string }{
		{"BOLKIRI Ivry-sur-Seine Street Food Viêt", "Ivry-sur-Seine"},
		{"BOLKIRI Corbeil-Essonnes Street Food Viêt", "Corbeil-Essonnes"},
		{"Chez Minh", "Chez Minh"},
	}
	for _, tt := range tests {
		if got := VilleFromName(tt.name); got != tt.want {
			t.Errorf("VilleFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFindRestaurant(t *testing.T) {
	store := NewStore(writeSnapshot(t, sampleSnapshot), "", nil)
	corpus := store.Load()

	tests := []struct {
		place string
		want  string
		found bool
	}{
		{"Ivry-sur-Seine", "BOLKIRI Ivry-sur-Seine Street Food Viêt", true},
		{"94", "BOLKIRI Ivry-sur-Seine Street Food Viêt", true},
		{"91100", "BOLKIRI Corbeil-Essonnes Street Food Viêt", true},
		{"essonne", "BOLKIRI Corbeil-Essonnes Street Food Viêt", true},
		{"Marseille", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		r, ok := corpus.FindRestaurant(tt.place)
		if ok != tt.found {
			t.Errorf("FindRestaurant(%q) found=%v, want %v", tt.place, ok, tt.found)
			continue
		}
		if ok && r.Name != tt.want {
			t.Errorf("FindRestaurant(%q) = %q, want %q", tt.place, r.Name, tt.want)
		}
	}
}

func TestGeoEntities(t *testing.T) {
	store := NewStore(writeSnapshot(t, sampleSnapshot), "", nil)
	corpus := store.Load()

	entities := corpus.GeoEntities()
	if len(entities) != 2 {
		t.Fatalf("expected 2 geo entities, got %d", len(entities))
	}
	if entities[0].Coord == nil {
		t.Error("first entity should have coordinates")
	}
	if entities[1].Coord != nil {
		t.Error("second entity has no coordinates in the snapshot")
	}
}
