package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"restorag/internal/domain"
)

// maxUnitText caps unit text length so embeddings stay within provider
// limits. Longer texts are truncated, not rejected.
const maxUnitText = 8000

var weekdayOrder = []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche"}

type rawPage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type rawRestaurant struct {
	Name        string            `json:"name"`
	Adresse     string            `json:"adresse"`
	Telephone   string            `json:"telephone"`
	Email       string            `json:"email"`
	URL         string            `json:"url"`
	Horaires    map[string]string `json:"horaires"`
	Services    []string          `json:"services"`
	Coordinates *domain.Coord     `json:"coordinates"`
}

type rawSnapshot struct {
	Restaurants           []rawRestaurant      `json:"restaurants"`
	PagesParCategorie     map[string][]rawPage `json:"pages_par_categorie"`
	InformationsGenerales map[string]any       `json:"informations_generales"`
}

// Restaurant is the structured view of one location, kept alongside the flat
// unit list for direct lookups and geo search.
type Restaurant struct {
	Name      string
	Ville     string
	Adresse   string
	Telephone string
	Email     string
	URL       string
	Horaires  map[string]string
	Services  []string
	Coord     *domain.Coord
}

// Corpus is one immutable snapshot of the retrievable corpus. Hash is the
// content hash of the snapshot file; empty when the corpus was degraded or
// assembled from fallback files.
type Corpus struct {
	Units       []domain.Unit
	Restaurants []Restaurant
	Hash        string
}

// Store loads corpus snapshots from disk.
type Store struct {
	path    string
	dataDir string
	logger  *slog.Logger
}

// NewStore creates a snapshot store. dataDir is the fallback directory
// scanned for page files when the snapshot itself is unreadable.
func NewStore(path, dataDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, dataDir: dataDir, logger: logger}
}

// Load reads the snapshot and flattens it into retrievable units. A missing
// or corrupt snapshot degrades to an empty (or fallback-only) corpus rather
// than failing: the service stays queryable and returns empty results.
func (s *Store) Load() *Corpus {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("snapshot unreadable, falling back", "path", s.path, "err", err)
		return s.loadFallback()
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("snapshot corrupt, serving empty corpus", "path", s.path, "err", err)
		return &Corpus{}
	}

	sum := sha256.Sum256(data)
	corpus := buildCorpus(&raw)
	corpus.Hash = hex.EncodeToString(sum[:])

	s.logger.Info("corpus loaded",
		"units", len(corpus.Units),
		"restaurants", len(corpus.Restaurants),
	)
	return corpus
}

// loadFallback scans the data directory for page files (each a JSON array of
// {url,title,content}, category taken from the file name). Any failure here
// still degrades to an empty corpus.
func (s *Store) loadFallback() *Corpus {
	corpus := &Corpus{}
	if s.dataDir == "" {
		return corpus
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(s.dataDir, "**", "*.json"))
	if err != nil || len(matches) == 0 {
		return corpus
	}
	sort.Strings(matches)

	raw := rawSnapshot{PagesParCategorie: make(map[string][]rawPage)}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var pages []rawPage
		if err := json.Unmarshal(data, &pages); err != nil {
			continue
		}
		category := strings.TrimSuffix(filepath.Base(path), ".json")
		raw.PagesParCategorie[category] = append(raw.PagesParCategorie[category], pages...)
	}

	corpus = buildCorpus(&raw)
	if len(corpus.Units) > 0 {
		s.logger.Info("fallback corpus loaded", "dir", s.dataDir, "units", len(corpus.Units))
	}
	return corpus
}

// ContentHash returns the hex content hash of the snapshot file.
func (s *Store) ContentHash() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// buildCorpus flattens a raw snapshot into units: one per page, one per dish
// on menu pages, one per restaurant, one for general info. Units with empty
// text are dropped; IDs are unique within the snapshot.
func buildCorpus(raw *rawSnapshot) *Corpus {
	corpus := &Corpus{}
	pageN, dishN := 0, 0

	categories := make([]string, 0, len(raw.PagesParCategorie))
	for category := range raw.PagesParCategorie {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, page := range raw.PagesParCategorie[category] {
			if strings.TrimSpace(page.Content) == "" {
				continue
			}

			if category == "menu" {
				for _, dish := range ParseDishes(page.Content) {
					corpus.Units = append(corpus.Units, domain.Unit{
						ID:    fmt.Sprintf("dish_%d", dishN),
						Kind:  domain.KindDish,
						Title: dish.Nom,
						Text:  truncate(dish.Text(), maxUnitText),
						Metadata: map[string]string{
							"category": category,
							"url":      page.URL,
							"prix":     dish.Prix,
							"tags":     strings.Join(dish.Tags, ","),
						},
					})
					dishN++
				}
				continue
			}

			corpus.Units = append(corpus.Units, domain.Unit{
				ID:    fmt.Sprintf("page_%d", pageN),
				Kind:  domain.KindPage,
				Title: page.Title,
				Text:  truncate(page.Content, maxUnitText),
				Metadata: map[string]string{
					"category": category,
					"url":      page.URL,
				},
			})
			pageN++
		}
	}

	for _, r := range raw.Restaurants {
		resto := Restaurant{
			Name:      r.Name,
			Ville:     VilleFromName(r.Name),
			Adresse:   r.Adresse,
			Telephone: r.Telephone,
			Email:     r.Email,
			URL:       r.URL,
			Horaires:  r.Horaires,
			Services:  r.Services,
			Coord:     r.Coordinates,
		}
		corpus.Restaurants = append(corpus.Restaurants, resto)

		text := resto.Describe()
		if text == "" {
			continue
		}
		corpus.Units = append(corpus.Units, domain.Unit{
			ID:    "resto_" + r.Name,
			Kind:  domain.KindRestaurant,
			Title: r.Name,
			Text:  truncate(text, maxUnitText),
			Metadata: map[string]string{
				"adresse":   r.Adresse,
				"telephone": r.Telephone,
				"email":     r.Email,
				"ville":     resto.Ville,
			},
		})
	}

	if len(raw.InformationsGenerales) > 0 {
		pretty, err := json.MarshalIndent(raw.InformationsGenerales, "", "  ")
		if err == nil {
			corpus.Units = append(corpus.Units, domain.Unit{
				ID:       "info_generale",
				Kind:     domain.KindGeneralInfo,
				Title:    "Informations générales",
				Text:     truncate("Informations générales:\n"+string(pretty), maxUnitText),
				Metadata: map[string]string{"category": "general"},
			})
		}
	}

	return corpus
}

// Describe synthesizes a human-readable text block for one restaurant, so
// the embedding captures natural language rather than JSON structure.
func (r Restaurant) Describe() string {
	if r.Name == "" {
		return ""
	}

	parts := []string{
		"Restaurant " + r.Name,
		"Situé à " + r.Adresse,
	}
	if r.Ville != "" {
		parts = append(parts, "Ville: "+r.Ville)
	}
	if r.Telephone != "" {
		parts = append(parts, "Téléphone: "+r.Telephone)
	}
	if r.Email != "" {
		parts = append(parts, "Email: "+r.Email)
	}

	if len(r.Horaires) > 0 {
		parts = append(parts, "Horaires d'ouverture:")
		for _, day := range sortedDays(r.Horaires) {
			parts = append(parts, day+": "+r.Horaires[day])
		}
	}

	if len(r.Services) > 0 {
		parts = append(parts, "Services: "+strings.Join(r.Services, ", "))
	}

	return strings.Join(parts, "\n")
}

// GeoEntities returns the restaurants as geo candidates. Restaurants without
// coordinates are included; the locator filters them out itself.
func (c *Corpus) GeoEntities() []domain.GeoEntity {
	entities := make([]domain.GeoEntity, 0, len(c.Restaurants))
	for _, r := range c.Restaurants {
		entities = append(entities, domain.GeoEntity{
			Name:    r.Name,
			Address: r.Adresse,
			Phone:   r.Telephone,
			URL:     r.URL,
			Coord:   r.Coord,
		})
	}
	return entities
}

// FindRestaurant resolves a city name, department code or postal code to a
// restaurant, using the same partial matching the corpus names allow.
func (c *Corpus) FindRestaurant(place string) (Restaurant, bool) {
	needle := domain.NormalizeLocality(place)
	if needle == "" {
		return Restaurant{}, false
	}

	for _, r := range c.Restaurants {
		ville := strings.ToLower(r.Ville)
		if strings.Contains(ville, needle) || strings.HasPrefix(ville, needle) {
			return r, true
		}
		if strings.Contains(strings.ToLower(r.Adresse), needle) {
			return r, true
		}
	}
	return Restaurant{}, false
}

// VilleFromName extracts the city from names shaped like
// "BOLKIRI <Ville> Street Food Viêt".
func VilleFromName(name string) string {
	ville := strings.ReplaceAll(name, "BOLKIRI", "")
	ville = strings.ReplaceAll(ville, "Street Food Viêt", "")
	return strings.TrimSpace(ville)
}

func sortedDays(horaires map[string]string) []string {
	days := make([]string, 0, len(horaires))
	seen := make(map[string]bool, len(horaires))

	for _, day := range weekdayOrder {
		if _, ok := horaires[day]; ok {
			days = append(days, day)
			seen[day] = true
		}
	}

	rest := make([]string, 0)
	for day := range horaires {
		if !seen[day] {
			rest = append(rest, day)
		}
	}
	sort.Strings(rest)

	return append(days, rest...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
