package snapshot

import (
	"regexp"
	"strings"
	"unicode"
)

// orderMarker terminates each dish block in scraped menu text.
const orderMarker = "COMMANDER"

// nameSeparator splits a dish block into name and description segments.
const nameSeparator = "Plus"

const (
	minBlockLen    = 20
	maxNameLen     = 150
	maxDescription = 300
)

var priceRe = regexp.MustCompile(`(\d+[.,]?\d*)\s*€`)

// skipWords flags navigation and cookie-banner noise that survives scraping.
var skipWords = []string{"aller au contenu", "gérer", "accepter", "refuser", "cookies"}

// tagKeywords is the fixed keyword table for dish tag extraction. This is
// substring matching on lowercased text, not NLP; keep the table in one
// place instead of spreading the lists across call sites.
var tagKeywords = []struct {
	tag      string
	keywords []string
}{
	{tag: "vegetarien", keywords: []string{"végé", "végétarien", "vegetarien"}},
	{tag: "epice", keywords: []string{"épicé", "epice", "🌶"}},
	{tag: "signature", keywords: []string{"signature"}},
	{tag: "nems", keywords: []string{"nem"}},
}

// Dish is one menu entry extracted from raw scraped menu text.
type Dish struct {
	Nom         string
	Description string
	Prix        string
	Tags        []string
}

// Text renders the dish as the natural-language block that gets embedded.
func (d Dish) Text() string {
	parts := []string{d.Nom}
	if d.Description != "" {
		parts = append(parts, d.Description)
	}
	if d.Prix != "" {
		parts = append(parts, "Prix: "+d.Prix)
	}
	if len(d.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(d.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}

// ParseDishes segments raw menu page content into individual dishes. Each
// dish block in the source ends with the order marker; blocks too short or
// made of navigation noise are dropped.
func ParseDishes(content string) []Dish {
	var dishes []Dish

	for _, block := range strings.Split(content, orderMarker) {
		block = strings.TrimSpace(block)
		if len(block) < minBlockLen {
			continue
		}
		if containsAny(strings.ToLower(block), skipWords) {
			continue
		}

		parts := strings.Split(block, nameSeparator)
		name := cleanDishName(parts[0])
		if len(name) < 3 {
			continue
		}

		description := ""
		if len(parts) > 1 {
			description = strings.TrimSpace(parts[1])
			if len(description) > maxDescription {
				description = description[:maxDescription]
			}
		}

		dishes = append(dishes, Dish{
			Nom:         name,
			Description: description,
			Prix:        priceRe.FindString(block),
			Tags:        ExtractTags(block),
		})
	}

	return dishes
}

// ExtractTags returns the dietary/style tags whose keywords appear in the
// block, in table order.
func ExtractTags(block string) []string {
	lower := strings.ToLower(block)
	var tags []string
	for _, entry := range tagKeywords {
		if containsAny(lower, entry.keywords) {
			tags = append(tags, entry.tag)
		}
	}
	return tags
}

// cleanDishName reduces the name segment to its first line; oversized lines
// are badly split combo offers, trimmed back to their leading capitalized
// words.
func cleanDishName(segment string) string {
	name := ""
	for _, line := range strings.Split(strings.TrimSpace(segment), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			name = line
			break
		}
	}

	if len(name) > maxNameLen {
		words := strings.Fields(name)
		var kept []string
		for _, word := range words {
			r := []rune(word)
			if word == strings.ToUpper(word) || unicode.IsUpper(r[0]) {
				kept = append(kept, word)
			} else {
				break
			}
		}
		if len(kept) > 0 {
			name = strings.Join(kept, " ")
		} else if len(words) > 0 {
			name = words[0]
		}
	}

	return name
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
