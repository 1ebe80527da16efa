package snapshot

import (
	"strconv"
	"strings"

	"restorag/internal/domain"
)

// DishFilter narrows the dish units of a corpus. Zero values mean no
// constraint.
type DishFilter struct {
	Vegetarian bool
	MaxPrice   float64
}

// FilterDishes returns the dish units matching the filter, in corpus order.
// Dishes without a parseable price pass a MaxPrice constraint; the price is
// unknown, not over budget.
func (c *Corpus) FilterDishes(filter DishFilter) []domain.Unit {
	var out []domain.Unit
	for _, u := range c.Units {
		if u.Kind != domain.KindDish {
			continue
		}
		if filter.Vegetarian && !hasTag(u, "vegetarien") {
			continue
		}
		if filter.MaxPrice > 0 {
			if price, ok := parsePrice(u.Metadata["prix"]); ok && price > filter.MaxPrice {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

func hasTag(u domain.Unit, tag string) bool {
	for _, t := range strings.Split(u.Metadata["tags"], ",") {
		if t == tag {
			return true
		}
	}
	return false
}

func parsePrice(raw string) (float64, bool) {
	m := priceRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
