package snapshot

import (
	"testing"

	"restorag/internal/domain"
)

func filterCorpus() *Corpus {
	return &Corpus{Units: []domain.Unit{
		{ID: "dish_0", Kind: domain.KindDish, Title: "Bo Bun", Metadata: map[string]string{"prix": "12.90 €", "tags": ""}},
		{ID: "dish_1", Kind: domain.KindDish, Title: "Curry Végé", Metadata: map[string]string{"prix": "11,90 €", "tags": "vegetarien"}},
		{ID: "dish_2", Kind: domain.KindDish, Title: "Formule", Metadata: map[string]string{"prix": "", "tags": ""}},
		{ID: "page_0", Kind: domain.KindPage, Title: "Contact", Metadata: map[string]string{}},
	}}
}

func TestFilterDishes_NoConstraints(t *testing.T) {
	dishes := filterCorpus().FilterDishes(DishFilter{})
	if len(dishes) != 3 {
		t.Fatalf("expected all 3 dishes, got %d", len(dishes))
	}
	for _, d := range dishes {
		if d.Kind != domain.KindDish {
			t.Errorf("non-dish unit %s in result", d.ID)
		}
	}
}

func TestFilterDishes_Vegetarian(t *testing.T) {
	dishes := filterCorpus().FilterDishes(DishFilter{Vegetarian: true})
	if len(dishes) != 1 || dishes[0].ID != "dish_1" {
		t.Errorf("expected only dish_1, got %+v", dishes)
	}
}

func TestFilterDishes_MaxPrice(t *testing.T) {
	dishes := filterCorpus().FilterDishes(DishFilter{MaxPrice: 12})
	// dish_0 at 12.90 is over budget; dish_2 has no parseable price and is
	// kept.
	if len(dishes) != 2 {
		t.Fatalf("expected 2 dishes, got %d: %+v", len(dishes), dishes)
	}
	if dishes[0].ID != "dish_1" || dishes[1].ID != "dish_2" {
		t.Errorf("wrong dishes: %+v", dishes)
	}
}

func TestFilterDishes_Combined(t *testing.T) {
	dishes := filterCorpus().FilterDishes(DishFilter{Vegetarian: true, MaxPrice: 11})
	if len(dishes) != 0 {
		t.Errorf("expected no dishes under 11€ vegetarian, got %+v", dishes)
	}
}
