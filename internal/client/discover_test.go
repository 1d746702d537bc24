package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

func discovered() []model.DiscoveredRecipe {
	return []model.DiscoveredRecipe{
		{ID: 1, Title: "Green Curry", ReadyInMinutes: 40, Vegetarian: true, Vegan: true,
			ExtendedIngredients: []model.DiscoveredIngredient{{Name: "coconut milk"}, {Name: "tofu"}}},
		{ID: 2, Title: "Steak Frites", ReadyInMinutes: 25, GlutenFree: true,
			ExtendedIngredients: []model.DiscoveredIngredient{{Name: "steak"}, {Name: "potatoes"}},
			Summary: "A bistro <b>classic</b>."},
		{ID: 3, Title: "Caprese", ReadyInMinutes: 10, Vegetarian: true, GlutenFree: true,
			ExtendedIngredients: []model.DiscoveredIngredient{{Name: "tomato"}, {Name: "mozzarella"}}},
	}
}

func discoveredIDs(recipes []model.DiscoveredRecipe) []int {
	out := make([]int, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestDiscoverFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter DiscoverFilter
		want   []int
	}{
		{"empty keeps all", DiscoverFilter{}, []int{1, 2, 3}},
		{"diet", DiscoverFilter{Diet: []string{model.Vegetarian}}, []int{1, 3}},
		{"every diet flag", DiscoverFilter{Diet: []string{model.Vegetarian, model.GlutenFree}}, []int{3}},
		{"unknown diet", DiscoverFilter{Diet: []string{model.Keto}}, []int{}},
		{"ready time", DiscoverFilter{MaxReadyTime: 25}, []int{2, 3}},
		{"any ingredient", DiscoverFilter{IncludeIngredients: " Tofu , potato"}, []int{1, 2}},
		{"query summary", DiscoverFilter{Query: "bistro"}, []int{2}},
		{"combined", DiscoverFilter{Diet: []string{model.Vegetarian}, MaxReadyTime: 30, Query: "cap"}, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, discoveredIDs(tt.filter.Apply(discovered())))
		})
	}
}
