package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipeMatches(t *testing.T) {
	r := &Recipe{
		Title:               "Garden Salad",
		Ingredients:         StringList{"Lettuce", "Cherry tomatoes"},
		Instructions:        "Toss with dressing.",
		DietaryRestrictions: Flags{Vegan: true, GlutenFree: false},
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"salad", true},
		{"TOMATO", true},
		{"dressing", true},
		{"vega", true},
		{"gluten", false},
		{"bacon", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Matches(tt.query))
		})
	}
}

func TestDiscoveredRecipeMatches(t *testing.T) {
	d := DiscoveredRecipe{
		Title:   "Spicy Ramen",
		Summary: "A <b>quick</b> weeknight noodle bowl.",
		ExtendedIngredients: []DiscoveredIngredient{
			{Name: "chili oil", Original: "2 tbsp chili oil"},
		},
	}

	assert.True(t, d.Matches("ramen"))
	assert.True(t, d.Matches("CHILI"))
	assert.True(t, d.Matches("2 tbsp"))
	assert.True(t, d.Matches("weeknight"))
	assert.False(t, d.Matches("pizza"))
	assert.True(t, d.Matches(""))
}
