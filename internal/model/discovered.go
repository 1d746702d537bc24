package model

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// NoInstructions is stored when a catalog recipe carries no usable steps
const NoInstructions = "No instructions available."

// DiscoveredIngredient is one entry of a catalog recipe's ingredient list
type DiscoveredIngredient struct {
	Name     string `json:"name"`
	Original string `json:"original"`
}

// DiscoveredStep is one analyzed instruction step
type DiscoveredStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// DiscoveredInstructions groups analyzed steps
type DiscoveredInstructions struct {
	Name  string           `json:"name"`
	Steps []DiscoveredStep `json:"steps"`
}

// DiscoveredRecipe is the subset of a catalog recipe the application reads
type DiscoveredRecipe struct {
	ID                   int                      `json:"id"`
	Title                string                   `json:"title"`
	Image                string                   `json:"image"`
	ReadyInMinutes       int                      `json:"readyInMinutes"`
	Vegetarian           bool                     `json:"vegetarian"`
	Vegan                bool                     `json:"vegan"`
	GlutenFree           bool                     `json:"glutenFree"`
	DairyFree            bool                     `json:"dairyFree"`
	Summary              string                   `json:"summary"`
	Instructions         string                   `json:"instructions"`
	ExtendedIngredients  []DiscoveredIngredient   `json:"extendedIngredients"`
	AnalyzedInstructions []DiscoveredInstructions `json:"analyzedInstructions"`
}

// RandomRecipes is the body returned by the catalog's random endpoint
type RandomRecipes struct {
	Recipes []DiscoveredRecipe `json:"recipes"`
}

// SearchResults is the body returned by the catalog's search endpoint
type SearchResults struct {
	Results      []DiscoveredRecipe `json:"results"`
	TotalResults int                `json:"totalResults"`
}

// Flags returns the dietary flags the catalog reports for d
func (d DiscoveredRecipe) Flags() Flags {
	return Flags{
		Vegetarian: d.Vegetarian,
		Vegan:      d.Vegan,
		GlutenFree: d.GlutenFree,
		DairyFree:  d.DairyFree,
	}
}

// ToInput converts a catalog recipe into a creation request
func (d DiscoveredRecipe) ToInput() RecipeInput {
	ingredients := make([]string, 0, len(d.ExtendedIngredients))
	for _, ing := range d.ExtendedIngredients {
		ingredients = append(ingredients, ing.Original)
	}

	duration := ""
	if d.ReadyInMinutes > 0 {
		duration = strconv.Itoa(d.ReadyInMinutes)
	}

	return RecipeInput{
		Title:               d.Title,
		Ingredients:         ingredients,
		DietaryRestrictions: d.Flags(),
		Duration:            duration,
		Instructions:        StripHTML(d.instructionText()),
		ImageURL:            d.Image,
	}
}

func (d DiscoveredRecipe) instructionText() string {
	if strings.TrimSpace(d.Instructions) != "" {
		return d.Instructions
	}
	if len(d.AnalyzedInstructions) > 0 && len(d.AnalyzedInstructions[0].Steps) > 0 {
		lines := make([]string, 0, len(d.AnalyzedInstructions[0].Steps))
		for i, step := range d.AnalyzedInstructions[0].Steps {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, step.Step))
		}
		return strings.Join(lines, "\n")
	}
	return NoInstructions
}

// StripHTML returns the text content of an HTML fragment
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
