package client

import (
	"strings"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

// DiscoverFilter narrows catalog results on the client
type DiscoverFilter struct {
	Diet               []string
	MaxReadyTime       int
	IncludeIngredients string
	Query              string
}

// Apply keeps the recipes passing every set criterion, in order
func (f DiscoverFilter) Apply(recipes []model.DiscoveredRecipe) []model.DiscoveredRecipe {
	out := make([]model.DiscoveredRecipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r passes the filter. Zero-valued criteria are ignored.
func (f DiscoverFilter) Match(r model.DiscoveredRecipe) bool {
	if len(f.Diet) > 0 && !r.Flags().HasAll(f.Diet) {
		return false
	}
	if f.MaxReadyTime > 0 && r.ReadyInMinutes > f.MaxReadyTime {
		return false
	}
	if wanted := splitIngredients(f.IncludeIngredients); len(wanted) > 0 {
		names := make([]string, 0, len(r.ExtendedIngredients))
		for _, ing := range r.ExtendedIngredients {
			names = append(names, strings.ToLower(ing.Name))
		}
		joined := strings.Join(names, " ")

		found := false
		for _, w := range wanted {
			if strings.Contains(joined, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return r.Matches(f.Query)
}

func splitIngredients(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
