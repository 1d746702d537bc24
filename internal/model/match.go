package model

import "strings"

// Matches reports whether query appears, ignoring case, in the title, any
// ingredient, the instructions, or the name of a dietary tag set to true.
// A blank query matches every recipe.
func (r *Recipe) Matches(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)

	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(r.Instructions), q) {
		return true
	}
	for _, tag := range r.DietaryRestrictions.Active() {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Matches reports whether query appears, ignoring case, in the title,
// an ingredient name or line, or the summary of a catalog recipe.
func (d DiscoveredRecipe) Matches(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)

	if strings.Contains(strings.ToLower(d.Title), q) {
		return true
	}
	for _, ing := range d.ExtendedIngredients {
		if strings.Contains(strings.ToLower(ing.Name), q) || strings.Contains(strings.ToLower(ing.Original), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(d.Summary), q)
}
