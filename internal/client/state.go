package client

import "github.com/pageza/recipe-hub/backend/internal/model"

// Page is a top-level client view
type Page string

const (
	PageHome      Page = "home"
	PageFavorites Page = "favorites"
	PageDiscover  Page = "discover"
)

// State is the whole client application state. Reducers return a new value
// and never modify their input.
type State struct {
	Page           Page
	Recipes        []*model.Recipe
	Favorites      []string
	Query          string
	FormOpen       bool
	EditingID      string
	RefreshCounter int
}

// InitialState is the state at startup
func InitialState(favorites []string) State {
	return State{Page: PageHome, Favorites: favorites}
}

// Navigate switches page and clears the search query
func Navigate(s State, page Page) State {
	s.Page = page
	s.Query = ""
	return s
}

// Search sets the search query
func Search(s State, query string) State {
	s.Query = query
	return s
}

// RecipesLoaded replaces the cached recipe list
func RecipesLoaded(s State, recipes []*model.Recipe) State {
	s.Recipes = recipes
	return s
}

// FavoritesToggled adds or removes id from the favorite ids
func FavoritesToggled(s State, id string) State {
	next := make([]string, 0, len(s.Favorites)+1)
	found := false
	for _, existing := range s.Favorites {
		if existing == id {
			found = true
			continue
		}
		next = append(next, existing)
	}
	if !found {
		next = append(next, id)
	}
	s.Favorites = next
	return s
}

// FormOpened opens the recipe form, editing id when it is not empty
func FormOpened(s State, id string) State {
	s.FormOpen = true
	s.EditingID = id
	return s
}

// FormClosed closes the recipe form
func FormClosed(s State) State {
	s.FormOpen = false
	s.EditingID = ""
	return s
}

// RefreshRequested bumps the counter that triggers a list refresh
func RefreshRequested(s State) State {
	s.RefreshCounter++
	return s
}

// Visible returns the recipes the current page shows
func (s State) Visible() []*model.Recipe {
	switch s.Page {
	case PageFavorites:
		return FilterLocal(Materialize(s.Recipes, s.Favorites), s.Query)
	case PageDiscover:
		return nil
	default:
		return FilterLocal(s.Recipes, s.Query)
	}
}
