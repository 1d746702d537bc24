package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigateClearsQuery(t *testing.T) {
	s := Search(InitialState(nil), "soup")
	assert.Equal(t, "soup", s.Query)

	next := Navigate(s, PageFavorites)
	assert.Equal(t, PageFavorites, next.Page)
	assert.Empty(t, next.Query)
	assert.Equal(t, "soup", s.Query)
}

func TestFavoritesToggledDoesNotMutateInput(t *testing.T) {
	s := InitialState([]string{"1", "2"})

	next := FavoritesToggled(s, "2")
	assert.Equal(t, []string{"1"}, next.Favorites)
	assert.Equal(t, []string{"1", "2"}, s.Favorites)

	next = FavoritesToggled(next, "2")
	assert.Equal(t, []string{"1", "2"}, next.Favorites)
}

func TestFormAndRefreshReducers(t *testing.T) {
	s := InitialState(nil)

	s = FormOpened(s, "abc")
	assert.True(t, s.FormOpen)
	assert.Equal(t, "abc", s.EditingID)

	s = FormClosed(s)
	assert.False(t, s.FormOpen)
	assert.Empty(t, s.EditingID)

	s = RefreshRequested(RefreshRequested(s))
	assert.Equal(t, 2, s.RefreshCounter)
}

func TestVisible(t *testing.T) {
	s := RecipesLoaded(InitialState([]string{"3", "2"}), sampleRecipes())

	assert.Len(t, s.Visible(), 3)
	assert.Equal(t, []string{"Salad"}, titles(Search(s, "lettuce").Visible()))

	fav := Navigate(s, PageFavorites)
	assert.Equal(t, []string{"Salad", "Steak"}, titles(fav.Visible()))
	assert.Equal(t, []string{"Steak"}, titles(Search(fav, "beef").Visible()))

	assert.Empty(t, Navigate(s, PageDiscover).Visible())
}
