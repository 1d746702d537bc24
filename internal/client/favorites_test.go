package client

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

type failingKV struct {
	values map[string][]byte
	fail   bool
}

func (kv *failingKV) Get(key string) ([]byte, bool, error) {
	v, ok := kv.values[key]
	return v, ok, nil
}

func (kv *failingKV) Set(key string, value []byte) error {
	if kv.fail {
		return errors.New("disk full")
	}
	kv.values[key] = value
	return nil
}

func TestToggleTwiceRestoresSet(t *testing.T) {
	favs := LoadFavorites(NewFileKV(filepath.Join(t.TempDir(), "state.json")))

	added, err := favs.Toggle("a")
	require.NoError(t, err)
	assert.True(t, added)
	_, err = favs.Toggle("b")
	require.NoError(t, err)
	before := favs.IDs()

	added, err = favs.Toggle("c")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = favs.Toggle("c")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, before, favs.IDs())
	assert.True(t, favs.Contains("a"))
	assert.False(t, favs.Contains("c"))
}

func TestFavoritesPersistAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	favs := LoadFavorites(NewFileKV(path))
	assert.Empty(t, favs.IDs())
	_, err := favs.Toggle("x")
	require.NoError(t, err)
	_, err = favs.Toggle("y")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"favoriteRecipes":["x","y"]}`, string(data))

	reloaded := LoadFavorites(NewFileKV(path))
	assert.Equal(t, []string{"x", "y"}, reloaded.IDs())
}

func TestFileKVKeepsOtherKeys(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, kv.Set("theme", []byte(`"dark"`)))
	require.NoError(t, kv.Set(FavoritesKey, []byte(`["1"]`)))

	theme, ok, err := kv.Get("theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"dark"`, string(theme))

	_, ok, err = kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadFavoritesMalformed(t *testing.T) {
	kv := &failingKV{values: map[string][]byte{FavoritesKey: []byte(`{not json`)}}
	assert.Empty(t, LoadFavorites(kv).IDs())

	kv = &failingKV{values: map[string][]byte{FavoritesKey: []byte(`["a","a","b"]`)}}
	assert.Equal(t, []string{"a", "b"}, LoadFavorites(kv).IDs())
}

func TestToggleRevertsWhenSaveFails(t *testing.T) {
	kv := &failingKV{values: map[string][]byte{}}
	favs := LoadFavorites(kv)
	_, err := favs.Toggle("a")
	require.NoError(t, err)

	kv.fail = true
	_, err = favs.Toggle("b")
	assert.Error(t, err)
	_, err = favs.Toggle("a")
	assert.Error(t, err)

	assert.Equal(t, []string{"a"}, favs.IDs())
	assert.Equal(t, `["a"]`, string(kv.values[FavoritesKey]))
}

func TestMaterialize(t *testing.T) {
	recipes := sampleRecipes()

	assert.Empty(t, Materialize(recipes, nil))
	assert.NotNil(t, Materialize(recipes, nil))
	assert.Empty(t, Materialize(recipes, []string{}))

	got := Materialize(recipes, []string{"3", "1", "missing"})
	assert.Equal(t, []string{"Tomato Soup", "Steak"}, titles(got))

	assert.Empty(t, Materialize([]*model.Recipe{}, []string{"1"}))
}
