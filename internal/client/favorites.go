package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

// FavoritesKey is the storage key holding the favorite ids
const FavoritesKey = "favoriteRecipes"

// KVStore is client-local persistent storage
type KVStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// FileKV keeps string keys in a single JSON object on disk
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV uses the file at path, created on first write
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// DefaultStatePath is the per-user state file used by the CLI
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "recipe-hub", "state.json")
}

func (kv *FileKV) Get(key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entries, err := kv.read()
	if err != nil {
		return nil, false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

func (kv *FileKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entries, err := kv.read()
	if err != nil {
		return err
	}
	entries[key] = json.RawMessage(value)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(kv.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return os.Rename(tmp, kv.path)
}

func (kv *FileKV) read() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	data, err := os.ReadFile(kv.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return entries, nil
}

// Favorites is the locally persisted set of favorite recipe ids
type Favorites struct {
	mu    sync.Mutex
	store KVStore
	ids   []string
}

// LoadFavorites reads the saved set. A missing or unreadable entry starts
// an empty set.
func LoadFavorites(store KVStore) *Favorites {
	f := &Favorites{store: store}

	raw, ok, err := store.Get(FavoritesKey)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read favorites, starting empty")
		return f
	}
	if !ok {
		return f
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		logrus.WithError(err).Warn("Stored favorites are malformed, starting empty")
		return f
	}
	f.ids = dedupe(ids)
	return f
}

// Toggle adds id when absent and removes it when present, then persists the
// whole set. The set is left unchanged when persisting fails.
func (f *Favorites) Toggle(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous := f.ids
	added := true
	next := make([]string, 0, len(previous)+1)
	for _, existing := range previous {
		if existing == id {
			added = false
			continue
		}
		next = append(next, existing)
	}
	if added {
		next = append(next, id)
	}

	data, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := f.store.Set(FavoritesKey, data); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	f.ids = next

	logrus.WithFields(logrus.Fields{"recipe_id": id, "favorite": added}).Debug("Favorite toggled")
	return added, nil
}

// Contains reports whether id is a favorite
func (f *Favorites) Contains(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// IDs returns the favorite ids in the order they were added
func (f *Favorites) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}

// Materialize returns the recipes of all whose id is in ids, in list order
func Materialize(all []*model.Recipe, ids []string) []*model.Recipe {
	out := make([]*model.Recipe, 0, len(ids))
	if len(ids) == 0 {
		return out
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for _, r := range all {
		if _, ok := set[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
