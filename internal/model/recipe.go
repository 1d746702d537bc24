package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pageza/recipe-hub/backend/internal/apperr"
)

// DefaultDuration is the cooking time in minutes used when none is supplied
const DefaultDuration = "30"

// Dietary restriction tags offered by the recipe form
const (
	Vegetarian = "vegetarian"
	Vegan      = "vegan"
	GlutenFree = "glutenFree"
	DairyFree  = "dairyFree"
	NutFree    = "nutFree"
	LowCarb    = "lowCarb"
	Keto       = "keto"
	Paleo      = "paleo"
)

// KnownRestrictions lists the dietary tags the client knows how to render
var KnownRestrictions = []string{Vegetarian, Vegan, GlutenFree, DairyFree, NutFree, LowCarb, Keto, Paleo}

// StringList is a string slice persisted as a JSON array in SQL columns
type StringList []string

// Value implements the driver.Valuer interface
func (a StringList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringList) Scan(value interface{}) error {
	if value == nil {
		*a = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
	return json.Unmarshal(bytes, a)
}

// Flags maps dietary restriction tags to whether they apply
type Flags map[string]bool

// Value implements the driver.Valuer interface
func (f Flags) Value() (driver.Value, error) {
	if len(f) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (f *Flags) Scan(value interface{}) error {
	if value == nil {
		*f = Flags{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for Flags", value)
	}
	return json.Unmarshal(bytes, f)
}

// Active returns the tags set to true, sorted by name
func (f Flags) Active() []string {
	active := make([]string, 0, len(f))
	for name, on := range f {
		if on {
			active = append(active, name)
		}
	}
	sort.Strings(active)
	return active
}

// HasAll reports whether every named flag is set to true
func (f Flags) HasAll(names []string) bool {
	for _, name := range names {
		if !f[name] {
			return false
		}
	}
	return true
}

// Recipe is the single persisted entity
type Recipe struct {
	ID                  string     `gorm:"primaryKey;size:24" json:"id"`
	Title               string     `gorm:"not null" json:"title"`
	Ingredients         StringList `gorm:"type:text;not null" json:"ingredients"`
	DietaryRestrictions Flags      `gorm:"type:text" json:"dietaryRestrictions"`
	Duration            string     `gorm:"size:16" json:"duration"`
	Instructions        string     `gorm:"type:text;not null" json:"instructions"`
	ImageURL            string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt           time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// TableName keeps the SQL table aligned with the document collection name
func (Recipe) TableName() string {
	return "recipes"
}

// NormalizedTitle is the key used to detect recipes already in the collection
func NormalizedTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// RecipeInput is the body accepted when creating a recipe
type RecipeInput struct {
	Title               string   `json:"title"`
	Ingredients         []string `json:"ingredients"`
	DietaryRestrictions Flags    `json:"dietaryRestrictions,omitempty"`
	Duration            string   `json:"duration,omitempty"`
	Instructions        string   `json:"instructions"`
	ImageURL            string   `json:"imageUrl,omitempty"`
}

// Normalize drops blank ingredients and fills in defaults for optional fields
func (in *RecipeInput) Normalize() {
	in.Ingredients = compact(in.Ingredients)
	if in.DietaryRestrictions == nil {
		in.DietaryRestrictions = Flags{}
	}
	if strings.TrimSpace(in.Duration) == "" {
		in.Duration = DefaultDuration
	}
}

// Validate reports every required field that is missing
func (in RecipeInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if len(compact(in.Ingredients)) == 0 {
		missing = append(missing, "ingredients")
	}
	if strings.TrimSpace(in.Instructions) == "" {
		missing = append(missing, "instructions")
	}
	if len(missing) > 0 {
		return &apperr.ValidationError{Fields: missing}
	}
	return nil
}

// NewRecipe builds a recipe from normalized input stamped with now
func NewRecipe(in RecipeInput, now time.Time) *Recipe {
	return &Recipe{
		Title:               in.Title,
		Ingredients:         StringList(in.Ingredients),
		DietaryRestrictions: in.DietaryRestrictions,
		Duration:            in.Duration,
		Instructions:        in.Instructions,
		ImageURL:            in.ImageURL,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// RecipePatch is a partial update. A nil field was omitted by the caller;
// a non-nil field is written, including an empty ImageURL which clears the image.
type RecipePatch struct {
	Title               *string   `json:"title,omitempty"`
	Ingredients         []string  `json:"ingredients,omitempty"`
	DietaryRestrictions Flags     `json:"dietaryRestrictions,omitempty"`
	Duration            *string   `json:"duration,omitempty"`
	Instructions        *string   `json:"instructions,omitempty"`
	ImageURL            *string   `json:"imageUrl,omitempty"`
	UpdatedAt           time.Time `json:"-"`
}

// Normalize discards blank values that would break the creation invariants.
// ImageURL is kept as given so an empty string still clears the image.
func (p *RecipePatch) Normalize() {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		p.Title = nil
	}
	if p.Ingredients != nil {
		p.Ingredients = compact(p.Ingredients)
		if len(p.Ingredients) == 0 {
			p.Ingredients = nil
		}
	}
	if p.Duration != nil && strings.TrimSpace(*p.Duration) == "" {
		p.Duration = nil
	}
	if p.Instructions != nil && strings.TrimSpace(*p.Instructions) == "" {
		p.Instructions = nil
	}
}

// Apply overwrites the present fields of r and advances UpdatedAt.
// It reports whether any stored value changed.
func (p RecipePatch) Apply(r *Recipe) bool {
	changed := false
	if p.Title != nil && *p.Title != r.Title {
		r.Title = *p.Title
		changed = true
	}
	if p.Ingredients != nil && !equalStrings(p.Ingredients, r.Ingredients) {
		r.Ingredients = StringList(append([]string(nil), p.Ingredients...))
		changed = true
	}
	if p.DietaryRestrictions != nil && !equalFlags(p.DietaryRestrictions, r.DietaryRestrictions) {
		r.DietaryRestrictions = copyFlags(p.DietaryRestrictions)
		changed = true
	}
	if p.Duration != nil && *p.Duration != r.Duration {
		r.Duration = *p.Duration
		changed = true
	}
	if p.Instructions != nil && *p.Instructions != r.Instructions {
		r.Instructions = *p.Instructions
		changed = true
	}
	if p.ImageURL != nil && *p.ImageURL != r.ImageURL {
		r.ImageURL = *p.ImageURL
		changed = true
	}
	if p.UpdatedAt.After(r.UpdatedAt) {
		r.UpdatedAt = p.UpdatedAt
		changed = true
	}
	return changed
}

// Fields returns the present fields keyed by their stored names
func (p RecipePatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Ingredients != nil {
		fields["ingredients"] = StringList(p.Ingredients)
	}
	if p.DietaryRestrictions != nil {
		fields["dietaryRestrictions"] = p.DietaryRestrictions
	}
	if p.Duration != nil {
		fields["duration"] = *p.Duration
	}
	if p.Instructions != nil {
		fields["instructions"] = *p.Instructions
	}
	if p.ImageURL != nil {
		fields["imageUrl"] = *p.ImageURL
	}
	return fields
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFlags(a, b Flags) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func copyFlags(f Flags) Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of r
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.Ingredients = append(StringList(nil), r.Ingredients...)
	c.DietaryRestrictions = copyFlags(r.DietaryRestrictions)
	return &c
}

// StringPtr returns a pointer to s, handy for building patches
func StringPtr(s string) *string {
	return &s
}
