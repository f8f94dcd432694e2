package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidField is returned when an update targets a field that does not
// exist on Recipe or may not be changed.
var ErrInvalidField = errors.New("invalid recipe field")

type Recipe struct {
	ID           string        `firestore:"id" json:"id"`
	CreatedBy    string        `firestore:"createdBy" json:"createdBy"`
	Name         string        `firestore:"name" json:"name"`
	Category     string        `firestore:"category" json:"category"`
	Servings     int           `firestore:"servings" json:"servings"`
	Ingredients  []Ingredient  `firestore:"ingredients" json:"ingredients"`
	Instructions []Instruction `firestore:"instructions" json:"instructions"`
	FavoritedBy  []string      `firestore:"favoritedBy" json:"favoritedBy"`
	Description  string        `firestore:"description" json:"description,omitempty"`
	Notes        string        `firestore:"notes" json:"notes,omitempty"`
	Tags         []string      `firestore:"tags" json:"tags"`
	ImageURL     string        `firestore:"imageURL" json:"imageURL,omitempty"`
	OriginalURL  string        `firestore:"originalURL" json:"originalURL,omitempty"`
	CreatedAt    time.Time     `firestore:"createdAt" json:"createdAt"`
}

type Ingredient struct {
	Name     string `firestore:"ingName" json:"ingName"`
	Quantity string `firestore:"quantity" json:"quantity"`
	Unit     string `firestore:"unit" json:"unit"`
}

// String renders the ingredient the way the detail view lists it. A "-" unit
// means the quantity is a plain count and is left out.
func (i Ingredient) String() string {
	parts := make([]string, 0, 3)
	if i.Quantity != "" {
		parts = append(parts, i.Quantity)
	}
	if i.Unit != "" && i.Unit != "-" {
		parts = append(parts, i.Unit)
	}
	if i.Name != "" {
		parts = append(parts, i.Name)
	}
	return strings.Join(parts, " ")
}

type Instruction struct {
	Number      int    `firestore:"number" json:"number"`
	Instruction string `firestore:"instruction" json:"instruction"`
}

// Normalize replaces nil slices with empty ones so encoded recipes never carry
// nulls.
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Instructions == nil {
		r.Instructions = []Instruction{}
	}
	if r.FavoritedBy == nil {
		r.FavoritedBy = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// IsFavoritedBy reports whether uid is in the recipe's favoriter list.
func (r Recipe) IsFavoritedBy(uid string) bool {
	if uid == "" {
		return false
	}
	for _, f := range r.FavoritedBy {
		if f == uid {
			return true
		}
	}
	return false
}

// WithFavorite returns a copy of the favoriter list with uid added or removed.
// Adding an existing favoriter is a no-op.
func WithFavorite(favs []string, uid string, favorite bool) []string {
	out := make([]string, 0, len(favs)+1)
	seen := false
	for _, f := range favs {
		if f == uid {
			seen = true
			if !favorite {
				continue
			}
		}
		out = append(out, f)
	}
	if favorite && !seen {
		out = append(out, uid)
	}
	return out
}

// updatableFields are the stored field names an update request may target.
var updatableFields = map[string]bool{
	"createdBy":    true,
	"name":         true,
	"category":     true,
	"servings":     true,
	"ingredients":  true,
	"instructions": true,
	"favoritedBy":  true,
	"description":  true,
	"notes":        true,
	"tags":         true,
	"imageURL":     true,
	"originalURL":  true,
}

// CheckUpdatableField returns ErrInvalidField unless field names a mutable
// recipe field.
func CheckUpdatableField(field string) error {
	if !updatableFields[field] {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}
