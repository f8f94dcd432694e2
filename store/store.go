// Package store persists recipes. Every implementation lists recipes in the
// order they were created.
package store

import (
	"context"
	"errors"
	"time"

	"recipebox/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("recipe not found")

type RecipeStore interface {
	List(ctx context.Context) (*models.Collection, error)
	Get(ctx context.Context, id string) (models.Recipe, error)
	// Create stores r, filling in ID and CreatedAt when unset, and returns
	// the stored recipe.
	Create(ctx context.Context, r models.Recipe) (models.Recipe, error)
	Delete(ctx context.Context, id string) error
	UpdateField(ctx context.Context, id, field string, value interface{}) error
	SetFavorite(ctx context.Context, id, uid string, favorite bool) error
	Close() error
}

// prepare fills in the server-assigned fields of a new recipe.
func prepare(r models.Recipe) models.Recipe {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Normalize()
	return r
}
