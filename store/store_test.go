package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"recipebox/config"
	"recipebox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opener func(t *testing.T) RecipeStore

func stores() map[string]opener {
	return map[string]opener{
		"memory": func(t *testing.T) RecipeStore { return NewMemory() },
		"sqlite": func(t *testing.T) RecipeStore {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "recipes.db"))
			require.NoError(t, err)
			return s
		},
		"firestore": func(t *testing.T) RecipeStore {
			if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
				t.Skip("FIRESTORE_EMULATOR_HOST not set")
			}
			s, err := OpenFirestore(context.Background(), "recipebox-test", "", "recipes-"+time.Now().Format("150405.000000"))
			require.NoError(t, err)
			return s
		},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, s RecipeStore)) {
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

func TestCreateAssignsIDAndListKeepsOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		first, err := s.Create(ctx, models.Recipe{Name: "Pancakes", Category: "Breakfast", CreatedAt: base})
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.NotNil(t, first.FavoritedBy)

		second, err := s.Create(ctx, models.Recipe{ID: "soup-1", Name: "Soup", Category: "Lunch", CreatedAt: base.Add(time.Minute)})
		require.NoError(t, err)
		assert.Equal(t, "soup-1", second.ID)

		c, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{first.ID, "soup-1"}, c.IDs())
	})
}

func TestGetAndDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		r, err := s.Create(ctx, models.Recipe{
			Name:        "Dal",
			Category:    "Dinner",
			Servings:    4,
			Ingredients: []models.Ingredient{{Name: "lentils", Quantity: "1", Unit: "cup"}},
		})
		require.NoError(t, err)

		got, err := s.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dal", got.Name)
		assert.Equal(t, 4, got.Servings)
		assert.Equal(t, r.Ingredients, got.Ingredients)

		require.NoError(t, s.Delete(ctx, r.ID))
		_, err = s.Get(ctx, r.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, errors.Is(s.Delete(ctx, r.ID), ErrNotFound))
	})
}

func TestUpdateField(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		r, err := s.Create(ctx, models.Recipe{Name: "Stew", Category: "Dinner"})
		require.NoError(t, err)

		require.NoError(t, s.UpdateField(ctx, r.ID, "category", "Lunch"))
		got, err := s.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lunch", got.Category)
		assert.Equal(t, "Stew", got.Name)

		err = s.UpdateField(ctx, r.ID, "id", "other")
		assert.True(t, errors.Is(err, models.ErrInvalidField))

		err = s.UpdateField(ctx, "missing", "name", "x")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestSetFavorite(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		r, err := s.Create(ctx, models.Recipe{Name: "Curry"})
		require.NoError(t, err)

		require.NoError(t, s.SetFavorite(ctx, r.ID, "u1", true))
		require.NoError(t, s.SetFavorite(ctx, r.ID, "u2", true))
		require.NoError(t, s.SetFavorite(ctx, r.ID, "u1", true))
		got, err := s.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"u1", "u2"}, got.FavoritedBy)

		require.NoError(t, s.SetFavorite(ctx, r.ID, "u1", false))
		got, err = s.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, got.FavoritedBy)

		assert.True(t, errors.Is(s.SetFavorite(ctx, "missing", "u1", true), ErrNotFound))
	})
}

func TestMemoryListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(models.Recipe{ID: "a"})
	c, err := m.List(ctx)
	require.NoError(t, err)

	_, err = m.Create(ctx, models.Recipe{ID: "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestApplyFieldRejectsBadType(t *testing.T) {
	_, err := applyField(models.Recipe{ID: "a"}, "servings", "lots")
	assert.True(t, errors.Is(err, models.ErrInvalidField))

	r, err := applyField(models.Recipe{ID: "a"}, "servings", float64(6))
	require.NoError(t, err)
	assert.Equal(t, 6, r.Servings)
	assert.Equal(t, "a", r.ID)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StorageConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func TestUpdateFieldRejectsWrongTypeAndKeepsListing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		r, err := s.Create(ctx, models.Recipe{Name: "Chili", Servings: 4})
		require.NoError(t, err)

		err = s.UpdateField(ctx, r.ID, "servings", "lots")
		assert.True(t, errors.Is(err, models.ErrInvalidField))

		require.NoError(t, s.UpdateField(ctx, r.ID, "servings", float64(6)))

		c, err := s.List(ctx)
		require.NoError(t, err)
		got, ok := c.Get(r.ID)
		require.True(t, ok)
		assert.Equal(t, 6, got.Servings)
	})
}

func TestFieldValueCoversUpdatableFields(t *testing.T) {
	r := models.Recipe{
		Name:        "Chili",
		Servings:    6,
		Ingredients: []models.Ingredient{{Name: "beans"}},
	}
	v, err := fieldValue(r, "servings")
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	v, err = fieldValue(r, "ingredients")
	require.NoError(t, err)
	assert.Equal(t, r.Ingredients, v)

	for _, field := range []string{"createdBy", "name", "category", "instructions", "favoritedBy", "description", "notes", "tags", "imageURL", "originalURL"} {
		require.NoError(t, models.CheckUpdatableField(field))
		_, err := fieldValue(r, field)
		assert.NoError(t, err, field)
	}

	_, err = fieldValue(r, "id")
	assert.True(t, errors.Is(err, models.ErrInvalidField))
}

func TestLegacyDocumentMerge(t *testing.T) {
	assert.True(t, isLegacyDoc(map[string]interface{}{"id": "a", "Name": "Soup"}))
	assert.True(t, isLegacyDoc(map[string]interface{}{"name": "Soup", "Ingredients": []interface{}{}}))
	assert.False(t, isLegacyDoc(map[string]interface{}{"id": "a", "name": "Soup", "tags": []interface{}{}}))

	legacy := legacyRecipe{
		Name:         "Tomato soup",
		Description:  "Old favourite",
		Ingredients:  []string{"4 tomatoes", "1 onion"},
		Instructions: []string{"Chop.", "Simmer."},
		Notes:        "Serve hot",
		OriginalURL:  "https://cook.example.com/soup",
	}

	r := legacy.merge(models.Recipe{ID: "a", Category: "Lunch"})
	assert.Equal(t, "Tomato soup", r.Name)
	assert.Equal(t, "Lunch", r.Category)
	assert.Equal(t, "Old favourite", r.Description)
	assert.Equal(t, "Serve hot", r.Notes)
	assert.Equal(t, "https://cook.example.com/soup", r.OriginalURL)
	assert.Equal(t, []models.Ingredient{{Name: "4 tomatoes"}, {Name: "1 onion"}}, r.Ingredients)
	assert.Equal(t, []models.Instruction{{Number: 1, Instruction: "Chop."}, {Number: 2, Instruction: "Simmer."}}, r.Instructions)

	r = legacy.merge(models.Recipe{ID: "a", Name: "Renamed soup"})
	assert.Equal(t, "Renamed soup", r.Name, "newer lowercase fields win")
}
