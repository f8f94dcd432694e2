package store

import (
	"encoding/json"
	"fmt"

	"recipebox/models"
)

// applyField sets one stored field of r by its encoded name. It round-trips
// through JSON so the value is converted the same way a request body is.
func applyField(r models.Recipe, field string, value interface{}) (models.Recipe, error) {
	if err := models.CheckUpdatableField(field); err != nil {
		return r, err
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return r, fmt.Errorf("encode recipe %s: %w", r.ID, err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return r, fmt.Errorf("decode recipe %s: %w", r.ID, err)
	}
	doc[field] = value
	raw, err = json.Marshal(doc)
	if err != nil {
		return r, fmt.Errorf("%w: %s: %v", models.ErrInvalidField, field, err)
	}
	var out models.Recipe
	if err := json.Unmarshal(raw, &out); err != nil {
		return r, fmt.Errorf("%w: %s: %v", models.ErrInvalidField, field, err)
	}
	out.Normalize()
	return out, nil
}

// fieldValue returns the typed value of one stored field, for stores that
// write a single field instead of the whole recipe.
func fieldValue(r models.Recipe, field string) (interface{}, error) {
	switch field {
	case "createdBy":
		return r.CreatedBy, nil
	case "name":
		return r.Name, nil
	case "category":
		return r.Category, nil
	case "servings":
		return r.Servings, nil
	case "ingredients":
		return r.Ingredients, nil
	case "instructions":
		return r.Instructions, nil
	case "favoritedBy":
		return r.FavoritedBy, nil
	case "description":
		return r.Description, nil
	case "notes":
		return r.Notes, nil
	case "tags":
		return r.Tags, nil
	case "imageURL":
		return r.ImageURL, nil
	case "originalURL":
		return r.OriginalURL, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrInvalidField, field)
}
