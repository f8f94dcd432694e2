package store

import (
	"recipebox/models"
)

// legacyRecipe holds the capitalized keys written by the first version of
// the backend, which stored ingredients and instructions as free text. A
// document can carry both layouts once a field has been updated since.
type legacyRecipe struct {
	Name         string   `firestore:"Name"`
	Description  string   `firestore:"Description"`
	Ingredients  []string `firestore:"Ingredients"`
	Instructions []string `firestore:"Instructions"`
	Notes        string   `firestore:"Notes"`
	OriginalURL  string   `firestore:"OriginalURL"`
}

var legacyKeys = []string{"Name", "Description", "Ingredients", "Instructions", "Notes", "OriginalURL"}

// isLegacyDoc reports whether data has any capitalized key.
func isLegacyDoc(data map[string]interface{}) bool {
	for _, k := range legacyKeys {
		if _, ok := data[k]; ok {
			return true
		}
	}
	return false
}

// merge fills fields of r that are empty from the legacy values.
func (l legacyRecipe) merge(r models.Recipe) models.Recipe {
	if r.Name == "" {
		r.Name = l.Name
	}
	if r.Description == "" {
		r.Description = l.Description
	}
	if r.Notes == "" {
		r.Notes = l.Notes
	}
	if r.OriginalURL == "" {
		r.OriginalURL = l.OriginalURL
	}
	if len(r.Ingredients) == 0 {
		for _, line := range l.Ingredients {
			r.Ingredients = append(r.Ingredients, models.Ingredient{Name: line})
		}
	}
	if len(r.Instructions) == 0 {
		for i, line := range l.Instructions {
			r.Instructions = append(r.Instructions, models.Instruction{Number: i + 1, Instruction: line})
		}
	}
	return r
}
