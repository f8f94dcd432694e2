// Package catalog holds the listing logic behind the recipe grid: category
// filtering, view partitioning and grid padding. Everything here is pure and
// works on a read-only snapshot of the recipes.
package catalog

import (
	"recipebox/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllCategories is the sentinel category that disables filtering.
const AllCategories = "ALL"

// ListCategories returns AllCategories followed by every distinct category in
// c, in the order first seen. A nil collection yields only AllCategories.
func ListCategories(c *models.Collection) []string {
	out := []string{AllCategories}
	seen := make(map[string]bool)
	c.Each(func(r models.Recipe) bool {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
		return true
	})
	return out
}

// FilterByCategory returns the recipes whose category equals category. For
// AllCategories the collection itself is returned. Matching is exact.
func FilterByCategory(c *models.Collection, category string) *models.Collection {
	if c == nil {
		return nil
	}
	if category == AllCategories {
		return c
	}
	out := models.NewCollection()
	c.Each(func(r models.Recipe) bool {
		if r.Category == category {
			out.Set(r)
		}
		return true
	})
	return out
}

// CategoryLabel is the display form of a category for the selector bar.
// Casers are stateful, so one is built per call.
func CategoryLabel(category string) string {
	return cases.Upper(language.Und).String(category)
}
