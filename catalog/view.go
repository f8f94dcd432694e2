package catalog

import "recipebox/models"

// View is a fully prepared recipe listing: selector categories plus the
// padded grid for the chosen category and mode.
type View struct {
	Categories []string
	Category   string
	Mode       ViewMode
	// Empty is set when the favorites view has nothing to show. Cards is nil
	// in that case.
	Empty bool
	Cards []Card
}

// BuildView runs category filtering, view partitioning and grid padding in
// that order.
func BuildView(c *models.Collection, category string, mode ViewMode, viewerID string, viewportWidth int) View {
	if category == "" {
		category = AllCategories
	}
	v := View{
		Categories: ListCategories(c),
		Category:   category,
		Mode:       mode,
	}
	p := PartitionByView(FilterByCategory(c, category), mode, viewerID)
	if p.Kind == PartitionEmpty {
		v.Empty = true
		return v
	}
	v.Cards = PadForGrid(p.Cards, viewportWidth)
	return v
}
