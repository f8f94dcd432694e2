package catalog

import (
	"errors"
	"fmt"
	"strings"

	"recipebox/models"
)

var ErrUnknownViewMode = errors.New("unknown view mode")

type ViewMode int

const (
	ViewAll ViewMode = iota
	ViewPersonal
	ViewFavorites
)

// Labels used by the view selector.
const (
	LabelAll       = "ALL RECIPES"
	LabelPersonal  = "PERSONAL RECIPES"
	LabelFavorites = "FAVORITE RECIPES"
)

func (m ViewMode) String() string {
	switch m {
	case ViewAll:
		return LabelAll
	case ViewPersonal:
		return LabelPersonal
	case ViewFavorites:
		return LabelFavorites
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// ParseViewMode accepts the selector labels or the short names "all",
// "personal" and "favorites", ignoring case. An empty string means ViewAll.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL", LabelAll:
		return ViewAll, nil
	case "PERSONAL", LabelPersonal:
		return ViewPersonal, nil
	case "FAVORITES", "FAVORITE", LabelFavorites:
		return ViewFavorites, nil
	}
	return ViewAll, fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
}

// Card is one cell of the recipe grid. Index is a rendering key only.
type Card struct {
	Index       int    `json:"index"`
	RecipeID    string `json:"recipeId,omitempty"`
	Name        string `json:"name,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type PartitionKind int

const (
	// PartitionList carries cards, possibly none.
	PartitionList PartitionKind = iota
	// PartitionEmpty means the viewer has no favorites in scope; show a
	// message instead of a grid.
	PartitionEmpty
)

type Partition struct {
	Kind  PartitionKind
	Cards []Card
}

// PartitionByView selects the recipes of c visible in mode for viewerID and
// numbers them in iteration order. An empty viewerID matches nothing in the
// personal and favorites views.
func PartitionByView(c *models.Collection, mode ViewMode, viewerID string) Partition {
	var keep func(models.Recipe) bool
	switch mode {
	case ViewPersonal:
		keep = func(r models.Recipe) bool { return viewerID != "" && r.CreatedBy == viewerID }
	case ViewFavorites:
		keep = func(r models.Recipe) bool { return r.IsFavoritedBy(viewerID) }
	default:
		keep = func(models.Recipe) bool { return true }
	}

	cards := []Card{}
	c.Each(func(r models.Recipe) bool {
		if keep(r) {
			cards = append(cards, Card{
				Index:     len(cards),
				RecipeID:  r.ID,
				Name:      r.Name,
				CreatedBy: r.CreatedBy,
			})
		}
		return true
	})

	if mode == ViewFavorites && len(cards) == 0 {
		return Partition{Kind: PartitionEmpty}
	}
	return Partition{Kind: PartitionList, Cards: cards}
}
