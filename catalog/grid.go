package catalog

const (
	GridColumns = 4
	// NarrowViewport is the width below which the grid collapses to one
	// column and is left unpadded.
	NarrowViewport = 500
)

// PadForGrid fills the last grid row with placeholder cards. Fewer than
// GridColumns cards become exactly GridColumns; larger counts are rounded up
// to a multiple of GridColumns. Narrow viewports get cards back untouched.
// Placeholder indices continue from len(cards).
func PadForGrid(cards []Card, viewportWidth int) []Card {
	if viewportWidth < NarrowViewport {
		return cards
	}
	n := len(cards)
	target := n
	switch {
	case n < GridColumns:
		target = GridColumns
	case n%GridColumns != 0:
		target = n + GridColumns - n%GridColumns
	}
	out := make([]Card, n, target)
	copy(out, cards)
	for i := n; i < target; i++ {
		out = append(out, Card{Index: i, Placeholder: true})
	}
	return out
}
