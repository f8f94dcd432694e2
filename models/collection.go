package models

// Collection maps recipe ids to recipes and remembers insertion order, which
// is the order listings are displayed in. A nil *Collection means the recipes
// have not been loaded yet; read methods are safe to call on it.
type Collection struct {
	order []string
	byID  map[string]Recipe
}

// NewCollection builds a collection from recipes in the given order. A later
// recipe with a repeated id replaces the earlier one in place.
func NewCollection(recipes ...Recipe) *Collection {
	c := &Collection{byID: make(map[string]Recipe, len(recipes))}
	for _, r := range recipes {
		c.Set(r)
	}
	return c
}

// Set inserts r, or replaces the recipe with the same id keeping its position.
func (c *Collection) Set(r Recipe) {
	if c.byID == nil {
		c.byID = make(map[string]Recipe)
	}
	if _, ok := c.byID[r.ID]; !ok {
		c.order = append(c.order, r.ID)
	}
	c.byID[r.ID] = r
}

// Delete removes id and reports whether it was present.
func (c *Collection) Delete(id string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Collection) Get(id string) (Recipe, bool) {
	if c == nil {
		return Recipe{}, false
	}
	r, ok := c.byID[id]
	return r, ok
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IDs returns the recipe ids in insertion order.
func (c *Collection) IDs() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Recipes returns the recipes in insertion order.
func (c *Collection) Recipes() []Recipe {
	if c == nil {
		return nil
	}
	out := make([]Recipe, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Each calls fn for every recipe in insertion order until fn returns false.
func (c *Collection) Each(fn func(r Recipe) bool) {
	if c == nil {
		return
	}
	for _, id := range c.order {
		if !fn(c.byID[id]) {
			return
		}
	}
}

// Clone returns an independent copy. Recipe slices are shared.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	return NewCollection(c.Recipes()...)
}
