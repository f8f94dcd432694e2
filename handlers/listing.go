package handlers

import (
	"net/http"
	"strconv"

	"recipebox/catalog"

	"go.uber.org/zap"
)

// NoFavoritesMessage is shown in place of the grid when a viewer has no
// favorites in the selected category.
const NoFavoritesMessage = "NO FAVORITE RECIPES YET"

type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ViewResponse struct {
	Categories []CategoryOption `json:"categories"`
	Category   string           `json:"category"`
	View       string           `json:"view"`
	Empty      bool             `json:"empty"`
	Message    string           `json:"message,omitempty"`
	Cards      []catalog.Card   `json:"cards"`
}

func categoryOptions(categories []string) []CategoryOption {
	out := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryOption{Value: c, Label: catalog.CategoryLabel(c)})
	}
	return out
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.Store.List(r.Context())
	if err != nil {
		h.storeError(w, err, "Failed to list recipes")
		return
	}
	writeJSON(w, http.StatusOK, categoryOptions(catalog.ListCategories(recipes)))
}

// GetRecipeView returns the padded recipe grid for ?category=&view=&uid=&width=.
// Without a uid only the public view is available.
func (h *Handler) GetRecipeView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := catalog.ParseViewMode(q.Get("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uid := q.Get("uid")
	if uid == "" {
		mode = catalog.ViewAll
	}

	width := h.DefaultViewportWidth
	if s := q.Get("width"); s != "" {
		width, err = strconv.Atoi(s)
		if err != nil || width < 0 {
			http.Error(w, "Invalid 'width' query parameter", http.StatusBadRequest)
			return
		}
	}

	recipes, err := h.Store.List(r.Context())
	if err != nil {
		h.storeError(w, err, "Failed to list recipes")
		return
	}

	view := catalog.BuildView(recipes, q.Get("category"), mode, uid, width)
	h.Logger.Debug("Built recipe view",
		zap.String("category", view.Category),
		zap.Stringer("view", view.Mode),
		zap.Int("cards", len(view.Cards)),
		zap.Bool("empty", view.Empty))

	resp := ViewResponse{
		Categories: categoryOptions(view.Categories),
		Category:   view.Category,
		View:       view.Mode.String(),
		Empty:      view.Empty,
		Cards:      view.Cards,
	}
	if view.Empty {
		resp.Message = NoFavoritesMessage
		resp.Cards = []catalog.Card{}
	}
	writeJSON(w, http.StatusOK, resp)
}
