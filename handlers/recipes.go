package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"recipebox/models"
	"recipebox/store"

	"go.uber.org/zap"
)

// Importer builds a recipe from a published page.
type Importer interface {
	Fetch(ctx context.Context, rawURL string) (models.Recipe, error)
}

type Handler struct {
	Store    store.RecipeStore
	Importer Importer
	// ImageClient fetches images for the resize proxy.
	ImageClient   *http.Client
	ImageHeight   uint
	ImageMaxWidth uint
	ImageMaxBytes int64
	// DefaultViewportWidth is used for grid views when the client sends none.
	DefaultViewportWidth int
	Logger               *zap.Logger
}

// writeJSON encodes v before touching w, so an encoding failure still
// produces a clean 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// storeError maps store failures to responses. Unexpected errors are logged.
func (h *Handler) storeError(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "No matching recipe found", http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, msg, http.StatusInternalServerError)
		h.Logger.Error(msg, append(fields, zap.Error(err))...)
	}
}

func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.Store.List(r.Context())
	if err != nil {
		h.storeError(w, err, "Failed to list recipes")
		return
	}

	out := recipes.Recipes()
	if out == nil {
		out = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID := r.URL.Query().Get("id")
	if recipeID == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	recipe, err := h.Store.Get(r.Context(), recipeID)
	if err != nil {
		h.storeError(w, err, "Failed to retrieve recipe", zap.String("id", recipeID))
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var recipe models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		h.Logger.Debug("Failed to decode request body", zap.Error(err))
		return
	}

	created, err := h.Store.Create(r.Context(), recipe)
	if err != nil {
		h.storeError(w, err, "Failed to create recipe", zap.String("id", recipe.ID))
		return
	}
	h.Logger.Info("Recipe created", zap.String("id", created.ID), zap.String("createdBy", created.CreatedBy))
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID := r.URL.Query().Get("id")
	if recipeID == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	if err := h.Store.Delete(r.Context(), recipeID); err != nil {
		h.storeError(w, err, "Failed to delete recipe", zap.String("id", recipeID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type UpdateFieldRequest struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

func (h *Handler) UpdateRecipeField(w http.ResponseWriter, r *http.Request) {
	recipeID := r.URL.Query().Get("id")
	if recipeID == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	var req UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		h.Logger.Debug("Failed to decode request body", zap.Error(err))
		return
	}

	if err := h.Store.UpdateField(r.Context(), recipeID, req.Field, req.Value); err != nil {
		h.storeError(w, err, "Failed to update recipe field", zap.String("id", recipeID), zap.String("field", req.Field))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Recipe field updated successfully"))
}

// SetFavorite adds or removes uid from a recipe's favorites. favorite
// defaults to true.
func (h *Handler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recipeID, uid := q.Get("id"), q.Get("uid")
	if recipeID == "" || uid == "" {
		http.Error(w, "Missing 'id' or 'uid' query parameter", http.StatusBadRequest)
		return
	}
	favorite := true
	switch q.Get("favorite") {
	case "", "true", "1":
	case "false", "0":
		favorite = false
	default:
		http.Error(w, "Invalid 'favorite' query parameter", http.StatusBadRequest)
		return
	}

	if err := h.Store.SetFavorite(r.Context(), recipeID, uid, favorite); err != nil {
		h.storeError(w, err, "Failed to update favorites", zap.String("id", recipeID))
		return
	}
	recipe, err := h.Store.Get(r.Context(), recipeID)
	if err != nil {
		h.storeError(w, err, "Failed to retrieve recipe", zap.String("id", recipeID))
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// ImportRecipe scrapes the page at ?url= and stores it. uid, when given,
// becomes the author.
func (h *Handler) ImportRecipe(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		http.Error(w, "URL parameter is required", http.StatusBadRequest)
		return
	}

	recipe, err := h.Importer.Fetch(r.Context(), pageURL)
	if err != nil {
		http.Error(w, "Failed to import recipe", http.StatusBadGateway)
		h.Logger.Warn("Recipe import failed", zap.String("url", pageURL), zap.Error(err))
		return
	}
	recipe.CreatedBy = r.URL.Query().Get("uid")

	created, err := h.Store.Create(r.Context(), recipe)
	if err != nil {
		h.storeError(w, err, "Failed to create recipe", zap.String("url", pageURL))
		return
	}
	h.Logger.Info("Recipe imported", zap.String("id", created.ID), zap.String("url", pageURL))
	writeJSON(w, http.StatusCreated, created)
}
