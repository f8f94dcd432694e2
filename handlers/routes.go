package handlers

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// NewRouter registers every route on a gorilla/mux router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(accessLog(h.Logger))

	r.HandleFunc("/recipes", h.GetRecipes).Methods("GET")
	r.HandleFunc("/recipes/view", h.GetRecipeView).Methods("GET")
	r.HandleFunc("/categories", h.GetCategories).Methods("GET")

	r.HandleFunc("/recipe", h.GetRecipe).Methods("GET")
	r.HandleFunc("/recipe", h.CreateRecipe).Methods("POST")
	r.HandleFunc("/recipe/favorite", h.SetFavorite).Methods("PUT")
	r.HandleFunc("/delete/recipe", h.DeleteRecipe).Methods("DELETE")
	r.HandleFunc("/update/recipe", h.UpdateRecipeField).Methods("PUT")

	r.HandleFunc("/import", h.ImportRecipe).Methods("POST")
	r.HandleFunc("/image", h.FetchImage).Methods("GET")
	return r
}

// WithCORS wraps next so browsers on allowedOrigins may call the API.
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(next)
}

func accessLog(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", m.Code),
				zap.Int64("bytes", m.Written),
				zap.Duration("duration", m.Duration))
		})
	}
}
