// Package router sets up all HTTP routes and middleware chains for the
// skill service. Routes mirror the /category and /skill resources.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HBTGmbH/pwr-skill-service/internal/handlers"
	"github.com/HBTGmbH/pwr-skill-service/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(categories *handlers.Categories, skills *handlers.Skills) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/category", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Get("/root", categories.Roots)
		r.Get("/blacklist", categories.Blacklist)
		r.Get("/byName", categories.GetByQualifier)
		r.Get("/{id}", categories.Get)
		r.Get("/{id}/children", categories.Children)
		r.Get("/{id}/skills", categories.Skills)

		r.Post("/", categories.Create)
		r.Post("/{parent_id}", categories.Create)
		r.Delete("/{id}", categories.Delete)
		r.Patch("/{id}/category/{parent_id}", categories.Move)
		r.Patch("/{id}/display/{isDisplay}", categories.SetDisplay)
		r.Post("/{id}/locale", categories.AddLocale)
		r.Delete("/{id}/locale/{language}", categories.RemoveLocale)
		r.Post("/blacklist/{id}", categories.AddToBlacklist)
		r.Delete("/blacklist/{id}", categories.RemoveFromBlacklist)
	})

	r.Route("/skill", func(r chi.Router) {
		r.Get("/", skills.List)
		r.Get("/byName", skills.GetByQualifier)
		r.Get("/search", skills.Search)
		r.Get("/tree", skills.Tree)
		r.Get("/tree/debug", skills.TreeDebug)
		r.Get("/{id}", skills.Get)

		r.Post("/", skills.GetOrCreateCategorized)
		r.Post("/categorize", skills.CategorizeAll)
		r.Post("/index", skills.RebuildIndex)
		r.Post("/category/{categoryId}", skills.Create)
		r.Put("/{id}", skills.Update)
		r.Patch("/{id}", skills.Categorize)
		r.Patch("/{id}/category/{category_id}", skills.Move)
		r.Delete("/{id}", skills.Delete)
		r.Post("/{id}/locale/{language}", skills.AddLocale)
		r.Delete("/{id}/locale/{language}", skills.RemoveLocale)
		r.Post("/{id}/version", skills.AddVersion)
		r.Delete("/{id}/version", skills.RemoveVersion)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
