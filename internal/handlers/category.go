package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
	"github.com/HBTGmbH/pwr-skill-service/internal/cache"
	"github.com/HBTGmbH/pwr-skill-service/internal/models"
	"github.com/HBTGmbH/pwr-skill-service/internal/taxonomy"
)

// Categories groups the /category handlers and their dependencies.
type Categories struct {
	svc       *taxonomy.Service
	treeCache *cache.TreeCache
}

// NewCategories creates the /category handler group. treeCache may be nil
// when Valkey is not configured.
func NewCategories(svc *taxonomy.Service, treeCache *cache.TreeCache) *Categories {
	return &Categories{svc: svc, treeCache: treeCache}
}

// List returns the ids of all categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.Categories().All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryIDs(all))
}

// Roots returns the ids of all categories without a parent.
func (h *Categories) Roots(w http.ResponseWriter, r *http.Request) {
	roots, err := h.svc.Categories().Roots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryIDs(roots))
}

// Blacklist returns the ids of all blacklisted categories.
func (h *Categories) Blacklist(w http.ResponseWriter, r *http.Request) {
	blacklisted, err := h.svc.Categories().Blacklisted(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryIDs(blacklisted))
}

// Get returns the category identified by id.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Category(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetByQualifier returns the category with the given unique qualifier, or
// 204 when none matches.
func (h *Categories) GetByQualifier(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Categories().ByQualifier(r.Context(), r.URL.Query().Get("qualifier"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if c == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Children returns the ids of all direct child categories.
func (h *Categories) Children(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.svc.Category(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	children, err := h.svc.Categories().Children(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryIDs(children))
}

// Skills returns all skills directly attached to the category. Unlike
// Children, the id is not resolved first: an unknown category yields an
// empty list, not a 404.
func (h *Categories) Skills(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	skills, err := h.svc.Skills().ByCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	writeJSON(w, http.StatusOK, skills)
}

// Create creates a custom category, optionally under the parent named in
// the URL.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var candidate models.Category
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeError(w, r, apperr.Validation("category", "malformed request body"))
		return
	}
	var parentID *int
	if raw := chi.URLParam(r, "parent_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, apperr.Validation("parent_id", "must be an integer"))
			return
		}
		parentID = &id
	}
	created, err := h.svc.CreateCategory(r.Context(), candidate, parentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, created)
}

// Delete cascade-deletes a custom category. Non-custom categories are
// delete-protected.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Category(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !c.Custom {
		writeError(w, r, apperr.DeleteForbidden(c.ID, c.Qualifier))
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), c.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Move re-parents a category, refusing moves that would create a cycle.
func (h *Categories) Move(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	parentID, err := idParam(r, "parent_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	moved, err := h.svc.MoveCategory(r.Context(), id, parentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, moved)
}

// SetDisplay sets the display flag of a category.
func (h *Categories) SetDisplay(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	display, err := strconv.ParseBool(chi.URLParam(r, "isDisplay"))
	if err != nil {
		writeError(w, r, apperr.Validation("isDisplay", "must be a boolean"))
		return
	}
	c, err := h.svc.SetDisplay(r.Context(), id, display)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, c)
}

// AddToBlacklist blacklists a category and its whole subtree.
func (h *Categories) AddToBlacklist(w http.ResponseWriter, r *http.Request) {
	h.setBlacklist(w, r, true)
}

// RemoveFromBlacklist clears the blacklist flag on a category and its
// whole subtree.
func (h *Categories) RemoveFromBlacklist(w http.ResponseWriter, r *http.Request) {
	h.setBlacklist(w, r, false)
}

func (h *Categories) setBlacklist(w http.ResponseWriter, r *http.Request, blacklisted bool) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.SetBlacklist(r.Context(), id, blacklisted)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, c)
}

// AddLocale attaches a localized qualifier to a category, replacing any
// existing entry for the same locale.
func (h *Categories) AddLocale(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lang := r.URL.Query().Get("lang")
	qualifier := r.URL.Query().Get("qualifier")
	c, err := h.svc.AddCategoryLocale(r.Context(), id, lang, qualifier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, c)
}

// RemoveLocale detaches a localized qualifier from a category.
func (h *Categories) RemoveLocale(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.RemoveCategoryLocale(r.Context(), id, chi.URLParam(r, "language"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, c)
}

func categoryIDs(categories []models.Category) []int {
	ids := make([]int, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}
