package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
	"github.com/HBTGmbH/pwr-skill-service/internal/cache"
	"github.com/HBTGmbH/pwr-skill-service/internal/models"
	"github.com/HBTGmbH/pwr-skill-service/internal/search"
	"github.com/HBTGmbH/pwr-skill-service/internal/taxonomy"
	"github.com/HBTGmbH/pwr-skill-service/internal/tree"
)

// Skills groups the /skill handlers and their dependencies.
type Skills struct {
	svc       *taxonomy.Service
	matcher   *search.Matcher
	treeCache *cache.TreeCache
}

// NewSkills creates the /skill handler group. treeCache may be nil when
// Valkey is not configured.
func NewSkills(svc *taxonomy.Service, matcher *search.Matcher, treeCache *cache.TreeCache) *Skills {
	return &Skills{svc: svc, matcher: matcher, treeCache: treeCache}
}

// List returns the ids of all skills.
func (h *Skills) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.Skills().All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids := make([]int, 0, len(all))
	for _, sk := range all {
		ids = append(ids, sk.ID)
	}
	writeJSON(w, http.StatusOK, ids)
}

// Get returns the skill identified by id.
func (h *Skills) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sk, err := h.svc.Skill(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// GetByQualifier returns the skill with the given primary qualifier, or
// 204 when none matches.
func (h *Skills) GetByQualifier(w http.ResponseWriter, r *http.Request) {
	sk, err := h.svc.Skills().ByQualifier(r.Context(), r.URL.Query().Get("qualifier"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sk == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// Search performs the approximate-match lookup over indexed skill names.
func (h *Skills) Search(w http.ResponseWriter, r *http.Request) {
	maxResults := search.DefaultMaxResults
	if raw := r.URL.Query().Get("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, apperr.Validation("maxResults", "must be an integer"))
			return
		}
		maxResults = n
	}
	writeJSON(w, http.StatusOK, h.matcher.Search(r.URL.Query().Get("searchterm"), maxResults))
}

// RebuildIndex triggers an asynchronous full rebuild of the search index.
// The request returns immediately; the rebuild outlives it, so the request
// context's cancellation is stripped before handing it off.
func (h *Skills) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	h.matcher.RebuildAsync(context.WithoutCancel(r.Context()))
	w.WriteHeader(http.StatusAccepted)
}

// Create creates a skill in the given category; the qualifier must not
// collide with an existing skill.
func (h *Skills) Create(w http.ResponseWriter, r *http.Request) {
	categoryID, err := idParam(r, "categoryId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var candidate models.Skill
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeError(w, r, apperr.Validation("skill", "malformed request body"))
		return
	}
	sk, err := h.svc.CreateSkillInCategory(r.Context(), candidate, categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, sk)
}

// Update renames a skill.
func (h *Skills) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body models.Skill
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, apperr.Validation("skill", "malformed request body"))
		return
	}
	sk, err := h.svc.UpdateSkillQualifier(r.Context(), id, body.Qualifier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, sk)
}

// Delete permanently removes a skill.
func (h *Skills) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteSkill(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Move re-attaches a skill to a different category.
func (h *Skills) Move(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	categoryID, err := idParam(r, "category_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sk, err := h.svc.MoveSkill(r.Context(), id, categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, sk)
}

// Categorize assigns the skill to the fallback category, overwriting any
// current assignment.
func (h *Skills) Categorize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sk, err := h.svc.Skill(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sk, err = h.svc.Categorize(r.Context(), sk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, sk)
}

// GetOrCreateCategorized resolves a skill by qualifier, creating and
// categorizing it on demand, and returns its category.
func (h *Skills) GetOrCreateCategorized(w http.ResponseWriter, r *http.Request) {
	qualifier := r.URL.Query().Get("qualifier")
	if strings.TrimSpace(qualifier) == "" {
		writeError(w, r, apperr.Validation("qualifier", "must not be empty"))
		return
	}
	category, err := h.svc.GetOrCreateCategorized(r.Context(), qualifier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, category)
}

// CategorizeAll bulk-creates missing skills and categorizes every
// uncategorized one.
func (h *Skills) CategorizeAll(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("list")
	if raw == "" {
		writeError(w, r, apperr.Validation("list", "must not be empty"))
		return
	}
	updated, err := h.svc.CategorizeAll(r.Context(), strings.Split(raw, ","))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// AddLocale attaches a localized qualifier to a skill.
func (h *Skills) AddLocale(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sk, err := h.svc.AddSkillLocale(r.Context(), id, chi.URLParam(r, "language"), r.URL.Query().Get("qualifier"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, sk)
}

// RemoveLocale detaches all localized qualifiers for a locale from a
// skill.
func (h *Skills) RemoveLocale(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sk, err := h.svc.RemoveSkillLocale(r.Context(), id, chi.URLParam(r, "language"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, sk)
}

// AddVersion records a version string on a skill and returns the version
// set.
func (h *Skills) AddVersion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	version, err := bodyString(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sk, err := h.svc.AddVersion(r.Context(), id, version)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, sk.Versions)
}

// RemoveVersion removes a version string from a skill.
func (h *Skills) RemoveVersion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	version, err := bodyString(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.svc.RemoveVersion(r.Context(), id, version); err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Invalidate(r.Context())
	w.WriteHeader(http.StatusOK)
}

// Tree materializes and returns the full skill tree, served from the
// Valkey snapshot cache when possible.
func (h *Skills) Tree(w http.ResponseWriter, r *http.Request) {
	if root, ok := h.treeCache.Get(r.Context()); ok {
		writeJSON(w, http.StatusOK, root)
		return
	}
	root, err := tree.Snapshot(r.Context(), h.svc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.treeCache.Set(r.Context(), root)
	writeJSON(w, http.StatusOK, root)
}

// TreeDebug returns a diagnostic tree with a bounded skill sample; never
// cached.
func (h *Skills) TreeDebug(w http.ResponseWriter, r *http.Request) {
	root, err := tree.SnapshotDebug(r.Context(), h.svc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

// bodyString reads a raw request body as a trimmed plain-text value.
func bodyString(r *http.Request) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return "", apperr.Validation("body", "unreadable request body")
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", apperr.Validation("body", "must not be empty")
	}
	return value, nil
}
