// Package taxonomy implements the hierarchy-integrity engine of the skill
// service: safe mutation of the category tree (create, move, cascade
// delete, blacklist propagation, locale edits) and categorization of
// skills into the fallback category.
//
// The category graph is a forest under the parent relation. Every mutation
// that changes a parent pointer goes through an explicit ancestor walk, so
// following parent links from any category always terminates. All
// mutations are serialized by a service-wide mutex; reads never take it.
package taxonomy

import (
	"context"
	"sync"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
	"github.com/HBTGmbH/pwr-skill-service/internal/models"
)

// OtherCategoryName is the qualifier of the fallback category assigned to
// skills with no more specific classification. It must exist; the database
// seed guarantees that.
const OtherCategoryName = "Other"

// CategoryStore is the persistence contract for categories. Lookup methods
// return (nil, nil) when the entity does not exist.
type CategoryStore interface {
	ByID(ctx context.Context, id int) (*models.Category, error)
	ByQualifier(ctx context.Context, qualifier string) (*models.Category, error)
	Children(ctx context.Context, parentID int) ([]models.Category, error)
	Roots(ctx context.Context) ([]models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
	Blacklisted(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int) error
}

// SkillStore is the persistence contract for skills.
type SkillStore interface {
	ByID(ctx context.Context, id int) (*models.Skill, error)
	ByQualifier(ctx context.Context, qualifier string) (*models.Skill, error)
	ByQualifiers(ctx context.Context, qualifiers []string) ([]models.Skill, error)
	ByCategory(ctx context.Context, categoryID int) ([]models.Skill, error)
	All(ctx context.Context) ([]models.Skill, error)
	FirstN(ctx context.Context, n int) ([]models.Skill, error)
	Create(ctx context.Context, s *models.Skill) error
	Update(ctx context.Context, s *models.Skill) error
	Delete(ctx context.Context, id int) error
	DeleteByCategory(ctx context.Context, categoryID int) error
}

// Service owns all mutations of the category/skill graph.
type Service struct {
	mu         sync.Mutex
	categories CategoryStore
	skills     SkillStore
}

// New returns a Service operating on the given stores.
func New(categories CategoryStore, skills SkillStore) *Service {
	return &Service{categories: categories, skills: skills}
}

// Category resolves a category id, failing with CategoryNotFound.
func (s *Service) Category(ctx context.Context, id int) (*models.Category, error) {
	c, err := s.categories.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.CategoryNotFoundByID(id)
	}
	return c, nil
}

// Skill resolves a skill id, failing with SkillNotFound.
func (s *Service) Skill(ctx context.Context, id int) (*models.Skill, error) {
	sk, err := s.skills.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sk == nil {
		return nil, apperr.SkillNotFoundByID(id)
	}
	return sk, nil
}

// Categories exposes the category store for read-only collaborators such
// as the tree materializer and the handlers.
func (s *Service) Categories() CategoryStore { return s.categories }

// Skills exposes the skill store for read-only collaborators.
func (s *Service) Skills() SkillStore { return s.skills }
