package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
	"github.com/HBTGmbH/pwr-skill-service/internal/locale"
	"github.com/HBTGmbH/pwr-skill-service/internal/models"
)

// CreateCategory creates a custom category from the candidate. When
// parentID is set it must resolve to an existing category; the new
// category then one-shot-inherits that parent's blacklist flag. Localized
// qualifiers on the candidate are copied through the same replace-on-add
// path as AddCategoryLocale, so duplicate locales collapse to the last.
func (s *Service) CreateCategory(ctx context.Context, candidate models.Category, parentID *int) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(candidate.Qualifier) == "" {
		return nil, apperr.Validation("category.qualifier", "Qualifier is null or empty.")
	}
	concurrent, err := s.categories.ByQualifier(ctx, candidate.Qualifier)
	if err != nil {
		return nil, err
	}
	if concurrent != nil {
		return nil, apperr.CategoryExists(concurrent.ID, concurrent.Qualifier)
	}

	created := &models.Category{
		Qualifier: candidate.Qualifier,
		Custom:    true,
	}
	if parentID != nil {
		parent, err := s.Category(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		created.ParentID = &parent.ID
		created.Blacklisted = parent.Blacklisted
	}
	for _, q := range candidate.Qualifiers {
		iso3, err := locale.Resolve(q.Locale)
		if err != nil {
			return nil, err
		}
		setCategoryLocale(created, iso3, q.Qualifier)
	}

	if err := s.categories.Create(ctx, created); err != nil {
		return nil, err
	}
	slog.Info("category created", "id", created.ID, "qualifier", created.Qualifier, "parent", parentID)
	return created, nil
}

// MoveCategory re-parents a category. It fails with a cycle error when the
// new parent is the category itself or one of its transitive descendants,
// detected by walking the new parent's ancestor chain. Blacklist flags are
// not re-inherited by a move.
func (s *Service) MoveCategory(ctx context.Context, id, newParentID int) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	toMove, err := s.Category(ctx, id)
	if err != nil {
		return nil, err
	}
	newParent, err := s.Category(ctx, newParentID)
	if err != nil {
		return nil, err
	}

	onChain, err := s.hasTransitiveParent(ctx, newParent, toMove.ID)
	if err != nil {
		return nil, err
	}
	if newParent.ID == toMove.ID || onChain {
		return nil, apperr.Cycle(toMove.ID, toMove.Qualifier)
	}

	toMove.ParentID = &newParent.ID
	if err := s.categories.Update(ctx, toMove); err != nil {
		return nil, err
	}
	slog.Info("category moved", "id", toMove.ID, "qualifier", toMove.Qualifier, "newParent", newParent.ID)
	return toMove, nil
}

// hasTransitiveParent walks the ancestor chain of c and reports whether
// ancestorID appears on it.
func (s *Service) hasTransitiveParent(ctx context.Context, c *models.Category, ancestorID int) (bool, error) {
	for c.ParentID != nil {
		if *c.ParentID == ancestorID {
			return true, nil
		}
		parent, err := s.Category(ctx, *c.ParentID)
		if err != nil {
			return false, err
		}
		c = parent
	}
	return false, nil
}

// DeleteCategory removes a category, all its descendant categories and
// every skill attached to any of them. Children are deleted before their
// parent, so the forest stays well-formed at every step of the cascade.
// The custom-only restriction is enforced by the caller; the cascade
// itself is unconditional.
func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCategoryTree(ctx, id)
}

func (s *Service) deleteCategoryTree(ctx context.Context, id int) error {
	children, err := s.categories.Children(ctx, id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteCategoryTree(ctx, child.ID); err != nil {
			return err
		}
	}
	if err := s.skills.DeleteByCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("category deleted", "id", id)
	return nil
}

// SetBlacklist writes the blacklist flag on the category and every
// transitive descendant. The full subtree is walked even when flags
// already match the target value.
func (s *Service) SetBlacklist(ctx context.Context, id int, blacklisted bool) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Category(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.propagateBlacklist(ctx, c, blacklisted); err != nil {
		return nil, err
	}
	slog.Info("category blacklist set", "id", c.ID, "qualifier", c.Qualifier, "blacklisted", blacklisted)
	return c, nil
}

func (s *Service) propagateBlacklist(ctx context.Context, c *models.Category, blacklisted bool) error {
	c.Blacklisted = blacklisted
	if err := s.categories.Update(ctx, c); err != nil {
		return err
	}
	children, err := s.categories.Children(ctx, c.ID)
	if err != nil {
		return err
	}
	for i := range children {
		if err := s.propagateBlacklist(ctx, &children[i], blacklisted); err != nil {
			return err
		}
	}
	return nil
}

// SetDisplay sets the display flag of a single category.
func (s *Service) SetDisplay(ctx context.Context, id int, display bool) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Category(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Display = display
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddCategoryLocale attaches a localized qualifier to a category. A
// category holds at most one localized qualifier per locale; an existing
// entry for the same locale is replaced.
func (s *Service) AddCategoryLocale(ctx context.Context, id int, language, qualifier string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Category(ctx, id)
	if err != nil {
		return nil, err
	}
	iso3, err := locale.Resolve(language)
	if err != nil {
		return nil, err
	}
	setCategoryLocale(c, iso3, qualifier)
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveCategoryLocale detaches the localized qualifier for the given
// locale. Removing an absent locale is a no-op.
func (s *Service) RemoveCategoryLocale(ctx context.Context, id int, language string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Category(ctx, id)
	if err != nil {
		return nil, err
	}
	iso3, err := locale.Resolve(language)
	if err != nil {
		return nil, err
	}
	if i := models.LocaleIndex(c.Qualifiers, iso3); i >= 0 {
		c.Qualifiers = append(c.Qualifiers[:i], c.Qualifiers[i+1:]...)
		if err := s.categories.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// setCategoryLocale enforces the at-most-one-per-locale rule in place.
func setCategoryLocale(c *models.Category, iso3, qualifier string) {
	if i := models.LocaleIndex(c.Qualifiers, iso3); i >= 0 {
		c.Qualifiers = append(c.Qualifiers[:i], c.Qualifiers[i+1:]...)
	}
	c.Qualifiers = append(c.Qualifiers, models.LocalizedQualifier{Locale: iso3, Qualifier: qualifier})
}
