package taxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
	"github.com/HBTGmbH/pwr-skill-service/internal/locale"
	"github.com/HBTGmbH/pwr-skill-service/internal/models"
)

// CreateSkill creates an uncategorized custom skill with the given name.
func (s *Service) CreateSkill(ctx context.Context, name string) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createSkill(ctx, name)
}

func (s *Service) createSkill(ctx context.Context, name string) (*models.Skill, error) {
	sk := &models.Skill{Qualifier: name, Custom: true}
	if err := s.skills.Create(ctx, sk); err != nil {
		return nil, err
	}
	slog.Info("skill created", "id", sk.ID, "qualifier", sk.Qualifier)
	return sk, nil
}

// CreateSkillInCategory creates a custom skill directly attached to the
// given category. The qualifier must not collide with an existing skill.
func (s *Service) CreateSkillInCategory(ctx context.Context, candidate models.Skill, categoryID int) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.Category(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	concurrent, err := s.skills.ByQualifier(ctx, candidate.Qualifier)
	if err != nil {
		return nil, err
	}
	if concurrent != nil {
		return nil, apperr.SkillExists(concurrent.ID, concurrent.Qualifier)
	}

	sk := &models.Skill{
		Qualifier:  candidate.Qualifier,
		Qualifiers: candidate.Qualifiers,
		Versions:   candidate.Versions,
		Custom:     true,
		CategoryID: &category.ID,
	}
	if err := s.skills.Create(ctx, sk); err != nil {
		return nil, err
	}
	slog.Info("skill created", "id", sk.ID, "qualifier", sk.Qualifier, "category", category.ID)
	return sk, nil
}

// MoveSkill re-attaches a skill to a different category. Skills are
// leaves, so no cycle check is needed here.
func (s *Service) MoveSkill(ctx context.Context, skillID, categoryID int) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.Skill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	category, err := s.Category(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	sk.CategoryID = &category.ID
	if err := s.skills.Update(ctx, sk); err != nil {
		return nil, err
	}
	slog.Info("skill moved", "id", sk.ID, "qualifier", sk.Qualifier, "category", category.ID)
	return sk, nil
}

// UpdateSkillQualifier renames a skill.
func (s *Service) UpdateSkillQualifier(ctx context.Context, skillID int, qualifier string) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.Skill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	sk.Qualifier = qualifier
	if err := s.skills.Update(ctx, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// DeleteSkill permanently removes a skill. Deleting an unknown id is a
// no-op.
func (s *Service) DeleteSkill(ctx context.Context, skillID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.skills.ByID(ctx, skillID)
	if err != nil {
		return err
	}
	if sk == nil {
		return nil
	}
	slog.Info("skill deleted", "id", sk.ID, "qualifier", sk.Qualifier)
	return s.skills.Delete(ctx, sk.ID)
}

// AddSkillLocale attaches a localized qualifier to a skill. Unlike
// categories, skills may carry several qualifiers for the same locale.
func (s *Service) AddSkillLocale(ctx context.Context, skillID int, language, qualifier string) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.Skill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	iso3, err := locale.Resolve(language)
	if err != nil {
		return nil, err
	}
	sk.Qualifiers = append(sk.Qualifiers, models.LocalizedQualifier{Locale: iso3, Qualifier: qualifier})
	if err := s.skills.Update(ctx, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// RemoveSkillLocale detaches every localized qualifier for the given
// locale from a skill.
func (s *Service) RemoveSkillLocale(ctx context.Context, skillID int, language string) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.Skill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	iso3, err := locale.Resolve(language)
	if err != nil {
		return nil, err
	}
	kept := sk.Qualifiers[:0]
	for _, q := range sk.Qualifiers {
		if q.Locale != iso3 {
			kept = append(kept, q)
		}
	}
	sk.Qualifiers = kept
	if err := s.skills.Update(ctx, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// AddVersion records a free-text version on a skill. Versions form a set.
func (s *Service) AddVersion(ctx context.Context, skillID int, version string) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.Skill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if !sk.HasVersion(version) {
		sk.Versions = append(sk.Versions, version)
		if err := s.skills.Update(ctx, sk); err != nil {
			return nil, err
		}
	}
	return sk, nil
}

// RemoveVersion removes a version from a skill; absent versions are a
// no-op.
func (s *Service) RemoveVersion(ctx context.Context, skillID int, version string) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.Skill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	for i, v := range sk.Versions {
		if v == version {
			sk.Versions = append(sk.Versions[:i], sk.Versions[i+1:]...)
			if err := s.skills.Update(ctx, sk); err != nil {
				return nil, err
			}
			break
		}
	}
	return sk, nil
}

// Categorize assigns the skill to the fallback "Other" category,
// overwriting any current assignment. A missing fallback category means
// the system was never bootstrapped and is treated as a fatal fault.
func (s *Service) Categorize(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categorize(ctx, sk)
}

func (s *Service) categorize(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	other, err := s.categories.ByQualifier(ctx, OtherCategoryName)
	if err != nil {
		return nil, err
	}
	if other == nil {
		panic(fmt.Sprintf("category %q is missing. This should not happen!", OtherCategoryName))
	}
	sk.CategoryID = &other.ID
	if err := s.skills.Update(ctx, sk); err != nil {
		return nil, err
	}
	slog.Info("skill categorized", "id", sk.ID, "qualifier", sk.Qualifier, "category", other.ID)
	return sk, nil
}

// GetOrCreateCategorized resolves a skill by qualifier, creating a custom
// skill when none exists, and categorizes it only when it is currently
// uncategorized. Returns the skill's category.
func (s *Service) GetOrCreateCategorized(ctx context.Context, qualifier string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, err := s.skills.ByQualifier(ctx, qualifier)
	if err != nil {
		return nil, err
	}
	if sk == nil {
		if sk, err = s.createSkill(ctx, qualifier); err != nil {
			return nil, err
		}
	}
	if sk.CategoryID == nil {
		if sk, err = s.categorize(ctx, sk); err != nil {
			return nil, err
		}
	}
	return s.Category(ctx, *sk.CategoryID)
}

// CategorizeAll ensures a skill exists for every distinct qualifier and
// assigns the fallback category to each one that has none yet. Returns the
// skills that were created or categorized.
func (s *Service) CategorizeAll(ctx context.Context, qualifiers []string) ([]models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	distinct := make(map[string]struct{}, len(qualifiers))
	for _, q := range qualifiers {
		distinct[q] = struct{}{}
	}
	names := make([]string, 0, len(distinct))
	for q := range distinct {
		names = append(names, q)
	}
	sort.Strings(names)

	existing, err := s.skills.ByQualifiers(ctx, names)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(existing))
	var pending []*models.Skill
	for i := range existing {
		known[existing[i].Qualifier] = struct{}{}
		if existing[i].CategoryID == nil {
			pending = append(pending, &existing[i])
		}
	}
	for _, name := range names {
		if _, ok := known[name]; ok {
			continue
		}
		created, err := s.createSkill(ctx, name)
		if err != nil {
			return nil, err
		}
		pending = append(pending, created)
	}

	updated := make([]models.Skill, 0, len(pending))
	for _, sk := range pending {
		categorized, err := s.categorize(ctx, sk)
		if err != nil {
			return nil, err
		}
		updated = append(updated, *categorized)
	}
	return updated, nil
}
