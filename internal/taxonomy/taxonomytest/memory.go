// Package taxonomytest provides in-memory implementations of the taxonomy
// store contracts for tests that exercise the hierarchy engine, the tree
// materializer and the search matcher without a database.
package taxonomytest

import (
	"context"
	"sort"
	"sync"

	"github.com/HBTGmbH/pwr-skill-service/internal/models"
)

// MemCategoryStore is a map-backed CategoryStore. All methods copy values
// in and out, mirroring the detachment a real store provides.
type MemCategoryStore struct {
	mu     sync.Mutex
	nextID int
	items  map[int]models.Category
}

// NewMemCategoryStore returns an empty in-memory category store.
func NewMemCategoryStore() *MemCategoryStore {
	return &MemCategoryStore{nextID: 1, items: make(map[int]models.Category)}
}

func copyCategory(c models.Category) models.Category {
	c.Qualifiers = append([]models.LocalizedQualifier(nil), c.Qualifiers...)
	if c.ParentID != nil {
		id := *c.ParentID
		c.ParentID = &id
	}
	return c
}

func (s *MemCategoryStore) ByID(_ context.Context, id int) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.items[id]; ok {
		c = copyCategory(c)
		return &c, nil
	}
	return nil, nil
}

func (s *MemCategoryStore) ByQualifier(_ context.Context, qualifier string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.Qualifier == qualifier {
			c = copyCategory(c)
			return &c, nil
		}
	}
	return nil, nil
}

func (s *MemCategoryStore) Children(_ context.Context, parentID int) ([]models.Category, error) {
	return s.filter(func(c models.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

func (s *MemCategoryStore) Roots(_ context.Context) ([]models.Category, error) {
	return s.filter(func(c models.Category) bool { return c.ParentID == nil }), nil
}

func (s *MemCategoryStore) All(_ context.Context) ([]models.Category, error) {
	return s.filter(func(models.Category) bool { return true }), nil
}

func (s *MemCategoryStore) Blacklisted(_ context.Context) ([]models.Category, error) {
	return s.filter(func(c models.Category) bool { return c.Blacklisted }), nil
}

func (s *MemCategoryStore) filter(keep func(models.Category) bool) []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Category
	for _, c := range s.items {
		if keep(c) {
			result = append(result, copyCategory(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *MemCategoryStore) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	s.items[c.ID] = copyCategory(*c)
	return nil
}

func (s *MemCategoryStore) Update(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = copyCategory(*c)
	return nil
}

func (s *MemCategoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Len returns the number of stored categories.
func (s *MemCategoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// MemSkillStore is a map-backed SkillStore.
type MemSkillStore struct {
	mu     sync.Mutex
	nextID int
	items  map[int]models.Skill
}

// NewMemSkillStore returns an empty in-memory skill store.
func NewMemSkillStore() *MemSkillStore {
	return &MemSkillStore{nextID: 1, items: make(map[int]models.Skill)}
}

func copySkill(sk models.Skill) models.Skill {
	sk.Qualifiers = append([]models.LocalizedQualifier(nil), sk.Qualifiers...)
	sk.Versions = append([]string(nil), sk.Versions...)
	if sk.CategoryID != nil {
		id := *sk.CategoryID
		sk.CategoryID = &id
	}
	return sk
}

func (s *MemSkillStore) ByID(_ context.Context, id int) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sk, ok := s.items[id]; ok {
		sk = copySkill(sk)
		return &sk, nil
	}
	return nil, nil
}

func (s *MemSkillStore) ByQualifier(_ context.Context, qualifier string) (*models.Skill, error) {
	matches := s.filter(func(sk models.Skill) bool { return sk.Qualifier == qualifier })
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *MemSkillStore) ByQualifiers(_ context.Context, qualifiers []string) ([]models.Skill, error) {
	wanted := make(map[string]struct{}, len(qualifiers))
	for _, q := range qualifiers {
		wanted[q] = struct{}{}
	}
	return s.filter(func(sk models.Skill) bool {
		_, ok := wanted[sk.Qualifier]
		return ok
	}), nil
}

func (s *MemSkillStore) ByCategory(_ context.Context, categoryID int) ([]models.Skill, error) {
	return s.filter(func(sk models.Skill) bool {
		return sk.CategoryID != nil && *sk.CategoryID == categoryID
	}), nil
}

func (s *MemSkillStore) All(_ context.Context) ([]models.Skill, error) {
	return s.filter(func(models.Skill) bool { return true }), nil
}

func (s *MemSkillStore) FirstN(_ context.Context, n int) ([]models.Skill, error) {
	all := s.filter(func(models.Skill) bool { return true })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *MemSkillStore) filter(keep func(models.Skill) bool) []models.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Skill
	for _, sk := range s.items {
		if keep(sk) {
			result = append(result, copySkill(sk))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *MemSkillStore) Create(_ context.Context, sk *models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk.ID = s.nextID
	s.nextID++
	s.items[sk.ID] = copySkill(*sk)
	return nil
}

func (s *MemSkillStore) Update(_ context.Context, sk *models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sk.ID] = copySkill(*sk)
	return nil
}

func (s *MemSkillStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemSkillStore) DeleteByCategory(_ context.Context, categoryID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sk := range s.items {
		if sk.CategoryID != nil && *sk.CategoryID == categoryID {
			delete(s.items, id)
		}
	}
	return nil
}

// Len returns the number of stored skills.
func (s *MemSkillStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
