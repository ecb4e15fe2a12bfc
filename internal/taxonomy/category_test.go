package taxonomy_test

import (
	"context"
	"testing"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
	"github.com/HBTGmbH/pwr-skill-service/internal/models"
	"github.com/HBTGmbH/pwr-skill-service/internal/taxonomy"
	"github.com/HBTGmbH/pwr-skill-service/internal/taxonomy/taxonomytest"
)

type fixture struct {
	svc        *taxonomy.Service
	categories *taxonomytest.MemCategoryStore
	skills     *taxonomytest.MemSkillStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	categories := taxonomytest.NewMemCategoryStore()
	skills := taxonomytest.NewMemSkillStore()
	return &fixture{
		svc:        taxonomy.New(categories, skills),
		categories: categories,
		skills:     skills,
	}
}

// mustCreate creates a category or fails the test.
func (f *fixture) mustCreate(t *testing.T, qualifier string, parentID *int) *models.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), models.Category{Qualifier: qualifier}, parentID)
	if err != nil {
		t.Fatalf("CreateCategory(%q): %v", qualifier, err)
	}
	return c
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a custom root category", func(t *testing.T) {
		f := newFixture(t)
		c := f.mustCreate(t, "Languages", nil)

		if !c.Custom {
			t.Error("created category must be custom")
		}
		if c.ParentID != nil {
			t.Errorf("root category has parent %d", *c.ParentID)
		}
		if c.ID == 0 {
			t.Error("id was not assigned")
		}
	})

	t.Run("rejects empty qualifier", func(t *testing.T) {
		f := newFixture(t)
		for _, qualifier := range []string{"", "   "} {
			_, err := f.svc.CreateCategory(ctx, models.Category{Qualifier: qualifier}, nil)
			if !apperr.IsKind(err, apperr.ValidationFailed) {
				t.Errorf("qualifier %q: got %v, want ValidationFailed", qualifier, err)
			}
		}
	})

	t.Run("rejects duplicate qualifier", func(t *testing.T) {
		f := newFixture(t)
		f.mustCreate(t, "Languages", nil)

		_, err := f.svc.CreateCategory(ctx, models.Category{Qualifier: "Languages"}, nil)
		if !apperr.IsKind(err, apperr.CategoryAlreadyExists) {
			t.Errorf("got %v, want CategoryAlreadyExists", err)
		}
	})

	t.Run("qualifier collision is case-sensitive", func(t *testing.T) {
		f := newFixture(t)
		f.mustCreate(t, "Languages", nil)

		if _, err := f.svc.CreateCategory(ctx, models.Category{Qualifier: "languages"}, nil); err != nil {
			t.Errorf("differing case must not collide: %v", err)
		}
	})

	t.Run("rejects unknown parent", func(t *testing.T) {
		f := newFixture(t)
		missing := 999
		_, err := f.svc.CreateCategory(ctx, models.Category{Qualifier: "Languages"}, &missing)
		if !apperr.IsKind(err, apperr.CategoryNotFound) {
			t.Errorf("got %v, want CategoryNotFound", err)
		}
	})

	t.Run("inherits parent blacklist flag once", func(t *testing.T) {
		f := newFixture(t)
		parent := f.mustCreate(t, "Deprecated", nil)
		if _, err := f.svc.SetBlacklist(ctx, parent.ID, true); err != nil {
			t.Fatalf("SetBlacklist: %v", err)
		}

		child := f.mustCreate(t, "Child", &parent.ID)
		if !child.Blacklisted {
			t.Error("child must inherit the parent's blacklist flag at creation")
		}

		// One-shot inheritance: clearing the child must not touch the parent,
		// and the parent's flag is not a live link.
		if _, err := f.svc.SetBlacklist(ctx, child.ID, false); err != nil {
			t.Fatalf("SetBlacklist: %v", err)
		}
		got, err := f.svc.Category(ctx, parent.ID)
		if err != nil {
			t.Fatalf("Category: %v", err)
		}
		if !got.Blacklisted {
			t.Error("parent flag must stay set after clearing the child")
		}
	})

	t.Run("duplicate candidate locales collapse to the last", func(t *testing.T) {
		f := newFixture(t)
		candidate := models.Category{
			Qualifier: "Languages",
			Qualifiers: []models.LocalizedQualifier{
				{Locale: "de", Qualifier: "Sprache"},
				{Locale: "deu", Qualifier: "Sprachen"},
			},
		}
		c, err := f.svc.CreateCategory(ctx, candidate, nil)
		if err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		if len(c.Qualifiers) != 1 {
			t.Fatalf("got %d locales, want 1", len(c.Qualifiers))
		}
		if c.Qualifiers[0].Locale != "deu" || c.Qualifiers[0].Qualifier != "Sprachen" {
			t.Errorf("got %+v, want deu/Sprachen", c.Qualifiers[0])
		}
	})

	t.Run("rejects invalid candidate locale", func(t *testing.T) {
		f := newFixture(t)
		candidate := models.Category{
			Qualifier:  "Languages",
			Qualifiers: []models.LocalizedQualifier{{Locale: "not-a-code", Qualifier: "x"}},
		}
		_, err := f.svc.CreateCategory(ctx, candidate, nil)
		if !apperr.IsKind(err, apperr.InvalidLocale) {
			t.Errorf("got %v, want InvalidLocale", err)
		}
	})
}

// TestMoveCategory covers the end-to-end hierarchy scenario: building a
// small tree, moving a leaf deeper, and refusing the reverse move that
// would create a cycle.
func TestMoveCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	parent1 := f.mustCreate(t, "Parent1", nil)
	child1 := f.mustCreate(t, "Child1", &parent1.ID)
	child2 := f.mustCreate(t, "Child2", &child1.ID)
	child22 := f.mustCreate(t, "Child2_2", &child1.ID)

	moved, err := f.svc.MoveCategory(ctx, child22.ID, child2.ID)
	if err != nil {
		t.Fatalf("MoveCategory: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != child2.ID {
		t.Fatalf("Child2_2 parent = %v, want %d", moved.ParentID, child2.ID)
	}

	// Ancestry after the move: Child2_2 -> Child2 -> Child1 -> Parent1 -> nil.
	wantChain := []int{child2.ID, child1.ID, parent1.ID}
	current, err := f.svc.Category(ctx, child22.ID)
	if err != nil {
		t.Fatalf("Category: %v", err)
	}
	for i := 0; current.ParentID != nil; i++ {
		if i >= len(wantChain) {
			t.Fatal("ancestor chain longer than expected")
		}
		if *current.ParentID != wantChain[i] {
			t.Fatalf("ancestor %d = %d, want %d", i, *current.ParentID, wantChain[i])
		}
		if current, err = f.svc.Category(ctx, *current.ParentID); err != nil {
			t.Fatalf("Category: %v", err)
		}
	}

	t.Run("reverse move fails with a cycle error", func(t *testing.T) {
		_, err := f.svc.MoveCategory(ctx, parent1.ID, child2.ID)
		if !apperr.IsKind(err, apperr.CategoryCycle) {
			t.Errorf("got %v, want CategoryCycle", err)
		}
	})

	t.Run("self move fails with a cycle error", func(t *testing.T) {
		_, err := f.svc.MoveCategory(ctx, child1.ID, child1.ID)
		if !apperr.IsKind(err, apperr.CategoryCycle) {
			t.Errorf("got %v, want CategoryCycle", err)
		}
	})

	t.Run("parent chain always terminates after successful moves", func(t *testing.T) {
		all, err := f.svc.Categories().All(ctx)
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		for _, c := range all {
			steps := 0
			node := &c
			for node.ParentID != nil {
				if steps++; steps > len(all) {
					t.Fatalf("cycle reachable from category %d", c.ID)
				}
				if node, err = f.svc.Category(ctx, *node.ParentID); err != nil {
					t.Fatalf("Category: %v", err)
				}
			}
		}
	})
}

func TestDeleteCategoryCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	root := f.mustCreate(t, "Root", nil)
	mid := f.mustCreate(t, "Mid", &root.ID)
	leaf := f.mustCreate(t, "Leaf", &mid.ID)
	sibling := f.mustCreate(t, "Sibling", nil)

	for _, categoryID := range []int{root.ID, mid.ID, leaf.ID} {
		if _, err := f.svc.CreateSkillInCategory(ctx, models.Skill{Qualifier: "skill-" + string(rune('a'+categoryID))}, categoryID); err != nil {
			t.Fatalf("CreateSkillInCategory: %v", err)
		}
	}
	keep, err := f.svc.CreateSkillInCategory(ctx, models.Skill{Qualifier: "kept"}, sibling.ID)
	if err != nil {
		t.Fatalf("CreateSkillInCategory: %v", err)
	}

	if err := f.svc.DeleteCategory(ctx, root.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	for _, id := range []int{root.ID, mid.ID, leaf.ID} {
		if c, _ := f.svc.Categories().ByID(ctx, id); c != nil {
			t.Errorf("category %d still exists after cascade delete", id)
		}
	}
	if f.categories.Len() != 1 {
		t.Errorf("got %d categories, want only the sibling", f.categories.Len())
	}
	if f.skills.Len() != 1 {
		t.Errorf("got %d skills, want only the sibling's", f.skills.Len())
	}
	if sk, _ := f.svc.Skills().ByID(ctx, keep.ID); sk == nil {
		t.Error("skill outside the deleted subtree must survive")
	}
}

func TestSetBlacklistPropagation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	root := f.mustCreate(t, "Root", nil)
	mid := f.mustCreate(t, "Mid", &root.ID)
	leaf := f.mustCreate(t, "Leaf", &mid.ID)
	outside := f.mustCreate(t, "Outside", nil)

	if _, err := f.svc.SetBlacklist(ctx, root.ID, true); err != nil {
		t.Fatalf("SetBlacklist: %v", err)
	}
	for _, id := range []int{root.ID, mid.ID, leaf.ID} {
		c, err := f.svc.Category(ctx, id)
		if err != nil {
			t.Fatalf("Category: %v", err)
		}
		if !c.Blacklisted {
			t.Errorf("category %d not blacklisted after subtree blacklist", id)
		}
	}
	if c, _ := f.svc.Category(ctx, outside.ID); c.Blacklisted {
		t.Error("category outside the subtree must not be flagged")
	}

	if _, err := f.svc.SetBlacklist(ctx, root.ID, false); err != nil {
		t.Fatalf("SetBlacklist: %v", err)
	}
	for _, id := range []int{root.ID, mid.ID, leaf.ID} {
		c, _ := f.svc.Category(ctx, id)
		if c.Blacklisted {
			t.Errorf("category %d still blacklisted after subtree whitelist", id)
		}
	}
}

func TestCategoryLocales(t *testing.T) {
	ctx := context.Background()

	t.Run("add replaces an existing entry for the locale", func(t *testing.T) {
		f := newFixture(t)
		c := f.mustCreate(t, "Languages", nil)

		if _, err := f.svc.AddCategoryLocale(ctx, c.ID, "de", "Sprache"); err != nil {
			t.Fatalf("AddCategoryLocale: %v", err)
		}
		got, err := f.svc.AddCategoryLocale(ctx, c.ID, "deu", "Sprachen")
		if err != nil {
			t.Fatalf("AddCategoryLocale: %v", err)
		}
		if len(got.Qualifiers) != 1 {
			t.Fatalf("got %d locales, want 1", len(got.Qualifiers))
		}
		if got.Qualifiers[0].Qualifier != "Sprachen" {
			t.Errorf("got %q, want replacement to win", got.Qualifiers[0].Qualifier)
		}
	})

	t.Run("different locales accumulate", func(t *testing.T) {
		f := newFixture(t)
		c := f.mustCreate(t, "Languages", nil)

		f.svc.AddCategoryLocale(ctx, c.ID, "de", "Sprachen")
		got, err := f.svc.AddCategoryLocale(ctx, c.ID, "fr", "Langues")
		if err != nil {
			t.Fatalf("AddCategoryLocale: %v", err)
		}
		if len(got.Qualifiers) != 2 {
			t.Errorf("got %d locales, want 2", len(got.Qualifiers))
		}
	})

	t.Run("remove is a no-op for an absent locale", func(t *testing.T) {
		f := newFixture(t)
		c := f.mustCreate(t, "Languages", nil)

		got, err := f.svc.RemoveCategoryLocale(ctx, c.ID, "de")
		if err != nil {
			t.Fatalf("RemoveCategoryLocale: %v", err)
		}
		if len(got.Qualifiers) != 0 {
			t.Errorf("got %d locales, want 0", len(got.Qualifiers))
		}
	})

	t.Run("rejects an unresolvable code", func(t *testing.T) {
		f := newFixture(t)
		c := f.mustCreate(t, "Languages", nil)

		_, err := f.svc.AddCategoryLocale(ctx, c.ID, "q1", "x")
		if !apperr.IsKind(err, apperr.InvalidLocale) {
			t.Errorf("got %v, want InvalidLocale", err)
		}
	})
}

func TestSetDisplay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.mustCreate(t, "Languages", nil)

	got, err := f.svc.SetDisplay(ctx, c.ID, true)
	if err != nil {
		t.Fatalf("SetDisplay: %v", err)
	}
	if !got.Display {
		t.Error("display flag not set")
	}

	if _, err := f.svc.SetDisplay(ctx, 999, true); !apperr.IsKind(err, apperr.CategoryNotFound) {
		t.Errorf("got %v, want CategoryNotFound", err)
	}
}
