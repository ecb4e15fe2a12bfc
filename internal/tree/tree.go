// Package tree materializes the flat persisted category/skill collections
// into a single in-memory rooted tree for bulk export. The build is two
// linear passes over the inputs with an id-keyed lookup, never a lazy walk
// of the persisted graph.
package tree

import (
	"context"
	"fmt"

	"github.com/HBTGmbH/pwr-skill-service/internal/models"
	"github.com/HBTGmbH/pwr-skill-service/internal/taxonomy"
)

// debugSkillLimit bounds the skill set of BuildDebug snapshots.
const debugSkillLimit = 50

// Build converts the flat inputs into a tree rooted at a synthetic node.
// First pass: every category becomes a detached node indexed by id, and
// every categorized skill is attached to its category's node. Second pass:
// category nodes are linked to their parent's node, root categories
// directly under the synthetic root. The result is a pure value sharing no
// state with the inputs.
//
// A skill referencing an unknown category id means the stores handed over
// inconsistent data; that is a programming fault and panics.
func Build(categories []models.Category, skills []models.Skill) *models.CategoryNode {
	root := &models.CategoryNode{
		ID:        models.RootNodeID,
		Qualifier: models.RootNodeQualifier,
	}

	nodesByID := make(map[int]*models.CategoryNode, len(categories))
	for i := range categories {
		c := &categories[i]
		nodesByID[c.ID] = &models.CategoryNode{
			ID:          c.ID,
			Qualifier:   c.Qualifier,
			Qualifiers:  append([]models.LocalizedQualifier(nil), c.Qualifiers...),
			Blacklisted: c.Blacklisted,
			Custom:      c.Custom,
			Display:     c.Display,
		}
	}
	for i := range skills {
		sk := &skills[i]
		if sk.CategoryID == nil {
			continue
		}
		parent, ok := nodesByID[*sk.CategoryID]
		if !ok {
			panic(fmt.Sprintf("skill %d references unknown category %d", sk.ID, *sk.CategoryID))
		}
		parent.ChildSkills = append(parent.ChildSkills, &models.SkillNode{
			ID:         sk.ID,
			Qualifier:  sk.Qualifier,
			Qualifiers: append([]models.LocalizedQualifier(nil), sk.Qualifiers...),
			Custom:     sk.Custom,
			Versions:   append([]string(nil), sk.Versions...),
		})
	}

	for i := range categories {
		c := &categories[i]
		node := nodesByID[c.ID]
		if c.ParentID == nil {
			root.ChildCategories = append(root.ChildCategories, node)
			continue
		}
		parent, ok := nodesByID[*c.ParentID]
		if !ok {
			panic(fmt.Sprintf("category %d references unknown parent %d", c.ID, *c.ParentID))
		}
		parent.ChildCategories = append(parent.ChildCategories, node)
	}

	return root
}

// Snapshot materializes the full current tree from the service's stores.
func Snapshot(ctx context.Context, svc *taxonomy.Service) (*models.CategoryNode, error) {
	categories, err := svc.Categories().All(ctx)
	if err != nil {
		return nil, err
	}
	skills, err := svc.Skills().All(ctx)
	if err != nil {
		return nil, err
	}
	return Build(categories, skills), nil
}

// SnapshotDebug materializes a diagnostic tree with the full category set
// but a bounded skill sample.
func SnapshotDebug(ctx context.Context, svc *taxonomy.Service) (*models.CategoryNode, error) {
	categories, err := svc.Categories().All(ctx)
	if err != nil {
		return nil, err
	}
	skills, err := svc.Skills().FirstN(ctx, debugSkillLimit)
	if err != nil {
		return nil, err
	}
	return Build(categories, skills), nil
}
