package models

// RootNodeID and RootNodeQualifier identify the synthetic root of a
// materialized tree. The root is never persisted; it only exists so the
// whole forest can be returned as a single node.
const (
	RootNodeID        = -1
	RootNodeQualifier = "##ROOT##"
)

// CategoryNode is a detached tree-shaped copy of a category, produced by
// the tree materializer. It shares no state with the persisted graph.
type CategoryNode struct {
	ID              int                  `json:"id"`
	Qualifier       string               `json:"qualifier"`
	Qualifiers      []LocalizedQualifier `json:"qualifiers"`
	Blacklisted     bool                 `json:"blacklisted"`
	Custom          bool                 `json:"custom"`
	Display         bool                 `json:"display"`
	ChildCategories []*CategoryNode      `json:"childCategories"`
	ChildSkills     []*SkillNode         `json:"childSkills"`
}

// SkillNode is a detached tree-shaped copy of a skill.
type SkillNode struct {
	ID         int                  `json:"id"`
	Qualifier  string               `json:"qualifier"`
	Qualifiers []LocalizedQualifier `json:"qualifiers"`
	Custom     bool                 `json:"custom"`
	Versions   []string             `json:"versions"`
}
