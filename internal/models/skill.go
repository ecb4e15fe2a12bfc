package models

// Skill is a leaf of the taxonomy. A skill with a nil CategoryID is
// uncategorized; the categorization service moves such skills into the
// fallback category. Qualifiers is a multiset: unlike categories, a skill
// may carry several localized qualifiers for the same locale.
type Skill struct {
	ID         int                  `json:"id"`
	Qualifier  string               `json:"qualifier"`
	CategoryID *int                 `json:"categoryId"`
	Qualifiers []LocalizedQualifier `json:"qualifiers"`
	Custom     bool                 `json:"custom"`
	Versions   []string             `json:"versions"`
}

// HasVersion reports whether the skill already carries the given version.
func (s *Skill) HasVersion(version string) bool {
	for _, v := range s.Versions {
		if v == version {
			return true
		}
	}
	return false
}
