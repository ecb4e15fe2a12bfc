// Package models defines the domain types shared by the stores, services
// and handlers: skill categories, skills, their localized qualifiers and
// the materialized tree node values.
package models

// Category is a node in the skill taxonomy. Categories form a forest under
// the ParentID relation; skills attach to categories as leaves.
type Category struct {
	ID         int                  `json:"id"`
	Qualifier  string               `json:"qualifier"`
	ParentID   *int                 `json:"categoryId"`
	Qualifiers []LocalizedQualifier `json:"qualifiers"`

	// Blacklisted categories are kept for consistency but must not be used.
	// The flag is inherited from the parent at creation time and propagated
	// to the whole subtree on toggle.
	Blacklisted bool `json:"blacklisted"`

	// Custom marks categories created through the API rather than by bulk
	// ingestion. Only custom categories may be deleted.
	Custom bool `json:"custom"`

	// Display marks the category as the canonical one to show per skill.
	Display bool `json:"display"`
}

// LocalizedQualifier is a (locale, text) alternate name for a category or
// skill. Locale is an ISO 639-2/T three-letter code.
type LocalizedQualifier struct {
	Locale    string `json:"locale"`
	Qualifier string `json:"qualifier"`
}

// LocaleIndex returns the position of the first qualifier for the given
// locale, or -1 if the locale is absent.
func LocaleIndex(qualifiers []LocalizedQualifier, locale string) int {
	for i, q := range qualifiers {
		if q.Locale == locale {
			return i
		}
	}
	return -1
}
