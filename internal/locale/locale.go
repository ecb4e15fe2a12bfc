// Package locale resolves ISO 639 language codes to their canonical
// ISO 639-2/T three-letter form. Localized qualifiers are stored keyed by
// that canonical form so "de", "ger" and "deu" all address the same entry.
package locale

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
)

// Resolve returns the canonical three-letter code for an ISO 639-1 or
// ISO 639-2 language code. Unknown or malformed codes yield an
// InvalidLocale error.
func Resolve(code string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(code))
	if len(trimmed) < 2 || len(trimmed) > 3 {
		return "", apperr.BadLocale(code)
	}
	base, err := language.ParseBase(trimmed)
	if err != nil {
		return "", apperr.BadLocale(code)
	}
	iso3 := base.ISO3()
	if iso3 == "" {
		return "", apperr.BadLocale(code)
	}
	return iso3, nil
}
