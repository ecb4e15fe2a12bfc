package locale_test

import (
	"testing"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
	"github.com/HBTGmbH/pwr-skill-service/internal/locale"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"two-letter code", "de", "deu"},
		{"three-letter code", "deu", "deu"},
		{"english", "en", "eng"},
		{"french", "fr", "fra"},
		{"uppercase", "DE", "deu"},
		{"surrounding whitespace", " de ", "deu"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := locale.Resolve(tc.code)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tc.code, err)
			}
			if got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.code, got, tc.want)
			}
		})
	}
}

func TestResolveRejectsInvalidCodes(t *testing.T) {
	for _, code := range []string{"", "a", "abcd", "d1", "de-DE", "!!"} {
		t.Run("code "+code, func(t *testing.T) {
			_, err := locale.Resolve(code)
			if !apperr.IsKind(err, apperr.InvalidLocale) {
				t.Errorf("Resolve(%q): got %v, want InvalidLocale", code, err)
			}
		})
	}
}
