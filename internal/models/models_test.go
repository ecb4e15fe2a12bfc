package models

import "testing"

func TestLocaleIndex(t *testing.T) {
	qualifiers := []LocalizedQualifier{
		{Locale: "deu", Qualifier: "Sprachen"},
		{Locale: "fra", Qualifier: "Langues"},
		{Locale: "deu", Qualifier: "Programmiersprachen"},
	}

	tests := []struct {
		name   string
		locale string
		want   int
	}{
		{"first entry wins on duplicates", "deu", 0},
		{"later entry", "fra", 1},
		{"absent locale", "eng", -1},
		{"empty locale", "", -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LocaleIndex(qualifiers, tc.locale); got != tc.want {
				t.Errorf("LocaleIndex(%q) = %d, want %d", tc.locale, got, tc.want)
			}
		})
	}

	if got := LocaleIndex(nil, "deu"); got != -1 {
		t.Errorf("LocaleIndex(nil) = %d, want -1", got)
	}
}

func TestHasVersion(t *testing.T) {
	sk := Skill{Qualifier: "Java", Versions: []string{"8", "11"}}

	if !sk.HasVersion("8") {
		t.Error("HasVersion(8) = false, want true")
	}
	if sk.HasVersion("17") {
		t.Error("HasVersion(17) = true, want false")
	}

	empty := Skill{Qualifier: "Go"}
	if empty.HasVersion("1") {
		t.Error("HasVersion on a skill without versions must be false")
	}
}
