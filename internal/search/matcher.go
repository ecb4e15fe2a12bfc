// Package search answers "which known skill name looks like this input?"
// queries. It keeps a precomputed in-memory index over every skill's
// primary and localized qualifiers and matches a query with the union of a
// case-insensitive prefix match and a bounded-edit-distance fuzzy match.
//
// The index is replaced wholesale by Rebuild and swapped atomically, so
// concurrent searches always observe either the previous or the new index,
// never a partially built one.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/HBTGmbH/pwr-skill-service/internal/taxonomy"
)

const (
	// DefaultMaxResults caps a search when the caller does not specify a
	// limit.
	DefaultMaxResults = 20

	// MaxResultsLimit is the hard ceiling on a caller-supplied result cap.
	// The cap sizes an allocation, so it must never reach the allocator
	// unchecked.
	MaxResultsLimit = 1000
)

// entry is one indexed skill: its primary qualifier for projection and
// the lowercased searchable fields (primary + localized qualifiers).
type entry struct {
	primary string
	fields  []string
}

type index struct {
	entries []entry
	builtAt time.Time
}

// Matcher is a pure query function over the current index plus an explicit
// rebuild operation. The zero index matches nothing.
type Matcher struct {
	skills  taxonomy.SkillStore
	current atomic.Pointer[index]
}

// NewMatcher returns a matcher reading its corpus from the given store.
func NewMatcher(skills taxonomy.SkillStore) *Matcher {
	m := &Matcher{skills: skills}
	m.current.Store(&index{})
	return m
}

// Rebuild recomputes the index from the full current skill corpus and
// swaps it in. Overlapping rebuilds redo the same work; the last writer
// wins.
func (m *Matcher) Rebuild(ctx context.Context) error {
	started := time.Now()
	skills, err := m.skills.All(ctx)
	if err != nil {
		return err
	}

	entries := make([]entry, 0, len(skills))
	for i := range skills {
		sk := &skills[i]
		fields := make([]string, 0, 1+len(sk.Qualifiers))
		fields = append(fields, strings.ToLower(sk.Qualifier))
		for _, q := range sk.Qualifiers {
			fields = append(fields, strings.ToLower(q.Qualifier))
		}
		entries = append(entries, entry{primary: sk.Qualifier, fields: fields})
	}

	m.current.Store(&index{entries: entries, builtAt: time.Now()})
	slog.Info("search index rebuilt", "skills", len(entries), "duration", time.Since(started).String())
	return nil
}

// RebuildAsync starts a rebuild in the background. The returned channel is
// closed when the rebuild finishes; callers are free to ignore it.
func (m *Matcher) RebuildAsync(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := m.Rebuild(ctx); err != nil {
			slog.Error("async search index rebuild failed", "error", err)
		}
	}()
	return done
}

// Size returns the number of indexed skills.
func (m *Matcher) Size() int {
	return len(m.current.Load().entries)
}

// Search returns up to maxResults distinct primary qualifiers whose
// indexed fields match the term, prefix hits before fuzzy-only hits. A
// blank term yields no results. maxResults <= 0 selects the default cap;
// values above MaxResultsLimit are clamped to it.
func (m *Matcher) Search(term string, maxResults int) []string {
	if strings.TrimSpace(term) == "" {
		return []string{}
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}
	needle := strings.ToLower(term)
	idx := m.current.Load()

	results := make([]string, 0, minInt(maxResults, len(idx.entries)))
	seen := make(map[string]struct{})
	add := func(primary string) bool {
		if _, dup := seen[primary]; dup {
			return len(results) < maxResults
		}
		seen[primary] = struct{}{}
		results = append(results, primary)
		return len(results) < maxResults
	}

	// Wildcard-prefix hits rank first, matching the "term*" query of the
	// original index.
	for i := range idx.entries {
		if matchPrefix(&idx.entries[i], needle) && !add(idx.entries[i].primary) {
			return results
		}
	}
	for i := range idx.entries {
		if matchFuzzy(&idx.entries[i], needle) && !add(idx.entries[i].primary) {
			return results
		}
	}
	return results
}

func matchPrefix(e *entry, needle string) bool {
	for _, f := range e.fields {
		if strings.HasPrefix(f, needle) {
			return true
		}
	}
	return false
}

// matchFuzzy accepts a candidate whose edit distance to the needle stays
// within a length-scaled threshold. Multi-word fields are also matched per
// token, the way the original analyzer split qualifiers.
func matchFuzzy(e *entry, needle string) bool {
	threshold := fuzzyThreshold(needle)
	for _, f := range e.fields {
		if withinDistance(needle, f, threshold) {
			return true
		}
		for _, token := range strings.Fields(f) {
			if withinDistance(needle, token, threshold) {
				return true
			}
		}
	}
	return false
}

// fuzzyThreshold allows one edit for short terms and two otherwise.
func fuzzyThreshold(needle string) int {
	if len([]rune(needle)) < 5 {
		return 1
	}
	return 2
}

// withinDistance reports whether the Levenshtein distance between a and b
// is at most max, with an early length-difference cutoff.
func withinDistance(a, b string, max int) bool {
	ra, rb := []rune(a), []rune(b)
	if diff := len(ra) - len(rb); diff > max || -diff > max {
		return false
	}
	return levenshtein(ra, rb) <= max
}

// levenshtein computes the edit distance with a rolling single-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		current := make([]int, len(b)+1)
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			current[j] = minInt(current[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev = current
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
