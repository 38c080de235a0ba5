// Package reconcile matches converted outputs back to the originals they
// were produced from, using the lossy normalized name keys. The result is a
// deletion plan: an ordered, non-overlapping set of originals that are safe
// to discard because a converted counterpart exists.
//
// Matching is two-pass: exact key equality first, then a fuzzy
// substring/character-overlap score over whatever remains. Fuzzy matching
// is a best-effort heuristic — unmatched entries are reported, never
// deleted.
package reconcile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/carmedia/carconv/internal/naming"
)

// MatchKind distinguishes how a pairing was found.
type MatchKind int

const (
	Exact   MatchKind = iota // Normalized keys are identical.
	Partial                  // Fuzzy score above threshold.
)

func (k MatchKind) String() string {
	if k == Exact {
		return "exact"
	}
	return "partial"
}

// Candidate is one accepted original/converted pairing.
type Candidate struct {
	OriginalPath  string
	ConvertedPath string
	Kind          MatchKind
	Score         float64 // 0-100; exact matches score 100.
}

// Plan is the outcome of one reconciliation run. Each original appears in
// at most one accepted candidate; unmatched entries on either side are
// listed for reporting.
type Plan struct {
	Matches            []Candidate
	UnmatchedOriginals []string
	UnmatchedConverted []string
}

// Reconcile pairs converted files with originals and returns the deletion
// plan. threshold is the minimum fuzzy score (exclusive) for a partial
// match; exact matches always pass. Both input slices are directory
// snapshots taken by the caller; Reconcile itself never touches the
// filesystem, which keeps it deterministic and unit-testable.
func Reconcile(originalPaths, convertedPaths []string, threshold float64) Plan {
	originals := newSideSet(originalPaths)
	converted := newSideSet(convertedPaths)

	var plan Plan
	matchExact(originals, converted, &plan)
	matchPartial(originals, converted, threshold, &plan)

	plan.UnmatchedOriginals = originals.remaining()
	plan.UnmatchedConverted = converted.remaining()
	return plan
}

// matchExact consumes every converted entry whose key maps to exactly one
// remaining original with the identical key.
func matchExact(originals, converted *sideSet, plan *Plan) {
	for _, c := range converted.entries {
		if c.used || c.key == "" {
			continue
		}
		hits := originals.byKey[c.key]
		live := hits[:0:0]
		for _, o := range hits {
			if !o.used {
				live = append(live, o)
			}
		}
		// A key shared by several originals is ambiguous; leave it for the
		// fuzzy pass rather than guessing here.
		if len(live) != 1 {
			continue
		}
		o := live[0]
		o.used = true
		c.used = true
		plan.Matches = append(plan.Matches, Candidate{
			OriginalPath:  o.path,
			ConvertedPath: c.path,
			Kind:          Exact,
			Score:         100,
		})
	}
}

// matchPartial scores each remaining converted entry against each remaining
// original and accepts the best pairing per converted entry when it clears
// the threshold. Acceptance consumes both sides, so no original is booked
// against two converted outputs.
func matchPartial(originals, converted *sideSet, threshold float64, plan *Plan) {
	for _, c := range converted.entries {
		if c.used || c.key == "" {
			continue
		}

		var best *entry
		var bestScore float64
		for _, o := range originals.entries {
			if o.used || o.key == "" {
				continue
			}
			score := MatchScore(c.key, o.key)
			if score > bestScore || (score == bestScore && best != nil && betterTie(c, o, best)) {
				best = o
				bestScore = score
			}
		}

		if best == nil || bestScore <= threshold {
			continue
		}
		best.used = true
		c.used = true
		plan.Matches = append(plan.Matches, Candidate{
			OriginalPath:  best.path,
			ConvertedPath: c.path,
			Kind:          Partial,
			Score:         bestScore,
		})
	}
}

// MatchScore computes the fuzzy similarity of two normalized keys on a
// 0-100 scale. If one key contains the other, the score is the length
// ratio; otherwise it is the fraction of the converted key's characters
// that occur anywhere in the original key. This is a coarse overlap
// heuristic, not an edit distance — it is monotonic in literal similarity,
// which is all the deletion plan needs.
func MatchScore(convertedKey, originalKey string) float64 {
	if convertedKey == "" || originalKey == "" {
		return 0
	}

	shorter, longer := convertedKey, originalKey
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer)) * 100
	}

	present := make(map[byte]bool, len(originalKey))
	for i := 0; i < len(originalKey); i++ {
		present[originalKey[i]] = true
	}
	common := 0
	for i := 0; i < len(convertedKey); i++ {
		if present[convertedKey[i]] {
			common++
		}
	}
	maxLen := len(convertedKey)
	if len(originalKey) > maxLen {
		maxLen = len(originalKey)
	}
	return float64(common) / float64(maxLen) * 100
}

// betterTie breaks equal scores deterministically: prefer the original
// sharing more name tokens with the converted file, then the one whose key
// length matches the converted key exactly, then the lexicographically
// smaller path.
func betterTie(converted, candidate, current *entry) bool {
	candShared := sharedTokens(converted.tokens, candidate.tokens)
	currShared := sharedTokens(converted.tokens, current.tokens)
	if candShared != currShared {
		return candShared > currShared
	}
	candExact := len(candidate.key) == len(converted.key)
	currExact := len(current.key) == len(converted.key)
	if candExact != currExact {
		return candExact
	}
	return candidate.path < current.path
}

// sharedTokens counts how many of a's tokens appear in b.
func sharedTokens(a, b []string) int {
	n := 0
	for _, ta := range a {
		for _, tb := range b {
			if ta == tb {
				n++
				break
			}
		}
	}
	return n
}

// --- internal bookkeeping ---

type entry struct {
	path   string
	key    string
	tokens []string
	used   bool
}

type sideSet struct {
	entries []*entry
	byKey   map[string][]*entry
}

// newSideSet snapshots one directory side into sorted, keyed entries.
// Sorting makes the whole reconciliation order-independent of readdir.
func newSideSet(paths []string) *sideSet {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	s := &sideSet{byKey: make(map[string][]*entry, len(sorted))}
	for _, p := range sorted {
		base := filepath.Base(p)
		e := &entry{
			path:   p,
			key:    naming.Normalize(base),
			tokens: naming.Tokens(base),
		}
		s.entries = append(s.entries, e)
		s.byKey[e.key] = append(s.byKey[e.key], e)
	}
	return s
}

func (s *sideSet) remaining() []string {
	var out []string
	for _, e := range s.entries {
		if !e.used {
			out = append(out, e.path)
		}
	}
	return out
}
