package epg

import (
	"strings"
	"unicode"
)

// similarityThreshold is the minimum LCS ratio for a fuzzy hit. Below it a
// best-scoring key is still rejected and the substring strategy gets a turn.
const similarityThreshold = 0.6

// Resolve maps a configured display-name query to a channel id. Strategies run
// in strict priority order and each one is tried only when the previous found
// nothing:
//
//  1. exact display-name match;
//  2. whitespace-normalized equality, first hit in index order;
//  3. LCS similarity ratio >= similarityThreshold, highest score wins with
//     ties broken by index order;
//  4. substring containment either direction, first hit in index order.
//
// Resolve is deterministic: the same query against the same index always
// returns the same id.
func (ix *Index) Resolve(query string) (string, bool) {
	if query == "" || ix.Len() == 0 {
		return "", false
	}

	if id, ok := ix.ids[query]; ok {
		return id, true
	}

	nq := stripSpace(query)
	for _, name := range ix.names {
		if stripSpace(name) == nq {
			return ix.ids[name], true
		}
	}

	best := ""
	bestScore := 0.0
	for _, name := range ix.names {
		score := lcsRatio(query, name)
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if best != "" && bestScore >= similarityThreshold {
		return ix.ids[best], true
	}

	for _, name := range ix.names {
		if strings.Contains(name, query) || strings.Contains(query, name) {
			return ix.ids[name], true
		}
	}

	return "", false
}

// stripSpace removes all Unicode whitespace so "KBS 1TV" and "KBS1TV"
// compare equal.
func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lcsRatio returns 2*LCS(a,b) / (len(a)+len(b)) over runes: 1.0 for equal
// strings, 0.0 when nothing is shared. Documented here rather than pulled
// from a fuzzy-matching library so tie-breaking stays reproducible.
func lcsRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
