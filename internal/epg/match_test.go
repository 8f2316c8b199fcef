package epg

import "testing"

func indexOf(pairs ...string) *Index {
	ix := NewIndex()
	for i := 0; i+1 < len(pairs); i += 2 {
		ix.Add(pairs[i], pairs[i+1])
	}
	return ix
}

func TestResolveExact(t *testing.T) {
	ix := indexOf("MBC every1", "every1.kr", "MBC", "mbc.kr")
	id, ok := ix.Resolve("MBC")
	if !ok || id != "mbc.kr" {
		t.Fatalf("Resolve(MBC)=%q,%v want mbc.kr", id, ok)
	}
}

// An exact key must never lose to a fuzzier strategy, even when a similar key
// comes first in index order.
func TestResolveExactBeatsFuzzy(t *testing.T) {
	ix := indexOf("KBS 2TV", "kbs2.kr", "KBS 1TV", "kbs1.kr")
	id, ok := ix.Resolve("KBS 1TV")
	if !ok || id != "kbs1.kr" {
		t.Fatalf("Resolve(KBS 1TV)=%q,%v want kbs1.kr", id, ok)
	}
}

func TestResolveWhitespaceNormalized(t *testing.T) {
	ix := indexOf("JTBC Golf", "jtbcgolf.kr")
	id, ok := ix.Resolve("JTBCGolf")
	if !ok || id != "jtbcgolf.kr" {
		t.Fatalf("Resolve(JTBCGolf)=%q,%v want jtbcgolf.kr", id, ok)
	}
}

// Querying "KBS1" against an index holding only "KBS 1TV" must still land on
// the channel. See the similarity thresholds in Resolve.
func TestResolveCollapsedName(t *testing.T) {
	ix := indexOf("KBS 1TV", "ch1")
	id, ok := ix.Resolve("KBS1")
	if !ok || id != "ch1" {
		t.Fatalf("Resolve(KBS1)=%q,%v want ch1", id, ok)
	}
}

func TestResolveSimilarityThreshold(t *testing.T) {
	ix := indexOf("Arirang World", "arirang.kr")
	// "Arirang TV" vs "Arirang World": LCS 8, ratio 2*8/23 ≈ 0.70 — above
	// threshold.
	if id, ok := ix.Resolve("Arirang TV"); !ok || id != "arirang.kr" {
		t.Fatalf("Resolve(Arirang TV)=%q,%v", id, ok)
	}
	// A short unrelated query stays unmatched.
	if id, ok := ix.Resolve("CNN"); ok {
		t.Fatalf("Resolve(CNN)=%q,%v want no match", id, ok)
	}
}

// When two keys tie at the maximum similarity score, the first in index
// (document) order wins, and repeated calls return the same answer.
func TestResolveSimilarityTieBreak(t *testing.T) {
	ix := indexOf("MBC Sports A", "a.kr", "MBC Sports B", "b.kr")
	first, ok := ix.Resolve("MBC Sports")
	if !ok || first != "a.kr" {
		t.Fatalf("Resolve(MBC Sports)=%q,%v want a.kr", first, ok)
	}
	for i := 0; i < 5; i++ {
		if id, _ := ix.Resolve("MBC Sports"); id != first {
			t.Fatalf("Resolve not idempotent: %q then %q", first, id)
		}
	}
}

func TestResolveSubstring(t *testing.T) {
	// Ratio 2*3/33 ≈ 0.18 — far below the similarity threshold, so only the
	// substring strategy can find it.
	ix := indexOf("EBS 1 Korean Education Channel", "ebs1.kr")
	id, ok := ix.Resolve("EBS")
	if !ok || id != "ebs1.kr" {
		t.Fatalf("Resolve(EBS)=%q,%v want ebs1.kr", id, ok)
	}
	// Containment works in the other direction too.
	ix2 := indexOf("TVN", "tvn.kr")
	if id, ok := ix2.Resolve("O TVN Live Feed Extended"); !ok || id != "tvn.kr" {
		t.Fatalf("reverse containment: %q,%v", id, ok)
	}
}

func TestResolveNoMatch(t *testing.T) {
	ix := indexOf("MBC", "mbc.kr")
	if id, ok := ix.Resolve("Zzz"); ok {
		t.Fatalf("Resolve(Zzz)=%q want no match", id)
	}
	if _, ok := ix.Resolve(""); ok {
		t.Fatal("empty query matched")
	}
	if _, ok := NewIndex().Resolve("MBC"); ok {
		t.Fatal("empty index matched")
	}
}

func TestStripSpace(t *testing.T) {
	tests := map[string]string{
		"KBS 1TV":    "KBS1TV",
		"  a \t b ":  "ab",
		"no-spaces":  "no-spaces",
		"한국 방송 공사": "한국방송공사",
	}
	for in, want := range tests {
		if got := stripSpace(in); got != want {
			t.Fatalf("stripSpace(%q)=%q want %q", in, got, want)
		}
	}
}

func TestLCSRatio(t *testing.T) {
	if r := lcsRatio("abc", "abc"); r != 1.0 {
		t.Fatalf("identical: %v", r)
	}
	if r := lcsRatio("abc", "xyz"); r != 0.0 {
		t.Fatalf("disjoint: %v", r)
	}
	if r := lcsRatio("", "abc"); r != 0.0 {
		t.Fatalf("empty: %v", r)
	}
	// LCS("KBS1", "KBS 1TV") = 4 → 2*4/11.
	got := lcsRatio("KBS1", "KBS 1TV")
	want := 8.0 / 11.0
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("lcsRatio=%v want %v", got, want)
	}
}
