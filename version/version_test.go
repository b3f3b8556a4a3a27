package version

import (
	"testing"
)

// TestKeyEquality covers the trailing-zero, candidate-tag and revision-tag
// equivalences of the legacy scheme.
func TestKeyEquality(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"0.4", "0.4.0"},
		{"0.4.0.0", "0.4.0"},
		{"0.4.0-0", "0.4-0"},
		{"0pl1", "0.0pl1"},
		{"0pre1", "0.0c1"},
		{"0.0.0preview1", "0c1"},
		{"0.0c1", "0rc1"},
		{"1.0-a1", "1.0a1"},
		{"2.1-rc2", "2.1rc2"},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_eq_"+tt.b, func(t *testing.T) {
			ka, kb := Parse(tt.a), Parse(tt.b)
			if !ka.Equal(kb) {
				t.Errorf("Parse(%q) = %v, Parse(%q) = %v, want equal", tt.a, ka, tt.b, kb)
			}
			if got := Compare(tt.a, tt.b); got != 0 {
				t.Errorf("Compare(%q, %q) = %d, want 0", tt.a, tt.b, got)
			}
		})
	}
}

// TestKeyOrdering covers the documented strict orderings, including the
// tag/revision interleavings that a numeric tuple comparison gets wrong.
func TestKeyOrdering(t *testing.T) {
	tests := []struct {
		lo, hi string
	}{
		{"2.1", "2.1.1"},
		{"2a1", "2b0"},
		{"2a1", "2.1"},
		{"2.3a1", "2.3"},
		{"2.1-1", "2.1-2"},
		{"2.1-1", "2.1.1"},
		{"2.1", "2.1pl4"},
		{"2.1a0-20040501", "2.1"},
		{"1.1", "02.1"},
		{"A56", "B27"},
		{"3.2", "3.2.pl0"},
		{"3.2-1", "3.2pl1"},
		{"3.2pl1", "3.2pl1-1"},
		{"0.4", "4.0"},
		{"0.0.4", "0.4.0"},
		{"0pl1", "0.4pl1"},
	}

	for _, tt := range tests {
		t.Run(tt.lo+"_lt_"+tt.hi, func(t *testing.T) {
			if !Parse(tt.lo).Less(Parse(tt.hi)) {
				t.Errorf("Parse(%q) = %v should order before Parse(%q) = %v",
					tt.lo, Parse(tt.lo), tt.hi, Parse(tt.hi))
			}
			if got := Compare(tt.hi, tt.lo); got != 1 {
				t.Errorf("Compare(%q, %q) = %d, want 1", tt.hi, tt.lo, got)
			}
		})
	}
}

// TestKeyOrderingTorture checks a descending real-world version history:
// every element must order strictly above every later element.
func TestKeyOrderingTorture(t *testing.T) {
	descending := []string{
		"0.80.1-3", "0.80.1-2", "0.80.1-1",
		"0.79.9999+0.80.0pre4-1",
		"0.79.9999+0.80.0pre2-3", "0.79.9999+0.80.0pre2-2",
		"0.77.2-1", "0.77.1-1", "0.77.0-1",
	}

	for i, hi := range descending {
		for _, lo := range descending[i+1:] {
			if !Parse(lo).Less(Parse(hi)) {
				t.Errorf("Parse(%q) = %v should order before Parse(%q) = %v",
					lo, Parse(lo), hi, Parse(hi))
			}
		}
	}
}

// TestKeyTotalOrder checks the comparison invariants Compare must uphold
// for arbitrary inputs, including strings that are not versions at all.
func TestKeyTotalOrder(t *testing.T) {
	inputs := []string{
		"", "0", "1.0", "1.0.dev3", "1.0a1", "1.0b2", "1.0c1", "1.0rc1",
		"1.0", "1.0-1", "1.0pl1", "banana", "1_0", "1+2", "02.1",
	}

	for _, a := range inputs {
		for _, b := range inputs {
			ab, ba := Compare(a, b), Compare(b, a)
			if ab != -ba {
				t.Errorf("Compare(%q, %q) = %d but Compare(%q, %q) = %d", a, b, ab, b, a, ba)
			}
			if (ab == 0) != Parse(a).Equal(Parse(b)) {
				t.Errorf("Compare(%q, %q) = %d disagrees with Equal", a, b, ab)
			}
		}
	}
}

// TestKeyPrereleaseClasses pins the relative order of the qualifier
// classes: dev, then candidate spellings, then plain tags, then final,
// then patch level.
func TestKeyPrereleaseClasses(t *testing.T) {
	ascending := []string{"1.0dev1", "1.0a1", "1.0b1", "1.0c1", "1.0", "1.0pl1"}

	for i := 0; i < len(ascending)-1; i++ {
		lo, hi := ascending[i], ascending[i+1]
		if !Parse(lo).Less(Parse(hi)) {
			t.Errorf("Parse(%q) should order before Parse(%q)", lo, hi)
		}
	}

	// rc and pre are alternate spellings of the candidate tag.
	if Compare("1.0rc2", "1.0c2") != 0 || Compare("1.0pre2", "1.0c2") != 0 {
		t.Errorf("rc/pre/c spellings should parse identically")
	}
}

// TestParseCaching verifies repeated parses of one string share a key.
func TestParseCaching(t *testing.T) {
	a, b := Parse("2.0.1rc3"), Parse("2.0.1rc3")
	if !a.Equal(b) {
		t.Fatalf("cached parse differs: %v vs %v", a, b)
	}
}
