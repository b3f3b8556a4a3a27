// Package version implements the legacy tolerant version ordering used by
// the distribution index.
//
// The scheme predates strict semantic versioning: every string is a valid
// version, and ordering is defined by a normalization pass rather than a
// grammar. A version string is tokenized into maximal digit runs and
// non-digit runs; digit runs are zero-padded so plain string comparison
// matches numeric comparison, and non-digit runs become tagged tokens that
// sort against each other and against the implicit "final" marker. This
// keeps human-written versions like "1.3a4", "2.1-1" and "0.80.1-3"
// correctly ordered relative to their final releases.
//
// Key facts of the ordering:
//
//   - "0.4", "0.4.0" and "0.4.0.0" are all equal (trailing zeros carry no
//     information).
//   - Pre-release tags sort before the final release: "2.3a1" < "2.3",
//     "0.0c1" == "0rc1" (rc, c, pre and preview are all the candidate tag).
//   - A "dev" tag sorts before every other pre-release tag.
//   - Patch-level tags sort after the final release: "2.1" < "2.1pl4".
//   - A hyphen opens a build/revision segment folded into the same flat
//     sequence: "2.1-1" < "2.1-2" < "2.1.1".
package version

import (
	"strings"
	"sync"
)

// numeric tokens are zero-padded to this width so that string comparison
// matches numeric comparison for runs up to eight digits.
const numericWidth = 8

const zeroToken = "00000000"

// tagReplacements folds the recognized qualifier keywords into single
// canonical tags. The candidate spellings collapse to "c" so that
// "0pre1" == "0.0c1"; "dev" maps to "@" so it sorts before every
// alphabetic tag.
var tagReplacements = map[string]string{
	"pre":     "c",
	"preview": "c",
	"rc":      "c",
	"dev":     "@",
}

// Key is the normalized, totally ordered representation of a version
// string. Two version strings are equal exactly when their Keys are equal;
// any two Keys are comparable. The zero Key is the parse of the empty
// string's prefix and sorts before every parsed version.
type Key struct {
	parts []string
}

// parseCache memoizes Parse results per distinct input string. Keys are
// immutable, so sharing the backing token slice is safe.
var parseCache sync.Map // string -> Key

// Parse converts a version string into its ordering Key. It is total:
// any input, including the empty string, produces a usable Key.
func Parse(s string) Key {
	if cached, ok := parseCache.Load(s); ok {
		return cached.(Key)
	}

	var parts []string
	for _, part := range tokenize(strings.ToLower(s)) {
		if part[0] == '*' {
			// A hyphen directly before a prerelease tag is a pure
			// separator: "1.0-a1" == "1.0a1".
			if part < "*final" {
				for len(parts) > 0 && parts[len(parts)-1] == "*final-" {
					parts = parts[:len(parts)-1]
				}
			}
			// A tag token closes the numeric series before it; trailing
			// zero components add no information ("0.4" == "0.4.0", and
			// "0.0c1" == "0c1").
			for len(parts) > 0 && parts[len(parts)-1] == zeroToken {
				parts = parts[:len(parts)-1]
			}
		}
		parts = append(parts, part)
	}

	key := Key{parts: parts}
	parseCache.Store(s, key)
	return key
}

// tokenize splits a lowercased version string into padded digit runs and
// tagged non-digit runs, with a terminal "*final" marker. Dots are pure
// separators; a hyphen becomes the "*final-" revision tag, which sorts
// after "*final" so "3.2pl1" < "3.2pl1-1".
func tokenize(s string) []string {
	parts := make([]string, 0, 8)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			parts = append(parts, padNumeric(s[i:j]))
			i = j
		case c == '.':
			i++
		case c == '-':
			parts = append(parts, "*final-")
			i++
		case c >= 'a' && c <= 'z':
			j := i + 1
			for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
				j++
			}
			tag := s[i:j]
			if repl, ok := tagReplacements[tag]; ok {
				tag = repl
			}
			parts = append(parts, "*"+tag)
			i = j
		default:
			j := i + 1
			for j < len(s) && !isTokenStart(s[j]) {
				j++
			}
			parts = append(parts, "*"+s[i:j])
			i = j
		}
	}
	return append(parts, "*final")
}

func isTokenStart(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c == '.' || c == '-'
}

func padNumeric(digits string) string {
	if len(digits) >= numericWidth {
		return digits
	}
	return zeroToken[:numericWidth-len(digits)] + digits
}

// Compare returns -1, 0 or 1 ordering k against other. Comparison is
// lexicographic over the normalized token sequences; a key that is a
// strict prefix of another sorts first.
func (k Key) Compare(other Key) int {
	a, b := k.parts, other.parts
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Equal reports whether two keys represent the same version.
func (k Key) Equal(other Key) bool {
	return k.Compare(other) == 0
}

// Less reports whether k orders strictly before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

// String renders the normalized token sequence, mainly for debugging and
// log output.
func (k Key) String() string {
	return strings.Join(k.parts, ".")
}

// canonical returns a byte-unambiguous form of the key for use in hashes.
// Tokens never contain NUL, so joining on it is collision-free.
func (k Key) canonical() string {
	return strings.Join(k.parts, "\x00")
}

// Canonical exposes the hashable canonical form of the key.
func (k Key) Canonical() string {
	return k.canonical()
}

// Compare orders two raw version strings per the legacy scheme.
func Compare(a, b string) int {
	return Parse(a).Compare(Parse(b))
}
