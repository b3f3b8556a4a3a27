package gopkgres

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"

	"github.com/albertocavalcante/go-pkgres/version"
)

// Specifier is one version comparison clause of a requirement, e.g.
// {Op: ">=", Version: "1.2"}.
type Specifier struct {
	// Op is one of ==, !=, <, <=, >, >=.
	Op string

	// Version is the raw version text the operator compares against.
	Version string
}

// transitions drives the containment state machine. Clauses are evaluated
// in ascending version order; each row is indexed by the comparison of the
// candidate against the clause version (columns: equal, greater, less).
// 'T'/'F' decide immediately, '+'/'-' set the running default, '.' leaves
// it alone.
var transitions = map[string]string{
	"<":  "--T",
	"<=": "T-T",
	">":  "F+F",
	">=": "T+F",
	"==": "T..",
	"!=": "F++",
}

// specClause is a parsed, comparison-ready specifier.
type specClause struct {
	key   version.Key
	trans string
	op    string
	ver   string
}

// Requirement names a project plus optional extras plus version comparison
// clauses a distribution must satisfy. Requirements are immutable value
// objects: equality and hashing ignore project-name case, extras case, and
// the textual order of extras and specifiers.
type Requirement struct {
	name    string
	key     string
	clauses []specClause
	extras  []string
}

// NewRequirement builds a requirement from a project name, specifiers and
// extras names. It fails with MalformedRequirementError on an unknown
// comparison operator.
func NewRequirement(name string, specs []Specifier, extras ...string) (Requirement, error) {
	clauses := make([]specClause, 0, len(specs))
	for _, sp := range specs {
		trans, ok := transitions[sp.Op]
		if !ok {
			return Requirement{}, &MalformedRequirementError{
				Input:  sp.Op + sp.Version,
				Reason: fmt.Sprintf("unknown comparison operator %q", sp.Op),
			}
		}
		clauses = append(clauses, specClause{
			key:   version.Parse(sp.Version),
			trans: trans,
			op:    sp.Op,
			ver:   sp.Version,
		})
	}

	// Clauses are kept sorted by version so containment can walk them as
	// intervals and String output is stable.
	sort.Slice(clauses, func(i, j int) bool {
		a, b := clauses[i], clauses[j]
		if c := a.key.Compare(b.key); c != 0 {
			return c < 0
		}
		if a.trans != b.trans {
			return a.trans < b.trans
		}
		if a.op != b.op {
			return a.op < b.op
		}
		return a.ver < b.ver
	})

	return Requirement{
		name:    name,
		key:     strings.ToLower(name),
		clauses: clauses,
		extras:  append([]string(nil), extras...),
	}, nil
}

// Name returns the project name with its original casing.
func (r Requirement) Name() string { return r.name }

// Key returns the normalized (lowercased) project key.
func (r Requirement) Key() string { return r.key }

// Extras returns the requested extras names in parse order, original case.
func (r Requirement) Extras() []string {
	return append([]string(nil), r.extras...)
}

// Specifiers returns the comparison clauses in stable display order.
func (r Requirement) Specifiers() []Specifier {
	specs := make([]Specifier, 0, len(r.clauses))
	for _, c := range r.clauses {
		specs = append(specs, Specifier{Op: c.op, Version: c.ver})
	}
	return specs
}

// String renders the requirement in its canonical text form: the original
// name, extras bracketed if any, then the specifiers in sorted order.
// The result parses back to an equal requirement.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.name)
	if len(r.extras) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(r.extras, ","))
		b.WriteByte(']')
	}
	for i, c := range r.clauses {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.op)
		b.WriteString(c.ver)
	}
	return b.String()
}

func (r Requirement) extrasSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.extras))
	for _, e := range r.extras {
		set[strings.ToLower(e)] = struct{}{}
	}
	return set
}

// Equal reports whether two requirements denote the same constraint:
// same project key, same specifier set (operator plus version key), and
// the same extras compared case-insensitively as a set.
func (r Requirement) Equal(o Requirement) bool {
	if r.key != o.key || len(r.clauses) != len(o.clauses) {
		return false
	}
	for i := range r.clauses {
		if r.clauses[i].op != o.clauses[i].op || !r.clauses[i].key.Equal(o.clauses[i].key) {
			return false
		}
	}
	a, b := r.extrasSet(), o.extrasSet()
	if len(a) != len(b) {
		return false
	}
	for e := range a {
		if _, ok := b[e]; !ok {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal, for callers keying
// requirements in their own tables.
func (r Requirement) Hash() uint64 {
	h := fnv.New64a()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	write(r.key)
	for _, c := range r.clauses {
		write(c.op)
		write(c.key.Canonical())
	}

	extras := make([]string, 0, len(r.extras))
	for e := range r.extrasSet() {
		extras = append(extras, e)
	}
	sort.Strings(extras)
	for _, e := range extras {
		write(e)
	}
	return h.Sum64()
}

// MatchesKey reports whether a parsed version satisfies the requirement.
// With no specifiers every version matches. The clauses, sorted ascending,
// are evaluated as intervals via the transition table, so a mix like
// ">=1.2,<=1.3,==1.9" admits anything inside [1.2,1.3] or equal to 1.9.
func (r Requirement) MatchesKey(k version.Key) bool {
	const (
		unset = iota
		accept
		reject
	)
	state := unset

	for _, c := range r.clauses {
		var action byte
		switch cmp := k.Compare(c.key); {
		case cmp == 0:
			action = c.trans[0]
		case cmp > 0:
			action = c.trans[1]
		default:
			action = c.trans[2]
		}

		switch action {
		case 'F':
			return false
		case 'T':
			return true
		case '+':
			state = accept
		case '-':
			state = reject
		case '.':
			if state == unset {
				state = reject
			}
		}
	}
	return state != reject
}

// MatchesVersion reports whether a raw version string satisfies the
// requirement.
func (r Requirement) MatchesVersion(v string) bool {
	return r.MatchesKey(version.Parse(v))
}

// MatchesDistribution reports whether a distribution satisfies the
// requirement: its normalized key must equal the requirement's key and its
// version must match.
func (r Requirement) MatchesDistribution(d *Distribution) bool {
	return d != nil && d.Key() == r.key && r.MatchesKey(d.ParsedVersion())
}

// Requirement text grammar. Patterns are anchored and applied to the
// unconsumed tail of the current logical line.
var (
	namePattern     = regexp.MustCompile(`^\s*([\w.-]+)`)
	specPattern     = regexp.MustCompile(`^\s*(<=|>=|==|!=|<|>)\s*([\w.-]+)`)
	commaPattern    = regexp.MustCompile(`^\s*,`)
	obracketPattern = regexp.MustCompile(`^\s*\[`)
	cbracketPattern = regexp.MustCompile(`^\s*\]`)
	lineEndPattern  = regexp.MustCompile(`^\s*(?:#.*)?$`)
	continuePattern = regexp.MustCompile(`^\s*\\\s*(?:#.*)?$`)
)

// ParseRequirement parses text containing exactly one requirement.
func ParseRequirement(text string) (Requirement, error) {
	reqs, err := ParseRequirements(text)
	if err != nil {
		return Requirement{}, err
	}
	if len(reqs) != 1 {
		return Requirement{}, &MalformedRequirementError{
			Input:  text,
			Reason: fmt.Sprintf("expected exactly one requirement, found %d", len(reqs)),
		}
	}
	return reqs[0], nil
}

// MustParseRequirement is ParseRequirement for statically known input;
// it panics on a parse error.
func MustParseRequirement(text string) Requirement {
	req, err := ParseRequirement(text)
	if err != nil {
		panic(err)
	}
	return req
}

// ParseRequirements parses a block of requirement text into requirements,
// one per logical line. Blank lines and "#" comments are discarded, and a
// line ending in "\" is joined with the next line. One malformed line
// fails the whole call with MalformedRequirementError.
func ParseRequirements(text string) ([]Requirement, error) {
	return parseRequirementLines(YieldLines(text))
}

// ParseRequirementLines is ParseRequirements over an already line-shaped
// source, such as the lines of a metadata section.
func ParseRequirementLines(lines ...string) ([]Requirement, error) {
	return parseRequirementLines(YieldLinesFrom(lines...))
}

// requirementScanner walks meaningful lines with a cursor into the current
// one, following "\" continuations onto the next line.
type requirementScanner struct {
	lines []string
	next  int
	line  string
	pos   int
}

func (s *requirementScanner) rest() string {
	return s.line[s.pos:]
}

func (s *requirementScanner) advance() bool {
	if s.next >= len(s.lines) {
		return false
	}
	s.line = s.lines[s.next]
	s.next++
	s.pos = 0
	return true
}

// matchLen returns the length of an anchored match of re against s.
func matchLen(re *regexp.Regexp, s string) (int, bool) {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// scanList consumes a comma-separated list of items up to the terminator,
// crossing line continuations. It returns each item's submatches.
func (s *requirementScanner) scanList(item, terminator *regexp.Regexp, what string) ([][]string, error) {
	var items [][]string
	for {
		if _, done := matchLen(terminator, s.rest()); done {
			break
		}
		if _, cont := matchLen(continuePattern, s.rest()); cont {
			if !s.advance() {
				return nil, &MalformedRequirementError{
					Input:  s.line,
					Reason: `line continuation "\" on the last line`,
				}
			}
		}
		m := item.FindStringSubmatch(s.rest())
		if m == nil {
			return nil, &MalformedRequirementError{
				Input:  s.line,
				Reason: fmt.Sprintf("expected %s at %q", what, s.rest()),
			}
		}
		items = append(items, m[1:])
		s.pos += len(m[0])

		if n, ok := matchLen(commaPattern, s.rest()); ok {
			s.pos += n
		} else if _, done := matchLen(terminator, s.rest()); !done {
			return nil, &MalformedRequirementError{
				Input:  s.line,
				Reason: fmt.Sprintf(`expected "," or end of %s list at %q`, what, s.rest()),
			}
		}
	}
	if n, ok := matchLen(terminator, s.rest()); ok {
		s.pos += n
	}
	return items, nil
}

func parseRequirementLines(lines []string) ([]Requirement, error) {
	s := &requirementScanner{lines: lines}
	var reqs []Requirement

	for s.advance() {
		m := namePattern.FindStringSubmatch(s.rest())
		if m == nil {
			return nil, &MalformedRequirementError{Input: s.line, Reason: "expected project name"}
		}
		name := m[1]
		s.pos += len(m[0])

		var extras []string
		if n, ok := matchLen(obracketPattern, s.rest()); ok {
			s.pos += n
			items, err := s.scanList(namePattern, cbracketPattern, "option")
			if err != nil {
				return nil, err
			}
			for _, it := range items {
				extras = append(extras, it[0])
			}
		}

		items, err := s.scanList(specPattern, lineEndPattern, "version spec")
		if err != nil {
			return nil, err
		}
		specs := make([]Specifier, 0, len(items))
		for _, it := range items {
			specs = append(specs, Specifier{Op: it[0], Version: it[1]})
		}

		req, err := NewRequirement(name, specs, extras...)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
