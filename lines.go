package gopkgres

import "strings"

// YieldLines splits a block of metadata text into its meaningful lines:
// each line is whitespace-trimmed, and blank lines and lines opening with
// a "#" comment are dropped.
func YieldLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// YieldLinesFrom applies YieldLines to each chunk of an already line-shaped
// source. Chunks may themselves contain embedded newlines; the result is
// the flattened sequence of meaningful lines.
func YieldLinesFrom(chunks ...string) []string {
	var out []string
	for _, chunk := range chunks {
		out = append(out, YieldLines(chunk)...)
	}
	return out
}

// Section is one named group of lines from a sectioned metadata record
// such as depends.txt. The leading unnamed section has an empty Name;
// named sections carry their header lowercased and trimmed.
type Section struct {
	Name  string
	Lines []string
}

// SplitSections groups meaningful lines into sections delimited by
// "[name]" headers. Lines before the first header form the unnamed
// section, which is emitted only when non-empty; every named section is
// emitted even when empty, and the section in progress at end of input is
// always emitted. A header missing its closing bracket fails with
// MalformedSectionError.
func SplitSections(lines []string) ([]Section, error) {
	var (
		sections []Section
		name     string
		content  []string
	)

	for _, line := range YieldLinesFrom(lines...) {
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, &MalformedSectionError{Line: line}
			}
			if name != "" || len(content) > 0 {
				sections = append(sections, Section{Name: name, Lines: content})
			}
			name = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			content = nil
			continue
		}
		content = append(content, line)
	}

	return append(sections, Section{Name: name, Lines: content}), nil
}
