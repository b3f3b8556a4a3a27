package gopkgres

import (
	"errors"
	"fmt"
)

// Sentinel errors for index membership failures.
var (
	// ErrNotFound indicates a distribution passed to Remove is not in the index.
	ErrNotFound = errors.New("distribution not in index")

	// ErrKeyNotFound indicates a project key lookup found no distributions.
	ErrKeyNotFound = errors.New("project key not in index")
)

// MalformedRequirementError indicates requirement text that does not parse:
// a missing name, unparseable trailing content, a dangling line
// continuation, or the wrong number of requirements for the call.
type MalformedRequirementError struct {
	// Input is the offending logical line (or whole input, for count errors).
	Input string

	// Reason describes what was expected.
	Reason string
}

func (e *MalformedRequirementError) Error() string {
	return fmt.Sprintf("malformed requirement %q: %s", e.Input, e.Reason)
}

// MalformedFilenameError indicates a distribution filename whose name and
// version fields cannot be isolated.
type MalformedFilenameError struct {
	Filename string
}

func (e *MalformedFilenameError) Error() string {
	return fmt.Sprintf("malformed distribution filename %q: cannot isolate name and version", e.Filename)
}

// MalformedSectionError indicates a section header with no closing bracket
// in a sectioned metadata record.
type MalformedSectionError struct {
	Line string
}

func (e *MalformedSectionError) Error() string {
	return fmt.Sprintf("malformed section heading %q", e.Line)
}

// InvalidOptionError indicates Depends was asked for an extras name the
// distribution declares no section for.
type InvalidOptionError struct {
	Distribution *Distribution
	Option       string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%s has no option %q", e.Distribution, e.Option)
}

// DistributionNotFoundError indicates resolution found no distribution,
// on the path or in the index, satisfying a requirement.
type DistributionNotFoundError struct {
	// Requirement is the requirement that could not be satisfied.
	Requirement Requirement
}

func (e *DistributionNotFoundError) Error() string {
	return fmt.Sprintf("no distribution found for %s", e.Requirement)
}

// VersionConflictError indicates an already-selected distribution (from
// the search path, or chosen earlier in the same resolve call) does not
// satisfy a requirement for the same project.
type VersionConflictError struct {
	// Requirement is the requirement the selected distribution fails.
	Requirement Requirement

	// Distribution is the conflicting already-selected distribution.
	Distribution *Distribution
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: %s is selected but %s is required", e.Distribution, e.Requirement)
}

// KeyNotFoundError reports a Lookup of a project key with no entries.
// It matches ErrKeyNotFound under errors.Is.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("project key %q not in index", e.Key)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}
