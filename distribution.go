package gopkgres

import (
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/albertocavalcante/go-pkgres/version"
)

// pkgInfoRecord is the metadata record carrying the Name: and Version:
// headers a distribution falls back to when those fields are not given.
const pkgInfoRecord = "PKG-INFO"

// dependsRecord is the sectioned metadata record declaring dependencies.
const dependsRecord = "depends.txt"

// Distribution is one version of one installable project: identity,
// version, runtime/platform tags, a location (opaque; used only for
// membership tests against a search path) and an optional metadata
// capability. Distributions are immutable once constructed.
type Distribution struct {
	location   string
	name       string
	ver        string
	runtimeTag string
	platform   string
	metadata   MetadataProvider

	parsed version.Key

	depOnce sync.Once
	depMap  map[string][]Requirement
	depErr  error
}

// DistOption configures a Distribution under construction.
type DistOption func(*Distribution)

// WithName sets the declared project name.
func WithName(name string) DistOption {
	return func(d *Distribution) { d.name = name }
}

// WithVersion sets the version string.
func WithVersion(ver string) DistOption {
	return func(d *Distribution) { d.ver = ver }
}

// WithRuntimeTag sets the runtime-version tag ("2.4" in a "-py2.4"
// filename segment). Unset, it defaults to the host runtime's own
// major.minor version.
func WithRuntimeTag(tag string) DistOption {
	return func(d *Distribution) { d.runtimeTag = tag }
}

// WithPlatform sets the platform tag. Unset means platform-independent.
func WithPlatform(platform string) DistOption {
	return func(d *Distribution) { d.platform = platform }
}

// WithMetadata attaches the metadata capability the distribution reads
// PKG-INFO and depends.txt through.
func WithMetadata(m MetadataProvider) DistOption {
	return func(d *Distribution) { d.metadata = m }
}

// WithParsedVersion overrides the parsed version key, for callers that
// already hold one. Version comparisons always use the key.
func WithParsedVersion(k version.Key) DistOption {
	return func(d *Distribution) { d.parsed = k }
}

// NewDistribution constructs a distribution at the given location. Name
// and version fall back to the metadata's PKG-INFO record when not set
// explicitly; the runtime tag falls back to the host runtime version.
func NewDistribution(location string, opts ...DistOption) *Distribution {
	d := &Distribution{location: location}
	for _, opt := range opts {
		opt(d)
	}

	if (d.name == "" || d.ver == "") && d.metadata != nil && d.metadata.HasMetadata(pkgInfoRecord) {
		name, ver := readPkgInfo(d.metadata)
		if d.name == "" {
			d.name = name
		}
		if d.ver == "" {
			d.ver = ver
		}
	}
	if d.runtimeTag == "" {
		d.runtimeTag = hostRuntimeTag()
	}
	if d.parsed.Equal(version.Key{}) {
		d.parsed = version.Parse(d.ver)
	}
	return d
}

// readPkgInfo extracts the Name: and Version: headers from PKG-INFO.
func readPkgInfo(m MetadataProvider) (name, ver string) {
	lines, err := m.GetMetadataLines(pkgInfoRecord)
	if err != nil {
		return "", ""
	}
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "name:"):
			name = strings.TrimSpace(line[len("name:"):])
		case strings.HasPrefix(lower, "version:"):
			ver = strings.TrimSpace(line[len("version:"):])
		}
	}
	return name, ver
}

// hostRuntimeTag derives the default runtime tag from the running Go
// toolchain: "go1.25.5" becomes "1.25".
func hostRuntimeTag() string {
	v := strings.TrimPrefix(runtime.Version(), "go")
	if i := strings.Index(v, "."); i >= 0 {
		if j := strings.Index(v[i+1:], "."); j >= 0 {
			return v[:i+1+j]
		}
	}
	return v
}

// distFilenamePattern isolates the fields of a distribution filename stem:
// Name-Version, optionally -pyX.Y, optionally -platform (anything after
// the runtime segment).
var distFilenamePattern = regexp.MustCompile(
	`^(?i)(?P<name>[^-]+)-(?P<ver>[^-]+)(?:-py(?P<pyver>[^-]+)(?:-(?P<plat>.+))?)?$`,
)

// DistributionFromFilename parses a filename of the form
// Name-Version[-pyX.Y][-platform].ext into a distribution located at the
// given path. Underscores in the name and version fields are restored to
// hyphens ("FooPkg-1.3_1.egg" carries version "1.3-1"). It fails with
// MalformedFilenameError when the name and version cannot be isolated.
func DistributionFromFilename(path string, opts ...DistOption) (*Distribution, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	m := distFilenamePattern.FindStringSubmatch(stem)
	if m == nil {
		return nil, &MalformedFilenameError{Filename: path}
	}
	name, ver, pyver, plat := m[1], m[2], m[3], m[4]

	fields := []DistOption{
		WithName(strings.ReplaceAll(name, "_", "-")),
		WithVersion(strings.ReplaceAll(ver, "_", "-")),
	}
	if pyver != "" {
		fields = append(fields, WithRuntimeTag(pyver))
	}
	if plat != "" {
		fields = append(fields, WithPlatform(plat))
	}
	return NewDistribution(path, append(fields, opts...)...), nil
}

// Location returns the opaque path/identifier the distribution lives at.
func (d *Distribution) Location() string { return d.location }

// Name returns the declared project name.
func (d *Distribution) Name() string { return d.name }

// Key returns the normalized project key the index files this
// distribution under.
func (d *Distribution) Key() string { return strings.ToLower(d.name) }

// Version returns the version string.
func (d *Distribution) Version() string { return d.ver }

// ParsedVersion returns the version's ordering key.
func (d *Distribution) ParsedVersion() version.Key { return d.parsed }

// RuntimeTag returns the runtime-version tag.
func (d *Distribution) RuntimeTag() string { return d.runtimeTag }

// Platform returns the platform tag; empty means platform-independent.
func (d *Distribution) Platform() string { return d.platform }

// Metadata returns the attached metadata capability, or nil.
func (d *Distribution) Metadata() MetadataProvider { return d.metadata }

// String renders the distribution as "Name Version" for errors and logs.
func (d *Distribution) String() string {
	if d.ver == "" {
		return d.name
	}
	return d.name + " " + d.ver
}

// InstalledOn reports whether the distribution's location appears in the
// given search path.
func (d *Distribution) InstalledOn(path []string) bool {
	for _, entry := range path {
		if entry == d.location {
			return true
		}
	}
	return false
}

// loadDepMap parses depends.txt once: the unnamed section keyed by "",
// each named section keyed by its lowercased extras name. A distribution
// without the record simply has no dependencies.
func (d *Distribution) loadDepMap() (map[string][]Requirement, error) {
	d.depOnce.Do(func() {
		d.depMap = map[string][]Requirement{}
		if d.metadata == nil || !d.metadata.HasMetadata(dependsRecord) {
			return
		}
		lines, err := d.metadata.GetMetadataLines(dependsRecord)
		if err != nil {
			d.depErr = err
			return
		}
		sections, err := SplitSections(lines)
		if err != nil {
			d.depErr = err
			return
		}
		for _, sec := range sections {
			reqs, err := ParseRequirementLines(sec.Lines...)
			if err != nil {
				d.depErr = err
				return
			}
			d.depMap[sec.Name] = append(d.depMap[sec.Name], reqs...)
		}
	})
	return d.depMap, d.depErr
}

// Depends returns the distribution's requirements: the default section
// first, then each requested extra's section in caller order, each in
// file order. Requesting an extra twice appends its section twice. An
// extras name with no matching section fails with InvalidOptionError.
func (d *Distribution) Depends(extras ...string) ([]Requirement, error) {
	dm, err := d.loadDepMap()
	if err != nil {
		return nil, err
	}

	deps := append([]Requirement(nil), dm[""]...)
	for _, extra := range extras {
		reqs, ok := dm[strings.ToLower(extra)]
		if !ok {
			return nil, &InvalidOptionError{Distribution: d, Option: extra}
		}
		deps = append(deps, reqs...)
	}
	return deps, nil
}
