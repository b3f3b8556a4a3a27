package gopkgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/go-pkgres/version"
)

func checkFooPkg(t *testing.T, d *Distribution) {
	t.Helper()
	assert.Equal(t, "FooPkg", d.Name())
	assert.Equal(t, "foopkg", d.Key())
	assert.Equal(t, "1.3-1", d.Version())
	assert.Equal(t, "2.4", d.RuntimeTag())
	assert.Equal(t, "win32", d.Platform())
	assert.True(t, d.ParsedVersion().Equal(version.Parse("1.3-1")))
}

func TestNewDistribution(t *testing.T) {
	d := NewDistribution("/some/path",
		WithName("FooPkg"),
		WithVersion("1.3-1"),
		WithRuntimeTag("2.4"),
		WithPlatform("win32"),
	)
	checkFooPkg(t, d)

	assert.Equal(t, "/some/path", d.Location())
	assert.Equal(t, "FooPkg 1.3-1", d.String())
	assert.True(t, d.InstalledOn([]string{"/other", "/some/path"}))
	assert.False(t, d.InstalledOn([]string{"/other"}))
	assert.False(t, d.InstalledOn(nil))
}

func TestNewDistributionDefaults(t *testing.T) {
	d := NewDistribution("", WithName("Foo"), WithVersion("1.0"))

	assert.NotEmpty(t, d.RuntimeTag(), "runtime tag defaults to the host runtime")
	assert.Empty(t, d.Platform())
	assert.Nil(t, d.Metadata())
}

func TestDistributionFromFilename(t *testing.T) {
	d, err := DistributionFromFilename("FooPkg-1.3_1-py2.4-win32.egg")
	require.NoError(t, err)
	checkFooPkg(t, d)
	assert.Equal(t, "FooPkg-1.3_1-py2.4-win32.egg", d.Location())

	d, err = DistributionFromFilename("/plugins/Twisted-1.5.1.egg")
	require.NoError(t, err)
	assert.Equal(t, "Twisted", d.Name())
	assert.Equal(t, "1.5.1", d.Version())
	assert.Empty(t, d.Platform())
}

func TestDistributionFromFilenameMalformed(t *testing.T) {
	for _, path := range []string{"FooPkg.egg", "-1.0.egg", ""} {
		_, err := DistributionFromFilename(path)
		require.Error(t, err, "path %q", path)

		var fnErr *MalformedFilenameError
		assert.True(t, errors.As(err, &fnErr))
	}
}

func TestDistributionPkgInfoFallback(t *testing.T) {
	meta := NewMapMetadata(map[string]string{
		"PKG-INFO": "Metadata-Version: 1.0\nName: FooPkg\nVersion: 1.3-1\n",
	})
	d := NewDistribution("/some/path", WithMetadata(meta))

	assert.Equal(t, "FooPkg", d.Name())
	assert.Equal(t, "1.3-1", d.Version())
	assert.True(t, d.ParsedVersion().Equal(version.Parse("1.3-1")))

	// Explicit fields win over PKG-INFO.
	d = NewDistribution("/some/path", WithMetadata(meta), WithVersion("2.0"))
	assert.Equal(t, "FooPkg", d.Name())
	assert.Equal(t, "2.0", d.Version())
}

func mustDepends(t *testing.T, d *Distribution, extras ...string) []Requirement {
	t.Helper()
	deps, err := d.Depends(extras...)
	require.NoError(t, err)
	return deps
}

func mustRequirements(t *testing.T, text string) []Requirement {
	t.Helper()
	reqs, err := ParseRequirements(text)
	require.NoError(t, err)
	return reqs
}

func TestDistributionDependsSimple(t *testing.T) {
	for _, deps := range []string{"Twisted>=1.5", "Twisted>=1.5\nZConfig>=2.0"} {
		d := NewDistribution("", WithName("Foo"), WithVersion("1.0"),
			WithMetadata(NewMapMetadata(map[string]string{"depends.txt": deps})))
		assert.Equal(t, mustRequirements(t, deps), mustDepends(t, d))
	}
}

func TestDistributionDependsNoMetadata(t *testing.T) {
	d := NewDistribution("", WithName("Foo"), WithVersion("1.0"))
	assert.Empty(t, mustDepends(t, d))

	d = NewDistribution("", WithName("Foo"), WithVersion("1.0"),
		WithMetadata(NewMapMetadata(nil)))
	assert.Empty(t, mustDepends(t, d))
}

func TestDistributionDependsOptions(t *testing.T) {
	d := NewDistribution("", WithName("Foo"), WithVersion("1.0"),
		WithMetadata(NewMapMetadata(map[string]string{
			"depends.txt": `
				Twisted>=1.5
				[docgen]
				ZConfig>=2.0
				docutils>=0.3
				[fastcgi]
				fcgiapp>=0.1
				`,
		})))

	assert.Equal(t, mustRequirements(t, "Twisted>=1.5"), mustDepends(t, d))
	assert.Equal(t,
		mustRequirements(t, "Twisted>=1.5\nZConfig>=2.0\ndocutils>=0.3"),
		mustDepends(t, d, "docgen"))
	assert.Equal(t,
		mustRequirements(t, "Twisted>=1.5\nfcgiapp>=0.1"),
		mustDepends(t, d, "fastcgi"))
	assert.Equal(t,
		mustRequirements(t, "Twisted>=1.5\nZConfig>=2.0\ndocutils>=0.3\nfcgiapp>=0.1"),
		mustDepends(t, d, "docgen", "fastcgi"))
	assert.Equal(t,
		mustRequirements(t, "Twisted>=1.5\nfcgiapp>=0.1\nZConfig>=2.0\ndocutils>=0.3"),
		mustDepends(t, d, "fastcgi", "docgen"))

	// Extras names are case-insensitive, and a repeated extra repeats its
	// section.
	assert.Equal(t,
		mustDepends(t, d, "docgen"),
		mustDepends(t, d, "DocGen"))
	assert.Equal(t,
		mustRequirements(t, "Twisted>=1.5\nfcgiapp>=0.1\nfcgiapp>=0.1"),
		mustDepends(t, d, "fastcgi", "fastcgi"))

	_, err := d.Depends("foo")
	require.Error(t, err)

	var optErr *InvalidOptionError
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, "foo", optErr.Option)
	assert.Same(t, d, optErr.Distribution)
}

func TestDistributionDependsMalformed(t *testing.T) {
	d := NewDistribution("", WithName("Foo"), WithVersion("1.0"),
		WithMetadata(NewMapMetadata(map[string]string{"depends.txt": ">=2.3"})))

	_, err := d.Depends()
	require.Error(t, err)

	var reqErr *MalformedRequirementError
	assert.True(t, errors.As(err, &reqErr))

	// The parse failure is sticky across calls.
	_, err2 := d.Depends()
	assert.Equal(t, err, err2)
}
