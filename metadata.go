package gopkgres

import (
	"fmt"
	"os"
	"path/filepath"
)

// MetadataProvider is the capability a distribution uses to read its
// metadata records (PKG-INFO, depends.txt, ...). Record names use "/" as
// the separator regardless of platform. Any concrete backend, whether
// on-disk, in-memory or archive-backed, implements these three operations.
type MetadataProvider interface {
	// HasMetadata reports whether the named record exists.
	HasMetadata(name string) bool

	// GetMetadata returns the named record's full text.
	GetMetadata(name string) (string, error)

	// GetMetadataLines returns the named record as meaningful lines:
	// trimmed, with blanks and "#" comment lines removed.
	GetMetadataLines(name string) ([]string, error)
}

// MapMetadata is an in-memory MetadataProvider backed by a record-name to
// content map. It is the natural backend for tests and for distributions
// whose metadata was produced programmatically.
type MapMetadata map[string]string

// NewMapMetadata copies the given records into a MapMetadata.
func NewMapMetadata(records map[string]string) MapMetadata {
	m := make(MapMetadata, len(records))
	for name, content := range records {
		m[name] = content
	}
	return m
}

func (m MapMetadata) HasMetadata(name string) bool {
	_, ok := m[name]
	return ok
}

func (m MapMetadata) GetMetadata(name string) (string, error) {
	content, ok := m[name]
	if !ok {
		return "", fmt.Errorf("no metadata record %q", name)
	}
	return content, nil
}

func (m MapMetadata) GetMetadataLines(name string) ([]string, error) {
	content, err := m.GetMetadata(name)
	if err != nil {
		return nil, err
	}
	return YieldLines(content), nil
}

// DirMetadata is a MetadataProvider reading records as files under a
// metadata directory (an EGG-INFO-style layout).
type DirMetadata struct {
	dir string
}

// NewDirMetadata returns a provider rooted at the given directory.
func NewDirMetadata(dir string) *DirMetadata {
	return &DirMetadata{dir: dir}
}

func (d *DirMetadata) path(name string) string {
	return filepath.Join(d.dir, filepath.FromSlash(name))
}

func (d *DirMetadata) HasMetadata(name string) bool {
	info, err := os.Stat(d.path(name))
	return err == nil && !info.IsDir()
}

func (d *DirMetadata) GetMetadata(name string) (string, error) {
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		return "", fmt.Errorf("read metadata record %q: %w", name, err)
	}
	return string(data), nil
}

func (d *DirMetadata) GetMetadataLines(name string) ([]string, error) {
	content, err := d.GetMetadata(name)
	if err != nil {
		return nil, err
	}
	return YieldLines(content), nil
}
