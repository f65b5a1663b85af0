package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SiteDirBuilder provides a fluent API for building site-packages fixtures.
//
// Use this builder to lay out dist-info metadata directories on disk the
// way pip writes them, without constructing each file manually.
type SiteDirBuilder struct {
	t    *testing.T
	path string
}

// NewSiteDir creates a SiteDirBuilder rooted in a fresh temp directory.
//
// Parameters:
//   - t: Testing instance for fixture cleanup
//
// Returns:
//   - *SiteDirBuilder: New builder instance ready for method chaining
func NewSiteDir(t *testing.T) *SiteDirBuilder {
	t.Helper()
	return &SiteDirBuilder{t: t, path: t.TempDir()}
}

// WithDist adds a dist-info directory with METADATA and INSTALLER files.
//
// An empty installer leaves the INSTALLER marker file out entirely, which
// is how distributions installed by older tools appear on disk.
//
// Parameters:
//   - name: Distribution name written to the Name header
//   - version: Version written to the Version header
//   - installer: INSTALLER marker content; empty omits the file
//
// Returns:
//   - *SiteDirBuilder: Builder instance for method chaining
func (b *SiteDirBuilder) WithDist(name, version, installer string) *SiteDirBuilder {
	b.t.Helper()

	dir := filepath.Join(b.path, fmt.Sprintf("%s-%s.dist-info", strings.ReplaceAll(name, "-", "_"), version))
	require.NoError(b.t, os.MkdirAll(dir, 0o755))

	metadata := fmt.Sprintf("Metadata-Version: 2.1\nName: %s\nVersion: %s\n\nDescription body.\n", name, version)
	require.NoError(b.t, os.WriteFile(filepath.Join(dir, "METADATA"), []byte(metadata), 0o644))

	if installer != "" {
		require.NoError(b.t, os.WriteFile(filepath.Join(dir, "INSTALLER"), []byte(installer+"\n"), 0o644))
	}

	return b
}

// WithBrokenDist adds a dist-info directory whose METADATA is unreadable
// as a distribution record (no Name header), exercising skip handling.
//
// Parameters:
//   - dirName: Literal dist-info directory name to create
//
// Returns:
//   - *SiteDirBuilder: Builder instance for method chaining
func (b *SiteDirBuilder) WithBrokenDist(dirName string) *SiteDirBuilder {
	b.t.Helper()

	dir := filepath.Join(b.path, dirName)
	require.NoError(b.t, os.MkdirAll(dir, 0o755))
	require.NoError(b.t, os.WriteFile(filepath.Join(dir, "METADATA"), []byte("Metadata-Version: 2.1\n\n"), 0o644))

	return b
}

// Path returns the site-packages directory the builder populated.
func (b *SiteDirBuilder) Path() string {
	return b.path
}

// CondaPrefixBuilder provides a fluent API for building conda environment
// fixtures with a conda-meta manifest directory.
type CondaPrefixBuilder struct {
	t    *testing.T
	path string
}

// NewCondaPrefix creates a CondaPrefixBuilder rooted in a fresh temp
// directory with an empty conda-meta subdirectory.
//
// Parameters:
//   - t: Testing instance for fixture cleanup
//
// Returns:
//   - *CondaPrefixBuilder: New builder instance ready for method chaining
func NewCondaPrefix(t *testing.T) *CondaPrefixBuilder {
	t.Helper()

	path := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(path, "conda-meta"), 0o755))

	return &CondaPrefixBuilder{t: t, path: path}
}

// WithMeta adds a conda-meta manifest declaring one package name.
//
// Parameters:
//   - name: Package name written to the manifest's name field
//   - version: Version used in the manifest filename and version field
//
// Returns:
//   - *CondaPrefixBuilder: Builder instance for method chaining
func (b *CondaPrefixBuilder) WithMeta(name, version string) *CondaPrefixBuilder {
	b.t.Helper()

	content := fmt.Sprintf(`{"name": %q, "version": %q, "build": "py311_0"}`, name, version)
	file := filepath.Join(b.path, "conda-meta", fmt.Sprintf("%s-%s-py311_0.json", name, version))
	require.NoError(b.t, os.WriteFile(file, []byte(content), 0o644))

	return b
}

// Path returns the conda prefix directory the builder populated.
func (b *CondaPrefixBuilder) Path() string {
	return b.path
}
