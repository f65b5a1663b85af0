// Package registry enumerates installed Python distributions by reading the
// dist-info metadata directories under the interpreter's site-packages
// paths. Reads are best-effort throughout: a distribution that cannot be
// read is skipped and counted, never fatal, so one broken package can never
// block an upgrade run.
package registry

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajxudir/pipselect/pkg/pypi"
	"github.com/ajxudir/pipselect/pkg/verbose"
)

const (
	distInfoSuffix = ".dist-info"
	eggInfoSuffix  = ".egg-info"

	metadataFile = "METADATA"
	pkgInfoFile  = "PKG-INFO"

	// installerFile is the provenance marker pip writes on install. Conda
	// and uv write their own identifier into the same file.
	installerFile = "INSTALLER"
)

// Distribution describes one installed Python distribution.
//
// Fields:
//   - Name: Display name from the metadata headers
//   - Version: Version string, empty when the metadata omits it
//   - Installer: Lowercase provenance marker, empty when unknown
//   - Path: Metadata directory the distribution was read from
type Distribution struct {
	// Name is the distribution name as written in its metadata.
	Name string

	// Version is the installed version, not semantically parsed.
	Version string

	// Installer is the trimmed, lowercased INSTALLER marker content.
	// Empty when the marker file is absent or unreadable.
	Installer string

	// Path is the dist-info directory the record came from.
	Path string
}

// Discover enumerates installed distributions across site-packages dirs.
//
// It performs the following operations:
//   - Step 1: Lists each site directory for dist-info and egg-info entries
//   - Step 2: Reads each candidate via readDistribution
//   - Step 3: Folds per-unit read failures into a skip count
//   - Step 4: Drops duplicates, keeping the first occurrence in path order
//
// Earlier site directories shadow later ones, mirroring how the interpreter
// resolves imports. Unreadable site directories contribute no units and no
// skips; a directory that is not there simply has nothing installed in it.
//
// Parameters:
//   - siteDirs: site-packages directories in interpreter path order
//
// Returns:
//   - []Distribution: Readable distributions in discovery order
//   - int: Number of metadata directories skipped due to read failures
func Discover(siteDirs []string) ([]Distribution, int) {
	var dists []Distribution
	skipped := 0
	seen := make(map[string]struct{})

	for _, dir := range siteDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			verbose.Printf("registry: cannot read %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() || !isMetadataDir(entry.Name()) {
				continue
			}

			dist, err := readDistribution(filepath.Join(dir, entry.Name()))
			if err != nil {
				verbose.Printf("registry: skipped %s: %v", entry.Name(), err)
				skipped++
				continue
			}

			key := pypi.Normalize(dist.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			dists = append(dists, dist)
		}
	}

	return dists, skipped
}

// isMetadataDir reports whether a directory name looks like distribution
// metadata.
func isMetadataDir(name string) bool {
	return strings.HasSuffix(name, distInfoSuffix) || strings.HasSuffix(name, eggInfoSuffix)
}

// readDistribution reads a single metadata directory into a Distribution.
//
// It performs the following operations:
//   - Reads METADATA (dist-info) or PKG-INFO (egg-info) headers
//   - Requires a non-empty Name header
//   - Reads the INSTALLER marker best-effort
//
// Parameters:
//   - path: Absolute metadata directory path
//
// Returns:
//   - Distribution: The decoded record
//   - error: When the metadata file is unreadable or carries no name
func readDistribution(path string) (Distribution, error) {
	data, err := readMetadataFile(path)
	if err != nil {
		return Distribution{}, err
	}

	name, version := parseMetadataHeaders(data)
	if name == "" {
		return Distribution{}, fmt.Errorf("metadata has no Name header")
	}

	return Distribution{
		Name:      name,
		Version:   version,
		Installer: readInstaller(path),
		Path:      path,
	}, nil
}

// readMetadataFile loads the metadata document for a metadata directory,
// trying METADATA first and PKG-INFO second so both dist-info and egg-info
// layouts are covered.
func readMetadataFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(path, metadataFile))
	if err == nil {
		return data, nil
	}

	data, pkgErr := os.ReadFile(filepath.Join(path, pkgInfoFile))
	if pkgErr == nil {
		return data, nil
	}

	return nil, fmt.Errorf("no readable metadata file: %w", err)
}

// parseMetadataHeaders extracts the Name and Version headers.
//
// Only the header block is scanned: the first blank line ends parsing, so
// "Name:" lines inside a long description are never misread. Header keys
// match case-insensitively, and the first occurrence of each wins.
//
// Parameters:
//   - data: Raw metadata document content
//
// Returns:
//   - string: Name header value, empty when absent
//   - string: Version header value, empty when absent
func parseMetadataHeaders(data []byte) (string, string) {
	var name, version string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch {
		case name == "" && strings.EqualFold(key, "Name"):
			name = value
		case version == "" && strings.EqualFold(key, "Version"):
			version = value
		}

		if name != "" && version != "" {
			break
		}
	}

	return name, version
}

// readInstaller reads the INSTALLER provenance marker for a metadata
// directory. Absent or unreadable markers yield the empty string, which the
// classifier treats as unknown provenance.
func readInstaller(path string) string {
	data, err := os.ReadFile(filepath.Join(path, installerFile))
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(string(data)))
}
