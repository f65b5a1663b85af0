// Package conda detects an active conda environment and reads its package
// manifest so conda-managed distributions can be excluded from upgrades.
// Conda package names do not always match PyPI names, so the manifest is a
// secondary exclusion signal layered on top of the per-distribution
// INSTALLER marker.
package conda

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajxudir/pipselect/pkg/pypi"
	"github.com/ajxudir/pipselect/pkg/verbose"
)

// metaDirName is the directory conda keeps its per-package manifests in.
const metaDirName = "conda-meta"

// Detect determines whether a conda environment is active.
//
// It performs the following operations:
//   - Step 1: Checks the injected environment variable value for an existing path
//   - Step 2: Falls back to probing the interpreter prefix for a conda-meta directory
//
// The environment variable is read by the caller and passed in as a value,
// keeping this package free of ambient process state.
//
// Parameters:
//   - envValue: Value of the conda prefix variable (typically CONDA_PREFIX); may be empty
//   - pythonPrefix: sys.prefix of the resolved interpreter
//
// Returns:
//   - string: The conda environment root
//   - bool: true when a conda environment was found
func Detect(envValue, pythonPrefix string) (string, bool) {
	if envValue != "" {
		if _, err := os.Stat(envValue); err == nil {
			verbose.CondaEnvironment(envValue, "environment variable")
			return envValue, true
		}
	}

	if pythonPrefix != "" {
		meta := filepath.Join(pythonPrefix, metaDirName)
		if info, err := os.Stat(meta); err == nil && info.IsDir() {
			verbose.CondaEnvironment(pythonPrefix, "prefix probe")
			return pythonPrefix, true
		}
	}

	return "", false
}

// condaManifest is the subset of a conda-meta JSON document read here.
type condaManifest struct {
	Name string `json:"name"`
}

// MetaNames reads the package names declared by a conda environment.
//
// It performs the following operations:
//   - Globs conda-meta/*.json under the environment root
//   - Decodes each manifest's name field
//   - Normalizes names via pypi.Normalize into a set
//
// Unreadable or malformed manifest files are skipped silently; a missing
// conda-meta directory yields an empty set. This function never fails.
//
// Parameters:
//   - prefix: The conda environment root
//
// Returns:
//   - map[string]struct{}: Set of normalized conda package names
func MetaNames(prefix string) map[string]struct{} {
	names := make(map[string]struct{})

	matches, err := filepath.Glob(filepath.Join(prefix, metaDirName, "*.json"))
	if err != nil {
		return names
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var manifest condaManifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			continue
		}

		if strings.TrimSpace(manifest.Name) == "" {
			continue
		}

		names[pypi.Normalize(manifest.Name)] = struct{}{}
	}

	return names
}
